package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// homeDirName is the op3d directory under the user's home.
const homeDirName = ".op3d"

// Paths holds the per-user op3d locations.
type Paths struct {
	// HomeDir is ~/.op3d.
	HomeDir string

	// ConfigFile is ~/.op3d/config.yaml.
	ConfigFile string
}

// DefaultPaths returns the per-user locations for the current HOME.
func DefaultPaths() (*Paths, error) {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("locating home directory: %w", err)
	}
	dir := filepath.Join(userHome, homeDirName)
	return &Paths{HomeDir: dir, ConfigFile: filepath.Join(dir, "config.yaml")}, nil
}

// GetConfigFile returns OP3D_CONFIG when set, else the default config file.
func GetConfigFile() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}
	return paths.ConfigFile, nil
}

// ExpandPath replaces a leading "~" or "~/" with the user's home directory.
// "~user" forms are returned unchanged.
func ExpandPath(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != filepath.Separator) {
		return path, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}
	if rest == "" {
		return userHome, nil
	}
	return filepath.Join(userHome, rest[1:]), nil
}

// ConfigFileExists reports whether configFile (default: GetConfigFile) is
// an existing regular file. A directory at that path is an error.
func ConfigFileExists(configFile string) (bool, error) {
	if configFile == "" {
		var err error
		if configFile, err = GetConfigFile(); err != nil {
			return false, err
		}
	}
	path, err := ExpandPath(configFile)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	case info.IsDir():
		return false, fmt.Errorf("config path %s is a directory", path)
	}
	return true, nil
}
