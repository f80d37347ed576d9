package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for op3d configuration.
const envPrefix = "OP3D"

// EnvConfig names the config file path variable.
const EnvConfig = "OP3D_CONFIG"

// EnvName returns the environment variable bound to a config key,
// e.g. output.indent -> OP3D_OUTPUT_INDENT.
func EnvName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Loader handles loading and merging configuration from the config file,
// environment variables and defaults.
type Loader struct {
	v    *viper.Viper
	path string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, def := range defaultValues() {
		v.SetDefault(key, def)
		_ = v.BindEnv(key, EnvName(key))
	}

	return &Loader{v: v}
}

// Load loads configuration from the given file path.
// If configFile is empty, it uses the default config file path. A missing
// file is not an error. Environment variables take precedence over file values.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expanded, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}
	l.path = expanded

	l.v.SetConfigFile(expanded)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Path returns the expanded path of the last Load.
func (l *Loader) Path() string {
	return l.path
}

// Value returns the merged value of key (env > config > default).
func (l *Loader) Value(key string) any {
	return l.v.Get(key)
}

// Source reports which layer supplies key, ignoring flags.
func (l *Loader) Source(key string) ConfigSource {
	if v, ok := os.LookupEnv(EnvName(key)); ok && v != "" {
		return SourceEnv
	}
	if l.v.InConfig(key) {
		return SourceConfig
	}
	return SourceDefault
}
