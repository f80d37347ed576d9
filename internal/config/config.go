// Package config provides configuration loading and management.
package config

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// Configuration keys, as written in config.yaml.
const (
	KeyLogTimestamps    = "log.timestamps"
	KeyOutputIndent     = "output.indent"
	KeyOutputColor      = "output.color"
	KeyProfilesDir      = "profiles.dir"
	KeyCompareSeparator = "compare.separator"
)

// Keys returns every configuration key in display order.
func Keys() []string {
	return []string{KeyLogTimestamps, KeyOutputIndent, KeyOutputColor, KeyProfilesDir, KeyCompareSeparator}
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty" json:"timestamps,omitempty"`
}

// OutputConfig contains document and terminal output settings.
type OutputConfig struct {
	// Indent is the JSON indent width for written profiles.
	Indent int `mapstructure:"indent" yaml:"indent" json:"indent"`

	// Color is one of auto, always or never.
	Color string `mapstructure:"color" yaml:"color" json:"color"`
}

// ProfilesConfig locates the profile tree.
type ProfilesConfig struct {
	// Dir is the base directory of the <kind>/<brand>/ tree used by list and
	// validate. Env: OP3D_PROFILES_DIR
	Dir string `mapstructure:"dir" yaml:"dir" json:"dir"`
}

// CompareConfig contains compare settings.
type CompareConfig struct {
	// Separator joins flattened key segments.
	Separator string `mapstructure:"separator" yaml:"separator" json:"separator"`
}

// Config represents the op3d configuration loaded from ~/.op3d/config.yaml.
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log" json:"log"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output" json:"output"`
	Profiles ProfilesConfig `mapstructure:"profiles" yaml:"profiles" json:"profiles"`
	Compare  CompareConfig  `mapstructure:"compare" yaml:"compare" json:"compare"`
}

// Defaults.
const (
	DefaultIndent      = 2
	DefaultColor       = "auto"
	DefaultProfilesDir = "."
	DefaultSeparator   = "."
)

// DefaultConfig returns a Config with all default values populated.
// Used by `op3d config init` to generate the initial config file.
func DefaultConfig() *Config {
	timestamps := true
	return &Config{
		Log:      LogConfig{Timestamps: &timestamps},
		Output:   OutputConfig{Indent: DefaultIndent, Color: DefaultColor},
		Profiles: ProfilesConfig{Dir: DefaultProfilesDir},
		Compare:  CompareConfig{Separator: DefaultSeparator},
	}
}

// defaultValues maps each key to its default for viper.
func defaultValues() map[string]any {
	return map[string]any{
		KeyLogTimestamps:    true,
		KeyOutputIndent:     DefaultIndent,
		KeyOutputColor:      DefaultColor,
		KeyProfilesDir:      DefaultProfilesDir,
		KeyCompareSeparator: DefaultSeparator,
	}
}

// Render renders c as a commented config file.
func (c *Config) Render() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# op3d configuration\n")
	buf.WriteString("# Values can be overridden with OP3D_* environment variables and flags.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
