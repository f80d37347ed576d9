package config

import (
	"fmt"
	"os"
	"strconv"

	oerrors "github.com/openprint3d/op3d/internal/errors"
	"github.com/openprint3d/op3d/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is one configuration value with its origin.
type ResolvedValue struct {
	Key    string       `json:"key,omitempty"`
	Value  string       `json:"value"`
	Source ConfigSource `json:"source"`
	// Shadowed holds values from lower-precedence sources that were overridden.
	Shadowed map[ConfigSource]string `json:"shadowed,omitempty"`
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) OP3D_CONFIG env, (3) ~/.op3d/config.yaml default
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolveConfigPathResult, error) {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv(EnvConfig)

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	switch {
	case opts.FlagValue != "":
		result.ConfigPath = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	case envValue != "":
		result.ConfigPath = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	default:
		result.ConfigPath = defaultPath
		result.Source = SourceDefault
	}

	return result, nil
}

// ResolveAllOptions contains the inputs to ResolveAll.
type ResolveAllOptions struct {
	// ConfigFlag is the --config flag value.
	ConfigFlag string

	// Flags holds the values of flags the user explicitly set, keyed by
	// config key (e.g. output.indent).
	Flags map[string]string
}

// ResolvedConfig is the effective configuration for one invocation.
type ResolvedConfig struct {
	ConfigPath ResolvedValue

	Timestamps  bool
	Indent      int
	Color       output.ColorMode
	ProfilesDir string
	Separator   string

	// Values lists every key in Keys() order.
	Values []ResolvedValue
}

// Value returns the resolved entry for key.
func (r *ResolvedConfig) Value(key string) (ResolvedValue, bool) {
	for _, v := range r.Values {
		if v.Key == key {
			return v, true
		}
	}
	return ResolvedValue{}, false
}

// ResolveAll loads the config file and resolves every key using precedence
// flag > env > config > default. The merged result is validated against the
// embedded schema.
func ResolveAll(opts ResolveAllOptions) (*ResolvedConfig, error) {
	pathResult, err := ResolveConfigPath(ResolveConfigPathOptions{FlagValue: opts.ConfigFlag})
	if err != nil {
		return nil, err
	}

	loader := NewLoader()
	if _, err := loader.Load(pathResult.ConfigPath); err != nil {
		return nil, oerrors.NewInvalidFormatError(err.Error(), pathResult.ConfigPath, err)
	}

	out := &ResolvedConfig{
		ConfigPath: ResolvedValue{
			Key:      "config",
			Value:    loader.Path(),
			Source:   pathResult.Source,
			Shadowed: pathResult.Shadowed,
		},
	}

	for _, key := range Keys() {
		rv := ResolvedValue{
			Key:      key,
			Value:    fmt.Sprint(loader.Value(key)),
			Source:   loader.Source(key),
			Shadowed: make(map[ConfigSource]string),
		}
		if flag, ok := opts.Flags[key]; ok {
			rv.Shadowed[rv.Source] = rv.Value
			rv.Value = flag
			rv.Source = SourceFlag
		}
		out.Values = append(out.Values, rv)
	}

	if err := out.apply(); err != nil {
		return nil, err
	}

	v, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if err := v.Validate(out.Config()); err != nil {
		return nil, oerrors.NewUsageError(err.Error(), "fix the value in "+loader.Path()+" or the matching OP3D_* variable")
	}

	return out, nil
}

func (r *ResolvedConfig) apply() error {
	for _, rv := range r.Values {
		switch rv.Key {
		case KeyLogTimestamps:
			b, err := strconv.ParseBool(rv.Value)
			if err != nil {
				return resolveError(rv, "expected true or false")
			}
			r.Timestamps = b
		case KeyOutputIndent:
			n, err := strconv.Atoi(rv.Value)
			if err != nil {
				return resolveError(rv, "expected an integer")
			}
			r.Indent = n
		case KeyOutputColor:
			m, err := output.ParseColorMode(rv.Value)
			if err != nil {
				return resolveError(rv, err.Error())
			}
			r.Color = m
		case KeyProfilesDir:
			dir, err := ExpandPath(rv.Value)
			if err != nil {
				return err
			}
			r.ProfilesDir = dir
		case KeyCompareSeparator:
			r.Separator = rv.Value
		}
	}
	return nil
}

func resolveError(rv ResolvedValue, msg string) error {
	return &oerrors.DetailError{
		Type:    "usage",
		Message: fmt.Sprintf("invalid %s %q: %s", rv.Key, rv.Value, msg),
		Context: map[string]string{"Source": string(rv.Source)},
		Cause:   oerrors.ErrUsage,
	}
}

// Config returns the resolved values as a Config.
func (r *ResolvedConfig) Config() *Config {
	timestamps := r.Timestamps
	return &Config{
		Log:      LogConfig{Timestamps: &timestamps},
		Output:   OutputConfig{Indent: r.Indent, Color: string(r.Color)},
		Profiles: ProfilesConfig{Dir: r.ProfilesDir},
		Compare:  CompareConfig{Separator: r.Separator},
	}
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
