package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/openprint3d/op3d/internal/cmdutil"
	"github.com/openprint3d/op3d/internal/config"
	oerrors "github.com/openprint3d/op3d/internal/errors"
	"github.com/openprint3d/op3d/internal/output"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(g *GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Configuration management for the op3d CLI.`,
		// init and vet must work on a config file that does not resolve.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			output.SetupLogging(output.LogConfig{Verbose: g.Verbose, Timestamps: output.BoolPtr(g.Timestamps)})
			return nil
		},
	}

	c.AddCommand(newConfigInitCmd(g))
	c.AddCommand(newConfigVetCmd(g))
	c.AddCommand(newConfigShowCmd(g))

	return c
}

func newConfigInitCmd(g *GlobalConfig) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a new op3d configuration file",
		Long: `Create a new op3d configuration file with default values.

The configuration file is created at ~/.op3d/config.yaml by default.
Use --config or OP3D_CONFIG to choose a different location.`,
		Args: cmdutil.UsageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, force, g)
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config file")

	return c
}

// configPath returns the expanded config file path selected by --config,
// OP3D_CONFIG or the default location.
func configPath(g *GlobalConfig) (string, error) {
	res, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: g.ConfigFlag})
	if err != nil {
		return "", fmt.Errorf("getting config file path: %w", err)
	}
	path, err := config.ExpandPath(res.ConfigPath)
	if err != nil {
		return "", fmt.Errorf("expanding config path: %w", err)
	}
	return path, nil
}

func runConfigInit(cmd *cobra.Command, force bool, g *GlobalConfig) error {
	path, err := configPath(g)
	if err != nil {
		return err
	}

	exists, err := config.ConfigFileExists(path)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if exists && !force {
		return oerrors.NewExitError(
			&oerrors.DetailError{
				Type:     "config exists",
				Message:  "config file already exists",
				Location: path,
				Hint:     "use --force to overwrite",
			},
			oerrors.ExitGeneralError,
		)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := config.DefaultConfig().Render()
	if err != nil {
		return fmt.Errorf("rendering config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.FormatCheckmark("Config file created: "+path))
	return nil
}

func newConfigVetCmd(g *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate the op3d configuration file",
		Long: `Validate the op3d configuration file against the internal schema.

The command validates ~/.op3d/config.yaml by default.
Use --config or OP3D_CONFIG to choose a different location.`,
		Args: cmdutil.UsageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigVet(cmd, g)
		},
	}
}

func runConfigVet(cmd *cobra.Command, g *GlobalConfig) error {
	path, err := configPath(g)
	if err != nil {
		return err
	}

	exists, err := config.ConfigFileExists(path)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if !exists {
		return oerrors.NewNotFoundError("config file not found", path, "run 'op3d config init' to create one")
	}

	v, err := config.NewValidator()
	if err != nil {
		return fmt.Errorf("creating validator: %w", err)
	}

	if err := v.ValidateFile(path); err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			errOut := cmd.ErrOrStderr()
			fmt.Fprintln(errOut, "Error: config validation failed")
			fmt.Fprintf(errOut, "  File: %s\n\n", path)
			for _, e := range verrs {
				fmt.Fprintf(errOut, "  %s: %s\n", e.Field, e.Message)
			}
			return cmdutil.BatchFailed(err, oerrors.ExitValidation)
		}
		return oerrors.NewInvalidFormatError(err.Error(), path, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.FormatCheckmark("Config file is valid: "+path))
	return nil
}

func newConfigShowCmd(g *GlobalConfig) *cobra.Command {
	var format string
	c := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Long: `Show every configuration value with the source it was resolved from.

Precedence is flag > env (OP3D_*) > config file > default.`,
		Example: `  # Table of resolved values
  op3d config show

  # Machine-readable form
  op3d config show --format yaml`,
		Args: cmdutil.UsageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, g, format)
		},
	}
	c.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, yaml")
	return c
}

// configShowDoc is the --format yaml form of config show.
type configShowDoc struct {
	Config config.ResolvedValue   `json:"config"`
	Values []config.ResolvedValue `json:"values"`
}

func runConfigShow(cmd *cobra.Command, g *GlobalConfig, format string) error {
	format = strings.ToLower(format)
	if format != "table" && format != "yaml" {
		return oerrors.NewUsageError(fmt.Sprintf("invalid --format %q", format), "valid formats: table, yaml")
	}
	if err := initializeGlobals(cmd, g); err != nil {
		return err
	}
	r := g.Resolved
	out := cmd.OutOrStdout()

	if format == "yaml" {
		data, err := yaml.Marshal(configShowDoc{Config: r.ConfigPath, Values: r.Values})
		if err != nil {
			return fmt.Errorf("rendering config: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	fmt.Fprintf(out, "Config: %s (%s)\n\n", r.ConfigPath.Value, r.ConfigPath.Source)

	t := output.NewTable("KEY", "VALUE", "SOURCE", "SHADOWED")
	for _, v := range r.Values {
		t.Row(v.Key, v.Value, string(v.Source), shadowedText(v.Shadowed))
	}
	_, err := fmt.Fprintln(out, t.String())
	return err
}

func shadowedText(m map[config.ConfigSource]string) string {
	parts := make([]string, 0, len(m))
	for s, v := range m {
		parts = append(parts, string(s)+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
