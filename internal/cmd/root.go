// Package cmd provides the op3d command implementations.
package cmd

import (
	"errors"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openprint3d/op3d/internal/cmdutil"
	"github.com/openprint3d/op3d/internal/config"
	oerrors "github.com/openprint3d/op3d/internal/errors"
	"github.com/openprint3d/op3d/internal/output"
)

// GlobalConfig holds CLI-wide settings. Flags fill the raw fields; Resolved
// is populated once in PersistentPreRunE and read by every sub-command.
type GlobalConfig struct {
	ConfigFlag string
	Verbose    bool
	Timestamps bool
	ColorFlag  string

	Resolved *config.ResolvedConfig

	// UseColor is the color decision for stdout.
	UseColor bool
}

// Indent returns the resolved JSON indent width.
func (g *GlobalConfig) Indent() int {
	if g.Resolved == nil {
		return config.DefaultIndent
	}
	return g.Resolved.Indent
}

// ProfilesDir returns the resolved profile tree base directory.
func (g *GlobalConfig) ProfilesDir() string {
	if g.Resolved == nil {
		return config.DefaultProfilesDir
	}
	return g.Resolved.ProfilesDir
}

// Separator returns the resolved flatten separator.
func (g *GlobalConfig) Separator() string {
	if g.Resolved == nil {
		return config.DefaultSeparator
	}
	return g.Resolved.Separator
}

// NewRootCmd creates the root command for the op3d CLI.
func NewRootCmd() *cobra.Command {
	g := &GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "op3d",
		Short: "OpenPrint3D profile tools",
		Long: `op3d converts 3D-printing profiles between the canonical OpenPrint3D
format and the PrusaSlicer, Cura, OrcaSlicer and Bambu Studio dialects.

It also compares, mirrors, validates and lists canonical profiles.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd, g)
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.ConfigFlag, "config", "", "Path to config file (env: OP3D_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&g.Timestamps, "timestamps", true, "Show timestamps in log output")
	rootCmd.PersistentFlags().StringVar(&g.ColorFlag, "color", "auto", "Colorize output: auto, always, never (env: OP3D_OUTPUT_COLOR)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return oerrors.NewUsageError(err.Error(), "see '"+cmd.CommandPath()+" --help'")
	})

	rootCmd.AddCommand(
		NewImportCmd(g),
		NewExportCmd(g),
		NewCompareCmd(g),
		NewMirrorCmd(g),
		NewValidateCmd(g),
		NewListCmd(g),
		NewConfigCmd(g),
		NewVersionCmd(),
	)

	return rootCmd
}

// initializeGlobals resolves configuration and sets up logging.
func initializeGlobals(cmd *cobra.Command, g *GlobalConfig) error {
	flags := make(map[string]string)
	if cmd.Flags().Changed("timestamps") {
		flags[config.KeyLogTimestamps] = strconv.FormatBool(g.Timestamps)
	}
	if cmd.Flags().Changed("color") {
		flags[config.KeyOutputColor] = g.ColorFlag
	}

	resolved, err := config.ResolveAll(config.ResolveAllOptions{
		ConfigFlag: g.ConfigFlag,
		Flags:      flags,
	})
	if err != nil {
		return err
	}
	g.Resolved = resolved

	output.SetupLogging(output.LogConfig{
		Verbose:    g.Verbose,
		Timestamps: output.BoolPtr(resolved.Timestamps),
	})

	g.UseColor = output.UseColor(resolved.Color, os.Stdout)
	output.ApplyColor(g.UseColor)

	if g.Verbose {
		output.Debug("initializing CLI", "config", resolved.ConfigPath.Value, "source", resolved.ConfigPath.Source)
		config.LogResolvedValues(resolved.Values)
	}

	return nil
}

// Execute runs the root command with args and returns the process exit
// code. Errors a command has not already reported are logged to stderr.
func Execute(args []string) int {
	return execute(NewRootCmd(), args)
}

func execute(rootCmd *cobra.Command, args []string) int {
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	if err == nil {
		return oerrors.ExitSuccess
	}

	err = cmdutil.Classify(err)
	var exitErr *oerrors.ExitError
	if !errors.As(err, &exitErr) || !exitErr.Printed {
		output.Error(err.Error())
	}
	return oerrors.ExitCodeFromError(err)
}
