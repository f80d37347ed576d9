// Package cmdutil provides shared command utilities for op3d subcommands.
// It centralizes flag groups, error classification and the writers that put
// converted documents on disk or stdout.
package cmdutil

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	oerrors "github.com/openprint3d/op3d/internal/errors"
	"github.com/openprint3d/op3d/internal/profile"
)

// OutputFlags holds the output directory flag shared by commands that write
// documents (import, export, mirror). An empty OutDir means stdout, or the
// input's directory for mirror.
type OutputFlags struct {
	OutDir string
}

// AddTo registers the output flags on the given cobra command.
func (f *OutputFlags) AddTo(cmd *cobra.Command, usage string) {
	cmd.Flags().StringVarP(&f.OutDir, "output", "o", "", usage)
}

// BaseDirFlags holds the profile tree location (list, validate).
type BaseDirFlags struct {
	BaseDir string
}

// AddTo registers the base directory flag on the given cobra command.
func (f *BaseDirFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.BaseDir, "base-dir", "",
		"Base directory containing <kind>/<brand>/ profiles (default: profiles.dir from config)")
}

// Resolve returns the flag value, or def when the flag is empty.
func (f *BaseDirFlags) Resolve(def string) string {
	if f.BaseDir != "" {
		return f.BaseDir
	}
	if def == "" {
		return "."
	}
	return def
}

// IndentFlag holds a JSON indent override.
type IndentFlag struct {
	Indent int
	cmd    *cobra.Command
}

// AddTo registers --indent on the given cobra command.
func (f *IndentFlag) AddTo(cmd *cobra.Command) {
	f.cmd = cmd
	cmd.Flags().IntVar(&f.Indent, "indent", 2, "JSON indent width (default: output.indent from config)")
}

// Resolve returns the flag value when the user set it, otherwise def.
func (f *IndentFlag) Resolve(def int) (int, error) {
	if f.cmd == nil || !f.cmd.Flags().Changed("indent") {
		return def, nil
	}
	if f.Indent < 0 || f.Indent > 8 {
		return 0, oerrors.NewUsageError(fmt.Sprintf("--indent %d out of range", f.Indent), "use a width from 0 to 8")
	}
	return f.Indent, nil
}

// ParseKindFlag parses a --type value. "auto" and "" report auto.
func ParseKindFlag(s string) (kind profile.Kind, auto bool, err error) {
	if s == "" || strings.EqualFold(s, "auto") {
		return "", true, nil
	}
	kind, err = profile.ParseKind(s)
	if err != nil {
		return "", false, oerrors.NewUsageError(
			fmt.Sprintf("invalid --type %q", s),
			"valid types: auto, "+strings.Join(kindNames(), ", "))
	}
	return kind, false, nil
}

// ParseDialectFlag parses a --slicer or --dialect value.
func ParseDialectFlag(name, s string) (profile.Dialect, error) {
	d, err := profile.ParseDialect(s)
	if err != nil {
		return "", oerrors.NewUsageError(
			fmt.Sprintf("invalid --%s %q", name, s),
			"valid values: "+strings.Join(profile.DialectNames(), ", "))
	}
	return d, nil
}

func kindNames() []string {
	var out []string
	for _, k := range profile.Kinds() {
		out = append(out, k.String())
	}
	return out
}

// UsageArgs wraps a cobra argument validator so its failures carry ErrUsage.
func UsageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return oerrors.NewUsageError(err.Error(), "see '"+cmd.CommandPath()+" --help'")
		}
		return nil
	}
}
