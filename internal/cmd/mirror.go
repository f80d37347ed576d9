package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openprint3d/op3d/internal/cmdutil"
	oerrors "github.com/openprint3d/op3d/internal/errors"
	"github.com/openprint3d/op3d/internal/mirror"
	"github.com/openprint3d/op3d/internal/output"
)

type mirrorOptions struct {
	cmdutil.OutputFlags
	cmdutil.IndentFlag
	NoRecursive bool
}

// NewMirrorCmd creates the mirror command.
func NewMirrorCmd(g *GlobalConfig) *cobra.Command {
	var opts mirrorOptions

	cmd := &cobra.Command{
		Use:   "mirror json2yaml|yaml2json PATH...",
		Short: "Convert profiles between JSON and YAML",
		Long: `Convert profiles between JSON and YAML, preserving key order and the
int/float distinction of every number.

Each PATH may be a file or a directory. Directories are walked recursively
unless --no-recursive is given; with -o the relative layout is mirrored under
the output directory, otherwise each output lands beside its input. Files
that are not profiles are skipped and a failing file never stops the walk.

Examples:
  # Mirror a profile tree to YAML
  op3d mirror json2yaml profiles/ -o profiles-yaml/

  # Convert one file back to JSON with 4-space indentation
  op3d mirror yaml2json printer/Acme/A1.yaml --indent 4`,
		Args: cmdutil.UsageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMirror(cmd, args[0], args[1:], &opts, g)
		},
	}

	opts.OutputFlags.AddTo(cmd, "Output directory (default: beside each input)")
	opts.IndentFlag.AddTo(cmd)
	cmd.Flags().BoolVar(&opts.NoRecursive, "no-recursive", false, "Do not descend into subdirectories")

	return cmd
}

func runMirror(cmd *cobra.Command, direction string, paths []string, opts *mirrorOptions, g *GlobalConfig) error {
	d, err := mirror.ParseDirection(direction)
	if err != nil {
		return oerrors.NewUsageError(
			fmt.Sprintf("invalid direction %q", direction),
			"valid directions: "+strings.Join(mirror.Directions(), ", "))
	}
	indent, err := opts.IndentFlag.Resolve(g.Indent())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var converted, skipped, failed int

	for _, path := range paths {
		report, err := mirror.ConvertTree(path, d, mirror.Options{
			OutDir:    opts.OutDir,
			Recursive: !opts.NoRecursive,
			Indent:    indent,
		})
		if err != nil {
			cmdutil.PrintFailure(path, cmdutil.LoadError(path, err))
			failed++
			if report == nil {
				continue
			}
		}

		for _, r := range report.Converted {
			fmt.Fprintln(out, output.FormatFileLine(r.Target, output.StatusWritten, ""))
		}
		converted += len(report.Converted)
		skipped += len(report.Skipped)
		failed += len(report.Failed)
	}

	fmt.Fprintln(out, output.RenderSummary(
		output.Count{N: converted, Label: "converted"},
		output.Count{N: skipped, Label: "skipped"},
		output.Count{N: failed, Label: "failed"},
	))

	if failed > 0 {
		return cmdutil.BatchFailed(fmt.Errorf("%d conversion(s) failed", failed), oerrors.ExitGeneralError)
	}
	return nil
}
