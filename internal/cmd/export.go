package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openprint3d/op3d/internal/cmdutil"
	oerrors "github.com/openprint3d/op3d/internal/errors"
	"github.com/openprint3d/op3d/internal/export"
	"github.com/openprint3d/op3d/internal/output"
	"github.com/openprint3d/op3d/internal/profile"
)

type exportOptions struct {
	cmdutil.OutputFlags
	Slicer string
}

// NewExportCmd creates the export command.
func NewExportCmd(g *GlobalConfig) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export --slicer SLICER PROFILE...",
		Short: "Export canonical profiles to a slicer dialect",
		Long: `Export canonical profiles to a slicer dialect.

A profile that carries a non-empty x_<slicer> block is exported from that
block verbatim. Otherwise the dialect's field table is applied, followed by
the reverse of its import mapping for any key not yet emitted.

Each profile is handled on its own: a failure is reported and the remaining
profiles are still exported. Output files are named <stem>_<slicer>.json.

Examples:
  # Print a Cura filament definition
  op3d export --slicer cura filament/Acme/PLA.json

  # Export several profiles to a directory
  op3d export --slicer orca printer/*/*.json -o out/`,
		Args: cmdutil.UsageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, &opts, g)
		},
	}

	opts.OutputFlags.AddTo(cmd, "Output directory (default: stdout)")
	cmd.Flags().StringVar(&opts.Slicer, "slicer", "",
		"Target slicer: "+strings.Join(profile.DialectNames(), ", ")+" (required)")

	return cmd
}

func runExport(cmd *cobra.Command, paths []string, opts *exportOptions, g *GlobalConfig) error {
	if opts.Slicer == "" {
		return oerrors.NewUsageError("--slicer is required", "valid values: "+strings.Join(profile.DialectNames(), ", "))
	}
	dialect, err := cmdutil.ParseDialectFlag("slicer", opts.Slicer)
	if err != nil {
		return err
	}

	exporter := export.New(export.DefaultConfig())
	w := &cmdutil.DocumentWriter{OutDir: opts.OutDir, Out: cmd.OutOrStdout()}
	failed := 0

	for _, path := range paths {
		if err := exportOne(exporter, w, path, dialect, g.Indent()); err != nil {
			cmdutil.PrintFailure(path, err)
			failed++
		}
	}

	if failed > 0 {
		return cmdutil.BatchFailed(fmt.Errorf("%d of %d profiles failed to export", failed, len(paths)), oerrors.ExitGeneralError)
	}
	return nil
}

func exportOne(e *export.Exporter, w *cmdutil.DocumentWriter, path string, d profile.Dialect, indent int) error {
	p, err := profile.Load(path)
	if err != nil {
		return cmdutil.LoadError(path, err)
	}

	data, err := e.ExportJSON(p, d, indent)
	if err != nil {
		return err
	}

	header := strings.ToUpper(d.String()) + " - " + filepath.Base(path)
	if _, err := w.Write(cmdutil.Stem(path)+"_"+d.String()+".json", header, data); err != nil {
		return err
	}
	output.FileLogger(path).Debug("exported", "slicer", d, "id", p.ID())
	return nil
}
