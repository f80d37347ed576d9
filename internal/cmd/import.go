package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openprint3d/op3d/internal/cmdutil"
	oerrors "github.com/openprint3d/op3d/internal/errors"
	"github.com/openprint3d/op3d/internal/mapping"
	"github.com/openprint3d/op3d/internal/output"
	"github.com/openprint3d/op3d/internal/profile"
)

type importOptions struct {
	cmdutil.OutputFlags
	Type    string
	Dialect string
	All     bool
}

// NewImportCmd creates the import command.
func NewImportCmd(g *GlobalConfig) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a slicer profile into the canonical format",
		Long: `Import a slicer profile into the canonical OpenPrint3D format.

A PrusaSlicer .ini file may hold [printer], [filament] and [print] sections.
With --type auto the sections present are detected; without --all only the
first detected kind is imported.

Cura, OrcaSlicer and Bambu Studio JSON profiles are imported with --dialect
and an explicit --type.

Output files are named <kind>_<stem>.json.

Examples:
  # Import every profile in a PrusaSlicer config bundle
  op3d import MK4.ini --all -o profiles/

  # Import an OrcaSlicer filament
  op3d import "Generic PLA.json" --dialect orca --type filament`,
		Args: cmdutil.UsageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], &opts, g)
		},
	}

	opts.OutputFlags.AddTo(cmd, "Output directory (default: stdout)")
	cmd.Flags().StringVarP(&opts.Type, "type", "t", "auto",
		"Profile type: printer, filament, process, auto")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "",
		"Input dialect: "+strings.Join(profile.DialectNames(), ", ")+" (default: prusaslicer for .ini)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Import all detected profile types")

	return cmd
}

func runImport(cmd *cobra.Command, path string, opts *importOptions, g *GlobalConfig) error {
	kind, auto, err := cmdutil.ParseKindFlag(opts.Type)
	if err != nil {
		return err
	}

	dialect := profile.DialectPrusaSlicer
	isINI := strings.EqualFold(filepath.Ext(path), ".ini")
	if opts.Dialect != "" {
		if dialect, err = cmdutil.ParseDialectFlag("dialect", opts.Dialect); err != nil {
			return err
		}
	} else if !isINI {
		return oerrors.NewUsageError(
			fmt.Sprintf("cannot tell the dialect of %s", filepath.Base(path)),
			"pass --dialect "+strings.Join(profile.DialectNames(), "|"))
	}
	if isINI && dialect != profile.DialectPrusaSlicer {
		return oerrors.NewUsageError("INI input is only read as prusaslicer", "drop --dialect or convert the file to JSON")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cmdutil.LoadError(path, err)
	}

	importer := mapping.NewImporter(mapping.DefaultConfig())

	var convert func(profile.Kind) (*profile.Profile, error)
	var kinds []profile.Kind

	if isINI {
		src, err := mapping.ReadINI(data)
		if err != nil {
			return oerrors.NewInvalidFormatError(err.Error(), path, err)
		}
		if auto {
			kinds = importer.DetectINIKinds(src)
			if len(kinds) == 0 {
				return oerrors.NewInvalidFormatError("no recognizable profile sections found", path, nil)
			}
		} else {
			kinds = []profile.Kind{kind}
		}
		convert = func(k profile.Kind) (*profile.Profile, error) { return importer.ImportINI(src, k) }
	} else {
		if auto {
			return oerrors.NewUsageError("--type is required for JSON input", "pass --type printer|filament|process")
		}
		doc, err := mapping.ReadDialectJSON(data, dialect)
		if err != nil {
			return oerrors.NewInvalidFormatError(err.Error(), path, err)
		}
		kinds = []profile.Kind{kind}
		convert = func(k profile.Kind) (*profile.Profile, error) { return importer.Import(doc, k) }
	}

	if !opts.All && len(kinds) > 1 {
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = k.String()
		}
		output.Info("multiple profile types detected", "types", strings.Join(names, ", "))
		output.Info("use --all to import all, or --type to pick one")
		kinds = kinds[:1]
	}

	w := &cmdutil.DocumentWriter{OutDir: opts.OutDir, Out: cmd.OutOrStdout()}
	stem := cmdutil.Stem(path)
	failed := 0

	for _, k := range kinds {
		p, err := convert(k)
		if err != nil {
			cmdutil.PrintFailure(path, fmt.Errorf("%s: %w", k, err))
			failed++
			continue
		}

		var buf bytes.Buffer
		if err := profile.EncodeJSON(&buf, p.Root(), g.Indent()); err != nil {
			return err
		}
		header := strings.ToUpper(k.String()) + " - " + filepath.Base(path)
		if _, err := w.Write(k.String()+"_"+stem+".json", header, buf.Bytes()); err != nil {
			cmdutil.PrintFailure(path, fmt.Errorf("%s: %w", k, err))
			failed++
			continue
		}
		output.Debug("imported", "type", k, "id", p.ID())
	}

	if failed > 0 {
		return cmdutil.BatchFailed(fmt.Errorf("%d of %d profiles failed to import", failed, len(kinds)), oerrors.ExitGeneralError)
	}
	return nil
}
