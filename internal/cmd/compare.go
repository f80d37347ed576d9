package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openprint3d/op3d/internal/cmdutil"
	"github.com/openprint3d/op3d/internal/compare"
	oerrors "github.com/openprint3d/op3d/internal/errors"
	"github.com/openprint3d/op3d/internal/output"
	"github.com/openprint3d/op3d/internal/profile"
)

type compareOptions struct {
	Format     string
	ShowCommon bool
}

// NewCompareCmd creates the compare command.
func NewCompareCmd(g *GlobalConfig) *cobra.Command {
	var opts compareOptions

	cmd := &cobra.Command{
		Use:   "compare A B",
		Short: "Compare two profile documents key by key",
		Long: `Compare two profile documents key by key.

Both documents are flattened into dotted keys (compare.separator in config)
and every key is classified as only in A, only in B, different or common.
Lists are compared as whole values. Either document may be JSON or YAML and
need not be a valid profile.

The command exits 1 when the documents differ.

Examples:
  # Show differing keys
  op3d compare printer/Acme/A1.json printer/Acme/A1-mini.json

  # Machine-readable report including matching keys
  op3d compare a.json b.json --format json --show-common

  # Structural YAML diff
  op3d compare a.json b.yaml --format dyff`,
		Args: cmdutil.UsageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args[0], args[1], &opts, g)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", string(compare.FormatText),
		"Output format: "+strings.Join(compare.Formats(), ", "))
	cmd.Flags().BoolVarP(&opts.ShowCommon, "show-common", "c", false, "Include matching keys in the report")

	return cmd
}

func runCompare(cmd *cobra.Command, leftPath, rightPath string, opts *compareOptions, g *GlobalConfig) error {
	format := compare.Format(strings.ToLower(opts.Format))
	if !format.IsValid() {
		return oerrors.NewUsageError(
			fmt.Sprintf("invalid --format %q", opts.Format),
			"valid formats: "+strings.Join(compare.Formats(), ", "))
	}

	left, err := readDocument(leftPath)
	if err != nil {
		return err
	}
	right, err := readDocument(rightPath)
	if err != nil {
		return err
	}

	report := compare.CompareDocuments(left, right, compare.Options{
		Separator:     g.Separator(),
		IncludeCommon: opts.ShowCommon,
	})
	output.Debug("compared", "keys", report.Result.Stats.TotalKeys, "differences", report.Result.Stats.Differences)

	out := cmd.OutOrStdout()
	switch format {
	case compare.FormatJSON:
		err = compare.WriteJSON(out, report, g.Indent())
	case compare.FormatDyff:
		err = compare.WriteDyff(out, leftPath, left, rightPath, right, g.UseColor)
	default:
		err = compare.WriteText(out, report)
	}
	if err != nil {
		return err
	}

	if report.Result.HasDifferences() {
		return cmdutil.BatchFailed(errors.New("profiles differ"), oerrors.ExitGeneralError)
	}
	return nil
}

// readDocument decodes a JSON or YAML document whose root must be a mapping.
func readDocument(path string) (*profile.Map, error) {
	n, err := profile.ReadFile(path)
	if err != nil {
		return nil, cmdutil.LoadError(path, err)
	}
	m, ok := n.(*profile.Map)
	if !ok {
		return nil, oerrors.NewInvalidFormatError("document root is not a mapping", path, nil)
	}
	return m, nil
}
