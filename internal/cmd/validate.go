package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openprint3d/op3d/internal/cmdutil"
	oerrors "github.com/openprint3d/op3d/internal/errors"
	"github.com/openprint3d/op3d/internal/output"
	"github.com/openprint3d/op3d/internal/validate"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd(g *GlobalConfig) *cobra.Command {
	var baseFlags cmdutil.BaseDirFlags

	cmd := &cobra.Command{
		Use:   "validate [PATH...]",
		Short: "Validate profiles against the schema",
		Long: `Validate profiles against the embedded CUE schema.

With no arguments every JSON file under <base-dir>/printer, filament and
process is checked, and each file must hold a profile of the kind its
directory names. With arguments only those files are checked.

The command exits 2 when any profile fails.

Examples:
  # Validate the configured profile tree
  op3d validate

  # Validate a single file with issue details
  op3d validate filament/Acme/PLA.json -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, &baseFlags, g)
		},
	}

	baseFlags.AddTo(cmd)

	return cmd
}

func runValidate(cmd *cobra.Command, args []string, baseFlags *cmdutil.BaseDirFlags, g *GlobalConfig) error {
	v, err := validate.NewCUEValidator()
	if err != nil {
		return fmt.Errorf("loading profile schema: %w", err)
	}

	var report *validate.Report
	if len(args) > 0 {
		report = validate.Files(v, args)
	} else {
		baseDir := baseFlags.Resolve(g.ProfilesDir())
		output.Debug("validating tree", "base-dir", baseDir)
		if report, err = validate.Batch(v, baseDir); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Found %d profiles to validate...\n\n", len(report.Results))

	for _, res := range report.Results {
		if res.OK() {
			fmt.Fprintln(out, output.FormatFileLine(res.Rel, output.StatusOK, ""))
			continue
		}
		fmt.Fprintln(out, output.FormatFileLine(res.Rel, output.StatusFail, failureDetail(res.Err)))
		if g.Verbose {
			var verr *validate.Error
			if errors.As(res.Err, &verr) {
				for _, issue := range verr.Issues {
					fmt.Fprintln(out, "    "+issue.String())
				}
			} else {
				fmt.Fprint(out, output.IndentLines(res.Err.Error(), "    "))
			}
		}
	}

	fmt.Fprintf(out, "\nResults: %d OK, %d Failed\n", report.Passed(), report.Failed())

	if report.Failed() > 0 {
		return cmdutil.BatchFailed(
			fmt.Errorf("%d profile(s) failed validation", report.Failed()),
			oerrors.ExitValidation)
	}
	return nil
}

// failureDetail is the one-line reason shown beside a failing file.
func failureDetail(err error) string {
	var verr *validate.Error
	if errors.As(err, &verr) {
		return fmt.Sprintf("%d issue(s)", len(verr.Issues))
	}
	first, _, _ := strings.Cut(err.Error(), "\n")
	return first
}
