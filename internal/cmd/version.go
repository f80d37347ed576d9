package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openprint3d/op3d/internal/cmdutil"
	"github.com/openprint3d/op3d/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show op3d version information.

Displays:
  - op3d version, commit, and build date
  - CUE SDK version used by the validator
  - profile schema version written into new profiles`,
		Args: cmdutil.UsageArgs(cobra.NoArgs),
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, _ []string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
	return err
}
