package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openprint3d/op3d/internal/catalog"
	"github.com/openprint3d/op3d/internal/cmdutil"
	oerrors "github.com/openprint3d/op3d/internal/errors"
	"github.com/openprint3d/op3d/internal/output"
)

type listOptions struct {
	cmdutil.BaseDirFlags
	Type   string
	Brand  string
	Format string
}

// NewListCmd creates the list command.
func NewListCmd(g *GlobalConfig) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles in a profile tree",
		Long: `List the profiles stored under <base-dir>/<kind>/<brand>/*.json.

Files that cannot be read or are not profiles are left out.

Examples:
  # Table of every profile
  op3d list

  # Paths of one brand's filaments
  op3d list --type filament --brand Acme --format simple`,
		Args: cmdutil.UsageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, &opts, g)
		},
	}

	opts.BaseDirFlags.AddTo(cmd)
	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "Only list this profile type")
	cmd.Flags().StringVarP(&opts.Brand, "brand", "b", "", "Only list this brand")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", string(catalog.FormatTable),
		"Output format: "+strings.Join(catalog.Formats(), ", "))

	return cmd
}

func runList(cmd *cobra.Command, opts *listOptions, g *GlobalConfig) error {
	format := catalog.Format(strings.ToLower(opts.Format))
	if !format.IsValid() {
		return oerrors.NewUsageError(
			fmt.Sprintf("invalid --format %q", opts.Format),
			"valid formats: "+strings.Join(catalog.Formats(), ", "))
	}

	filter := catalog.Filter{Brand: opts.Brand}
	if opts.Type != "" {
		kind, _, err := cmdutil.ParseKindFlag(opts.Type)
		if err != nil {
			return err
		}
		filter.Kind = kind
	}

	baseDir := opts.Resolve(g.ProfilesDir())
	output.Debug("listing profiles", "base-dir", baseDir, "type", filter.Kind, "brand", filter.Brand)

	entries, err := catalog.Find(baseDir, filter)
	if err != nil {
		return err
	}
	return catalog.Write(cmd.OutOrStdout(), entries, format, g.Indent())
}
