package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/calldata-lens/internal/cli/render"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

// NewLookupCmd creates the lookup command
func NewLookupCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "lookup <selector>...",
		Short: "List directory signatures for selectors",
		Long: `Query the signature directory for one or more selectors. Each candidate
is checked against its selector with keccak256; the remembered selection is
marked.

Calldata may be passed instead of a bare selector.

Examples:
  lens lookup 0xa9059cbb
  lens lookup 0xa9059cbb 0x095ea7b3 --filter approve`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.LookupSignatures.Run(cmd.Context(), usecase.LookupSignaturesParams{
				Selectors: args,
				Filter:    filter,
			})
			if err != nil {
				return err
			}

			return render.NewLookupRenderer(cmd.OutOrStdout(), app.Config.Format).Render(result)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Fuzzy filter on signature text")

	return cmd
}
