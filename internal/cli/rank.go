package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/calldata-lens/internal/cli/render"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

// NewRankCmd creates the rank command
func NewRankCmd() *cobra.Command {
	var prior string

	cmd := &cobra.Command{
		Use:   "rank <calldata> <signature>...",
		Short: "Score candidate signatures against calldata offline",
		Long: `Run the signature resolver over the given candidates and show every
score component. No directory lookup is made.

Examples:
  lens rank 0xa9059cbb... "transfer(address,uint256)" "many_msg_babbage(bytes1)"
  lens rank 0xa9059cbb... "transfer(address,uint256)" "many_msg_babbage(bytes1)" --prior "many_msg_babbage(bytes1)"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RankSignatures.Run(usecase.RankSignaturesParams{
				Calldata:   args[0],
				Signatures: args[1:],
				Prior:      prior,
			})
			if err != nil {
				return err
			}

			return render.NewRankRenderer(cmd.OutOrStdout(), app.Config.Format).Render(result)
		},
	}

	cmd.Flags().StringVar(&prior, "prior", "", "Treat this signature as the remembered selection")

	return cmd
}
