package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/calldata-lens/internal/adapters/interactive"
	"github.com/trebuchet-org/calldata-lens/internal/cli/render"
)

// NewHistoryCmd creates the history command group
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage remembered signature selections",
		Long: `Remembered selections decide between candidates that share a selector.
They are stored in the local database and win over heuristic ranking.`,
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistorySetCmd())
	cmd.AddCommand(newHistoryForgetCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List remembered selections",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			records, err := app.ManageHistory.List(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewHistoryRenderer(cmd.OutOrStdout(), app.Config.Format).Render(records)
		},
	}
}

func newHistorySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <selector> <signature>",
		Short:   "Remember a signature for a selector",
		Example: `  lens history set 0xa9059cbb "transfer(address,uint256)"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ManageHistory.Set(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			return render.NewHistoryRenderer(cmd.OutOrStdout(), app.Config.Format).RenderSet(result)
		},
	}
}

func newHistoryForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget [selector...]",
		Short: "Forget remembered selections",
		Long: `Forget the remembered selection for each selector. Without arguments a
multi-select of all remembered selections is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			selectors := args
			if len(selectors) == 0 {
				if app.Config.NonInteractive {
					return fmt.Errorf("%w: pass the selectors to forget", interactive.ErrNonInteractive)
				}
				records, err := app.ManageHistory.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No remembered selections")
					return nil
				}
				selectors, err = selectRecords(records, "Select selections to forget")
				if err != nil {
					return err
				}
			}

			result, err := app.ManageHistory.Forget(cmd.Context(), selectors)
			if err != nil {
				return err
			}

			return render.NewHistoryRenderer(cmd.OutOrStdout(), app.Config.Format).RenderForget(result)
		},
	}
}
