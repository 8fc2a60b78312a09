package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/calldata-lens/internal/cli/render"
)

// NewCacheCmd creates the cache command group
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the signature directory cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached directory response",
		Long:  `Drop cached directory responses from memory and disk. Remembered selections are kept.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if err := app.ClearCache.Run(); err != nil {
				return err
			}

			if !render.IsStructured(app.Config.Format) {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("Cache cleared"))
			}
			return nil
		},
	})

	return cmd
}
