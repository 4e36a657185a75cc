package cli

import (
	"github.com/spf13/cobra"

	"nft-floor-alerts/internal/app"
)

var backfillOpts app.BackfillOptions

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Record current floors without alerting",
	Long: `Fetches the current floor of every collection that has none recorded yet and
stores it silently, so the next tick only announces real changes. Floors that
were already announced are never replaced.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Backfill(cmd.Context(), backfillOpts)
	},
}

func init() {
	backfillCmd.Flags().BoolVar(&backfillOpts.DryRun, "dry-run", false, "Fetch and print floors without writing to storage")
}
