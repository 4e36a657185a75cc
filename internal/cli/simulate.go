package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	simulateName  string
	simulateFloor string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate-alert",
	Short: "Send a test alert for a collection using a made-up floor",
	RunE: func(cmd *cobra.Command, args []string) error {
		floor, err := decimal.NewFromString(simulateFloor)
		if err != nil {
			return fmt.Errorf("invalid --floor value: %w", err)
		}
		_, err = getApp().SimulateAlert(cmd.Context(), simulateName, floor)
		return err
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateName, "name", "", "Tracked collection name")
	simulateCmd.Flags().StringVar(&simulateFloor, "floor", "", "Floor price to announce, in the chain's native currency")
	_ = simulateCmd.MarkFlagRequired("name")
	_ = simulateCmd.MarkFlagRequired("floor")
}
