package cli

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one tick now and print the summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := getApp().Check(cmd.Context())
		return err
	},
}
