package cli

import (
	"github.com/spf13/cobra"

	"nft-floor-alerts/internal/app"
)

var addOpts app.AddOptions

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Start tracking a collection",
	Example: `  floorwatch add --name "Okay Bears" --url https://magiceden.io/marketplace/okay_bears --channel -1001234567890
  floorwatch add --name Pudgy --chain ethereum --contract 0xbd3531da5cf5857e7cfaa92426877b022e612cf8 --channel @floors`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := getApp().Add(cmd.Context(), addOpts)
		return err
	},
}

var removeName string

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Stop tracking every collection with the given name",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := getApp().Remove(cmd.Context(), removeName)
		return err
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked collections and their last floor",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().List(cmd.Context())
	},
}

func init() {
	addCmd.Flags().StringVar(&addOpts.Name, "name", "", "Display name, unique across the tracked set")
	addCmd.Flags().StringVar(&addOpts.URL, "url", "", "Magic Eden or OpenSea collection URL")
	addCmd.Flags().StringVar(&addOpts.Chain, "chain", "", "Chain (solana, bitcoin, ethereum, base, polygon, ...)")
	addCmd.Flags().StringVar(&addOpts.Channel, "channel", "", "Telegram chat id/@channel or Discord webhook URL")
	addCmd.Flags().StringVar(&addOpts.Contract, "contract", "", "EVM contract address")
	addCmd.Flags().StringVar(&addOpts.Image, "image", "", "Image URL overriding the marketplace artwork")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("channel")

	removeCmd.Flags().StringVar(&removeName, "name", "", "Collection name")
	_ = removeCmd.MarkFlagRequired("name")
}
