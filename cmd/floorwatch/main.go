package main

import "nft-floor-alerts/internal/cli"

func main() {
	cli.Execute()
}
