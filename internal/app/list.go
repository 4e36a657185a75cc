package app

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"nft-floor-alerts/internal/alerting"
	"nft-floor-alerts/internal/market"
)

// List prints the tracked collections with their last recorded floor.
func (a *App) List(ctx context.Context) error {
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	collections, err := store.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(collections) == 0 {
		fmt.Fprintln(a.Out, "no collections tracked")
		return nil
	}

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Name\tMarketplace\tChain\tFloor\tChannel\tLink")
	for _, c := range collections {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\n",
			sanitizeInline(c.Name),
			c.Marketplace.DisplayName(),
			c.Chain,
			lastFloor(c),
			alerting.MaskDestination(c.Channel),
			c.Link(),
		)
	}
	return writer.Flush()
}

func lastFloor(c market.Collection) string {
	if !c.LastFloorPrice.Valid {
		return alerting.Placeholder
	}
	return c.LastFloorPrice.Decimal.String() + " " + c.Chain.Symbol()
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	return strings.ReplaceAll(cleaned, "\r", " ")
}
