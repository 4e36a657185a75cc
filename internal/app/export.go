package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"nft-floor-alerts/internal/alerting"
	"nft-floor-alerts/internal/market"
)

// ExportOptions select the export outputs.
type ExportOptions struct {
	CSVPath string
	PNGPath string
}

// Export writes the tracked collections and their last floors as CSV and/or a
// PNG bar chart.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

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
		a.Logger.Info().Msg("no collections tracked, nothing to export")
		return nil
	}
	a.Logger.Info().Int("collections", len(collections)).Msg("exporting collections")

	if opts.CSVPath != "" {
		if err := writeCollectionsCSV(opts.CSVPath, collections); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeFloorsPNG(opts.PNGPath, collections, a.Config.Export.ChartWidth, a.Config.Export.ChartHeight); err != nil {
			return err
		}
	}

	return nil
}

func writeCollectionsCSV(path string, collections []market.Collection) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{"name", "marketplace", "chain", "slug", "contract_address", "channel", "last_floor_price", "currency", "link", "updated_at"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, c := range collections {
		floor := ""
		if c.LastFloorPrice.Valid {
			floor = c.LastFloorPrice.Decimal.String()
		}
		updated := ""
		if !c.UpdatedAt.IsZero() {
			updated = c.UpdatedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			c.Name,
			c.Marketplace.String(),
			c.Chain.String(),
			c.Slug,
			c.ContractAddress,
			alerting.MaskDestination(c.Channel),
			floor,
			c.Chain.Symbol(),
			c.Link(),
			updated,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// floorBars converts collections with a recorded floor into chart bars.
// Floors are in each chain's native currency, so the label carries the symbol.
func floorBars(collections []market.Collection) []chart.Value {
	bars := make([]chart.Value, 0, len(collections))
	for _, c := range collections {
		if !c.LastFloorPrice.Valid {
			continue
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%s)", c.Name, c.Chain.Symbol()),
			Value: c.LastFloorPrice.Decimal.InexactFloat64(),
		})
	}
	return bars
}

func writeFloorsPNG(path string, collections []market.Collection, width, height int) error {
	bars := floorBars(collections)
	if len(bars) == 0 {
		return errors.New("no collection has a recorded floor yet; nothing to chart")
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	top := 0.0
	for _, b := range bars {
		top = math.Max(top, b.Value)
	}

	floorFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.3f")
	}
	graph := chart.BarChart{
		Title:  "Floor prices",
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			// anchored at zero so a single bar still has height
			Range:          &chart.ContinuousRange{Min: 0, Max: top * 1.1},
			ValueFormatter: floorFormatter,
		},
		Bars: bars,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
