package alerting

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"nft-floor-alerts/internal/market"
)

// Placeholder renders values the provider did not report.
const Placeholder = "N/A"

// Field names used in payloads.
const (
	FieldFloor       = "Floor"
	FieldChange      = "Change"
	FieldMarketplace = "Marketplace"
	FieldChain       = "Chain"
	FieldListed      = "Listed NFTs"
	FieldVolume      = "Volume"
	FieldAvgPrice    = "Avg Price"
	FieldSales       = "Sales"
	FieldOwners      = "Owners"
)

const (
	colorIncrease = 0x00ff00
	colorDecrease = 0xff0000
	colorInitial  = 0x5865f2
)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

// Field is one labelled line of a notification.
type Field struct {
	Name  string
	Value string
}

// Payload is a transport-agnostic notification.
type Payload struct {
	Title      string
	URL        string
	Color      int
	Direction  market.Direction
	FloorPrice decimal.Decimal
	Currency   string
	Fields     []Field
	Extra      []Field
	ImageURL   string
	Timestamp  time.Time
}

// Value returns the value of the named field from either block.
func (p Payload) Value(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	for _, f := range p.Extra {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Format builds the notification for a detected change. It is deterministic:
// the timestamp comes from the event.
func Format(c market.Collection, stats market.Stats, ev market.ChangeEvent) Payload {
	symbol := c.Chain.Symbol()
	p := Payload{
		Title:      fmt.Sprintf("%s %s", indicator(ev.Direction), c.Name),
		URL:        c.Link(),
		Color:      color(ev.Direction),
		Direction:  ev.Direction,
		FloorPrice: ev.Current,
		Currency:   symbol,
		ImageURL:   c.ImageURL,
		Timestamp:  ev.ObservedAt,
	}

	p.Fields = []Field{
		{Name: FieldFloor, Value: ev.Current.String()},
		{Name: FieldChange, Value: change(ev, symbol)},
		{Name: FieldMarketplace, Value: c.Marketplace.DisplayName()},
		{Name: FieldChain, Value: fmt.Sprintf("%s (%s)", c.Chain, symbol)},
	}

	switch c.Marketplace {
	case market.MagicEden:
		p.Extra = []Field{
			{Name: FieldListed, Value: abbreviateCount(count(stats.ListedCount))},
			{Name: FieldVolume, Value: withSymbol(Abbreviate(stats.Volume), symbol)},
			{Name: FieldAvgPrice, Value: withSymbol(Abbreviate(stats.AvgPrice), symbol)},
		}
	case market.OpenSea:
		p.Extra = []Field{
			{Name: FieldVolume, Value: withSymbol(Abbreviate(stats.Volume), symbol)},
			{Name: FieldSales, Value: abbreviateCount(extra(stats, market.ExtraSales))},
			{Name: FieldOwners, Value: abbreviateCount(extra(stats, market.ExtraOwners))},
		}
	}
	return p
}

// Abbreviate renders large numbers with K/M suffixes and two decimals.
func Abbreviate(v decimal.NullDecimal) string {
	if !v.Valid {
		return Placeholder
	}
	d := v.Decimal
	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(million):
		return d.Div(million).StringFixed(2) + "M"
	case abs.GreaterThanOrEqual(thousand):
		return d.Div(thousand).StringFixed(2) + "K"
	default:
		return d.StringFixed(2)
	}
}

// abbreviateCount keeps small counts as plain integers.
func abbreviateCount(v decimal.NullDecimal) string {
	if v.Valid && v.Decimal.Abs().LessThan(thousand) {
		return v.Decimal.String()
	}
	return Abbreviate(v)
}

func count(n *int64) decimal.NullDecimal {
	if n == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromInt(*n))
}

func extra(stats market.Stats, key string) decimal.NullDecimal {
	if v, ok := stats.Extra[key]; ok {
		return decimal.NewNullDecimal(v)
	}
	return decimal.NullDecimal{}
}

func withSymbol(v, symbol string) string {
	if v == Placeholder {
		return v
	}
	return v + " " + symbol
}

func change(ev market.ChangeEvent, symbol string) string {
	if !ev.Previous.Valid {
		return fmt.Sprintf("%s → %s %s", Placeholder, ev.Current.String(), symbol)
	}
	line := fmt.Sprintf("%s → %s %s", ev.Previous.Decimal.String(), ev.Current.String(), symbol)
	if ev.Previous.Decimal.IsZero() {
		return line
	}
	pct := ev.Current.Sub(ev.Previous.Decimal).Div(ev.Previous.Decimal).Mul(decimal.NewFromInt(100))
	sign := ""
	if pct.IsPositive() {
		sign = "+"
	}
	return fmt.Sprintf("%s (%s%s%%)", line, sign, pct.StringFixed(2))
}

func indicator(d market.Direction) string {
	switch d {
	case market.DirectionIncrease:
		return "🔺"
	case market.DirectionDecrease:
		return "🔻"
	default:
		return "💰"
	}
}

func color(d market.Direction) int {
	switch d {
	case market.DirectionIncrease:
		return colorIncrease
	case market.DirectionDecrease:
		return colorDecrease
	default:
		return colorInitial
	}
}

// renderBlock lines fields up as "Name : value" for monospace rendering.
func renderBlock(fields []Field) string {
	width := 0
	for _, f := range fields {
		if n := len([]rune(f.Name)); n > width {
			width = n
		}
	}
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f.Name)
		b.WriteString(strings.Repeat(" ", width-len([]rune(f.Name))))
		b.WriteString(" : ")
		b.WriteString(f.Value)
	}
	return b.String()
}
