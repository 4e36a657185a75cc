package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction classifies a floor price movement.
type Direction string

const (
	DirectionInitial   Direction = "initial"
	DirectionIncrease  Direction = "increase"
	DirectionDecrease  Direction = "decrease"
	DirectionUnchanged Direction = "unchanged"
)

// ChangeEvent describes a floor price change worth notifying.
type ChangeEvent struct {
	CollectionID int64
	Previous     decimal.NullDecimal
	Current      decimal.Decimal
	Direction    Direction
	ObservedAt   time.Time
}

// Detect compares a freshly fetched snapshot against the last stored floor.
// Equality is exact: 1.50 and 1.5 are the same price, 1.5 and 1.5000001 are not.
func Detect(previous decimal.NullDecimal, current Stats, at time.Time) (ChangeEvent, bool) {
	if !current.FloorPrice.Valid {
		return ChangeEvent{}, false
	}
	floor := current.FloorPrice.Decimal

	direction := Classify(previous, floor)
	if direction == DirectionUnchanged {
		return ChangeEvent{}, false
	}
	return ChangeEvent{Previous: previous, Current: floor, Direction: direction, ObservedAt: at}, true
}

// Classify returns the direction between two floors without building an event.
func Classify(previous decimal.NullDecimal, current decimal.Decimal) Direction {
	switch {
	case !previous.Valid:
		return DirectionInitial
	case current.Equal(previous.Decimal):
		return DirectionUnchanged
	case current.GreaterThan(previous.Decimal):
		return DirectionIncrease
	default:
		return DirectionDecrease
	}
}
