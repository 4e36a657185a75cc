package storage

import (
	"time"

	"github.com/shopspring/decimal"

	"nft-floor-alerts/internal/market"
)

// CollectionRecord is the persisted row of a tracked collection. Floors are
// kept as decimal text so no backend rounds them.
type CollectionRecord struct {
	ID              int64   `gorm:"primaryKey;autoIncrement"`
	Name            string  `gorm:"size:255;not null;uniqueIndex:idx_collections_name"`
	Marketplace     string  `gorm:"size:32;not null;uniqueIndex:idx_collections_source,priority:1"`
	Slug            string  `gorm:"size:255;not null;uniqueIndex:idx_collections_source,priority:2"`
	Chain           string  `gorm:"size:32;not null;uniqueIndex:idx_collections_source,priority:3"`
	ContractAddress string  `gorm:"size:128"`
	Channel         string  `gorm:"size:512;not null"`
	LastFloorPrice  *string `gorm:"size:80"`
	ImageURL        string  `gorm:"size:1024"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName pins the table shared with the SQL schema.
func (CollectionRecord) TableName() string {
	return "collections"
}

func recordFromCollection(c market.Collection) CollectionRecord {
	rec := CollectionRecord{
		ID:              c.ID,
		Name:            c.Name,
		Marketplace:     c.Marketplace.String(),
		Slug:            c.Slug,
		Chain:           c.Chain.String(),
		ContractAddress: c.ContractAddress,
		Channel:         c.Channel,
		ImageURL:        c.ImageURL,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if c.LastFloorPrice.Valid {
		v := c.LastFloorPrice.Decimal.String()
		rec.LastFloorPrice = &v
	}
	return rec
}

// toCollection converts a row back into the domain type. An unknown
// marketplace string maps to market.Unknown so the tick can fail that
// collection alone. A floor that does not parse loads as null: the next tick
// treats the collection as unseen and overwrites the bad value.
func (r CollectionRecord) toCollection() market.Collection {
	c := market.Collection{
		ID:              r.ID,
		Name:            r.Name,
		Marketplace:     market.ParseMarketplace(r.Marketplace),
		Chain:           market.Chain(r.Chain),
		Slug:            r.Slug,
		ContractAddress: r.ContractAddress,
		Channel:         r.Channel,
		ImageURL:        r.ImageURL,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.LastFloorPrice != nil && *r.LastFloorPrice != "" {
		if d, err := decimal.NewFromString(*r.LastFloorPrice); err == nil {
			c.LastFloorPrice = decimal.NewNullDecimal(d)
		}
	}
	return c
}
