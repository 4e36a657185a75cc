package fetcher

import (
	"context"
	"fmt"

	"nft-floor-alerts/internal/market"
)

// Adapter translates one marketplace's stats endpoint into market.Stats.
type Adapter interface {
	Marketplace() market.Marketplace
	Fetch(ctx context.Context, slug string, chain market.Chain) (market.Stats, error)
}

// ImageResolver is implemented by adapters able to look up collection artwork.
type ImageResolver interface {
	CollectionImage(ctx context.Context, slug string, chain market.Chain) (string, error)
}

// StatsSource retrieves normalized stats for a tracked collection.
type StatsSource interface {
	GetStats(ctx context.Context, c market.Collection) (market.Stats, error)
}

// Registry dispatches collections to the adapter of their marketplace.
type Registry struct {
	adapters map[market.Marketplace]Adapter
}

// NewRegistry indexes adapters by the marketplace they serve. A later adapter
// for the same marketplace replaces an earlier one.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[market.Marketplace]Adapter, len(adapters))}
	for _, a := range adapters {
		if a == nil {
			continue
		}
		r.adapters[a.Marketplace()] = a
	}
	return r
}

// Adapter returns the adapter registered for m.
func (r *Registry) Adapter(m market.Marketplace) (Adapter, bool) {
	a, ok := r.adapters[m]
	return a, ok
}

// Missing lists supported marketplaces without a registered adapter.
func (r *Registry) Missing() []market.Marketplace {
	var missing []market.Marketplace
	for _, m := range market.Marketplaces() {
		if _, ok := r.adapters[m]; !ok {
			missing = append(missing, m)
		}
	}
	return missing
}

// GetStats fetches stats for c. Every failure is returned as *Error so the
// caller can skip this collection and carry on with the rest.
func (r *Registry) GetStats(ctx context.Context, c market.Collection) (market.Stats, error) {
	a, ok := r.adapters[c.Marketplace]
	if !ok {
		return market.Stats{}, wrap(c.Marketplace, c.Slug, fmt.Errorf("%w: no adapter for %s (collection %q)", ErrUnsupportedProvider, c.Marketplace, c.Name))
	}
	stats, err := a.Fetch(ctx, c.Slug, c.Chain)
	if err != nil {
		return market.Stats{}, wrap(c.Marketplace, c.Slug, err)
	}
	return stats, nil
}

// CollectionImage resolves artwork when the adapter supports it.
func (r *Registry) CollectionImage(ctx context.Context, m market.Marketplace, slug string, chain market.Chain) (string, error) {
	a, ok := r.adapters[m]
	if !ok {
		return "", wrap(m, slug, fmt.Errorf("%w: no adapter for %s", ErrUnsupportedProvider, m))
	}
	resolver, ok := a.(ImageResolver)
	if !ok {
		return "", nil
	}
	img, err := resolver.CollectionImage(ctx, slug, chain)
	return img, wrap(m, slug, err)
}

var _ StatsSource = (*Registry)(nil)
