package app

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"nft-floor-alerts/internal/fetcher"
	"nft-floor-alerts/internal/market"
	"nft-floor-alerts/internal/service"
	"nft-floor-alerts/internal/storage"
)

// SimulateAlert pushes a made-up floor for a tracked collection through the
// normal tick, sending a real alert but leaving the stored floor untouched.
func (a *App) SimulateAlert(ctx context.Context, name string, floor decimal.Decimal) (service.Report, error) {
	if !floor.IsPositive() {
		return service.Report{}, errors.New("--floor must be positive")
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return service.Report{}, err
	}
	defer store.Close()

	c, err := store.FindByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return service.Report{}, errors.New("no collection named " + name)
	}
	if err != nil {
		return service.Report{}, err
	}

	transport, err := a.newTransport()
	if err != nil {
		return service.Report{}, err
	}

	stats := &staticStats{stats: market.Stats{FloorPrice: decimal.NewNullDecimal(floor)}}
	svc := a.newService(nil, stats, &simulationStore{collection: c}, transport)

	report, err := svc.Sweep(ctx, time.Now().UTC())
	if err != nil {
		return report, err
	}
	a.printReport(report)
	return report, nil
}

type staticStats struct {
	stats market.Stats
}

func (s *staticStats) GetStats(context.Context, market.Collection) (market.Stats, error) {
	return s.stats, nil
}

// simulationStore serves a single collection and discards writes.
type simulationStore struct {
	collection market.Collection
}

func (s *simulationStore) FindAll(context.Context) ([]market.Collection, error) {
	return []market.Collection{s.collection}, nil
}

func (s *simulationStore) FindByName(_ context.Context, name string) (market.Collection, error) {
	if name != s.collection.Name {
		return market.Collection{}, storage.ErrNotFound
	}
	return s.collection, nil
}

func (s *simulationStore) Create(context.Context, market.Collection) (int64, error) {
	return 0, errors.New("simulation store is read-only")
}

func (s *simulationStore) UpdateFloorPrice(context.Context, int64, decimal.Decimal) error {
	return nil
}

func (s *simulationStore) DeleteByName(context.Context, string) (int64, error) {
	return 0, nil
}

var _ fetcher.StatsSource = (*staticStats)(nil)
var _ storage.CollectionStore = (*simulationStore)(nil)
