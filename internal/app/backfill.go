package app

import (
	"context"
	"errors"
	"fmt"

	"nft-floor-alerts/internal/storage"
)

// ErrTickInProgress is returned when a running tracker holds the tick lock.
var ErrTickInProgress = errors.New("a tracker tick is in progress; retry the backfill later")

// BackfillOptions control the silent floor seeding pass.
type BackfillOptions struct {
	DryRun bool
}

// Backfill records the current floor of each collection that has none yet,
// without sending any alert, so a freshly added set does not announce every
// floor on the first tick. Floors already stored are never replaced, and the
// pass holds the tick lock so it cannot interleave with a running tracker.
func (a *App) Backfill(ctx context.Context, opts BackfillOptions) error {
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if opts.DryRun {
		a.Logger.Warn().Msg("backfill dry-run: floors will not be written")
	} else {
		unlock, err := a.lockTicks(ctx, store)
		if err != nil {
			return err
		}
		defer unlock()
	}

	collections, err := store.FindAll(ctx)
	if err != nil {
		return err
	}
	registry, _ := a.newRegistry()

	seeded, skipped, failed := 0, 0, 0
	for _, c := range collections {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if c.LastFloorPrice.Valid {
			skipped++
			continue
		}

		logger := a.Logger.With().Str("collection", c.Name).Str("marketplace", c.Marketplace.String()).Logger()

		fetchCtx, cancel := context.WithTimeout(ctx, a.Config.Tracker.FetchTimeout)
		stats, err := registry.GetStats(fetchCtx, c)
		cancel()
		if err != nil {
			failed++
			logger.Error().Err(err).Msg("backfill fetch failed")
			continue
		}
		if !stats.HasFloor() {
			skipped++
			logger.Info().Msg("no floor reported, leaving empty")
			continue
		}
		floor := stats.FloorPrice.Decimal

		if !opts.DryRun {
			ok, err := store.SeedFloorPrice(ctx, c.ID, floor)
			if err != nil {
				failed++
				logger.Error().Err(err).Msg("backfill persist failed")
				continue
			}
			if !ok {
				skipped++
				logger.Info().Msg("floor recorded meanwhile, keeping it")
				continue
			}
		}
		seeded++
		fmt.Fprintf(a.Out, "%s\t%s %s\n", c.Name, floor.String(), c.Chain.Symbol())
	}

	a.Logger.Info().Int("seeded", seeded).Int("skipped", skipped).Int("failed", failed).Bool("dry_run", opts.DryRun).Msg("backfill complete")
	if failed > 0 {
		return errors.New("some collections could not be backfilled, check the logs")
	}
	return nil
}

// lockTicks takes the advisory lock the tracker takes per tick. Backends
// without advisory locks return a no-op release.
func (a *App) lockTicks(ctx context.Context, store storage.Backend) (func(), error) {
	key := a.Config.Scheduler.AdvisoryLockKey
	locker, ok := store.(storage.AdvisoryLocker)
	if key == 0 || !ok {
		return func() {}, nil
	}
	unlock, acquired, err := locker.TryAdvisoryLock(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}
	if !acquired {
		return nil, ErrTickInProgress
	}
	return unlock, nil
}
