package service

//go:generate mockgen -package=service -destination=mock_transport_test.go nft-floor-alerts/internal/alerting Transport
//go:generate mockgen -package=service -destination=mock_store_test.go nft-floor-alerts/internal/storage CollectionStore
//go:generate mockgen -package=service -destination=mock_stats_test.go nft-floor-alerts/internal/fetcher StatsSource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"nft-floor-alerts/internal/alerting"
	"nft-floor-alerts/internal/fetcher"
	"nft-floor-alerts/internal/market"
	"nft-floor-alerts/internal/scheduler"
	"nft-floor-alerts/internal/storage"
)

// Options bound the work done in one tick.
type Options struct {
	Concurrency            int
	PerProviderConcurrency int
	FetchTimeout           time.Duration
	SendTimeout            time.Duration
	AdvisoryLockKey        int64
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = 8
	}
	if o.PerProviderConcurrency <= 0 {
		o.PerProviderConcurrency = 4
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 15 * time.Second
	}
	if o.SendTimeout <= 0 {
		o.SendTimeout = 15 * time.Second
	}
	return o
}

// Report summarises one tick.
type Report struct {
	TickID      string
	At          time.Time
	Skipped     bool
	Collections int
	Notified    int
	Unchanged   int
	NoData      int
	Reconciled  int
	Failed      int
}

type outcome int

const (
	outcomeFailed outcome = iota
	outcomeNotified
	outcomeUnchanged
	outcomeNoData
	outcomeReconciled
)

// Service orchestrates fetching, change detection, notification and persistence.
type Service struct {
	scheduler *scheduler.Scheduler
	stats     fetcher.StatsSource
	store     storage.CollectionStore
	transport alerting.Transport
	locker    storage.AdvisoryLocker
	opts      Options
	logger    zerolog.Logger

	limits map[market.Marketplace]*semaphore.Weighted

	// tickMu keeps ticks strictly sequential even when Sweep is called
	// outside the scheduler.
	tickMu sync.Mutex

	// pending holds floors that were announced but failed to persist.
	pendingMu sync.Mutex
	pending   map[int64]decimal.Decimal

	newTickID func() string
}

// New constructs the tracking service. A store that also implements
// storage.AdvisoryLocker is used to keep concurrent processes from racing.
func New(opts Options, sched *scheduler.Scheduler, stats fetcher.StatsSource, store storage.CollectionStore, transport alerting.Transport, logger zerolog.Logger) *Service {
	opts = opts.withDefaults()

	var locker storage.AdvisoryLocker
	if l, ok := store.(storage.AdvisoryLocker); ok {
		locker = l
	}

	limits := make(map[market.Marketplace]*semaphore.Weighted)
	for _, m := range market.Marketplaces() {
		limits[m] = semaphore.NewWeighted(int64(opts.PerProviderConcurrency))
	}

	return &Service{
		scheduler: sched,
		stats:     stats,
		store:     store,
		transport: transport,
		locker:    locker,
		opts:      opts,
		logger:    logger.With().Str("component", "service").Logger(),
		limits:    limits,
		pending:   make(map[int64]decimal.Decimal),
		newTickID: uuid.NewString,
	}
}

// Run begins the periodic tracking loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.ProcessTick)
}

// ProcessTick adapts Sweep to scheduler.TickFunc.
func (s *Service) ProcessTick(ctx context.Context, at time.Time) error {
	_, err := s.Sweep(ctx, at)
	return err
}

// Sweep runs one tick over every tracked collection. Per-collection failures
// are logged and counted; only a failure to load the collections is returned.
func (s *Service) Sweep(ctx context.Context, at time.Time) (Report, error) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	report := Report{TickID: s.newTickID(), At: at}
	logger := s.logger.With().Str("tick_id", report.TickID).Logger()

	unlock, proceed, err := s.acquireLock(ctx)
	if err != nil {
		return report, err
	}
	if !proceed {
		report.Skipped = true
		logger.Debug().Time("at", at).Msg("skip tick because advisory lock held elsewhere")
		return report, nil
	}
	if unlock != nil {
		defer unlock()
	}

	collections, err := s.store.FindAll(ctx)
	if err != nil {
		return report, fmt.Errorf("load collections: %w", err)
	}
	report.Collections = len(collections)
	s.prunePending(collections)

	outcomes := make([]outcome, len(collections))
	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, c := range collections {
		i, c := i, c
		g.Go(func() error {
			outcomes[i] = s.processCollection(ctx, logger, c, at)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		switch o {
		case outcomeNotified:
			report.Notified++
		case outcomeUnchanged:
			report.Unchanged++
		case outcomeNoData:
			report.NoData++
		case outcomeReconciled:
			report.Reconciled++
		default:
			report.Failed++
		}
	}

	logger.Info().
		Time("at", at).
		Int("collections", report.Collections).
		Int("notified", report.Notified).
		Int("unchanged", report.Unchanged).
		Int("no_data", report.NoData).
		Int("reconciled", report.Reconciled).
		Int("failed", report.Failed).
		Msg("tick complete")
	return report, nil
}

func (s *Service) processCollection(ctx context.Context, tickLogger zerolog.Logger, c market.Collection, at time.Time) outcome {
	logger := tickLogger.With().
		Str("collection", c.Name).
		Str("marketplace", c.Marketplace.String()).
		Str("chain", c.Chain.String()).
		Logger()

	stats, err := s.fetch(ctx, c)
	if err != nil {
		logger.Warn().Err(err).Str("kind", fetcher.KindOf(err)).Msg("fetch failed")
		return outcomeFailed
	}
	if !stats.HasFloor() {
		logger.Debug().Msg("no floor price reported")
		return outcomeNoData
	}
	current := stats.FloorPrice.Decimal

	previous := c.LastFloorPrice
	if announced, ok := s.pendingFloor(c.ID); ok {
		if announced.Equal(current) {
			return s.reconcile(ctx, logger, c, current)
		}
		// compare against what subscribers last saw, not the stale row
		previous = decimal.NewNullDecimal(announced)
	}

	ev, changed := market.Detect(previous, stats, at)
	if !changed {
		return outcomeUnchanged
	}
	ev.CollectionID = c.ID

	dest, err := s.transport.ResolveDestination(ctx, c.Channel)
	if err != nil {
		logger.Warn().Err(err).Str("channel", alerting.MaskDestination(c.Channel)).Msg("destination unavailable, skipping")
		return outcomeFailed
	}

	payload := alerting.Format(c, stats, ev)

	// once sending starts the send and persist pair completes even on shutdown
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.SendTimeout)
	defer cancel()

	if err := s.transport.Send(sendCtx, dest, payload); err != nil {
		logger.Error().Err(err).Str("floor", current.String()).Msg("send failed, floor not persisted")
		return outcomeFailed
	}

	if err := s.store.UpdateFloorPrice(sendCtx, c.ID, current); err != nil {
		s.setPending(c.ID, current)
		logger.Error().Err(err).Str("floor", current.String()).Msg("notified but failed to persist floor")
		return outcomeNotified
	}
	s.clearPending(c.ID)

	logger.Info().
		Str("direction", string(ev.Direction)).
		Str("previous", nullString(ev.Previous)).
		Str("floor", current.String()).
		Msg("floor change notified")
	return outcomeNotified
}

func (s *Service) fetch(ctx context.Context, c market.Collection) (market.Stats, error) {
	if sem := s.limits[c.Marketplace]; sem != nil {
		if err := sem.Acquire(ctx, 1); err != nil {
			return market.Stats{}, err
		}
		defer sem.Release(1)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()
	return s.stats.GetStats(fetchCtx, c)
}

// reconcile persists a floor that was already announced without notifying again.
func (s *Service) reconcile(ctx context.Context, logger zerolog.Logger, c market.Collection, floor decimal.Decimal) outcome {
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.SendTimeout)
	defer cancel()

	if err := s.store.UpdateFloorPrice(persistCtx, c.ID, floor); err != nil {
		logger.Error().Err(err).Str("floor", floor.String()).Msg("reconcile persist failed")
		return outcomeFailed
	}
	s.clearPending(c.ID)
	logger.Info().Str("floor", floor.String()).Msg("reconciled previously announced floor")
	return outcomeReconciled
}

func (s *Service) pendingFloor(id int64) (decimal.Decimal, bool) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	d, ok := s.pending[id]
	return d, ok
}

func (s *Service) setPending(id int64, floor decimal.Decimal) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	s.pending[id] = floor
}

func (s *Service) clearPending(id int64) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	delete(s.pending, id)
}

func (s *Service) prunePending(collections []market.Collection) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	if len(s.pending) == 0 {
		return
	}
	live := make(map[int64]struct{}, len(collections))
	for _, c := range collections {
		live[c.ID] = struct{}{}
	}
	for id := range s.pending {
		if _, ok := live[id]; !ok {
			delete(s.pending, id)
		}
	}
}

func (s *Service) acquireLock(ctx context.Context) (func(), bool, error) {
	if s.opts.AdvisoryLockKey == 0 || s.locker == nil {
		return nil, true, nil
	}
	unlock, acquired, err := s.locker.TryAdvisoryLock(ctx, s.opts.AdvisoryLockKey)
	if err != nil {
		return nil, false, fmt.Errorf("acquire advisory lock: %w", err)
	}
	if !acquired {
		return nil, false, nil
	}
	return unlock, true, nil
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return alerting.Placeholder
	}
	return d.Decimal.String()
}
