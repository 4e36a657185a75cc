package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"nft-floor-alerts/internal/alerting"
	"nft-floor-alerts/internal/config"
	"nft-floor-alerts/internal/fetcher"
	"nft-floor-alerts/internal/scheduler"
	"nft-floor-alerts/internal/service"
	"nft-floor-alerts/internal/storage"
	"nft-floor-alerts/internal/version"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	// Out receives human-readable command output.
	Out io.Writer
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger(), Out: os.Stdout}
}

func (a *App) newRegistry() (*fetcher.Registry, *fetcher.OpenSea) {
	me := fetcher.NewMagicEden(fetcher.MagicEdenOptions{
		BaseURL:   a.Config.MagicEden.BaseURL,
		APIKey:    a.Config.MagicEden.APIKey,
		UserAgent: a.Config.MagicEden.UserAgent,
		Timeout:   a.Config.MagicEden.RequestTimeout,
	}, a.Logger)

	openSea := fetcher.NewOpenSea(fetcher.OpenSeaOptions{
		BaseURL:   a.Config.OpenSea.BaseURL,
		APIKey:    a.Config.OpenSea.APIKey,
		UserAgent: a.Config.OpenSea.UserAgent,
		Timeout:   a.Config.OpenSea.RequestTimeout,
	}, a.Logger)

	registry := fetcher.NewRegistry(me, openSea)
	for _, m := range registry.Missing() {
		a.Logger.Warn().Str("marketplace", m.String()).Msg("no adapter registered; its collections will fail every tick")
	}
	return registry, openSea
}

func (a *App) newTransport() (alerting.Transport, error) {
	cfg := a.Config.Alerting
	switch strings.ToLower(cfg.Transport) {
	case config.TransportDiscord:
		return alerting.NewDiscord(alerting.DiscordOptions{
			Username: cfg.Discord.Username,
			Timeout:  cfg.Discord.RequestTimeout,
		}, a.Logger), nil
	case config.TransportTelegram:
		if err := a.Config.RequireTelegram(); err != nil {
			return nil, err
		}
		return alerting.NewTelegram(alerting.TelegramOptions{
			BotToken: cfg.Telegram.BotToken,
			APIBase:  cfg.Telegram.APIBase,
			Timeout:  telegramTimeout(cfg.Telegram.RequestTimeout, a.Config.Tracker.SendTimeout),
		}, a.Logger)
	default:
		return nil, fmt.Errorf("unsupported alerting.transport %q", cfg.Transport)
	}
}

// telegramTimeout caps the bot client timeout at the tracker send timeout,
// since tgbotapi requests do not observe the caller's context.
func telegramTimeout(request, send time.Duration) time.Duration {
	if send > 0 && (request <= 0 || request > send) {
		return send
	}
	return request
}

func (a *App) openStore(ctx context.Context) (storage.Backend, error) {
	if a.Config.Database.DSN == "" {
		return nil, errors.New("database.dsn not configured")
	}
	return storage.Open(ctx, a.Config.Database)
}

func (a *App) newService(sched *scheduler.Scheduler, stats fetcher.StatsSource, store storage.CollectionStore, transport alerting.Transport) *service.Service {
	return service.New(service.Options{
		Concurrency:            a.Config.Tracker.Concurrency,
		PerProviderConcurrency: a.Config.Tracker.PerProviderConcurrency,
		FetchTimeout:           a.Config.Tracker.FetchTimeout,
		SendTimeout:            a.Config.Tracker.SendTimeout,
		AdvisoryLockKey:        a.Config.Scheduler.AdvisoryLockKey,
	}, sched, stats, store, transport, a.Logger)
}

// Run executes the long-running tracker.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	transport, err := a.newTransport()
	if err != nil {
		return err
	}
	registry, _ := a.newRegistry()

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToStart: a.Config.Scheduler.AlignToBucket,
		StartupDelay: a.Config.Scheduler.StartupDelay,
		RunOnStart:   a.Config.Scheduler.RunOnStart,
	}, a.Logger)

	svc := a.newService(sched, registry, store, transport)

	a.Logger.Info().
		Str("version", version.Version).
		Dur("interval", a.Config.Scheduler.Interval).
		Str("transport", a.Config.Alerting.Transport).
		Str("driver", a.Config.Database.Driver).
		Msg("starting floor tracker")
	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("tracker terminated with error")
		return err
	}

	a.Logger.Info().Msg("floor tracker stopped")
	return nil
}
