package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "floorwatch", cfg.App.Name)
	require.Equal(t, time.Minute, cfg.Scheduler.Interval)
	require.False(t, cfg.Scheduler.AlignToBucket)
	require.True(t, cfg.Scheduler.RunOnStart)
	require.Equal(t, 8, cfg.Tracker.Concurrency)
	require.Equal(t, 15*time.Second, cfg.Tracker.FetchTimeout)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, TransportTelegram, cfg.Alerting.Transport)
	require.Equal(t, "https://api-mainnet.magiceden.dev", cfg.MagicEden.BaseURL)
	require.Equal(t, "https://api.opensea.io", cfg.OpenSea.BaseURL)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "floorwatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scheduler:
  interval: 30s
tracker:
  concurrency: 2
database:
  driver: sqlite
  dsn: data/floorwatch.db
alerting:
  transport: discord
`), 0o600))
	t.Setenv("FLOORWATCH_OPENSEA_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, cfg.Scheduler.Interval)
	require.Equal(t, 2, cfg.Tracker.Concurrency)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, TransportDiscord, cfg.Alerting.Transport)
	require.Equal(t, "from-env", cfg.OpenSea.APIKey)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FLOORWATCH_ALERTING_TELEGRAM_BOT_TOKEN=dotenv-token\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("FLOORWATCH_ALERTING_TELEGRAM_BOT_TOKEN") })

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "dotenv-token", cfg.Alerting.Telegram.BotToken)
	require.NoError(t, cfg.RequireTelegram())
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	bad := *cfg
	bad.Tracker.Concurrency = 0
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.Database.Driver = "mysql"
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.Alerting.Transport = "slack"
	require.Error(t, bad.Validate())

	bad = *cfg
	bad.Scheduler.Interval = 0
	require.Error(t, bad.Validate())

	require.Error(t, cfg.RequireTelegram())
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
