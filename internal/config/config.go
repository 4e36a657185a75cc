package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"nft-floor-alerts/internal/logging"
)

// EnvPrefix namespaces environment overrides, e.g. FLOORWATCH_OPENSEA_API_KEY.
const EnvPrefix = "FLOORWATCH"

// Notification transports.
const (
	TransportTelegram = "telegram"
	TransportDiscord  = "discord"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Tracker   TrackerConfig   `mapstructure:"tracker"`
	MagicEden ProviderConfig  `mapstructure:"magiceden"`
	OpenSea   ProviderConfig  `mapstructure:"opensea"`
	Alerting  AlertingConfig  `mapstructure:"alerting"`
	Export    ExportConfig    `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	EnvFile     string `mapstructure:"env_file"`
}

// DatabaseConfig selects and tunes the collection store.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// SchedulerConfig governs tick cadence.
type SchedulerConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	AlignToBucket   bool          `mapstructure:"align_to_bucket"`
	RunOnStart      bool          `mapstructure:"run_on_start"`
	AdvisoryLockKey int64         `mapstructure:"advisory_lock_key"`
	StartupDelay    time.Duration `mapstructure:"startup_delay"`
}

// TrackerConfig bounds the per-tick fan-out.
type TrackerConfig struct {
	Concurrency            int           `mapstructure:"concurrency"`
	PerProviderConcurrency int           `mapstructure:"per_provider_concurrency"`
	FetchTimeout           time.Duration `mapstructure:"fetch_timeout"`
	SendTimeout            time.Duration `mapstructure:"send_timeout"`
}

// ProviderConfig captures marketplace API connectivity.
type ProviderConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// AlertingConfig selects the notification transport.
type AlertingConfig struct {
	Transport string         `mapstructure:"transport"`
	Telegram  TelegramConfig `mapstructure:"telegram"`
	Discord   DiscordConfig  `mapstructure:"discord"`
}

// TelegramConfig describes the Telegram bot.
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	APIBase        string        `mapstructure:"api_base"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DiscordConfig describes webhook delivery.
type DiscordConfig struct {
	Username       string        `mapstructure:"username"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	ChartWidth  int `mapstructure:"chart_width"`
	ChartHeight int `mapstructure:"chart_height"`
}

// Load builds configuration from a .env file, config file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := loadEnvFile(v.GetString("app.env_file")); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadEnvFile exports variables from a dotenv file without overriding the
// real environment. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "floorwatch")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.env_file", ".env")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("scheduler.interval", "1m")
	v.SetDefault("scheduler.align_to_bucket", false)
	v.SetDefault("scheduler.run_on_start", true)
	v.SetDefault("scheduler.advisory_lock_key", int64(0x666c6f6f))
	v.SetDefault("scheduler.startup_delay", "0s")

	v.SetDefault("tracker.concurrency", 8)
	v.SetDefault("tracker.per_provider_concurrency", 4)
	v.SetDefault("tracker.fetch_timeout", "15s")
	v.SetDefault("tracker.send_timeout", "15s")

	v.SetDefault("magiceden.base_url", "https://api-mainnet.magiceden.dev")
	v.SetDefault("magiceden.api_key", "")
	v.SetDefault("magiceden.request_timeout", "10s")
	v.SetDefault("magiceden.user_agent", "floorwatch/1.0")

	v.SetDefault("opensea.base_url", "https://api.opensea.io")
	v.SetDefault("opensea.api_key", "")
	v.SetDefault("opensea.request_timeout", "10s")
	v.SetDefault("opensea.user_agent", "floorwatch/1.0")

	v.SetDefault("alerting.transport", TransportTelegram)
	v.SetDefault("alerting.telegram.bot_token", "")
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")
	v.SetDefault("alerting.telegram.request_timeout", "10s")
	v.SetDefault("alerting.discord.username", "Floor Price Tracker")
	v.SetDefault("alerting.discord.request_timeout", "10s")

	v.SetDefault("export.chart_width", 1024)
	v.SetDefault("export.chart_height", 512)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be greater than zero")
	}
	if c.Tracker.Concurrency <= 0 {
		return fmt.Errorf("tracker.concurrency must be greater than zero")
	}
	if c.Tracker.PerProviderConcurrency <= 0 {
		return fmt.Errorf("tracker.per_provider_concurrency must be greater than zero")
	}
	if c.Tracker.FetchTimeout <= 0 || c.Tracker.SendTimeout <= 0 {
		return fmt.Errorf("tracker.fetch_timeout and tracker.send_timeout must be greater than zero")
	}
	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "sqlite", "gorm-postgres":
	default:
		return fmt.Errorf("database.driver must be one of postgres, sqlite, gorm-postgres (got %q)", c.Database.Driver)
	}
	switch strings.ToLower(c.Alerting.Transport) {
	case TransportTelegram, TransportDiscord:
	default:
		return fmt.Errorf("alerting.transport must be telegram or discord (got %q)", c.Alerting.Transport)
	}
	if c.Export.ChartWidth <= 0 || c.Export.ChartHeight <= 0 {
		return fmt.Errorf("export.chart_width and export.chart_height must be greater than zero")
	}
	return nil
}

// RequireTelegram checks the credentials needed to start the Telegram transport.
func (c *Config) RequireTelegram() error {
	if strings.TrimSpace(c.Alerting.Telegram.BotToken) == "" {
		return fmt.Errorf("alerting.telegram.bot_token must be configured")
	}
	return nil
}
