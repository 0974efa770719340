package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Discogs  DiscogsConfig  `mapstructure:"discogs"`
	Ebay     EbayConfig     `mapstructure:"ebay"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Matcher  MatcherConfig  `mapstructure:"matcher"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Refresh  RefreshConfig  `mapstructure:"refresh"`
	Cleanup  CleanupConfig  `mapstructure:"cleanup"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type DiscogsConfig struct {
	Token          string        `mapstructure:"token"`
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	CallsPerMinute int           `mapstructure:"calls_per_minute"`
	SeedQueries    []string      `mapstructure:"seed_queries"`
	SeedLimit      int           `mapstructure:"seed_limit"`
}

type EbayConfig struct {
	AppID          string        `mapstructure:"app_id"`
	CertID         string        `mapstructure:"cert_id"`
	BaseURL        string        `mapstructure:"base_url"`
	TokenURL       string        `mapstructure:"token_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	CallsPerMinute int           `mapstructure:"calls_per_minute"`
	SearchLimit    int           `mapstructure:"search_limit"`
	CampaignID     string        `mapstructure:"campaign_id"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type MatcherConfig struct {
	FuzzyCutoff     float64 `mapstructure:"fuzzy_cutoff"`
	FuzzyCandidates int     `mapstructure:"fuzzy_candidates"`
}

type ScanConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

type RefreshConfig struct {
	Schedule string        `mapstructure:"schedule"`
	MaxAge   time.Duration `mapstructure:"max_age"`
}

type CleanupConfig struct {
	Schedule          string        `mapstructure:"schedule"`
	ListingRetention  time.Duration `mapstructure:"listing_retention"`
	AlertLogRetention time.Duration `mapstructure:"alert_log_retention"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)

	// SQLite: a single writer connection avoids SQLITE_BUSY under WAL.
	v.SetDefault("db.path", "vinylscout.db")
	v.SetDefault("db.max_open_conns", 1)
	v.SetDefault("db.max_idle_conns", 1)
	v.SetDefault("db.conn_max_lifetime", "1h")

	v.SetDefault("discogs.base_url", "https://api.discogs.com")
	v.SetDefault("discogs.timeout", "30s")
	v.SetDefault("discogs.calls_per_minute", 60)
	v.SetDefault("discogs.seed_limit", 50)

	v.SetDefault("ebay.base_url", "https://api.ebay.com")
	v.SetDefault("ebay.token_url", "https://api.ebay.com/identity/v1/oauth2/token")
	v.SetDefault("ebay.timeout", "30s")
	v.SetDefault("ebay.calls_per_minute", 100)
	v.SetDefault("ebay.search_limit", 200)
	v.SetDefault("ebay.campaign_id", "")

	v.SetDefault("matcher.fuzzy_cutoff", 0.85)
	v.SetDefault("matcher.fuzzy_candidates", 50)

	v.SetDefault("scan.tick_interval", "1m")

	v.SetDefault("refresh.schedule", "@every 24h")
	v.SetDefault("refresh.max_age", "168h")

	v.SetDefault("cleanup.schedule", "@every 24h")
	v.SetDefault("cleanup.listing_retention", "720h")
	v.SetDefault("cleanup.alert_log_retention", "2160h")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
