package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Forecast ForecastConfig `yaml:"forecast" mapstructure:"forecast"`
	Fields   FieldsConfig   `yaml:"fields" mapstructure:"fields"`
	Feed     FeedConfig     `yaml:"feed" mapstructure:"feed"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DatabaseConfig configures the Postgres backend.
type DatabaseConfig struct {
	URL      string `yaml:"url" mapstructure:"url"`
	MaxConns int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// PipelineConfig configures batch orchestration and store retry.
type PipelineConfig struct {
	Parallelism int         `yaml:"parallelism" mapstructure:"parallelism"`
	HistoryDays int         `yaml:"history_days" mapstructure:"history_days"`
	Retry       RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// RetryConfig configures bounded retry of store operations.
type RetryConfig struct {
	MaxAttempts      int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMS int     `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMS     int     `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	Multiplier       float64 `yaml:"multiplier" mapstructure:"multiplier"`
	JitterFraction   float64 `yaml:"jitter_fraction" mapstructure:"jitter_fraction"`
}

// ForecastConfig tunes the projection engine.
type ForecastConfig struct {
	MinObservations int `yaml:"min_observations" mapstructure:"min_observations"`
	EWMASpan        int `yaml:"ewma_span" mapstructure:"ewma_span"`
	TrendWindow     int `yaml:"trend_window" mapstructure:"trend_window"`
}

// FieldsConfig points at the optional alias-table override file.
type FieldsConfig struct {
	AliasOverridePath string `yaml:"alias_override_path" mapstructure:"alias_override_path"`
}

// FeedConfig configures file-feed ingestion.
type FeedConfig struct {
	Dir            string  `yaml:"dir" mapstructure:"dir"`
	RatePerSecond  float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	Burst          int     `yaml:"burst" mapstructure:"burst"`
	DefaultsAnnual bool    `yaml:"defaults_annual" mapstructure:"defaults_annual"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FINTIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("pipeline.parallelism", 1)
	v.SetDefault("pipeline.history_days", 730)
	v.SetDefault("pipeline.retry.max_attempts", 3)
	v.SetDefault("pipeline.retry.initial_backoff_ms", 500)
	v.SetDefault("pipeline.retry.max_backoff_ms", 30000)
	v.SetDefault("pipeline.retry.multiplier", 2.0)
	v.SetDefault("pipeline.retry.jitter_fraction", 0.25)
	v.SetDefault("forecast.min_observations", 20)
	v.SetDefault("forecast.ewma_span", 20)
	v.SetDefault("forecast.trend_window", 20)
	v.SetDefault("feed.rate_per_second", 25.0)
	v.SetDefault("feed.burst", 5)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable for the given mode.
// All problems are reported at once.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "migrate", "status", "valuation", "forecast", "prices", "universe":
		// DB-only modes.
	case "ingest":
		if c.Feed.Dir == "" {
			problems = append(problems, "feed.dir is required")
		}
	case "batch":
		if c.Pipeline.Parallelism < 1 || c.Pipeline.Parallelism > 50 {
			problems = append(problems, "pipeline.parallelism must be between 1 and 50")
		}
		if c.Pipeline.Retry.MaxAttempts < 1 {
			problems = append(problems, "pipeline.retry.max_attempts must be >= 1")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Database.URL == "" {
		problems = append(problems, "database.url is required")
	}
	if c.Forecast.MinObservations < 2 {
		problems = append(problems, "forecast.min_observations must be >= 2")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
