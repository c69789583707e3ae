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
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Oracle   OracleConfig   `yaml:"oracle" mapstructure:"oracle"`
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Sheets   SheetsConfig   `yaml:"sheets" mapstructure:"sheets"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-log backend. Driver is one of
// "sqlite", "postgres", or "none" to disable run recording.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// SearchConfig holds ranked-link search provider settings.
type SearchConfig struct {
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
}

// FetchConfig holds page fetcher settings.
type FetchConfig struct {
	TimeoutSecs  int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxTextRunes int `yaml:"max_text_runes" mapstructure:"max_text_runes"`
}

// OracleConfig holds extraction oracle settings. Provider selects the
// backend: "openrouter" (chat-completions, default) or "anthropic".
// Key and Model may be overridden per request by the service caller.
type OracleConfig struct {
	Provider    string `yaml:"provider" mapstructure:"provider"`
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// RegistryConfig holds corporate-number registry settings.
type RegistryConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// SheetsConfig holds record-store (spreadsheet) writer settings.
type SheetsConfig struct {
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	SpreadsheetID string `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
}

// PipelineConfig configures the resolution decision rules.
type PipelineConfig struct {
	ConfidenceThreshold float64 `yaml:"confidence_threshold" mapstructure:"confidence_threshold"`
	DirectTopN          int     `yaml:"direct_top_n" mapstructure:"direct_top_n"`
	InvoiceTopN         int     `yaml:"invoice_top_n" mapstructure:"invoice_top_n"`
	CompanyTopN         int     `yaml:"company_top_n" mapstructure:"company_top_n"`
	CorpRepTopN         int     `yaml:"corp_rep_top_n" mapstructure:"corp_rep_top_n"`
}

// BatchConfig configures the XLSX roster command.
type BatchConfig struct {
	MaxConcurrentShops int `yaml:"max_concurrent_shops" mapstructure:"max_concurrent_shops"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("RESOLVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "runs.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("search.base_url", "https://ecosia1-477268798017.europe-west1.run.app")
	v.SetDefault("search.timeout_secs", 15)
	v.SetDefault("search.rate_per_second", 2)
	v.SetDefault("fetch.timeout_secs", 10)
	v.SetDefault("fetch.max_text_runes", 15000)
	v.SetDefault("oracle.provider", "openrouter")
	v.SetDefault("oracle.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("oracle.model", "openai/gpt-oss-20b:free")
	v.SetDefault("oracle.timeout_secs", 120)
	v.SetDefault("registry.base_url", "https://www.houjin-bangou.nta.go.jp")
	v.SetDefault("registry.timeout_secs", 10)
	v.SetDefault("sheets.base_url", "https://sheets.googleapis.com/v4")
	v.SetDefault("pipeline.confidence_threshold", 0.80)
	v.SetDefault("pipeline.direct_top_n", 3)
	v.SetDefault("pipeline.invoice_top_n", 3)
	v.SetDefault("pipeline.company_top_n", 3)
	v.SetDefault("pipeline.corp_rep_top_n", 5)
	v.SetDefault("batch.max_concurrent_shops", 4)

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
