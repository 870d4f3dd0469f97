package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	DataSource struct {
		ChartBaseURL   string `yaml:"chart_base_url"`
		SummaryBaseURL string `yaml:"summary_base_url"`
		SearchBaseURL  string `yaml:"search_base_url"`
	} `yaml:"data_source"`
	Cache struct {
		RedisAddr         string `yaml:"redis_addr"`
		RedisPassword     string `yaml:"redis_password"`
		RedisDB           int    `yaml:"redis_db"`
		ResolveTTLSeconds int    `yaml:"resolve_ttl_seconds"`
		QuoteTTLSeconds   int    `yaml:"quote_ttl_seconds"`
	} `yaml:"cache"`
	Database struct {
		SQLitePath    string `yaml:"sqlite_path"`
		RetentionDays int    `yaml:"retention_days"`
		PruneCron     string `yaml:"prune_cron"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.RedisPassword = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("PRUNE_CRON"); v != "" {
		cfg.Database.PruneCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("RESOLVE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.ResolveTTLSeconds = n
		}
	}
	if v := os.Getenv("QUOTE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.QuoteTTLSeconds = n
		}
	}

	// Defaults
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.DataSource.ChartBaseURL == "" {
		cfg.DataSource.ChartBaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.DataSource.SummaryBaseURL == "" {
		cfg.DataSource.SummaryBaseURL = "https://query2.finance.yahoo.com"
	}
	if cfg.DataSource.SearchBaseURL == "" {
		cfg.DataSource.SearchBaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Cache.ResolveTTLSeconds == 0 {
		cfg.Cache.ResolveTTLSeconds = 3600
	}
	if cfg.Cache.QuoteTTLSeconds == 0 {
		cfg.Cache.QuoteTTLSeconds = 600
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stocksearch.db"
	}
	if cfg.Database.RetentionDays == 0 {
		cfg.Database.RetentionDays = 90
	}
	if cfg.Database.PruneCron == "" {
		cfg.Database.PruneCron = "0 0 4 * * *"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and sane.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if c.DataSource.ChartBaseURL == "" {
		return fmt.Errorf("data_source.chart_base_url is required")
	}
	if c.DataSource.SearchBaseURL == "" {
		return fmt.Errorf("data_source.search_base_url is required")
	}
	if c.Cache.ResolveTTLSeconds <= 0 {
		return fmt.Errorf("cache.resolve_ttl_seconds must be positive")
	}
	if c.Cache.QuoteTTLSeconds <= 0 {
		return fmt.Errorf("cache.quote_ttl_seconds must be positive")
	}
	if c.Database.RetentionDays < 0 {
		return fmt.Errorf("database.retention_days must not be negative")
	}
	return nil
}

// ResolveTTL returns the ticker-resolution cache TTL.
func (c *Config) ResolveTTL() time.Duration {
	return time.Duration(c.Cache.ResolveTTLSeconds) * time.Second
}

// QuoteTTL returns the quote-data cache TTL.
func (c *Config) QuoteTTL() time.Duration {
	return time.Duration(c.Cache.QuoteTTLSeconds) * time.Second
}
