package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("listen_addr = %q, want :8080", cfg.Server.ListenAddr)
	}
	if cfg.Cache.ResolveTTLSeconds != 3600 || cfg.Cache.QuoteTTLSeconds != 600 {
		t.Errorf("TTL defaults = %d/%d, want 3600/600",
			cfg.Cache.ResolveTTLSeconds, cfg.Cache.QuoteTTLSeconds)
	}
	if cfg.DataSource.ChartBaseURL == "" || cfg.DataSource.SearchBaseURL == "" {
		t.Error("expected default data source URLs")
	}
	if cfg.Database.RetentionDays != 90 {
		t.Errorf("retention_days = %d, want 90", cfg.Database.RetentionDays)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  listen_addr: ":9000"
cache:
  quote_ttl_seconds: 120
database:
  sqlite_path: "from_file.db"
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SQLITE_PATH", "from_env.db")
	t.Setenv("RESOLVE_TTL_SECONDS", "60")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.ListenAddr != ":9000" {
		t.Errorf("listen_addr = %q, want :9000", cfg.Server.ListenAddr)
	}
	if cfg.Database.SQLitePath != "from_env.db" {
		t.Errorf("sqlite_path = %q, env should win over file", cfg.Database.SQLitePath)
	}
	if cfg.Cache.QuoteTTLSeconds != 120 {
		t.Errorf("quote_ttl_seconds = %d, want 120", cfg.Cache.QuoteTTLSeconds)
	}
	if got := cfg.ResolveTTL(); got != time.Minute {
		t.Errorf("ResolveTTL = %v, want 1m", got)
	}
}

func TestValidate_Errors(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg.Cache.QuoteTTLSeconds = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative quote TTL")
	}
	cfg.Cache.QuoteTTLSeconds = 600

	cfg.Server.ListenAddr = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty listen_addr")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [broken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
