package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("ListenAddr=%q", cfg.ListenAddr)
	}
	if cfg.CacheTTL().Seconds() != 300 {
		t.Fatalf("CacheTTL=%v", cfg.CacheTTL())
	}
	if cfg.FetchTimeout().Seconds() != 20 {
		t.Fatalf("FetchTimeout=%v", cfg.FetchTimeout())
	}
}

func TestCacheTTLZeroMeansNoExpiry(t *testing.T) {
	cfg := Config{CacheTTLSeconds: 0}
	if cfg.CacheTTL() != 0 {
		t.Fatalf("CacheTTL=%v want 0", cfg.CacheTTL())
	}
	cfg.CacheTTLSeconds = -5
	if cfg.CacheTTL() != 0 {
		t.Fatalf("negative ttl must clamp to 0, got %v", cfg.CacheTTL())
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("FONTE_MATERIAIS_CSV_URL", "https://example.com/legacy.csv")
	t.Setenv("MATERIAIS_URL", "https://example.com/planilha.csv")
	t.Setenv("CACHE_TTL", "60")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	applyEnvOverrides(&cfg)

	if cfg.SourceURL != "https://example.com/planilha.csv" {
		t.Fatalf("MATERIAIS_URL must win over the legacy variable, got %q", cfg.SourceURL)
	}
	if cfg.CacheTTLSeconds != 60 {
		t.Fatalf("CacheTTLSeconds=%d", cfg.CacheTTLSeconds)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("ListenAddr=%q", cfg.ListenAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel=%q", cfg.LogLevel)
	}
}

func TestLegacySourceEnvAlone(t *testing.T) {
	t.Setenv("FONTE_MATERIAIS_CSV_URL", "https://example.com/legacy.csv")

	cfg := DefaultConfig()
	applyEnvOverrides(&cfg)

	if cfg.SourceURL != "https://example.com/legacy.csv" {
		t.Fatalf("SourceURL=%q", cfg.SourceURL)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "sourceUrl: https://example.com/planilha.csv\ncacheTtlSeconds: 120\nrateLimit:\n  rps: 5\n  burst: 10\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := loadFromFile(path, &cfg); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if cfg.SourceURL != "https://example.com/planilha.csv" {
		t.Fatalf("SourceURL=%q", cfg.SourceURL)
	}
	if cfg.CacheTTLSeconds != 120 {
		t.Fatalf("CacheTTLSeconds=%d", cfg.CacheTTLSeconds)
	}
	if cfg.RateLimit.RPS != 5 || cfg.RateLimit.Burst != 10 {
		t.Fatalf("RateLimit=%+v", cfg.RateLimit)
	}
	// Untouched fields keep their defaults.
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("ListenAddr=%q", cfg.ListenAddr)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	if err := loadFromFile(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}
