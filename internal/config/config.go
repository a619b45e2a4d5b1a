package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime settings for the API.
type Config struct {
	SourceURL           string          `yaml:"sourceUrl"`
	ListenAddr          string          `yaml:"listenAddr"`
	LogLevel            string          `yaml:"logLevel"`
	CacheTTLSeconds     int             `yaml:"cacheTtlSeconds"`
	FetchTimeoutSeconds int             `yaml:"fetchTimeoutSeconds"`
	RateLimit           RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig tunes the per-client token bucket. RPS of zero
// disables the limiter.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// DefaultConfig returns sane defaults for the API.
func DefaultConfig() Config {
	return Config{
		ListenAddr:          ":8080",
		LogLevel:            "info",
		CacheTTLSeconds:     300,
		FetchTimeoutSeconds: 20,
	}
}

// CacheTTL returns the catalog TTL; zero means "reload only when empty".
func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// FetchTimeout returns the bounded sheet download timeout.
func (c Config) FetchTimeout() time.Duration {
	if c.FetchTimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// Load builds the configuration by merging defaults, file, environment,
// and flags. Flags act as the ultimate override for operators.
func Load() (Config, error) {
	cfg := DefaultConfig()

	configFile := envOrDefault("PRECOS_CONFIG_FILE", "")

	fs := flag.NewFlagSet("precos-materiais-api", flag.ContinueOnError)
	fs.StringVar(&configFile, "config", configFile, "Path to YAML config file")
	fs.StringVar(&cfg.SourceURL, "source-url", cfg.SourceURL, "Published CSV URL of the material sheet")
	fs.StringVar(&cfg.ListenAddr, "listen-addr", cfg.ListenAddr, "HTTP listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.IntVar(&cfg.CacheTTLSeconds, "cache-ttl", cfg.CacheTTLSeconds, "Catalog cache TTL in seconds (0 keeps the catalog until a forced reload)")
	fs.IntVar(&cfg.FetchTimeoutSeconds, "fetch-timeout", cfg.FetchTimeoutSeconds, "Sheet download timeout in seconds")
	fs.Float64Var(&cfg.RateLimit.RPS, "rate-limit-rps", cfg.RateLimit.RPS, "Per-client requests per second (0 disables)")
	fs.IntVar(&cfg.RateLimit.Burst, "rate-limit-burst", cfg.RateLimit.Burst, "Per-client burst size")

	if err := fs.Parse(os.Args[1:]); err != nil { // flag set already prints errors
		return Config{}, err
	}

	if configFile != "" {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return Config{}, err
		}
	}

	// Apply env overrides after file load so that env > file.
	applyEnvOverrides(&cfg)

	if cfg.RateLimit.RPS < 0 {
		return Config{}, errors.New("rate limit rps must be non-negative")
	}
	if cfg.RateLimit.RPS > 0 && cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = 1
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path provided by the operator
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	type fileConfig Config
	var fileCfg fileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	mergeConfigs(cfg, Config(fileCfg))
	return nil
}

func mergeConfigs(base *Config, override Config) {
	if override.SourceURL != "" {
		base.SourceURL = override.SourceURL
	}
	if override.ListenAddr != "" {
		base.ListenAddr = override.ListenAddr
	}
	if override.LogLevel != "" {
		base.LogLevel = override.LogLevel
	}
	if override.CacheTTLSeconds != 0 {
		base.CacheTTLSeconds = override.CacheTTLSeconds
	}
	if override.FetchTimeoutSeconds != 0 {
		base.FetchTimeoutSeconds = override.FetchTimeoutSeconds
	}
	if override.RateLimit.RPS != 0 {
		base.RateLimit.RPS = override.RateLimit.RPS
	}
	if override.RateLimit.Burst != 0 {
		base.RateLimit.Burst = override.RateLimit.Burst
	}
}

func applyEnvOverrides(cfg *Config) {
	// FONTE_MATERIAIS_CSV_URL is the legacy name; MATERIAIS_URL wins
	// when both are set.
	if v := os.Getenv("FONTE_MATERIAIS_CSV_URL"); v != "" {
		cfg.SourceURL = v
	}
	if v := os.Getenv("MATERIAIS_URL"); v != "" {
		cfg.SourceURL = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if iv, err := strconv.Atoi(v); err == nil {
			cfg.CacheTTLSeconds = iv
		}
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		if iv, err := strconv.Atoi(v); err == nil {
			cfg.FetchTimeoutSeconds = iv
		}
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.ListenAddr = ":" + v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if fv, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimit.RPS = fv
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if iv, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.Burst = iv
		}
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
