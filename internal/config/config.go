package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig    `yaml:"server"`
	Auth        AuthConfig      `yaml:"auth"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	CORS        CORSConfig      `yaml:"cors"`
	Cache       CacheConfig     `yaml:"cache"`
	Logging     LoggingConfig   `yaml:"logging"`
	Tracing     TracingConfig   `yaml:"tracing"`
	Environment string          `yaml:"environment"`
}

type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

type AuthConfig struct {
	// APISecret seeds the rolling token hash. It is a soft anti-scraping
	// gate, not a real credential; see internal/auth.
	APISecret     string        `yaml:"api_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	SigningSecret string        `yaml:"signing_secret"`
}

type RateLimitConfig struct {
	PublicPerMinute   int      `yaml:"public_per_minute"`
	TrustedProxyCIDRs []string `yaml:"trusted_proxy_cidrs"`
}

type CORSConfig struct {
	AllowedOrigins  []string `yaml:"allowed_origins"`
	AllowAllOrigins bool     `yaml:"allow_all_origins"`
}

type CacheConfig struct {
	// Backend selects the page cache implementation: "memory" or "redis".
	Backend   string        `yaml:"backend"`
	RedisAddr string        `yaml:"redis_addr"`
	PageTTL   time.Duration `yaml:"page_ttl"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	ServiceName  string  `yaml:"service_name"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate"`
}

// Load builds configuration from environment variables, optionally overlaid
// on a YAML file when path is non-empty. Env vars win over file values so
// deployments can override a checked-in config.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.Auth.APISecret == "" {
		return Config{}, fmt.Errorf("API_SECRET is required")
	}
	if cfg.Cache.Backend != "memory" && cfg.Cache.Backend != "redis" {
		return Config{}, fmt.Errorf("CACHE_BACKEND must be memory or redis, got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.Backend == "redis" && cfg.Cache.RedisAddr == "" {
		return Config{}, fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			BaseURL: "http://localhost:8080",
		},
		Auth: AuthConfig{
			TokenTTL: 5 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			PublicPerMinute: 10,
		},
		Cache: CacheConfig{
			Backend: "memory",
			PageTTL: time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Exporter:    "none",
			ServiceName: "onthisday",
			SampleRate:  1.0,
		},
		Environment: "development",
	}
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("SERVER_PORT", cfg.Server.Port)
	cfg.Server.BaseURL = getEnv("SERVER_BASE_URL", cfg.Server.BaseURL)

	cfg.Auth.APISecret = getEnv("API_SECRET", cfg.Auth.APISecret)
	cfg.Auth.SigningSecret = getEnv("SIGNING_SECRET", cfg.Auth.SigningSecret)
	if seconds := getEnvInt("TOKEN_TTL_SECONDS", 0); seconds > 0 {
		cfg.Auth.TokenTTL = time.Duration(seconds) * time.Second
	}

	cfg.RateLimit.PublicPerMinute = getEnvInt("RATE_LIMIT_PUBLIC", cfg.RateLimit.PublicPerMinute)
	if cidrs := getEnv("TRUSTED_PROXY_CIDRS", ""); cidrs != "" {
		cfg.RateLimit.TrustedProxyCIDRs = splitList(cidrs)
	}

	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.CORS.AllowedOrigins = splitList(origins)
	}
	if getEnv("CORS_ALLOW_ALL", "") == "true" {
		cfg.CORS.AllowAllOrigins = true
	}

	cfg.Cache.Backend = getEnv("CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.RedisAddr = getEnv("REDIS_ADDR", cfg.Cache.RedisAddr)
	if seconds := getEnvInt("PAGE_CACHE_TTL_SECONDS", 0); seconds > 0 {
		cfg.Cache.PageTTL = time.Duration(seconds) * time.Second
	}

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)

	if getEnv("TRACING_ENABLED", "") == "true" {
		cfg.Tracing.Enabled = true
	}
	cfg.Tracing.Exporter = getEnv("TRACING_EXPORTER", cfg.Tracing.Exporter)
	cfg.Tracing.OTLPEndpoint = getEnv("TRACING_OTLP_ENDPOINT", cfg.Tracing.OTLPEndpoint)

	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
