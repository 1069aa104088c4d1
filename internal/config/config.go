package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the keywordlens server.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Backend   BackendConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

// DatabaseConfig is optional; an empty URL selects the in-memory store.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsDir   string
}

// RedisConfig is optional; an empty URL keeps rate-limit counters and
// terminal job snapshots in process memory.
type RedisConfig struct {
	URL string
}

type BackendConfig struct {
	UseMock     bool
	BaseURL     string
	AuthToken   string
	Timeout     time.Duration
	MockLatency time.Duration
}

type RateLimitConfig struct {
	AnalyzePerMinute int
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("KEYWORDLENS_PORT", 8080),
			Env:  envString("KEYWORDLENS_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
			MigrationsDir:   envString("MIGRATIONS_DIR", "migrations"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Backend: BackendConfig{
			UseMock:     envBool("USE_MOCK_API", false),
			BaseURL:     strings.TrimRight(os.Getenv("API_BASE_URL"), "/"),
			AuthToken:   os.Getenv("AUTH_TOKEN"),
			Timeout:     envDuration("BACKEND_TIMEOUT", 30*time.Second),
			MockLatency: envDuration("MOCK_LATENCY", 2*time.Second),
		},
		RateLimit: RateLimitConfig{
			AnalyzePerMinute: envInt("RATE_LIMIT_PER_MINUTE", 5),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ClientConfig configures kwctl.
type ClientConfig struct {
	APIURL       string
	Timeout      time.Duration
	PollInterval time.Duration
}

const (
	defaultAPIURL        = "http://localhost:8080"
	defaultClientTimeout = 30 * time.Second
	defaultPollInterval  = 3 * time.Second
)

// LoadClient reads the kwctl settings from an optional kwctl.yaml (in the
// working directory or ~/.config/keywordlens) overlaid by environment
// variables. Command-line flags override the result.
func LoadClient() (ClientConfig, error) {
	v := viper.New()
	v.SetConfigName("kwctl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "keywordlens"))
	}

	v.SetDefault("api_url", defaultAPIURL)
	v.SetDefault("timeout", defaultClientTimeout)
	v.SetDefault("poll_interval", defaultPollInterval)
	_ = v.BindEnv("api_url", "KEYWORDLENS_API_URL")
	_ = v.BindEnv("timeout", "KEYWORDLENS_CLIENT_TIMEOUT")
	_ = v.BindEnv("poll_interval", "POLL_INTERVAL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return ClientConfig{}, fmt.Errorf("read kwctl config: %w", err)
		}
	}

	cfg := ClientConfig{
		APIURL:       strings.TrimRight(v.GetString("api_url"), "/"),
		Timeout:      v.GetDuration("timeout"),
		PollInterval: v.GetDuration("poll_interval"),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultClientTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if !strings.HasPrefix(cfg.APIURL, "http://") && !strings.HasPrefix(cfg.APIURL, "https://") {
		return ClientConfig{}, fmt.Errorf("KEYWORDLENS_API_URL must start with http:// or https://, got %q", cfg.APIURL)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("KEYWORDLENS_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if !c.Backend.UseMock {
		if c.Backend.BaseURL == "" {
			return fmt.Errorf("API_BASE_URL is required when USE_MOCK_API is not true")
		}
		if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
			return fmt.Errorf("API_BASE_URL must start with http:// or https://, got %q", c.Backend.BaseURL)
		}
	}

	if c.Database.URL != "" &&
		!strings.HasPrefix(c.Database.URL, "postgres://") && !strings.HasPrefix(c.Database.URL, "postgresql://") {
		return fmt.Errorf("DATABASE_URL must be a postgres:// URL")
	}

	if c.RateLimit.AnalyzePerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimit.AnalyzePerMinute)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
