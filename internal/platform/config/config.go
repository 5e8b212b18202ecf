package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv        string `env:"APP_ENV" default:"development"`
	Port          string `env:"PORT" default:"8080"`
	DatabaseURL   string `env:"DATABASE_URL"`
	RedisURL      string `env:"REDIS_URL"`
	SessionSecret string `env:"SESSION_SECRET"`
	CSRFSecret    string `env:"CSRF_SECRET"`
	LogLevel      string `env:"LOG_LEVEL" default:"info"`
	LogFormat     string `env:"LOG_FORMAT" default:"text"`

	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" default:"168h"` // 7 days
	CSRFTokenTTL  time.Duration `env:"CSRF_TOKEN_TTL" default:"1h"`
	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL" default:"30s"`

	AnalyticsQueueSize int `env:"ANALYTICS_QUEUE_SIZE" default:"1024"`

	AuthRatePerSecond float64 `env:"AUTH_RATE_PER_SECOND" default:"5"`
	AuthRateBurst     int     `env:"AUTH_RATE_BURST" default:"10"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"DATABASE_URL":   cfg.DatabaseURL,
		"REDIS_URL":      cfg.RedisURL,
		"SESSION_SECRET": cfg.SessionSecret,
		"CSRF_SECRET":    cfg.CSRFSecret,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if len(cfg.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters, got %d", len(cfg.SessionSecret))
	}
	if len(cfg.CSRFSecret) < 32 {
		return fmt.Errorf("CSRF_SECRET must be at least 32 characters, got %d", len(cfg.CSRFSecret))
	}

	if cfg.AnalyticsQueueSize < 1 {
		return fmt.Errorf("ANALYTICS_QUEUE_SIZE must be positive, got %d", cfg.AnalyticsQueueSize)
	}

	return nil
}

// IsProduction reports whether the app runs in production mode.
// Session and CSRF cookies are only marked Secure in production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
