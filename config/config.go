package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"stocks-trader/database"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds runtime configuration sourced from the environment.
type Config struct {
	Port           string
	APIKey         string
	DBDriver       string
	DBDSN          string
	RedisURL       string
	SessionSecret  string
	SessionTTL     time.Duration
	QuoteBaseURL   string
	QuoteCacheTTL  time.Duration
	LoginRateLimit int
	LogLevel       slog.Level
}

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Port:          fallback(os.Getenv("PORT"), "8080"),
		APIKey:        strings.TrimSpace(os.Getenv("API_KEY")),
		DBDriver:      fallback(os.Getenv("DB_DRIVER"), "sqlite"),
		DBDSN:         fallback(os.Getenv("DB_DSN"), "finance.db"),
		RedisURL:      fallback(os.Getenv("REDIS_URL"), "redis://127.0.0.1:6379/0"),
		SessionSecret: strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		QuoteBaseURL:  fallback(os.Getenv("QUOTE_BASE_URL"), "https://www.alphavantage.co/query"),
	}

	if cfg.APIKey == "" {
		return Config{}, errors.New("API_KEY not set")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET not set")
	}

	var err error
	if cfg.SessionTTL, err = duration("SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.QuoteCacheTTL, err = duration("QUOTE_CACHE_TTL", 5*time.Minute); err != nil {
		return Config{}, err
	}

	limit := fallback(os.Getenv("LOGIN_RATE_LIMIT"), "5")
	cfg.LoginRateLimit, err = strconv.Atoi(limit)
	if err != nil || cfg.LoginRateLimit <= 0 {
		return Config{}, fmt.Errorf("LOGIN_RATE_LIMIT must be a positive integer, got %q", limit)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(fallback(os.Getenv("LOG_LEVEL"), "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return ":" + c.Port
}

// InitDB opens the configured database.
func InitDB(cfg Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.LogLevel <= slog.LevelDebug {
		level = logger.Info
	}
	db, err := database.Open(cfg.DBDriver, cfg.DBDSN, logger.Default.LogMode(level))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}
	return db, nil
}

// InitRedis connects to Redis and checks the connection.
func InitRedis(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func duration(name string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", name, raw)
	}
	return d, nil
}
