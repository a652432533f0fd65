package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"qrbill/pkg/charset"
)

// Store backends for issued bills.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr      string
	LogLevel  string
	LogFormat string

	Store       string
	PostgresDSN string
	Redis       RedisConfig
	BillTTL     time.Duration

	// CharacterSet applies to requests that do not name one.
	CharacterSet charset.CharacterSet

	BatchLimit       int
	BatchConcurrency int
}

// RedisConfig holds connection settings for the Redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:        envOr("QRBILL_ADDR", ":8080"),
		LogLevel:    envOr("QRBILL_LOG_LEVEL", "info"),
		LogFormat:   envOr("QRBILL_LOG_FORMAT", "json"),
		Store:       envOr("QRBILL_STORE", StoreMemory),
		PostgresDSN: os.Getenv("QRBILL_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL: os.Getenv("QRBILL_REDIS_URL"),
		},
	}

	var err error
	if cfg.BillTTL, err = durationEnv("QRBILL_BILL_TTL", 720*time.Hour); err != nil {
		return Server{}, err
	}
	if cfg.BatchLimit, err = intEnv("QRBILL_BATCH_LIMIT", 50); err != nil {
		return Server{}, err
	}
	if cfg.BatchConcurrency, err = intEnv("QRBILL_BATCH_CONCURRENCY", 8); err != nil {
		return Server{}, err
	}
	if cfg.Redis.PoolSize, err = intEnv("QRBILL_REDIS_POOL_SIZE", 10); err != nil {
		return Server{}, err
	}
	if cfg.Redis.MinIdleConns, err = intEnv("QRBILL_REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return Server{}, err
	}
	if cfg.Redis.DialTimeout, err = durationEnv("QRBILL_REDIS_DIAL_TIMEOUT", 5*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.ReadTimeout, err = durationEnv("QRBILL_REDIS_READ_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.WriteTimeout, err = durationEnv("QRBILL_REDIS_WRITE_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}

	if v := os.Getenv("QRBILL_CHARACTER_SET"); v != "" {
		if cfg.CharacterSet, err = charset.ParseCharacterSet(v); err != nil {
			return Server{}, fmt.Errorf("QRBILL_CHARACTER_SET: %w", err)
		}
	}

	switch cfg.Store {
	case StoreMemory:
	case StorePostgres:
		if cfg.PostgresDSN == "" {
			return Server{}, fmt.Errorf("QRBILL_POSTGRES_DSN is required for store %q", cfg.Store)
		}
	case StoreRedis:
		if cfg.Redis.URL == "" {
			return Server{}, fmt.Errorf("QRBILL_REDIS_URL is required for store %q", cfg.Store)
		}
	default:
		return Server{}, fmt.Errorf("QRBILL_STORE: unknown store %q", cfg.Store)
	}

	if cfg.BatchLimit < 1 || cfg.BatchConcurrency < 1 {
		return Server{}, fmt.Errorf("batch limit and concurrency must be positive")
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
