package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env            string
	Addr           string
	DBDSN          string
	LogLevel       string
	TokenSecret    string
	TokenTTL       time.Duration
	GoogleClientID string

	// StreakMaxDays caps the backward scan when computing streaks.
	StreakMaxDays int

	// QueryTimeout bounds a single aggregation call against the store.
	QueryTimeout time.Duration
}

func Load() (Config, error) {
	return LoadFromEnv(os.Getenv)
}

func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:            getenv("APP_ENV"),
		Addr:           getenv("APP_ADDR"),
		DBDSN:          getenv("APP_DB_DSN"),
		LogLevel:       getenv("APP_LOG_LEVEL"),
		TokenSecret:    getenv("APP_TOKEN_SECRET"),
		GoogleClientID: getenv("APP_GOOGLE_CLIENT_ID"),
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	ttlRaw := getenv("APP_TOKEN_TTL")
	if ttlRaw == "" {
		cfg.TokenTTL = 7 * 24 * time.Hour
	} else {
		ttl, err := time.ParseDuration(ttlRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_TOKEN_TTL: %w", err)
		}
		if ttl <= 0 {
			return Config{}, errors.New("APP_TOKEN_TTL: must be > 0")
		}
		cfg.TokenTTL = ttl
	}

	streakRaw := getenv("APP_STREAK_MAX_DAYS")
	if streakRaw == "" {
		cfg.StreakMaxDays = 3650
	} else {
		n, err := strconv.Atoi(streakRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_STREAK_MAX_DAYS: %w", err)
		}
		if n <= 0 {
			return Config{}, errors.New("APP_STREAK_MAX_DAYS: must be > 0")
		}
		cfg.StreakMaxDays = n
	}

	timeoutRaw := getenv("APP_QUERY_TIMEOUT")
	if timeoutRaw == "" {
		cfg.QueryTimeout = 10 * time.Second
	} else {
		d, err := time.ParseDuration(timeoutRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_QUERY_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return Config{}, errors.New("APP_QUERY_TIMEOUT: must be > 0")
		}
		cfg.QueryTimeout = d
	}

	if cfg.IsProd() {
		if cfg.DBDSN == "" {
			return Config{}, errors.New("APP_DB_DSN: required in prod")
		}
		if len(cfg.TokenSecret) < 32 {
			return Config{}, errors.New("APP_TOKEN_SECRET: must be at least 32 bytes in prod")
		}
		if cfg.GoogleClientID == "" {
			return Config{}, errors.New("APP_GOOGLE_CLIENT_ID: required in prod")
		}
	}

	return cfg, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }
