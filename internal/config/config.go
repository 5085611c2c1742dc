package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/bom-weather-sync/internal/weather"
	"github.com/i474232898/bom-weather-sync/internal/weather/providers"
)

type AppConfig struct {
	// DefaultStation is used until an operator sets one.
	DefaultStation weather.Station
	// StationFile persists operator changes ("" = memory only).
	StationFile string

	BaseURL   string
	UserAgent string

	// FetchInterval controls how often the station is polled.
	FetchInterval time.Duration
	HTTPTimeout   time.Duration

	BreakerMaxFailures uint32

	// AdminToken guards the command surface when non-empty.
	AdminToken string

	Port     string
	AppEnv   string
	LogLevel slog.Level
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found or error loading it", "err", err)
	}
	cfg := &AppConfig{}

	cfg.DefaultStation = weather.Station{
		Product: getenvDefault("STATION_PRODUCT", "IDQ60901"),
		ID:      getenvDefault("STATION_ID", "94576"),
	}
	cfg.StationFile = getenvDefault("STATION_FILE", "station.json")
	if v, ok := os.LookupEnv("STATION_FILE"); ok && strings.TrimSpace(v) == "" {
		cfg.StationFile = ""
	}

	cfg.BaseURL = getenvDefault("BOM_BASE_URL", providers.DefaultBaseURL)
	cfg.UserAgent = getenvDefault("USER_AGENT", providers.DefaultUserAgent)

	// Poll interval: default 5 minutes.
	interval, err := time.ParseDuration(getenvDefault("FETCH_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: must be positive")
	}
	cfg.FetchInterval = interval

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: must be positive")
	}
	cfg.HTTPTimeout = timeout

	failures, err := strconv.ParseUint(getenvDefault("BREAKER_MAX_FAILURES", "5"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid BREAKER_MAX_FAILURES: %w", err)
	}
	cfg.BreakerMaxFailures = uint32(failures)

	cfg.AdminToken = os.Getenv("ADMIN_TOKEN")
	cfg.Port = getenvDefault("PORT", "8080")

	cfg.AppEnv = getenvDefault("APP_ENV", "dev")
	switch cfg.AppEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", cfg.AppEnv)
	}

	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
