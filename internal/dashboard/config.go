package dashboard

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config defines the runtime configuration for the monitor client.
type Config struct {
	BackendURL     string
	VideoInterval  time.Duration
	EventsInterval time.Duration
	HealthInterval time.Duration
	EventsLimit    int
	RequestTimeout time.Duration
	MetricsAddr    string
}

// DefaultConfig returns a config aligned with the backend's defaults.
func DefaultConfig() Config {
	return Config{
		BackendURL:     "http://localhost:8000",
		VideoInterval:  400 * time.Millisecond,
		EventsInterval: 1 * time.Second,
		HealthInterval: 3 * time.Second,
		EventsLimit:    20,
		RequestTimeout: 2 * time.Second,
		MetricsAddr:    ":9090",
	}
}

// LoadEnv overlays environment variables (and a .env file when present)
// onto cfg. Unset or malformed values leave the existing field untouched.
func LoadEnv(cfg Config) Config {
	_ = godotenv.Load()

	if v := os.Getenv("MONITOR_BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	if d, err := time.ParseDuration(os.Getenv("MONITOR_VIDEO_INTERVAL")); err == nil && d > 0 {
		cfg.VideoInterval = d
	}
	if d, err := time.ParseDuration(os.Getenv("MONITOR_EVENTS_INTERVAL")); err == nil && d > 0 {
		cfg.EventsInterval = d
	}
	if d, err := time.ParseDuration(os.Getenv("MONITOR_HEALTH_INTERVAL")); err == nil && d > 0 {
		cfg.HealthInterval = d
	}
	if n, err := strconv.Atoi(os.Getenv("MONITOR_EVENTS_LIMIT")); err == nil && n > 0 {
		cfg.EventsLimit = n
	}
	if d, err := time.ParseDuration(os.Getenv("MONITOR_REQUEST_TIMEOUT")); err == nil && d > 0 {
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("MONITOR_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	return cfg
}
