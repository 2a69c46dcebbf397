package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the process settings read from the environment.
// A .env file in the working directory is loaded by the godotenv autoload import in main.
type Config struct {
	Port                int
	DBPath              string
	TelegramToken       string // Empty disables Telegram delivery; reminders are only logged
	PollInterval        time.Duration
	MaxDeliveryAttempts int // 0 retries failed deliveries forever
	LogLevel            string
}

const (
	defaultPort         = 8080
	defaultDBPath       = "remindee.db"
	defaultPollInterval = time.Second
)

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:          defaultPort,
		DBPath:        defaultDBPath,
		PollInterval:  defaultPollInterval,
		TelegramToken: strings.TrimSpace(getenv("TELEGRAM_TOKEN")),
		LogLevel:      strings.TrimSpace(getenv("LOG_LEVEL")),
	}

	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}
	if v := strings.TrimSpace(getenv("REMINDEE_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(getenv("POLL_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid POLL_INTERVAL %q: %w", v, err)
		}
		// The cron ticker cannot fire more often than once a second.
		if d < time.Second {
			return nil, fmt.Errorf("POLL_INTERVAL %s is below 1s", d)
		}
		cfg.PollInterval = d
	}
	if v := strings.TrimSpace(getenv("MAX_DELIVERY_ATTEMPTS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid MAX_DELIVERY_ATTEMPTS %q", v)
		}
		cfg.MaxDeliveryAttempts = n
	}
	return cfg, nil
}
