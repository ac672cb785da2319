package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the booking service.
type Config struct {
	HTTPPort      int
	SQLiteDSN     string
	SessionTTL    time.Duration
	SweepSchedule string
	AdminUsername string
	AdminPassword string
}

// Load parses configuration values from a .env file, if one exists, and the
// current process environment. Process environment wins over the file.
//
// The loader applies defaults for optional fields and reports every invalid
// value in one error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env file: %w", err)
	}

	cfg := Config{
		HTTPPort:      8080,
		SQLiteDSN:     "file:roombooking.db?_pragma=foreign_keys(1)&_txlock=immediate",
		SessionTTL:    24 * time.Hour,
		SweepSchedule: "@every 5m",
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("ROOMBOOKING_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "ROOMBOOKING_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("ROOMBOOKING_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("ROOMBOOKING_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "ROOMBOOKING_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if schedule := strings.TrimSpace(os.Getenv("ROOMBOOKING_SWEEP_SCHEDULE")); schedule != "" {
		cfg.SweepSchedule = schedule
	}

	cfg.AdminUsername = strings.TrimSpace(os.Getenv("ROOMBOOKING_ADMIN_USERNAME"))
	cfg.AdminPassword = os.Getenv("ROOMBOOKING_ADMIN_PASSWORD")

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
