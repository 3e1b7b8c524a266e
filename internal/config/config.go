package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds process-wide settings read from the environment.
type Config struct {
	Env string

	// DBPath is the SQLite file, or ":memory:". Ignored when DBDSN is set.
	DBPath string
	// DBDSN selects PostgreSQL when non-empty.
	DBDSN string

	// Location is the local calendar convention for generation and day
	// filtering.
	Location *time.Location

	BlockedTTL  time.Duration
	LogUseCases bool
}

// Default returns the configuration used when no variable is set.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	return Config{
		Env:        EnvDevelopment,
		DBPath:     filepath.Join(home, ".lessonplan", "lessonplan.db"),
		Location:   time.Local,
		BlockedTTL: 5 * time.Minute,
	}, nil
}

// Load reads an optional .env file in the working directory and then the
// LESSONPLAN_* environment variables. Variables already set in the
// environment win over .env entries.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("reading .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, falling back to defaults for unset
// values. Every malformed value is reported.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}
	var errs []error

	if v := getenv("LESSONPLAN_ENV"); v != "" {
		if v != EnvDevelopment && v != EnvProduction {
			errs = append(errs, fmt.Errorf("LESSONPLAN_ENV: unknown environment %q", v))
		} else {
			cfg.Env = v
		}
	}
	if v := getenv("LESSONPLAN_DB"); v != "" {
		cfg.DBPath = v
	}
	cfg.DBDSN = getenv("LESSONPLAN_DB_DSN")

	if v := getenv("LESSONPLAN_TZ"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("LESSONPLAN_TZ: %w", err))
		} else {
			cfg.Location = loc
		}
	}
	if v := getenv("LESSONPLAN_BLOCKED_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("LESSONPLAN_BLOCKED_TTL: %w", err))
		case d <= 0:
			errs = append(errs, fmt.Errorf("LESSONPLAN_BLOCKED_TTL: must be positive, got %s", d))
		default:
			cfg.BlockedTTL = d
		}
	}
	if v := getenv("LESSONPLAN_LOG_USE_CASES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("LESSONPLAN_LOG_USE_CASES: %w", err))
		} else {
			cfg.LogUseCases = b
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// UsePostgres reports whether the PostgreSQL backend is configured.
func (c Config) UsePostgres() bool {
	return c.DBDSN != ""
}
