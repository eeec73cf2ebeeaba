package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// loadFromEnv overrides config from TALLY_* environment variables
func loadFromEnv(cfg *Config) error {
	strs := map[string]*string{
		"TALLY_TODO_FILE":  &cfg.TodoFile,
		"TALLY_DONE_FILE":  &cfg.DoneFile,
		"TALLY_BACKEND":    &cfg.Backend,
		"TALLY_DB_PATH":    &cfg.DBPath,
		"TALLY_DATA_DIR":   &cfg.DataDir,
		"TALLY_THEME":      &cfg.Theme,
		"TALLY_LOG_LEVEL":  &cfg.LogLevel,
		"TALLY_LOG_FORMAT": &cfg.LogFormat,
	}
	for name, field := range strs {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	if v := os.Getenv("TALLY_NOTIFY"); v != "" {
		cfg.Notify = boolFromString(v)
	}
	if v := os.Getenv("TALLY_LOCK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TALLY_LOCK_TIMEOUT: %w", err)
		}
		cfg.LockTimeout = d
	}
	return nil
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
