// Package config loads tally settings from defaults, TOML files, the
// environment and command line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dori/tally/internal/ui/theme"
)

// Storage backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Default values
const (
	DefaultBackend     = BackendFile
	DefaultTheme       = "nord"
	DefaultLogLevel    = "info"
	DefaultLockTimeout = 2 * time.Second
	DefaultTodoName    = "todo.txt"
	DefaultDBName      = "tally.db"
)

// Config holds all tally settings
type Config struct {
	// Storage
	TodoFile string `toml:"todo_file"`
	DoneFile string `toml:"done_file"`
	Backend  string `toml:"backend"`
	DBPath   string `toml:"db_path"`
	DataDir  string `toml:"data_dir"`

	// Presentation
	Theme     string `toml:"theme"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Reminders
	Notify bool `toml:"notify"`

	// LockTimeout bounds how long startup waits for another instance
	LockTimeout time.Duration `toml:"lock_timeout"`
}

// Default returns a config holding only default values
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	cfg.Backend = DefaultBackend
	cfg.DataDir = defaultDataDir()
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.Notify = true
	cfg.LockTimeout = DefaultLockTimeout
}

// finalize expands paths and fills in the paths derived from DataDir
func finalize(cfg *Config) {
	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.TodoFile = expandPath(cfg.TodoFile)
	cfg.DoneFile = expandPath(cfg.DoneFile)
	cfg.DBPath = expandPath(cfg.DBPath)

	if cfg.TodoFile == "" {
		cfg.TodoFile = filepath.Join(cfg.DataDir, DefaultTodoName)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, DefaultDBName)
	}
	cfg.Backend = strings.ToLower(cfg.Backend)
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	if c.Backend != BackendFile && c.Backend != BackendSQLite {
		errs = append(errs, fmt.Errorf("backend: unknown backend %q (want %s or %s)", c.Backend, BackendFile, BackendSQLite))
	}
	if !slices.Contains(theme.Names(), c.Theme) {
		errs = append(errs, fmt.Errorf("theme: unknown theme %q (available: %s)", c.Theme, strings.Join(theme.Names(), ", ")))
	}
	if _, err := log.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.LockTimeout < 0 {
		errs = append(errs, fmt.Errorf("lock_timeout: must not be negative, got %s", c.LockTimeout))
	}
	if c.TodoFile == "" {
		errs = append(errs, errors.New("todo_file: must not be empty"))
	}

	return errors.Join(errs...)
}
