package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dori/tally/internal/config"
	"github.com/dori/tally/internal/db"
	"github.com/dori/tally/internal/logging"
	"github.com/dori/tally/internal/model"
	"github.com/dori/tally/internal/notify"
	"github.com/dori/tally/internal/todofile"
	"github.com/gofrs/flock"
)

// ErrLocked is returned when another instance holds the lock past the
// configured timeout
var ErrLocked = errors.New("another instance of tally is running")

// lockRetryDelay is the pause between lock attempts
const lockRetryDelay = 50 * time.Millisecond

// Store loads and saves the task list
type Store interface {
	Load() (*model.List, error)
	Save(list *model.List) error
	Archive(list *model.List) (int, error)
	Close() error
}

// DueLister is implemented by stores that can query due tasks directly
type DueLister interface {
	DueBy(day time.Time) ([]model.Task, error)
}

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	Store    Store
	Notifier *notify.Notifier
	Logger   *log.Logger
	lockFile *flock.Flock
}

// New creates a new application instance
func New(cfg *config.Config, logger *log.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	notifier := notify.NewNotifier()
	notifier.SetEnabled(cfg.Notify)

	app := &App{
		Config:   cfg,
		Notifier: notifier,
		Logger:   logger,
	}

	// Acquire lock to ensure single instance
	if err := app.acquireLock(); err != nil {
		return nil, err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		app.releaseLock()
		return nil, err
	}
	app.Store = store

	logger.Debug("app ready", "backend", cfg.Backend, "todo", cfg.TodoFile)
	return app, nil
}

func openStore(cfg *config.Config, logger *log.Logger) (Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		database, err := db.Open(cfg.DBPath, logger.With("store", "sqlite"))
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return database, nil
	case config.BackendFile, "":
		return todofile.New(cfg.TodoFile, cfg.DoneFile, logger.With("store", "file")), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// acquireLock takes an exclusive file lock, retrying until the configured
// timeout passes
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.Config.DataDir, "tally.lock")
	a.lockFile = flock.New(lockPath)

	ctx := context.Background()
	if a.Config.LockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.LockTimeout)
		defer cancel()
	}

	var (
		locked bool
		err    error
	)
	if a.Config.LockTimeout > 0 {
		locked, err = a.lockFile.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = a.lockFile.TryLock()
	}
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("%w (lock %s)", ErrLocked, lockPath)
	}

	a.Logger.Debug("acquired lock", "path", lockPath)
	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// ReleaseLock gives up the instance lock before Close, letting other
// instances run next to a long lived reader. Writes through the file store
// stay serialised by its own lock.
func (a *App) ReleaseLock() {
	a.releaseLock()
	a.Logger.Debug("released instance lock")
}

// DueTasks returns the unfinished tasks due on or before today. Stores that
// can answer the query themselves are asked directly.
func (a *App) DueTasks(list *model.List, today time.Time) ([]model.Task, error) {
	if dl, ok := a.Store.(DueLister); ok {
		return dl.DueBy(today)
	}

	var due []model.Task
	for _, t := range model.Sorted(list.Tasks()) {
		if t.IsOverdue(today) || (!t.Finished && t.IsDueOn(today)) {
			due = append(due, t)
		}
	}
	return due, nil
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}

	a.releaseLock()

	return errors.Join(errs...)
}
