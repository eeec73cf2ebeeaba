package app

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dori/tally/internal/config"
	"github.com/dori/tally/internal/model"
	"github.com/dori/tally/internal/todotxt"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = dir
	cfg.TodoFile = filepath.Join(dir, "todo.txt")
	cfg.DBPath = filepath.Join(dir, "tally.db")
	cfg.Backend = backend
	cfg.Notify = false
	cfg.LockTimeout = 100 * time.Millisecond
	return cfg
}

func TestNewBackends(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			a, err := New(testConfig(t, backend), nil)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			defer a.Close()

			list, err := a.Store.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			task, _ := todotxt.Parse("(A) first task +tally")
			list.Add(task)
			if err := a.Store.Save(list); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			reloaded, err := a.Store.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if reloaded.Len() != 1 {
				t.Errorf("got %d tasks, want 1", reloaded.Len())
			}
			if a.Notifier.IsEnabled() {
				t.Error("notifier should follow config")
			}
		})
	}
}

func TestSecondInstanceLocked(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)

	first, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	start := time.Now()
	_, err = New(cfg, nil)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("got %v, want ErrLocked", err)
	}
	if waited := time.Since(start); waited < cfg.LockTimeout {
		t.Errorf("gave up after %s, before the %s timeout", waited, cfg.LockTimeout)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New after Close failed: %v", err)
	}
	second.Close()
}

func TestDueTasks(t *testing.T) {
	today := model.Day(2024, time.March, 5)

	for _, backend := range []string{config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			a, err := New(testConfig(t, backend), nil)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			defer a.Close()

			list := model.NewList()
			for _, line := range []string{
				"later due:2024-03-09",
				"today due:2024-03-05",
				"late due:2024-03-01",
				"x done due:2024-03-01",
				"whenever",
			} {
				task, err := todotxt.Parse(line)
				if err != nil {
					t.Fatalf("Parse(%q) failed: %v", line, err)
				}
				list.Add(task)
			}
			if err := a.Store.Save(list); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			due, err := a.DueTasks(list, today)
			if err != nil {
				t.Fatalf("DueTasks failed: %v", err)
			}
			if len(due) != 2 || due[0].Subject != "late" || due[1].Subject != "today" {
				t.Errorf("got %+v", due)
			}
		})
	}
}

func TestUnknownBackend(t *testing.T) {
	cfg := testConfig(t, "postgres")
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error")
	}

	// The lock must have been released on failure
	cfg.Backend = config.BackendFile
	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	a.Close()
}

func TestReleaseLock(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)

	reader, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer reader.Close()
	reader.ReleaseLock()

	writer, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New after ReleaseLock failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
