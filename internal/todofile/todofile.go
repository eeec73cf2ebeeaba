// Package todofile stores a task list in plain todo.txt and done.txt files.
package todofile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dori/tally/internal/model"
	"github.com/dori/tally/internal/todotxt"
	"github.com/gofrs/flock"
)

// Store reads and writes a todo.txt file. Finished tasks can be moved to a
// separate done.txt file.
type Store struct {
	TodoPath string
	DonePath string

	lock   *flock.Flock
	logger *log.Logger
}

// New creates a store for the given files. An empty donePath defaults to
// done.txt next to todoPath.
func New(todoPath, donePath string, logger *log.Logger) *Store {
	if donePath == "" {
		donePath = filepath.Join(filepath.Dir(todoPath), "done.txt")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		TodoPath: todoPath,
		DonePath: donePath,
		lock:     flock.New(todoPath + ".lock"),
		logger:   logger,
	}
}

// Load reads the todo file. A missing file is an empty list.
func (s *Store) Load() (*model.List, error) {
	list := model.NewList()

	f, err := os.Open(s.TodoPath)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("todo file missing, starting empty", "path", s.TodoPath)
		return list, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open todo file: %w", err)
	}
	defer f.Close()

	tasks, err := todotxt.ParseAll(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.TodoPath, err)
	}
	for _, t := range tasks {
		list.Add(t)
	}

	s.logger.Debug("loaded todo file", "path", s.TodoPath, "tasks", list.Len())
	return list, nil
}

// Save replaces the todo file with the content of list
func (s *Store) Save(list *model.List) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock todo file: %w", err)
	}
	defer s.lock.Unlock()

	if err := writeAtomic(s.TodoPath, list.Tasks()); err != nil {
		return err
	}

	s.logger.Debug("saved todo file", "path", s.TodoPath, "tasks", list.Len())
	return nil
}

// Archive appends the finished tasks of list to the done file, removes them
// from list and saves the rest. It returns the number of archived tasks.
func (s *Store) Archive(list *model.List) (int, error) {
	finished, open := list.Partition()
	if len(finished) == 0 {
		return 0, nil
	}
	// Reject unwritable open tasks before the done file grows
	if err := todotxt.WriteAll(io.Discard, open); err != nil {
		return 0, fmt.Errorf("archive: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return 0, fmt.Errorf("lock todo file: %w", err)
	}
	defer s.lock.Unlock()

	done, err := os.OpenFile(s.DonePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("open done file: %w", err)
	}
	if err := todotxt.WriteAll(done, finished); err != nil {
		done.Close()
		return 0, fmt.Errorf("append done file: %w", err)
	}
	if err := done.Close(); err != nil {
		return 0, fmt.Errorf("close done file: %w", err)
	}

	for _, t := range finished {
		if err := list.Remove(t.ID); err != nil {
			return 0, err
		}
	}
	if err := writeAtomic(s.TodoPath, list.Tasks()); err != nil {
		return 0, err
	}

	s.logger.Info("archived finished tasks", "count", len(finished), "done", s.DonePath)
	return len(finished), nil
}

// Close releases the write lock if it is still held
func (s *Store) Close() error {
	return s.lock.Close()
}

// writeAtomic writes tasks to a temporary file beside path and renames it
// into place, so readers never observe a half written list.
func writeAtomic(path string, tasks []model.Task) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create todo directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := todotxt.WriteAll(tmp, tasks); err != nil {
		tmp.Close()
		return fmt.Errorf("write todo file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace todo file: %w", err)
	}
	return nil
}
