package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dori/tally/internal/model"
	"github.com/dori/tally/internal/todotxt"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustParse(t *testing.T, line string) model.Task {
	t.Helper()
	task, err := todotxt.Parse(line)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", line, err)
	}
	return task
}

func lines(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = todotxt.Format(t)
	}
	return out
}

func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestSaveAndLoad(t *testing.T) {
	db := openTestDB(t)

	list := model.NewList()
	list.Add(mustParse(t, "(A) 2024-01-01 call mom +family due:2024-01-03"))
	list.Add(mustParse(t, "x 2024-01-02 2024-01-01 file taxes"))
	list.Add(mustParse(t, "water plants @home t:2024-02-01"))

	if err := db.Save(list); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := db.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := lines(list.Tasks())
	got := lines(loaded.Tasks())
	if len(got) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("task %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSaveKeepsRowsAndDeletesRemoved(t *testing.T) {
	db := openTestDB(t)

	list := model.NewList()
	first := list.Add(mustParse(t, "first"))
	second := list.Add(mustParse(t, "second"))
	if err := db.Save(list); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var uid string
	if err := db.QueryRow(`SELECT uid FROM tasks WHERE line = 'first'`).Scan(&uid); err != nil {
		t.Fatalf("lookup: %v", err)
	}

	first.Subject = "first edited"
	if err := list.Replace(first); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if err := list.Remove(second.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	list.Add(mustParse(t, "third"))

	if err := db.Save(list); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var line string
	if err := db.QueryRow(`SELECT line FROM tasks WHERE uid = ?`, uid).Scan(&line); err != nil {
		t.Fatalf("edited row lost: %v", err)
	}
	if line != "first edited" {
		t.Errorf("edited row: got %q", line)
	}
	if n := countRows(t, db, "tasks"); n != 2 {
		t.Errorf("got %d rows, want 2", n)
	}

	loaded, err := db.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got := lines(loaded.Tasks())
	if len(got) != 2 || got[0] != "first edited" || got[1] != "third" {
		t.Errorf("order after save: %q", got)
	}
}

func TestLoadReportsFormatError(t *testing.T) {
	db := openTestDB(t)

	now := time.Now()
	for i, line := range []string{"fine", "bad due:soon"} {
		_, err := db.Exec(`INSERT INTO tasks (uid, position, line, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			line, i, line, now, now)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	_, err := db.Load()
	var fe *todotxt.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if fe.Num != 2 {
		t.Errorf("Num: got %d, want 2", fe.Num)
	}
}

func TestArchive(t *testing.T) {
	db := openTestDB(t)

	list := model.NewList()
	list.Add(mustParse(t, "x 2024-01-02 done one"))
	list.Add(mustParse(t, "open one"))
	if err := db.Save(list); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// Not saved yet, archived all the same
	list.Add(mustParse(t, "x done two"))

	n, err := db.Archive(list)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if n != 2 {
		t.Errorf("archived %d, want 2", n)
	}
	if list.Len() != 1 {
		t.Errorf("list holds %d tasks, want 1", list.Len())
	}
	if got := countRows(t, db, "tasks"); got != 1 {
		t.Errorf("tasks rows: got %d, want 1", got)
	}
	if got := countRows(t, db, "archived_tasks"); got != 2 {
		t.Errorf("archived rows: got %d, want 2", got)
	}

	var finish string
	err = db.QueryRow(`SELECT finish_date FROM archived_tasks WHERE line = 'x 2024-01-02 done one'`).Scan(&finish)
	if err != nil || finish != "2024-01-02" {
		t.Errorf("finish_date: got %q, %v", finish, err)
	}
}

func TestArchiveNothingFinished(t *testing.T) {
	db := openTestDB(t)

	list := model.NewList()
	list.Add(mustParse(t, "open"))
	n, err := db.Archive(list)
	if err != nil || n != 0 {
		t.Errorf("got %d, %v", n, err)
	}
}

func TestDueBy(t *testing.T) {
	db := openTestDB(t)

	list := model.NewList()
	list.Add(mustParse(t, "later due:2024-03-10"))
	overdue := list.Add(mustParse(t, "overdue due:2024-03-01"))
	today := list.Add(mustParse(t, "today due:2024-03-05"))
	list.Add(mustParse(t, "x finished due:2024-03-01"))
	list.Add(mustParse(t, "no due date"))
	if err := db.Save(list); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	due, err := db.DueBy(model.Day(2024, time.March, 5))
	if err != nil {
		t.Fatalf("DueBy failed: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("got %d tasks, want 2: %q", len(due), lines(due))
	}
	if due[0].ID != overdue.ID || due[1].ID != today.ID {
		t.Errorf("IDs: got %d, %d, want %d, %d", due[0].ID, due[1].ID, overdue.ID, today.ID)
	}
}

// TestNestedQueriesNoDeadlock guards the single connection: every query
// must close its rows before the next one runs, or SetMaxOpenConns(1)
// blocks forever.
func TestNestedQueriesNoDeadlock(t *testing.T) {
	db := openTestDB(t)

	list := model.NewList()
	for i := 0; i < 5; i++ {
		list.Add(mustParse(t, "task due:2024-01-01"))
	}

	done := make(chan error, 1)
	go func() {
		if err := db.Save(list); err != nil {
			done <- err
			return
		}
		loaded, err := db.Load()
		if err != nil {
			done <- err
			return
		}
		if _, err := db.DueBy(model.Day(2024, time.January, 1)); err != nil {
			done <- err
			return
		}
		_, err = db.Archive(loaded)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Test timed out - possible deadlock detected")
	}
}
