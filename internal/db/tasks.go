package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dori/tally/internal/model"
	"github.com/dori/tally/internal/todotxt"
	"github.com/google/uuid"
)

// taskRow is one stored line, read before any parsing so the result set can
// be closed before further queries run on the single connection
type taskRow struct {
	uid  string
	line string
}

// Load reads all stored tasks in list order
func (db *DB) Load() (*model.List, error) {
	rows, err := db.Query(`SELECT uid, line FROM tasks ORDER BY position, created_at`)
	if err != nil {
		return nil, err
	}

	stored, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	list := model.NewList()
	uids := make(map[int]string, len(stored))
	for i, r := range stored {
		task, err := todotxt.Parse(r.line)
		if err != nil {
			var fe *todotxt.FormatError
			if errors.As(err, &fe) {
				fe.Num = i + 1
			}
			return nil, fmt.Errorf("task %s: %w", r.uid, err)
		}
		added := list.Add(task)
		uids[added.ID] = r.uid
	}
	db.uids = uids

	db.logger.Debug("loaded tasks from database", "tasks", list.Len())
	return list, nil
}

// Save stores list, replacing whatever the database held before. Tasks
// loaded from the database keep their row; new tasks get a fresh uid.
func (db *DB) Save(list *model.List) error {
	var uids map[int]string
	err := db.Transaction(func(tx *sql.Tx) error {
		var err error
		uids, err = db.saveTx(tx, list.Tasks())
		return err
	})
	if err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	db.uids = uids

	db.logger.Debug("saved tasks to database", "tasks", list.Len())
	return nil
}

// Archive moves the finished tasks of list into the archive table, removes
// them from list and saves the rest. It returns the number of archived tasks.
func (db *DB) Archive(list *model.List) (int, error) {
	finished, open := list.Partition()
	if len(finished) == 0 {
		return 0, nil
	}

	var uids map[int]string
	err := db.Transaction(func(tx *sql.Tx) error {
		now := time.Now()
		for _, t := range finished {
			uid, ok := db.uids[t.ID]
			if !ok {
				uid = uuid.NewString()
			}
			line, err := todotxt.Marshal(t)
			if err != nil {
				return fmt.Errorf("archive task %d: %w", t.ID, err)
			}
			_, err = tx.Exec(`
				INSERT INTO archived_tasks (uid, line, finish_date, archived_at)
				VALUES (?, ?, ?, ?)
			`, uid, line, nullDate(t.FinishDate), now)
			if err != nil {
				return fmt.Errorf("archive %q: %w", t.Subject, err)
			}
		}

		var err error
		uids, err = db.saveTx(tx, open)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("archive tasks: %w", err)
	}
	db.uids = uids

	for _, t := range finished {
		if err := list.Remove(t.ID); err != nil {
			return 0, err
		}
	}

	db.logger.Info("archived finished tasks", "count", len(finished))
	return len(finished), nil
}

// DueBy returns the unfinished stored tasks due on or before day, earliest
// first. Task IDs match the list returned by the last Load or Save.
func (db *DB) DueBy(day time.Time) ([]model.Task, error) {
	rows, err := db.Query(`
		SELECT uid, line FROM tasks
		WHERE finished = 0 AND due_date IS NOT NULL AND due_date <= ?
		ORDER BY due_date, position
	`, model.FormatDate(model.DateOf(day)))
	if err != nil {
		return nil, err
	}

	stored, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]int, len(db.uids))
	for id, uid := range db.uids {
		ids[uid] = id
	}

	tasks := make([]model.Task, 0, len(stored))
	for _, r := range stored {
		task, err := todotxt.Parse(r.line)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", r.uid, err)
		}
		task.ID = ids[r.uid]
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// saveTx writes tasks in order and deletes rows that are no longer part of
// the list. It returns the new task ID to uid mapping.
func (db *DB) saveTx(tx *sql.Tx, tasks []model.Task) (map[int]string, error) {
	now := time.Now()
	uids := make(map[int]string, len(tasks))
	keep := make(map[string]bool, len(tasks))

	for pos, t := range tasks {
		line, err := todotxt.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", t.ID, err)
		}
		uid, ok := db.uids[t.ID]
		if ok {
			res, err := tx.Exec(`
				UPDATE tasks
				SET position = ?, line = ?, finished = ?, due_date = ?, threshold_date = ?, updated_at = ?
				WHERE uid = ?
			`, pos, line, t.Finished, nullDate(t.DueDate), nullDate(t.ThresholdDate), now, uid)
			if err != nil {
				return nil, err
			}
			// The row may have been removed by another writer
			if n, _ := res.RowsAffected(); n == 1 {
				uids[t.ID] = uid
				keep[uid] = true
				continue
			}
		}

		uid = uuid.NewString()
		_, err = tx.Exec(`
			INSERT INTO tasks (uid, position, line, finished, due_date, threshold_date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, uid, pos, line, t.Finished, nullDate(t.DueDate), nullDate(t.ThresholdDate), now, now)
		if err != nil {
			return nil, err
		}
		uids[t.ID] = uid
		keep[uid] = true
	}

	rows, err := tx.Query(`SELECT uid FROM tasks`)
	if err != nil {
		return nil, err
	}
	var stale []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			rows.Close()
			return nil, err
		}
		if !keep[uid] {
			stale = append(stale, uid)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, uid := range stale {
		if _, err := tx.Exec(`DELETE FROM tasks WHERE uid = ?`, uid); err != nil {
			return nil, err
		}
	}

	return uids, nil
}

// scanRows reads and closes rows
func scanRows(rows *sql.Rows) ([]taskRow, error) {
	defer rows.Close()

	var stored []taskRow
	for rows.Next() {
		var r taskRow
		if err := rows.Scan(&r.uid, &r.line); err != nil {
			return nil, err
		}
		stored = append(stored, r)
	}
	return stored, rows.Err()
}

// nullDate stores a missing date as NULL
func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: model.FormatDate(*t), Valid: true}
}
