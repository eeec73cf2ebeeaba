package model

import (
	"slices"
	"time"
)

// Task represents a single todo.txt entry
type Task struct {
	ID            int        `json:"id"`
	Subject       string     `json:"subject"`
	Finished      bool       `json:"finished"`
	Priority      Priority   `json:"priority,omitempty"`
	CreateDate    *time.Time `json:"create_date,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	ThresholdDate *time.Time `json:"threshold_date,omitempty"` // Hidden until this day
	FinishDate    *time.Time `json:"finish_date,omitempty"`    // May be absent on finished tasks

	// Tag tokens in order of appearance in the subject, duplicates kept
	Projects []string `json:"projects,omitempty"`
	Contexts []string `json:"contexts,omitempty"`

	Keywords Keywords `json:"keywords,omitempty"`
}

// NewTask returns an empty, unfinished task that is not yet part of a list
func NewTask() Task {
	return Task{
		Projects: []string{},
		Contexts: []string{},
	}
}

// Clone returns a deep copy so callers can replace fields without aliasing
// the slices or dates of the original
func (t Task) Clone() Task {
	c := t
	c.CreateDate = cloneDate(t.CreateDate)
	c.DueDate = cloneDate(t.DueDate)
	c.ThresholdDate = cloneDate(t.ThresholdDate)
	c.FinishDate = cloneDate(t.FinishDate)
	c.Projects = slices.Clone(t.Projects)
	c.Contexts = slices.Clone(t.Contexts)
	c.Keywords = t.Keywords.Clone()
	return c
}

// Complete returns a finished copy of the task with its finish date set to day
func (t Task) Complete(day time.Time) Task {
	c := t.Clone()
	c.Finished = true
	d := DateOf(day)
	c.FinishDate = &d
	return c
}

// Reopen returns an unfinished copy of the task without a finish date
func (t Task) Reopen() Task {
	c := t.Clone()
	c.Finished = false
	c.FinishDate = nil
	return c
}

// IsOverdue returns true if the task is unfinished and its due date is before today
func (t *Task) IsOverdue(today time.Time) bool {
	if t.DueDate == nil || t.Finished {
		return false
	}
	return t.DueDate.Before(DateOf(today))
}

// IsDueOn returns true if the task is due on the given day
func (t *Task) IsDueOn(day time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return t.DueDate.Equal(DateOf(day))
}

// IsVisible returns true if the task's threshold date has been reached
func (t *Task) IsVisible(today time.Time) bool {
	if t.ThresholdDate == nil {
		return true
	}
	return !t.ThresholdDate.After(DateOf(today))
}

func cloneDate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
