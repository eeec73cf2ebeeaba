package model

import (
	"errors"
	"fmt"
	"slices"
)

// ErrTaskNotFound is returned when no task in a list has the requested ID
var ErrTaskNotFound = errors.New("task not found")

// List is an unordered collection of tasks. Display order is always
// recomputed with Compare and never stored.
type List struct {
	tasks  []Task
	nextID int
}

// NewList creates an empty list
func NewList() *List {
	return &List{nextID: 1}
}

// Add stores a copy of task under a fresh ID and returns the stored task
func (l *List) Add(task Task) Task {
	if l.nextID == 0 {
		l.nextID = 1
	}
	t := task.Clone()
	t.ID = l.nextID
	l.nextID++
	l.tasks = append(l.tasks, t)
	return t.Clone()
}

// Get returns the task with the given ID
func (l *List) Get(id int) (Task, bool) {
	i := l.index(id)
	if i < 0 {
		return Task{}, false
	}
	return l.tasks[i].Clone(), true
}

// Replace swaps the stored task that has task.ID for task
func (l *List) Replace(task Task) error {
	i := l.index(task.ID)
	if i < 0 {
		return fmt.Errorf("replace task %d: %w", task.ID, ErrTaskNotFound)
	}
	l.tasks[i] = task.Clone()
	return nil
}

// Remove deletes the task with the given ID
func (l *List) Remove(id int) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("remove task %d: %w", id, ErrTaskNotFound)
	}
	l.tasks = slices.Delete(l.tasks, i, i+1)
	return nil
}

// Tasks returns a copy of all tasks in insertion order
func (l *List) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	for i, t := range l.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Len returns the number of tasks
func (l *List) Len() int {
	return len(l.tasks)
}

// Projects returns the distinct project tags of all tasks in discovery order
func (l *List) Projects() []string {
	return l.distinct(func(t *Task) []string { return t.Projects })
}

// Contexts returns the distinct context tags of all tasks in discovery order
func (l *List) Contexts() []string {
	return l.distinct(func(t *Task) []string { return t.Contexts })
}

// Partition splits the tasks into finished and unfinished ones
func (l *List) Partition() (finished, open []Task) {
	for _, t := range l.tasks {
		if t.Finished {
			finished = append(finished, t.Clone())
		} else {
			open = append(open, t.Clone())
		}
	}
	return finished, open
}

func (l *List) index(id int) int {
	return slices.IndexFunc(l.tasks, func(t Task) bool { return t.ID == id })
}

func (l *List) distinct(tagsOf func(*Task) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range l.tasks {
		for _, tag := range tagsOf(&l.tasks[i]) {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	return out
}
