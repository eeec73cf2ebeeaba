package model

import (
	"slices"
	"strings"
)

// Compare defines the display order of tasks. It returns a negative number
// when a sorts before b.
//
// The first step depends only on a.Finished: a finished a is ordered by
// finish date (most recent first), an unfinished a by due date (dated tasks
// first, earliest first). Ties fall through to priority, most urgent first,
// and then to the subject. The comparison is therefore not guaranteed to be
// antisymmetric when a finished task meets an unfinished one.
func Compare(a, b Task) int {
	if a.Finished {
		if !SameDate(a.FinishDate, b.FinishDate) {
			return -CompareDates(a.FinishDate, b.FinishDate)
		}
	} else if !SameDate(a.DueDate, b.DueDate) {
		if a.DueDate == nil || b.DueDate == nil {
			return -CompareDates(a.DueDate, b.DueDate)
		}
		return a.DueDate.Compare(*b.DueDate)
	}

	if c := CompareUrgency(a.Priority, b.Priority); c != 0 {
		return c
	}

	return strings.Compare(a.Subject, b.Subject)
}

// Sort orders tasks in place for display
func Sort(tasks []Task) {
	slices.SortStableFunc(tasks, Compare)
}

// Sorted returns a sorted copy of tasks
func Sorted(tasks []Task) []Task {
	out := slices.Clone(tasks)
	Sort(out)
	return out
}
