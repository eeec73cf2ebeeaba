package todotxt

import (
	"io"
	"strings"

	"github.com/dori/tally/internal/model"
)

// Format encodes a task as a single todo.txt line.
//
// Finished tasks keep their priority as a pri: keyword. The exception is a
// finished task with a creation date but no finish date: a lone date after
// the x marker reads back as the finish date, so the priority stays in
// front as "x (P) <created>". Without a priority that task cannot be
// expressed and its creation date is dropped.
//
// Format does not check that the line reads back as the same task; use
// Marshal for anything that is stored.
func Format(task model.Task) string {
	var parts []string

	keepPriority := task.Finished && task.FinishDate == nil &&
		task.CreateDate != nil && task.Priority.Valid()

	if task.Finished {
		parts = append(parts, "x")
		if task.FinishDate != nil {
			parts = append(parts, model.FormatDate(*task.FinishDate))
		}
	}
	if task.Priority.Valid() && (!task.Finished || keepPriority) {
		parts = append(parts, "("+task.Priority.String()+")")
	}

	if task.CreateDate != nil && (!task.Finished || task.FinishDate != nil || keepPriority) {
		parts = append(parts, model.FormatDate(*task.CreateDate))
	}

	if task.Subject != "" {
		parts = append(parts, task.Subject)
	}

	if task.Finished && task.Priority.Valid() && !keepPriority {
		parts = append(parts, keyPriority+":"+task.Priority.String())
	}
	if task.DueDate != nil {
		parts = append(parts, keyDue+":"+model.FormatDate(*task.DueDate))
	}
	if task.ThresholdDate != nil {
		parts = append(parts, keyThreshold+":"+model.FormatDate(*task.ThresholdDate))
	}
	for _, name := range task.Keywords.Names() {
		parts = append(parts, name+":"+task.Keywords[name])
	}

	return strings.Join(parts, " ")
}

// Marshal formats task and checks that the line parses back to the same
// completion state, priority, dates and subject. A subject whose first word
// looks like a marker (x, (P) or a date) in a position the parser reads
// before the subject fails with ErrAmbiguousLine.
func Marshal(task model.Task) (string, error) {
	line := Format(task)
	back, err := Parse(line)
	if err != nil {
		return "", err
	}
	if !sameLine(task, back) {
		return "", &FormatError{Line: line, Err: ErrAmbiguousLine}
	}
	return line, nil
}

func sameLine(a, b model.Task) bool {
	return a.Finished == b.Finished &&
		lineable(a.Priority) == lineable(b.Priority) &&
		a.Subject == b.Subject &&
		model.SameDate(a.CreateDate, b.CreateDate) &&
		model.SameDate(a.FinishDate, b.FinishDate) &&
		model.SameDate(a.DueDate, b.DueDate) &&
		model.SameDate(a.ThresholdDate, b.ThresholdDate)
}

// lineable drops priorities Format cannot write
func lineable(p model.Priority) model.Priority {
	if !p.Valid() {
		return 0
	}
	return p
}

// WriteAll writes one line per task. Every task is marshaled before the
// first write, so w is left untouched when any of them is rejected.
func WriteAll(w io.Writer, tasks []model.Task) error {
	var b strings.Builder
	for _, t := range tasks {
		line, err := Marshal(t)
		if err != nil {
			return err
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
