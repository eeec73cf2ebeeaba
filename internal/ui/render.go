// Package ui renders task lists and tag progress for the terminal.
package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dori/tally/internal/markup"
	"github.com/dori/tally/internal/model"
	"github.com/dori/tally/internal/tags"
	"github.com/dori/tally/internal/ui/theme"
)

const progressWidth = 24

// Renderer draws tasks with a theme. A zero Width disables truncation.
type Renderer struct {
	Styles theme.Styles
	Width  int
	Today  time.Time
}

// NewRenderer creates a renderer for t
func NewRenderer(t theme.Theme, width int) *Renderer {
	return &Renderer{
		Styles: theme.NewStyles(t),
		Width:  width,
		Today:  model.Today(),
	}
}

// Task renders a single task on one line
func (r *Renderer) Task(task model.Task) string {
	s := r.Styles
	base := s.TaskOpen
	switch {
	case task.Finished:
		base = s.TaskDone
	case task.IsOverdue(r.Today):
		base = s.TaskOverdue
	}

	var parts []string
	if task.Finished {
		parts = append(parts, base.Render("x"))
		if task.FinishDate != nil {
			parts = append(parts, s.Date.Render(model.FormatDate(*task.FinishDate)))
		}
	} else if task.Priority.IsSet() {
		parts = append(parts, s.Priority(task.Priority).Render("("+task.Priority.String()+")"))
	}

	if subject := r.subject(task.Subject, base, task.Finished); subject != "" {
		parts = append(parts, subject)
	}

	if task.DueDate != nil {
		due := s.DueDate
		if task.IsOverdue(r.Today) {
			due = s.TaskOverdue
		}
		parts = append(parts, due.Render("due:"+model.FormatDate(*task.DueDate)))
	}
	if task.ThresholdDate != nil {
		parts = append(parts, s.Threshold.Render("t:"+model.FormatDate(*task.ThresholdDate)))
	}
	for _, name := range task.Keywords.Names() {
		value, _ := task.Keywords.Get(name)
		parts = append(parts, s.Keyword.Render(name+":"+value))
	}

	line := s.TaskID.Render(strconv.Itoa(task.ID)) + strings.Join(parts, " ")
	if r.Width > 0 {
		line = lipgloss.NewStyle().MaxWidth(r.Width).Render(line)
	}
	return line
}

// subject styles the spans of a subject. Finished tasks keep the base style
// throughout so the whole line reads as done.
func (r *Renderer) subject(subject string, base lipgloss.Style, finished bool) string {
	var b strings.Builder
	for _, span := range markup.Spans(subject) {
		style := base
		if !finished {
			switch {
			case span.Kind == markup.Link:
				style = r.Styles.Link
			case span.Kind == markup.Tag && strings.HasPrefix(span.Text, tags.Projects.Sigil()):
				style = r.Styles.Project
			case span.Kind == markup.Tag:
				style = r.Styles.Context
			}
		}
		b.WriteString(style.Render(span.Text))
	}
	return b.String()
}

// Tasks renders one line per task
func (r *Renderer) Tasks(tasks []model.Task) string {
	if len(tasks) == 0 {
		return r.Styles.Empty.Render("No tasks")
	}
	lines := make([]string, len(tasks))
	for i, t := range tasks {
		lines[i] = r.Task(t)
	}
	return strings.Join(lines, "\n")
}

// ProgressTable renders one row per tag with its completion and a bar
func (r *Renderer) ProgressTable(family tags.Family, rows []tags.Progress) string {
	if len(rows) == 0 {
		return r.Styles.Empty.Render(fmt.Sprintf("No %s", family))
	}

	bar := progress.New(
		progress.WithGradient(string(r.Styles.Theme.Primary), string(r.Styles.Theme.Success)),
		progress.WithWidth(progressWidth),
	)

	cells := make([][]string, len(rows))
	for i, p := range rows {
		cells[i] = []string{
			p.Tag,
			fmt.Sprintf("%d/%d", p.Completed, p.Total),
			bar.ViewAs(p.Ratio()),
		}
	}

	s := r.Styles
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.TableBorder).
		Headers(strings.ToUpper(family.String()), "DONE", "PROGRESS").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.TableHeader
			case col == 0 && rows[row].Done():
				return s.TagDone
			default:
				return s.TableCell
			}
		})
	if r.Width > 0 {
		t = t.Width(r.Width)
	}

	return t.Render()
}
