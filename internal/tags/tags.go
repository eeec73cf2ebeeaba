// Package tags derives filter sets and visible task subsets from the
// project and context tags of a task list.
//
// Two matching rules coexist on purpose. Progress counting is hierarchical:
// a filter covers its hyphen-delimited sub-tags, so +Area counts +Area-Sub.
// Visibility filtering compares tags exactly.
package tags

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dori/tally/internal/model"
)

// Family selects which tag sequence of a task is inspected
type Family int

const (
	Projects Family = iota
	Contexts
)

func (f Family) String() string {
	switch f {
	case Projects:
		return "projects"
	case Contexts:
		return "contexts"
	default:
		return "unknown"
	}
}

// Sigil returns the character that starts tags of this family
func (f Family) Sigil() string {
	if f == Contexts {
		return "@"
	}
	return "+"
}

// ParseFamily accepts "projects"/"project"/"+" and "contexts"/"context"/"@"
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(s) {
	case "projects", "project", "+":
		return Projects, nil
	case "contexts", "context", "@":
		return Contexts, nil
	}
	return 0, fmt.Errorf("unknown tag family %q", s)
}

// Of returns the tags of task in the given family
func Of(task *model.Task, family Family) []string {
	if family == Contexts {
		return task.Contexts
	}
	return task.Projects
}

// Distinct returns the distinct tags of the family across the list
func Distinct(list *model.List, family Family) []string {
	if family == Contexts {
		return list.Contexts()
	}
	return list.Projects()
}

// Matches reports whether tag is filter itself or one of its sub-tags
func Matches(tag, filter string) bool {
	return tag == filter || strings.HasPrefix(tag, filter+"-")
}

// Progress counts the tasks covered by a tag
type Progress struct {
	Tag       string `json:"tag"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// Done reports whether every covered task is finished
func (p Progress) Done() bool {
	return p.Completed == p.Total
}

// Ratio returns the finished share between 0 and 1
func (p Progress) Ratio() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}

// ProgressOf counts the tasks with at least one tag matching current
func ProgressOf(tasks []model.Task, family Family, current string) Progress {
	p := Progress{Tag: current}
	for i := range tasks {
		if !slices.ContainsFunc(Of(&tasks[i], family), func(tag string) bool {
			return Matches(tag, current)
		}) {
			continue
		}
		p.Total++
		if tasks[i].Finished {
			p.Completed++
		}
	}
	return p
}

// BuildActiveFilters returns the progress of every tag of the family that
// still covers unfinished work, in tag discovery order. Tags whose tasks are
// all finished are left out.
func BuildActiveFilters(list *model.List, family Family) []Progress {
	tasks := list.Tasks()

	var active []Progress
	for _, tag := range Distinct(list, family) {
		p := ProgressOf(tasks, family, tag)
		if p.Done() {
			continue
		}
		active = append(active, p)
	}
	return active
}

// VisibleTasks returns the unfinished tasks tagged in the family whose
// threshold date has been reached by today. With a non-empty filter set a
// task also needs one tag that is exactly in filters.
func VisibleTasks(list *model.List, family Family, filters []string, today time.Time) []model.Task {
	var visible []model.Task
	for _, task := range list.Tasks() {
		tags := Of(&task, family)
		if task.Finished || len(tags) == 0 {
			continue
		}
		if !hasFilter(tags, filters) {
			continue
		}
		if !task.IsVisible(today) {
			continue
		}
		visible = append(visible, task)
	}
	return visible
}

func hasFilter(tags, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if slices.Contains(tags, f) {
			return true
		}
	}
	return false
}
