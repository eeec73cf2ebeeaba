// Package todotxt reads and writes tasks in the todo.txt line format.
//
// A line looks like
//
//	x 2024-03-02 2024-03-01 call mom +family @phone due:2024-03-05 t:2024-03-01
//	(A) 2024-03-01 write report +work
//
// Projects (+tok) and contexts (@tok) stay in the subject. The due:, t: and
// pri: keywords and any other key:value pair are lifted out of the subject
// into dedicated fields and written back at the end of the line.
package todotxt

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/dori/tally/internal/model"
)

const (
	keyDue       = "due"
	keyThreshold = "t"
	keyPriority  = "pri"
)

var (
	datePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	keywordPattern = regexp.MustCompile(`^([A-Za-z][\w-]*):(\S+)$`)
)

// Parse decodes a single todo.txt line
func Parse(line string) (model.Task, error) {
	task, err := parse(line)
	if err != nil {
		return model.Task{}, &FormatError{Line: line, Err: err}
	}
	return task, nil
}

// ParseAll decodes every non-blank line of r
func ParseAll(r io.Reader) ([]model.Task, error) {
	var tasks []model.Task
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	num := 0
	for scanner.Scan() {
		num++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		task, err := parse(line)
		if err != nil {
			return nil, &FormatError{Line: line, Num: num, Err: err}
		}
		tasks = append(tasks, task)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read todo.txt: %w", err)
	}

	return tasks, nil
}

func parse(line string) (model.Task, error) {
	task := model.NewTask()

	words := strings.Fields(strings.TrimRight(line, "\r\n"))
	if len(words) == 0 {
		return task, ErrEmptyLine
	}

	// Completion marker and completion date
	if words[0] == "x" && len(words) > 1 {
		task.Finished = true
		words = words[1:]
		if d, ok, err := leadingDate(words); err != nil {
			return task, err
		} else if ok {
			task.FinishDate = &d
			words = words[1:]
		}
	}

	// Priority
	if len(words) > 0 && isPriority(words[0]) {
		task.Priority = model.Priority(words[0][1])
		words = words[1:]
	}

	// Creation date
	if d, ok, err := leadingDate(words); err != nil {
		return task, err
	} else if ok {
		task.CreateDate = &d
		words = words[1:]
	}

	subject := make([]string, 0, len(words))
	for _, w := range words {
		switch {
		case isTag(w, '+'):
			task.Projects = append(task.Projects, w)
			subject = append(subject, w)
		case isTag(w, '@'):
			task.Contexts = append(task.Contexts, w)
			subject = append(subject, w)
		default:
			lifted, err := liftKeyword(&task, w)
			if err != nil {
				return task, err
			}
			if !lifted {
				subject = append(subject, w)
			}
		}
	}
	task.Subject = strings.Join(subject, " ")

	return task, nil
}

// leadingDate parses words[0] if it looks like a date. A date-shaped word
// that is not a real calendar date is an error rather than subject text.
func leadingDate(words []string) (d time.Time, ok bool, err error) {
	if len(words) == 0 || !datePattern.MatchString(words[0]) {
		return d, false, nil
	}
	parsed, err := model.ParseDate(words[0])
	if err != nil {
		return d, false, fmt.Errorf("%w %q", ErrBadDate, words[0])
	}
	return parsed, true, nil
}

func isPriority(w string) bool {
	return len(w) == 3 && w[0] == '(' && w[2] == ')' && w[1] >= 'A' && w[1] <= 'Z'
}

func isTag(w string, sigil byte) bool {
	return len(w) > 1 && w[0] == sigil
}

// liftKeyword moves a key:value word into the task. It reports false when w
// is ordinary subject text.
func liftKeyword(task *model.Task, w string) (bool, error) {
	m := keywordPattern.FindStringSubmatch(w)
	if m == nil {
		return false, nil
	}
	key, value := m[1], m[2]
	if strings.HasPrefix(value, "//") {
		// scheme://... is a link, not a keyword
		return false, nil
	}

	switch key {
	case keyDue, keyThreshold:
		d, err := model.ParseDate(value)
		if err != nil {
			return false, fmt.Errorf("%w in %s: %q", ErrBadDate, key, value)
		}
		if key == keyDue {
			task.DueDate = &d
		} else {
			task.ThresholdDate = &d
		}
	case keyPriority:
		p, err := model.ParsePriority(value)
		if err != nil {
			return false, fmt.Errorf("%w: %q", ErrBadPriority, value)
		}
		task.Priority = p
	default:
		task.Keywords.Set(key, value)
	}

	return true, nil
}
