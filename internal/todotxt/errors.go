package todotxt

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyLine   = errors.New("empty line")
	ErrBadDate     = errors.New("invalid date")
	ErrBadPriority = errors.New("invalid priority")

	// ErrAmbiguousLine marks a task whose line would read back differently
	ErrAmbiguousLine = errors.New("line does not read back as the same task")
)

// FormatError reports a line that does not follow the todo.txt encoding
type FormatError struct {
	Line string // Offending input
	Num  int    // 1-based line number, 0 when parsing a single line
	Err  error  // Underlying cause
}

func (e *FormatError) Error() string {
	if e.Num > 0 {
		return fmt.Sprintf("line %d: %q: %s", e.Num, e.Line, e.Err)
	}
	return fmt.Sprintf("%q: %s", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *FormatError) Unwrap() error {
	return e.Err
}
