package model

import "fmt"

// Priority is a todo.txt priority letter. The zero value means no priority.
type Priority byte

const (
	PriorityNone Priority = 0
	PriorityA    Priority = 'A'
	PriorityB    Priority = 'B'
	PriorityC    Priority = 'C'
	PriorityZ    Priority = 'Z'
)

// ParsePriority parses a single uppercase letter
func ParsePriority(s string) (Priority, error) {
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return PriorityNone, fmt.Errorf("invalid priority %q", s)
	}
	return Priority(s[0]), nil
}

// Valid reports whether p is a letter between A and Z
func (p Priority) Valid() bool {
	return p >= 'A' && p <= 'Z'
}

// IsSet reports whether the task carries a priority at all
func (p Priority) IsSet() bool {
	return p != PriorityNone
}

func (p Priority) String() string {
	if !p.Valid() {
		return ""
	}
	return string(rune(p))
}

// CompareUrgency returns -1 if p is more urgent than q, 1 if less urgent and
// 0 if equal. A is the most urgent letter; no priority is the least urgent.
func CompareUrgency(p, q Priority) int {
	switch {
	case p == q:
		return 0
	case !p.Valid():
		return 1
	case !q.Valid():
		return -1
	case p < q:
		return -1
	default:
		return 1
	}
}

// MarshalText encodes the priority as its letter, empty for none
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a priority letter; empty text means no priority
func (p *Priority) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = PriorityNone
		return nil
	}
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
