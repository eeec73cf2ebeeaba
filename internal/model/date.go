package model

import "time"

// DateLayout is the todo.txt calendar date format
const DateLayout = "2006-01-02"

// Day returns the calendar date y-m-d as midnight UTC
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf drops the time of day from t, keeping t's own calendar date
func DateOf(t time.Time) time.Time {
	return Day(t.Year(), t.Month(), t.Day())
}

// Today returns the current local calendar date
func Today() time.Time {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CompareDates orders optional dates with an absent date before any present one
func CompareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

// SameDate reports whether two optional dates are equal
func SameDate(a, b *time.Time) bool {
	return CompareDates(a, b) == 0
}
