package main

import (
	"strings"
	"time"

	"github.com/dori/tally/internal/model"
)

// dateKeys are the keywords whose values may be written as natural dates
var dateKeys = []string{"due:", "t:"}

// expandDates rewrites due:tomorrow, t:friday and similar words into
// todo.txt dates relative to today. Other words are left alone.
func expandDates(text string, today time.Time) string {
	words := strings.Fields(text)
	for i, word := range words {
		for _, key := range dateKeys {
			if !strings.HasPrefix(strings.ToLower(word), key) {
				continue
			}
			if d, ok := parseNaturalDate(word[len(key):], today); ok {
				words[i] = key + model.FormatDate(d)
			}
		}
	}
	return strings.Join(words, " ")
}

func parseNaturalDate(s string, today time.Time) (time.Time, bool) {
	today = model.DateOf(today)

	switch strings.ToLower(s) {
	case "today", "tod":
		return today, true
	case "tomorrow", "tom":
		return today.AddDate(0, 0, 1), true
	case "monday", "mon":
		return nextWeekday(today, time.Monday), true
	case "tuesday", "tue":
		return nextWeekday(today, time.Tuesday), true
	case "wednesday", "wed":
		return nextWeekday(today, time.Wednesday), true
	case "thursday", "thu":
		return nextWeekday(today, time.Thursday), true
	case "friday", "fri":
		return nextWeekday(today, time.Friday), true
	case "saturday", "sat":
		return nextWeekday(today, time.Saturday), true
	case "sunday", "sun":
		return nextWeekday(today, time.Sunday), true
	case "nextweek":
		return today.AddDate(0, 0, 7), true
	case "nextmonth":
		return today.AddDate(0, 1, 0), true
	}

	// Try parsing as date
	formats := []string{
		"01/02/2006",
		"01-02-2006",
		"Jan2",
		"2Jan",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			// If no year, use the next occurrence of the day
			if t.Year() == 0 {
				t = model.Day(today.Year(), t.Month(), t.Day())
				if t.Before(today) {
					t = t.AddDate(1, 0, 0)
				}
			}
			return model.DateOf(t), true
		}
	}

	return time.Time{}, false
}

// nextWeekday returns the next day after today falling on day
func nextWeekday(today time.Time, day time.Weekday) time.Time {
	daysUntil := int(day - today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}
