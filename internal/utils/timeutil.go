package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar-day format used for travel dates (YYYY-MM-DD)
	DateLayout = "2006-01-02"
	// ClockLayout is the time-of-day format used for departures (HH:MM)
	ClockLayout = "15:04"
)

// ParseDate parses a YYYY-MM-DD date in the given location
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
}

// ParseClock parses HH:MM or HH:MM:SS and returns the offset from midnight
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{ClockLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

// CombineDateClock returns the instant a date and a time of day denote in loc
func CombineDateClock(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	offset, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(offset), nil
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTimestamp formats a timestamp as RFC3339
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
