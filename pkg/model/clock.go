package model

import (
	"fmt"
	"time"
)

const (
	// ClockLayout is the wire format for times of day ("09:00").
	ClockLayout = "15:04"
	// DateLayout is the wire format for calendar dates ("2026-03-15").
	// ISO dates compare correctly as plain strings, which the repositories
	// rely on when filtering periods in mongo.
	DateLayout = "2006-01-02"
)

// ParseClock parses an "HH:MM" string into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM". Values are clamped
// to the 24h range so slot arithmetic never produces an unparsable string.
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > 24*60-1 {
		minutes = 24*60 - 1
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a "YYYY-MM-DD" string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date value %q: %w", s, err)
	}
	return t, nil
}

// DateString renders a time as "YYYY-MM-DD" in UTC.
func DateString(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
