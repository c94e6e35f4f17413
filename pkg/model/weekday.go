package model

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is an ISO-8601 weekday number: Monday=1 .. Sunday=7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Weekday) String() string {
	names := [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return names[d-1]
}

// ISOWeekday converts time.Weekday (Sunday=0) to the ISO numbering used
// throughout the schedule domain.
func ISOWeekday(t time.Time) Weekday {
	wd := int(t.Weekday())
	if wd == 0 {
		return Sunday
	}
	return Weekday(wd)
}

// WeekdaySet is a bitmask over the seven ISO weekdays. The zero value is the
// empty set, which availability checks treat as "never working".
type WeekdaySet uint8

func NewWeekdaySet(days ...Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

func (s WeekdaySet) Add(d Weekday) WeekdaySet {
	if !d.Valid() {
		return s
	}
	return s | 1<<(d-1)
}

func (s WeekdaySet) Contains(d Weekday) bool {
	if !d.Valid() {
		return false
	}
	return s&(1<<(d-1)) != 0
}

func (s WeekdaySet) Intersects(other WeekdaySet) bool {
	return s&other != 0
}

func (s WeekdaySet) IsEmpty() bool {
	return s == 0
}

func (s WeekdaySet) Len() int {
	n := 0
	for d := Monday; d <= Sunday; d++ {
		if s.Contains(d) {
			n++
		}
	}
	return n
}

// Values returns the member weekdays in ascending ISO order.
func (s WeekdaySet) Values() []Weekday {
	days := make([]Weekday, 0, 7)
	for d := Monday; d <= Sunday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

func (s WeekdaySet) String() string {
	values := s.Values()
	parts := make([]string, 0, len(values))
	for _, d := range values {
		parts = append(parts, fmt.Sprintf("%d", int(d)))
	}
	return strings.Join(parts, ",")
}
