package availability

import (
	"fmt"
	"strconv"
	"strings"

	"grafik/pkg/model"
)

// ResolveWeekdays maps a schedule to the set of ISO weekdays it applies on:
// weekly covers Monday through Friday, monthly covers the whole week, custom
// parses the stored day list. An unparsable custom list resolves to the
// empty set, so a schedule with corrupt data is simply never working instead
// of failing every check that touches it.
func ResolveWeekdays(s *model.WorkSchedule) model.WeekdaySet {
	switch s.ScheduleType {
	case model.ScheduleTypeWeekly:
		return model.NewWeekdaySet(model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday)
	case model.ScheduleTypeMonthly:
		return model.NewWeekdaySet(model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday, model.Saturday, model.Sunday)
	case model.ScheduleTypeCustom:
		days, _ := ParseCustomDays(s.CustomDays)
		return days
	default:
		return model.NewWeekdaySet()
	}
}

// ParseCustomDays parses a comma-separated weekday list such as "1,3,5".
// One malformed or out-of-range entry empties the whole set; the returned
// error names the offending token so callers can log it. Callers that only
// care about the set may discard the error, the set is always usable.
func ParseCustomDays(raw string) (model.WeekdaySet, error) {
	if strings.TrimSpace(raw) == "" {
		return model.NewWeekdaySet(), fmt.Errorf("custom days list is empty")
	}

	var set model.WeekdaySet
	for _, part := range strings.Split(raw, ",") {
		token := strings.TrimSpace(part)
		n, err := strconv.Atoi(token)
		if err != nil {
			return model.NewWeekdaySet(), fmt.Errorf("custom day %q is not a number", token)
		}
		day := model.Weekday(n)
		if !day.Valid() {
			return model.NewWeekdaySet(), fmt.Errorf("custom day %d is outside 1..7", n)
		}
		set = set.Add(day)
	}
	return set, nil
}
