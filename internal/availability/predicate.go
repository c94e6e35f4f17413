package availability

import "grafik/pkg/model"

// IsWorkingDay reports whether the schedule puts the master on shift on the
// given date ("2006-01-02"). Inactive schedules and dates outside the
// schedule period are false regardless of weekday.
func IsWorkingDay(s *model.WorkSchedule, date string) bool {
	if !s.IsActive {
		return false
	}
	if !s.CoversDate(date) {
		return false
	}
	day, err := model.ParseDate(date)
	if err != nil {
		return false
	}
	return ResolveWeekdays(s).Contains(model.ISOWeekday(day))
}

// IsWorkingAtTime layers the daily window on top of IsWorkingDay. Both
// bounds are inclusive: a master is still working at the exact minute the
// shift starts and the exact minute it ends.
func IsWorkingAtTime(s *model.WorkSchedule, date, clock string) bool {
	if !IsWorkingDay(s, date) {
		return false
	}

	at, err := model.ParseClock(clock)
	if err != nil {
		return false
	}
	start, err := model.ParseClock(s.StartTime)
	if err != nil {
		return false
	}
	end, err := model.ParseClock(s.EndTime)
	if err != nil {
		return false
	}

	return start <= at && at <= end
}
