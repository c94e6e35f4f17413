package availability

import "grafik/pkg/model"

// periodEndsBefore reports whether an end date falls strictly before a start
// date. An empty end extends into the future and an empty start into the
// past, so neither can precede anything.
func periodEndsBefore(end, start string) bool {
	if end == "" || start == "" {
		return false
	}
	return end < start
}

// PeriodsOverlap checks calendar-period overlap between two schedules, with
// missing bounds treated as unbounded on that side. Two open-ended schedules
// always overlap.
func PeriodsOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return !(periodEndsBefore(aEnd, bStart) || periodEndsBefore(bEnd, aStart))
}

// TimeWindowsOverlap checks the daily windows of two schedules. Unlike the
// availability predicate this comparison is exclusive on the bounds:
// schedules that merely touch, 09:00-13:00 against 13:00-17:00, do not
// conflict.
func TimeWindowsOverlap(aStart, aEnd, bStart, bEnd string) bool {
	as, errAS := model.ParseClock(aStart)
	ae, errAE := model.ParseClock(aEnd)
	bs, errBS := model.ParseClock(bStart)
	be, errBE := model.ParseClock(bEnd)
	if errAS != nil || errAE != nil || errBS != nil || errBE != nil {
		return false
	}
	return as < be && bs < ae
}

// FindScheduleConflicts checks the candidate against the master's other
// schedules. A conflict requires all three dimensions to overlap at once:
// calendar period, weekday set and daily time window. Inactive schedules and
// the candidate itself never conflict. Each hit carries the colliding
// schedule's period and window so the caller can report exactly what is
// already taken.
func FindScheduleConflicts(candidate *model.WorkSchedule, existing []model.WorkSchedule) []model.ScheduleConflict {
	candidateDays := ResolveWeekdays(candidate)

	var conflicts []model.ScheduleConflict
	for i := range existing {
		other := &existing[i]

		if other.ID != "" && other.ID == candidate.ID {
			continue
		}
		if !other.IsActive {
			continue
		}
		if !PeriodsOverlap(candidate.StartDate, candidate.EndDate, other.StartDate, other.EndDate) {
			continue
		}
		otherDays := ResolveWeekdays(other)
		if !candidateDays.Intersects(otherDays) {
			continue
		}
		if !TimeWindowsOverlap(candidate.StartTime, candidate.EndTime, other.StartTime, other.EndTime) {
			continue
		}

		conflicts = append(conflicts, model.ScheduleConflict{
			ScheduleID: other.ID,
			StartDate:  other.StartDate,
			EndDate:    other.EndDate,
			StartTime:  other.StartTime,
			EndTime:    other.EndTime,
			Weekdays:   otherDays.String(),
		})
	}
	return conflicts
}

// FindOrderOverlaps scans already-assigned orders for collisions with the
// half-open interval [startMin, startMin+durationMin) on the given date.
// Half-open means back-to-back work does not collide. Orders that no longer
// occupy the master, fall on another date or carry an unparsable time are
// skipped.
func FindOrderOverlaps(date string, startMin, durationMin int, excludeOrderID string, orders []model.Order, defaultDurationMin int) []model.OrderConflict {
	endMin := startMin + durationMin

	var conflicts []model.OrderConflict
	for i := range orders {
		o := &orders[i]

		if excludeOrderID != "" && o.ID == excludeOrderID {
			continue
		}
		if !o.OccupiesMaster() {
			continue
		}
		if o.PreferredDate != date {
			continue
		}

		otherStart, err := model.ParseClock(o.PreferredTime)
		if err != nil {
			continue
		}
		otherEnd := otherStart + o.EffectiveDurationMin(defaultDurationMin)

		if startMin < otherEnd && otherStart < endMin {
			conflicts = append(conflicts, model.OrderConflict{
				OrderID:   o.ID,
				Date:      o.PreferredDate,
				StartTime: model.FormatClock(otherStart),
				EndTime:   model.FormatClock(otherEnd),
				Status:    o.Status,
			})
		}
	}
	return conflicts
}
