package availability

import (
	"context"

	"grafik/pkg/logger"
	"grafik/pkg/metrics"
	"grafik/pkg/model"
)

// ScheduleSource supplies a master's active schedules, ordered oldest first
// so "first applicable wins" is stable. Both the mongo repositories and the
// schedules HTTP client satisfy it.
type ScheduleSource interface {
	ActiveForMaster(ctx context.Context, masterID string) ([]model.WorkSchedule, error)
}

// OrderSource supplies the confirmed and in-progress orders assigned to a
// master on a date.
type OrderSource interface {
	ActiveForMasterOnDate(ctx context.Context, masterID, date string) ([]model.Order, error)
}

// Engine answers availability questions for masters. It holds no state of
// its own; every call re-reads the injected sources.
type Engine struct {
	schedules          ScheduleSource
	orders             OrderSource
	log                *logger.Logger
	defaultDurationMin int
}

func NewEngine(schedules ScheduleSource, orders OrderSource, log *logger.Logger, defaultDurationMin int) *Engine {
	return &Engine{
		schedules:          schedules,
		orders:             orders,
		log:                log,
		defaultDurationMin: defaultDurationMin,
	}
}

// FindApplicableSchedule returns the first active schedule whose period and
// weekday pattern cover the date, or nil when the master simply does not
// work that day. Nil is a normal answer, not an error.
func (e *Engine) FindApplicableSchedule(ctx context.Context, masterID, date string) (*model.WorkSchedule, error) {
	schedules, err := e.schedules.ActiveForMaster(ctx, masterID)
	if err != nil {
		return nil, err
	}

	for i := range schedules {
		s := &schedules[i]
		e.noteMalformedCustomDays(s)
		if IsWorkingDay(s, date) {
			return s, nil
		}
	}
	return nil, nil
}

// IsMasterWorkingAt resolves the applicable schedule for the date and, when
// clock is non-empty, applies the inclusive time-window check. With an empty
// clock the answer covers the whole day. ScheduleID is filled whenever an
// applicable schedule exists, even if the requested minute falls outside its
// window.
func (e *Engine) IsMasterWorkingAt(ctx context.Context, masterID, date, clock string) (*model.AvailabilityStatus, error) {
	status := &model.AvailabilityStatus{
		MasterID: masterID,
		Date:     date,
		Time:     clock,
	}

	s, err := e.FindApplicableSchedule(ctx, masterID, date)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return status, nil
	}

	status.ScheduleID = s.ID
	if clock == "" {
		status.Working = true
		return status, nil
	}

	status.Working = IsWorkingAtTime(s, date, clock)
	return status, nil
}

// CheckSchedule collects conflicts between the candidate and the master's
// existing active schedules. An inactive candidate never conflicts, so
// drafts can be saved freely and checked on activation.
func (e *Engine) CheckSchedule(ctx context.Context, candidate *model.WorkSchedule) ([]model.ScheduleConflict, error) {
	if !candidate.IsActive {
		return nil, nil
	}

	existing, err := e.schedules.ActiveForMaster(ctx, candidate.MasterID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		e.noteMalformedCustomDays(&existing[i])
	}

	conflicts := FindScheduleConflicts(candidate, existing)
	if len(conflicts) > 0 {
		metrics.IncScheduleConflicts()
	}
	return conflicts, nil
}

// FindOrderConflicts lists the orders colliding with a prospective interval
// on the master's day. A non-positive duration falls back to the platform
// default.
func (e *Engine) FindOrderConflicts(ctx context.Context, masterID, date, clock string, durationMin int, excludeOrderID string) ([]model.OrderConflict, error) {
	startMin, err := model.ParseClock(clock)
	if err != nil {
		return nil, err
	}
	if durationMin <= 0 {
		durationMin = e.defaultDurationMin
	}

	orders, err := e.orders.ActiveForMasterOnDate(ctx, masterID, date)
	if err != nil {
		return nil, err
	}

	return FindOrderOverlaps(date, startMin, durationMin, excludeOrderID, orders, e.defaultDurationMin), nil
}

// CheckAssignment runs the full gate for placing an order with a master: the
// master must be on shift at the preferred time and free of competing orders
// for the whole estimated interval. The decision is a business verdict;
// errors surface only when a source fails.
func (e *Engine) CheckAssignment(ctx context.Context, ord *model.Order, masterID string) (*model.AssignmentDecision, error) {
	status, err := e.IsMasterWorkingAt(ctx, masterID, ord.PreferredDate, ord.PreferredTime)
	if err != nil {
		return nil, err
	}
	if !status.Working {
		metrics.IncAssignmentRejections(model.ReasonMasterNotWorking)
		e.log.Info("Assignment rejected, master not working",
			"master_id", masterID,
			"order_id", ord.ID,
			"date", ord.PreferredDate,
			"time", ord.PreferredTime,
		)
		return &model.AssignmentDecision{
			Allowed: false,
			Reason:  model.ReasonMasterNotWorking,
		}, nil
	}

	conflicts, err := e.FindOrderConflicts(ctx, masterID, ord.PreferredDate, ord.PreferredTime, ord.EffectiveDurationMin(e.defaultDurationMin), ord.ID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		metrics.IncAssignmentRejections(model.ReasonOrderConflict)
		e.log.Info("Assignment rejected, competing orders found",
			"master_id", masterID,
			"order_id", ord.ID,
			"date", ord.PreferredDate,
			"time", ord.PreferredTime,
			"conflicts", len(conflicts),
		)
		return &model.AssignmentDecision{
			Allowed:        false,
			Reason:         model.ReasonOrderConflict,
			ScheduleID:     status.ScheduleID,
			OrderConflicts: conflicts,
		}, nil
	}

	return &model.AssignmentDecision{
		Allowed:    true,
		ScheduleID: status.ScheduleID,
	}, nil
}

// noteMalformedCustomDays emits the diagnostic signal for stored custom day
// lists that no longer parse. The schedule still behaves as "never working";
// this only makes the silent degradation visible.
func (e *Engine) noteMalformedCustomDays(s *model.WorkSchedule) {
	if s.ScheduleType != model.ScheduleTypeCustom {
		return
	}
	if _, err := ParseCustomDays(s.CustomDays); err != nil {
		metrics.IncMalformedCustomDays()
		e.log.Warn("Stored custom days are unparsable, schedule treated as never applying",
			"schedule_id", s.ID,
			"master_id", s.MasterID,
			"custom_days", s.CustomDays,
			"error", err,
		)
	}
}
