package availability

import (
	"context"
	"errors"
	"testing"

	"grafik/pkg/logger"
	"grafik/pkg/model"
)

type fakeScheduleSource struct {
	activeForMasterFunc func(ctx context.Context, masterID string) ([]model.WorkSchedule, error)
}

func (f *fakeScheduleSource) ActiveForMaster(ctx context.Context, masterID string) ([]model.WorkSchedule, error) {
	if f.activeForMasterFunc != nil {
		return f.activeForMasterFunc(ctx, masterID)
	}
	return nil, nil
}

type fakeOrderSource struct {
	activeForMasterOnDateFunc func(ctx context.Context, masterID, date string) ([]model.Order, error)
}

func (f *fakeOrderSource) ActiveForMasterOnDate(ctx context.Context, masterID, date string) ([]model.Order, error) {
	if f.activeForMasterOnDateFunc != nil {
		return f.activeForMasterOnDateFunc(ctx, masterID, date)
	}
	return nil, nil
}

func testEngine(schedules *fakeScheduleSource, orders *fakeOrderSource) *Engine {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	return NewEngine(schedules, orders, log, 60)
}

func mondayFridaySchedules() []model.WorkSchedule {
	return []model.WorkSchedule{
		{
			ID:           "sched-1",
			MasterID:     "master-1",
			ScheduleType: model.ScheduleTypeWeekly,
			StartDate:    "2025-01-01",
			StartTime:    "09:00",
			EndTime:      "18:00",
			IsActive:     true,
		},
	}
}

func TestIsMasterWorkingAt(t *testing.T) {
	schedules := &fakeScheduleSource{
		activeForMasterFunc: func(ctx context.Context, masterID string) ([]model.WorkSchedule, error) {
			return mondayFridaySchedules(), nil
		},
	}
	engine := testEngine(schedules, &fakeOrderSource{})

	t.Run("monday inside window is working", func(t *testing.T) {
		status, err := engine.IsMasterWorkingAt(context.Background(), "master-1", "2025-01-06", "10:00")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !status.Working {
			t.Error("expected master to be working on Monday 10:00")
		}
		if status.ScheduleID != "sched-1" {
			t.Errorf("schedule ID = %q, want sched-1", status.ScheduleID)
		}
	})

	t.Run("sunday is not working", func(t *testing.T) {
		status, err := engine.IsMasterWorkingAt(context.Background(), "master-1", "2025-01-05", "10:00")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status.Working {
			t.Error("expected master to be off on Sunday")
		}
		if status.ScheduleID != "" {
			t.Errorf("schedule ID = %q, want empty on a non-working day", status.ScheduleID)
		}
	})

	t.Run("working day with off-window time keeps schedule reference", func(t *testing.T) {
		status, err := engine.IsMasterWorkingAt(context.Background(), "master-1", "2025-01-06", "20:00")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status.Working {
			t.Error("expected master to be off at 20:00")
		}
		if status.ScheduleID != "sched-1" {
			t.Errorf("schedule ID = %q, want sched-1 for the day's schedule", status.ScheduleID)
		}
	})

	t.Run("empty clock answers for the whole day", func(t *testing.T) {
		status, err := engine.IsMasterWorkingAt(context.Background(), "master-1", "2025-01-06", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !status.Working {
			t.Error("expected day-level answer to be working")
		}
	})
}

func TestFindApplicableSchedule(t *testing.T) {
	t.Run("no schedules is absence not an error", func(t *testing.T) {
		engine := testEngine(&fakeScheduleSource{}, &fakeOrderSource{})
		s, err := engine.FindApplicableSchedule(context.Background(), "master-1", "2025-01-06")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s != nil {
			t.Errorf("expected nil schedule, got %+v", s)
		}
	})

	t.Run("source failure propagates", func(t *testing.T) {
		sourceErr := errors.New("connection reset")
		engine := testEngine(&fakeScheduleSource{
			activeForMasterFunc: func(ctx context.Context, masterID string) ([]model.WorkSchedule, error) {
				return nil, sourceErr
			},
		}, &fakeOrderSource{})
		_, err := engine.FindApplicableSchedule(context.Background(), "master-1", "2025-01-06")
		if !errors.Is(err, sourceErr) {
			t.Errorf("expected source error to propagate, got %v", err)
		}
	})

	t.Run("first applicable schedule wins", func(t *testing.T) {
		list := mondayFridaySchedules()
		list = append(list, model.WorkSchedule{
			ID:           "sched-2",
			MasterID:     "master-1",
			ScheduleType: model.ScheduleTypeMonthly,
			StartDate:    "2025-01-01",
			StartTime:    "08:00",
			EndTime:      "16:00",
			IsActive:     true,
		})
		engine := testEngine(&fakeScheduleSource{
			activeForMasterFunc: func(ctx context.Context, masterID string) ([]model.WorkSchedule, error) {
				return list, nil
			},
		}, &fakeOrderSource{})

		s, err := engine.FindApplicableSchedule(context.Background(), "master-1", "2025-01-06")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s == nil || s.ID != "sched-1" {
			t.Errorf("expected sched-1 to win, got %+v", s)
		}
	})

	t.Run("idempotent over unchanged source", func(t *testing.T) {
		engine := testEngine(&fakeScheduleSource{
			activeForMasterFunc: func(ctx context.Context, masterID string) ([]model.WorkSchedule, error) {
				return mondayFridaySchedules(), nil
			},
		}, &fakeOrderSource{})

		first, err := engine.FindApplicableSchedule(context.Background(), "master-1", "2025-01-06")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := engine.FindApplicableSchedule(context.Background(), "master-1", "2025-01-06")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first == nil || second == nil || first.ID != second.ID {
			t.Errorf("expected identical results, got %+v then %+v", first, second)
		}
	})
}

func TestCheckSchedule(t *testing.T) {
	existing := model.WorkSchedule{
		ID:           "sched-a",
		MasterID:     "master-1",
		ScheduleType: model.ScheduleTypeCustom,
		CustomDays:   "1,3,5",
		StartDate:    "2025-01-01",
		EndDate:      "2025-03-01",
		StartTime:    "09:00",
		EndTime:      "13:00",
		IsActive:     true,
	}
	schedules := &fakeScheduleSource{
		activeForMasterFunc: func(ctx context.Context, masterID string) ([]model.WorkSchedule, error) {
			return []model.WorkSchedule{existing}, nil
		},
	}
	engine := testEngine(schedules, &fakeOrderSource{})

	t.Run("colliding candidate is reported", func(t *testing.T) {
		candidate := model.WorkSchedule{
			MasterID:     "master-1",
			ScheduleType: model.ScheduleTypeCustom,
			CustomDays:   "3,5",
			StartDate:    "2025-02-01",
			EndDate:      "2025-04-01",
			StartTime:    "12:00",
			EndTime:      "16:00",
			IsActive:     true,
		}
		conflicts, err := engine.CheckSchedule(context.Background(), &candidate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(conflicts) != 1 || conflicts[0].ScheduleID != "sched-a" {
			t.Errorf("expected conflict with sched-a, got %+v", conflicts)
		}
	})

	t.Run("inactive candidate skips the check", func(t *testing.T) {
		candidate := model.WorkSchedule{
			MasterID:     "master-1",
			ScheduleType: model.ScheduleTypeCustom,
			CustomDays:   "3,5",
			StartDate:    "2025-02-01",
			EndDate:      "2025-04-01",
			StartTime:    "12:00",
			EndTime:      "16:00",
			IsActive:     false,
		}
		conflicts, err := engine.CheckSchedule(context.Background(), &candidate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(conflicts) != 0 {
			t.Errorf("inactive candidate should not conflict, got %+v", conflicts)
		}
	})
}

func TestCheckAssignment(t *testing.T) {
	schedules := &fakeScheduleSource{
		activeForMasterFunc: func(ctx context.Context, masterID string) ([]model.WorkSchedule, error) {
			return mondayFridaySchedules(), nil
		},
	}

	busyMonday := []model.Order{
		{
			ID:                   "order-1",
			MasterID:             "master-1",
			PreferredDate:        "2025-01-06",
			PreferredTime:        "10:00",
			EstimatedDurationMin: 60,
			Status:               model.OrderStatusConfirmed,
		},
	}

	t.Run("master not working", func(t *testing.T) {
		engine := testEngine(schedules, &fakeOrderSource{})
		ord := model.Order{ID: "order-2", PreferredDate: "2025-01-05", PreferredTime: "10:00"}

		decision, err := engine.CheckAssignment(context.Background(), &ord, "master-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if decision.Allowed {
			t.Error("expected assignment to be rejected on Sunday")
		}
		if decision.Reason != model.ReasonMasterNotWorking {
			t.Errorf("reason = %q, want %q", decision.Reason, model.ReasonMasterNotWorking)
		}
	})

	t.Run("competing order rejects assignment", func(t *testing.T) {
		engine := testEngine(schedules, &fakeOrderSource{
			activeForMasterOnDateFunc: func(ctx context.Context, masterID, date string) ([]model.Order, error) {
				return busyMonday, nil
			},
		})
		ord := model.Order{ID: "order-2", PreferredDate: "2025-01-06", PreferredTime: "10:30", EstimatedDurationMin: 60}

		decision, err := engine.CheckAssignment(context.Background(), &ord, "master-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if decision.Allowed {
			t.Error("expected assignment to be rejected for overlapping order")
		}
		if decision.Reason != model.ReasonOrderConflict {
			t.Errorf("reason = %q, want %q", decision.Reason, model.ReasonOrderConflict)
		}
		if len(decision.OrderConflicts) != 1 || decision.OrderConflicts[0].OrderID != "order-1" {
			t.Errorf("expected order-1 in conflicts, got %+v", decision.OrderConflicts)
		}
	})

	t.Run("back to back assignment is allowed", func(t *testing.T) {
		engine := testEngine(schedules, &fakeOrderSource{
			activeForMasterOnDateFunc: func(ctx context.Context, masterID, date string) ([]model.Order, error) {
				return busyMonday, nil
			},
		})
		ord := model.Order{ID: "order-3", PreferredDate: "2025-01-06", PreferredTime: "11:00", EstimatedDurationMin: 30}

		decision, err := engine.CheckAssignment(context.Background(), &ord, "master-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !decision.Allowed {
			t.Errorf("expected back-to-back assignment to pass, got reason %q", decision.Reason)
		}
		if decision.ScheduleID != "sched-1" {
			t.Errorf("schedule ID = %q, want sched-1", decision.ScheduleID)
		}
	})

	t.Run("zero duration uses the platform default", func(t *testing.T) {
		engine := testEngine(schedules, &fakeOrderSource{
			activeForMasterOnDateFunc: func(ctx context.Context, masterID, date string) ([]model.Order, error) {
				return []model.Order{
					{
						ID:            "order-4",
						PreferredDate: "2025-01-06",
						PreferredTime: "10:45",
						Status:        model.OrderStatusInProgress,
					},
				}, nil
			},
		})
		// 10:00 with the 60-minute default reaches 11:00, colliding with
		// the 10:45 order.
		ord := model.Order{ID: "order-5", PreferredDate: "2025-01-06", PreferredTime: "10:00"}

		decision, err := engine.CheckAssignment(context.Background(), &ord, "master-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if decision.Allowed {
			t.Error("expected default duration to produce a conflict")
		}
	})

	t.Run("order source failure propagates", func(t *testing.T) {
		sourceErr := errors.New("cursor timeout")
		engine := testEngine(schedules, &fakeOrderSource{
			activeForMasterOnDateFunc: func(ctx context.Context, masterID, date string) ([]model.Order, error) {
				return nil, sourceErr
			},
		})
		ord := model.Order{ID: "order-6", PreferredDate: "2025-01-06", PreferredTime: "10:00"}

		_, err := engine.CheckAssignment(context.Background(), &ord, "master-1")
		if !errors.Is(err, sourceErr) {
			t.Errorf("expected source error to propagate, got %v", err)
		}
	})
}
