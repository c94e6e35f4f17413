package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"grafik/internal/availability"
	scheduleerrors "grafik/internal/schedules/errors"
	"grafik/internal/schedules/validator"
	"grafik/pkg/config"
	mongotx "grafik/pkg/db/mongo"
	apperrors "grafik/pkg/errors"
	"grafik/pkg/logger"
	"grafik/pkg/model"
)

type mockWorkScheduleRepository struct {
	createFunc          func(ctx context.Context, ws *model.WorkSchedule) error
	findByIDFunc        func(ctx context.Context, id string) (*model.WorkSchedule, error)
	findAllFunc         func(ctx context.Context, limit int, offset int64) ([]*model.WorkSchedule, error)
	updateFunc          func(ctx context.Context, id string, ws *model.WorkSchedule) (*mongo.UpdateResult, error)
	deleteFunc          func(ctx context.Context, id string) error
	searchFunc          func(ctx context.Context, masterID string, active *bool, date string, limit int, offset int64) ([]*model.WorkSchedule, error)
	countSearchFunc     func(ctx context.Context, masterID string, active *bool, date string) (int64, error)
	activeForMasterFunc func(ctx context.Context, masterID string) ([]model.WorkSchedule, error)
	countFunc           func(ctx context.Context) (int64, error)
}

func (m *mockWorkScheduleRepository) Create(ctx context.Context, ws *model.WorkSchedule) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, ws)
	}
	return nil
}

func (m *mockWorkScheduleRepository) FindByID(ctx context.Context, id string) (*model.WorkSchedule, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, scheduleerrors.ErrNotFound
}

func (m *mockWorkScheduleRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.WorkSchedule, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.WorkSchedule{}, nil
}

func (m *mockWorkScheduleRepository) Update(ctx context.Context, id string, ws *model.WorkSchedule) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, ws)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockWorkScheduleRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockWorkScheduleRepository) Search(ctx context.Context, masterID string, active *bool, date string, limit int, offset int64) ([]*model.WorkSchedule, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, masterID, active, date, limit, offset)
	}
	return []*model.WorkSchedule{}, nil
}

func (m *mockWorkScheduleRepository) CountSearch(ctx context.Context, masterID string, active *bool, date string) (int64, error) {
	if m.countSearchFunc != nil {
		return m.countSearchFunc(ctx, masterID, active, date)
	}
	return 0, nil
}

func (m *mockWorkScheduleRepository) ActiveForMaster(ctx context.Context, masterID string) ([]model.WorkSchedule, error) {
	if m.activeForMasterFunc != nil {
		return m.activeForMasterFunc(ctx, masterID)
	}
	return nil, nil
}

func (m *mockWorkScheduleRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockWorkScheduleRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockScheduleLockRepository struct {
	acquireFunc func(ctx context.Context, lock *model.AdvisoryLock) error
	releaseFunc func(ctx context.Context, lockID string) error
}

func (m *mockScheduleLockRepository) Acquire(ctx context.Context, lock *model.AdvisoryLock) error {
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, lock)
	}
	return nil
}

func (m *mockScheduleLockRepository) Release(ctx context.Context, lockID string) error {
	if m.releaseFunc != nil {
		return m.releaseFunc(ctx, lockID)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:             5 * time.Second,
		DefaultOrderDurationMin: 60,
		RestDayWarnDays:         1,
		AdvisoryLockTTL:         10 * time.Second,
	}
}

func newTestService(repo *mockWorkScheduleRepository, lockRepo *mockScheduleLockRepository, cfg *config.Config) WorkScheduleService {
	v := validator.NewWorkScheduleValidator(cfg.Log)
	engine := availability.NewEngine(repo, nil, cfg.Log, cfg.DefaultOrderDurationMin)
	return NewWorkScheduleService(repo, lockRepo, v, engine, nil, cfg)
}

const testMasterID = "507f1f77bcf86cd799439011"

func futureSchedule() *model.WorkSchedule {
	return &model.WorkSchedule{
		MasterID:     testMasterID,
		ScheduleType: model.ScheduleTypeWeekly,
		StartDate:    model.DateString(time.Now().AddDate(0, 0, 7)),
		EndDate:      model.DateString(time.Now().AddDate(0, 1, 7)),
		StartTime:    "09:00",
		EndTime:      "18:00",
	}
}

func TestCreateWorkSchedule(t *testing.T) {
	t.Run("persists a valid schedule", func(t *testing.T) {
		cfg := testConfig()
		var created *model.WorkSchedule
		var acquiredLock, releasedLock string

		repo := &mockWorkScheduleRepository{
			createFunc: func(ctx context.Context, ws *model.WorkSchedule) error {
				ws.ID = "65a1b2c3d4e5f6a7b8c9d0e1"
				created = ws
				return nil
			},
		}
		lockRepo := &mockScheduleLockRepository{
			acquireFunc: func(ctx context.Context, lock *model.AdvisoryLock) error {
				acquiredLock = lock.ID
				return nil
			},
			releaseFunc: func(ctx context.Context, lockID string) error {
				releasedLock = lockID
				return nil
			},
		}
		svc := newTestService(repo, lockRepo, cfg)

		ws := futureSchedule()
		warnings, err := svc.Create(context.Background(), ws)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(warnings) != 0 {
			t.Errorf("expected no warnings for a weekday schedule, got %v", warnings)
		}
		if created == nil {
			t.Fatal("expected repository create to be called")
		}
		if !created.IsActive {
			t.Error("new schedules must be created active")
		}
		wantLock := "schedule_lock_" + testMasterID
		if acquiredLock != wantLock || releasedLock != wantLock {
			t.Errorf("lock lifecycle = acquire %q release %q, want %q", acquiredLock, releasedLock, wantLock)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		cfg := testConfig()
		createCalled := false
		repo := &mockWorkScheduleRepository{
			createFunc: func(ctx context.Context, ws *model.WorkSchedule) error {
				createCalled = true
				return nil
			},
		}
		svc := newTestService(repo, &mockScheduleLockRepository{}, cfg)

		ws := futureSchedule()
		ws.MasterID = ""
		_, err := svc.Create(context.Background(), ws)
		if err == nil {
			t.Fatal("expected a validation error")
		}
		if code := apperrors.AsAppError(err).Code; code != apperrors.CodeValidation {
			t.Errorf("error code = %s, want %s", code, apperrors.CodeValidation)
		}
		if createCalled {
			t.Error("repository create must not run on validation failure")
		}
	})

	t.Run("rejects a schedule that collides with an existing one", func(t *testing.T) {
		cfg := testConfig()
		existing := *futureSchedule()
		existing.ID = "65a1b2c3d4e5f6a7b8c9d0e2"
		existing.StartTime = "10:00"
		existing.EndTime = "14:00"
		existing.IsActive = true

		createCalled := false
		repo := &mockWorkScheduleRepository{
			activeForMasterFunc: func(ctx context.Context, masterID string) ([]model.WorkSchedule, error) {
				return []model.WorkSchedule{existing}, nil
			},
			createFunc: func(ctx context.Context, ws *model.WorkSchedule) error {
				createCalled = true
				return nil
			},
		}
		svc := newTestService(repo, &mockScheduleLockRepository{}, cfg)

		_, err := svc.Create(context.Background(), futureSchedule())
		if err == nil {
			t.Fatal("expected a conflict error")
		}
		appErr := apperrors.AsAppError(err)
		if appErr.Code != apperrors.CodeConflict {
			t.Errorf("error code = %s, want %s", appErr.Code, apperrors.CodeConflict)
		}
		if appErr.Details["conflicts"] == nil {
			t.Error("conflict error must carry the colliding schedules")
		}
		if createCalled {
			t.Error("repository create must not run when the check finds conflicts")
		}
	})

	t.Run("surfaces lock contention as a conflict", func(t *testing.T) {
		cfg := testConfig()
		repo := &mockWorkScheduleRepository{}
		lockRepo := &mockScheduleLockRepository{
			acquireFunc: func(ctx context.Context, lock *model.AdvisoryLock) error {
				return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
			},
		}
		svc := newTestService(repo, lockRepo, cfg)

		_, err := svc.Create(context.Background(), futureSchedule())
		if err == nil {
			t.Fatal("expected a conflict error")
		}
		if code := apperrors.AsAppError(err).Code; code != apperrors.CodeConflict {
			t.Errorf("error code = %s, want %s", code, apperrors.CodeConflict)
		}
	})

	t.Run("seven-day schedule creates with a rest-day warning", func(t *testing.T) {
		cfg := testConfig()
		created := false
		repo := &mockWorkScheduleRepository{
			createFunc: func(ctx context.Context, ws *model.WorkSchedule) error {
				created = true
				return nil
			},
		}
		svc := newTestService(repo, &mockScheduleLockRepository{}, cfg)

		ws := futureSchedule()
		ws.ScheduleType = model.ScheduleTypeCustom
		ws.CustomDays = "1,2,3,4,5,6,7"

		warnings, err := svc.Create(context.Background(), ws)
		if err != nil {
			t.Fatalf("a seven-day week is legal, got error: %v", err)
		}
		if !created {
			t.Error("expected the schedule to be persisted")
		}
		if len(warnings) != 1 {
			t.Fatalf("expected exactly one warning, got %v", warnings)
		}
	})
}

func TestGetByID(t *testing.T) {
	cfg := testConfig()

	t.Run("empty ID", func(t *testing.T) {
		svc := newTestService(&mockWorkScheduleRepository{}, &mockScheduleLockRepository{}, cfg)
		_, err := svc.GetByID(context.Background(), "")
		if code := apperrors.AsAppError(err).Code; code != apperrors.CodeInvalidInput {
			t.Errorf("error code = %s, want %s", code, apperrors.CodeInvalidInput)
		}
	})

	t.Run("missing schedule maps to not found", func(t *testing.T) {
		svc := newTestService(&mockWorkScheduleRepository{}, &mockScheduleLockRepository{}, cfg)
		_, err := svc.GetByID(context.Background(), "65a1b2c3d4e5f6a7b8c9d0e1")
		if code := apperrors.AsAppError(err).Code; code != apperrors.CodeNotFound {
			t.Errorf("error code = %s, want %s", code, apperrors.CodeNotFound)
		}
	})
}

func TestGetAllParallelFetch(t *testing.T) {
	cfg := testConfig()
	repo := &mockWorkScheduleRepository{
		countFunc: func(ctx context.Context) (int64, error) {
			time.Sleep(10 * time.Millisecond)
			return 50, nil
		},
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.WorkSchedule, error) {
			time.Sleep(10 * time.Millisecond)
			return []*model.WorkSchedule{{ID: "65a1b2c3d4e5f6a7b8c9d0e1"}}, nil
		},
	}
	svc := newTestService(repo, &mockScheduleLockRepository{}, cfg)

	// Run with -race to catch unsynchronized writes in the fan-out.
	for i := 0; i < 20; i++ {
		schedules, count, err := svc.GetAll(context.Background(), 10, 0)
		if err != nil {
			t.Fatalf("iteration %d: unexpected error: %v", i, err)
		}
		if count != 50 {
			t.Errorf("iteration %d: count = %d, want 50", i, count)
		}
		if len(schedules) != 1 {
			t.Errorf("iteration %d: got %d schedules, want 1", i, len(schedules))
		}
	}
}

func TestAvailability(t *testing.T) {
	cfg := testConfig()
	repo := &mockWorkScheduleRepository{
		activeForMasterFunc: func(ctx context.Context, masterID string) ([]model.WorkSchedule, error) {
			return []model.WorkSchedule{{
				ID:           "65a1b2c3d4e5f6a7b8c9d0e1",
				MasterID:     testMasterID,
				ScheduleType: model.ScheduleTypeWeekly,
				StartDate:    "2025-01-01",
				StartTime:    "09:00",
				EndTime:      "18:00",
				IsActive:     true,
			}}, nil
		},
	}
	svc := newTestService(repo, &mockScheduleLockRepository{}, cfg)

	t.Run("rejects malformed date", func(t *testing.T) {
		_, err := svc.Availability(context.Background(), testMasterID, "06-01-2025", "10:00")
		if code := apperrors.AsAppError(err).Code; code != apperrors.CodeInvalidInput {
			t.Errorf("error code = %s, want %s", code, apperrors.CodeInvalidInput)
		}
	})

	t.Run("rejects malformed time", func(t *testing.T) {
		_, err := svc.Availability(context.Background(), testMasterID, "2025-01-06", "25:99")
		if code := apperrors.AsAppError(err).Code; code != apperrors.CodeInvalidInput {
			t.Errorf("error code = %s, want %s", code, apperrors.CodeInvalidInput)
		}
	})

	t.Run("weekday inside the window is working", func(t *testing.T) {
		// 2025-01-06 is a Monday.
		status, err := svc.Availability(context.Background(), testMasterID, "2025-01-06", "10:00")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !status.Working {
			t.Error("expected the master to be working")
		}
		if status.ScheduleID != "65a1b2c3d4e5f6a7b8c9d0e1" {
			t.Errorf("schedule ID = %q, want the applicable schedule", status.ScheduleID)
		}
	})

	t.Run("sunday is a day off", func(t *testing.T) {
		status, err := svc.Availability(context.Background(), testMasterID, "2025-01-05", "10:00")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status.Working {
			t.Error("expected the master to be off on Sunday")
		}
	})
}
