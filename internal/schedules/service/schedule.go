package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"grafik/internal/availability"
	scheduleerrors "grafik/internal/schedules/errors"
	"grafik/internal/schedules/repository"
	"grafik/internal/schedules/validator"
	"grafik/pkg/config"
	apperrors "grafik/pkg/errors"
	"grafik/pkg/kafka"
	"grafik/pkg/model"
)

type WorkScheduleService interface {
	Create(ctx context.Context, ws *model.WorkSchedule) ([]string, error)
	GetByID(ctx context.Context, id string) (*model.WorkSchedule, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.WorkSchedule, int64, error)
	Update(ctx context.Context, id string, updates *model.WorkScheduleUpdate) ([]string, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, masterID string, active *bool, date string, limit int, offset int64) ([]*model.WorkSchedule, int64, error)
	Availability(ctx context.Context, masterID, date, clock string) (*model.AvailabilityStatus, error)
	ApplicableSchedule(ctx context.Context, masterID, date string) (*model.WorkSchedule, error)
}

type workScheduleService struct {
	repo      repository.WorkScheduleRepository
	lockRepo  repository.ScheduleLockRepository
	validator *validator.WorkScheduleValidator
	engine    *availability.Engine
	producer  *kafka.Producer
	cfg       *config.Config
}

func NewWorkScheduleService(
	repo repository.WorkScheduleRepository,
	lockRepo repository.ScheduleLockRepository,
	validator *validator.WorkScheduleValidator,
	engine *availability.Engine,
	producer *kafka.Producer,
	cfg *config.Config,
) WorkScheduleService {
	return &workScheduleService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		engine:    engine,
		producer:  producer,
		cfg:       cfg,
	}
}

// Create validates the schedule, then runs the conflict check and the insert
// inside one transaction while holding the master's advisory lock. The
// returned warnings are advisory (a schedule that leaves no rest days is
// legal but suspicious) and never block creation.
func (s *workScheduleService) Create(ctx context.Context, ws *model.WorkSchedule) ([]string, error) {
	s.sanitize(ws)
	s.applyDefaults(ws)

	if err := s.validator.ValidateCreate(ws); err != nil {
		s.cfg.Log.Warn("Work schedule validation failed",
			"master_id", ws.MasterID,
			"schedule_type", ws.ScheduleType,
			"error", err,
		)
		return nil, apperrors.Validation("Work schedule validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	warnings := s.restDayWarnings(ws)

	lockID, err := s.acquireMasterLock(ctx, ws.MasterID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseMasterLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release schedule lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		conflicts, err := s.engine.CheckSchedule(sessCtx, ws)
		if err != nil {
			return apperrors.Internal("Failed to check for schedule conflicts", err)
		}
		if len(conflicts) > 0 {
			return scheduleConflictError(conflicts)
		}
		return s.repo.Create(sessCtx, ws)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create work schedule",
			"master_id", ws.MasterID,
			"error", err,
		)
		return nil, err
	}

	s.publishEvent(ctx, model.EventScheduleCreated, ws)
	s.cfg.Log.Info("Work schedule created successfully",
		"id", ws.ID,
		"master_id", ws.MasterID,
		"schedule_type", ws.ScheduleType,
	)
	return warnings, nil
}

func (s *workScheduleService) GetByID(ctx context.Context, id string) (*model.WorkSchedule, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	ws, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Work schedule", id)
		}
		if errors.Is(err, scheduleerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid schedule ID format")
		}
		s.cfg.Log.Error("Failed to get work schedule by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve work schedule", err)
	}

	return ws, nil
}

func (s *workScheduleService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.WorkSchedule, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	// Count and page fetch share one context so a timeout cancels both.
	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var count int64
	var schedules []*model.WorkSchedule
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(sharedCtx)
		if err != nil {
			s.cfg.Log.Error("Failed to count work schedules", "error", err)
			errCount = apperrors.Internal("Failed to count work schedules", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		schedules, err = s.repo.FindAll(sharedCtx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list work schedules",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve work schedules", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return schedules, count, nil
}

func (s *workScheduleService) Update(ctx context.Context, id string, updates *model.WorkScheduleUpdate) ([]string, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Work schedule", id)
		}
		if errors.Is(err, scheduleerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid schedule ID format")
		}
		return nil, apperrors.Internal("Failed to check schedule existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Work schedule update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{
			"error": err.Error(),
		})
	}

	merged := s.mergeScheduleUpdates(existing, updates)
	s.sanitize(merged)
	if merged.ScheduleType != model.ScheduleTypeCustom {
		merged.CustomDays = ""
	}

	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Work schedule validation failed",
			"id", id,
			"master_id", merged.MasterID,
			"error", err,
		)
		return nil, apperrors.Validation("Work schedule validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	warnings := s.restDayWarnings(merged)

	lockID, err := s.acquireMasterLock(ctx, merged.MasterID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseMasterLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release schedule lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// The merged schedule keeps its ID, so the conflict check skips
		// the document being edited.
		conflicts, err := s.engine.CheckSchedule(sessCtx, merged)
		if err != nil {
			return apperrors.Internal("Failed to check for schedule conflicts", err)
		}
		if len(conflicts) > 0 {
			return scheduleConflictError(conflicts)
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update work schedule", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update work schedule", "id", id, "error", err)
		return nil, err
	}

	s.publishEvent(ctx, model.EventScheduleUpdated, merged)
	s.cfg.Log.Info("Work schedule updated successfully", "id", id, "master_id", merged.MasterID)
	return warnings, nil
}

func (s *workScheduleService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	// The schedule is fetched first so the deletion event can carry the
	// master ID for cache invalidation.
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Work schedule", id)
		}
		if errors.Is(err, scheduleerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid schedule ID format")
		}
		return apperrors.Internal("Failed to check schedule existence", err)
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, scheduleerrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Work schedule", id)
			}
			s.cfg.Log.Error("Failed to delete work schedule",
				"id", id,
				"error", err,
			)
			return apperrors.Internal("Failed to delete work schedule", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishEvent(ctx, model.EventScheduleDeleted, existing)
	s.cfg.Log.Info("Work schedule deleted successfully", "id", id, "master_id", existing.MasterID)
	return nil
}

func (s *workScheduleService) Search(ctx context.Context, masterID string, active *bool, date string, limit int, offset int64) ([]*model.WorkSchedule, int64, error) {
	masterID = strings.TrimSpace(masterID)
	if masterID == "" {
		return nil, 0, apperrors.InvalidInput("master_id must be provided")
	}
	if date != "" {
		if _, err := model.ParseDate(date); err != nil {
			return nil, 0, apperrors.InvalidInput("date must be a valid YYYY-MM-DD value")
		}
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var schedules []*model.WorkSchedule
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountSearch(ctx, masterID, active, date)
		if err != nil {
			s.cfg.Log.Error("Failed to count schedule search results",
				"master_id", masterID,
				"error", err,
			)
			errCount = apperrors.Internal("Failed to count work schedules", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		schedules, err = s.repo.Search(ctx, masterID, active, date, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search work schedules",
				"master_id", masterID,
				"date", date,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to search work schedules", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	s.cfg.Log.Debug("Work schedule search completed",
		"master_id", masterID,
		"date", date,
		"results_count", len(schedules),
	)
	return schedules, count, nil
}

func (s *workScheduleService) Availability(ctx context.Context, masterID, date, clock string) (*model.AvailabilityStatus, error) {
	masterID = strings.TrimSpace(masterID)
	if masterID == "" {
		return nil, apperrors.InvalidInput("master_id must be provided")
	}
	if _, err := model.ParseDate(date); err != nil {
		return nil, apperrors.InvalidInput("date must be a valid YYYY-MM-DD value")
	}
	if clock != "" {
		if _, err := model.ParseClock(clock); err != nil {
			return nil, apperrors.InvalidInput("time must be a valid HH:MM value")
		}
	}

	status, err := s.engine.IsMasterWorkingAt(ctx, masterID, date, clock)
	if err != nil {
		s.cfg.Log.Error("Failed to evaluate availability",
			"master_id", masterID,
			"date", date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to evaluate availability", err)
	}
	return status, nil
}

// ApplicableSchedule returns the schedule that governs the master's day, or
// nil when no active schedule covers the date. Absence is a normal answer.
func (s *workScheduleService) ApplicableSchedule(ctx context.Context, masterID, date string) (*model.WorkSchedule, error) {
	masterID = strings.TrimSpace(masterID)
	if masterID == "" {
		return nil, apperrors.InvalidInput("master_id must be provided")
	}
	if _, err := model.ParseDate(date); err != nil {
		return nil, apperrors.InvalidInput("date must be a valid YYYY-MM-DD value")
	}

	ws, err := s.engine.FindApplicableSchedule(ctx, masterID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve applicable schedule",
			"master_id", masterID,
			"date", date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to resolve applicable schedule", err)
	}
	return ws, nil
}

// --- Helpers ---

func (s *workScheduleService) sanitize(ws *model.WorkSchedule) {
	ws.MasterID = strings.TrimSpace(ws.MasterID)
	ws.ScheduleType = strings.ToLower(strings.TrimSpace(ws.ScheduleType))
	ws.StartDate = strings.TrimSpace(ws.StartDate)
	ws.EndDate = strings.TrimSpace(ws.EndDate)
	ws.CustomDays = strings.TrimSpace(ws.CustomDays)
	ws.StartTime = strings.TrimSpace(ws.StartTime)
	ws.EndTime = strings.TrimSpace(ws.EndTime)
}

func (s *workScheduleService) applyDefaults(ws *model.WorkSchedule) {
	// A new schedule always goes live; deactivation is an explicit update.
	ws.IsActive = true
	if ws.ScheduleType != model.ScheduleTypeCustom {
		ws.CustomDays = ""
	}
}

func (s *workScheduleService) mergeScheduleUpdates(existing *model.WorkSchedule, updates *model.WorkScheduleUpdate) *model.WorkSchedule {
	merged := *existing

	if updates.ScheduleType != "" {
		merged.ScheduleType = updates.ScheduleType
	}
	if updates.StartDate != nil {
		merged.StartDate = *updates.StartDate
	}
	if updates.EndDate != nil {
		merged.EndDate = *updates.EndDate
	}
	if updates.CustomDays != nil {
		merged.CustomDays = *updates.CustomDays
	}
	if updates.StartTime != "" {
		merged.StartTime = updates.StartTime
	}
	if updates.EndTime != "" {
		merged.EndTime = updates.EndTime
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}

	merged.ID = existing.ID
	merged.MasterID = existing.MasterID
	merged.CreatedAt = existing.CreatedAt
	return &merged
}

func (s *workScheduleService) restDayWarnings(ws *model.WorkSchedule) []string {
	set := availability.ResolveWeekdays(ws)
	maxWorkingDays := 7 - s.cfg.RestDayWarnDays
	if set.Len() <= maxWorkingDays {
		return nil
	}

	s.cfg.Log.Warn("Work schedule leaves too few rest days",
		"master_id", ws.MasterID,
		"working_days", set.Len(),
		"rest_day_warn_days", s.cfg.RestDayWarnDays,
	)
	return []string{fmt.Sprintf(
		"schedule covers %d weekdays, leaving fewer than %d rest days per week",
		set.Len(), s.cfg.RestDayWarnDays,
	)}
}

func scheduleConflictError(conflicts []model.ScheduleConflict) error {
	first := conflicts[0]
	return apperrors.Conflict(fmt.Sprintf(
		"Schedule overlaps an existing schedule for this master (%s, %s-%s)",
		describePeriod(first.StartDate, first.EndDate), first.StartTime, first.EndTime,
	)).WithDetails(map[string]any{
		"conflicts": conflicts,
	})
}

func describePeriod(start, end string) string {
	switch {
	case start == "" && end == "":
		return "open-ended"
	case end == "":
		return "from " + start
	case start == "":
		return "until " + end
	default:
		return start + " to " + end
	}
}

// acquireMasterLock serializes schedule writes per master so two concurrent
// requests cannot both pass the conflict check.
func (s *workScheduleService) acquireMasterLock(ctx context.Context, masterID string) (string, error) {
	lockID := fmt.Sprintf("schedule_lock_%s", masterID)

	lock := &model.AdvisoryLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.AdvisoryLockTTL),
	}

	if err := s.lockRepo.Acquire(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("Another schedule change for this master is in progress. Please retry.")
		}
		return "", apperrors.Internal("Failed to acquire schedule lock", err)
	}

	return lockID, nil
}

func (s *workScheduleService) releaseMasterLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Release(ctx, lockID)
}

// publishEvent emits the schedule change to the event stream. Publishing is
// best-effort: the write has already committed, so a broker hiccup is logged
// and the request still succeeds.
func (s *workScheduleService) publishEvent(ctx context.Context, eventType string, ws *model.WorkSchedule) {
	if s.producer == nil {
		return
	}

	event := model.ScheduleEvent{
		Type:       eventType,
		ScheduleID: ws.ID,
		MasterID:   ws.MasterID,
		OccurredAt: time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(ws.MasterID).
		WithValue(event).
		WithEventID("").
		WithEventType(eventType).
		WithSource("schedules").
		Build()

	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish schedule event",
			"type", eventType,
			"schedule_id", ws.ID,
			"master_id", ws.MasterID,
			"error", err,
		)
	}
}
