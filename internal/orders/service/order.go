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
	orderserrors "grafik/internal/orders/errors"
	"grafik/internal/orders/repository"
	"grafik/internal/orders/validator"
	"grafik/pkg/config"
	apperrors "grafik/pkg/errors"
	"grafik/pkg/kafka"
	"grafik/pkg/locale"
	"grafik/pkg/model"
	"grafik/pkg/sanitizer"
)

type OrderService interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Order, int64, error)
	Update(ctx context.Context, id string, updates *model.OrderUpdate) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, autoServiceID, masterID, date, status string, limit int, offset int64) ([]*model.Order, int64, error)
	Assign(ctx context.Context, orderID, masterID string) (*model.AssignmentDecision, error)
}

type orderService struct {
	repo      repository.OrderRepository
	lockRepo  repository.AssignmentLockRepository
	validator *validator.OrderValidator
	engine    *availability.Engine
	producer  *kafka.Producer
	cfg       *config.Config
}

func NewOrderService(
	repo repository.OrderRepository,
	lockRepo repository.AssignmentLockRepository,
	validator *validator.OrderValidator,
	engine *availability.Engine,
	producer *kafka.Producer,
	cfg *config.Config,
) OrderService {
	return &orderService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		engine:    engine,
		producer:  producer,
		cfg:       cfg,
	}
}

// Create stores a new unassigned order. Placing the order with a master is a
// separate operation so every assignment passes the availability gate; a
// create carrying master_id is therefore rejected outright.
func (s *orderService) Create(ctx context.Context, o *model.Order) error {
	s.sanitize(o)

	if o.MasterID != "" {
		return apperrors.InvalidInput("master_id cannot be set on creation; assign the order explicitly")
	}

	s.applyDefaults(o)

	if err := s.validator.ValidateCreate(o); err != nil {
		s.cfg.Log.Warn("Order validation failed",
			"auto_service_id", o.AutoServiceID,
			"error", err,
		)
		return apperrors.Validation("Order validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	s.warnUnsupportedMarket(o)

	if err := s.repo.Create(ctx, o); err != nil {
		s.cfg.Log.Error("Failed to create order",
			"auto_service_id", o.AutoServiceID,
			"error", err,
		)
		return apperrors.Internal("Failed to create order", err)
	}

	s.publishEvent(ctx, model.EventOrderCreated, o)
	s.cfg.Log.Info("Order created successfully",
		"id", o.ID,
		"auto_service_id", o.AutoServiceID,
		"preferred_date", o.PreferredDate,
	)
	return nil
}

func (s *orderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Order ID cannot be empty")
	}

	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Order", id)
		}
		if errors.Is(err, orderserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid order ID format")
		}
		s.cfg.Log.Error("Failed to get order by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve order", err)
	}

	return o, nil
}

func (s *orderService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Order, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	// Count and page fetch share one context so a timeout cancels both.
	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var count int64
	var orders []*model.Order
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(sharedCtx)
		if err != nil {
			s.cfg.Log.Error("Failed to count orders", "error", err)
			errCount = apperrors.Internal("Failed to count orders", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		orders, err = s.repo.FindAll(sharedCtx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list orders",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve orders", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return orders, count, nil
}

// Update merges the patch into the stored order. When the edit moves the
// order's time interval, or flips it into a status that occupies the master,
// the availability gate runs again inside the write transaction; a reschedule
// must clear the same checks an assignment does.
func (s *orderService) Update(ctx context.Context, id string, updates *model.OrderUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Order ID cannot be empty")
	}

	if updates.MasterID != "" {
		return apperrors.InvalidInput("master_id cannot be changed here; use the assign operation")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Order", id)
		}
		if errors.Is(err, orderserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid order ID format")
		}
		return apperrors.Internal("Failed to check order existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Order update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{
			"error": err.Error(),
		})
	}

	merged := s.mergeOrderUpdates(existing, updates)
	s.sanitize(merged)

	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Order validation failed",
			"id", id,
			"auto_service_id", merged.AutoServiceID,
			"error", err,
		)
		return apperrors.Validation("Order validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if updates.ClientPhone != "" {
		s.warnUnsupportedMarket(merged)
	}

	intervalMoved := updates.PreferredDate != "" || updates.PreferredTime != "" || updates.EstimatedDurationMin != nil
	needsGate := merged.MasterID != "" && merged.OccupiesMaster() &&
		(intervalMoved || !existing.OccupiesMaster())

	if needsGate {
		err = s.guardedWrite(ctx, merged.MasterID, merged.PreferredDate, func(sessCtx mongo.SessionContext) error {
			decision, err := s.engine.CheckAssignment(sessCtx, merged, merged.MasterID)
			if err != nil {
				return apperrors.Internal("Failed to check order placement", err)
			}
			if !decision.Allowed {
				return placementConflictError(decision)
			}
			if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
				return apperrors.Internal("Failed to update order", err)
			}
			return nil
		})
	} else {
		_, err = s.repo.Update(ctx, id, merged)
		if err != nil {
			err = apperrors.Internal("Failed to update order", err)
		}
	}
	if err != nil {
		s.cfg.Log.Error("Failed to update order", "id", id, "error", err)
		return err
	}

	s.publishEvent(ctx, model.EventOrderUpdated, merged)
	s.cfg.Log.Info("Order updated successfully", "id", id, "auto_service_id", merged.AutoServiceID)
	return nil
}

func (s *orderService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Order ID cannot be empty")
	}

	// The order is fetched first so the deletion event can carry the master
	// and date for cache invalidation.
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Order", id)
		}
		if errors.Is(err, orderserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid order ID format")
		}
		return apperrors.Internal("Failed to check order existence", err)
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, orderserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Order", id)
			}
			s.cfg.Log.Error("Failed to delete order",
				"id", id,
				"error", err,
			)
			return apperrors.Internal("Failed to delete order", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishEvent(ctx, model.EventOrderDeleted, existing)
	s.cfg.Log.Info("Order deleted successfully", "id", id, "auto_service_id", existing.AutoServiceID)
	return nil
}

func (s *orderService) Search(ctx context.Context, autoServiceID, masterID, date, status string, limit int, offset int64) ([]*model.Order, int64, error) {
	autoServiceID = strings.TrimSpace(autoServiceID)
	masterID = strings.TrimSpace(masterID)
	if autoServiceID == "" && masterID == "" {
		return nil, 0, apperrors.InvalidInput("auto_service_id or master_id must be provided")
	}
	if date != "" {
		if _, err := model.ParseDate(date); err != nil {
			return nil, 0, apperrors.InvalidInput("date must be a valid YYYY-MM-DD value")
		}
	}
	if status != "" && !model.IsOrderStatus(status) {
		return nil, 0, apperrors.InvalidInput("status must be a known order status")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var orders []*model.Order
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountSearch(ctx, autoServiceID, masterID, date, status)
		if err != nil {
			s.cfg.Log.Error("Failed to count order search results",
				"auto_service_id", autoServiceID,
				"master_id", masterID,
				"error", err,
			)
			errCount = apperrors.Internal("Failed to count orders", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		orders, err = s.repo.Search(ctx, autoServiceID, masterID, date, status, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search orders",
				"auto_service_id", autoServiceID,
				"master_id", masterID,
				"date", date,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to search orders", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	s.cfg.Log.Debug("Order search completed",
		"auto_service_id", autoServiceID,
		"master_id", masterID,
		"date", date,
		"results_count", len(orders),
	)
	return orders, count, nil
}

// Assign runs the availability gate and, when it passes, places the order
// with the master inside one transaction under the assignment lock. A failed
// gate is a business verdict, not an error: the decision travels back to the
// caller with the reason and the colliding orders.
func (s *orderService) Assign(ctx context.Context, orderID, masterID string) (*model.AssignmentDecision, error) {
	if orderID == "" {
		return nil, apperrors.InvalidInput("Order ID cannot be empty")
	}
	masterID = strings.TrimSpace(masterID)
	if masterID == "" {
		return nil, apperrors.InvalidInput("master_id must be provided")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Order", orderID)
		}
		if errors.Is(err, orderserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid order ID format")
		}
		return nil, apperrors.Internal("Failed to load order", err)
	}

	if order.Status != model.OrderStatusNew && order.Status != model.OrderStatusConfirmed {
		return nil, apperrors.Conflict(fmt.Sprintf("Order in status %q can no longer be assigned", order.Status))
	}

	var decision *model.AssignmentDecision
	err = s.guardedWrite(ctx, masterID, order.PreferredDate, func(sessCtx mongo.SessionContext) error {
		d, err := s.engine.CheckAssignment(sessCtx, order, masterID)
		if err != nil {
			return apperrors.Internal("Failed to check order placement", err)
		}
		decision = d
		if !d.Allowed {
			return nil
		}

		order.MasterID = masterID
		if order.Status == model.OrderStatusNew {
			order.Status = model.OrderStatusConfirmed
		}
		if _, err := s.repo.Update(sessCtx, orderID, order); err != nil {
			return apperrors.Internal("Failed to persist assignment", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to assign order",
			"order_id", orderID,
			"master_id", masterID,
			"error", err,
		)
		return nil, err
	}

	if decision.Allowed {
		s.publishEvent(ctx, model.EventOrderAssigned, order)
		s.cfg.Log.Info("Order assigned successfully",
			"order_id", orderID,
			"master_id", masterID,
			"date", order.PreferredDate,
			"time", order.PreferredTime,
		)
	}
	return decision, nil
}

// --- Helpers ---

func (s *orderService) sanitize(o *model.Order) {
	o.AutoServiceID = strings.TrimSpace(o.AutoServiceID)
	o.MasterID = strings.TrimSpace(o.MasterID)
	o.ClientName = sanitizer.SanitizeName(o.ClientName)
	o.ClientPhone = sanitizer.SanitizePhone(o.ClientPhone)
	o.CarInfo = sanitizer.SanitizeName(o.CarInfo)
	o.Description = sanitizer.SanitizeFreeText(o.Description)
	o.PreferredDate = strings.TrimSpace(o.PreferredDate)
	o.PreferredTime = strings.TrimSpace(o.PreferredTime)
	o.Status = strings.ToLower(strings.TrimSpace(o.Status))
}

func (s *orderService) applyDefaults(o *model.Order) {
	// Every order starts its lifecycle unconfirmed; later statuses are
	// reached through updates and assignment.
	o.Status = model.OrderStatusNew
	if o.EstimatedDurationMin <= 0 {
		o.EstimatedDurationMin = s.cfg.DefaultOrderDurationMin
	}
}

func (s *orderService) mergeOrderUpdates(existing *model.Order, updates *model.OrderUpdate) *model.Order {
	merged := *existing

	if updates.ClientName != "" {
		merged.ClientName = updates.ClientName
	}
	if updates.ClientPhone != "" {
		merged.ClientPhone = updates.ClientPhone
	}
	if updates.CarInfo != "" {
		merged.CarInfo = updates.CarInfo
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.PreferredDate != "" {
		merged.PreferredDate = updates.PreferredDate
	}
	if updates.PreferredTime != "" {
		merged.PreferredTime = updates.PreferredTime
	}
	if updates.EstimatedDurationMin != nil {
		merged.EstimatedDurationMin = *updates.EstimatedDurationMin
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}

	merged.ID = existing.ID
	merged.AutoServiceID = existing.AutoServiceID
	merged.MasterID = existing.MasterID
	merged.CreatedAt = existing.CreatedAt
	return &merged
}

// warnUnsupportedMarket flags phone numbers outside the markets the platform
// operates in. The order is taken anyway; the signal feeds expansion
// planning. The raw number stays out of the logs.
func (s *orderService) warnUnsupportedMarket(o *model.Order) {
	if locale.InferCountryFromPhone(o.ClientPhone) == nil {
		s.cfg.Log.Warn("Order phone outside supported markets",
			"order_id", o.ID,
			"auto_service_id", o.AutoServiceID,
		)
	}
}

// guardedWrite acquires the per-master per-day assignment lock and runs fn
// inside a transaction, so two concurrent placements cannot both pass the
// availability gate for the same slot.
func (s *orderService) guardedWrite(ctx context.Context, masterID, date string, fn func(sessCtx mongo.SessionContext) error) error {
	lockID := fmt.Sprintf("assignment_lock_%s_%s", masterID, date)

	lock := &model.AdvisoryLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.AdvisoryLockTTL),
	}
	if err := s.lockRepo.Acquire(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("Another assignment for this master is in progress. Please retry.")
		}
		return apperrors.Internal("Failed to acquire assignment lock", err)
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release assignment lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	return s.repo.ExecuteTransaction(ctx, fn)
}

// placementConflictError converts a rejected gate decision into the error an
// imperative edit gets back. Assign never uses it; there the decision itself
// is the response.
func placementConflictError(d *model.AssignmentDecision) error {
	msg := "Order cannot be placed at the requested time"
	if d.Reason == model.ReasonMasterNotWorking {
		msg = "Master is not working at the requested time"
	}
	return apperrors.Conflict(msg).WithDetails(map[string]any{
		"reason":    d.Reason,
		"conflicts": d.OrderConflicts,
	})
}

// publishEvent emits the order change to the event stream. Publishing is
// best-effort: the write has already committed, so a broker hiccup is logged
// and the request still succeeds. The client-timezone header lets notifiers
// pick a send window without re-deriving it.
func (s *orderService) publishEvent(ctx context.Context, eventType string, o *model.Order) {
	if s.producer == nil {
		return
	}

	event := model.OrderEvent{
		Type:          eventType,
		OrderID:       o.ID,
		AutoServiceID: o.AutoServiceID,
		MasterID:      o.MasterID,
		Date:          o.PreferredDate,
		OccurredAt:    time.Now().UTC(),
	}

	key := o.MasterID
	if key == "" {
		key = o.AutoServiceID
	}

	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(event).
		WithEventID("").
		WithEventType(eventType).
		WithHeader("client-timezone", locale.InferTimezoneFromPhone(o.ClientPhone)).
		WithSource("orders").
		Build()

	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish order event",
			"type", eventType,
			"order_id", o.ID,
			"master_id", o.MasterID,
			"error", err,
		)
	}
}
