package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	registryerrors "grafik/internal/autoservices/errors"
	"grafik/internal/autoservices/repository"
	"grafik/internal/autoservices/validator"
	"grafik/pkg/config"
	apperrors "grafik/pkg/errors"
	"grafik/pkg/locale"
	"grafik/pkg/model"
	"grafik/pkg/sanitizer"
)

type AutoServiceService interface {
	Create(ctx context.Context, autoService *model.AutoService) error
	GetByID(ctx context.Context, id string) (*model.AutoService, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.AutoService, int64, error)
	Update(ctx context.Context, id string, updates *model.AutoServiceUpdate) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, regionID string, active *bool, limit int, offset int64) ([]*model.AutoService, int64, error)
}

type autoServiceService struct {
	repo       repository.AutoServiceRepository
	regionRepo repository.RegionRepository
	masterRepo repository.MasterRepository
	validator  *validator.RegistryValidator
	cfg        *config.Config
}

func NewAutoServiceService(
	repo repository.AutoServiceRepository,
	regionRepo repository.RegionRepository,
	masterRepo repository.MasterRepository,
	validator *validator.RegistryValidator,
	cfg *config.Config,
) AutoServiceService {
	return &autoServiceService{
		repo:       repo,
		regionRepo: regionRepo,
		masterRepo: masterRepo,
		validator:  validator,
		cfg:        cfg,
	}
}

func (s *autoServiceService) Create(ctx context.Context, autoService *model.AutoService) error {
	s.sanitize(autoService)
	autoService.IsActive = true

	if err := s.validator.ValidateAutoService(autoService); err != nil {
		s.cfg.Log.Warn("Auto service validation failed", "name", autoService.Name, "error", err)
		return apperrors.Validation("Auto service validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.requireRegion(ctx, autoService.RegionID); err != nil {
		return err
	}
	s.warnUnsupportedMarket(autoService)

	if err := s.repo.Create(ctx, autoService); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("An auto service with this slug already exists in the region")
		}
		s.cfg.Log.Error("Failed to create auto service", "slug", autoService.Slug, "error", err)
		return apperrors.Internal("Failed to create auto service", err)
	}

	s.cfg.Log.Info("Auto service created successfully",
		"id", autoService.ID,
		"region_id", autoService.RegionID,
		"slug", autoService.Slug,
	)
	return nil
}

func (s *autoServiceService) GetByID(ctx context.Context, id string) (*model.AutoService, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Auto service ID cannot be empty")
	}

	autoService, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, registryerrors.ErrAutoServiceNotFound) {
			return nil, apperrors.NotFoundWithID("Auto service", id)
		}
		if errors.Is(err, registryerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid auto service ID format")
		}
		s.cfg.Log.Error("Failed to get auto service by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve auto service", err)
	}

	return autoService, nil
}

func (s *autoServiceService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.AutoService, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var count int64
	var autoServices []*model.AutoService
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(sharedCtx)
		if err != nil {
			s.cfg.Log.Error("Failed to count auto services", "error", err)
			errCount = apperrors.Internal("Failed to count auto services", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		autoServices, err = s.repo.FindAll(sharedCtx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list auto services", "error", err)
			errFind = apperrors.Internal("Failed to retrieve auto services", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return autoServices, count, nil
}

func (s *autoServiceService) Update(ctx context.Context, id string, updates *model.AutoServiceUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Auto service ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateAutoServiceUpdate(updates); err != nil {
		return apperrors.Validation("Invalid update input", map[string]any{
			"error": err.Error(),
		})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)

	if err := s.validator.ValidateAutoService(merged); err != nil {
		return apperrors.Validation("Auto service validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if updates.RegionID != "" && updates.RegionID != existing.RegionID {
		if err := s.requireRegion(ctx, merged.RegionID); err != nil {
			return err
		}
	}
	if updates.Phone != "" {
		s.warnUnsupportedMarket(merged)
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("An auto service with this slug already exists in the region")
		}
		if errors.Is(err, registryerrors.ErrAutoServiceNotFound) {
			return apperrors.NotFoundWithID("Auto service", id)
		}
		s.cfg.Log.Error("Failed to update auto service", "id", id, "error", err)
		return apperrors.Internal("Failed to update auto service", err)
	}

	s.cfg.Log.Info("Auto service updated successfully", "id", id, "slug", merged.Slug)
	return nil
}

// Delete refuses to remove an auto service that still has masters on its
// roster. Orders and schedules reference masters, not services, so the
// roster must be emptied first.
func (s *autoServiceService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Auto service ID cannot be empty")
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	inUse, err := s.masterRepo.CountSearch(ctx, id, nil, nil)
	if err != nil {
		s.cfg.Log.Error("Failed to count masters in auto service", "auto_service_id", id, "error", err)
		return apperrors.Internal("Failed to check auto service roster", err)
	}
	if inUse > 0 {
		return apperrors.Conflict("Auto service still has masters and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, registryerrors.ErrAutoServiceNotFound) {
			return apperrors.NotFoundWithID("Auto service", id)
		}
		s.cfg.Log.Error("Failed to delete auto service", "id", id, "error", err)
		return apperrors.Internal("Failed to delete auto service", err)
	}

	s.cfg.Log.Info("Auto service deleted successfully", "id", id)
	return nil
}

func (s *autoServiceService) Search(ctx context.Context, regionID string, active *bool, limit int, offset int64) ([]*model.AutoService, int64, error) {
	if regionID == "" {
		return nil, 0, apperrors.InvalidInput("region_id is required for auto service search")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var count int64
	var autoServices []*model.AutoService
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountSearch(sharedCtx, regionID, active)
		if err != nil {
			s.cfg.Log.Error("Failed to count auto service search results", "region_id", regionID, "error", err)
			errCount = apperrors.Internal("Failed to count auto services", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		autoServices, err = s.repo.Search(sharedCtx, regionID, active, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search auto services", "region_id", regionID, "error", err)
			errFind = apperrors.Internal("Failed to search auto services", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return autoServices, count, nil
}

// requireRegion turns a dangling region reference into a validation error
// rather than letting the auto service point at nothing.
func (s *autoServiceService) requireRegion(ctx context.Context, regionID string) error {
	_, err := s.regionRepo.FindByID(ctx, regionID)
	if err == nil {
		return nil
	}
	if errors.Is(err, registryerrors.ErrRegionNotFound) || errors.Is(err, registryerrors.ErrInvalidID) {
		return apperrors.Validation("Auto service validation failed", map[string]any{
			"error": "region_id does not reference a known region",
		})
	}
	s.cfg.Log.Error("Failed to verify region", "region_id", regionID, "error", err)
	return apperrors.Internal("Failed to verify region", err)
}

// warnUnsupportedMarket flags contact numbers outside the markets the
// platform operates in. The record is stored anyway; the raw number stays
// out of the logs.
func (s *autoServiceService) warnUnsupportedMarket(autoService *model.AutoService) {
	if autoService.Phone == "" {
		return
	}
	if locale.InferCountryFromPhone(autoService.Phone) == nil {
		s.cfg.Log.Warn("Auto service phone outside supported markets",
			"region_id", autoService.RegionID,
			"slug", autoService.Slug,
		)
	}
}

func (s *autoServiceService) mergeUpdates(existing *model.AutoService, updates *model.AutoServiceUpdate) *model.AutoService {
	merged := *existing
	if updates.RegionID != "" {
		merged.RegionID = updates.RegionID
	}
	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Slug != "" {
		merged.Slug = updates.Slug
	}
	if updates.Address != "" {
		merged.Address = updates.Address
	}
	if updates.Phone != "" {
		merged.Phone = updates.Phone
	}
	if updates.Email != "" {
		merged.Email = updates.Email
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}
	return &merged
}

func (s *autoServiceService) sanitize(autoService *model.AutoService) {
	autoService.RegionID = strings.TrimSpace(autoService.RegionID)
	autoService.Name = sanitizer.SanitizeName(autoService.Name)
	if strings.TrimSpace(autoService.Slug) == "" {
		autoService.Slug = sanitizer.SanitizeSlug(autoService.Name)
	} else {
		autoService.Slug = sanitizer.SanitizeSlug(autoService.Slug)
	}
	autoService.Address = sanitizer.SanitizeName(autoService.Address)
	autoService.Phone = sanitizer.SanitizePhone(autoService.Phone)
	autoService.Email = sanitizer.SanitizeEmail(autoService.Email)
	autoService.Description = sanitizer.SanitizeFreeText(autoService.Description)
}
