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
	"grafik/pkg/model"
	"grafik/pkg/sanitizer"
)

type RegionService interface {
	Create(ctx context.Context, region *model.Region) error
	GetByID(ctx context.Context, id string) (*model.Region, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Region, int64, error)
	Update(ctx context.Context, id string, updates *model.RegionUpdate) error
	Delete(ctx context.Context, id string) error
}

type regionService struct {
	repo            repository.RegionRepository
	autoServiceRepo repository.AutoServiceRepository
	validator       *validator.RegistryValidator
	cfg             *config.Config
}

func NewRegionService(
	repo repository.RegionRepository,
	autoServiceRepo repository.AutoServiceRepository,
	validator *validator.RegistryValidator,
	cfg *config.Config,
) RegionService {
	return &regionService{
		repo:            repo,
		autoServiceRepo: autoServiceRepo,
		validator:       validator,
		cfg:             cfg,
	}
}

func (s *regionService) Create(ctx context.Context, region *model.Region) error {
	s.sanitize(region)
	region.IsActive = true

	if err := s.validator.ValidateRegion(region); err != nil {
		s.cfg.Log.Warn("Region validation failed", "name", region.Name, "error", err)
		return apperrors.Validation("Region validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, region); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("A region with this slug already exists")
		}
		s.cfg.Log.Error("Failed to create region", "slug", region.Slug, "error", err)
		return apperrors.Internal("Failed to create region", err)
	}

	s.cfg.Log.Info("Region created successfully", "id", region.ID, "slug", region.Slug)
	return nil
}

func (s *regionService) GetByID(ctx context.Context, id string) (*model.Region, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Region ID cannot be empty")
	}

	region, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, registryerrors.ErrRegionNotFound) {
			return nil, apperrors.NotFoundWithID("Region", id)
		}
		if errors.Is(err, registryerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid region ID format")
		}
		s.cfg.Log.Error("Failed to get region by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve region", err)
	}

	return region, nil
}

func (s *regionService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Region, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var count int64
	var regions []*model.Region
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(sharedCtx)
		if err != nil {
			s.cfg.Log.Error("Failed to count regions", "error", err)
			errCount = apperrors.Internal("Failed to count regions", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		regions, err = s.repo.FindAll(sharedCtx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list regions", "error", err)
			errFind = apperrors.Internal("Failed to retrieve regions", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return regions, count, nil
}

func (s *regionService) Update(ctx context.Context, id string, updates *model.RegionUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Region ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateRegionUpdate(updates); err != nil {
		return apperrors.Validation("Invalid update input", map[string]any{
			"error": err.Error(),
		})
	}

	merged := *existing
	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Slug != "" {
		merged.Slug = updates.Slug
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}
	s.sanitize(&merged)

	if err := s.validator.ValidateRegion(&merged); err != nil {
		return apperrors.Validation("Region validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.repo.Update(ctx, id, &merged); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("A region with this slug already exists")
		}
		if errors.Is(err, registryerrors.ErrRegionNotFound) {
			return apperrors.NotFoundWithID("Region", id)
		}
		s.cfg.Log.Error("Failed to update region", "id", id, "error", err)
		return apperrors.Internal("Failed to update region", err)
	}

	s.cfg.Log.Info("Region updated successfully", "id", id, "slug", merged.Slug)
	return nil
}

// Delete refuses to remove a region that still has auto services; orphaned
// services would break every search scoped to their region.
func (s *regionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Region ID cannot be empty")
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	inUse, err := s.autoServiceRepo.CountSearch(ctx, id, nil)
	if err != nil {
		s.cfg.Log.Error("Failed to count auto services in region", "region_id", id, "error", err)
		return apperrors.Internal("Failed to check region usage", err)
	}
	if inUse > 0 {
		return apperrors.Conflict("Region still has auto services and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, registryerrors.ErrRegionNotFound) {
			return apperrors.NotFoundWithID("Region", id)
		}
		s.cfg.Log.Error("Failed to delete region", "id", id, "error", err)
		return apperrors.Internal("Failed to delete region", err)
	}

	s.cfg.Log.Info("Region deleted successfully", "id", id)
	return nil
}

func (s *regionService) sanitize(region *model.Region) {
	region.Name = sanitizer.SanitizeName(region.Name)
	if strings.TrimSpace(region.Slug) == "" {
		region.Slug = sanitizer.SanitizeSlug(region.Name)
	} else {
		region.Slug = sanitizer.SanitizeSlug(region.Slug)
	}
}
