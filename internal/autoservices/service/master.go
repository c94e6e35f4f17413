package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	registryerrors "grafik/internal/autoservices/errors"
	"grafik/internal/autoservices/repository"
	"grafik/internal/autoservices/validator"
	"grafik/pkg/config"
	apperrors "grafik/pkg/errors"
	"grafik/pkg/locale"
	"grafik/pkg/model"
	"grafik/pkg/sanitizer"
)

type MasterService interface {
	Create(ctx context.Context, master *model.Master) ([]string, error)
	GetByID(ctx context.Context, id string) (*model.Master, error)
	Update(ctx context.Context, id string, updates *model.MasterUpdate) ([]string, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, autoServiceID string, active *bool, specializations string, limit int, offset int64) ([]*model.Master, int64, error)
}

type masterService struct {
	repo            repository.MasterRepository
	autoServiceRepo repository.AutoServiceRepository
	validator       *validator.RegistryValidator
	cfg             *config.Config
}

func NewMasterService(
	repo repository.MasterRepository,
	autoServiceRepo repository.AutoServiceRepository,
	validator *validator.RegistryValidator,
	cfg *config.Config,
) MasterService {
	return &masterService{
		repo:            repo,
		autoServiceRepo: autoServiceRepo,
		validator:       validator,
		cfg:             cfg,
	}
}

// Create adds a master to an auto service's roster. The returned warnings
// are advisory (a namesake already on the roster is legal but usually a
// double submission) and never block creation.
func (s *masterService) Create(ctx context.Context, master *model.Master) ([]string, error) {
	s.sanitize(master)
	master.IsActive = true

	if err := s.validator.ValidateMaster(master); err != nil {
		s.cfg.Log.Warn("Master validation failed", "full_name", master.FullName, "error", err)
		return nil, apperrors.Validation("Master validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.requireAutoService(ctx, master.AutoServiceID); err != nil {
		return nil, err
	}
	s.warnUnsupportedMarket(master)

	warnings, err := s.namesakeWarnings(ctx, master.AutoServiceID, master.FullName, "")
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, master); err != nil {
		s.cfg.Log.Error("Failed to create master", "auto_service_id", master.AutoServiceID, "error", err)
		return nil, apperrors.Internal("Failed to create master", err)
	}

	s.cfg.Log.Info("Master created successfully",
		"id", master.ID,
		"auto_service_id", master.AutoServiceID,
	)
	return warnings, nil
}

func (s *masterService) GetByID(ctx context.Context, id string) (*model.Master, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Master ID cannot be empty")
	}

	master, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, registryerrors.ErrMasterNotFound) {
			return nil, apperrors.NotFoundWithID("Master", id)
		}
		if errors.Is(err, registryerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid master ID format")
		}
		s.cfg.Log.Error("Failed to get master by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve master", err)
	}

	return master, nil
}

func (s *masterService) Update(ctx context.Context, id string, updates *model.MasterUpdate) ([]string, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Master ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateMasterUpdate(updates); err != nil {
		return nil, apperrors.Validation("Invalid update input", map[string]any{
			"error": err.Error(),
		})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)

	if err := s.validator.ValidateMaster(merged); err != nil {
		return nil, apperrors.Validation("Master validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if updates.AutoServiceID != "" && updates.AutoServiceID != existing.AutoServiceID {
		if err := s.requireAutoService(ctx, merged.AutoServiceID); err != nil {
			return nil, err
		}
	}
	if updates.Phone != "" {
		s.warnUnsupportedMarket(merged)
	}

	var warnings []string
	rosterChanged := merged.AutoServiceID != existing.AutoServiceID ||
		sanitizer.NormalizeNameForComparison(merged.FullName) != sanitizer.NormalizeNameForComparison(existing.FullName)
	if rosterChanged {
		warnings, err = s.namesakeWarnings(ctx, merged.AutoServiceID, merged.FullName, id)
		if err != nil {
			return nil, err
		}
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, registryerrors.ErrMasterNotFound) {
			return nil, apperrors.NotFoundWithID("Master", id)
		}
		s.cfg.Log.Error("Failed to update master", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update master", err)
	}

	s.cfg.Log.Info("Master updated successfully", "id", id, "auto_service_id", merged.AutoServiceID)
	return warnings, nil
}

// Delete removes a master from the registry. Schedules and orders that
// reference the master live in other collections and keep their history;
// deactivating via PATCH is the usual path, deletion is for mistakes.
func (s *masterService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Master ID cannot be empty")
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, registryerrors.ErrMasterNotFound) {
			return apperrors.NotFoundWithID("Master", id)
		}
		s.cfg.Log.Error("Failed to delete master", "id", id, "error", err)
		return apperrors.Internal("Failed to delete master", err)
	}

	s.cfg.Log.Info("Master deleted successfully", "id", id)
	return nil
}

// Search lists masters of one auto service, optionally narrowed by active
// flag and by specialization tokens (comma-separated, normalized the same
// way they are stored).
func (s *masterService) Search(ctx context.Context, autoServiceID string, active *bool, specializations string, limit int, offset int64) ([]*model.Master, int64, error) {
	if autoServiceID == "" {
		return nil, 0, apperrors.InvalidInput("auto_service_id is required for master search")
	}

	var specs []string
	if strings.TrimSpace(specializations) != "" {
		specs = sanitizer.SanitizeSlice(strings.Split(specializations, ","), sanitizer.SanitizeSlug)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var count int64
	var masters []*model.Master
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountSearch(sharedCtx, autoServiceID, active, specs)
		if err != nil {
			s.cfg.Log.Error("Failed to count master search results", "auto_service_id", autoServiceID, "error", err)
			errCount = apperrors.Internal("Failed to count masters", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		masters, err = s.repo.Search(sharedCtx, autoServiceID, active, specs, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search masters", "auto_service_id", autoServiceID, "error", err)
			errFind = apperrors.Internal("Failed to search masters", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return masters, count, nil
}

// namesakeWarnings reports existing roster entries whose names collapse to
// the same normalized form. excludeID skips the master being updated.
func (s *masterService) namesakeWarnings(ctx context.Context, autoServiceID, fullName, excludeID string) ([]string, error) {
	roster, err := s.repo.FindByAutoService(ctx, autoServiceID)
	if err != nil {
		s.cfg.Log.Error("Failed to load roster for namesake check", "auto_service_id", autoServiceID, "error", err)
		return nil, apperrors.Internal("Failed to check roster", err)
	}

	normalized := sanitizer.NormalizeNameForComparison(fullName)
	var warnings []string
	for _, existing := range roster {
		if existing.ID == excludeID {
			continue
		}
		if sanitizer.NormalizeNameForComparison(existing.FullName) == normalized {
			s.cfg.Log.Warn("Master namesake on the same roster",
				"auto_service_id", autoServiceID,
				"existing_id", existing.ID,
			)
			warnings = append(warnings, fmt.Sprintf(
				"a master named %q is already on this auto service's roster", existing.FullName,
			))
		}
	}
	return warnings, nil
}

// requireAutoService turns a dangling service reference into a validation
// error rather than letting the master point at nothing.
func (s *masterService) requireAutoService(ctx context.Context, autoServiceID string) error {
	_, err := s.autoServiceRepo.FindByID(ctx, autoServiceID)
	if err == nil {
		return nil
	}
	if errors.Is(err, registryerrors.ErrAutoServiceNotFound) || errors.Is(err, registryerrors.ErrInvalidID) {
		return apperrors.Validation("Master validation failed", map[string]any{
			"error": "auto_service_id does not reference a known auto service",
		})
	}
	s.cfg.Log.Error("Failed to verify auto service", "auto_service_id", autoServiceID, "error", err)
	return apperrors.Internal("Failed to verify auto service", err)
}

func (s *masterService) warnUnsupportedMarket(master *model.Master) {
	if master.Phone == "" {
		return
	}
	if locale.InferCountryFromPhone(master.Phone) == nil {
		s.cfg.Log.Warn("Master phone outside supported markets",
			"auto_service_id", master.AutoServiceID,
		)
	}
}

func (s *masterService) mergeUpdates(existing *model.Master, updates *model.MasterUpdate) *model.Master {
	merged := *existing
	if updates.AutoServiceID != "" {
		merged.AutoServiceID = updates.AutoServiceID
	}
	if updates.FullName != "" {
		merged.FullName = updates.FullName
	}
	if updates.Phone != "" {
		merged.Phone = updates.Phone
	}
	if updates.Specialization != nil {
		merged.Specialization = *updates.Specialization
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}
	return &merged
}

func (s *masterService) sanitize(master *model.Master) {
	master.AutoServiceID = strings.TrimSpace(master.AutoServiceID)
	master.FullName = sanitizer.SanitizeName(master.FullName)
	master.Phone = sanitizer.SanitizePhone(master.Phone)
	master.Specialization = normalizeSpecializations(master.Specialization)
}

// normalizeSpecializations stores the list as comma-joined slugs so the
// search regex can match whole tokens.
func normalizeSpecializations(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	tokens := sanitizer.SanitizeSlice(strings.Split(raw, ","), sanitizer.SanitizeSlug)
	return strings.Join(tokens, ",")
}
