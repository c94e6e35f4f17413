package service

import (
	"context"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	apperrors "grafik/pkg/errors"
	"grafik/pkg/model"
)

func TestCreateRegion(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a sanitized region with a derived slug", func(t *testing.T) {
		var persisted *model.Region
		repo := &mockRegionRepository{
			createFunc: func(_ context.Context, region *model.Region) error {
				persisted = region
				return nil
			},
		}
		svc := newRegionTestService(repo, &mockAutoServiceRepository{}, testConfig())

		err := svc.Create(ctx, &model.Region{Name: "  Moscow   Oblast "})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if persisted.Name != "Moscow Oblast" {
			t.Errorf("name = %q, want %q", persisted.Name, "Moscow Oblast")
		}
		if persisted.Slug != "moscow-oblast" {
			t.Errorf("slug = %q, want %q", persisted.Slug, "moscow-oblast")
		}
		if !persisted.IsActive {
			t.Error("new regions must start active")
		}
	})

	t.Run("normalizes an explicit slug instead of deriving one", func(t *testing.T) {
		var persisted *model.Region
		repo := &mockRegionRepository{
			createFunc: func(_ context.Context, region *model.Region) error {
				persisted = region
				return nil
			},
		}
		svc := newRegionTestService(repo, &mockAutoServiceRepository{}, testConfig())

		err := svc.Create(ctx, &model.Region{Name: "Moscow Oblast", Slug: "West MSK"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if persisted.Slug != "west-msk" {
			t.Errorf("slug = %q, want %q", persisted.Slug, "west-msk")
		}
	})

	t.Run("rejects a name that is too short", func(t *testing.T) {
		svc := newRegionTestService(&mockRegionRepository{}, &mockAutoServiceRepository{}, testConfig())

		err := svc.Create(ctx, &model.Region{Name: "M"})
		if err == nil {
			t.Fatal("expected a validation error")
		}
		if code := apperrors.AsAppError(err).Code; code != apperrors.CodeValidation {
			t.Errorf("error code = %s, want %s", code, apperrors.CodeValidation)
		}
	})

	t.Run("maps a duplicate slug to a conflict", func(t *testing.T) {
		repo := &mockRegionRepository{
			createFunc: func(_ context.Context, _ *model.Region) error {
				return duplicateKeyError()
			},
		}
		svc := newRegionTestService(repo, &mockAutoServiceRepository{}, testConfig())

		err := svc.Create(ctx, &model.Region{Name: "Moscow Oblast"})
		if err == nil {
			t.Fatal("expected a conflict error")
		}
		if code := apperrors.AsAppError(err).Code; code != apperrors.CodeConflict {
			t.Errorf("error code = %s, want %s", code, apperrors.CodeConflict)
		}
	})
}

func TestUpdateRegion(t *testing.T) {
	ctx := context.Background()

	t.Run("merges updates over the stored region", func(t *testing.T) {
		var persisted *model.Region
		repo := &mockRegionRepository{
			findByIDFunc: func(_ context.Context, _ string) (*model.Region, error) {
				return storedRegion(), nil
			},
			updateFunc: func(_ context.Context, _ string, region *model.Region) (*mongo.UpdateResult, error) {
				persisted = region
				return &mongo.UpdateResult{MatchedCount: 1}, nil
			},
		}
		svc := newRegionTestService(repo, &mockAutoServiceRepository{}, testConfig())

		err := svc.Update(ctx, testRegionID, &model.RegionUpdate{Name: "Greater Moscow"})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if persisted.Name != "Greater Moscow" {
			t.Errorf("name = %q, want %q", persisted.Name, "Greater Moscow")
		}
		if persisted.Slug != "moscow-oblast" {
			t.Errorf("slug = %q, want untouched %q", persisted.Slug, "moscow-oblast")
		}
	})

	t.Run("deactivates without touching other fields", func(t *testing.T) {
		var persisted *model.Region
		repo := &mockRegionRepository{
			findByIDFunc: func(_ context.Context, _ string) (*model.Region, error) {
				return storedRegion(), nil
			},
			updateFunc: func(_ context.Context, _ string, region *model.Region) (*mongo.UpdateResult, error) {
				persisted = region
				return &mongo.UpdateResult{MatchedCount: 1}, nil
			},
		}
		svc := newRegionTestService(repo, &mockAutoServiceRepository{}, testConfig())

		inactive := false
		err := svc.Update(ctx, testRegionID, &model.RegionUpdate{IsActive: &inactive})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if persisted.IsActive {
			t.Error("region must be deactivated")
		}
		if persisted.Name != "Moscow Oblast" {
			t.Errorf("name = %q, want untouched %q", persisted.Name, "Moscow Oblast")
		}
	})

	t.Run("returns not found for an unknown region", func(t *testing.T) {
		svc := newRegionTestService(&mockRegionRepository{}, &mockAutoServiceRepository{}, testConfig())

		err := svc.Update(ctx, testRegionID, &model.RegionUpdate{Name: "Greater Moscow"})
		if err == nil {
			t.Fatal("expected an error")
		}
		if code := apperrors.AsAppError(err).Code; code != apperrors.CodeNotFound {
			t.Errorf("error code = %s, want %s", code, apperrors.CodeNotFound)
		}
	})

	t.Run("maps a duplicate slug on rename to a conflict", func(t *testing.T) {
		repo := &mockRegionRepository{
			findByIDFunc: func(_ context.Context, _ string) (*model.Region, error) {
				return storedRegion(), nil
			},
			updateFunc: func(_ context.Context, _ string, _ *model.Region) (*mongo.UpdateResult, error) {
				return nil, duplicateKeyError()
			},
		}
		svc := newRegionTestService(repo, &mockAutoServiceRepository{}, testConfig())

		err := svc.Update(ctx, testRegionID, &model.RegionUpdate{Slug: "taken-slug"})
		if err == nil {
			t.Fatal("expected a conflict error")
		}
		if code := apperrors.AsAppError(err).Code; code != apperrors.CodeConflict {
			t.Errorf("error code = %s, want %s", code, apperrors.CodeConflict)
		}
	})
}

func TestDeleteRegion(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes a region with no auto services", func(t *testing.T) {
		var deletedID string
		repo := &mockRegionRepository{
			findByIDFunc: func(_ context.Context, _ string) (*model.Region, error) {
				return storedRegion(), nil
			},
			deleteFunc: func(_ context.Context, id string) error {
				deletedID = id
				return nil
			},
		}
		svc := newRegionTestService(repo, &mockAutoServiceRepository{}, testConfig())

		if err := svc.Delete(ctx, testRegionID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if deletedID != testRegionID {
			t.Errorf("deleted ID = %q, want %q", deletedID, testRegionID)
		}
	})

	t.Run("refuses while the region still has auto services", func(t *testing.T) {
		repo := &mockRegionRepository{
			findByIDFunc: func(_ context.Context, _ string) (*model.Region, error) {
				return storedRegion(), nil
			},
		}
		autoServices := &mockAutoServiceRepository{
			countSearchFunc: func(_ context.Context, regionID string, _ *bool) (int64, error) {
				if regionID != testRegionID {
					t.Errorf("counted region %q, want %q", regionID, testRegionID)
				}
				return 3, nil
			},
		}
		svc := newRegionTestService(repo, autoServices, testConfig())

		err := svc.Delete(ctx, testRegionID)
		if err == nil {
			t.Fatal("expected a conflict error")
		}
		if code := apperrors.AsAppError(err).Code; code != apperrors.CodeConflict {
			t.Errorf("error code = %s, want %s", code, apperrors.CodeConflict)
		}
	})

	t.Run("rejects an empty ID", func(t *testing.T) {
		svc := newRegionTestService(&mockRegionRepository{}, &mockAutoServiceRepository{}, testConfig())

		err := svc.Delete(ctx, "")
		if err == nil {
			t.Fatal("expected an error")
		}
		if code := apperrors.AsAppError(err).Code; code != apperrors.CodeInvalidInput {
			t.Errorf("error code = %s, want %s", code, apperrors.CodeInvalidInput)
		}
	})
}

func TestGetAllRegionsParallelFetch(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		var mu sync.Mutex
		calls := 0
		repo := &mockRegionRepository{
			findAllFunc: func(_ context.Context, _ int, _ int64) ([]*model.Region, error) {
				mu.Lock()
				calls++
				mu.Unlock()
				return []*model.Region{storedRegion()}, nil
			},
			countFunc: func(_ context.Context) (int64, error) {
				mu.Lock()
				calls++
				mu.Unlock()
				return 42, nil
			},
		}
		svc := newRegionTestService(repo, &mockAutoServiceRepository{}, testConfig())

		regions, count, err := svc.GetAll(ctx, 10, 0)
		if err != nil {
			t.Fatalf("GetAll() error = %v", err)
		}
		if len(regions) != 1 || count != 42 {
			t.Fatalf("GetAll() = %d regions, count %d; want 1 and 42", len(regions), count)
		}
		if calls != 2 {
			t.Fatalf("repository calls = %d, want 2", calls)
		}
	}
}
