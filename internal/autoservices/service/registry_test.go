package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	registryerrors "grafik/internal/autoservices/errors"
	"grafik/internal/autoservices/validator"
	"grafik/pkg/config"
	"grafik/pkg/logger"
	"grafik/pkg/model"
)

type mockRegionRepository struct {
	createFunc   func(ctx context.Context, region *model.Region) error
	findByIDFunc func(ctx context.Context, id string) (*model.Region, error)
	findAllFunc  func(ctx context.Context, limit int, offset int64) ([]*model.Region, error)
	updateFunc   func(ctx context.Context, id string, region *model.Region) (*mongo.UpdateResult, error)
	deleteFunc   func(ctx context.Context, id string) error
	countFunc    func(ctx context.Context) (int64, error)
}

func (m *mockRegionRepository) Create(ctx context.Context, region *model.Region) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, region)
	}
	return nil
}

func (m *mockRegionRepository) FindByID(ctx context.Context, id string) (*model.Region, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, registryerrors.ErrRegionNotFound
}

func (m *mockRegionRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Region, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Region{}, nil
}

func (m *mockRegionRepository) Update(ctx context.Context, id string, region *model.Region) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, region)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockRegionRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRegionRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

type mockAutoServiceRepository struct {
	createFunc      func(ctx context.Context, svc *model.AutoService) error
	findByIDFunc    func(ctx context.Context, id string) (*model.AutoService, error)
	findAllFunc     func(ctx context.Context, limit int, offset int64) ([]*model.AutoService, error)
	updateFunc      func(ctx context.Context, id string, svc *model.AutoService) (*mongo.UpdateResult, error)
	deleteFunc      func(ctx context.Context, id string) error
	searchFunc      func(ctx context.Context, regionID string, active *bool, limit int, offset int64) ([]*model.AutoService, error)
	countSearchFunc func(ctx context.Context, regionID string, active *bool) (int64, error)
	countFunc       func(ctx context.Context) (int64, error)
}

func (m *mockAutoServiceRepository) Create(ctx context.Context, svc *model.AutoService) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, svc)
	}
	return nil
}

func (m *mockAutoServiceRepository) FindByID(ctx context.Context, id string) (*model.AutoService, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, registryerrors.ErrAutoServiceNotFound
}

func (m *mockAutoServiceRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.AutoService, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.AutoService{}, nil
}

func (m *mockAutoServiceRepository) Update(ctx context.Context, id string, svc *model.AutoService) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, svc)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockAutoServiceRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockAutoServiceRepository) Search(ctx context.Context, regionID string, active *bool, limit int, offset int64) ([]*model.AutoService, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, regionID, active, limit, offset)
	}
	return []*model.AutoService{}, nil
}

func (m *mockAutoServiceRepository) CountSearch(ctx context.Context, regionID string, active *bool) (int64, error) {
	if m.countSearchFunc != nil {
		return m.countSearchFunc(ctx, regionID, active)
	}
	return 0, nil
}

func (m *mockAutoServiceRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

type mockMasterRepository struct {
	createFunc            func(ctx context.Context, master *model.Master) error
	findByIDFunc          func(ctx context.Context, id string) (*model.Master, error)
	updateFunc            func(ctx context.Context, id string, master *model.Master) (*mongo.UpdateResult, error)
	deleteFunc            func(ctx context.Context, id string) error
	searchFunc            func(ctx context.Context, autoServiceID string, active *bool, specializations []string, limit int, offset int64) ([]*model.Master, error)
	countSearchFunc       func(ctx context.Context, autoServiceID string, active *bool, specializations []string) (int64, error)
	findByAutoServiceFunc func(ctx context.Context, autoServiceID string) ([]model.Master, error)
}

func (m *mockMasterRepository) Create(ctx context.Context, master *model.Master) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, master)
	}
	return nil
}

func (m *mockMasterRepository) FindByID(ctx context.Context, id string) (*model.Master, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, registryerrors.ErrMasterNotFound
}

func (m *mockMasterRepository) Update(ctx context.Context, id string, master *model.Master) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, master)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockMasterRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockMasterRepository) Search(ctx context.Context, autoServiceID string, active *bool, specializations []string, limit int, offset int64) ([]*model.Master, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, autoServiceID, active, specializations, limit, offset)
	}
	return []*model.Master{}, nil
}

func (m *mockMasterRepository) CountSearch(ctx context.Context, autoServiceID string, active *bool, specializations []string) (int64, error) {
	if m.countSearchFunc != nil {
		return m.countSearchFunc(ctx, autoServiceID, active, specializations)
	}
	return 0, nil
}

func (m *mockMasterRepository) FindByAutoService(ctx context.Context, autoServiceID string) ([]model.Master, error) {
	if m.findByAutoServiceFunc != nil {
		return m.findByAutoServiceFunc(ctx, autoServiceID)
	}
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout: 5 * time.Second,
	}
}

const (
	testRegionID      = "65c1d2e3f4a5b6c7d8e9f0a1"
	testAutoServiceID = "65d4e5f6a7b8c9d0e1f2a3b4"
	testMasterID      = "507f1f77bcf86cd799439011"
)

func newRegionTestService(repo *mockRegionRepository, autoServices *mockAutoServiceRepository, cfg *config.Config) RegionService {
	return NewRegionService(repo, autoServices, validator.NewRegistryValidator(cfg.Log), cfg)
}

func newAutoServiceTestService(repo *mockAutoServiceRepository, regions *mockRegionRepository, masters *mockMasterRepository, cfg *config.Config) AutoServiceService {
	return NewAutoServiceService(repo, regions, masters, validator.NewRegistryValidator(cfg.Log), cfg)
}

func newMasterTestService(repo *mockMasterRepository, autoServices *mockAutoServiceRepository, cfg *config.Config) MasterService {
	return NewMasterService(repo, autoServices, validator.NewRegistryValidator(cfg.Log), cfg)
}

func storedRegion() *model.Region {
	return &model.Region{
		ID:       testRegionID,
		Name:     "Moscow Oblast",
		Slug:     "moscow-oblast",
		IsActive: true,
	}
}

func storedAutoService() *model.AutoService {
	return &model.AutoService{
		ID:       testAutoServiceID,
		RegionID: testRegionID,
		Name:     "Wrench Brothers",
		Slug:     "wrench-brothers",
		Address:  "12 Garage Lane",
		Phone:    "+79161234567",
		IsActive: true,
	}
}

func storedMaster() *model.Master {
	return &model.Master{
		ID:             testMasterID,
		AutoServiceID:  testAutoServiceID,
		FullName:       "Ivan Petrov",
		Phone:          "+79169876543",
		Specialization: "engine,brakes",
		IsActive:       true,
	}
}

func duplicateKeyError() error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000}},
	}
}
