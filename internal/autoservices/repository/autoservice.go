package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	registryerrors "grafik/internal/autoservices/errors"
	"grafik/pkg/config"
	"grafik/pkg/model"
)

type mongoAutoServiceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type AutoServiceRepository interface {
	Create(ctx context.Context, svc *model.AutoService) error
	FindByID(ctx context.Context, id string) (*model.AutoService, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.AutoService, error)
	Update(ctx context.Context, id string, svc *model.AutoService) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, regionID string, active *bool, limit int, offset int64) ([]*model.AutoService, error)
	CountSearch(ctx context.Context, regionID string, active *bool) (int64, error)
	Count(ctx context.Context) (int64, error)
}

func NewMongoAutoServiceRepository(cfg *config.Config) AutoServiceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAutoServiceRepository{
		cfg:        cfg,
		collection: db.Collection(AutoServiceCollectionName),
	}
}

// Create inserts the auto service. Slug uniqueness within a region is
// enforced by the collection's unique compound index.
func (r *mongoAutoServiceRepository) Create(ctx context.Context, svc *model.AutoService) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	svc.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, svc)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		svc.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAutoServiceRepository) FindByID(ctx context.Context, id string) (*model.AutoService, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", registryerrors.ErrInvalidID, id)
	}

	var svc model.AutoService
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&svc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", registryerrors.ErrAutoServiceNotFound, id)
		}
		return nil, fmt.Errorf("failed to find auto service: %w", err)
	}

	return &svc, nil
}

func (r *mongoAutoServiceRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.AutoService, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query auto services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []*model.AutoService
	if err = cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode auto services: %w", err)
	}
	return services, nil
}

func (r *mongoAutoServiceRepository) Update(ctx context.Context, id string, svc *model.AutoService) (*mongo.UpdateResult, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", registryerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"region_id":   svc.RegionID,
			"name":        svc.Name,
			"slug":        svc.Slug,
			"address":     svc.Address,
			"phone":       svc.Phone,
			"email":       svc.Email,
			"description": svc.Description,
			"is_active":   svc.IsActive,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, err
	}

	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s", registryerrors.ErrAutoServiceNotFound, id)
	}

	return result, nil
}

func (r *mongoAutoServiceRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", registryerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete auto service: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", registryerrors.ErrAutoServiceNotFound, id)
	}
	return nil
}

func autoServiceSearchFilter(regionID string, active *bool) bson.M {
	filter := bson.M{"region_id": regionID}
	if active != nil {
		filter["is_active"] = *active
	}
	return filter
}

func (r *mongoAutoServiceRepository) Search(ctx context.Context, regionID string, active *bool, limit int, offset int64) ([]*model.AutoService, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, autoServiceSearchFilter(regionID, active), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search auto services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []*model.AutoService
	if err = cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}
	return services, nil
}

func (r *mongoAutoServiceRepository) CountSearch(ctx context.Context, regionID string, active *bool) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, autoServiceSearchFilter(regionID, active))
	if err != nil {
		return 0, fmt.Errorf("failed to count search results: %w", err)
	}
	return count, nil
}

func (r *mongoAutoServiceRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count auto services: %w", err)
	}
	return count, nil
}
