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

type mongoRegionRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type RegionRepository interface {
	Create(ctx context.Context, region *model.Region) error
	FindByID(ctx context.Context, id string) (*model.Region, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Region, error)
	Update(ctx context.Context, id string, region *model.Region) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

func NewMongoRegionRepository(cfg *config.Config) RegionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRegionRepository{
		cfg:        cfg,
		collection: db.Collection(RegionCollectionName),
	}
}

// Create inserts the region. Slug uniqueness is enforced by the collection's
// unique index; the duplicate key error travels back untranslated so the
// service can decide how to present it.
func (r *mongoRegionRepository) Create(ctx context.Context, region *model.Region) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	region.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, region)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		region.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRegionRepository) FindByID(ctx context.Context, id string) (*model.Region, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", registryerrors.ErrInvalidID, id)
	}

	var region model.Region
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&region)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", registryerrors.ErrRegionNotFound, id)
		}
		return nil, fmt.Errorf("failed to find region: %w", err)
	}

	return &region, nil
}

func (r *mongoRegionRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Region, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query regions: %w", err)
	}
	defer cursor.Close(ctx)

	var regions []*model.Region
	if err = cursor.All(ctx, &regions); err != nil {
		return nil, fmt.Errorf("failed to decode regions: %w", err)
	}
	return regions, nil
}

func (r *mongoRegionRepository) Update(ctx context.Context, id string, region *model.Region) (*mongo.UpdateResult, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", registryerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":      region.Name,
			"slug":      region.Slug,
			"is_active": region.IsActive,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, err
	}

	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s", registryerrors.ErrRegionNotFound, id)
	}

	return result, nil
}

func (r *mongoRegionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", registryerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete region: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", registryerrors.ErrRegionNotFound, id)
	}
	return nil
}

func (r *mongoRegionRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count regions: %w", err)
	}
	return count, nil
}
