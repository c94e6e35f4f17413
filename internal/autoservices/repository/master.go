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

// maxServiceMasters bounds the roster fetch used by the duplicate-name
// check. An auto service with more masters than this is a data problem.
const maxServiceMasters = 500

type mongoMasterRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type MasterRepository interface {
	Create(ctx context.Context, m *model.Master) error
	FindByID(ctx context.Context, id string) (*model.Master, error)
	Update(ctx context.Context, id string, m *model.Master) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, autoServiceID string, active *bool, specializations []string, limit int, offset int64) ([]*model.Master, error)
	CountSearch(ctx context.Context, autoServiceID string, active *bool, specializations []string) (int64, error)
	FindByAutoService(ctx context.Context, autoServiceID string) ([]model.Master, error)
}

func NewMongoMasterRepository(cfg *config.Config) MasterRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMasterRepository{
		cfg:        cfg,
		collection: db.Collection(MasterCollectionName),
	}
}

func (r *mongoMasterRepository) Create(ctx context.Context, m *model.Master) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	m.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, m)
	if err != nil {
		return fmt.Errorf("failed to create master: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid.Hex()
	}
	return nil
}

func (r *mongoMasterRepository) FindByID(ctx context.Context, id string) (*model.Master, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", registryerrors.ErrInvalidID, id)
	}

	var m model.Master
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", registryerrors.ErrMasterNotFound, id)
		}
		return nil, fmt.Errorf("failed to find master: %w", err)
	}

	return &m, nil
}

func (r *mongoMasterRepository) Update(ctx context.Context, id string, m *model.Master) (*mongo.UpdateResult, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", registryerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"auto_service_id": m.AutoServiceID,
			"full_name":       m.FullName,
			"phone":           m.Phone,
			"specialization":  m.Specialization,
			"is_active":       m.IsActive,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update master: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s", registryerrors.ErrMasterNotFound, id)
	}

	return result, nil
}

func (r *mongoMasterRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", registryerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete master: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", registryerrors.ErrMasterNotFound, id)
	}
	return nil
}

// masterSearchFilter matches specializations against the stored comma-joined
// slug list. Tokens arrive slug-sanitized, so they are regex-safe; each one
// must appear as a whole list element, not a substring.
func masterSearchFilter(autoServiceID string, active *bool, specializations []string) bson.M {
	filter := bson.M{"auto_service_id": autoServiceID}
	if active != nil {
		filter["is_active"] = *active
	}
	if len(specializations) > 0 {
		terms := make([]bson.M, 0, len(specializations))
		for _, spec := range specializations {
			terms = append(terms, bson.M{
				"specialization": bson.M{"$regex": "(^|,)" + spec + "(,|$)"},
			})
		}
		filter["$or"] = terms
	}
	return filter
}

func (r *mongoMasterRepository) Search(ctx context.Context, autoServiceID string, active *bool, specializations []string, limit int, offset int64) ([]*model.Master, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "full_name", Value: 1}})

	cursor, err := r.collection.Find(ctx, masterSearchFilter(autoServiceID, active, specializations), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search masters: %w", err)
	}
	defer cursor.Close(ctx)

	var masters []*model.Master
	if err = cursor.All(ctx, &masters); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}
	return masters, nil
}

func (r *mongoMasterRepository) CountSearch(ctx context.Context, autoServiceID string, active *bool, specializations []string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, masterSearchFilter(autoServiceID, active, specializations))
	if err != nil {
		return 0, fmt.Errorf("failed to count search results: %w", err)
	}
	return count, nil
}

// FindByAutoService returns the full roster of an auto service for the
// duplicate-name check on hiring.
func (r *mongoMasterRepository) FindByAutoService(ctx context.Context, autoServiceID string) ([]model.Master, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetLimit(maxServiceMasters)
	cursor, err := r.collection.Find(ctx, bson.M{"auto_service_id": autoServiceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query masters: %w", err)
	}
	defer cursor.Close(ctx)

	var masters []model.Master
	if err = cursor.All(ctx, &masters); err != nil {
		return nil, fmt.Errorf("failed to decode masters: %w", err)
	}
	return masters, nil
}
