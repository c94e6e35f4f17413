package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"grafik/pkg/config"
	"grafik/pkg/model"
)

const LockCollectionName = "Assignment_locks"

// AssignmentLockRepository manages the advisory locks that serialize order
// assignments per master and day. The collection carries a TTL index on
// expires_at so locks abandoned by crashed workers disappear on their own.
type AssignmentLockRepository interface {
	Acquire(ctx context.Context, lock *model.AdvisoryLock) error
	Release(ctx context.Context, lockID string) error
}

type mongoAssignmentLockRepository struct {
	collection *mongo.Collection
}

func NewAssignmentLockRepository(cfg *config.Config) AssignmentLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAssignmentLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

// Acquire inserts the lock document. A duplicate key error means another
// writer is assigning an order to the same master on the same day.
func (r *mongoAssignmentLockRepository) Acquire(ctx context.Context, lock *model.AdvisoryLock) error {
	lock.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	_, err := r.collection.InsertOne(ctx, lock)
	return err
}

func (r *mongoAssignmentLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
