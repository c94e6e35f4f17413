package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"grafik/pkg/config"
	"grafik/pkg/model"
)

const LockCollectionName = "Schedule_locks"

// ScheduleLockRepository manages the advisory locks that serialize schedule
// writes per master. The collection carries a TTL index on expires_at so
// locks abandoned by crashed workers disappear on their own.
type ScheduleLockRepository interface {
	Acquire(ctx context.Context, lock *model.AdvisoryLock) error
	Release(ctx context.Context, lockID string) error
}

type mongoScheduleLockRepository struct {
	collection *mongo.Collection
}

func NewScheduleLockRepository(cfg *config.Config) ScheduleLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoScheduleLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

// Acquire inserts the lock document. A duplicate key error means another
// writer currently holds the lock for the same master.
func (r *mongoScheduleLockRepository) Acquire(ctx context.Context, lock *model.AdvisoryLock) error {
	lock.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	_, err := r.collection.InsertOne(ctx, lock)
	return err
}

func (r *mongoScheduleLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
