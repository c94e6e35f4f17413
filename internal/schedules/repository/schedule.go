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

	scheduleserrors "grafik/internal/schedules/errors"
	"grafik/pkg/config"
	mongotx "grafik/pkg/db/mongo"
	"grafik/pkg/model"
)

const (
	CollectionName = "Work_schedules"

	// maxMasterSchedules bounds the per-master schedule fetch used by the
	// availability checks. A master with more than this many active
	// schedules is a data problem, not a query problem.
	maxMasterSchedules = 500
)

type mongoWorkScheduleRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type WorkScheduleRepository interface {
	Create(ctx context.Context, ws *model.WorkSchedule) error
	FindByID(ctx context.Context, id string) (*model.WorkSchedule, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.WorkSchedule, error)
	Update(ctx context.Context, id string, ws *model.WorkSchedule) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, masterID string, active *bool, date string, limit int, offset int64) ([]*model.WorkSchedule, error)
	CountSearch(ctx context.Context, masterID string, active *bool, date string) (int64, error)
	ActiveForMaster(ctx context.Context, masterID string) ([]model.WorkSchedule, error)
	Count(ctx context.Context) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoWorkScheduleRepository(cfg *config.Config) WorkScheduleRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoWorkScheduleRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoWorkScheduleRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining > timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoWorkScheduleRepository) Create(ctx context.Context, ws *model.WorkSchedule) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	ws.CreatedAt = now
	ws.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, ws)
	if err != nil {
		return fmt.Errorf("failed to create work schedule: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		ws.ID = oid.Hex()
	}
	return nil
}

func (r *mongoWorkScheduleRepository) FindByID(ctx context.Context, id string) (*model.WorkSchedule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}

	var ws model.WorkSchedule
	err = r.collection.FindOne(ctx, filter).Decode(&ws)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", scheduleserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find work schedule: %w", err)
	}

	return &ws, nil
}

func (r *mongoWorkScheduleRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.WorkSchedule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query work schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []*model.WorkSchedule
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode work schedules: %w", err)
	}
	return schedules, nil
}

func (r *mongoWorkScheduleRepository) Update(ctx context.Context, id string, ws *model.WorkSchedule) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	update := bson.M{
		"$set": bson.M{
			"master_id":     ws.MasterID,
			"schedule_type": ws.ScheduleType,
			"start_date":    ws.StartDate,
			"end_date":      ws.EndDate,
			"custom_days":   ws.CustomDays,
			"start_time":    ws.StartTime,
			"end_time":      ws.EndTime,
			"is_active":     ws.IsActive,
			"updated_at":    time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update work schedule: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s", scheduleserrors.ErrNotFound, id)
	}

	return result, nil
}

func (r *mongoWorkScheduleRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete work schedule: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", scheduleserrors.ErrNotFound, id)
	}
	return nil
}

// searchFilter builds the query shared by Search and CountSearch. The date
// filter relies on ISO strings ordering lexicographically; "" marks an
// open-ended bound and always matches.
func searchFilter(masterID string, active *bool, date string) bson.M {
	filter := bson.M{"master_id": masterID}
	if active != nil {
		filter["is_active"] = *active
	}
	if date != "" {
		filter["$and"] = []bson.M{
			{"$or": []bson.M{{"start_date": ""}, {"start_date": bson.M{"$lte": date}}}},
			{"$or": []bson.M{{"end_date": ""}, {"end_date": bson.M{"$gte": date}}}},
		}
	}
	return filter
}

func (r *mongoWorkScheduleRepository) Search(ctx context.Context, masterID string, active *bool, date string, limit int, offset int64) ([]*model.WorkSchedule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, searchFilter(masterID, active, date), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search work schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []*model.WorkSchedule
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	return schedules, nil
}

func (r *mongoWorkScheduleRepository) CountSearch(ctx context.Context, masterID string, active *bool, date string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, searchFilter(masterID, active, date))
	if err != nil {
		return 0, fmt.Errorf("failed to count search results: %w", err)
	}
	return count, nil
}

// ActiveForMaster returns the master's active schedules ordered oldest
// first, which keeps the first-applicable-wins rule stable when several
// schedules cover the same date.
func (r *mongoWorkScheduleRepository) ActiveForMaster(ctx context.Context, masterID string) ([]model.WorkSchedule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"master_id": masterID, "is_active": true}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(maxMasterSchedules)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query active schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []model.WorkSchedule
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode active schedules: %w", err)
	}
	return schedules, nil
}

func (r *mongoWorkScheduleRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count work schedules: %w", err)
	}
	return count, nil
}

func (r *mongoWorkScheduleRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
