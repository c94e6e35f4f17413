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

	orderserrors "grafik/internal/orders/errors"
	"grafik/pkg/config"
	mongotx "grafik/pkg/db/mongo"
	"grafik/pkg/model"
)

const (
	CollectionName = "Orders"

	// maxDayOrders bounds the per-master per-day fetch used by the
	// assignment conflict checks. One master cannot physically serve more
	// than this many orders in a day.
	maxDayOrders = 500
)

type mongoOrderRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Order, error)
	Update(ctx context.Context, id string, o *model.Order) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, autoServiceID, masterID, date, status string, limit int, offset int64) ([]*model.Order, error)
	CountSearch(ctx context.Context, autoServiceID, masterID, date, status string) (int64, error)
	ActiveForMasterOnDate(ctx context.Context, masterID, date string) ([]model.Order, error)
	Count(ctx context.Context) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoOrderRepository(cfg *config.Config) OrderRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoOrderRepository{
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
func (r *mongoOrderRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoOrderRepository) Create(ctx context.Context, o *model.Order) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	o.CreatedAt = now
	o.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, o)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		o.ID = oid.Hex()
	}
	return nil
}

func (r *mongoOrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", orderserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}

	var o model.Order
	err = r.collection.FindOne(ctx, filter).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", orderserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return &o, nil
}

func (r *mongoOrderRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Order, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*model.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (r *mongoOrderRepository) Update(ctx context.Context, id string, o *model.Order) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", orderserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	update := bson.M{
		"$set": bson.M{
			"auto_service_id":        o.AutoServiceID,
			"master_id":              o.MasterID,
			"client_name":            o.ClientName,
			"client_phone":           o.ClientPhone,
			"car_info":               o.CarInfo,
			"description":            o.Description,
			"preferred_date":         o.PreferredDate,
			"preferred_time":         o.PreferredTime,
			"estimated_duration_min": o.EstimatedDurationMin,
			"status":                 o.Status,
			"updated_at":             time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s", orderserrors.ErrNotFound, id)
	}

	return result, nil
}

func (r *mongoOrderRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", orderserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", orderserrors.ErrNotFound, id)
	}
	return nil
}

// searchFilter builds the query shared by Search and CountSearch. Empty
// parameters are left out of the filter entirely.
func searchFilter(autoServiceID, masterID, date, status string) bson.M {
	filter := bson.M{}
	if autoServiceID != "" {
		filter["auto_service_id"] = autoServiceID
	}
	if masterID != "" {
		filter["master_id"] = masterID
	}
	if date != "" {
		filter["preferred_date"] = date
	}
	if status != "" {
		filter["status"] = status
	}
	return filter
}

func (r *mongoOrderRepository) Search(ctx context.Context, autoServiceID, masterID, date, status string, limit int, offset int64) ([]*model.Order, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "preferred_date", Value: 1}, {Key: "preferred_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, searchFilter(autoServiceID, masterID, date, status), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*model.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	return orders, nil
}

func (r *mongoOrderRepository) CountSearch(ctx context.Context, autoServiceID, masterID, date, status string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, searchFilter(autoServiceID, masterID, date, status))
	if err != nil {
		return 0, fmt.Errorf("failed to count search results: %w", err)
	}
	return count, nil
}

// ActiveForMasterOnDate returns the master's orders on the given date whose
// status still occupies the master's time, ordered by start time so that
// conflict reports read chronologically.
func (r *mongoOrderRepository) ActiveForMasterOnDate(ctx context.Context, masterID, date string) ([]model.Order, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"master_id":      masterID,
		"preferred_date": date,
		"status":         bson.M{"$in": model.ActiveOrderStatuses},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "preferred_time", Value: 1}}).
		SetLimit(maxDayOrders)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query active orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []model.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode active orders: %w", err)
	}
	return orders, nil
}

func (r *mongoOrderRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (r *mongoOrderRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
