package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"grafik/internal/migrations/mongo/validators"
)

var (
	// workSchedulesIndexes serve the active-schedules lookup ordered oldest
	// first and the period filter behind applicable-schedule search.
	workSchedulesIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "master_id", Value: 1},
			{Key: "is_active", Value: 1},
			{Key: "created_at", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "master_id", Value: 1},
			{Key: "start_date", Value: 1},
			{Key: "end_date", Value: 1},
		}},
	}

	ordersIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "master_id", Value: 1},
			{Key: "preferred_date", Value: 1},
			{Key: "status", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "auto_service_id", Value: 1},
			{Key: "preferred_date", Value: 1},
		}},
	}

	regionsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	autoServicesIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "region_id", Value: 1},
				{Key: "slug", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{
			{Key: "region_id", Value: 1},
			{Key: "is_active", Value: 1},
		}},
	}

	mastersIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "auto_service_id", Value: 1},
			{Key: "is_active", Value: 1},
		}},
	}

	// lockIndexes let mongo reap expired advisory locks; _id uniqueness
	// needs no extra index.
	lockIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Work_schedules": {
			Indexes:   workSchedulesIndexes,
			Validator: validators.WorkScheduleValidator,
		},
		"Orders": {
			Indexes:   ordersIndexes,
			Validator: validators.OrderValidator,
		},
		"Regions": {
			Indexes:   regionsIndexes,
			Validator: validators.RegionValidator,
		},
		"Auto_services": {
			Indexes:   autoServicesIndexes,
			Validator: validators.AutoServiceValidator,
		},
		"Masters": {
			Indexes:   mastersIndexes,
			Validator: validators.MasterValidator,
		},
		"Schedule_locks": {
			Indexes:   lockIndexes,
			Validator: validators.AdvisoryLockValidator,
		},
		"Assignment_locks": {
			Indexes:   lockIndexes,
			Validator: validators.AdvisoryLockValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("ℹ️ Collection %s already exists, updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
