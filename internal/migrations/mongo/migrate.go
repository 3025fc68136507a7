package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stopshot/internal/accounts"
	"stopshot/internal/calendar"
	"stopshot/internal/migrations/mongo/validators"
	reservationsrepo "stopshot/internal/reservations/repository"
	roomsrepo "stopshot/internal/rooms/repository"
	"stopshot/pkg/lock"
	"stopshot/pkg/logger"
)

var (
	RoomsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookable", Value: 1}, {Key: "type", Value: 1}}},
	}

	ReservationsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "assigned_room", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start_at", Value: 1},
		}},
		{Keys: bson.D{{Key: "room_type", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "start_at", Value: 1}, {Key: "end_at", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "owner_ref", Value: 1}, {Key: "start_at", Value: 1}}},
	}

	AccountsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	SpecialEventsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}

	// Expired lock documents are reaped by Mongo; the locker also clears them
	// on contention, so the TTL monitor's delay is harmless.
	RoomLocksIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	}
)

type collectionDef struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func collections() []collectionDef {
	return []collectionDef{
		{Name: roomsrepo.CollectionName, Indexes: RoomsIndexes, Validator: validators.RoomValidator},
		{Name: reservationsrepo.CollectionName, Indexes: ReservationsIndexes, Validator: validators.ReservationValidator},
		{Name: accounts.CollectionName, Indexes: AccountsIndexes, Validator: validators.AccountValidator},
		{Name: calendar.CollectionName, Indexes: SpecialEventsIndexes, Validator: validators.SpecialEventValidator},
		{Name: lock.LocksCollection, Indexes: RoomLocksIndexes, Validator: validators.RoomLockValidator},
	}
}

// RunMigration creates every collection with its schema validator and
// indexes, then seeds the default room catalog. It is safe to run repeatedly.
func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running StopShot Mongo migrations", "database", dbName)

	for _, def := range collections() {
		if err := ensureCollection(ctx, db, def.Name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	if err := seedRooms(ctx, db, log); err != nil {
		return fmt.Errorf("failed to seed rooms: %w", err)
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		log.Info("Collection already exists, updating validator", "collection", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			log.Warn("Failed updating validator", "collection", name, "error", err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}

// seedRooms inserts catalog rooms that are missing by (type, name). Existing
// rooms are left untouched so staff edits survive a rerun.
func seedRooms(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	coll := db.Collection(roomsrepo.CollectionName)
	now := time.Now().UTC().Truncate(time.Millisecond)

	var inserted int64
	for _, room := range roomsrepo.DefaultCatalog() {
		filter := bson.M{"type": room.Type, "name": room.Name}
		update := bson.M{"$setOnInsert": bson.M{
			"type":        room.Type,
			"name":        room.Name,
			"description": room.Description,
			"capacity":    room.Capacity,
			"bookable":    room.Bookable,
			"created_at":  now,
		}}
		result, err := coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("failed to seed room %s: %w", room.Name, err)
		}
		inserted += result.UpsertedCount
	}

	log.Info("Seeded room catalog", "inserted", inserted)
	return nil
}
