package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	reservationserrors "stopshot/internal/reservations/errors"
	"stopshot/internal/reservations/interval"
	"stopshot/pkg/config"
	mongotx "stopshot/pkg/db/mongo"
	"stopshot/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	reservation.ID = ""
	result, err := r.collection.InsertOne(ctx, reservation)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	var reservation model.Reservation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &reservation, nil
}

func (r *mongoReservationRepository) Update(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(reservation.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, reservation.ID)
	}

	set := bson.M{
		"duration_minutes": reservation.DurationMinutes,
		"status":           reservation.Status,
		"end_at":           reservation.EndAt,
		"updated_at":       reservation.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if reservation.AssignedRoom == "" {
		update["$unset"] = bson.M{"assigned_room": ""}
	} else {
		set["assigned_room"] = reservation.AssignedRoom
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	if result.MatchedCount == 0 {
		return reservationserrors.ErrNotFound
	}
	return nil
}

func (r *mongoReservationRepository) FindConflicting(ctx context.Context, roomID string, iv interval.Interval, excludeID string) (*model.Reservation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"assigned_room": roomID,
		"status":        model.StatusConfirmed,
		"start_at":      bson.M{"$lt": iv.End},
		"end_at":        bson.M{"$gt": iv.Start},
	}
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}

	var conflict model.Reservation
	err := r.collection.FindOne(ctx, filter).Decode(&conflict)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan for conflicts: %w", err)
	}
	return &conflict, nil
}

func (r *mongoReservationRepository) FindByDateRange(ctx context.Context, from, to model.Date, roomType model.RoomType, statuses ...model.ReservationStatus) ([]*model.Reservation, error) {
	filter := bson.M{
		"room_type": roomType,
		"date":      bson.M{"$gte": from, "$lte": to},
	}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_at", Value: 1}}))
}

func (r *mongoReservationRepository) FindOverlappingWindow(ctx context.Context, window interval.Interval, statuses ...model.ReservationStatus) ([]*model.Reservation, error) {
	filter := bson.M{
		"start_at": bson.M{"$lt": window.End},
		"end_at":   bson.M{"$gt": window.Start},
	}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_at", Value: 1}}))
}

func (r *mongoReservationRepository) FindAll(ctx context.Context, filter model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "start_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)
	return r.find(ctx, buildFilter(filter), opts)
}

func (r *mongoReservationRepository) Count(ctx context.Context, filter model.ReservationFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

func (r *mongoReservationRepository) UnassignRoom(ctx context.Context, roomID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateMany(ctx,
		bson.M{"assigned_room": roomID},
		bson.M{
			"$unset": bson.M{"assigned_room": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to unassign room %s: %w", roomID, err)
	}
	return result.ModifiedCount, nil
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoReservationRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Reservation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return reservations, nil
}

func buildFilter(f model.ReservationFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Date != nil {
		filter["date"] = *f.Date
	}
	if f.RoomID != "" {
		filter["assigned_room"] = f.RoomID
	}
	if f.RoomType != "" {
		filter["room_type"] = f.RoomType
	}
	if f.OwnerRef != "" {
		filter["owner_ref"] = f.OwnerRef
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"guest_name": pattern},
			bson.M{"guest_email": pattern},
			bson.M{"guest_phone": pattern},
		}
	}
	return filter
}
