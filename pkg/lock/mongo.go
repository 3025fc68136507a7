package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stopshot/pkg/logger"
	"stopshot/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LocksCollection = "Room_locks"

// MongoLocker stores one document per held key. A duplicate _id means the key
// is taken; expired documents are cleared by the next contender and by the
// TTL index on expires_at.
type MongoLocker struct {
	collection *mongo.Collection
	ttl        time.Duration
	wait       time.Duration
	log        *logger.Logger
}

func NewMongoLocker(db *mongo.Database, ttl, wait time.Duration, log *logger.Logger) *MongoLocker {
	return &MongoLocker{
		collection: db.Collection(LocksCollection),
		ttl:        ttl,
		wait:       wait,
		log:        log,
	}
}

func (l *MongoLocker) Acquire(ctx context.Context, key string) (func(), error) {
	owner := uuid.NewString()

	err := retry(ctx, l.wait, key, func(ctx context.Context) (bool, error) {
		now := time.Now().UTC()
		_, err := l.collection.InsertOne(ctx, model.RoomLock{
			ID:        key,
			Owner:     owner,
			ExpiresAt: now.Add(l.ttl),
			CreatedAt: now,
		})
		if err == nil {
			return true, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if _, err := l.collection.DeleteOne(ctx, bson.M{"_id": key, "expires_at": bson.M{"$lt": now}}); err != nil {
			l.log.Warn("Failed to clear expired lock", "key", key, "error", err)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), l.ttl)
			defer cancel()
			if _, err := l.collection.DeleteOne(releaseCtx, bson.M{"_id": key, "owner": owner}); err != nil {
				l.log.Warn("Failed to release lock", "key", key, "error", err)
			}
		})
	}, nil
}
