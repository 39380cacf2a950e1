package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/pkg/config"
	"roombook/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const LockCollectionName = "booking_locks"

// RoomLockRepository provides per-room advisory locks. The lock document's
// _id is the room id, so concurrent acquisitions collide on the unique index
// and exactly one creation wins.
type RoomLockRepository interface {
	Acquire(ctx context.Context, roomID string, ttl time.Duration) (*model.RoomLock, error)
	Release(ctx context.Context, lock *model.RoomLock) error
	EnsureIndexes(ctx context.Context) error
}

type mongoRoomLockRepository struct {
	collection *mongo.Collection
}

func NewRoomLockRepository(cfg *config.Config) RoomLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoRoomLockRepository) Acquire(ctx context.Context, roomID string, ttl time.Duration) (*model.RoomLock, error) {
	lock := &model.RoomLock{
		ID:        roomID,
		Owner:     uuid.New().String(),
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, bookingserrors.ErrRoomLockHeld
		}
		return nil, fmt.Errorf("failed to acquire room lock: %w", err)
	}

	return lock, nil
}

// Release deletes the lock only if this acquisition still owns it, so a lock
// reaped and re-acquired after expiry is never released by the old holder.
func (r *mongoRoomLockRepository) Release(ctx context.Context, lock *model.RoomLock) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lock.ID, "owner": lock.Owner})
	return err
}

// EnsureIndexes creates the TTL index that reaps locks orphaned by a crashed
// process once expires_at passes.
func (r *mongoRoomLockRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("failed to create lock TTL index: %w", err)
	}
	return nil
}
