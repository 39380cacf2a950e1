package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/pkg/config"
	mongotx "roombook/pkg/db/mongo"
	"roombook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "bookings"
)

// BookingRepository exposes the persistence operations the overlap engine and
// lifecycle controller need: equality lookups, interval-range queries scoped
// by approval state, and the bulk demotion that restores the no-overlap
// invariant before a promotion commits.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByCreator(ctx context.Context, userID string) ([]*model.Booking, error)
	FindByStatus(ctx context.Context, status model.Status) ([]*model.Booking, error)
	FindApprovedOverlapping(ctx context.Context, roomID string, start, end int64) ([]*model.Booking, error)
	FindAnyOverlapping(ctx context.Context, roomID string, start, end int64) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, status model.Status) error
	BulkRejectApprovedOverlapping(ctx context.Context, roomID string, start, end int64) ([]string, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless it is already a
// transaction session, which must not be re-wrapped.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByCreator(ctx context.Context, userID string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.find(ctx, bson.M{"created_by": userID})
}

func (r *mongoBookingRepository) FindByStatus(ctx context.Context, status model.Status) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.find(ctx, bson.M{"approved": status})
}

func (r *mongoBookingRepository) FindApprovedOverlapping(ctx context.Context, roomID string, start, end int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.find(ctx, overlapFilter(roomID, start, end, statusFilter(model.StatusApproved)))
}

func (r *mongoBookingRepository) FindAnyOverlapping(ctx context.Context, roomID string, start, end int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.find(ctx, overlapFilter(roomID, start, end, anyStatus()))
}

func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"approved": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

// BulkRejectApprovedOverlapping demotes every approved booking intersecting
// [start, end) in the room to rejected and returns the affected ids. Run it
// inside the same transaction as the promotion it precedes so no reader ever
// observes two approved overlapping bookings.
func (r *mongoBookingRepository) BulkRejectApprovedOverlapping(ctx context.Context, roomID string, start, end int64) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := overlapFilter(roomID, start, end, statusFilter(model.StatusApproved))

	affected, err := r.find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(affected) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(affected))
	objectIDs := make([]primitive.ObjectID, 0, len(affected))
	for _, b := range affected {
		oid, err := primitive.ObjectIDFromHex(b.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, b.ID)
		}
		ids = append(ids, b.ID)
		objectIDs = append(objectIDs, oid)
	}

	// Demote by the ids just read, not by re-running the interval filter, so
	// the returned set exactly matches what was rejected.
	_, err = r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": objectIDs}},
		bson.M{"$set": bson.M{"approved": model.StatusRejected}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reject overlapping bookings: %w", err)
	}

	return ids, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M) ([]*model.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

// overlapFilter matches bookings in roomID whose [start, end) interval
// intersects the candidate's under half-open semantics: stored.start < end
// AND stored.end > start. Touching boundaries do not match.
func overlapFilter(roomID string, start, end int64, status bson.M) bson.M {
	filter := bson.M{
		"room_id": roomID,
		"start":   bson.M{"$lt": end},
		"end":     bson.M{"$gt": start},
	}
	for k, v := range status {
		filter[k] = v
	}
	return filter
}

func statusFilter(status model.Status) bson.M {
	return bson.M{"approved": status}
}

func anyStatus() bson.M {
	return bson.M{}
}
