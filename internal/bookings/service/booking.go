package service

import (
	"context"
	"errors"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/internal/bookings/repository"
	"roombook/internal/bookings/validator"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/events"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

const eventSource = "bookings"

// BookingService is the booking request lifecycle controller. It owns the
// approval state machine and delegates interval intersection to the
// repository's overlap queries, keeping one invariant above all others: no
// two approved bookings for a room may overlap.
type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	ListMine(ctx context.Context, userID string) ([]*model.Booking, error)
	ListByStatus(ctx context.Context, status model.Status) ([]*model.Booking, error)
	ApprovedOverlaps(ctx context.Context, roomID string, start, end int64) ([]string, error)
	ConflictsFor(ctx context.Context, id string) ([]string, error)
	SetStatus(ctx context.Context, id string, status model.Status) ([]string, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.RoomLockRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.RoomLockRepository,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: bookingValidator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create persists a new booking request in pending state. Creation is the
// one proactive gate: it refuses any interval intersecting an already
// approved booking for the room. The room's advisory lock plus the
// transaction close the check-then-insert race between concurrent creates.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	booking.Description = sanitizer.NormalizeDescription(booking.Description)
	booking.Approved = model.StatusPending

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	lock, err := s.acquireRoomLock(ctx, booking.RoomID)
	if err != nil {
		return err
	}
	defer s.releaseRoomLock(ctx, lock)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		overlapping, err := s.repo.FindApprovedOverlapping(sessCtx, booking.RoomID, booking.Start, booking.End)
		if err != nil {
			return apperrors.Internal("Database Error", err)
		}
		if len(overlapping) > 0 {
			return apperrors.Conflict("Overlaps detected")
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Database Error", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Booking request created",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"created_by", booking.CreatedBy,
		"start", booking.Start,
		"end", booking.End,
	)
	s.publish(ctx, events.TypeBookingCreated, booking, nil)
	return nil
}

func (s *bookingService) ListMine(ctx context.Context, userID string) ([]*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user ID cannot be empty")
	}

	bookings, err := s.repo.FindByCreator(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by creator", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Database Error", err)
	}
	return bookings, nil
}

func (s *bookingService) ListByStatus(ctx context.Context, status model.Status) ([]*model.Booking, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("invalid state", map[string]any{"status": int(status)})
	}

	bookings, err := s.repo.FindByStatus(ctx, status)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by status", "status", status.String(), "error", err)
		return nil, apperrors.Internal("Database Error", err)
	}
	return bookings, nil
}

// ApprovedOverlaps answers "is this room free": the ids of approved bookings
// intersecting [start, end).
func (s *bookingService) ApprovedOverlaps(ctx context.Context, roomID string, start, end int64) ([]string, error) {
	if roomID == "" {
		return nil, apperrors.InvalidInput("room ID cannot be empty")
	}

	overlapping, err := s.repo.FindApprovedOverlapping(ctx, roomID, start, end)
	if err != nil {
		s.cfg.Log.Error("Failed to query approved overlaps", "room_id", roomID, "error", err)
		return nil, apperrors.Internal("Database Error", err)
	}
	return bookingIDs(overlapping, ""), nil
}

// ConflictsFor previews an approval: every booking in any state whose
// interval intersects the target's, excluding the target itself. Pending and
// rejected conflicts are surfaced for visibility even though approval only
// mutates approved ones.
func (s *bookingService) ConflictsFor(ctx context.Context, id string) ([]string, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.repo.FindAnyOverlapping(ctx, booking.RoomID, booking.Start, booking.End)
	if err != nil {
		s.cfg.Log.Error("Failed to query potential overlaps", "id", id, "error", err)
		return nil, apperrors.Internal("Database Error", err)
	}
	return bookingIDs(overlapping, booking.ID), nil
}

// SetStatus applies an administrator's state change. Promoting to approved
// first demotes every approved booking overlapping the target, inside one
// transaction with the promotion, so the no-overlap invariant holds at every
// commit point; the demoted ids are returned for reporting. Demoting to
// rejected or reverting to pending only shrinks the approved set and needs
// no reconciliation.
func (s *bookingService) SetStatus(ctx context.Context, id string, status model.Status) ([]string, error) {
	if !status.Valid() {
		return nil, apperrors.InvalidInput("invalid approval value")
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if status != model.StatusApproved {
		if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
			return nil, s.translateRepoError(id, err)
		}

		s.cfg.Log.Info("Booking status changed", "id", id, "status", status.String())
		s.publishStatusChange(ctx, booking, status, nil)
		return nil, nil
	}

	// The advisory lock serializes concurrent approvals on the room; the
	// transaction makes the demotions and the promotion atomic.
	lock, err := s.acquireRoomLock(ctx, booking.RoomID)
	if err != nil {
		return nil, err
	}
	defer s.releaseRoomLock(ctx, lock)

	var demoted []string
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		affected, err := s.repo.BulkRejectApprovedOverlapping(sessCtx, booking.RoomID, booking.Start, booking.End)
		if err != nil {
			return apperrors.Internal("Database Error", err)
		}
		if err := s.repo.UpdateStatus(sessCtx, id, model.StatusApproved); err != nil {
			return s.translateRepoError(id, err)
		}

		demoted = withoutID(affected, booking.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking approved",
		"id", id,
		"room_id", booking.RoomID,
		"demoted", len(demoted),
	)
	s.publishStatusChange(ctx, booking, model.StatusApproved, demoted)
	return demoted, nil
}

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(id, err)
	}
	return booking, nil
}

func (s *bookingService) translateRepoError(id string, err error) error {
	// Malformed ids answer the same way as unknown ones; both are "no such
	// booking" on the wire.
	if errors.Is(err, bookingserrors.ErrNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	return apperrors.Internal("Database Error", err)
}

func (s *bookingService) acquireRoomLock(ctx context.Context, roomID string) (*model.RoomLock, error) {
	lock, err := s.lockRepo.Acquire(ctx, roomID, s.cfg.RoomLockTTL)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrRoomLockHeld) {
			return nil, apperrors.Conflict("This room is being booked by another request. Please try again.")
		}
		return nil, apperrors.Internal("Database Error", err)
	}
	return lock, nil
}

func (s *bookingService) releaseRoomLock(ctx context.Context, lock *model.RoomLock) {
	if err := s.lockRepo.Release(ctx, lock); err != nil {
		// TTL index reaps the lock once expires_at passes.
		s.cfg.Log.Warn("Failed to release room lock", "room_id", lock.ID, "error", err)
	}
}

func (s *bookingService) publishStatusChange(ctx context.Context, booking *model.Booking, status model.Status, demoted []string) {
	var eventType string
	switch status {
	case model.StatusApproved:
		eventType = events.TypeBookingApproved
	case model.StatusRejected:
		eventType = events.TypeBookingRejected
	default:
		eventType = events.TypeBookingReopened
	}

	updated := *booking
	updated.Approved = status
	s.publish(ctx, eventType, &updated, demoted)
}

// publish is best-effort: a broker failure is logged and never surfaced to
// the caller, whose state change has already committed.
func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking, demoted []string) {
	event, err := events.NewEvent(eventType, eventSource, events.BookingEvent{
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		Start:      booking.Start,
		End:        booking.End,
		Approved:   int(booking.Approved),
		DemotedIDs: demoted,
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to build booking event", "event_type", eventType, "error", err)
		return
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func bookingIDs(bookings []*model.Booking, excludeID string) []string {
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		ids = append(ids, b.ID)
	}
	return ids
}

func withoutID(ids []string, excludeID string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != excludeID {
			out = append(out, id)
		}
	}
	return out
}
