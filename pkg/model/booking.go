package model

import "time"

// Booking is a room booking request. The interval [Start, End) is half-open
// and immutable after creation; only the Approved field ever changes.
type Booking struct {
	ID          string    `json:"bookingId,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomID      string    `json:"roomId" bson:"room_id" validate:"required,mongodb"`
	Description string    `json:"description" bson:"description" validate:"required,min=1,max=500"`
	CreatedBy   string    `json:"-" bson:"created_by" validate:"required"`
	Start       int64     `json:"start" bson:"start" validate:"min=0"`
	End         int64     `json:"end" bson:"end" validate:"required,gtfield=Start"`
	Approved    Status    `json:"approved" bson:"approved"`
	CreatedAt   time.Time `json:"-" bson:"created_at,omitempty"`
}

// Overlaps reports whether the booking's interval intersects [start, end)
// under half-open semantics: touching boundaries do not overlap.
func (b *Booking) Overlaps(start, end int64) bool {
	return b.Start < end && start < b.End
}
