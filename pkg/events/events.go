// Package events publishes booking lifecycle events to Kafka. Events are
// keyed by room id so consumers observe per-room ordering; publishing is
// best-effort and never blocks the HTTP response path on broker failures.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeBookingCreated  = "booking.created"
	TypeBookingApproved = "booking.approved"
	TypeBookingRejected = "booking.rejected"
	TypeBookingReopened = "booking.reopened"
)

const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// BookingEvent is the payload of every lifecycle event.
type BookingEvent struct {
	BookingID  string   `json:"bookingId"`
	RoomID     string   `json:"roomId"`
	Start      int64    `json:"start"`
	End        int64    `json:"end"`
	Approved   int      `json:"approved"`
	DemotedIDs []string `json:"demotedIds,omitempty"`
}

// Event is a typed message ready for the broker.
type Event struct {
	Key       string
	Type      string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// NewEvent builds an Event keyed by the booking's room, with the standard
// headers filled in.
func NewEvent(eventType, source string, payload BookingEvent) (Event, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	now := time.Now()
	return Event{
		Key:   payload.RoomID,
		Type:  eventType,
		Value: value,
		Headers: map[string]string{
			HeaderEventID:   uuid.New().String(),
			HeaderEventType: eventType,
			HeaderSource:    source,
			HeaderTimestamp: now.Format(time.RFC3339),
		},
		Timestamp: now,
	}, nil
}

// Publisher is the service-facing surface; Noop satisfies it when eventing
// is disabled.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type Noop struct{}

func (Noop) Publish(ctx context.Context, event Event) error { return nil }
func (Noop) Close() error                                   { return nil }
