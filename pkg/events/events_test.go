package events

import (
	"context"
	"encoding/json"
	"testing"
)

func TestNewEvent(t *testing.T) {
	payload := BookingEvent{
		BookingID:  "64b0c5f2a1d2e3f4a5b6c7d8",
		RoomID:     "64b0c5f2a1d2e3f4a5b6c7d9",
		Start:      100,
		End:        200,
		Approved:   1,
		DemotedIDs: []string{"64b0c5f2a1d2e3f4a5b6c7da"},
	}

	event, err := NewEvent(TypeBookingApproved, "bookings", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if event.Key != payload.RoomID {
		t.Errorf("expected event keyed by room id, got %q", event.Key)
	}
	if event.Type != TypeBookingApproved {
		t.Errorf("Type = %q, want %q", event.Type, TypeBookingApproved)
	}
	if event.Headers[HeaderEventType] != TypeBookingApproved {
		t.Errorf("missing event-type header, got %v", event.Headers)
	}
	if event.Headers[HeaderEventID] == "" {
		t.Error("expected generated event id header")
	}
	if event.Headers[HeaderSource] != "bookings" {
		t.Errorf("source header = %q", event.Headers[HeaderSource])
	}

	var decoded BookingEvent
	if err := json.Unmarshal(event.Value, &decoded); err != nil {
		t.Fatalf("payload does not round-trip: %v", err)
	}
	if decoded.BookingID != payload.BookingID || len(decoded.DemotedIDs) != 1 {
		t.Errorf("decoded payload mismatch: %+v", decoded)
	}
}

func TestNoopPublisher(t *testing.T) {
	var pub Publisher = Noop{}

	if err := pub.Publish(context.Background(), Event{}); err != nil {
		t.Errorf("Noop.Publish() = %v, want nil", err)
	}
	if err := pub.Close(); err != nil {
		t.Errorf("Noop.Close() = %v, want nil", err)
	}
}
