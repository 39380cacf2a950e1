package model

import (
	"encoding/json"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		want    Status
		wantErr bool
	}{
		{name: "pending", value: 0, want: StatusPending},
		{name: "approved", value: 1, want: StatusApproved},
		{name: "rejected", value: 2, want: StatusRejected},
		{name: "out of range high", value: 5, wantErr: true},
		{name: "negative", value: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStatus(%d) expected error, got %v", tt.value, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%d) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%d) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestStatus_String(t *testing.T) {
	if StatusPending.String() != "pending" {
		t.Errorf("StatusPending.String() = %q", StatusPending.String())
	}
	if StatusApproved.String() != "approved" {
		t.Errorf("StatusApproved.String() = %q", StatusApproved.String())
	}
	if StatusRejected.String() != "rejected" {
		t.Errorf("StatusRejected.String() = %q", StatusRejected.String())
	}
}

func TestStatus_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Approved Status `json:"approved"`
	}

	if err := json.Unmarshal([]byte(`{"approved": 1}`), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Approved != StatusApproved {
		t.Errorf("expected StatusApproved, got %v", payload.Approved)
	}

	if err := json.Unmarshal([]byte(`{"approved": 5}`), &payload); err == nil {
		t.Error("expected error for out-of-range status")
	}
	if err := json.Unmarshal([]byte(`{"approved": "approved"}`), &payload); err == nil {
		t.Error("expected error for non-integer status")
	}
}

func TestStatus_MarshalJSON_WireEncoding(t *testing.T) {
	data, err := json.Marshal(map[string]Status{"approved": StatusRejected})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"approved":2}` {
		t.Errorf("expected integer wire encoding, got %s", data)
	}
}

func TestBooking_Overlaps(t *testing.T) {
	b := &Booking{Start: 10, End: 20}

	tests := []struct {
		name       string
		start, end int64
		want       bool
	}{
		{name: "identical interval", start: 10, end: 20, want: true},
		{name: "partial overlap right", start: 15, end: 25, want: true},
		{name: "partial overlap left", start: 5, end: 15, want: true},
		{name: "containing interval", start: 0, end: 100, want: true},
		{name: "contained interval", start: 12, end: 18, want: true},
		{name: "touching at end is not overlap", start: 20, end: 30, want: false},
		{name: "touching at start is not overlap", start: 0, end: 10, want: false},
		{name: "disjoint after", start: 30, end: 40, want: false},
		{name: "disjoint before", start: 0, end: 5, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Overlaps(tt.start, tt.end); got != tt.want {
				t.Errorf("Overlaps(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}
