package repository

import (
	"testing"

	"roombook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

func TestOverlapFilter_ApprovedScope(t *testing.T) {
	filter := overlapFilter("room-1", 100, 200, statusFilter(model.StatusApproved))

	if filter["room_id"] != "room-1" {
		t.Errorf("room_id = %v", filter["room_id"])
	}
	if filter["approved"] != model.StatusApproved {
		t.Errorf("approved = %v, want StatusApproved", filter["approved"])
	}

	start, ok := filter["start"].(bson.M)
	if !ok || start["$lt"] != int64(200) {
		t.Errorf("start filter = %v, want $lt end", filter["start"])
	}
	end, ok := filter["end"].(bson.M)
	if !ok || end["$gt"] != int64(100) {
		t.Errorf("end filter = %v, want $gt start", filter["end"])
	}
}

func TestOverlapFilter_AnyState(t *testing.T) {
	filter := overlapFilter("room-1", 100, 200, anyStatus())

	if _, present := filter["approved"]; present {
		t.Error("any-state filter must not constrain approval status")
	}
	if len(filter) != 3 {
		t.Errorf("expected room_id + two range clauses, got %v", filter)
	}
}

// The range clauses use strict inequalities, so a stored [a,b) touching the
// candidate at b == start or a == end is excluded. This mirrors the half-open
// contract exercised end to end in the service tests.
func TestOverlapFilter_StrictInequalities(t *testing.T) {
	filter := overlapFilter("room-1", 20, 30, statusFilter(model.StatusApproved))

	start := filter["start"].(bson.M)
	if _, hasLTE := start["$lte"]; hasLTE {
		t.Error("start clause must use $lt, not $lte")
	}
	end := filter["end"].(bson.M)
	if _, hasGTE := end["$gte"]; hasGTE {
		t.Error("end clause must use $gt, not $gte")
	}
}
