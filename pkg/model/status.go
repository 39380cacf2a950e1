package model

import (
	"encoding/json"
	"fmt"
)

// Status is the approval state of a booking request.
//
// The integer encoding is part of the wire and storage contract and must not
// change: 0 = pending, 1 = approved, 2 = rejected.
type Status int

const (
	StatusPending Status = iota
	StatusApproved
	StatusRejected
)

// ParseStatus converts a wire integer into a Status, rejecting values outside
// the three-state enum.
func ParseStatus(v int) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return 0, fmt.Errorf("invalid approval status: %d", v)
	}
	return s, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// UnmarshalJSON enforces the enum at the decoding boundary so a malformed
// status never reaches the service layer.
func (s *Status) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("approval status must be an integer: %w", err)
	}
	parsed, err := ParseStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
