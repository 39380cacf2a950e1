package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrRoomLockHeld means another request holds the room's advisory lock.
	ErrRoomLockHeld = errors.New("room is locked by a concurrent booking operation")
)
