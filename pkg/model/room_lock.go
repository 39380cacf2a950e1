package model

import "time"

// RoomLock is an advisory lock serializing booking writes for a single room.
// The lock document's _id is the room id, so a second concurrent acquisition
// fails with a duplicate key error. ExpiresAt lets a TTL index reap locks
// orphaned by a crashed process.
type RoomLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
