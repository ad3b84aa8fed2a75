package model

import "time"

// BookingLock is an advisory lock taken around the overlap-check-then-
// write sequence. The _id encodes the slot coordinates, so a duplicate
// key error means another request is booking the same slot right now.
// A TTL index on expires_at reaps locks leaked by crashed processes.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
