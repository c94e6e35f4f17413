package model

import "time"

// AdvisoryLock is a short-lived mutex document. Writers insert one under a
// unique _id before running a check-then-persist sequence; the unique index
// turns concurrent attempts into duplicate-key conflicts, and the TTL index
// on expires_at reaps locks left behind by crashed workers.
type AdvisoryLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
