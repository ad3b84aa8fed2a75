package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CounterCollectionName = "Rate_counters"

// CounterStore is a fixed-window keyed counter backed by Mongo. The
// increment is a single atomic upsert, so the count holds across
// process restarts and across horizontally scaled instances. Expired
// windows are reaped by a TTL index on expires_at.
type CounterStore struct {
	collection *mongo.Collection
}

type counterDoc struct {
	ID        string    `bson:"_id"`
	Count     int64     `bson:"count"`
	ExpiresAt time.Time `bson:"expires_at"`
}

func NewCounterStore(db *mongo.Database) *CounterStore {
	return &CounterStore{collection: db.Collection(CounterCollectionName)}
}

// Incr bumps the counter for key in the current window and returns the
// post-increment count.
func (s *CounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	windowStart := time.Now().UTC().Truncate(window)
	docID := fmt.Sprintf("%s:%d", key, windowStart.Unix())

	update := bson.M{
		"$inc": bson.M{"count": 1},
		// Keep the document one extra window beyond its end so a slow
		// TTL monitor never resurrects a half-counted window.
		"$setOnInsert": bson.M{"expires_at": windowStart.Add(2 * window)},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDoc
	if err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": docID}, update, opts).Decode(&doc); err != nil {
		return 0, fmt.Errorf("failed to increment rate counter: %w", err)
	}

	return doc.Count, nil
}
