package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionCounters = "counters"

// nextSequence atomically increments and returns the named counter. It backs
// the integer ids exposed by the API; findOneAndUpdate with upsert makes the
// allocation safe under concurrent creates.
func nextSequence(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := db.Collection(collectionCounters).FindOneAndUpdate(
		ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next sequence %q: %w", name, err)
	}
	return counter.Seq, nil
}
