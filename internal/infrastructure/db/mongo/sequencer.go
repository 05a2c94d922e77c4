package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fieldworks/backoffice/internal/core/listing"
)

const collectionCounters = "counters"

// Sequencer keeps one counter document per prefix and year.
type Sequencer struct {
	col *mongo.Collection
}

func NewSequencer(db *mongo.Database) *Sequencer {
	return &Sequencer{col: db.Collection(collectionCounters)}
}

func (s *Sequencer) Next(ctx context.Context, prefix string, year int) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": listing.SequenceKey(prefix, year)},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("sequence %s/%d: %w", prefix, year, err)
	}
	return doc.Seq, nil
}
