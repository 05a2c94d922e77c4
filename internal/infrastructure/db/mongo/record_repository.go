package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fieldworks/backoffice/internal/core/domain"
	"github.com/fieldworks/backoffice/internal/core/listing"
)

// RecordRepository stores one resource in its own collection.
type RecordRepository[T domain.Record] struct {
	col    *mongo.Collection
	schema listing.Schema[T]
}

// CollectionName maps a resource name to a collection, e.g. "lead-labor" to "lead_labor".
func CollectionName(resource string) string {
	return strings.ReplaceAll(resource, "-", "_")
}

func NewRecordRepository[T domain.Record](db *mongo.Database, schema listing.Schema[T]) *RecordRepository[T] {
	return &RecordRepository[T]{col: db.Collection(CollectionName(schema.Resource)), schema: schema}
}

type listResult struct {
	Items []bson.Raw `bson:"items"`
	Total []struct {
		N int `bson:"n"`
	} `bson:"total"`
}

// List runs a single $facet aggregation so that the page and its totals
// come from the same read.
func (r *RecordRepository[T]) List(ctx context.Context, q listing.Query) (listing.Page[T], error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	skip, limit, ok := listing.Window(q.PageSize, q.Page)
	items := bson.A{bson.M{"$skip": skip}, bson.M{"$limit": limit}}
	if !ok {
		items = bson.A{bson.M{"$limit": 0}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: buildMatch(r.schema.Search, r.schema.Filters, q)}},
		{{Key: "$sort", Value: insertionOrder}},
		{{Key: "$facet", Value: bson.M{
			"items": items,
			"total": bson.A{bson.M{"$count": "n"}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return listing.Page[T]{}, fmt.Errorf("aggregate %s: %w", r.col.Name(), err)
	}
	defer cur.Close(ctx)

	var res listResult
	if cur.Next(ctx) {
		if err := cur.Decode(&res); err != nil {
			return listing.Page[T]{}, fmt.Errorf("decode %s page: %w", r.col.Name(), err)
		}
	}
	if err := cur.Err(); err != nil {
		return listing.Page[T]{}, err
	}

	total := 0
	if len(res.Total) > 0 {
		total = res.Total[0].N
	}
	page := listing.Page[T]{
		Items:      make([]T, 0, len(res.Items)),
		Total:      total,
		Page:       q.Page,
		PageSize:   limit,
		TotalPages: listing.TotalPages(total, limit),
	}
	for _, raw := range res.Items {
		rec := r.schema.New()
		if err := bson.Unmarshal(raw, rec); err != nil {
			return listing.Page[T]{}, fmt.Errorf("decode %s record: %w", r.col.Name(), err)
		}
		page.Items = append(page.Items, rec)
	}
	return page, nil
}

func (r *RecordRepository[T]) Get(ctx context.Context, id string) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rec := r.schema.New()
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(rec)
	if err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, domain.ErrNotFound
		}
		return zero, err
	}
	return rec, nil
}

func (r *RecordRepository[T]) Insert(ctx context.Context, rec T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateID
		}
		return err
	}
	return nil
}

// Replace swaps the document only while its version is still expectedVersion.
func (r *RecordRepository[T]) Replace(ctx context.Context, rec T, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id := rec.Base().ID
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": id, "version": expectedVersion}, rec)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrVersionConflict
}

func (r *RecordRepository[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the ordering index, a unique display-id index and one
// index per filter dimension.
func (r *RecordRepository[T]) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: insertionOrder},
		{Keys: bson.D{{Key: "display_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	for _, name := range r.schema.FilterNames() {
		f := r.schema.Filters[name]
		if f.Kind == listing.KindFlags {
			continue
		}
		indexes = append(indexes, mongo.IndexModel{Keys: bson.D{{Key: f.Key, Value: 1}}})
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
