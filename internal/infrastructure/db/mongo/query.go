package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fieldworks/backoffice/internal/core/listing"
)

// buildMatch translates a list query into a $match document with the same
// semantics as listing.Filter: a case-insensitive substring search OR-ed over
// the search fields, AND-ed with exact filter values.
func buildMatch[T any](search []listing.Field[T], filters map[string]listing.Field[T], q listing.Query) bson.M {
	match := bson.M{}

	if q.Search != "" && len(search) > 0 {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		or := make(bson.A, 0, len(search))
		for _, f := range search {
			or = append(or, bson.M{f.Key: re})
		}
		match["$or"] = or
	}

	for name, value := range q.Active() {
		f, ok := filters[name]
		if !ok {
			// Unknown dimensions are rejected upstream; match nothing if one slips through.
			match["_id"] = bson.M{"$exists": false}
			continue
		}
		switch f.Kind {
		case listing.KindFlags:
			if !listing.ValidFlagName(value) {
				match["_id"] = bson.M{"$exists": false}
				continue
			}
			match[f.Key+"."+value] = true
		default:
			// Equality also matches one element of an array field.
			match[f.Key] = value
		}
	}
	return match
}

// insertionOrder sorts records the way they were created.
var insertionOrder = bson.D{
	{Key: "created_at", Value: 1},
	{Key: "display_id", Value: 1},
	{Key: "_id", Value: 1},
}
