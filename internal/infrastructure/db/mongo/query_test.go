package mongo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fieldworks/backoffice/internal/core/catalog"
	"github.com/fieldworks/backoffice/internal/core/listing"
)

func TestBuildMatch(t *testing.T) {
	jobs := catalog.Jobs
	users := catalog.Users

	cases := []struct {
		name string
		got  bson.M
		want bson.M
	}{
		{
			name: "empty query",
			got:  buildMatch(jobs.Search, jobs.Filters, listing.Query{}),
			want: bson.M{},
		},
		{
			name: "all sentinel ignored",
			got:  buildMatch(jobs.Search, jobs.Filters, listing.Query{Filters: map[string]string{"status": "all", "priority": ""}}),
			want: bson.M{},
		},
		{
			name: "search is quoted and case-insensitive",
			got:  buildMatch(jobs.Search, jobs.Filters, listing.Query{Search: "a.b"}),
			want: bson.M{"$or": bson.A{
				bson.M{"display_id": primitive.Regex{Pattern: `a\.b`, Options: "i"}},
				bson.M{"title": primitive.Regex{Pattern: `a\.b`, Options: "i"}},
				bson.M{"client": primitive.Regex{Pattern: `a\.b`, Options: "i"}},
				bson.M{"location": primitive.Regex{Pattern: `a\.b`, Options: "i"}},
			}},
		},
		{
			name: "filters map to document keys",
			got:  buildMatch(jobs.Search, jobs.Filters, listing.Query{Filters: map[string]string{"status": "pending", "labor": "l-1"}}),
			want: bson.M{"status": "pending", "assigned_labor": "l-1"},
		},
		{
			name: "flag filter",
			got:  buildMatch(users.Search, users.Filters, listing.Query{Filters: map[string]string{"permission": "billing"}}),
			want: bson.M{"permissions.billing": true},
		},
		{
			name: "flag filter with path syntax matches nothing",
			got:  buildMatch(users.Search, users.Filters, listing.Query{Filters: map[string]string{"permission": "x.$ne"}}),
			want: bson.M{"_id": bson.M{"$exists": false}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, tc.got); diff != "" {
				t.Fatalf("match mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCollectionName(t *testing.T) {
	if got := CollectionName("lead-labor"); got != "lead_labor" {
		t.Fatalf("expected lead_labor, got %s", got)
	}
	if got := CollectionName("jobs"); got != "jobs" {
		t.Fatalf("expected jobs, got %s", got)
	}
}
