package listing

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fieldworks/backoffice/internal/core/domain"
)

type crewMember struct {
	domain.Meta
	Name   string
	Trade  string
	Skills []string
	Flags  map[string]bool
}

var crewSchema = Schema[*crewMember]{
	Resource: "crew",
	Prefix:   "CR",
	New:      func() *crewMember { return &crewMember{} },
	Search: []Field[*crewMember]{
		Text("name", func(c *crewMember) string { return c.Name }),
		List("skills", func(c *crewMember) []string { return c.Skills }),
	},
	Filters: map[string]Field[*crewMember]{
		"trade": Text("trade", func(c *crewMember) string { return c.Trade }),
		"skill": List("skills", func(c *crewMember) []string { return c.Skills }),
		"flag":  Flags("flags", func(c *crewMember) map[string]bool { return c.Flags }),
	},
}

func crewFixture() []*crewMember {
	return []*crewMember{
		{Meta: domain.Meta{ID: "1"}, Name: "Ana Torres", Trade: "electrician", Skills: []string{"Wiring", "Solar"}, Flags: map[string]bool{"lead": true}},
		{Meta: domain.Meta{ID: "2"}, Name: "Bruno Díaz", Trade: "plumber", Skills: []string{"Pipes"}, Flags: map[string]bool{"lead": false}},
		{Meta: domain.Meta{ID: "3"}, Name: "Carla Ruiz", Trade: "electrician", Skills: []string{"Panels"}},
		{Meta: domain.Meta{ID: "4"}, Name: "Diego Wiring", Trade: "carpenter"},
	}
}

func ids(items []*crewMember) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestFilter_SearchIsCaseInsensitiveSubstringAcrossFields(t *testing.T) {
	got := crewSchema.Filter(crewFixture(), Query{Search: "WIRING"})
	if diff := cmp.Diff([]string{"1", "4"}, ids(got)); diff != "" {
		t.Errorf("search mismatch (-want +got):\n%s", diff)
	}
}

func TestFilter_EmptySearchPassesEverything(t *testing.T) {
	got := crewSchema.Filter(crewFixture(), Query{})
	if len(got) != 4 {
		t.Fatalf("expected 4 records, got %d", len(got))
	}
}

func TestFilter_NoSearchFieldsPassesTextCheck(t *testing.T) {
	s := crewSchema
	s.Search = nil
	got := s.Filter(crewFixture(), Query{Search: "nothing matches this"})
	if len(got) != 4 {
		t.Fatalf("expected all records without search fields, got %d", len(got))
	}
}

func TestFilter_AllSentinelIsIgnored(t *testing.T) {
	got := crewSchema.Filter(crewFixture(), Query{Filters: map[string]string{"trade": All, "skill": ""}})
	if len(got) != 4 {
		t.Fatalf("expected 4 records, got %d", len(got))
	}
}

func TestFilter_CategoricalIsExactAndAnded(t *testing.T) {
	cases := []struct {
		name    string
		filters map[string]string
		want    []string
	}{
		{"scalar", map[string]string{"trade": "electrician"}, []string{"1", "3"}},
		{"scalar is case sensitive", map[string]string{"trade": "Electrician"}, []string{}},
		{"list contains", map[string]string{"skill": "Panels"}, []string{"3"}},
		{"flag set", map[string]string{"flag": "lead"}, []string{"1"}},
		{"anded", map[string]string{"trade": "electrician", "skill": "Solar"}, []string{"1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := crewSchema.Filter(crewFixture(), Query{Filters: tc.filters})
			if diff := cmp.Diff(tc.want, ids(got)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilter_SearchAndFilterCombine(t *testing.T) {
	got := crewSchema.Filter(crewFixture(), Query{Search: "r", Filters: map[string]string{"trade": "electrician"}})
	if diff := cmp.Diff([]string{"1", "3"}, ids(got)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFilter_Idempotent(t *testing.T) {
	queries := []Query{
		{Search: "a"},
		{Search: "ruiz", Filters: map[string]string{"trade": "electrician"}},
		{Filters: map[string]string{"skill": "Pipes"}},
		{Search: "zzz"},
	}
	for _, q := range queries {
		once := crewSchema.Filter(crewFixture(), q)
		twice := crewSchema.Filter(once, q)
		if diff := cmp.Diff(ids(once), ids(twice)); diff != "" {
			t.Errorf("query %+v not idempotent (-once +twice):\n%s", q, diff)
		}
	}
}

func TestFilter_DoesNotAliasInput(t *testing.T) {
	in := crewFixture()
	out := crewSchema.Filter(in, Query{})
	out[0] = nil
	if in[0] == nil {
		t.Fatal("filter result must not share the input backing array")
	}
}

func TestSchema_CheckQueryRejectsUnknownFilter(t *testing.T) {
	err := crewSchema.CheckQuery(Query{Filters: map[string]string{"colour": "red"}})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Field != "filter[colour]" {
		t.Errorf("field = %q", ve.Field)
	}
	if err := crewSchema.CheckQuery(Query{Filters: map[string]string{"trade": "x"}}); err != nil {
		t.Errorf("known filter rejected: %v", err)
	}
}

func TestSchema_CheckQueryRejectsFlagPathSyntax(t *testing.T) {
	for _, value := range []string{"$where", "lead.x", "a$b", "."} {
		err := crewSchema.CheckQuery(Query{Filters: map[string]string{"flag": value}})
		var ve *domain.ValidationError
		if !errors.As(err, &ve) || ve.Field != "filter[flag]" {
			t.Fatalf("value %q: expected validation error on filter[flag], got %v", value, err)
		}
	}
	for _, value := range []string{"lead", "all", ""} {
		if err := crewSchema.CheckQuery(Query{Filters: map[string]string{"flag": value}}); err != nil {
			t.Errorf("value %q rejected: %v", value, err)
		}
	}
	// Dots are fine outside flag filters.
	if err := crewSchema.CheckQuery(Query{Filters: map[string]string{"trade": "a.b"}}); err != nil {
		t.Errorf("text filter rejected: %v", err)
	}
}

func TestFlags_ValuesAreSortedTrueKeys(t *testing.T) {
	f := Flags("p", func(m map[string]bool) map[string]bool { return m })
	got := f.Values(map[string]bool{"write": true, "admin": true, "read": false})
	if diff := cmp.Diff([]string{"admin", "write"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
