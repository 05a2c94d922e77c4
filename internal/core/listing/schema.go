// Package listing holds the list-resource engine shared by every entity:
// per-entity field schemas, the filter engine, the paginator and display-id
// formatting. Everything here is pure and safe for concurrent use.
package listing

import (
	"slices"
	"strings"

	"github.com/fieldworks/backoffice/internal/core/domain"
)

// FieldKind tells storage adapters how a field is laid out in a document.
type FieldKind int

const (
	// KindText is a scalar string or a list of strings.
	KindText FieldKind = iota
	// KindFlags is a map[string]bool; its values are the keys set to true.
	KindFlags
)

// Field exposes one searchable or filterable attribute of T.
type Field[T any] struct {
	Key    string // document key, as stored and serialised
	Kind   FieldKind
	Values func(T) []string
}

// Text declares a scalar string field.
func Text[T any](key string, get func(T) string) Field[T] {
	return Field[T]{Key: key, Kind: KindText, Values: func(r T) []string {
		return []string{get(r)}
	}}
}

// List declares a string-list field.
func List[T any](key string, get func(T) []string) Field[T] {
	return Field[T]{Key: key, Kind: KindText, Values: get}
}

// Flags declares a boolean flag map field.
func Flags[T any](key string, get func(T) map[string]bool) Field[T] {
	return Field[T]{Key: key, Kind: KindFlags, Values: func(r T) []string {
		m := get(r)
		out := make([]string, 0, len(m))
		for k, on := range m {
			if on {
				out = append(out, k)
			}
		}
		slices.Sort(out)
		return out
	}}
}

// Reference links a field holding record ids to another resource. Filter
// names the filter dimension that matches on the same field, so referrers can
// be found through the ordinary list path.
type Reference[T any] struct {
	Filter string
	Target string
	IDs    func(T) []string
}

// Schema describes one entity type to the engine.
type Schema[T domain.Record] struct {
	Resource string // URL segment and collection name, e.g. "jobs"
	Prefix   string // display-id prefix, e.g. "JOB"

	New       func() T
	Label     func(T) string
	Normalize func(T) // defaults and derived fields, applied before validation

	Search     []Field[T]
	Filters    map[string]Field[T]
	References []Reference[T]
}

// FilterNames returns the filter dimensions in a stable order.
func (s Schema[T]) FilterNames() []string {
	names := make([]string, 0, len(s.Filters))
	for name := range s.Filters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CheckQuery rejects filters the schema does not define.
func (s Schema[T]) CheckQuery(q Query) error {
	for name, value := range q.Filters {
		f, ok := s.Filters[name]
		if !ok {
			return domain.NewValidationError("filter["+name+"]", "unknown",
				"unknown filter "+name+" for "+s.Resource)
		}
		if f.Kind == KindFlags && !ValidFlagName(value) {
			return domain.NewValidationError("filter["+name+"]", "flag",
				"flag "+value+" may not contain '$' or '.'")
		}
	}
	return nil
}

// ValidFlagName reports whether value can name a key of a flags field. Flag
// keys become document field paths in some stores.
func ValidFlagName(value string) bool {
	return !strings.ContainsAny(value, "$.")
}

// Filter runs the filter engine with the schema's fields.
func (s Schema[T]) Filter(records []T, q Query) []T {
	return Filter(records, s.Search, s.Filters, q)
}

// Match reports whether one record passes q under this schema.
func (s Schema[T]) Match(r T, q Query) bool {
	return Match(r, s.Search, s.Filters, q)
}
