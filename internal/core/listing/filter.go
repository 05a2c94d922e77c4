package listing

import (
	"slices"
	"strings"
)

// Filter returns, in input order, the records that match q.Search on at least
// one search field and every active filter in q. Case folding uses
// strings.ToLower on both sides; filter values compare exactly.
// Pagination fields of q are ignored.
func Filter[T any](records []T, search []Field[T], filters map[string]Field[T], q Query) []T {
	needle := strings.ToLower(q.Search)
	active := q.Active()

	out := make([]T, 0, len(records))
	for _, r := range records {
		if !matchSearch(r, search, needle) {
			continue
		}
		if !matchFilters(r, filters, active) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Match reports whether a single record passes q.
func Match[T any](r T, search []Field[T], filters map[string]Field[T], q Query) bool {
	return matchSearch(r, search, strings.ToLower(q.Search)) && matchFilters(r, filters, q.Active())
}

func matchSearch[T any](r T, fields []Field[T], needle string) bool {
	if needle == "" || len(fields) == 0 {
		return true
	}
	for _, f := range fields {
		for _, v := range f.Values(r) {
			if strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		}
	}
	return false
}

func matchFilters[T any](r T, fields map[string]Field[T], active map[string]string) bool {
	for name, want := range active {
		f, ok := fields[name]
		if !ok {
			return false
		}
		if !slices.Contains(f.Values(r), want) {
			return false
		}
	}
	return true
}
