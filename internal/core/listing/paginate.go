package listing

import "math"

// Page is one slice of a filtered result plus the totals needed to walk it.
type Page[T any] struct {
	Items      []T
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// TotalPages is ceil(total/pageSize), or 0 for an empty result.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Paginate returns items[(page-1)*pageSize : page*pageSize] clamped to the
// sequence bounds. The page number itself is not clamped: a page outside
// [1, TotalPages] yields no items but still reports the totals. A pageSize
// below 1 falls back to DefaultPageSize.
func Paginate[T any](items []T, pageSize, page int) Page[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	n := len(items)
	p := Page[T]{
		Items:      []T{},
		Total:      n,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(n, pageSize),
	}
	if page < 1 || page-1 >= p.TotalPages {
		return p
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, n)
	p.Items = append(p.Items, items[start:end]...)
	return p
}

// Window converts page and pageSize into a skip/limit pair for stores that
// paginate natively. ok is false when the page cannot contain anything.
func Window(pageSize, page int) (skip, limit int, ok bool) {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if page < 1 || page-1 > (math.MaxInt-pageSize)/pageSize {
		return 0, pageSize, false
	}
	return (page - 1) * pageSize, pageSize, true
}
