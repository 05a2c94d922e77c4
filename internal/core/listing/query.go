package listing

// All is the filter sentinel meaning "do not filter on this dimension".
const All = "all"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Query is a list request: free-text search, categorical filters and a page.
type Query struct {
	Search   string
	Filters  map[string]string
	Page     int // 1-based
	PageSize int
}

// Active returns the filters that actually constrain the result.
func (q Query) Active() map[string]string {
	out := make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		if v == "" || v == All {
			continue
		}
		out[k] = v
	}
	return out
}
