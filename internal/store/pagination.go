package store

// Pagination defaults and bounds for list queries.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// normalizePage clamps page/limit to sane values and returns the SQL
// limit and offset. A page or limit of 0 means "use the default".
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return limit, (page - 1) * limit
}
