package repository

// Pagination carries cursor-based pagination parameters. The cursor is the
// store's opaque continuation token; callers treat it as a black box.
type Pagination struct {
	Limit  int32
	Cursor string
	// Backward reverses the natural sort order of the listing.
	Backward bool
}

// EffectiveLimit returns the page size with bounds applied.
func (p Pagination) EffectiveLimit() int32 {
	const (
		defaultLimit = 50
		maxLimit     = 200
	)
	if p.Limit <= 0 {
		return defaultLimit
	}
	if p.Limit > maxLimit {
		return maxLimit
	}
	return p.Limit
}

// Page is one page of a listing plus its continuation cursor.
type Page[T any] struct {
	Items      []T
	NextCursor string
}
