package user

// PageResult is a windowed view over an ordered result set.
type PageResult[T any] struct {
	Count           int64 // Number of items on this page
	TotalPages      int64 // Total number of pages for the full set
	HasPreviousPage bool
	HasNextPage     bool
	Items           []T
}

// NewPageResult computes page metadata for a window of items taken from a set of total
// records. pageNumber is 1-based; pageNumber and pageSize must both be at least 1.
func NewPageResult[T any](items []T, total, pageNumber, pageSize int64) *PageResult[T] {
	var totalPages int64
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	if items == nil {
		items = []T{}
	}

	return &PageResult[T]{
		Count:           int64(len(items)),
		TotalPages:      totalPages,
		HasPreviousPage: pageNumber > 1,
		HasNextPage:     pageNumber < totalPages,
		Items:           items,
	}
}

// Offset returns the index of the first record on pageNumber.
func Offset(pageNumber, pageSize int64) int64 {
	if pageNumber < 1 {
		return 0
	}
	return (pageNumber - 1) * pageSize
}
