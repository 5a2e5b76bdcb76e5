package model

// Page is one page of a listing plus the metadata needed to navigate it.
type Page[T any] struct {
	Items      []T
	TotalCount int
	Page       int
	PageSize   int
}

// TotalPages returns ceil(TotalCount / PageSize), and 0 for an empty listing.
func (p Page[T]) TotalPages() int {
	if p.TotalCount == 0 || p.PageSize <= 0 {
		return 0
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

func (p Page[T]) HasPreviousPage() bool {
	return p.Page > 1
}

func (p Page[T]) HasNextPage() bool {
	return p.Page < p.TotalPages()
}
