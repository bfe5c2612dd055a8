package query

// PageResult is one page of items plus pagination metadata.
type PageResult[T any] struct {
	Items        []T   `json:"items"`
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// NewPageResult assembles the envelope; a nil slice becomes empty.
func NewPageResult[T any](items []T, total int64, page, limit int) *PageResult[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return &PageResult[T]{
		Items:        items,
		CurrentPage:  page,
		TotalPages:   TotalPages(total, limit),
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}

// Map converts the items of a page and keeps its metadata.
func Map[T, U any](page *PageResult[T], fn func(T) U) *PageResult[U] {
	items := make([]U, len(page.Items))
	for i, item := range page.Items {
		items[i] = fn(item)
	}
	return &PageResult[U]{
		Items:        items,
		CurrentPage:  page.CurrentPage,
		TotalPages:   page.TotalPages,
		TotalItems:   page.TotalItems,
		ItemsPerPage: page.ItemsPerPage,
	}
}
