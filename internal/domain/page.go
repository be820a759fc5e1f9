package domain

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is one slice of a list plus the unfiltered total. Total and Items are
// read independently and may disagree under concurrent writes.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

// NormalizePage clamps 1-based page and size and returns the row offset.
func NormalizePage(page, size int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size, (page - 1) * size
}
