package util

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a resolved page window. Number is 1-based.
type Page struct {
	Number int `json:"page"`
	Size   int `json:"size"`
	From   int `json:"-"`
}

// Paginate clamps a requested page and size: pages start at 1, sizes outside
// (0, MaxPageSize] fall back to DefaultPageSize.
func Paginate(page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return Page{Number: page, Size: size, From: (page - 1) * size}
}
