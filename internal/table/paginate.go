package table

import "fmt"

// DefaultPageSize is the page size used when a table does not set one.
const DefaultPageSize = 10

// PageState is the requested page. CurrentPage is 1-based.
type PageState struct {
	PageSize    int `json:"page_size"`
	CurrentPage int `json:"page"`
}

// NewPageState returns page 1 with the given size.
// A size of zero or less is a configuration error.
func NewPageState(size int) (PageState, error) {
	if size <= 0 {
		return PageState{}, fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}
	return PageState{PageSize: size, CurrentPage: 1}, nil
}

// Page is one slice of an ordered result.
type Page struct {
	Rows        []Record
	TotalPages  int
	TotalCount  int
	CurrentPage int // Clamped into [1, TotalPages]
}

// TotalPages returns max(1, ceil(count/size)).
func TotalPages(count, size int) int {
	if size <= 0 || count <= 0 {
		return 1
	}
	pages := count / size
	if count%size != 0 {
		pages++
	}
	return pages
}

// Paginate slices records into the requested page.
//
// A current page beyond the last page is clamped to the last page, and one
// below 1 is clamped to 1, so a shrinking result never strands the caller on
// an empty page. An invalid page size is an error, not clamped.
func Paginate(records []Record, ps PageState) (Page, error) {
	if ps.PageSize <= 0 {
		return Page{}, fmt.Errorf("%w: %d", ErrInvalidPageSize, ps.PageSize)
	}

	total := len(records)
	pages := TotalPages(total, ps.PageSize)

	current := ps.CurrentPage
	if current < 1 {
		current = 1
	}
	if current > pages {
		current = pages
	}

	// current <= pages, so start <= total and cannot overflow
	start := (current - 1) * ps.PageSize
	end := start + min(ps.PageSize, total-start)

	return Page{
		Rows:        records[start:end:end],
		TotalPages:  pages,
		TotalCount:  total,
		CurrentPage: current,
	}, nil
}
