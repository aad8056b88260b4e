package filter

// DefaultPageSize is used when a page is requested without a positive size.
const DefaultPageSize = 10

// Page describes one page of a paginated query.
//
// Number and Size are requested by the caller; TotalCount and TotalPages are filled
// in by Clamp once the matching row count is known.
type Page struct {
	Number     int   `json:"page"`
	Size       int   `json:"size"`
	TotalCount int64 `json:"total"`
	TotalPages int   `json:"pages"`
}

// NewPage returns a page with non-positive arguments replaced by the defaults
// (page 1, size DefaultPageSize).
func NewPage(number, size int) Page {
	p := Page{Number: number, Size: size, TotalPages: 1}
	return p.normalized()
}

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	return p
}

// StartRow is the zero-based offset of the first row on the page.
func (p Page) StartRow() int {
	p = p.normalized()
	return (p.Number - 1) * p.Size
}

// Limit is the number of rows on the page.
func (p Page) Limit() int {
	return p.normalized().Size
}

// Window converts the page into a LIMIT window.
func (p Page) Window() PageWindow {
	return PageWindow{Offset: p.StartRow(), Limit: p.Limit()}
}

// Clamp records total, derives TotalPages (at least 1) and moves Number into
// [1, TotalPages].
func (p *Page) Clamp(total int64) {
	*p = p.normalized()
	if total < 0 {
		total = 0
	}
	p.TotalCount = total

	pages := int((total + int64(p.Size) - 1) / int64(p.Size))
	if pages < 1 {
		pages = 1
	}
	p.TotalPages = pages

	if p.Number > pages {
		p.Number = pages
	}
}

// HasPrev reports whether a page precedes this one.
func (p Page) HasPrev() bool {
	return p.Number > 1
}

// HasNext reports whether a page follows this one. Only meaningful after Clamp.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}
