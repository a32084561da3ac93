package feed

import (
	"strconv"
	"strings"
)

// Page describes one slice of a feed.
type Page struct {
	Number   int
	NumPages int
	Count    int
	Size     int
	// Offset and Limit bound the slice [Offset, Offset+Limit) of the source.
	Offset int
	Limit  int
}

func (p Page) HasNext() bool     { return p.Number < p.NumPages }
func (p Page) HasPrevious() bool { return p.Number > 1 }
func (p Page) HasOther() bool    { return p.HasNext() || p.HasPrevious() }
func (p Page) Next() int         { return p.Number + 1 }
func (p Page) Previous() int     { return p.Number - 1 }

// Paginate clamps requested into [1, pages] and returns the bounds of that
// page over a source of count items. An empty source still has one page.
func Paginate(count, size, requested int) Page {
	if size <= 0 {
		size = 1
	}
	if count < 0 {
		count = 0
	}
	pages := (count + size - 1) / size
	if pages < 1 {
		pages = 1
	}

	n := requested
	if n < 1 {
		n = 1
	}
	if n > pages {
		n = pages
	}

	offset := (n - 1) * size
	limit := size
	if rest := count - offset; rest < limit {
		limit = max(rest, 0)
	}
	return Page{
		Number:   n,
		NumPages: pages,
		Count:    count,
		Size:     size,
		Offset:   offset,
		Limit:    limit,
	}
}

// ParsePage reads a ?page= value. Anything that is not an integer is page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}
