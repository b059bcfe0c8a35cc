package views

const defaultPageSize = 10

// Paginator tracks a cursor over a list shown one page at a time. The page
// always follows the cursor.
type Paginator struct {
	size   int
	total  int
	cursor int

	// Wrap moves the cursor from one end of the list to the other
	Wrap bool
}

// NewPaginator creates a paginator showing pageSize rows per page
func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Paginator{size: pageSize}
}

// SetTotal sets the list length and clamps the cursor into it
func (p *Paginator) SetTotal(total int) {
	p.total = max(total, 0)
	p.cursor = min(p.cursor, max(p.total-1, 0))
}

// Cursor returns the absolute index under the cursor
func (p *Paginator) Cursor() int {
	return p.cursor
}

// Move shifts the cursor by delta rows. It reports whether the cursor moved.
func (p *Paginator) Move(delta int) bool {
	if p.total == 0 {
		return false
	}

	next := p.cursor + delta
	switch {
	case next >= 0 && next < p.total:
	case p.Wrap:
		next = ((next % p.total) + p.total) % p.total
	default:
		next = min(max(next, 0), p.total-1)
	}

	moved := next != p.cursor
	p.cursor = next
	return moved
}

// NextPage jumps to the first row of the following page
func (p *Paginator) NextPage() bool {
	start, _ := p.VisibleRange()
	if start+p.size >= p.total {
		return false
	}
	p.cursor = start + p.size
	return true
}

// PrevPage jumps to the first row of the preceding page
func (p *Paginator) PrevPage() bool {
	start, _ := p.VisibleRange()
	if start == 0 {
		return false
	}
	p.cursor = start - p.size
	return true
}

// VisibleRange returns the half-open index range of the cursor's page
func (p *Paginator) VisibleRange() (start, end int) {
	start = p.cursor / p.size * p.size
	return start, min(start+p.size, p.total)
}

// CurrentPage returns the cursor's page, counting from 1
func (p *Paginator) CurrentPage() int {
	return p.cursor/p.size + 1
}

// TotalPages returns the number of pages, at least 1
func (p *Paginator) TotalPages() int {
	return max((p.total+p.size-1)/p.size, 1)
}

// Reset empties the list
func (p *Paginator) Reset() {
	p.cursor, p.total = 0, 0
}
