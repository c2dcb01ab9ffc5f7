package repository

// Page represents a simple limit/offset window over an ordered sequence.
// I keep it intentionally small; search filtering belongs to higher layers.
type Page struct {
	Limit  int
	Offset int
}

// Window returns the [start, end) bounds of the page within a sequence of n items.
// An offset past the end yields an empty window rather than an error.
func (p Page) Window(n int) (start, end int) {
	start = p.Offset
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if p.Limit < 0 || p.Limit > n-start {
		return start, n
	}
	end = start + p.Limit
	return start, end
}

// PageResult carries a slice of items and the total count matching the query.
// I return the total so clients can compute pagination without an extra round trip.
type PageResult[T any] struct {
	Items []T
	Total int
}

// Slice cuts the page out of items, reporting len(items) as the total.
func Slice[T any](items []T, p Page) PageResult[T] {
	start, end := p.Window(len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return PageResult[T]{Items: out, Total: len(items)}
}
