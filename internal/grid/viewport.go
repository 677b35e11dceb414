package grid

// RowRange is an inclusive pair of row indices.
type RowRange struct {
	First int
	Last  int
}

// VisibleRange is an inclusive pair of item indices. With zero items it is
// the degenerate (0, 0) range, so callers must check the item count before
// reading it as "item 0 is visible".
type VisibleRange struct {
	First int
	Last  int
}

// Len returns the number of indices covered by the range.
func (r RowRange) Len() int {
	return r.Last - r.First + 1
}

// Contains reports whether row i is inside the range.
func (r RowRange) Contains(i int) bool {
	return i >= r.First && i <= r.Last
}

// Len returns the number of indices covered by the range.
func (r VisibleRange) Len() int {
	return r.Last - r.First + 1
}

// Contains reports whether item i is inside the range.
func (r VisibleRange) Contains(i int) bool {
	return i >= r.First && i <= r.Last
}

// VisibleRows resolves the rows exposed at offset. A row counts as soon as a
// single pixel of it is in view, and the range is extended by the prefetch
// margin. Offsets past the content clamp to the last row.
func (l *Layout) VisibleRows(offset int) RowRange {
	offset = max(offset, 0)
	lastRow := max(l.rowCount-1, 0)

	top := min(offset/l.outerRow, lastRow)
	inViewport := (l.cfg.ViewportHeight + l.outerRow - 1) / l.outerRow
	bottom := min(top+inViewport-1+l.prefetchRows, lastRow)

	// A zero-height viewport with no prefetch still reports the top row.
	bottom = max(bottom, top)

	return RowRange{First: top, Last: bottom}
}

// VisibleItems resolves the item indices exposed at offset.
func (l *Layout) VisibleItems(offset int) VisibleRange {
	rows := l.VisibleRows(offset)
	lastItem := max(l.cfg.ItemCount-1, 0)

	first := min(rows.First*l.cellsPerRow, lastItem)
	last := min(first+rows.Len()*l.cellsPerRow-1, lastItem)

	return VisibleRange{First: first, Last: last}
}
