package grid

// DefaultPrefetchRows is the number of rows resolved past the last row that
// is actually on screen.
const DefaultPrefetchRows = 1

// Layout is the validated geometry for a single pass.
type Layout struct {
	cfg          Config
	prefetchRows int

	cellsPerRow int
	outerRow    int
	innerRow    int
	rowCount    int
}

// LayoutOption customizes a Layout.
type LayoutOption func(*Layout)

// WithPrefetchRows sets how many rows beyond the viewport are reported as
// visible.
func WithPrefetchRows(n int) LayoutOption {
	return func(l *Layout) {
		l.prefetchRows = n
	}
}

// NewLayout validates cfg and precomputes the row metrics.
func NewLayout(cfg Config, opts ...LayoutOption) (*Layout, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &Layout{
		cfg:          cfg,
		prefetchRows: DefaultPrefetchRows,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.prefetchRows < 0 {
		return nil, &ConfigError{Field: "PrefetchRows", Value: l.prefetchRows, Reason: "must not be negative"}
	}

	l.cellsPerRow = max(1, cfg.ViewportWidth/(cfg.CellSize+cfg.CellMargin))
	l.innerRow = cfg.CellSize + 2*cfg.CellMargin
	l.outerRow = l.innerRow + cfg.RowPadding
	l.rowCount = (cfg.ItemCount + l.cellsPerRow - 1) / l.cellsPerRow

	return l, nil
}

// Config returns the configuration the layout was built from.
func (l *Layout) Config() Config {
	return l.cfg
}

// PrefetchRows returns the trailing row margin.
func (l *Layout) PrefetchRows() int {
	return l.prefetchRows
}

// CellsPerRow is never less than one, even for a zero-width viewport.
func (l *Layout) CellsPerRow() int {
	return l.cellsPerRow
}

// OuterRowHeight is the vertical pitch of a row, padding included.
func (l *Layout) OuterRowHeight() int {
	return l.outerRow
}

// InnerRowHeight is a row without the trailing padding.
func (l *Layout) InnerRowHeight() int {
	return l.innerRow
}

// RowCount returns the number of rows needed for all items.
func (l *Layout) RowCount() int {
	return l.rowCount
}

// TotalContentHeight is the scrollable height. Padding only exists between
// rows, so the last row does not carry it.
func (l *Layout) TotalContentHeight() int {
	return max(0, l.rowCount*l.outerRow-l.cfg.RowPadding)
}

// CellPosition returns the top-left pixel of the cell holding item index.
func (l *Layout) CellPosition(index int) (x, y int) {
	row := index / l.cellsPerRow
	col := index % l.cellsPerRow
	x = col*(l.cfg.CellSize+l.cfg.CellMargin) + l.cfg.CellMargin
	y = row*l.outerRow + l.cfg.CellMargin
	return x, y
}

// RowOf returns the row an item index falls in.
func (l *Layout) RowOf(index int) int {
	return index / l.cellsPerRow
}
