package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 30x20 window, 10px cells: 3 per row, 12 items make 4 rows.
func boundaryConfig() Config {
	return Config{ViewportWidth: 30, ViewportHeight: 20, CellSize: 10, ItemCount: 12}
}

func TestVisibleRows_TopOfGrid(t *testing.T) {
	l := mustLayout(t, boundaryConfig())

	assert.Equal(t, RowRange{First: 0, Last: 2}, l.VisibleRows(0))
	assert.Equal(t, VisibleRange{First: 0, Last: 8}, l.VisibleItems(0))
}

func TestVisibleRows_PastLastRowClamps(t *testing.T) {
	l := mustLayout(t, boundaryConfig())

	for _, offset := range []int{30, 31, 45, 10_000} {
		assert.Equal(t, RowRange{First: 3, Last: 3}, l.VisibleRows(offset), "offset=%d", offset)
		assert.Equal(t, VisibleRange{First: 9, Last: 11}, l.VisibleItems(offset), "offset=%d", offset)
	}
}

func TestVisibleRows_PartialRowCounts(t *testing.T) {
	l := mustLayout(t, boundaryConfig())

	// One pixel into row 0 still keeps row 0 at the top.
	assert.Equal(t, RowRange{First: 0, Last: 2}, l.VisibleRows(9))
	assert.Equal(t, RowRange{First: 1, Last: 3}, l.VisibleRows(10))
	assert.Equal(t, VisibleRange{First: 3, Last: 11}, l.VisibleItems(15))
}

func TestVisibleRows_NegativeOffset(t *testing.T) {
	l := mustLayout(t, boundaryConfig())

	assert.Equal(t, RowRange{First: 0, Last: 2}, l.VisibleRows(-50))
}

func TestVisibleRange_ZeroItems(t *testing.T) {
	cfg := boundaryConfig()
	cfg.ItemCount = 0
	l := mustLayout(t, cfg)

	for _, offset := range []int{0, 1, 10, 1000} {
		assert.Equal(t, RowRange{}, l.VisibleRows(offset))
		assert.Equal(t, VisibleRange{}, l.VisibleItems(offset))
	}
}

func TestVisibleRange_ZeroWidthViewport(t *testing.T) {
	l := mustLayout(t, Config{ViewportWidth: 0, ViewportHeight: 25, CellSize: 10, ItemCount: 5})

	assert.Equal(t, 1, l.CellsPerRow())
	assert.Equal(t, VisibleRange{First: 0, Last: 3}, l.VisibleItems(0))
	assert.Equal(t, VisibleRange{First: 4, Last: 4}, l.VisibleItems(400))
}

func TestVisibleItems_Monotonic(t *testing.T) {
	configs := []Config{
		boundaryConfig(),
		{ViewportWidth: 95, ViewportHeight: 47, CellSize: 20, CellMargin: 3, RowPadding: 5, ItemCount: 41},
		{ViewportWidth: 0, ViewportHeight: 0, CellSize: 7, ItemCount: 9},
	}

	for _, cfg := range configs {
		l := mustLayout(t, cfg)
		prev := l.VisibleItems(0)
		for offset := 1; offset < l.TotalContentHeight()+100; offset++ {
			cur := l.VisibleItems(offset)
			assert.GreaterOrEqual(t, cur.First, prev.First, "offset=%d", offset)
			assert.LessOrEqual(t, cur.First, cur.Last, "offset=%d", offset)
			assert.Less(t, cur.Last, cfg.ItemCount, "offset=%d", offset)
			prev = cur
		}
	}
}

func TestVisibleItems_FirstMatchesTopRow(t *testing.T) {
	l := mustLayout(t, Config{ViewportWidth: 95, ViewportHeight: 47, CellSize: 20, CellMargin: 3, RowPadding: 5, ItemCount: 41})

	for offset := 0; offset < 400; offset += 7 {
		rows := l.VisibleRows(offset)
		items := l.VisibleItems(offset)
		assert.Equal(t, min(rows.First*l.CellsPerRow(), 40), items.First, "offset=%d", offset)
	}
}

func TestWithPrefetchRows(t *testing.T) {
	tests := []struct {
		prefetch int
		rows     RowRange
		items    VisibleRange
	}{
		{0, RowRange{0, 1}, VisibleRange{0, 5}},
		{1, RowRange{0, 2}, VisibleRange{0, 8}},
		{2, RowRange{0, 3}, VisibleRange{0, 11}},
		{9, RowRange{0, 3}, VisibleRange{0, 11}},
	}

	for _, tt := range tests {
		l := mustLayout(t, boundaryConfig(), WithPrefetchRows(tt.prefetch))
		assert.Equal(t, tt.rows, l.VisibleRows(0), "prefetch=%d", tt.prefetch)
		assert.Equal(t, tt.items, l.VisibleItems(0), "prefetch=%d", tt.prefetch)
	}
}

func TestWithPrefetchRows_ZeroHeightViewport(t *testing.T) {
	cfg := boundaryConfig()
	cfg.ViewportHeight = 0
	l := mustLayout(t, cfg, WithPrefetchRows(0))

	assert.Equal(t, RowRange{First: 1, Last: 1}, l.VisibleRows(10))
}

func TestVisibleRange_Helpers(t *testing.T) {
	r := VisibleRange{First: 3, Last: 5}

	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Contains(3))
	assert.True(t, r.Contains(5))
	assert.False(t, r.Contains(6))
	assert.False(t, r.Contains(2))
}
