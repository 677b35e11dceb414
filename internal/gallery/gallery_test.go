package gallery

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/imgmg/internal/assets"
	"github.com/ytget/imgmg/internal/grid"
	"github.com/ytget/imgmg/internal/lazyload"
	"github.com/ytget/imgmg/internal/model"
	"github.com/ytget/imgmg/internal/scroll"
)

// 30x20 viewport with 10px cells: 3 per row, 2 rows visible plus one prefetched.
var boundaryGeometry = Geometry{
	CellSize:     10,
	PrefetchRows: grid.DefaultPrefetchRows,
	PollInterval: time.Millisecond,
}

type fixture struct {
	gallery  *Gallery
	coord    *lazyload.Coordinator
	offset   *scroll.AtomicOffset
	viewport *AtomicViewport
	loads    *atomic.Int32

	mu      sync.Mutex
	redrawn map[string]int
}

func newFixture(t *testing.T, geometry Geometry, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		offset:  &scroll.AtomicOffset{},
		loads:   &atomic.Int32{},
		redrawn: make(map[string]int),
	}

	loader := lazyload.LoaderFunc(func(ctx context.Context, source string, target model.Size) (*model.Asset, error) {
		f.loads.Add(1)
		return model.NewAsset(source, image.NewRGBA(image.Rect(0, 0, target.Width, target.Height)), target), nil
	})
	redraw := lazyload.RedrawFunc(func(id string) {
		f.mu.Lock()
		f.redrawn[id]++
		f.mu.Unlock()
	})

	f.coord = lazyload.NewCoordinator(loader, redraw)
	t.Cleanup(f.coord.Close)

	f.viewport = &AtomicViewport{}
	f.viewport.Store(30, 20)
	f.gallery = New(f.coord, f.viewport, f.offset, geometry, opts...)
	return f
}

func sources(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = filepath.Join("/photos", string(rune('a'+i))+".png")
	}
	return out
}

func loadedIndexes(slots []*model.Slot) []int {
	var out []int
	for _, s := range slots {
		if s.Status() == model.SlotStatusLoaded {
			out = append(out, s.Index)
		}
	}
	return out
}

func TestRefresh_LoadsVisibleItems(t *testing.T) {
	f := newFixture(t, boundaryGeometry)
	slots := f.gallery.SetItems(sources(12))

	stats, err := f.gallery.Refresh(0)
	require.NoError(t, err)
	f.coord.Wait()

	assert.Equal(t, lazyload.Stats{Dispatched: 9}, stats)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, loadedIndexes(slots))
	assert.Equal(t, grid.VisibleRange{First: 0, Last: 8}, f.gallery.LastRange())

	f.mu.Lock()
	assert.Len(t, f.redrawn, 9)
	f.mu.Unlock()

	asset, ok := slots[0].Asset()
	require.True(t, ok)
	assert.Equal(t, 10, asset.Width, "target size follows the cell size")
}

func TestRefresh_SecondPassIsIdempotent(t *testing.T) {
	f := newFixture(t, boundaryGeometry)
	f.gallery.SetItems(sources(12))

	_, err := f.gallery.Refresh(0)
	require.NoError(t, err)
	f.coord.Wait()

	stats, err := f.gallery.Refresh(5)
	require.NoError(t, err)
	f.coord.Wait()

	assert.Zero(t, stats.Dispatched)
	assert.Equal(t, int32(9), f.loads.Load())
}

func TestRefresh_ZeroItems(t *testing.T) {
	f := newFixture(t, boundaryGeometry)
	f.gallery.SetItems(nil)

	stats, err := f.gallery.Refresh(0)
	require.NoError(t, err)
	f.coord.Wait()

	assert.Equal(t, lazyload.Stats{}, stats)
	assert.Zero(t, f.loads.Load())
}

func TestRefresh_InvalidGeometry(t *testing.T) {
	f := newFixture(t, Geometry{CellSize: 0})
	f.gallery.SetItems(sources(4))

	_, err := f.gallery.Refresh(0)

	var cfgErr *grid.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "CellSize", cfgErr.Field)

	// The settle handler logs and skips the pass.
	f.gallery.OnSettled(0)
	f.coord.Wait()
	assert.Zero(t, f.loads.Load())
}

func TestSetGeometry(t *testing.T) {
	f := newFixture(t, boundaryGeometry)
	f.gallery.SetItems(sources(12))

	f.gallery.SetGeometry(Geometry{CellSize: 15, PrefetchRows: 0})
	assert.Equal(t, model.Size{Width: 15, Height: 15}, f.coord.TargetSize())

	layout, err := f.gallery.Layout()
	require.NoError(t, err)
	assert.Equal(t, 2, layout.CellsPerRow())
	assert.Equal(t, 6, layout.RowCount())
}

func TestSetItems_ReplacesSlots(t *testing.T) {
	var got []*model.Slot
	f := newFixture(t, boundaryGeometry, WithItemsCallback(func(slots []*model.Slot, rewound bool) {
		got = slots
		assert.False(t, rewound)
	}))
	f.offset.Store(40)

	first := f.gallery.SetItems(sources(3))
	second := f.gallery.SetItems(sources(5))

	assert.Equal(t, second, got)
	assert.Equal(t, 40, f.offset.CurrentOffset())
	assert.Equal(t, 5, f.gallery.Len())
	assert.NotEqual(t, first[0].ID, second[0].ID)
}

func TestRun_SettleTriggersLoad(t *testing.T) {
	var passes atomic.Int32
	f := newFixture(t, boundaryGeometry, WithPassCallback(func(*grid.Layout, grid.VisibleRange, lazyload.Stats) {
		passes.Add(1)
	}))
	slots := f.gallery.SetItems(sources(12))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.gallery.Run(ctx) }()

	// Initial pass covers rows 0-2.
	require.Eventually(t, func() bool { return len(loadedIndexes(slots)) == 9 }, 2*time.Second, time.Millisecond)

	f.offset.Store(30)
	require.Eventually(t, func() bool { return len(loadedIndexes(slots)) == 12 }, 2*time.Second, time.Millisecond)
	assert.Equal(t, grid.VisibleRange{First: 9, Last: 11}, f.gallery.LastRange())
	assert.GreaterOrEqual(t, passes.Load(), int32(2))

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, int32(12), f.loads.Load())
}

func writePNGs(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		f, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 20))))
		require.NoError(t, f.Close())
	}
}

func TestOpen_WithFileLoader(t *testing.T) {
	dir := t.TempDir()
	writePNGs(t, dir, "c.png", "a.png", "b.png")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))

	coord := lazyload.NewCoordinator(assets.NewFileLoader(), nil)
	defer coord.Close()
	viewport := &AtomicViewport{}
	viewport.Store(30, 20)
	g := New(coord, viewport, &scroll.AtomicOffset{}, boundaryGeometry)

	n, err := g.Open(context.Background(), dir)
	require.NoError(t, err)
	coord.Wait()

	assert.Equal(t, 3, n)
	assert.Equal(t, dir, g.Dir())

	slots := g.Slots()
	require.Len(t, slots, 3)
	assert.Equal(t, filepath.Join(dir, "a.png"), slots[0].Source)
	for _, s := range slots {
		asset, ok := s.Asset()
		require.True(t, ok, s.Source)
		assert.Equal(t, 10, asset.Width)
		assert.Equal(t, 5, asset.Height)
		assert.Equal(t, 40, asset.OriginalWidth)
	}
}

func TestOpen_MissingDirectory(t *testing.T) {
	f := newFixture(t, boundaryGeometry)
	_, err := f.gallery.Open(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
	assert.Empty(t, f.gallery.Dir())
}

func TestReload_RequiresDirectory(t *testing.T) {
	f := newFixture(t, boundaryGeometry)
	_, err := f.gallery.Reload(context.Background())
	assert.Error(t, err)
	assert.Error(t, f.gallery.Watch(context.Background()))
}

func TestWatch_ReloadsOnNewImage(t *testing.T) {
	dir := t.TempDir()
	writePNGs(t, dir, "a.png")

	f := newFixture(t, boundaryGeometry)
	_, err := f.gallery.Open(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, 1, f.gallery.Len())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.gallery.Watch(ctx, assets.WithQuietPeriod(20*time.Millisecond)) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher goroutine a moment to start receiving.
	time.Sleep(50 * time.Millisecond)
	writePNGs(t, dir, "b.png")

	require.Eventually(t, func() bool { return f.gallery.Len() == 2 }, 3*time.Second, 10*time.Millisecond)
}

func TestAtomicViewport(t *testing.T) {
	var v AtomicViewport
	w, h := v.CurrentSize()
	assert.Zero(t, w)
	assert.Zero(t, h)

	v.Store(1280, 720)
	w, h = v.CurrentSize()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)

	v.Store(-5, 300)
	w, h = v.CurrentSize()
	assert.Equal(t, 0, w)
	assert.Equal(t, 300, h)
}

func TestSetScanOptions_Recursive(t *testing.T) {
	dir := t.TempDir()
	writePNGs(t, dir, "a.png")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	writePNGs(t, filepath.Join(dir, "sub"), "b.png")

	f := newFixture(t, boundaryGeometry)
	n, err := f.gallery.Open(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	f.gallery.SetScanOptions(assets.EnumerateOptions{Recursive: true})
	n, err = f.gallery.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("img%02d.png", i)
	}
	return out
}

func TestOpen_RewindsOffset(t *testing.T) {
	dir := t.TempDir()
	writePNGs(t, dir, names(30)...)

	var rewound []bool
	f := newFixture(t, boundaryGeometry, WithItemsCallback(func(_ []*model.Slot, r bool) {
		rewound = append(rewound, r)
	}))
	f.offset.Store(60)

	_, err := f.gallery.Open(context.Background(), dir)
	require.NoError(t, err)
	f.coord.Wait()

	assert.Equal(t, 0, f.offset.CurrentOffset())
	assert.Equal(t, grid.VisibleRange{First: 0, Last: 8}, f.gallery.LastRange())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, loadedIndexes(f.gallery.Slots()))
	assert.Equal(t, []bool{true}, rewound)
}

func TestReload_KeepsOffset(t *testing.T) {
	dir := t.TempDir()
	files := names(30)
	writePNGs(t, dir, files...)

	var rewound []bool
	f := newFixture(t, boundaryGeometry, WithItemsCallback(func(_ []*model.Slot, r bool) {
		rewound = append(rewound, r)
	}))
	_, err := f.gallery.Open(context.Background(), dir)
	require.NoError(t, err)

	f.offset.Store(60)
	n, err := f.gallery.Reload(context.Background())
	require.NoError(t, err)
	f.coord.Wait()

	assert.Equal(t, 30, n)
	assert.Equal(t, 60, f.offset.CurrentOffset())
	assert.Equal(t, grid.VisibleRange{First: 18, Last: 26}, f.gallery.LastRange())

	// Shrink to two rows: the offset is kept and the resolver clamps it.
	for _, name := range files[6:] {
		require.NoError(t, os.Remove(filepath.Join(dir, name)))
	}
	n, err = f.gallery.Reload(context.Background())
	require.NoError(t, err)
	f.coord.Wait()

	assert.Equal(t, 6, n)
	assert.Equal(t, 60, f.offset.CurrentOffset())
	assert.Equal(t, grid.VisibleRange{First: 3, Last: 5}, f.gallery.LastRange())
	assert.Equal(t, []bool{true, false, false}, rewound)
}

func TestRun_RequestPassAfterResize(t *testing.T) {
	f := newFixture(t, Geometry{CellSize: 10, PollInterval: time.Millisecond})
	f.viewport.Store(30, 10)
	slots := f.gallery.SetItems(sources(12))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.gallery.Run(ctx) }()
	defer func() {
		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	}()

	require.Eventually(t, func() bool { return len(loadedIndexes(slots)) == 3 }, 2*time.Second, time.Millisecond)

	// The offset does not move, so only the requested pass can load more.
	f.viewport.Store(30, 40)
	f.gallery.RequestPass()
	require.Eventually(t, func() bool { return len(loadedIndexes(slots)) == 12 }, 2*time.Second, time.Millisecond)
	assert.Equal(t, grid.VisibleRange{First: 0, Last: 11}, f.gallery.LastRange())
}

func TestRun_OpenHandsPassToLoop(t *testing.T) {
	dir := t.TempDir()
	writePNGs(t, dir, names(12)...)
	f := newFixture(t, boundaryGeometry)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.gallery.Run(ctx) }()
	defer func() {
		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	}()
	require.Eventually(t, func() bool { return f.gallery.running.Load() }, 2*time.Second, time.Millisecond)

	assert.Error(t, f.gallery.Run(ctx), "a second loop is refused")

	_, err := f.gallery.Open(ctx, dir)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(loadedIndexes(f.gallery.Slots())) == 9
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, grid.VisibleRange{First: 0, Last: 8}, f.gallery.LastRange())
}
