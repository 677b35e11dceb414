package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ytget/imgmg/internal/assets"
	"github.com/ytget/imgmg/internal/grid"
	"github.com/ytget/imgmg/internal/lazyload"
	"github.com/ytget/imgmg/internal/model"
	"github.com/ytget/imgmg/internal/scroll"
)

// Geometry is the user-controlled part of the grid configuration. Viewport
// size and item count are filled in per pass.
type Geometry struct {
	CellSize     int
	CellMargin   int
	RowPadding   int
	PrefetchRows int
	PollInterval time.Duration
}

// Gallery owns the slots of one directory and drives lazy loading for them.
// While Run is active every layout pass executes on its goroutine.
type Gallery struct {
	coord    lazyload.Reconciler
	viewport ViewportSource
	offset   scroll.OffsetStore
	logger   *slog.Logger
	poller   *scroll.Poller
	running  atomic.Bool

	mu       sync.RWMutex
	slots    []*model.Slot
	geometry Geometry
	dir      string
	scan     assets.EnumerateOptions
	last     grid.VisibleRange

	onItems func(slots []*model.Slot, rewound bool)
	onPass  func(layout *grid.Layout, r grid.VisibleRange, stats lazyload.Stats)
}

// Option configures a Gallery.
type Option func(*Gallery)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gallery) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithScanOptions sets how directories are enumerated by Open.
func WithScanOptions(opts assets.EnumerateOptions) Option {
	return func(g *Gallery) {
		g.scan = opts
	}
}

// WithItemsCallback registers a callback invoked after the slot list is
// replaced. rewound is true when the offset was reset to the top.
func WithItemsCallback(fn func(slots []*model.Slot, rewound bool)) Option {
	return func(g *Gallery) {
		g.onItems = fn
	}
}

// WithPassCallback registers a callback invoked after every successful
// layout pass.
func WithPassCallback(fn func(layout *grid.Layout, r grid.VisibleRange, stats lazyload.Stats)) Option {
	return func(g *Gallery) {
		g.onPass = fn
	}
}

// New creates a gallery with no items. The poll interval is fixed at
// construction.
func New(coord lazyload.Reconciler, viewport ViewportSource, offset scroll.OffsetStore, geometry Geometry, opts ...Option) *Gallery {
	g := &Gallery{
		coord:    coord,
		viewport: viewport,
		offset:   offset,
		logger:   slog.Default(),
		geometry: geometry,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.scan.Logger == nil {
		g.scan.Logger = g.logger
	}
	g.poller = scroll.NewPoller(offset, geometry.PollInterval, g.OnSettled)
	g.poller.SetLogger(g.logger)
	coord.SetTargetSize(model.Size{Width: geometry.CellSize, Height: geometry.CellSize})
	return g
}

// SetItems replaces the item list and keeps the current offset. Loads still
// running for the previous slots complete into the discarded slots.
func (g *Gallery) SetItems(sources []string) []*model.Slot {
	return g.replaceItems(sources, false)
}

func (g *Gallery) replaceItems(sources []string, rewind bool) []*model.Slot {
	slots := model.NewSlots(sources)
	if rewind {
		g.offset.Store(0)
	}

	g.mu.Lock()
	g.slots = slots
	g.last = grid.VisibleRange{}
	onItems := g.onItems
	g.mu.Unlock()

	g.logger.Debug("Gallery items replaced", "count", len(slots))
	if onItems != nil {
		onItems(slots, rewind)
	}
	return slots
}

// Slots returns the current slot list. The slice must not be modified.
func (g *Gallery) Slots() []*model.Slot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.slots
}

// Len returns the number of items.
func (g *Gallery) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.slots)
}

// Dir returns the directory last passed to Open.
func (g *Gallery) Dir() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.dir
}

// Geometry returns the current geometry.
func (g *Gallery) Geometry() Geometry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.geometry
}

// SetScanOptions changes how Open enumerates directories.
func (g *Gallery) SetScanOptions(opts assets.EnumerateOptions) {
	if opts.Logger == nil {
		opts.Logger = g.logger
	}
	g.mu.Lock()
	g.scan = opts
	g.mu.Unlock()
}

// SetGeometry changes cell size and spacing for subsequent passes.
func (g *Gallery) SetGeometry(geometry Geometry) {
	g.mu.Lock()
	g.geometry = geometry
	g.mu.Unlock()
	g.coord.SetTargetSize(model.Size{Width: geometry.CellSize, Height: geometry.CellSize})
}

// LastRange returns the range resolved by the most recent successful pass.
func (g *Gallery) LastRange() grid.VisibleRange {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.last
}

// Layout builds the layout for the current viewport size and item count.
func (g *Gallery) Layout() (*grid.Layout, error) {
	g.mu.RLock()
	geometry := g.geometry
	count := len(g.slots)
	g.mu.RUnlock()

	return g.layoutFor(geometry, count)
}

func (g *Gallery) layoutFor(geometry Geometry, count int) (*grid.Layout, error) {
	width, height := g.viewport.CurrentSize()
	cfg := grid.Config{
		ViewportWidth:  width,
		ViewportHeight: height,
		CellSize:       geometry.CellSize,
		CellMargin:     geometry.CellMargin,
		RowPadding:     geometry.RowPadding,
		ItemCount:      count,
	}
	return grid.NewLayout(cfg, grid.WithPrefetchRows(geometry.PrefetchRows))
}

// Refresh runs one layout pass at offset: resolve the visible range and
// reconcile it. An invalid geometry aborts the pass with a *grid.ConfigError.
func (g *Gallery) Refresh(offset int) (lazyload.Stats, error) {
	g.mu.RLock()
	geometry := g.geometry
	slots := g.slots
	g.mu.RUnlock()

	layout, err := g.layoutFor(geometry, len(slots))
	if err != nil {
		return lazyload.Stats{}, err
	}
	if len(slots) == 0 {
		return lazyload.Stats{}, nil
	}

	r := layout.VisibleItems(offset)
	stats := g.coord.Reconcile(r, slots)

	g.mu.Lock()
	g.last = r
	onPass := g.onPass
	g.mu.Unlock()

	if onPass != nil {
		onPass(layout, r, stats)
	}
	return stats, nil
}

// OnSettled handles a settle event from the scroll poller.
func (g *Gallery) OnSettled(offset int) {
	stats, err := g.Refresh(offset)
	if err != nil {
		var cfgErr *grid.ConfigError
		if errors.As(err, &cfgErr) {
			g.logger.Error("Skipping layout pass", "field", cfgErr.Field, "error", err)
			return
		}
		g.logger.Error("Layout pass failed", "error", err)
		return
	}
	g.logger.Debug("Layout pass", "offset", offset, "dispatched", stats.Dispatched, "skipped", stats.Skipped)
}

// RequestPass queues a layout pass at the current offset on the Run
// goroutine. Use it after the viewport or geometry changed.
func (g *Gallery) RequestPass() {
	g.poller.Request()
}

// Run performs an initial pass and then polls the scroll offset until ctx
// is done. Passes requested meanwhile run here too.
func (g *Gallery) Run(ctx context.Context) error {
	if !g.running.CompareAndSwap(false, true) {
		return errors.New("gallery is already running")
	}
	defer g.running.Store(false)

	g.OnSettled(g.offset.CurrentOffset())
	return g.poller.Run(ctx)
}

// Open enumerates dir, replaces the items, rewinds to the top and loads the
// visible part. It returns the number of items found.
func (g *Gallery) Open(ctx context.Context, dir string) (int, error) {
	n, err := g.load(ctx, dir, true)
	if err != nil {
		return n, err
	}
	g.logger.Info("Opened directory", "dir", dir, "items", n)
	return n, nil
}

// Reload re-enumerates the current directory and keeps the scroll offset.
// The resolver clamps it if the list got shorter.
func (g *Gallery) Reload(ctx context.Context) (int, error) {
	dir := g.Dir()
	if dir == "" {
		return 0, errors.New("no directory opened")
	}
	n, err := g.load(ctx, dir, false)
	if err != nil {
		return n, err
	}
	g.logger.Info("Reloaded directory", "dir", dir, "items", n)
	return n, nil
}

func (g *Gallery) load(ctx context.Context, dir string, rewind bool) (int, error) {
	g.mu.RLock()
	scan := g.scan
	g.mu.RUnlock()

	paths, err := assets.Enumerate(ctx, dir, scan)
	if err != nil {
		return 0, err
	}

	g.mu.Lock()
	g.dir = dir
	g.mu.Unlock()

	g.replaceItems(paths, rewind)
	if err := g.schedulePass(); err != nil {
		return len(paths), fmt.Errorf("initial layout: %w", err)
	}
	return len(paths), nil
}

// schedulePass hands the pass to Run when it is active and runs it inline
// otherwise. A layout error is reported either way.
func (g *Gallery) schedulePass() error {
	if !g.running.Load() {
		_, err := g.Refresh(g.offset.CurrentOffset())
		return err
	}
	if _, err := g.Layout(); err != nil {
		return err
	}
	g.RequestPass()
	return nil
}

// Watch reloads the current directory whenever its image files change,
// until ctx is done.
func (g *Gallery) Watch(ctx context.Context, opts ...assets.WatcherOption) error {
	dir := g.Dir()
	if dir == "" {
		return errors.New("no directory opened")
	}

	opts = append([]assets.WatcherOption{assets.WithWatcherLogger(g.logger)}, opts...)
	w, err := assets.NewWatcher(dir, func() {
		if g.Dir() != dir {
			return
		}
		if _, err := g.Reload(ctx); err != nil {
			g.logger.Warn("Failed to reload directory", "dir", dir, "error", err)
		}
	}, opts...)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
