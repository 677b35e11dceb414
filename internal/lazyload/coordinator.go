package lazyload

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/ytget/imgmg/internal/grid"
	"github.com/ytget/imgmg/internal/model"
)

// Worker pool limits
const (
	DefaultMaxParallel = 4
	MinParallel        = 1
	MaxParallel        = 32
)

// DefaultTargetSize is the thumbnail bound used until SetTargetSize is called.
var DefaultTargetSize = model.Size{Width: 160, Height: 160}

// Stats summarizes one reconcile pass.
type Stats struct {
	Dispatched int // loads started by this pass
	Skipped    int // slots already loaded or held by an in-flight load
}

// Coordinator schedules slot loads. Reconcile runs on the coordinating
// goroutine and never blocks on I/O; loads run on a bounded pool.
type Coordinator struct {
	loader Loader
	redraw Redrawer
	logger *slog.Logger

	sem         *semaphore.Weighted
	maxParallel int

	targetMu sync.RWMutex
	target   model.Size

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	inFlight atomic.Int64
	onDone   func(slot *model.Slot, err error) // test and metrics hook
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithMaxParallel bounds the number of concurrent loads.
func WithMaxParallel(n int) Option {
	return func(c *Coordinator) {
		c.maxParallel = clampParallel(n)
	}
}

// WithTargetSize sets the size assets are scaled to.
func WithTargetSize(size model.Size) Option {
	return func(c *Coordinator) {
		if !size.IsZero() {
			c.target = size
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCompletionHook registers a callback invoked after each load finishes,
// before the redraw signal.
func WithCompletionHook(fn func(slot *model.Slot, err error)) Option {
	return func(c *Coordinator) {
		c.onDone = fn
	}
}

// NewCoordinator creates a coordinator. A nil redraw is allowed.
func NewCoordinator(loader Loader, redraw Redrawer, opts ...Option) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		loader:      loader,
		redraw:      redraw,
		logger:      slog.Default(),
		maxParallel: DefaultMaxParallel,
		target:      DefaultTargetSize,
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sem = semaphore.NewWeighted(int64(c.maxParallel))
	return c
}

// MaxParallel returns the pool size.
func (c *Coordinator) MaxParallel() int {
	return c.maxParallel
}

// SetTargetSize changes the size used by loads dispatched from now on.
func (c *Coordinator) SetTargetSize(size model.Size) {
	if size.IsZero() {
		return
	}
	c.targetMu.Lock()
	c.target = size
	c.targetMu.Unlock()
}

// TargetSize returns the current target size.
func (c *Coordinator) TargetSize() model.Size {
	c.targetMu.RLock()
	defer c.targetMu.RUnlock()
	return c.target
}

// Reconcile requests every unloaded slot in r, in ascending index order.
// Slots that are loaded or already loading are skipped; a failed slot is
// retried.
func (c *Coordinator) Reconcile(r grid.VisibleRange, slots []*model.Slot) Stats {
	var stats Stats
	if len(slots) == 0 || c.ctx.Err() != nil {
		return stats
	}

	first := max(r.First, 0)
	last := min(r.Last, len(slots)-1)
	target := c.TargetSize()

	for i := first; i <= last; i++ {
		slot := slots[i]
		if !slot.TryClaim() {
			stats.Skipped++
			continue
		}
		stats.Dispatched++
		c.dispatch(slot, target)
	}

	if stats.Dispatched > 0 {
		c.logger.Debug("Reconciled visible range",
			"first", first, "last", last,
			"dispatched", stats.Dispatched, "skipped", stats.Skipped)
	}
	return stats
}

// InFlight returns the number of dispatched loads that have not finished.
func (c *Coordinator) InFlight() int {
	return int(c.inFlight.Load())
}

// Wait blocks until every dispatched load has finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Close abandons loads still waiting for a worker and waits for running ones.
// Running loads are not interrupted.
func (c *Coordinator) Close() {
	c.cancel()
	c.wg.Wait()
}

// dispatch starts the load task for a claimed slot
func (c *Coordinator) dispatch(slot *model.Slot, target model.Size) {
	c.wg.Add(1)
	c.inFlight.Add(1)

	go func() {
		defer func() {
			c.inFlight.Add(-1)
			c.wg.Done()
		}()

		if err := c.sem.Acquire(c.ctx, 1); err != nil {
			slot.Release()
			return
		}
		defer c.sem.Release(1)

		// Loads are detached from the coordinator context: scrolling away or
		// closing must not discard a decode that already started.
		asset, err := c.load(context.WithoutCancel(c.ctx), slot.Source, target)
		if err == nil {
			err = slot.Complete(asset)
		}
		if err != nil {
			err = NewLoadError(slot.Source, err)
			slot.Fail(err)
			c.logger.Warn("Failed to load asset", "index", slot.Index, "source", slot.Source, "error", err)
		}

		if c.onDone != nil {
			c.onDone(slot, err)
		}
		c.notifyRedraw(slot)
	}()
}

// load calls the loader, turning a panic into an error
func (c *Coordinator) load(ctx context.Context, source string, target model.Size) (asset *model.Asset, err error) {
	defer func() {
		if r := recover(); r != nil {
			asset = nil
			err = fmt.Errorf("loader panic: %v", r)
		}
	}()
	return c.loader.Load(ctx, source, target)
}

// notifyRedraw signals the redraw collaborator if set
func (c *Coordinator) notifyRedraw(slot *model.Slot) {
	if c.redraw != nil {
		c.redraw.Notify(slot.ID)
	}
}

func clampParallel(n int) int {
	if n < MinParallel {
		return MinParallel
	}
	if n > MaxParallel {
		return MaxParallel
	}
	return n
}
