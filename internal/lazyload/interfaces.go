package lazyload

import (
	"context"

	"github.com/ytget/imgmg/internal/grid"
	"github.com/ytget/imgmg/internal/model"
)

// Loader materializes the asset for one source. Implementations must be
// deterministic for a given source and target size.
type Loader interface {
	Load(ctx context.Context, source string, target model.Size) (*model.Asset, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, source string, target model.Size) (*model.Asset, error)

func (f LoaderFunc) Load(ctx context.Context, source string, target model.Size) (*model.Asset, error) {
	return f(ctx, source, target)
}

// Redrawer is told when a slot's visual container must be repainted.
// Fire-and-forget; delivering the same id twice is harmless.
type Redrawer interface {
	Notify(containerID string)
}

// RedrawFunc adapts a function to Redrawer.
type RedrawFunc func(containerID string)

func (f RedrawFunc) Notify(containerID string) {
	f(containerID)
}

// Reconciler defines the interface for the lazy-load coordinator.
type Reconciler interface {
	Reconcile(r grid.VisibleRange, slots []*model.Slot) Stats
	SetTargetSize(size model.Size)
	InFlight() int
	Wait()
	Close()
}
