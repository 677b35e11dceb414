// Package lazyload implements the reconcile pass that materializes assets for
// the visible part of the grid. It claims each empty slot in the visible
// range, runs the load on a bounded worker pool, stores the result into the
// slot, and signals a redraw for that slot alone.
package lazyload
