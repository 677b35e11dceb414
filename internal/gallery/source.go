package gallery

import "sync/atomic"

// ViewportSource reports the visible area of the grid in pixels. It is read
// once per layout pass.
type ViewportSource interface {
	CurrentSize() (width, height int)
}

// AtomicViewport is a ViewportSource written from UI resize callbacks.
type AtomicViewport struct {
	size atomic.Uint64
}

// Store records a new viewport size. Negative values are stored as zero.
func (v *AtomicViewport) Store(width, height int) {
	w := uint64(uint32(max(width, 0)))
	h := uint64(uint32(max(height, 0)))
	v.size.Store(w<<32 | h)
}

func (v *AtomicViewport) CurrentSize() (int, int) {
	packed := v.size.Load()
	return int(packed >> 32), int(packed & 0xFFFFFFFF)
}
