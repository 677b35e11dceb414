package scroll

import "sync/atomic"

// OffsetSource reports the current vertical scroll offset in pixels.
type OffsetSource interface {
	CurrentOffset() int
}

// OffsetStore is an OffsetSource that can also be written, for example to
// rewind to the top when the content is replaced.
type OffsetStore interface {
	OffsetSource
	Store(offset int)
}

// OffsetFunc adapts a function to OffsetSource.
type OffsetFunc func() int

func (f OffsetFunc) CurrentOffset() int {
	return f()
}

// AtomicOffset is an OffsetSource written from UI callbacks and read by the
// poller goroutine.
type AtomicOffset struct {
	v atomic.Int64
}

// Store records a new offset. Negative values are stored as zero.
func (a *AtomicOffset) Store(offset int) {
	a.v.Store(int64(max(offset, 0)))
}

func (a *AtomicOffset) CurrentOffset() int {
	return int(a.v.Load())
}
