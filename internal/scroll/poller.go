package scroll

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is the sampling cadence used when none is given.
const DefaultInterval = 2 * time.Millisecond

// Poller samples an OffsetSource at a fixed cadence and reports settle events.
// Run and Feed must be called from the same goroutine; Request may be called
// from any goroutine.
type Poller struct {
	src       OffsetSource
	interval  time.Duration
	onSettled func(offset int)
	debouncer *Debouncer
	logger    *slog.Logger
	requests  chan struct{}
}

// NewPoller creates a poller. A non-positive interval selects DefaultInterval.
func NewPoller(src OffsetSource, interval time.Duration, onSettled func(offset int)) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		src:       src,
		interval:  interval,
		onSettled: onSettled,
		debouncer: NewDebouncer(),
		logger:    slog.Default(),
		requests:  make(chan struct{}, 1),
	}
}

// SetLogger replaces the logger used for settle traces.
func (p *Poller) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// Interval returns the sampling cadence.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Request asks Run to report the current offset as settled on its own
// goroutine, without waiting for motion. Requests made while one is pending
// are merged.
func (p *Poller) Request() {
	select {
	case p.requests <- struct{}{}:
	default:
	}
}

// Run polls until ctx is cancelled and returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Feed(p.src.CurrentOffset())
		case <-p.requests:
			offset := p.src.CurrentOffset()
			p.logger.Debug("Pass requested", "offset", offset)
			if p.onSettled != nil {
				p.onSettled(offset)
			}
		}
	}
}

// Feed pushes one sample through the debouncer. Toolkits with native scroll
// events can call it directly instead of running the ticker.
func (p *Poller) Feed(offset int) {
	settled, ok := p.debouncer.Sample(offset)
	if !ok {
		return
	}
	p.logger.Debug("Scroll settled", "offset", settled)
	if p.onSettled != nil {
		p.onSettled(settled)
	}
}
