package scroll

// State is the debouncer's current phase.
type State int

const (
	Idle State = iota
	Scrolling
)

func (s State) String() string {
	if s == Scrolling {
		return "Scrolling"
	}
	return "Idle"
}

// Debouncer is the two-state machine behind settle detection. It is not safe
// for concurrent use; one coordinating goroutine feeds it.
type Debouncer struct {
	state  State
	last   int
	primed bool
}

// NewDebouncer returns an idle debouncer with no baseline.
func NewDebouncer() *Debouncer {
	return &Debouncer{state: Idle}
}

// Sample feeds one offset. It returns the settled offset and true exactly once
// per contiguous scroll gesture, on the first unchanged sample after motion.
// The first sample ever only establishes the baseline.
func (d *Debouncer) Sample(offset int) (int, bool) {
	if !d.primed {
		d.primed = true
		d.last = offset
		return 0, false
	}

	changed := offset != d.last
	if d.state == Idle {
		if changed {
			d.state = Scrolling
			d.last = offset
		}
		return 0, false
	}

	if changed {
		d.last = offset
		return 0, false
	}
	d.state = Idle
	return offset, true
}

// State returns the current phase.
func (d *Debouncer) State() State {
	return d.state
}

// IsScrolling reports whether motion was seen since the last settle.
func (d *Debouncer) IsScrolling() bool {
	return d.state == Scrolling
}

// Last returns the most recent distinct sample.
func (d *Debouncer) Last() int {
	return d.last
}
