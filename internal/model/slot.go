package model

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SlotIDPrefix prefixes every slot's container id
const SlotIDPrefix = "slot-"

// Slot is one grid item: its source path plus a mutable asset cell. The
// gallery owns slots; loaders only mutate the cell through the methods below.
type Slot struct {
	ID     string // container id used for redraw signals
	Index  int
	Source string

	mu         sync.Mutex
	status     SlotStatus
	asset      *Asset
	lastErr    error
	attempts   int
	finishedAt time.Time
}

// NewSlot creates an empty slot for the item at index
func NewSlot(index int, source string) *Slot {
	return &Slot{
		ID:     generateSlotID(),
		Index:  index,
		Source: source,
		status: SlotStatusEmpty,
	}
}

// NewSlots builds one slot per source, preserving order
func NewSlots(sources []string) []*Slot {
	slots := make([]*Slot, len(sources))
	for i, src := range sources {
		slots[i] = NewSlot(i, src)
	}
	return slots
}

// TryClaim moves an empty or failed slot to loading. It returns false when
// the slot is already loaded or another load holds it.
func (s *Slot) TryClaim() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.status.NeedsLoad() {
		return false
	}
	s.status = SlotStatusLoading
	s.attempts++
	return true
}

// Complete stores the asset of a claimed slot
func (s *Slot) Complete(asset *Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != SlotStatusLoading {
		return fmt.Errorf("slot %d: complete in state %s", s.Index, s.status)
	}
	if asset == nil {
		s.status = SlotStatusFailed
		s.lastErr = fmt.Errorf("slot %d: nil asset", s.Index)
		s.finishedAt = time.Now()
		return s.lastErr
	}

	s.status = SlotStatusLoaded
	s.asset = asset
	s.lastErr = nil
	s.finishedAt = time.Now()
	return nil
}

// Fail records a failed load. The asset cell is left untouched (empty).
func (s *Slot) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != SlotStatusLoading {
		return
	}
	s.status = SlotStatusFailed
	s.lastErr = err
	s.finishedAt = time.Now()
}

// Release returns a claimed slot to its previous unloaded state without
// counting an attempt; used when a load is abandoned before it started.
func (s *Slot) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != SlotStatusLoading {
		return
	}
	s.attempts--
	if s.lastErr != nil {
		s.status = SlotStatusFailed
		return
	}
	s.status = SlotStatusEmpty
}

// Status returns the current status
func (s *Slot) Status() SlotStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Asset returns the materialized asset, if any
func (s *Slot) Asset() (*Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.asset, s.asset != nil
}

// Err returns the error of the last failed load
func (s *Slot) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Attempts returns how many loads were started for the slot
func (s *Slot) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// Snapshot is a consistent copy of a slot's mutable state
type Snapshot struct {
	Status     SlotStatus
	Asset      *Asset
	Err        error
	FinishedAt time.Time
}

// Snapshot reads all mutable fields under one lock
func (s *Slot) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Status:     s.status,
		Asset:      s.asset,
		Err:        s.lastErr,
		FinishedAt: s.finishedAt,
	}
}

// generateSlotID generates a unique, time-ordered slot id using UUID v7
func generateSlotID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return SlotIDPrefix + uuid.NewString()
	}
	return SlotIDPrefix + id.String()
}
