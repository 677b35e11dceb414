package model

// SlotStatus represents where a slot is in its load lifecycle
type SlotStatus string

const (
	// SlotStatusEmpty means no asset has been requested yet
	SlotStatusEmpty SlotStatus = "Empty"

	// SlotStatusLoading means a load is in flight for the slot
	SlotStatusLoading SlotStatus = "Loading"

	// SlotStatusLoaded means the asset cell is populated
	SlotStatusLoaded SlotStatus = "Loaded"

	// SlotStatusFailed means the last load failed; the cell is still empty
	SlotStatusFailed SlotStatus = "Failed"
)

// String returns the string representation of SlotStatus
func (s SlotStatus) String() string {
	return string(s)
}

// IsActive returns true while a load owns the slot
func (s SlotStatus) IsActive() bool {
	return s == SlotStatusLoading
}

// IsFinished returns true once a load attempt has ended (loaded or failed)
func (s SlotStatus) IsFinished() bool {
	return s == SlotStatusLoaded || s == SlotStatusFailed
}

// NeedsLoad returns true if a reconcile pass should request the asset
func (s SlotStatus) NeedsLoad() bool {
	return s == SlotStatusEmpty || s == SlotStatusFailed
}
