package slots

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDuration is returned when a duration string parses to zero or
	// a negative total.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrSlotNotFound is returned when an operation references a channel with
	// no active slot.
	ErrSlotNotFound = errors.New("no active slot for this channel")
	// ErrDuplicateSlot is returned when a channel is already tracked.
	ErrDuplicateSlot = errors.New("channel already has an active slot")
	// ErrNoOpTransfer is returned when a transfer targets the current owner.
	ErrNoOpTransfer = errors.New("user already owns this slot")
)

// PlatformError wraps a failed Discord call. An operation that hits one is
// rolled back or reported as failed, never left half-applied.
type PlatformError struct {
	Op  string
	Err error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform call %s failed: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

func platformErr(op string, err error) error {
	return &PlatformError{Op: op, Err: err}
}
