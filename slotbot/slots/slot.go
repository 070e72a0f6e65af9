package slots

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Slot is the authoritative record for one managed channel. The channel ID is
// the registry key and never changes for the life of the slot.
type Slot struct {
	ChannelID      snowflake.ID
	OwnerID        snowflake.ID
	ExpiresAt      time.Time
	DurationLabel  string
	MaxPingsPerDay int
	PingsToday     int
	LastReset      time.Time // UTC midnight of the day PingsToday was last reset
}

// PingsRemaining returns the pings left today, floored at 0.
func (s Slot) PingsRemaining() int {
	remaining := s.MaxPingsPerDay - s.PingsToday
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CloseReason records why a slot left the registry.
type CloseReason string

const (
	CloseExpired CloseReason = "expired"
	CloseDeleted CloseReason = "deleted"
)

// Tombstone remembers a recently closed slot so lookups can tell "expired"
// apart from "never existed".
type Tombstone struct {
	ChannelID snowflake.ID
	OwnerID   snowflake.ID
	ClosedAt  time.Time
	Reason    CloseReason
}

// dateUTC truncates t to its UTC calendar date. Daily ping counters reset on
// UTC date boundaries, not rolling 24h windows.
func dateUTC(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
