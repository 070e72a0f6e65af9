package slots

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Verdict is the enforcer's decision for one inbound message.
type Verdict int

const (
	// VerdictIgnored: not a slot channel, not the owner, or not a ping.
	VerdictIgnored Verdict = iota
	// VerdictAllowed: the ping was counted against today's allowance.
	VerdictAllowed
	// VerdictRejected: the daily limit is spent; the message should be
	// deleted and the counter stays untouched.
	VerdictRejected
)

// Decision carries the verdict plus the numbers the notices display.
type Decision struct {
	Verdict   Verdict
	MaxPings  int
	Remaining int
}

// Enforcer meters @everyone/@here pings by the slot owner against the slot's
// daily allowance. Messages from anyone but the owner are not metered.
type Enforcer struct {
	registry *Registry
	now      func() time.Time
}

func NewEnforcer(registry *Registry) *Enforcer {
	return &Enforcer{registry: registry, now: time.Now}
}

// CheckMessage runs the per-message state machine: first reset the counter on
// UTC day rollover, then, if the message pings everyone, count it or reject
// it. The rollover reset applies to every owner message, not just pings, so
// reads after the reset always see a current counter.
func (e *Enforcer) CheckMessage(channelID snowflake.ID, authorID snowflake.ID, mentionsEveryone bool) Decision {
	decision := Decision{Verdict: VerdictIgnored}
	// An unregistered channel makes Update a no-op error; the message is
	// simply not inspected.
	_ = e.registry.Update(channelID, func(slot *Slot) {
		if slot.OwnerID != authorID {
			return
		}

		today := dateUTC(e.now())
		if !slot.LastReset.Equal(today) {
			slot.PingsToday = 0
			slot.LastReset = today
		}

		if !mentionsEveryone {
			return
		}

		if slot.PingsToday+1 > slot.MaxPingsPerDay {
			decision = Decision{Verdict: VerdictRejected, MaxPings: slot.MaxPingsPerDay}
			return
		}

		slot.PingsToday++
		decision = Decision{
			Verdict:   VerdictAllowed,
			MaxPings:  slot.MaxPingsPerDay,
			Remaining: slot.PingsRemaining(),
		}
	})
	return decision
}
