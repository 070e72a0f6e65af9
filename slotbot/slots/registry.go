package slots

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"
)

const tombstoneCacheSize = 256

// Registry is the single source of truth for active slots, keyed by channel
// ID. Every other component reads and writes through it. A bounded LRU of
// tombstones keeps track of recently closed slots for friendlier lookups.
type Registry struct {
	mu     sync.RWMutex
	slots  map[snowflake.ID]*Slot
	closed *lru.Cache
	now    func() time.Time
}

func NewRegistry() *Registry {
	// lru.New only fails on a non-positive size
	cache, _ := lru.New(tombstoneCacheSize)
	return &Registry{
		slots:  make(map[snowflake.ID]*Slot),
		closed: cache,
		now:    time.Now,
	}
}

// Insert registers a new slot. ErrDuplicateSlot when the channel is already
// tracked.
func (r *Registry) Insert(slot *Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[slot.ChannelID]; ok {
		return ErrDuplicateSlot
	}
	r.slots[slot.ChannelID] = slot
	r.closed.Remove(slot.ChannelID)
	return nil
}

// Get returns a copy of the slot record, or false when the channel is not
// tracked.
func (r *Registry) Get(channelID snowflake.ID) (Slot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, ok := r.slots[channelID]
	if !ok {
		return Slot{}, false
	}
	return *slot, true
}

// Update applies mutate to the slot under the registry lock, so the mutation
// is atomic with respect to every other registry access.
func (r *Registry) Update(channelID snowflake.ID, mutate func(*Slot)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[channelID]
	if !ok {
		return ErrSlotNotFound
	}
	mutate(slot)
	return nil
}

// Remove drops the slot and leaves a tombstone behind. The returned bool
// reports whether a record was actually present; the scheduler's firing guard
// relies on it to tell "just removed" apart from "already gone".
func (r *Registry) Remove(channelID snowflake.ID, reason CloseReason) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[channelID]
	if !ok {
		return false
	}
	delete(r.slots, channelID)
	r.closed.Add(channelID, Tombstone{
		ChannelID: channelID,
		OwnerID:   slot.OwnerID,
		ClosedAt:  r.now(),
		Reason:    reason,
	})
	return true
}

// Recent returns the tombstone for a recently closed slot, if still cached.
func (r *Registry) Recent(channelID snowflake.ID) (Tombstone, bool) {
	if v, ok := r.closed.Get(channelID); ok {
		return v.(Tombstone), true
	}
	return Tombstone{}, false
}

// All returns copies of every active slot.
func (r *Registry) All() []Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Slot, 0, len(r.slots))
	for _, slot := range r.slots {
		out = append(out, *slot)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}
