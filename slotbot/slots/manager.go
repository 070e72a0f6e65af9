package slots

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Manager ties the registry, scheduler and platform together and exposes the
// slot operations the command surface calls. Lifecycle operations are
// serialized by a single mutex, so for any one channel the admin operations
// and the scheduler's firing are totally ordered.
type Manager struct {
	mu        sync.Mutex
	registry  *Registry
	scheduler *Scheduler
	enforcer  *Enforcer
	platform  Platform
	now       func() time.Time
}

func NewManager(platform Platform) *Manager {
	registry := NewRegistry()
	return &Manager{
		registry:  registry,
		scheduler: NewScheduler(registry, platform),
		enforcer:  NewEnforcer(registry),
		platform:  platform,
		now:       time.Now,
	}
}

// CreateSlot provisions a channel named slot-<owner> under the configured
// category, registers the slot and arms its expiry timer. The channel is
// deleted again if registration fails, so a failed create leaves nothing
// behind.
func (m *Manager) CreateSlot(ctx context.Context, guildID snowflake.ID, ownerID snowflake.ID, ownerName string, duration string, maxPings int) (Slot, error) {
	d := ParseDuration(duration)
	if d <= 0 {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidDuration, duration)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	channelID, err := m.platform.CreateSlotChannel(ctx, guildID, "slot-"+ownerName, ownerID)
	if err != nil {
		return Slot{}, err
	}

	now := m.now()
	slot := &Slot{
		ChannelID:      channelID,
		OwnerID:        ownerID,
		ExpiresAt:      now.Add(d),
		DurationLabel:  duration,
		MaxPingsPerDay: maxPings,
		LastReset:      dateUTC(now),
	}
	if err := m.registry.Insert(slot); err != nil {
		// A slot that never registered must not leave a live channel behind.
		if delErr := m.platform.DeleteChannel(ctx, channelID); delErr != nil {
			slog.Error("Failed to roll back slot channel",
				slog.String("type", "slot"),
				slog.String("channel_id", channelID.String()),
				slog.Any("error", delErr))
		}
		return Slot{}, err
	}
	m.scheduler.Arm(channelID, slot.ExpiresAt)

	slog.Info("Slot created",
		slog.String("type", "slot"),
		slog.String("channel_id", channelID.String()),
		slog.String("owner_id", ownerID.String()),
		slog.String("duration", duration),
		slog.Int("max_pings", maxPings))
	return *slot, nil
}

// EditSlot updates the duration and/or daily ping limit of an existing slot.
// A changed duration re-arms the expiry timer before the record is touched,
// so the old deadline can never fire against the edited slot.
func (m *Manager) EditSlot(ctx context.Context, channelID snowflake.ID, duration *string, maxPings *int) (Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var d time.Duration
	if duration != nil {
		if d = ParseDuration(*duration); d <= 0 {
			return Slot{}, fmt.Errorf("%w: %q", ErrInvalidDuration, *duration)
		}
	}

	var newExpiry time.Time
	if duration != nil {
		newExpiry = m.now().Add(d)
		m.scheduler.Arm(channelID, newExpiry)
	}

	var updated Slot
	err := m.registry.Update(channelID, func(slot *Slot) {
		if duration != nil {
			slot.ExpiresAt = newExpiry
			slot.DurationLabel = *duration
		}
		if maxPings != nil {
			slot.MaxPingsPerDay = *maxPings
		}
		updated = *slot
	})
	if err != nil {
		// The slot is gone (closed or expired mid-edit); the replacement
		// timer must not linger.
		if duration != nil {
			m.scheduler.Cancel(channelID)
		}
		return Slot{}, err
	}

	slog.Info("Slot updated",
		slog.String("type", "slot"),
		slog.String("channel_id", channelID.String()),
		slog.String("duration", updated.DurationLabel),
		slog.Int("max_pings", updated.MaxPingsPerDay))
	return updated, nil
}

// TransferResult reports a completed ownership transfer.
type TransferResult struct {
	Slot            Slot
	PreviousOwnerID snowflake.ID
}

// TransferSlot moves slot ownership to newOwnerID. The platform permission
// updates come first and the registry mutation last, so a failed call can
// never leave the registry naming an owner Discord does not grant send access
// to. If the grant to the new owner fails after the old owner was revoked,
// the revoke is compensated before the failure is reported.
func (m *Manager) TransferSlot(ctx context.Context, channelID snowflake.ID, newOwnerID snowflake.ID) (TransferResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot, ok := m.registry.Get(channelID)
	if !ok {
		return TransferResult{}, ErrSlotNotFound
	}
	if slot.OwnerID == newOwnerID {
		return TransferResult{}, ErrNoOpTransfer
	}

	if err := m.platform.SetSendAccess(ctx, channelID, slot.OwnerID, false); err != nil {
		return TransferResult{}, err
	}
	if err := m.platform.SetSendAccess(ctx, channelID, newOwnerID, true); err != nil {
		if restoreErr := m.platform.SetSendAccess(ctx, channelID, slot.OwnerID, true); restoreErr != nil {
			slog.Error("Failed to restore previous owner after aborted transfer",
				slog.String("type", "slot"),
				slog.String("channel_id", channelID.String()),
				slog.String("owner_id", slot.OwnerID.String()),
				slog.Any("error", restoreErr))
		}
		return TransferResult{}, err
	}

	var updated Slot
	if err := m.registry.Update(channelID, func(s *Slot) {
		s.OwnerID = newOwnerID
		updated = *s
	}); err != nil {
		return TransferResult{}, err
	}

	slog.Info("Slot ownership transferred",
		slog.String("type", "slot"),
		slog.String("channel_id", channelID.String()),
		slog.String("previous_owner_id", slot.OwnerID.String()),
		slog.String("new_owner_id", newOwnerID.String()))
	return TransferResult{Slot: updated, PreviousOwnerID: slot.OwnerID}, nil
}

// SlotInfo returns a snapshot of the slot with the daily counter normalized
// for day rollover, so a stale counter is never displayed.
func (m *Manager) SlotInfo(channelID snowflake.ID) (Slot, error) {
	var snapshot Slot
	err := m.registry.Update(channelID, func(slot *Slot) {
		today := dateUTC(m.now())
		if !slot.LastReset.Equal(today) {
			slot.PingsToday = 0
			slot.LastReset = today
		}
		snapshot = *slot
	})
	if err != nil {
		return Slot{}, err
	}
	return snapshot, nil
}

// CloseSlot tears a slot down before its expiry: the timer is cancelled, the
// registry entry dropped and the channel deleted.
func (m *Manager) CloseSlot(ctx context.Context, channelID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.registry.Remove(channelID, CloseDeleted) {
		return ErrSlotNotFound
	}
	m.scheduler.Cancel(channelID)

	if err := m.platform.DeleteChannel(ctx, channelID); err != nil {
		return err
	}
	slog.Info("Slot closed",
		slog.String("type", "slot"),
		slog.String("channel_id", channelID.String()))
	return nil
}

// CheckMessage forwards an inbound message to the quota enforcer.
func (m *Manager) CheckMessage(channelID snowflake.ID, authorID snowflake.ID, mentionsEveryone bool) Decision {
	return m.enforcer.CheckMessage(channelID, authorID, mentionsEveryone)
}

// Recent looks up the tombstone of a recently closed slot.
func (m *Manager) Recent(channelID snowflake.ID) (Tombstone, bool) {
	return m.registry.Recent(channelID)
}

// ActiveSlots returns every active slot ordered by expiry, soonest first.
func (m *Manager) ActiveSlots() []Slot {
	active := m.registry.All()
	sort.Slice(active, func(i, j int) bool {
		return active[i].ExpiresAt.Before(active[j].ExpiresAt)
	})
	return active
}

// Shutdown stops all pending expiry timers. Registry state lives in memory
// only and is dropped with the process.
func (m *Manager) Shutdown() {
	m.scheduler.Shutdown()
}
