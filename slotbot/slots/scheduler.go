package slots

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const expiryDeleteTimeout = 30 * time.Second

type slotTimer struct {
	timer *time.Timer
}

// Scheduler owns one replaceable one-shot timer per slot channel. Arming an
// already-armed channel swaps the timer, so an edited expiry can never be
// beaten by a stale firing.
type Scheduler struct {
	registry *Registry
	platform Platform

	mu     sync.Mutex
	timers map[snowflake.ID]*slotTimer
}

func NewScheduler(registry *Registry, platform Platform) *Scheduler {
	return &Scheduler{
		registry: registry,
		platform: platform,
		timers:   make(map[snowflake.ID]*slotTimer),
	}
}

// Arm schedules (or reschedules) the expiry firing for channelID at expiresAt.
func (s *Scheduler) Arm(channelID snowflake.ID, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.timers[channelID]; ok {
		old.timer.Stop()
	}
	handle := &slotTimer{}
	handle.timer = time.AfterFunc(time.Until(expiresAt), func() {
		s.fire(channelID, handle)
	})
	s.timers[channelID] = handle
}

// Cancel stops and drops the pending timer for channelID, if any. Used by the
// explicit removal paths; a timer that already fired is caught by the firing
// guard instead.
func (s *Scheduler) Cancel(channelID snowflake.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if handle, ok := s.timers[channelID]; ok {
		handle.timer.Stop()
		delete(s.timers, channelID)
	}
}

func (s *Scheduler) fire(channelID snowflake.ID, handle *slotTimer) {
	s.mu.Lock()
	current, ok := s.timers[channelID]
	if !ok || current != handle {
		// Superseded by a re-arm while we were pending.
		s.mu.Unlock()
		return
	}
	delete(s.timers, channelID)
	s.mu.Unlock()

	// The slot may have been closed while the timer was pending; in that
	// case the firing is a silent no-op.
	if !s.registry.Remove(channelID, CloseExpired) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), expiryDeleteTimeout)
	defer cancel()
	if err := s.platform.DeleteChannel(ctx, channelID); err != nil {
		slog.Error("Failed to delete expired slot channel",
			slog.String("type", "slot"),
			slog.String("channel_id", channelID.String()),
			slog.Any("error", err))
		return
	}

	slog.Info("Slot expired",
		slog.String("type", "slot"),
		slog.String("channel_id", channelID.String()))
}

// Shutdown stops every pending timer.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, handle := range s.timers {
		handle.timer.Stop()
		delete(s.timers, id)
	}
}
