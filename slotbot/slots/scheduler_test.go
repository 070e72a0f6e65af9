package slots

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_FiresAndDeletesChannel(t *testing.T) {
	platform := newFakePlatform()
	registry := NewRegistry()
	scheduler := NewScheduler(registry, platform)
	defer scheduler.Shutdown()

	require.NoError(t, registry.Insert(testSlot(1)))
	scheduler.Arm(1, time.Now().Add(30*time.Millisecond))

	time.Sleep(200 * time.Millisecond)

	_, ok := registry.Get(1)
	assert.False(t, ok, "slot should be gone after firing")
	assert.Equal(t, []snowflake.ID{1}, platform.deleted())

	tomb, ok := registry.Recent(1)
	require.True(t, ok)
	assert.Equal(t, CloseExpired, tomb.Reason)
}

func TestScheduler_FiringAfterManualRemovalIsNoOp(t *testing.T) {
	platform := newFakePlatform()
	registry := NewRegistry()
	scheduler := NewScheduler(registry, platform)
	defer scheduler.Shutdown()

	require.NoError(t, registry.Insert(testSlot(1)))
	scheduler.Arm(1, time.Now().Add(30*time.Millisecond))
	registry.Remove(1, CloseDeleted)

	time.Sleep(200 * time.Millisecond)

	assert.Empty(t, platform.deleted(), "firing for an already-removed slot must not delete the channel")
}

func TestScheduler_RearmReplacesOldTimer(t *testing.T) {
	platform := newFakePlatform()
	registry := NewRegistry()
	scheduler := NewScheduler(registry, platform)
	defer scheduler.Shutdown()

	require.NoError(t, registry.Insert(testSlot(1)))
	scheduler.Arm(1, time.Now().Add(50*time.Millisecond))
	scheduler.Arm(1, time.Now().Add(5*time.Second))

	time.Sleep(250 * time.Millisecond)

	_, ok := registry.Get(1)
	assert.True(t, ok, "stale timer must not fire after a re-arm")
	assert.Empty(t, platform.deleted())
}

func TestScheduler_RearmToEarlierDeadline(t *testing.T) {
	platform := newFakePlatform()
	registry := NewRegistry()
	scheduler := NewScheduler(registry, platform)
	defer scheduler.Shutdown()

	require.NoError(t, registry.Insert(testSlot(1)))
	scheduler.Arm(1, time.Now().Add(5*time.Second))
	scheduler.Arm(1, time.Now().Add(50*time.Millisecond))

	time.Sleep(250 * time.Millisecond)

	_, ok := registry.Get(1)
	assert.False(t, ok, "the earlier deadline should have fired")
	assert.Equal(t, []snowflake.ID{1}, platform.deleted())
}

func TestScheduler_CancelStopsTimer(t *testing.T) {
	platform := newFakePlatform()
	registry := NewRegistry()
	scheduler := NewScheduler(registry, platform)
	defer scheduler.Shutdown()

	require.NoError(t, registry.Insert(testSlot(1)))
	scheduler.Arm(1, time.Now().Add(50*time.Millisecond))
	scheduler.Cancel(1)

	time.Sleep(200 * time.Millisecond)

	_, ok := registry.Get(1)
	assert.True(t, ok)
	assert.Empty(t, platform.deleted())
}

func TestScheduler_IndependentChannels(t *testing.T) {
	platform := newFakePlatform()
	registry := NewRegistry()
	scheduler := NewScheduler(registry, platform)
	defer scheduler.Shutdown()

	require.NoError(t, registry.Insert(testSlot(1)))
	require.NoError(t, registry.Insert(testSlot(2)))
	scheduler.Arm(1, time.Now().Add(30*time.Millisecond))
	scheduler.Arm(2, time.Now().Add(5*time.Second))

	time.Sleep(200 * time.Millisecond)

	_, ok := registry.Get(1)
	assert.False(t, ok)
	_, ok = registry.Get(2)
	assert.True(t, ok)
	assert.Equal(t, []snowflake.ID{1}, platform.deleted())
}
