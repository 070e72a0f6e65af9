package slots

import (
	"context"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testGuild    = snowflake.ID(500)
	testOwner    = snowflake.ID(42)
	testNewOwner = snowflake.ID(43)
)

func newManagerFixture() (*Manager, *fakePlatform) {
	platform := newFakePlatform()
	return NewManager(platform), platform
}

func TestManager_CreateSlot(t *testing.T) {
	m, platform := newManagerFixture()
	defer m.Shutdown()

	before := time.Now()
	slot, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", "1h", 3)
	require.NoError(t, err)

	assert.Equal(t, testOwner, slot.OwnerID)
	assert.Equal(t, "1h", slot.DurationLabel)
	assert.Equal(t, 3, slot.MaxPingsPerDay)
	assert.Equal(t, 0, slot.PingsToday)
	assert.WithinDuration(t, before.Add(time.Hour), slot.ExpiresAt, 2*time.Second)

	assert.Equal(t, []snowflake.ID{slot.ChannelID}, platform.createdChannels)
	_, ok := m.registry.Get(slot.ChannelID)
	assert.True(t, ok)
}

func TestManager_CreateSlotInvalidDuration(t *testing.T) {
	m, platform := newManagerFixture()
	defer m.Shutdown()

	for _, input := range []string{"", "garbage", "0s"} {
		_, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", input, 3)
		assert.ErrorIs(t, err, ErrInvalidDuration, "input %q", input)
	}
	assert.Empty(t, platform.createdChannels, "no channel may be created for an invalid duration")
}

func TestManager_CreateSlotPlatformFailure(t *testing.T) {
	m, platform := newManagerFixture()
	defer m.Shutdown()
	platform.failCreate = true

	_, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", "1h", 3)
	var perr *PlatformError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 0, m.registry.Len())
}

func TestManager_CreateSlotExpires(t *testing.T) {
	m, platform := newManagerFixture()
	defer m.Shutdown()

	slot, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", "1s", 3)
	require.NoError(t, err)

	time.Sleep(1300 * time.Millisecond)

	_, ok := m.registry.Get(slot.ChannelID)
	assert.False(t, ok)
	assert.Equal(t, []snowflake.ID{slot.ChannelID}, platform.deleted())

	tomb, ok := m.Recent(slot.ChannelID)
	require.True(t, ok)
	assert.Equal(t, CloseExpired, tomb.Reason)
}

func TestManager_EditSlotQuotaOnly(t *testing.T) {
	m, _ := newManagerFixture()
	defer m.Shutdown()

	slot, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", "1h", 3)
	require.NoError(t, err)

	pings := 5
	updated, err := m.EditSlot(context.Background(), slot.ChannelID, nil, &pings)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.MaxPingsPerDay)
	assert.Equal(t, "1h", updated.DurationLabel)
	assert.Equal(t, slot.ExpiresAt, updated.ExpiresAt, "quota-only edits must not touch the expiry")
}

func TestManager_EditSlotRearms(t *testing.T) {
	m, platform := newManagerFixture()
	defer m.Shutdown()

	slot, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", "1h", 3)
	require.NoError(t, err)

	duration := "1s"
	updated, err := m.EditSlot(context.Background(), slot.ChannelID, &duration, nil)
	require.NoError(t, err)
	assert.Equal(t, "1s", updated.DurationLabel)

	// The shortened expiry wins; the original 1h timer must not linger.
	time.Sleep(1300 * time.Millisecond)
	_, ok := m.registry.Get(slot.ChannelID)
	assert.False(t, ok)
	assert.Equal(t, []snowflake.ID{slot.ChannelID}, platform.deleted())
}

func TestManager_EditSlotNearExpiryKeepsNewDeadline(t *testing.T) {
	m, platform := newManagerFixture()
	defer m.Shutdown()

	slot, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", "1s", 3)
	require.NoError(t, err)

	// Extending just before the original deadline: the replacement timer is
	// armed before the record changes, so the 1s deadline never acts on the
	// extended slot.
	duration := "1h"
	_, err = m.EditSlot(context.Background(), slot.ChannelID, &duration, nil)
	require.NoError(t, err)

	time.Sleep(1500 * time.Millisecond)

	_, ok := m.registry.Get(slot.ChannelID)
	assert.True(t, ok, "the extended slot must survive its original deadline")
	assert.Empty(t, platform.deleted())
}

func TestManager_EditSlotOnClosedSlotLeavesNoTimer(t *testing.T) {
	m, platform := newManagerFixture()
	defer m.Shutdown()

	slot, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", "1h", 3)
	require.NoError(t, err)
	require.NoError(t, m.CloseSlot(context.Background(), slot.ChannelID))

	duration := "1h"
	_, err = m.EditSlot(context.Background(), slot.ChannelID, &duration, nil)
	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.Len(t, platform.deleted(), 1)

	m.scheduler.mu.Lock()
	remaining := len(m.scheduler.timers)
	m.scheduler.mu.Unlock()
	assert.Zero(t, remaining, "the failed edit must not leave a timer behind")
}

func TestManager_EditSlotErrors(t *testing.T) {
	m, _ := newManagerFixture()
	defer m.Shutdown()

	duration := "1h"
	_, err := m.EditSlot(context.Background(), snowflake.ID(12345), &duration, nil)
	assert.ErrorIs(t, err, ErrSlotNotFound)

	slot, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", "1h", 3)
	require.NoError(t, err)

	bad := "garbage"
	_, err = m.EditSlot(context.Background(), slot.ChannelID, &bad, nil)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	unchanged, ok := m.registry.Get(slot.ChannelID)
	require.True(t, ok)
	assert.Equal(t, "1h", unchanged.DurationLabel)
}

func TestManager_TransferSlot(t *testing.T) {
	m, platform := newManagerFixture()
	defer m.Shutdown()

	slot, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", "1h", 3)
	require.NoError(t, err)

	result, err := m.TransferSlot(context.Background(), slot.ChannelID, testNewOwner)
	require.NoError(t, err)
	assert.Equal(t, testOwner, result.PreviousOwnerID)
	assert.Equal(t, testNewOwner, result.Slot.OwnerID)

	assert.Equal(t, []accessCall{
		{channelID: slot.ChannelID, userID: testOwner, allow: false},
		{channelID: slot.ChannelID, userID: testNewOwner, allow: true},
	}, platform.access())

	updated, _ := m.registry.Get(slot.ChannelID)
	assert.Equal(t, testNewOwner, updated.OwnerID)
}

func TestManager_TransferSlotToCurrentOwner(t *testing.T) {
	m, platform := newManagerFixture()
	defer m.Shutdown()

	slot, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", "1h", 3)
	require.NoError(t, err)

	_, err = m.TransferSlot(context.Background(), slot.ChannelID, testOwner)
	assert.ErrorIs(t, err, ErrNoOpTransfer)
	assert.Empty(t, platform.access(), "a no-op transfer must not touch permissions")

	unchanged, _ := m.registry.Get(slot.ChannelID)
	assert.Equal(t, testOwner, unchanged.OwnerID)
}

func TestManager_TransferSlotNotFound(t *testing.T) {
	m, _ := newManagerFixture()
	defer m.Shutdown()

	_, err := m.TransferSlot(context.Background(), snowflake.ID(12345), testNewOwner)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestManager_TransferSlotGrantFailureRollsBack(t *testing.T) {
	m, platform := newManagerFixture()
	defer m.Shutdown()

	slot, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", "1h", 3)
	require.NoError(t, err)

	// Revoking the old owner succeeds, granting the new owner fails: the old
	// owner must get send access back and the registry must not change.
	platform.failSendFor[testNewOwner] = true

	_, err = m.TransferSlot(context.Background(), slot.ChannelID, testNewOwner)
	var perr *PlatformError
	require.ErrorAs(t, err, &perr)

	assert.Equal(t, []accessCall{
		{channelID: slot.ChannelID, userID: testOwner, allow: false},
		{channelID: slot.ChannelID, userID: testOwner, allow: true},
	}, platform.access())

	unchanged, _ := m.registry.Get(slot.ChannelID)
	assert.Equal(t, testOwner, unchanged.OwnerID)
}

func TestManager_TransferSlotRevokeFailure(t *testing.T) {
	m, platform := newManagerFixture()
	defer m.Shutdown()

	slot, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", "1h", 3)
	require.NoError(t, err)

	platform.failSendFor[testOwner] = true

	_, err = m.TransferSlot(context.Background(), slot.ChannelID, testNewOwner)
	var perr *PlatformError
	require.ErrorAs(t, err, &perr)
	assert.Empty(t, platform.access())

	unchanged, _ := m.registry.Get(slot.ChannelID)
	assert.Equal(t, testOwner, unchanged.OwnerID)
}

func TestManager_CloseSlot(t *testing.T) {
	m, platform := newManagerFixture()
	defer m.Shutdown()

	slot, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", "1h", 3)
	require.NoError(t, err)

	require.NoError(t, m.CloseSlot(context.Background(), slot.ChannelID))
	assert.Equal(t, []snowflake.ID{slot.ChannelID}, platform.deleted())

	assert.ErrorIs(t, m.CloseSlot(context.Background(), slot.ChannelID), ErrSlotNotFound)
	assert.Len(t, platform.deleted(), 1, "closing twice must not delete twice")

	tomb, ok := m.Recent(slot.ChannelID)
	require.True(t, ok)
	assert.Equal(t, CloseDeleted, tomb.Reason)
}

func TestManager_SlotInfoNormalizesRollover(t *testing.T) {
	m, _ := newManagerFixture()
	defer m.Shutdown()

	slot, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", "1h", 3)
	require.NoError(t, err)

	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	require.NoError(t, m.registry.Update(slot.ChannelID, func(s *Slot) {
		s.LastReset = dateUTC(yesterday)
		s.PingsToday = 3
	}))

	info, err := m.SlotInfo(slot.ChannelID)
	require.NoError(t, err)
	assert.Equal(t, 0, info.PingsToday, "stale counters must not be displayed")
	assert.Equal(t, 3, info.PingsRemaining())
}

func TestManager_ActiveSlotsSortedByExpiry(t *testing.T) {
	m, _ := newManagerFixture()
	defer m.Shutdown()

	late, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", "2h", 3)
	require.NoError(t, err)
	early, err := m.CreateSlot(context.Background(), testGuild, testNewOwner, "bob", "1h", 3)
	require.NoError(t, err)

	active := m.ActiveSlots()
	require.Len(t, active, 2)
	assert.Equal(t, early.ChannelID, active[0].ChannelID)
	assert.Equal(t, late.ChannelID, active[1].ChannelID)
}

// TestManager_EndToEnd walks the full scenario: create a slot with three
// daily pings, spend them, get rejected on the fourth and read the counters
// back.
func TestManager_EndToEnd(t *testing.T) {
	m, platform := newManagerFixture()
	defer m.Shutdown()

	before := time.Now()
	slot, err := m.CreateSlot(context.Background(), testGuild, testOwner, "alice", "1h", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, slot.MaxPingsPerDay)
	assert.Equal(t, 0, slot.PingsToday)
	assert.WithinDuration(t, before.Add(time.Hour), slot.ExpiresAt, 2*time.Second)

	for _, wantRemaining := range []int{2, 1, 0} {
		decision := m.CheckMessage(slot.ChannelID, testOwner, true)
		require.Equal(t, VerdictAllowed, decision.Verdict)
		assert.Equal(t, wantRemaining, decision.Remaining)
	}

	decision := m.CheckMessage(slot.ChannelID, testOwner, true)
	assert.Equal(t, VerdictRejected, decision.Verdict)

	info, err := m.SlotInfo(slot.ChannelID)
	require.NoError(t, err)
	assert.Equal(t, 3, info.PingsToday)
	assert.Equal(t, 0, info.PingsRemaining())

	assert.Empty(t, platform.deleted(), "the slot itself stays open")
}
