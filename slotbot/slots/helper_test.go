package slots

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

var errFakePlatform = errors.New("fake platform failure")

type accessCall struct {
	channelID snowflake.ID
	userID    snowflake.ID
	allow     bool
}

// fakePlatform records every platform call so tests can assert on the exact
// sequence of side effects, and can be told to fail specific calls.
type fakePlatform struct {
	mu              sync.Mutex
	nextChannelID   snowflake.ID
	createdChannels []snowflake.ID
	deletedChannels []snowflake.ID
	accessCalls     []accessCall
	deletedMessages []snowflake.ID
	notices         []discord.Embed

	failCreate  bool
	failSendFor map[snowflake.ID]bool
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		nextChannelID: 1000,
		failSendFor:   map[snowflake.ID]bool{},
	}
}

func (p *fakePlatform) CreateSlotChannel(_ context.Context, _ snowflake.ID, _ string, _ snowflake.ID) (snowflake.ID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failCreate {
		return 0, platformErr("create channel", errFakePlatform)
	}
	p.nextChannelID++
	p.createdChannels = append(p.createdChannels, p.nextChannelID)
	return p.nextChannelID, nil
}

func (p *fakePlatform) DeleteChannel(_ context.Context, channelID snowflake.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deletedChannels = append(p.deletedChannels, channelID)
	return nil
}

func (p *fakePlatform) SetSendAccess(_ context.Context, channelID snowflake.ID, userID snowflake.ID, allow bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failSendFor[userID] {
		return platformErr("update permission overwrite", errFakePlatform)
	}
	p.accessCalls = append(p.accessCalls, accessCall{channelID: channelID, userID: userID, allow: allow})
	return nil
}

func (p *fakePlatform) DeleteMessage(_ context.Context, _ snowflake.ID, messageID snowflake.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deletedMessages = append(p.deletedMessages, messageID)
	return nil
}

func (p *fakePlatform) Notify(_ context.Context, _ snowflake.ID, embed discord.Embed, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, embed)
	return nil
}

func (p *fakePlatform) deleted() []snowflake.ID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]snowflake.ID(nil), p.deletedChannels...)
}

func (p *fakePlatform) access() []accessCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]accessCall(nil), p.accessCalls...)
}
