package slots

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Platform is the surface of Discord the slot core depends on. The live
// implementation is DiscordPlatform; tests use a recording fake.
type Platform interface {
	// CreateSlotChannel provisions the slot channel under the configured
	// category with its initial permission overwrites: audience read-only,
	// owner read+send, bot read+send+manage. Returns the new channel's ID.
	CreateSlotChannel(ctx context.Context, guildID snowflake.ID, name string, ownerID snowflake.ID) (snowflake.ID, error)

	// DeleteChannel removes the channel. Deleting an already-deleted channel
	// is not an error.
	DeleteChannel(ctx context.Context, channelID snowflake.ID) error

	// SetSendAccess flips the send-messages overwrite for userID on the
	// channel. View access is kept either way.
	SetSendAccess(ctx context.Context, channelID snowflake.ID, userID snowflake.ID, allow bool) error

	// DeleteMessage removes a single message, used for rejected pings.
	DeleteMessage(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID) error

	// Notify posts a transient informational embed that deletes itself after
	// ttl. A ttl of zero leaves the message in place.
	Notify(ctx context.Context, channelID snowflake.ID, embed discord.Embed, ttl time.Duration) error
}
