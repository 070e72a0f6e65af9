package slots

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
)

// DiscordPlatform implements Platform against the live Discord REST API.
type DiscordPlatform struct {
	client     bot.Client
	categoryID snowflake.ID
}

func NewDiscordPlatform(categoryID snowflake.ID) *DiscordPlatform {
	return &DiscordPlatform{categoryID: categoryID}
}

// SetClient attaches the bot client once the session has been built.
func (p *DiscordPlatform) SetClient(client bot.Client) {
	p.client = client
}

func (p *DiscordPlatform) CreateSlotChannel(ctx context.Context, guildID snowflake.ID, name string, ownerID snowflake.ID) (snowflake.ID, error) {
	overwrites := []discord.PermissionOverwrite{
		discord.RolePermissionOverwrite{
			// The @everyone role shares the guild's ID.
			RoleID: guildID,
			Allow:  discord.PermissionViewChannel,
			Deny:   discord.PermissionSendMessages,
		},
		discord.MemberPermissionOverwrite{
			UserID: ownerID,
			Allow:  discord.PermissionViewChannel | discord.PermissionSendMessages,
		},
		discord.MemberPermissionOverwrite{
			UserID: p.client.ApplicationID(),
			Allow:  discord.PermissionViewChannel | discord.PermissionSendMessages | discord.PermissionManageChannels,
		},
	}

	channel, err := p.client.Rest().CreateGuildChannel(guildID, discord.GuildTextChannelCreate{
		Name:                 name,
		ParentID:             p.categoryID,
		PermissionOverwrites: overwrites,
	}, rest.WithCtx(ctx))
	if err != nil {
		return 0, platformErr("create channel", err)
	}
	return channel.ID(), nil
}

func (p *DiscordPlatform) DeleteChannel(ctx context.Context, channelID snowflake.ID) error {
	err := p.client.Rest().DeleteChannel(channelID, rest.WithCtx(ctx))
	if err != nil && !isNotFound(err) {
		return platformErr("delete channel", err)
	}
	return nil
}

func (p *DiscordPlatform) SetSendAccess(ctx context.Context, channelID snowflake.ID, userID snowflake.ID, allow bool) error {
	update := discord.MemberPermissionOverwriteUpdate{
		Allow: json.Ptr(discord.PermissionViewChannel),
		Deny:  json.Ptr(discord.PermissionSendMessages),
	}
	if allow {
		update = discord.MemberPermissionOverwriteUpdate{
			Allow: json.Ptr(discord.PermissionViewChannel | discord.PermissionSendMessages),
			Deny:  json.Ptr(discord.Permissions(0)),
		}
	}
	if err := p.client.Rest().UpdatePermissionOverwrite(channelID, userID, update, rest.WithCtx(ctx)); err != nil {
		return platformErr("update permission overwrite", err)
	}
	return nil
}

func (p *DiscordPlatform) DeleteMessage(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID) error {
	err := p.client.Rest().DeleteMessage(channelID, messageID, rest.WithCtx(ctx))
	if err != nil && !isNotFound(err) {
		return platformErr("delete message", err)
	}
	return nil
}

func (p *DiscordPlatform) Notify(ctx context.Context, channelID snowflake.ID, embed discord.Embed, ttl time.Duration) error {
	msg, err := p.client.Rest().CreateMessage(channelID, discord.MessageCreate{
		Embeds: []discord.Embed{embed},
	}, rest.WithCtx(ctx))
	if err != nil {
		return platformErr("create message", err)
	}
	if ttl > 0 {
		time.AfterFunc(ttl, func() {
			if err := p.client.Rest().DeleteMessage(channelID, msg.ID); err != nil && !isNotFound(err) {
				slog.Warn("Failed to delete transient notice",
					slog.String("type", "slot"),
					slog.String("channel_id", channelID.String()),
					slog.Any("error", err))
			}
		})
	}
	return nil
}

func isNotFound(err error) bool {
	var restErr rest.Error
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
