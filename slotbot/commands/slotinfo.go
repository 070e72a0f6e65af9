package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/ellavondegurechaff/slotbot/slotbot"
	"github.com/ellavondegurechaff/slotbot/slotbot/utils"
)

var SlotInfo = discord.SlashCommandCreate{
	Name:        "slotinfo",
	Description: "📊 Show the state of the slot you are in",
}

func SlotInfoHandler(b *slotbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		channelID := e.ChannelID()

		slot, err := b.Slots.SlotInfo(channelID)
		if err != nil {
			// A tombstone lets us answer "this slot expired" instead of a
			// bare not-found.
			if tomb, ok := b.Slots.Recent(channelID); ok {
				return e.CreateMessage(discord.MessageCreate{
					Content: fmt.Sprintf("❌ This slot closed <t:%d:R> (%s).", tomb.ClosedAt.Unix(), tomb.Reason),
					Flags:   discord.MessageFlagEphemeral,
				})
			}
			return utils.RespondError(e, err)
		}

		isOwner := e.User().ID == slot.OwnerID
		isAdmin := e.Member() != nil && e.Member().Permissions.Has(discord.PermissionAdministrator)
		if !isOwner && !isAdmin {
			return e.CreateMessage(discord.MessageCreate{
				Content: "❌ Only the slot owner or an administrator can view this slot.",
				Flags:   discord.MessageFlagEphemeral,
			})
		}

		embed := discord.NewEmbedBuilder().
			SetTitle("📊 Slot info").
			SetColor(utils.InfoColor).
			AddField("Owner", discord.UserMention(slot.OwnerID), true).
			AddField("Duration", slot.DurationLabel, true).
			AddField("Closes", fmt.Sprintf("<t:%d:R>", slot.ExpiresAt.Unix()), true).
			AddField("Pings allowed", fmt.Sprintf("%d per day", slot.MaxPingsPerDay), true).
			AddField("Pings used", fmt.Sprintf("%d", slot.PingsToday), true).
			AddField("Pings remaining", fmt.Sprintf("%d", slot.PingsRemaining()), true).
			SetFooterTextf("Channel: %s", discord.ChannelMention(slot.ChannelID)).
			Build()

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{embed},
			Flags:  discord.MessageFlagEphemeral,
		})
	}
}
