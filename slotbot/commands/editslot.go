package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"

	"github.com/ellavondegurechaff/slotbot/slotbot"
	"github.com/ellavondegurechaff/slotbot/slotbot/utils"
)

var EditSlot = discord.SlashCommandCreate{
	Name:                     "editslot",
	Description:              "✏️ Change the duration and/or ping limit of a slot",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionChannel{
			Name:        "channel",
			Description: "The slot channel to edit",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "duration",
			Description: "New duration, counted from now (e.g. 2h30m, 1d)",
			Required:    false,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "pings",
			Description: "New @everyone/@here ping limit per day",
			Required:    false,
			MinValue:    &[]int{0}[0],
		},
	},
}

func EditSlotHandler(b *slotbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		channel := data.Channel("channel")

		var duration *string
		if v, ok := data.OptString("duration"); ok {
			duration = &v
		}
		var pings *int
		if v, ok := data.OptInt("pings"); ok {
			pings = &v
		}
		if duration == nil && pings == nil {
			return e.CreateMessage(discord.MessageCreate{
				Content: "❌ Nothing to change. Pass a new duration and/or ping limit.",
				Flags:   discord.MessageFlagEphemeral,
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		slot, err := b.Slots.EditSlot(ctx, channel.ID, duration, pings)
		if err != nil {
			return utils.RespondError(e, err)
		}

		embed := discord.NewEmbedBuilder().
			SetTitle("✏️ Slot updated").
			SetColor(utils.WarningColor).
			AddField("Duration", slot.DurationLabel, true).
			AddField("Allowed pings", fmt.Sprintf("%d per day", slot.MaxPingsPerDay), true).
			AddField("Owner", discord.UserMention(slot.OwnerID), true).
			AddField("Closes", fmt.Sprintf("<t:%d:R>", slot.ExpiresAt.Unix()), true).
			SetFooterTextf("Updated by %s", e.User().Username).
			Build()

		if _, err := b.Client.Rest().CreateMessage(slot.ChannelID, discord.MessageCreate{
			Embeds: []discord.Embed{embed},
		}); err != nil {
			slog.Error("Failed to announce slot update",
				slog.String("type", "slot"),
				slog.String("channel_id", slot.ChannelID.String()),
				slog.Any("error", err))
		}

		return e.CreateMessage(discord.MessageCreate{
			Content: fmt.Sprintf("✅ Slot updated in %s", discord.ChannelMention(slot.ChannelID)),
			Flags:   discord.MessageFlagEphemeral,
		})
	}
}
