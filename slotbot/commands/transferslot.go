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

var TransferSlot = discord.SlashCommandCreate{
	Name:                     "transferslot",
	Description:              "👑 Transfer a slot to another user",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionChannel{
			Name:        "channel",
			Description: "The slot channel to transfer",
			Required:    true,
		},
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The new owner",
			Required:    true,
		},
	},
}

func TransferSlotHandler(b *slotbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		channel := data.Channel("channel")
		newOwner := data.User("user")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		result, err := b.Slots.TransferSlot(ctx, channel.ID, newOwner.ID)
		if err != nil {
			return utils.RespondError(e, err)
		}

		embed := discord.NewEmbedBuilder().
			SetTitle("👑 Slot transferred").
			SetDescriptionf("This slot now belongs to %s.", discord.UserMention(newOwner.ID)).
			SetColor(utils.AccentColor).
			AddField("Previous owner", discord.UserMention(result.PreviousOwnerID), true).
			AddField("New owner", discord.UserMention(newOwner.ID), true).
			SetThumbnail(newOwner.EffectiveAvatarURL()).
			SetFooterTextf("Transferred by %s", e.User().Username).
			Build()

		if _, err := b.Client.Rest().CreateMessage(result.Slot.ChannelID, discord.MessageCreate{
			Embeds: []discord.Embed{embed},
		}); err != nil {
			slog.Error("Failed to announce slot transfer",
				slog.String("type", "slot"),
				slog.String("channel_id", result.Slot.ChannelID.String()),
				slog.Any("error", err))
		}

		return e.CreateMessage(discord.MessageCreate{
			Content: fmt.Sprintf("✅ Slot transferred to %s", discord.UserMention(newOwner.ID)),
			Flags:   discord.MessageFlagEphemeral,
		})
	}
}
