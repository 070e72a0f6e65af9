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

var CreateSlot = discord.SlashCommandCreate{
	Name:                     "createslot",
	Description:              "🎟️ Create a temporary slot channel for a user",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "duration",
			Description: "How long the slot stays open (e.g. 2h30m, 1d)",
			Required:    true,
		},
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user who will own the slot",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "pings",
			Description: "Allowed @everyone/@here pings per day",
			Required:    true,
			MinValue:    &[]int{0}[0],
		},
	},
}

func CreateSlotHandler(b *slotbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		duration := data.String("duration")
		owner := data.User("user")
		pings := data.Int("pings")

		guildID := e.GuildID()
		if guildID == nil {
			return e.CreateMessage(discord.MessageCreate{
				Content: "❌ Slots can only be created inside a server.",
				Flags:   discord.MessageFlagEphemeral,
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		slot, err := b.Slots.CreateSlot(ctx, *guildID, owner.ID, owner.Username, duration, pings)
		if err != nil {
			return utils.RespondError(e, err)
		}

		embed := discord.NewEmbedBuilder().
			SetTitle("🎟️ New Slot").
			SetDescriptionf("%s, your slot is open!", discord.UserMention(owner.ID)).
			SetColor(utils.SuccessColor).
			AddField("Duration", slot.DurationLabel, true).
			AddField("Allowed pings", fmt.Sprintf("%d @everyone/@here per day", slot.MaxPingsPerDay), true).
			AddField("Owner", discord.UserMention(owner.ID), true).
			AddField("Closes", fmt.Sprintf("<t:%d:R>", slot.ExpiresAt.Unix()), true).
			SetThumbnail(owner.EffectiveAvatarURL()).
			SetFooterTextf("Created by %s • the slot closes when the duration runs out", e.User().Username).
			Build()

		if _, err := b.Client.Rest().CreateMessage(slot.ChannelID, discord.MessageCreate{
			Content: discord.UserMention(owner.ID),
			Embeds:  []discord.Embed{embed},
		}); err != nil {
			slog.Error("Failed to announce new slot",
				slog.String("type", "slot"),
				slog.String("channel_id", slot.ChannelID.String()),
				slog.Any("error", err))
		}

		return e.CreateMessage(discord.MessageCreate{
			Content: fmt.Sprintf("✅ Slot created for %s in %s", discord.UserMention(owner.ID), discord.ChannelMention(slot.ChannelID)),
			Flags:   discord.MessageFlagEphemeral,
		})
	}
}
