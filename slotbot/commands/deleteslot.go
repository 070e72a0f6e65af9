package commands

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"

	"github.com/ellavondegurechaff/slotbot/slotbot"
	"github.com/ellavondegurechaff/slotbot/slotbot/utils"
)

var DeleteSlot = discord.SlashCommandCreate{
	Name:                     "deleteslot",
	Description:              "🗑️ Close a slot before it expires",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionChannel{
			Name:        "channel",
			Description: "The slot channel to close",
			Required:    true,
		},
	},
}

func DeleteSlotHandler(b *slotbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		channel := e.SlashCommandInteractionData().Channel("channel")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := b.Slots.CloseSlot(ctx, channel.ID); err != nil {
			return utils.RespondError(e, err)
		}

		return e.CreateMessage(discord.MessageCreate{
			Content: "✅ Slot closed and channel deleted.",
			Flags:   discord.MessageFlagEphemeral,
		})
	}
}
