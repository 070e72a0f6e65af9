package commands

import (
	"fmt"
	"math"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"
	"github.com/disgoorg/paginator"

	"github.com/ellavondegurechaff/slotbot/slotbot"
	"github.com/ellavondegurechaff/slotbot/slotbot/utils"
)

const slotsPerPage = 8

var ListSlots = discord.SlashCommandCreate{
	Name:                     "slots",
	Description:              "📋 List all active slots",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
}

func ListSlotsHandler(b *slotbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		active := b.Slots.ActiveSlots()
		if len(active) == 0 {
			return e.CreateMessage(discord.MessageCreate{
				Content: "There are no active slots.",
				Flags:   discord.MessageFlagEphemeral,
			})
		}

		totalPages := int(math.Ceil(float64(len(active)) / float64(slotsPerPage)))

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * slotsPerPage
				end := min(start+slotsPerPage, len(active))

				var description strings.Builder
				for _, slot := range active[start:end] {
					description.WriteString(fmt.Sprintf("%s • %s • %d/%d pings today • closes <t:%d:R>\n",
						discord.ChannelMention(slot.ChannelID),
						discord.UserMention(slot.OwnerID),
						slot.PingsToday,
						slot.MaxPingsPerDay,
						slot.ExpiresAt.Unix(),
					))
				}

				embed.
					SetTitle("📋 Active slots").
					SetDescription(description.String()).
					SetColor(utils.InfoColor).
					SetFooter(fmt.Sprintf("Page %d/%d • Total: %d", page+1, totalPages, len(active)), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
