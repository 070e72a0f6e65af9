package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/ellavondegurechaff/slotbot/slotbot"
	"github.com/ellavondegurechaff/slotbot/slotbot/slots"
	"github.com/ellavondegurechaff/slotbot/slotbot/utils"
)

// MessageHandler feeds every guild message into the ping quota enforcement.
// Messages outside registered slot channels and messages from bots come back
// as ignored and cost nothing.
func MessageHandler(b *slotbot.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMessageCreate) {
		if e.Message.Author.Bot {
			return
		}

		decision := b.Slots.CheckMessage(e.ChannelID, e.Message.Author.ID, e.Message.MentionEveryone)
		switch decision.Verdict {
		case slots.VerdictAllowed:
			notifyQuota(b, e.ChannelID, discord.NewEmbedBuilder().
				SetTitle("🔔 Ping sent").
				SetDescriptionf("You have **%d @everyone/@here pings left** today.", decision.Remaining).
				SetColor(utils.SuccessColor).
				Build())

		case slots.VerdictRejected:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			// The rejection stands even when the delete fails; the counter
			// was never incremented and the failure is only logged.
			if err := b.Platform.DeleteMessage(ctx, e.ChannelID, e.MessageID); err != nil {
				slog.Error("Failed to delete over-limit ping",
					slog.String("type", "slot"),
					slog.String("channel_id", e.ChannelID.String()),
					slog.String("message_id", e.MessageID.String()),
					slog.Any("error", err))
			}
			notifyQuota(b, e.ChannelID, discord.NewEmbedBuilder().
				SetTitle("🚫 Ping limit reached").
				SetDescriptionf("You have hit your limit of **%d @everyone/@here pings per day**.", decision.MaxPings).
				SetColor(utils.ErrorColor).
				Build())
		}
	})
}

func notifyQuota(b *slotbot.Bot, channelID snowflake.ID, embed discord.Embed) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := b.Platform.Notify(ctx, channelID, embed, b.Cfg.Slots.NoticeTTL()); err != nil {
		slog.Warn("Failed to post quota notice",
			slog.String("type", "slot"),
			slog.String("channel_id", channelID.String()),
			slog.Any("error", err))
	}
}
