package handlers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/mintcall/relaybot/internal/domain/markup"
	"github.com/mintcall/relaybot/relaybot"
	"github.com/mintcall/relaybot/relaybot/config"
)

// MessageHandler relays every announcement posted in the origin channel.
func MessageHandler(b *relaybot.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMessageCreate) {
		if !shouldRelay(e.Message, e.Client().ID(), b.Cfg.Bot.OriginChannel) {
			return
		}

		res := markup.Parse(e.Message.Content)
		if len(res.Sections) == 0 {
			slog.Debug("Origin message has no announcement markup",
				slog.String("message_id", e.MessageID.String()))
			return
		}

		// the gateway goroutine must not wait on the fan-out
		go func() {
			timeout := config.ChannelSendTimeout * time.Duration(1+len(b.Cfg.Bot.DestinationChannels)/config.MaxConcurrentSends)
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			b.Relay.Relay(ctx, res)
		}()
	})
}

func shouldRelay(msg discord.Message, selfID, originID snowflake.ID) bool {
	if msg.Author.ID == selfID {
		return false
	}
	if msg.ChannelID != originID {
		return false
	}
	return strings.TrimSpace(msg.Content) != ""
}
