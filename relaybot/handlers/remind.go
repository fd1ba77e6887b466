package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/mintcall/relaybot/internal/domain/reminders"
	"github.com/mintcall/relaybot/relaybot"
	"github.com/mintcall/relaybot/relaybot/config"
	"github.com/mintcall/relaybot/relaybot/services"
	"github.com/mintcall/relaybot/relaybot/utils"
)

// RemindHandler answers a press on a reminder button of a relayed announcement.
func RemindHandler(b *relaybot.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		key, section, err := services.ParseRemindCustomID(e.Data.CustomID())
		if err != nil {
			return utils.EH.CreateEphemeralError(e, "Invalid reminder button.")
		}

		text, ok := eventText(b.Fragments, e.Message, key, section)
		if !ok {
			return utils.EH.CreateEphemeralError(e, "This reminder is no longer available.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.ComponentTimeout)
		defer cancel()

		press := reminders.Press{
			UserID:    e.User().ID.String(),
			EventKey:  key,
			EventText: text,
			ChannelID: e.Message.ChannelID.String(),
			MessageID: e.Message.ID.String(),
		}
		if guildID := e.GuildID(); guildID != nil {
			press.GuildID = guildID.String()
		}

		res, err := b.Reminders.OnRemindPress(ctx, press)
		if err != nil {
			slog.Error("Failed to create reminder",
				slog.String("type", "db"),
				slog.String("user_id", press.UserID),
				slog.String("event_key", key),
				slog.Any("error", err))
			return utils.EH.CreateEphemeralError(e, "Could not save your reminder, please try again later.")
		}

		return replyOutcome(e, res)
	}
}

func replyOutcome(e *handler.ComponentEvent, res reminders.Result) error {
	switch res.Outcome {
	case reminders.OutcomeCreated:
		return utils.EH.CreateEphemeralSuccess(e, OutcomeMessage(res))
	case reminders.OutcomeDuplicate:
		return utils.EH.CreateEphemeralInfo(e, OutcomeMessage(res))
	default:
		return utils.EH.CreateEphemeralError(e, OutcomeMessage(res))
	}
}

// OutcomeMessage is the text shown to the user who pressed the button.
func OutcomeMessage(res reminders.Result) string {
	switch res.Outcome {
	case reminders.OutcomeCreated:
		return fmt.Sprintf("Reminder set for %s.", utils.DiscordTimestamp(res.RemindAt, "F"))
	case reminders.OutcomeDuplicate:
		return "You have already set a reminder for this event."
	case reminders.OutcomeEventPassed:
		return "This event has already started."
	default:
		return "Could not find a time for this event."
	}
}

type fragmentLookup interface {
	Lookup(messageID snowflake.ID, eventKey string) (string, bool)
}

// eventText prefers the cached source fragment and falls back to the embed
// field the button points at, which survives restarts.
func eventText(cache fragmentLookup, msg discord.Message, key string, section int) (string, bool) {
	if cache != nil {
		if text, ok := cache.Lookup(msg.ID, key); ok {
			return text, true
		}
	}

	if len(msg.Embeds) == 0 {
		return "", false
	}
	fields := msg.Embeds[0].Fields
	if section < 0 || section >= len(fields) {
		return "", false
	}
	return fields[section].Value, true
}
