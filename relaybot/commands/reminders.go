package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/mintcall/relaybot/relaybot"
	"github.com/mintcall/relaybot/relaybot/config"
	"github.com/mintcall/relaybot/relaybot/database/models"
	"github.com/mintcall/relaybot/relaybot/utils"
)

var Reminders = discord.SlashCommandCreate{
	Name:        "reminders",
	Description: "Lists the mint reminders you have set",
}

func RemindersHandler(b *relaybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		list, err := b.ReminderRepository.ListByUser(ctx, e.User().ID.String())
		if err != nil {
			slog.Error("Failed to list reminders",
				slog.String("type", "db"),
				slog.String("user_id", e.User().ID.String()),
				slog.Any("error", err))
			return utils.EH.CreateErrorEmbed(e, "Could not load your reminders, please try again later.")
		}
		if len(list) == 0 {
			return utils.EH.CreateInfoEmbed(e, "You have no reminders. Press 🔔 on an announcement to add one.")
		}

		totalPages := pageCount(len(list), config.RemindersPerPage)

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				embed.
					SetTitle("Your reminders").
					SetDescription(reminderPage(list, page, config.RemindersPerPage)).
					SetColor(config.EmbedDefaultColor).
					SetFooter(fmt.Sprintf("Page %d/%d • Total: %d", page+1, totalPages, len(list)), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, true)
	}
}

func pageCount(items, perPage int) int {
	return (items + perPage - 1) / perPage
}

func reminderPage(list []*models.Reminder, page, perPage int) string {
	start := page * perPage
	if start >= len(list) {
		return ""
	}
	end := min(start+perPage, len(list))

	var sb strings.Builder
	for _, r := range list[start:end] {
		icon := "⏳"
		if r.Status == models.ReminderStatusNotified {
			icon = "✅"
		}
		fmt.Fprintf(&sb, "%s `%s` %s ([announcement](%s))\n",
			icon,
			r.EventKey,
			utils.DiscordTimestamp(r.EventTime, "F"),
			r.MessageLink())
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
