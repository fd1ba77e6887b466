package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/sync/errgroup"

	"github.com/mintcall/relaybot/internal/domain/markup"
	"github.com/mintcall/relaybot/relaybot/config"
)

const (
	maxFieldName  = 256
	maxFieldValue = 1024

	RemindComponentPrefix = "/remind/"
)

// MessageCreator is the part of the rest client the relay needs.
type MessageCreator interface {
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
}

// AnnouncementRelay copies a parsed announcement to every destination channel.
type AnnouncementRelay struct {
	rest         MessageCreator
	resolve      func(snowflake.ID) bool
	destinations []snowflake.ID
	fragments    *FragmentCache
}

func NewAnnouncementRelay(client bot.Client, destinations []snowflake.ID, fragments *FragmentCache) *AnnouncementRelay {
	return &AnnouncementRelay{
		rest: client.Rest(),
		resolve: func(id snowflake.ID) bool {
			_, ok := client.Caches().Channel(id)
			return ok
		},
		destinations: destinations,
		fragments:    fragments,
	}
}

// RemindCustomID is the component id of the reminder button for one event.
// section is the embed field that holds the event text.
func RemindCustomID(eventKey string, section int) string {
	return RemindComponentPrefix + eventKey + "/" + strconv.Itoa(section)
}

// ParseRemindCustomID is the inverse of RemindCustomID.
func ParseRemindCustomID(customID string) (string, int, error) {
	tail, ok := strings.CutPrefix(customID, RemindComponentPrefix)
	if !ok {
		return "", 0, fmt.Errorf("not a reminder button: %q", customID)
	}
	key, sectionStr, ok := strings.Cut(tail, "/")
	if !ok || key == "" {
		return "", 0, fmt.Errorf("malformed reminder button: %q", customID)
	}
	section, err := strconv.Atoi(sectionStr)
	if err != nil || section < 0 {
		return "", 0, fmt.Errorf("malformed reminder section in %q", customID)
	}
	return key, section, nil
}

// BuildAnnouncement renders sections as embed fields and adds one reminder
// button per eligible fragment.
func BuildAnnouncement(res markup.Result) discord.MessageCreate {
	embed := discord.NewEmbedBuilder().SetColor(config.AnnouncementColor)

	sections := res.Sections
	if len(sections) > config.MaxEmbedFields {
		slog.Warn("Announcement has more sections than an embed can hold, truncating",
			slog.Int("sections", len(sections)),
			slog.Int("max", config.MaxEmbedFields))
		sections = sections[:config.MaxEmbedFields]
	}

	for _, s := range sections {
		switch s.Kind {
		case markup.SectionHeading:
			embed.AddField(fieldText(s.Label, maxFieldName), config.EmptyFieldText, false)
		case markup.SectionBody:
			embed.AddField(config.EmptyFieldText, fieldText(s.Text, maxFieldValue), false)
		}
	}

	return discord.MessageCreate{
		Embeds:     []discord.Embed{embed.Build()},
		Components: ReminderButtons(res.Eligible, len(sections)),
	}
}

// ReminderButtons lays out one button per fragment, five to a row. Fragments
// whose section did not make it into the embed get no button.
func ReminderButtons(fragments []markup.Fragment, sections int) []discord.ContainerComponent {
	var (
		rows    []discord.ContainerComponent
		current []discord.InteractiveComponent
	)

	for i, f := range fragments {
		if f.Section >= sections {
			continue
		}
		if len(rows) == config.MaxActionRows {
			slog.Warn("Too many reminder buttons, dropping the rest",
				slog.Int("fragments", len(fragments)),
				slog.Int("kept", i))
			break
		}

		current = append(current, discord.NewPrimaryButton(fmt.Sprintf("Mint %d", i+1), RemindCustomID(f.Key, f.Section)).
			WithEmoji(discord.ComponentEmoji{Name: config.ReminderButtonEmoji}))
		if len(current) == config.MaxButtonsPerRow {
			rows = append(rows, discord.NewActionRow(current...))
			current = nil
		}
	}
	if len(current) > 0 && len(rows) < config.MaxActionRows {
		rows = append(rows, discord.NewActionRow(current...))
	}

	return rows
}

func fieldText(s string, limit int) string {
	if strings.TrimSpace(s) == "" {
		return config.EmptyFieldText
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

// Relay sends the announcement to every configured destination. Unknown
// channels and failed sends are logged and skipped. It returns how many
// channels received the message.
func (r *AnnouncementRelay) Relay(ctx context.Context, res markup.Result) int {
	msg := BuildAnnouncement(res)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.MaxConcurrentSends)

	sent := make([]bool, len(r.destinations))
	for i, channelID := range r.destinations {
		g.Go(func() error {
			if !r.resolve(channelID) {
				slog.Error("Destination channel not found",
					slog.String("channel_id", channelID.String()))
				return nil
			}

			sendCtx, cancel := context.WithTimeout(ctx, config.ChannelSendTimeout)
			defer cancel()

			m, err := r.rest.CreateMessage(channelID, msg, rest.WithCtx(sendCtx))
			if err != nil {
				slog.Error("Failed to relay announcement",
					slog.String("channel_id", channelID.String()),
					slog.Any("error", err))
				return nil
			}

			if r.fragments != nil && len(res.Eligible) > 0 {
				r.fragments.Store(m.ID, res.Eligible)
			}
			sent[i] = true
			return nil
		})
	}
	_ = g.Wait()

	count := 0
	for _, ok := range sent {
		if ok {
			count++
		}
	}

	slog.Info("Announcement relayed",
		slog.Int("sections", len(res.Sections)),
		slog.Int("reminder_buttons", len(res.Eligible)),
		slog.Int("channels", count),
		slog.Int("configured", len(r.destinations)))
	return count
}
