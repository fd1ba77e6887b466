package handlers

import (
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"

	"github.com/mintcall/relaybot/internal/domain/reminders"
	"github.com/mintcall/relaybot/relaybot/config"
)

type mapLookup map[string]string

func (m mapLookup) Lookup(messageID snowflake.ID, eventKey string) (string, bool) {
	text, ok := m[messageID.String()+"/"+eventKey]
	return text, ok
}

func relayedMessage() discord.Message {
	return discord.Message{
		ID:        10,
		ChannelID: 20,
		Embeds: []discord.Embed{{
			Fields: []discord.EmbedField{
				{Name: "Drops", Value: config.EmptyFieldText},
				{Name: config.EmptyFieldText, Value: "[evento1] **Alpha** <t:1700000000:F>"},
			},
		}},
	}
}

func TestEventText(t *testing.T) {
	tests := []struct {
		name    string
		cache   fragmentLookup
		msg     discord.Message
		section int
		want    string
		wantOK  bool
	}{
		{
			name:    "cache hit",
			cache:   mapLookup{"10/reminder_1": "[evento1] **Alpha** <t:1700000000:F> [remember]"},
			msg:     relayedMessage(),
			section: 1,
			want:    "[evento1] **Alpha** <t:1700000000:F> [remember]",
			wantOK:  true,
		},
		{
			name:    "falls back to embed field",
			cache:   mapLookup{},
			msg:     relayedMessage(),
			section: 1,
			want:    "[evento1] **Alpha** <t:1700000000:F>",
			wantOK:  true,
		},
		{
			name:    "no cache",
			msg:     relayedMessage(),
			section: 1,
			want:    "[evento1] **Alpha** <t:1700000000:F>",
			wantOK:  true,
		},
		{
			name:    "section out of range",
			cache:   mapLookup{},
			msg:     relayedMessage(),
			section: 5,
		},
		{
			name:    "message without embed",
			cache:   mapLookup{},
			msg:     discord.Message{ID: 10},
			section: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := eventText(tt.cache, tt.msg, "reminder_1", tt.section)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutcomeMessage(t *testing.T) {
	remindAt := time.Unix(1699998200, 0)

	assert.Equal(t, "Reminder set for <t:1699998200:F>.",
		OutcomeMessage(reminders.Result{Outcome: reminders.OutcomeCreated, RemindAt: remindAt}))
	assert.Equal(t, "You have already set a reminder for this event.",
		OutcomeMessage(reminders.Result{Outcome: reminders.OutcomeDuplicate}))
	assert.Equal(t, "This event has already started.",
		OutcomeMessage(reminders.Result{Outcome: reminders.OutcomeEventPassed}))
	assert.Equal(t, "Could not find a time for this event.",
		OutcomeMessage(reminders.Result{Outcome: reminders.OutcomeNoTime}))
}

func TestShouldRelay(t *testing.T) {
	const (
		self   = snowflake.ID(1)
		origin = snowflake.ID(100)
	)

	tests := []struct {
		name string
		msg  discord.Message
		want bool
	}{
		{
			name: "announcement in origin",
			msg:  discord.Message{ChannelID: origin, Author: discord.User{ID: 5}, Content: "[evento1] x"},
			want: true,
		},
		{
			name: "own message",
			msg:  discord.Message{ChannelID: origin, Author: discord.User{ID: self}, Content: "[evento1] x"},
		},
		{
			name: "other channel",
			msg:  discord.Message{ChannelID: 200, Author: discord.User{ID: 5}, Content: "[evento1] x"},
		},
		{
			name: "blank",
			msg:  discord.Message{ChannelID: origin, Author: discord.User{ID: 5}, Content: "  "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldRelay(tt.msg, self, origin))
		})
	}
}
