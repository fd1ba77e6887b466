package models

import (
	"fmt"
	"time"

	"github.com/mintcall/relaybot/relaybot/config"
	"github.com/uptrace/bun"
)

type ReminderStatus string

const (
	ReminderStatusPending  ReminderStatus = "pending"
	ReminderStatusNotified ReminderStatus = "notified"
)

// Reminder is one user's request to be pinged before an announced event.
// (user_id, event_key) is unique.
type Reminder struct {
	bun.BaseModel `bun:"table:reminders,alias:r"`

	ID        int64          `bun:"id,pk,autoincrement"`
	UserID    string         `bun:"user_id,notnull,unique:reminders_user_event"`
	EventKey  string         `bun:"event_key,notnull,unique:reminders_user_event"`
	EventTime time.Time      `bun:"event_time,notnull"`
	Status    ReminderStatus `bun:"status,notnull"`

	// Where the announcement lives, for the deep link in the DM.
	GuildID   string `bun:"guild_id"`
	ChannelID string `bun:"channel_id,notnull"`
	MessageID string `bun:"message_id,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// MessageLink builds the jump URL of the announcement the reminder was set on.
func (r *Reminder) MessageLink() string {
	guild := r.GuildID
	if guild == "" {
		guild = "@me"
	}
	return fmt.Sprintf(config.MessageLinkFormat, guild, r.ChannelID, r.MessageID)
}
