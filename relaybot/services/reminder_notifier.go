package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// DirectMessenger is the part of the rest client needed to DM a user.
type DirectMessenger interface {
	CreateDMChannel(userID snowflake.ID, opts ...rest.RequestOpt) (*discord.DMChannel, error)
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
}

// ReminderNotifier delivers reminder texts as direct messages.
type ReminderNotifier struct {
	rest DirectMessenger
}

func NewReminderNotifier(rest DirectMessenger) *ReminderNotifier {
	return &ReminderNotifier{rest: rest}
}

func (n *ReminderNotifier) SendDirect(ctx context.Context, userID, content string) error {
	id, err := snowflake.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	dm, err := n.rest.CreateDMChannel(id, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}

	if _, err = n.rest.CreateMessage(dm.ID(), discord.NewMessageCreateBuilder().
		SetContent(content).
		Build(), rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}

	slog.Debug("Reminder DM sent", slog.String("user_id", userID))
	return nil
}
