package reminders

import (
	"context"
	"time"

	"github.com/mintcall/relaybot/relaybot/database/models"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	Exists(ctx context.Context, userID, eventKey string) (bool, error)
	Insert(ctx context.Context, reminder *models.Reminder) error
	PendingDueSoon(ctx context.Context, now time.Time, window time.Duration) ([]*models.Reminder, error)
	MarkNotified(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sender delivers a private message to a user. Delivery can fail when the
// user blocks the bot or closed their DMs.
type Sender interface {
	SendDirect(ctx context.Context, userID string, content string) error
}
