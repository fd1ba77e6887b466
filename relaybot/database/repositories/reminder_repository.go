package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/mintcall/relaybot/internal/domain/logger"
	"github.com/mintcall/relaybot/relaybot/database/models"
)

type ReminderRepository interface {
	DB() *bun.DB
	Exists(ctx context.Context, userID, eventKey string) (bool, error)
	Insert(ctx context.Context, reminder *models.Reminder) error
	PendingDueSoon(ctx context.Context, now time.Time, window time.Duration) ([]*models.Reminder, error)
	MarkNotified(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Reminder, error)
}

type reminderRepository struct {
	*BaseRepository
}

func NewReminderRepository(db *bun.DB) ReminderRepository {
	return &reminderRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *reminderRepository) DB() *bun.DB {
	return r.db
}

func (r *reminderRepository) Exists(ctx context.Context, userID, eventKey string) (bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	exists, err := r.db.NewSelect().
		Model((*models.Reminder)(nil)).
		Where("user_id = ?", userID).
		Where("event_key = ?", eventKey).
		Exists(ctx)
	if err != nil {
		return false, r.HandleError("exists", "reminder", err)
	}
	return exists, nil
}

// Insert stores a new pending reminder. A second reminder for the same
// (user_id, event_key) is rejected with a ConflictError, even when two
// inserts race past the caller's Exists check.
func (r *reminderRepository) Insert(ctx context.Context, reminder *models.Reminder) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	reminder.ID = 0
	reminder.Status = models.ReminderStatusPending
	reminder.EventTime = reminder.EventTime.UTC()
	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = time.Now().UTC()
	}

	op := logger.NewStoreOp("insert_reminder",
		slog.String("user_id", reminder.UserID),
		slog.String("event_key", reminder.EventKey))

	res, err := r.db.NewInsert().
		Model(reminder).
		On("CONFLICT (user_id, event_key) DO NOTHING").
		Exec(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		op.Done(nil, 0)
		return r.conflict(reminder)
	}
	if err != nil {
		op.Done(err, 0)
		return r.HandleError("insert", "reminder", err)
	}

	affected, err := res.RowsAffected()
	op.Done(err, affected)
	if err != nil {
		return r.HandleError("insert", "reminder", err)
	}
	if affected == 0 {
		return r.conflict(reminder)
	}
	return nil
}

func (r *reminderRepository) conflict(reminder *models.Reminder) error {
	return &ConflictError{
		Entity: "reminder",
		Field:  "user_id/event_key",
		Value:  fmt.Sprintf("%s/%s", reminder.UserID, reminder.EventKey),
	}
}

// PendingDueSoon returns pending reminders whose event fires within
// (now, now+window], oldest event first.
func (r *reminderRepository) PendingDueSoon(ctx context.Context, now time.Time, window time.Duration) ([]*models.Reminder, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	now = now.UTC()
	var reminders []*models.Reminder
	err := r.db.NewSelect().
		Model(&reminders).
		Where("status = ?", models.ReminderStatusPending).
		Where("event_time > ?", now).
		Where("event_time <= ?", now.Add(window)).
		Order("event_time ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("pending_due_soon", "reminder", err)
	}
	return reminders, nil
}

// MarkNotified moves a reminder to notified. Missing or already notified
// rows are left alone.
func (r *reminderRepository) MarkNotified(ctx context.Context, id int64) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	op := logger.NewStoreOp("mark_notified", slog.Int64("reminder_id", id))

	res, err := r.db.NewUpdate().
		Model((*models.Reminder)(nil)).
		Set("status = ?", models.ReminderStatusNotified).
		Where("id = ?", id).
		Where("status = ?", models.ReminderStatusPending).
		Exec(ctx)
	if err != nil {
		op.Done(err, 0)
		return r.HandleError("mark_notified", "reminder", err)
	}

	n, _ := res.RowsAffected()
	op.Done(nil, n)
	return nil
}

// DeleteExpired removes every reminder whose event time is before now,
// whatever its status.
func (r *reminderRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	op := logger.NewStoreOp("delete_expired", slog.Time("before", now.UTC()))

	res, err := r.db.NewDelete().
		Model((*models.Reminder)(nil)).
		Where("event_time < ?", now.UTC()).
		Exec(ctx)
	if err != nil {
		op.Done(err, 0)
		return 0, r.HandleError("delete_expired", "reminder", err)
	}

	n, err := res.RowsAffected()
	op.Done(err, n)
	if err != nil {
		return 0, r.HandleError("delete_expired", "reminder", err)
	}
	return n, nil
}

func (r *reminderRepository) ListByUser(ctx context.Context, userID string) ([]*models.Reminder, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var reminders []*models.Reminder
	err := r.db.NewSelect().
		Model(&reminders).
		Where("user_id = ?", userID).
		Order("event_time ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list_by_user", "reminder", err)
	}
	return reminders, nil
}
