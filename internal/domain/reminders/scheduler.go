package reminders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mintcall/relaybot/relaybot/config"
	"github.com/mintcall/relaybot/relaybot/database/models"
	"github.com/mintcall/relaybot/relaybot/utils"
)

const (
	checkProcess   = "reminder-check"
	cleanupProcess = "reminder-cleanup"
)

// Scheduler runs the two reminder jobs: delivering reminders whose event is
// close, and deleting reminders whose event already happened.
type Scheduler struct {
	repository  Repository
	sender      Sender
	cfg         Config
	tickTimeout time.Duration
	now         func() time.Time
}

func NewScheduler(repository Repository, sender Sender, cfg Config) *Scheduler {
	return &Scheduler{
		repository:  repository,
		sender:      sender,
		cfg:         cfg.withDefaults(),
		tickTimeout: config.SchedulerTickTimeout,
		now:         time.Now,
	}
}

// NotificationText is the DM sent for a due reminder.
func NotificationText(r *models.Reminder) string {
	return fmt.Sprintf("Remember the mint %s from your reminder at %s!", r.EventKey, r.MessageLink())
}

// Start registers both jobs with the process manager. They tick
// independently until the manager shuts down.
func (s *Scheduler) Start(bpm *utils.BackgroundProcessManager) {
	bpm.StartProcess(checkProcess, "Delivers reminders whose event is coming up", func(ctx context.Context) {
		s.loop(ctx, checkProcess, s.cfg.CheckInterval, func(ctx context.Context) error {
			_, err := s.CheckDue(ctx)
			return err
		})
	})
	bpm.StartProcess(cleanupProcess, "Deletes reminders whose event has passed", func(ctx context.Context) {
		s.loop(ctx, cleanupProcess, s.cfg.CleanupInterval, func(ctx context.Context) error {
			_, err := s.Cleanup(ctx)
			return err
		})
	})
}

func (s *Scheduler) loop(ctx context.Context, name string, interval time.Duration, tick func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runTick(ctx, name, tick)
		case <-ctx.Done():
			return
		}
	}
}

// runTick runs one tick in isolation: errors and panics are logged and the
// loop keeps going.
func (s *Scheduler) runTick(ctx context.Context, name string, tick func(context.Context) error) {
	tickCtx, cancel := context.WithTimeout(ctx, s.tickTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Reminder job panicked",
				slog.String("type", "error"),
				slog.String("process", name),
				slog.Any("panic", r))
		}
	}()

	if err := tick(tickCtx); err != nil {
		slog.Error("Reminder job failed",
			slog.String("type", "error"),
			slog.String("process", name),
			slog.Any("error", err))
	}
}

// CheckDue sends a DM for every pending reminder inside the due window and
// marks it notified. A failed delivery leaves the reminder pending so the
// next tick retries it.
func (s *Scheduler) CheckDue(ctx context.Context) (int, error) {
	now := s.now().UTC()
	due, err := s.repository.PendingDueSoon(ctx, now, s.cfg.DueWindow)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch due reminders: %w", err)
	}

	if len(due) > 0 {
		slog.Info("Processing due reminders",
			slog.Int("count", len(due)),
			slog.Time("now", now))
	}

	sent := 0
	for _, r := range due {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}

		if err := s.sender.SendDirect(ctx, r.UserID, NotificationText(r)); err != nil {
			slog.Warn("Failed to deliver reminder",
				slog.String("user_id", r.UserID),
				slog.String("event_key", r.EventKey),
				slog.Int64("reminder_id", r.ID),
				slog.Any("error", err))
			continue
		}

		if err := s.repository.MarkNotified(ctx, r.ID); err != nil {
			slog.Error("Failed to mark reminder notified",
				slog.String("type", "db"),
				slog.String("user_id", r.UserID),
				slog.String("event_key", r.EventKey),
				slog.Int64("reminder_id", r.ID),
				slog.Any("error", err))
			continue
		}

		sent++
		slog.Info("Reminder delivered",
			slog.String("user_id", r.UserID),
			slog.String("event_key", r.EventKey),
			slog.Int64("reminder_id", r.ID))
	}

	return sent, nil
}

// Cleanup deletes reminders whose event time has passed.
func (s *Scheduler) Cleanup(ctx context.Context) (int64, error) {
	n, err := s.repository.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reminders: %w", err)
	}
	if n > 0 {
		slog.Info("Expired reminders cleaned up", slog.Int64("deleted", n))
	}
	return n, nil
}
