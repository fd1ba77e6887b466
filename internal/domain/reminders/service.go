package reminders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mintcall/relaybot/internal/domain/markup"
	"github.com/mintcall/relaybot/relaybot/database/models"
	"github.com/mintcall/relaybot/relaybot/database/repositories"
)

type Outcome int

const (
	OutcomeNoTime Outcome = iota
	OutcomeEventPassed
	OutcomeDuplicate
	OutcomeCreated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoTime:
		return "no_time"
	case OutcomeEventPassed:
		return "event_passed"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeCreated:
		return "created"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Press is a user pressing the reminder button of one event.
type Press struct {
	UserID    string
	EventKey  string
	EventText string
	GuildID   string
	ChannelID string
	MessageID string
}

type Result struct {
	Outcome  Outcome
	Reminder *models.Reminder
	// RemindAt is EventTime minus the lead time, for display only.
	RemindAt time.Time
}

type Service struct {
	repository Repository
	leadTime   time.Duration
	now        func() time.Time
}

func NewService(repository Repository, cfg Config) *Service {
	return &Service{
		repository: repository,
		leadTime:   cfg.withDefaults().LeadTime,
		now:        time.Now,
	}
}

// OnRemindPress registers a reminder for the pressed event unless the event
// has no readable time, already happened, or the user asked before.
func (s *Service) OnRemindPress(ctx context.Context, p Press) (Result, error) {
	eventTime, ok := markup.ExtractTime(p.EventText)
	if !ok {
		slog.Warn("Reminder requested for event without time",
			slog.String("user_id", p.UserID),
			slog.String("event_key", p.EventKey))
		return Result{Outcome: OutcomeNoTime}, nil
	}

	if !eventTime.After(s.now()) {
		return Result{Outcome: OutcomeEventPassed}, nil
	}

	exists, err := s.repository.Exists(ctx, p.UserID, p.EventKey)
	if err != nil {
		return Result{}, fmt.Errorf("failed to check existing reminder: %w", err)
	}
	if exists {
		return Result{Outcome: OutcomeDuplicate}, nil
	}

	reminder := &models.Reminder{
		UserID:    p.UserID,
		EventKey:  p.EventKey,
		EventTime: eventTime,
		GuildID:   p.GuildID,
		ChannelID: p.ChannelID,
		MessageID: p.MessageID,
	}
	if err := s.repository.Insert(ctx, reminder); err != nil {
		if repositories.IsConflict(err) {
			return Result{Outcome: OutcomeDuplicate}, nil
		}
		return Result{}, fmt.Errorf("failed to create reminder: %w", err)
	}

	slog.Info("Reminder created",
		slog.String("user_id", p.UserID),
		slog.String("event_key", p.EventKey),
		slog.Int64("reminder_id", reminder.ID),
		slog.Time("event_time", eventTime))

	return Result{
		Outcome:  OutcomeCreated,
		Reminder: reminder,
		RemindAt: eventTime.Add(-s.leadTime),
	}, nil
}
