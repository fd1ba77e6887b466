package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mintcall/relaybot/internal/domain/reminders/mock"
	"github.com/mintcall/relaybot/relaybot/database/models"
	"github.com/mintcall/relaybot/relaybot/database/repositories"
)

var fixedNow = time.Date(2023, 11, 14, 20, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	s := NewService(repo, Config{LeadTime: 30 * time.Minute})
	s.now = func() time.Time { return fixedNow }
	return s
}

func press(text string) Press {
	return Press{
		UserID:    "42",
		EventKey:  "reminder_2",
		EventText: text,
		GuildID:   "1",
		ChannelID: "2",
		MessageID: "3",
	}
}

func TestService_OnRemindPress(t *testing.T) {
	// 1700000000 is 2023-11-14 22:13:20 UTC, after fixedNow.
	const eventText = "[evento2] **Mint** <t:1700000000:F> [remember]"
	eventTime := time.Unix(1700000000, 0).UTC()

	tests := []struct {
		name    string
		text    string
		setup   func(repo *mock.MockRepository)
		want    Outcome
		wantErr bool
	}{
		{
			name:  "no time marker",
			text:  "[evento2] **Mint** soon [remember]",
			setup: func(repo *mock.MockRepository) {},
			want:  OutcomeNoTime,
		},
		{
			name:  "event already happened",
			text:  "[evento2] **Mint** <t:1600000000:F>",
			setup: func(repo *mock.MockRepository) {},
			want:  OutcomeEventPassed,
		},
		{
			name: "existing reminder",
			text: eventText,
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().Exists(gomock.Any(), "42", "reminder_2").Return(true, nil)
			},
			want: OutcomeDuplicate,
		},
		{
			name: "store rejects racing insert",
			text: eventText,
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().Exists(gomock.Any(), "42", "reminder_2").Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					Return(&repositories.ConflictError{Entity: "reminder"})
			},
			want: OutcomeDuplicate,
		},
		{
			name: "exists check fails",
			text: eventText,
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().Exists(gomock.Any(), "42", "reminder_2").Return(false, errors.New("db down"))
			},
			wantErr: true,
		},
		{
			name: "insert fails",
			text: eventText,
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().Exists(gomock.Any(), "42", "reminder_2").Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr: true,
		},
		{
			name: "created",
			text: eventText,
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().Exists(gomock.Any(), "42", "reminder_2").Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r *models.Reminder) error {
						assert.Equal(t, "42", r.UserID)
						assert.Equal(t, "reminder_2", r.EventKey)
						assert.True(t, r.EventTime.Equal(eventTime))
						assert.Equal(t, "1", r.GuildID)
						assert.Equal(t, "2", r.ChannelID)
						assert.Equal(t, "3", r.MessageID)
						r.ID = 7
						return nil
					})
			},
			want: OutcomeCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMockRepository(gomock.NewController(t))
			tt.setup(repo)

			got, err := newTestService(repo).OnRemindPress(context.Background(), press(tt.text))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Outcome)

			if tt.want == OutcomeCreated {
				require.NotNil(t, got.Reminder)
				assert.EqualValues(t, 7, got.Reminder.ID)
				assert.True(t, got.RemindAt.Equal(eventTime.Add(-30*time.Minute)))
			}
		})
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "created", OutcomeCreated.String())
	assert.Equal(t, "duplicate", OutcomeDuplicate.String())
	assert.Equal(t, "outcome(99)", Outcome(99).String())
}
