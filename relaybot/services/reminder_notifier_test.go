package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessenger struct {
	dmErr   error
	sendErr error

	dmUser  snowflake.ID
	channel snowflake.ID
	content string
}

func (f *fakeMessenger) CreateDMChannel(userID snowflake.ID, _ ...rest.RequestOpt) (*discord.DMChannel, error) {
	if f.dmErr != nil {
		return nil, f.dmErr
	}
	f.dmUser = userID

	var ch discord.DMChannel
	if err := json.Unmarshal([]byte(`{"id":"900","type":1}`), &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (f *fakeMessenger) CreateMessage(channelID snowflake.ID, msg discord.MessageCreate, _ ...rest.RequestOpt) (*discord.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.channel = channelID
	f.content = msg.Content
	return &discord.Message{ID: 1, ChannelID: channelID}, nil
}

func TestReminderNotifier_SendDirect(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		fake    *fakeMessenger
		wantErr bool
	}{
		{name: "delivered", userID: "42", fake: &fakeMessenger{}},
		{name: "bad user id", userID: "not-a-snowflake", fake: &fakeMessenger{}, wantErr: true},
		{name: "dm closed", userID: "42", fake: &fakeMessenger{dmErr: errors.New("cannot send messages to this user")}, wantErr: true},
		{name: "send fails", userID: "42", fake: &fakeMessenger{sendErr: errors.New("rate limited")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewReminderNotifier(tt.fake).SendDirect(context.Background(), tt.userID, "hello")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, snowflake.ID(42), tt.fake.dmUser)
			assert.Equal(t, snowflake.ID(900), tt.fake.channel)
			assert.Equal(t, "hello", tt.fake.content)
		})
	}
}
