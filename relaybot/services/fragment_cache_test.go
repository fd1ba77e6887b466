package services

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintcall/relaybot/internal/domain/markup"
)

func TestFragmentCache_StoreAndLookup(t *testing.T) {
	cache, err := NewFragmentCache(8)
	require.NoError(t, err)

	msg := snowflake.ID(111)
	cache.Store(msg, []markup.Fragment{
		{Key: "reminder_1", Text: "a <t:1:F>"},
		{Key: "reminder_2", Text: "b <t:2:F>"},
	})

	text, ok := cache.Lookup(msg, "reminder_2")
	require.True(t, ok)
	assert.Equal(t, "b <t:2:F>", text)

	_, ok = cache.Lookup(snowflake.ID(222), "reminder_2")
	assert.False(t, ok)
}

func TestFragmentCache_EvictsOldest(t *testing.T) {
	cache, err := NewFragmentCache(2)
	require.NoError(t, err)

	cache.Store(1, []markup.Fragment{{Key: "reminder_1", Text: "first"}})
	cache.Store(2, []markup.Fragment{{Key: "reminder_1", Text: "second"}})
	cache.Store(3, []markup.Fragment{{Key: "reminder_1", Text: "third"}})

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Lookup(1, "reminder_1")
	assert.False(t, ok)
}

func TestNewFragmentCache_RejectsBadSize(t *testing.T) {
	_, err := NewFragmentCache(0)
	assert.Error(t, err)
}
