package services

import (
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"

	"github.com/mintcall/relaybot/internal/domain/markup"
)

// FragmentCache remembers the raw text behind each reminder button of the
// messages we relayed. Entries are lost on restart; callers fall back to the
// relayed embed then.
type FragmentCache struct {
	cache *lru.Cache
}

func NewFragmentCache(size int) (*FragmentCache, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create fragment cache: %w", err)
	}
	return &FragmentCache{cache: cache}, nil
}

func fragmentKey(messageID snowflake.ID, eventKey string) string {
	return messageID.String() + "/" + eventKey
}

func (c *FragmentCache) Store(messageID snowflake.ID, fragments []markup.Fragment) {
	for _, f := range fragments {
		c.cache.Add(fragmentKey(messageID, f.Key), f.Text)
	}
}

func (c *FragmentCache) Lookup(messageID snowflake.ID, eventKey string) (string, bool) {
	v, ok := c.cache.Get(fragmentKey(messageID, eventKey))
	if !ok {
		return "", false
	}
	text, ok := v.(string)
	return text, ok
}

func (c *FragmentCache) Len() int {
	return c.cache.Len()
}
