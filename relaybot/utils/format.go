package utils

import (
	"fmt"
	"time"
)

func Ptr[T any](v T) *T {
	return &v
}

// DiscordTimestamp renders t as a <t:UNIX:style> marker that every client
// shows in its own timezone.
func DiscordTimestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}
