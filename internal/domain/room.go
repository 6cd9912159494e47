package domain

import (
	"strings"
	"unicode/utf8"
)

type RoomName string

const (
	DefaultRoom RoomName = "general"

	MaxRoomNameLen = 36
)

// NormalizeRoom trims the raw name and falls back to the default room.
// Overlong names are cut rather than rejected, matching username caps.
func NormalizeRoom(raw string) RoomName {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultRoom
	}
	if utf8.RuneCountInString(raw) > MaxRoomNameLen {
		raw = string([]rune(raw)[:MaxRoomNameLen])
	}
	return RoomName(raw)
}
