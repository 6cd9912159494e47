package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxMessageLen = 500

var (
	ErrMessageEmpty   = errors.New("message empty")
	ErrMessageTooLong = errors.New("message too long")
)

// Message is one chat message as stored and broadcast. ID is assigned by the
// log on append and is monotonically increasing in insertion order.
type Message struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Body      string    `json:"message"`
	Room      RoomName  `json:"room"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage validates and normalizes a message body. The body is trimmed and
// must be 1..MaxMessageLen characters after trimming. The cap counts runes,
// not bytes, so multibyte text gets the full budget.
func NewMessage(username, body string, room RoomName) (*Message, error) {
	body = strings.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrMessageEmpty
	}
	if utf8.RuneCountInString(body) > MaxMessageLen {
		return nil, ErrMessageTooLong
	}
	return &Message{
		Username:  strings.TrimSpace(username),
		Body:      body,
		Room:      room,
		Timestamp: time.Now(),
	}, nil
}
