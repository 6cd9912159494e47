// Package domain contains entities without logic, just meta-data and validation.
package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxUsernameLen = 36

var (
	ErrUsernameEmpty   = errors.New("username empty")
	ErrUsernameTooLong = errors.New("username too long")
)

// User is the profile bound to one live connection.
// The connection identifier is the unique key; a re-join overwrites the record.
type User struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Room     RoomName  `json:"room"`
	JoinedAt time.Time `json:"joinedAt"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(id, username string, room RoomName) (*User, error) {
	username = strings.TrimSpace(username)
	if len(username) == 0 {
		return nil, ErrUsernameEmpty
	}
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}
	return &User{
		ID:       id,
		Username: username,
		Room:     room,
		JoinedAt: time.Now(),
	}, nil
}
