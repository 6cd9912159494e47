// Package app orchestrates presence: it drives the registry, room directory,
// message log and broadcast router in response to inbound connection events.
package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"chat-relay/internal/core"
	"chat-relay/internal/domain"
)

// ErrNotJoined signals an event from a connection with no registered user,
// e.g. send_message before join_user or anything queued behind a disconnect.
var ErrNotJoined = errors.New("user not found")

// PresenceCoordinator serializes all state mutation: exactly one inbound
// event is handled to completion before the next begins, so every handler's
// read-modify-write appears atomic to the rest of the system.
type PresenceCoordinator struct {
	mu    sync.Mutex // held for the whole of one event
	state *State
}

func NewPresenceCoordinator(state *State) *PresenceCoordinator {
	return &PresenceCoordinator{state: state}
}

// State exposes the shared stores for read-only snapshot queries (REST).
func (c *PresenceCoordinator) State() *State { return c.state }

// Dispatch routes one inbound event for a connection. Failures are local:
// they are reported to the caller and leave shared state untouched.
func (c *PresenceCoordinator) Dispatch(id core.ConnID, ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev := ev.(type) {
	case JoinUser:
		return c.joinUser(id, ev.Username, ev.Room)
	case SendMessage:
		return c.sendMessage(id, ev.Body)
	case TypingStart:
		return c.typing(id, true)
	case TypingStop:
		return c.typing(id, false)
	case Disconnect:
		return c.disconnect(id)
	default:
		return fmt.Errorf("unhandled inbound event %T", ev)
	}
}

// joinUser registers (or re-registers) the connection and moves it into room.
// A prior room membership is cleared first so the connection never appears in
// two rooms at once.
func (c *PresenceCoordinator) joinUser(id core.ConnID, username, rawRoom string) error {
	room := domain.NormalizeRoom(rawRoom)
	user, err := domain.NewUser(string(id), username, room)
	if err != nil {
		return err
	}

	if prev, ok := c.state.Registry.Lookup(id); ok {
		c.state.Rooms.RemoveMember(prev.Room, id)
		c.state.Router.Broadcast(prev.Room, EventUserLeft, presenceNote(prev.Username, "left"), id)
	}

	c.state.Registry.Join(*user)
	c.state.Rooms.AddMember(room, id)

	c.state.Router.Broadcast(room, EventUserJoined, presenceNote(user.Username, "joined"), id)
	c.state.Router.EmitTo(id, EventUsersList, c.state.Registry.UsersIn(room))

	log.Info().Str("module", "app.coordinator").Str("conn", string(id)).Str("username", user.Username).Str("room", string(room)).Msg("user joined")
	return nil
}

func (c *PresenceCoordinator) sendMessage(id core.ConnID, body string) error {
	user, ok := c.state.Registry.Lookup(id)
	if !ok {
		return ErrNotJoined
	}
	msg, err := domain.NewMessage(user.Username, body, user.Room)
	if err != nil {
		return err
	}
	stored := c.state.Log.Append(*msg)

	// The sender is not excluded: the broadcast doubles as its confirmation.
	c.state.Router.Broadcast(user.Room, EventNewMessage, stored, "")
	return nil
}

// typing relays a transient typing indicator; nothing is persisted.
func (c *PresenceCoordinator) typing(id core.ConnID, isTyping bool) error {
	user, ok := c.state.Registry.Lookup(id)
	if !ok {
		return ErrNotJoined
	}
	c.state.Router.Broadcast(user.Room, EventUserTyping, typingNote{
		Username: user.Username,
		IsTyping: isTyping,
	}, id)
	return nil
}

// disconnect erases every trace of the connection. A connection that never
// joined is a no-op.
func (c *PresenceCoordinator) disconnect(id core.ConnID) error {
	user, ok := c.state.Registry.Lookup(id)
	if !ok {
		return nil
	}
	c.state.Rooms.RemoveMember(user.Room, id)
	c.state.Router.Broadcast(user.Room, EventUserLeft, presenceNote(user.Username, "left"), id)
	c.state.Registry.Remove(id)

	log.Info().Str("module", "app.coordinator").Str("conn", string(id)).Str("username", user.Username).Str("room", string(user.Room)).Msg("user disconnected")
	return nil
}

// PostMessage is the REST-originated send path. It shares the log append and
// room broadcast with sendMessage so both channels behave identically; there
// is simply no originating connection to register or exclude.
func (c *PresenceCoordinator) PostMessage(username, body, rawRoom string) (domain.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room := domain.NormalizeRoom(rawRoom)
	msg, err := domain.NewMessage(username, body, room)
	if err != nil {
		return domain.Message{}, err
	}
	if msg.Username == "" {
		return domain.Message{}, domain.ErrUsernameEmpty
	}
	stored := c.state.Log.Append(*msg)
	c.state.Router.Broadcast(room, EventNewMessage, stored, "")
	return stored, nil
}

// note is the payload of user_joined / user_left notifications.
type note struct {
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func presenceNote(username, verb string) note {
	return note{
		Username:  username,
		Message:   fmt.Sprintf("%s %s the chat", username, verb),
		Timestamp: time.Now(),
	}
}

type typingNote struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}
