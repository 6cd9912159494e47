package core

import (
	"sync"

	"chat-relay/internal/domain"
)

// DefaultHistoryLimit caps the in-memory message history.
const DefaultHistoryLimit = 100

// MessageLog is a bounded, insertion-ordered store of chat messages.
// Once the limit is exceeded the oldest entries are dropped first.
type MessageLog struct {
	mu      sync.RWMutex
	entries []domain.Message
	limit   int
	nextID  int64
}

func NewMessageLog(limit int) *MessageLog {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &MessageLog{
		entries: make([]domain.Message, 0, limit),
		limit:   limit,
		nextID:  1,
	}
}

// Append assigns the message its sequence ID, inserts it at the tail and
// evicts from the head while over the limit. Returns the stored message.
func (l *MessageLog) Append(msg domain.Message) domain.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg.ID = l.nextID
	l.nextID++
	l.entries = append(l.entries, msg)
	if n := len(l.entries) - l.limit; n > 0 {
		l.entries = append(l.entries[:0:0], l.entries[n:]...)
	}
	return msg
}

// All returns the full history in insertion order.
func (l *MessageLog) All() []domain.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Message, len(l.entries))
	copy(out, l.entries)
	return out
}

// ByRoom returns the history filtered to one room, insertion order preserved.
func (l *MessageLog) ByRoom(room domain.RoomName) []domain.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Message, 0)
	for _, m := range l.entries {
		if m.Room == room {
			out = append(out, m)
		}
	}
	return out
}

func (l *MessageLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
