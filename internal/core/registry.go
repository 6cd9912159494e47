package core

import (
	"sync"

	"chat-relay/internal/domain"
)

// ConnectionRegistry maps each live connection to its user profile.
// At most one User record exists per ConnID; a re-join overwrites it.
type ConnectionRegistry struct {
	mu    sync.RWMutex
	users map[ConnID]domain.User
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{users: make(map[ConnID]domain.User)}
}

// Join creates or replaces the record for id. Room membership is a separate
// concern owned by the coordinator.
func (r *ConnectionRegistry) Join(user domain.User) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[ConnID(user.ID)] = user
	return user
}

// Lookup returns the record for id. A missing record is an expected outcome
// (events arriving after disconnect), not an error.
func (r *ConnectionRegistry) Lookup(id ConnID) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok
}

// Remove deletes and returns the prior record, used to drive cleanup.
func (r *ConnectionRegistry) Remove(id ConnID) (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if ok {
		delete(r.users, id)
	}
	return u, ok
}

// Users snapshots every registered profile, in no particular order.
func (r *ConnectionRegistry) Users() []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out
}

// UsersIn snapshots the profiles currently in room.
func (r *ConnectionRegistry) UsersIn(room domain.RoomName) []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0)
	for _, u := range r.users {
		if u.Room == room {
			out = append(out, u)
		}
	}
	return out
}

func (r *ConnectionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
