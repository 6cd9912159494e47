package core

import (
	"sort"
	"sync"

	"chat-relay/internal/domain"
)

type memberSet map[ConnID]struct{}

// RoomDirectory maps each room name to its current member set.
// Rooms are ephemeral: the entry is deleted the instant its last member leaves.
type RoomDirectory struct {
	mu      sync.RWMutex
	members map[domain.RoomName]memberSet
}

func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{members: make(map[domain.RoomName]memberSet)}
}

// AddMember creates the room entry if absent, then adds id.
func (d *RoomDirectory) AddMember(room domain.RoomName, id ConnID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	set, ok := d.members[room]
	if !ok {
		set = make(memberSet)
		d.members[room] = set
	}
	set[id] = struct{}{}
}

// RemoveMember removes id from room. If no one is left in the room its entry
// is removed entirely so no empty rooms linger.
func (d *RoomDirectory) RemoveMember(room domain.RoomName, id ConnID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	set, ok := d.members[room]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(d.members, room)
	}
}

// Members snapshots the member set of room. Unknown rooms yield an empty
// slice, not an error.
func (d *RoomDirectory) Members(room domain.RoomName) []ConnID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]ConnID, 0, len(d.members[room]))
	for id := range d.members[room] {
		out = append(out, id)
	}
	return out
}

// ListRooms returns the names of all currently non-empty rooms, sorted for
// stable output.
func (d *RoomDirectory) ListRooms() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.members))
	for name := range d.members {
		out = append(out, string(name))
	}
	sort.Strings(out)
	return out
}

func (d *RoomDirectory) MemberCount(room domain.RoomName) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.members[room])
}
