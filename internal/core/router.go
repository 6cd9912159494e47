package core

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"chat-relay/internal/domain"
)

// Envelope is the wire format of one named event, both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// BroadcastRouter fans named events out to the sinks of a room's members.
// Delivery is best-effort and fire-and-forget: a dead or slow sink is skipped,
// never retried, and never blocks delivery to the rest of the room.
type BroadcastRouter struct {
	mu    sync.RWMutex
	sinks map[ConnID]Sink
	rooms *RoomDirectory
}

func NewBroadcastRouter(rooms *RoomDirectory) *BroadcastRouter {
	return &BroadcastRouter{
		sinks: make(map[ConnID]Sink),
		rooms: rooms,
	}
}

// Attach registers the outbound sink of a live connection.
func (b *BroadcastRouter) Attach(id ConnID, sink Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks[id] = sink
}

// Detach forgets the sink. It does not close it; the adapter owns that.
func (b *BroadcastRouter) Detach(id ConnID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sinks, id)
}

// Broadcast delivers event(payload) to every member of room, excluding the
// originating connection when exclude is non-empty.
func (b *BroadcastRouter) Broadcast(room domain.RoomName, event string, payload any, exclude ConnID) {
	frame, err := Marshal(event, payload)
	if err != nil {
		log.Error().Err(err).Str("module", "core.router").Str("event", event).Msg("marshal broadcast")
		return
	}
	sent := 0
	for _, id := range b.rooms.Members(room) {
		if id == exclude {
			continue
		}
		b.mu.RLock()
		sink, ok := b.sinks[id]
		b.mu.RUnlock()
		if !ok {
			continue
		}
		if err := sink.TrySend(frame); err != nil {
			log.Debug().Err(err).Str("module", "core.router").Str("conn", string(id)).Str("event", event).Msg("dropped frame")
			continue
		}
		sent++
	}
	log.Debug().Str("module", "core.router").Str("room", string(room)).Str("event", event).Int("sent_to", sent).Msg("broadcast")
}

// EmitTo unicasts event(payload) to exactly one connection. A connection that
// is no longer live is silently skipped.
func (b *BroadcastRouter) EmitTo(id ConnID, event string, payload any) {
	frame, err := Marshal(event, payload)
	if err != nil {
		log.Error().Err(err).Str("module", "core.router").Str("event", event).Msg("marshal unicast")
		return
	}
	b.mu.RLock()
	sink, ok := b.sinks[id]
	b.mu.RUnlock()
	if !ok {
		return
	}
	if err := sink.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "core.router").Str("conn", string(id)).Str("event", event).Msg("dropped frame")
	}
}

// Marshal renders one named event as a wire frame.
func Marshal(event string, payload any) (Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
