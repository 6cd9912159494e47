package ws

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"chat-relay/internal/app"
	"chat-relay/internal/core"
	"chat-relay/internal/domain"
)

type joinPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

type sendPayload struct {
	Message string `json:"message"`
}

// handleFrame decodes one inbound envelope and hands the typed event to the
// coordinator. Every failure is local: it becomes an error event on this
// connection and nothing else.
func (ctl *Controller) handleFrame(id core.ConnID, sink core.Sink, data []byte) {
	var env core.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "ws").Str("conn", string(id)).Msg("bad envelope")
		sendError(sink, "Invalid event payload")
		return
	}

	switch env.Event {
	case "join_user":
		var p joinPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			sendError(sink, "Invalid event payload")
			return
		}
		ctl.dispatch(id, sink, app.JoinUser{Username: p.Username, Room: p.Room})

	case "send_message":
		if !ctl.limiter.Allow(id) {
			log.Warn().Str("module", "ws").Str("conn", string(id)).Msg("rate limited")
			sendError(sink, "Too many messages, slow down")
			return
		}
		var p sendPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			sendError(sink, "Invalid event payload")
			return
		}
		ctl.dispatch(id, sink, app.SendMessage{Body: p.Message})

	case "typing_start":
		ctl.dispatch(id, sink, app.TypingStart{})

	case "typing_stop":
		ctl.dispatch(id, sink, app.TypingStop{})

	default:
		log.Warn().Str("module", "ws").Str("conn", string(id)).Str("event", env.Event).Msg("unknown event")
		sendError(sink, "Unknown event")
	}
}

func (ctl *Controller) dispatch(id core.ConnID, sink core.Sink, ev app.Event) {
	if err := ctl.coord.Dispatch(id, ev); err != nil {
		sendError(sink, errorMessage(err))
	}
}

// errorMessage converts an internal failure into the client-facing text.
// Internal detail never leaks; unknown failures get the generic line.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrNotJoined):
		return "User not found"
	case errors.Is(err, domain.ErrMessageEmpty):
		return "Message cannot be empty"
	case errors.Is(err, domain.ErrMessageTooLong):
		return "Message too long (max 500 characters)"
	case errors.Is(err, domain.ErrUsernameEmpty):
		return "Username is required"
	case errors.Is(err, domain.ErrUsernameTooLong):
		return "Username too long"
	default:
		return "Something went wrong!"
	}
}

func sendError(sink core.Sink, message string) {
	frame, err := core.Marshal(app.EventError, map[string]string{"message": message})
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("marshal error event")
		return
	}
	_ = sink.TrySend(frame)
}
