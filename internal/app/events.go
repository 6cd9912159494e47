package app

// Outbound event names on the realtime channel.
const (
	EventNewMessage = "new_message"
	EventUserJoined = "user_joined"
	EventUserLeft   = "user_left"
	EventUsersList  = "users_list"
	EventUserTyping = "user_typing"
	EventError      = "error"
)

// Event is the closed set of inbound events a connection can produce.
// The coordinator dispatches on the concrete type.
type Event interface{ inbound() }

type JoinUser struct {
	Username string
	Room     string
}

type SendMessage struct {
	Body string
}

type TypingStart struct{}

type TypingStop struct{}

type Disconnect struct{}

func (JoinUser) inbound()    {}
func (SendMessage) inbound() {}
func (TypingStart) inbound() {}
func (TypingStop) inbound()  {}
func (Disconnect) inbound()  {}
