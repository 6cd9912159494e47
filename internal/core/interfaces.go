package core

// Frame is a marshaled wire payload ready for a transport to write.
type Frame []byte

// ConnID is the unique handle of one live client channel.
type ConnID string

// Sink abstracts the outbound side of a connection.
// Owned by the adapter; the adapter must Close() it.
type Sink interface {
	TrySend(Frame) error
	Close()
}
