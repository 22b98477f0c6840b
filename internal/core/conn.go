package core

import "context"

// CloseReason is a transport-neutral close code. The transport layer maps
// it onto whatever the underlying protocol uses.
type CloseReason int

const (
	// CloseNormal is a server-initiated graceful close.
	CloseNormal CloseReason = iota
	// CloseNotAcceptable rejects a connection that failed authentication.
	CloseNotAcceptable
	// CloseBadData terminates a connection that sent a malformed frame or
	// lost its identity.
	CloseBadData
	// CloseInternal signals a server-side failure.
	CloseInternal
)

// Conn is one message-oriented bidirectional connection as the core sees it.
type Conn interface {
	// Read blocks until the next inbound frame or connection close.
	Read(ctx context.Context) ([]byte, error)
	// Send writes one frame. A failure is definitive; the core never retries.
	Send(ctx context.Context, payload []byte) error
	// Close terminates the connection with the given reason.
	Close(reason CloseReason, msg string) error
}

// Authenticator produces exactly one participant identity for a new
// connection, or a definite rejection.
type Authenticator interface {
	Identify(ctx context.Context, token string) (string, error)
}
