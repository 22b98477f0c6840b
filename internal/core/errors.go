package core

import "errors"

var (
	// ErrSessionClosed reports a send on, or a protocol-driven close of, an
	// already terminated session.
	ErrSessionClosed = errors.New("session closed")
	// ErrMalformedFrame reports an inbound frame that could not be decoded.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrMissingIdentity reports a session with no associated identity.
	ErrMissingIdentity = errors.New("session has no identity")
)
