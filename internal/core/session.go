package core

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Session is one live connection from successful authentication to close.
// The registry owns it for its lifetime; router and broadcaster only
// reference it through the registry.
type Session struct {
	ID     string
	UserID string

	conn   Conn
	mu     sync.Mutex
	closed bool
}

// NewSession wraps an authenticated connection.
func NewSession(userID string, conn Conn) *Session {
	return &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		conn:   conn,
	}
}

// Send writes one frame to the connection. A transport failure marks the
// session closed; callers treat the error as evidence the peer is gone.
func (s *Session) Send(ctx context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if err := s.conn.Send(ctx, payload); err != nil {
		s.closed = true
		return err
	}
	return nil
}

// Close terminates the connection once; later calls are no-ops.
func (s *Session) Close(reason CloseReason, msg string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	_ = s.conn.Close(reason, msg)
}

// Open reports whether the session can still accept frames.
func (s *Session) Open() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}
