package core

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/draftarena/lobby-server/internal/match"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// fakeConn is a scriptable core.Conn. Inbound frames are fed through the
// inbound channel; closing it simulates the peer dropping the connection.
type fakeConn struct {
	inbound chan []byte

	mu          sync.Mutex
	sent        [][]byte
	sendErr     error
	closed      bool
	closeReason CloseReason
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbound: make(chan []byte, 8)}
}

func (c *fakeConn) Read(ctx context.Context) ([]byte, error) {
	select {
	case data, ok := <-c.inbound:
		if !ok {
			return nil, io.EOF
		}
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *fakeConn) Send(_ context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	c.sent = append(c.sent, buf)
	return nil
}

func (c *fakeConn) Close(reason CloseReason, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.closeReason = reason
	}
	return nil
}

func (c *fakeConn) sentFrames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.sent))
	copy(out, c.sent)
	return out
}

func (c *fakeConn) frameType(t *testing.T, i int) string {
	t.Helper()
	frames := c.sentFrames()
	if i >= len(frames) {
		t.Fatalf("expected at least %d frames, got %d", i+1, len(frames))
	}
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(frames[i], &env); err != nil {
		t.Fatalf("decode frame %d: %v", i, err)
	}
	return env.Type
}

func (c *fakeConn) closedWith() (bool, CloseReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed, c.closeReason
}

// fakeCoordinator records join/cancel calls and serves a fixed status.
type fakeCoordinator struct {
	mu          sync.Mutex
	status      match.Status
	statusErr   error
	joined      map[string]bool
	joinCalls   int
	cancelCalls int
}

func newFakeCoordinator() *fakeCoordinator {
	return &fakeCoordinator{
		status: match.Status{Count: 0, State: match.StateOpen},
		joined: make(map[string]bool),
	}
}

func (f *fakeCoordinator) CurrentStatus(context.Context) (match.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return match.Status{}, f.statusErr
	}
	return f.status, nil
}

func (f *fakeCoordinator) Join(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joinCalls++
	f.joined[userID] = true
	return nil
}

func (f *fakeCoordinator) Cancel(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCalls++
	delete(f.joined, userID)
	return nil
}

func (f *fakeCoordinator) IsJoined(_ context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.joined[userID], nil
}

func (f *fakeCoordinator) counts() (joins, cancels int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.joinCalls, f.cancelCalls
}

// fakeAuth is a static Authenticator.
type fakeAuth struct {
	id  string
	err error
}

func (a fakeAuth) Identify(context.Context, string) (string, error) {
	return a.id, a.err
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met: %s", msg)
}
