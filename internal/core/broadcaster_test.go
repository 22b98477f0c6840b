package core

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestBroadcasterDeliversSameSnapshotToAll(t *testing.T) {
	reg := NewRegistry()
	coord := newFakeCoordinator()
	coord.status.Count = 3

	conns := []*fakeConn{newFakeConn(), newFakeConn(), newFakeConn()}
	for _, c := range conns {
		reg.Add(NewSession("u", c))
	}

	b := NewBroadcaster(reg, coord, time.Second, time.Second, testLogger())
	b.fire(context.Background())

	var first []byte
	for i, c := range conns {
		frames := c.sentFrames()
		if len(frames) != 1 {
			t.Fatalf("conn %d: expected 1 frame, got %d", i, len(frames))
		}
		if c.frameType(t, 0) != "STATUS" {
			t.Fatalf("conn %d: expected STATUS frame", i)
		}
		if first == nil {
			first = frames[0]
		} else if !bytes.Equal(first, frames[0]) {
			t.Fatalf("conn %d received a different snapshot", i)
		}
	}
}

func TestBroadcasterPrunesFailingSession(t *testing.T) {
	reg := NewRegistry()
	coord := newFakeCoordinator()

	healthy1 := newFakeConn()
	broken := newFakeConn()
	broken.sendErr = errors.New("broken pipe")
	healthy2 := newFakeConn()

	reg.Add(NewSession("a", healthy1))
	dead := NewSession("b", broken)
	reg.Add(dead)
	reg.Add(NewSession("c", healthy2))

	b := NewBroadcaster(reg, coord, time.Second, time.Second, testLogger())
	b.fire(context.Background())

	// Healthy peers still got their frame in the same firing.
	if len(healthy1.sentFrames()) != 1 || len(healthy2.sentFrames()) != 1 {
		t.Fatalf("healthy sessions must receive the frame despite a failing peer")
	}
	if reg.Len() != 2 {
		t.Fatalf("expected failing session pruned, registry has %d", reg.Len())
	}
	for _, s := range reg.Snapshot() {
		if s == dead {
			t.Fatalf("failing session still registered")
		}
	}

	// The pruned session stays absent in subsequent firings.
	b.fire(context.Background())
	if len(healthy1.sentFrames()) != 2 {
		t.Fatalf("expected second frame on healthy session")
	}
}

func TestBroadcasterSkipsFiringWithoutSnapshot(t *testing.T) {
	reg := NewRegistry()
	coord := newFakeCoordinator()
	coord.statusErr = errors.New("coordinator down")

	conn := newFakeConn()
	reg.Add(NewSession("u", conn))

	b := NewBroadcaster(reg, coord, time.Second, time.Second, testLogger())
	b.fire(context.Background())

	if len(conn.sentFrames()) != 0 {
		t.Fatalf("no snapshot means no frames")
	}
	if reg.Len() != 1 {
		t.Fatalf("a skipped firing must not prune sessions")
	}

	// Recovery on the next period.
	coord.mu.Lock()
	coord.statusErr = nil
	coord.mu.Unlock()
	b.fire(context.Background())
	if len(conn.sentFrames()) != 1 {
		t.Fatalf("expected delivery after coordinator recovery")
	}
}

func TestBroadcasterRunFiresPeriodically(t *testing.T) {
	reg := NewRegistry()
	coord := newFakeCoordinator()
	conn := newFakeConn()
	reg.Add(NewSession("u", conn))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBroadcaster(reg, coord, 10*time.Millisecond, time.Second, testLogger())
	go b.Run(ctx)

	waitFor(t, func() bool { return len(conn.sentFrames()) >= 2 }, "periodic broadcasts")
	cancel()
}
