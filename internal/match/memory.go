package match

import (
	"context"
	"sync"
	"time"
)

// InMemory is a single-process Coordinator keeping queue membership in a
// plain set. It backs redis-less development runs and tests.
type InMemory struct {
	mu    sync.Mutex
	queue map[string]struct{}
	round *Round

	now func() time.Time
}

// NewInMemory creates an empty in-memory coordinator with no round scheduled.
func NewInMemory() *InMemory {
	return &InMemory{
		queue: make(map[string]struct{}),
		now:   time.Now,
	}
}

// SetRound replaces the current round and clears the queue. A nil round
// leaves the coordinator idle.
func (m *InMemory) SetRound(r *Round) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.round = r
	m.queue = make(map[string]struct{})
}

// CurrentStatus implements Coordinator.
func (m *InMemory) CurrentStatus(_ context.Context) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Status{
		Count: len(m.queue),
		State: StateIdle,
	}
	if m.round != nil {
		round := *m.round
		st.Round = &round
		st.State, st.RemainingTime = m.round.StateAt(m.now())
	}
	return st, nil
}

// Join implements Coordinator. Joining twice is a no-op.
func (m *InMemory) Join(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.round == nil {
		return ErrNoRound
	}
	m.queue[userID] = struct{}{}
	return nil
}

// Cancel implements Coordinator. Cancelling an absent identity is a no-op.
func (m *InMemory) Cancel(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.queue, userID)
	return nil
}

// IsJoined implements Coordinator.
func (m *InMemory) IsJoined(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.queue[userID]
	return ok, nil
}
