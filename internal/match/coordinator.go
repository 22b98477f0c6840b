package match

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Round states as reported in status snapshots.
const (
	StateOpen   = "OPEN"
	StateLocked = "LOCKED"
	StateIdle   = "IDLE"
)

var (
	// ErrNoRound is returned for join attempts when no round is scheduled.
	ErrNoRound = errors.New("no round scheduled")
	// ErrInvalidRound is returned when a round's open time is after its lock time.
	ErrInvalidRound = errors.New("round opens after it locks")
)

// Round is one timed matchmaking window.
type Round struct {
	No     int
	ID     string
	OpenAt time.Time
	LockAt time.Time
}

// NewRound builds a round with a fresh identifier. OpenAt must not be after LockAt.
func NewRound(no int, openAt, lockAt time.Time) (*Round, error) {
	if openAt.After(lockAt) {
		return nil, ErrInvalidRound
	}
	return &Round{
		No:     no,
		ID:     uuid.NewString(),
		OpenAt: openAt,
		LockAt: lockAt,
	}, nil
}

// StateAt reports the round state and whole seconds until the next
// transition, as seen at the given instant.
func (r *Round) StateAt(now time.Time) (state string, remaining int) {
	switch {
	case now.Before(r.OpenAt):
		return StateLocked, secondsUntil(now, r.OpenAt)
	case now.Before(r.LockAt):
		return StateOpen, secondsUntil(now, r.LockAt)
	default:
		return StateLocked, 0
	}
}

func secondsUntil(now, t time.Time) int {
	s := int(t.Sub(now) / time.Second)
	if s < 0 {
		return 0
	}
	return s
}

// Status is an immutable point-in-time view of round and queue state.
// Round is nil when no round is scheduled.
type Status struct {
	Count         int
	RemainingTime int
	State         string
	Round         *Round
}

// Coordinator is the authority owning queue membership and round state.
// Implementations must be safe for concurrent use.
type Coordinator interface {
	// CurrentStatus returns a snapshot of the current round and queue.
	CurrentStatus(ctx context.Context) (Status, error)
	// Join enters the identity into the current round's queue.
	Join(ctx context.Context, userID string) error
	// Cancel removes the identity from the current round's queue.
	Cancel(ctx context.Context, userID string) error
	// IsJoined reports whether the identity is in the current round's queue.
	IsJoined(ctx context.Context, userID string) (bool, error)
}
