package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/draftarena/lobby-server/internal/match"
)

const (
	queueKeyPrefix = "lobby:queue:"
	opTimeout      = 5 * time.Second
)

// Coordinator implements match.Coordinator on top of a Redis set per round.
// Queue membership survives server restarts and is shared across instances.
type Coordinator struct {
	client *goredis.Client

	mu    sync.Mutex
	round *match.Round

	now func() time.Time
}

// New connects to Redis and verifies the connection.
func New(addr, password string, db int) (*Coordinator, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Coordinator{
		client: client,
		now:    time.Now,
	}, nil
}

// Close releases the Redis client.
func (c *Coordinator) Close() error {
	return c.client.Close()
}

// SetRound replaces the current round. Earlier rounds' queue sets are left
// to expire; each round has its own key.
func (c *Coordinator) SetRound(r *match.Round) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.round = r
}

func (c *Coordinator) currentRound() *match.Round {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.round
}

func queueKey(r *match.Round) string {
	return queueKeyPrefix + r.ID
}

// CurrentStatus implements match.Coordinator.
func (c *Coordinator) CurrentStatus(ctx context.Context) (match.Status, error) {
	round := c.currentRound()
	if round == nil {
		return match.Status{State: match.StateIdle}, nil
	}

	count, err := c.client.SCard(ctx, queueKey(round)).Result()
	if err != nil {
		return match.Status{}, fmt.Errorf("queue size: %w", err)
	}

	snapshot := *round
	st := match.Status{
		Count: int(count),
		Round: &snapshot,
	}
	st.State, st.RemainingTime = round.StateAt(c.now())
	return st, nil
}

// Join implements match.Coordinator. SADD makes repeated joins idempotent.
func (c *Coordinator) Join(ctx context.Context, userID string) error {
	round := c.currentRound()
	if round == nil {
		return match.ErrNoRound
	}
	if err := c.client.SAdd(ctx, queueKey(round), userID).Err(); err != nil {
		return fmt.Errorf("join queue: %w", err)
	}
	return nil
}

// Cancel implements match.Coordinator.
func (c *Coordinator) Cancel(ctx context.Context, userID string) error {
	round := c.currentRound()
	if round == nil {
		return nil
	}
	if err := c.client.SRem(ctx, queueKey(round), userID).Err(); err != nil {
		return fmt.Errorf("leave queue: %w", err)
	}
	return nil
}

// IsJoined implements match.Coordinator.
func (c *Coordinator) IsJoined(ctx context.Context, userID string) (bool, error) {
	round := c.currentRound()
	if round == nil {
		return false, nil
	}
	joined, err := c.client.SIsMember(ctx, queueKey(round), userID).Result()
	if err != nil {
		return false, fmt.Errorf("queue membership: %w", err)
	}
	return joined, nil
}
