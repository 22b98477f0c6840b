package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/draftarena/lobby-server/internal/match"
	"github.com/draftarena/lobby-server/internal/proto"
)

// Broadcaster periodically pushes the current round snapshot to every live
// session, pruning sessions whose sends fail.
type Broadcaster struct {
	registry    *Registry
	coord       match.Coordinator
	interval    time.Duration
	sendTimeout time.Duration
	log         *zerolog.Logger
}

// NewBroadcaster builds a broadcaster with the given period. Zero values
// fall back to a 1s period and 3s per-send timeout.
func NewBroadcaster(registry *Registry, coord match.Coordinator, interval, sendTimeout time.Duration, logger *zerolog.Logger) *Broadcaster {
	if interval <= 0 {
		interval = time.Second
	}
	if sendTimeout <= 0 {
		sendTimeout = 3 * time.Second
	}
	return &Broadcaster{
		registry:    registry,
		coord:       coord,
		interval:    interval,
		sendTimeout: sendTimeout,
		log:         logger,
	}
}

// Run fires on a fixed period until the context is cancelled. Per-session
// failures never stop the loop.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.fire(ctx)
		}
	}
}

// fire executes one broadcast: pull a snapshot, serialize it once, push it
// to every session registered at the start of the firing.
func (b *Broadcaster) fire(ctx context.Context) {
	status, err := b.coord.CurrentStatus(ctx)
	if err != nil {
		// No snapshot, no firing; the next period retries.
		b.log.Warn().Err(err).Msg("status snapshot unavailable, skipping broadcast")
		return
	}

	payload, err := proto.EncodeStatus(status)
	if err != nil {
		b.log.Error().Err(err).Msg("encode status frame")
		return
	}

	for _, s := range b.registry.Snapshot() {
		if !s.Open() {
			b.registry.Remove(s)
			continue
		}

		sendCtx, cancel := context.WithTimeout(ctx, b.sendTimeout)
		err := s.Send(sendCtx, payload)
		cancel()
		if err != nil {
			// Dead peer: prune, do not retry.
			b.registry.Remove(s)
			s.Close(CloseNormal, "unreachable")
			b.log.Warn().Err(err).Str("session_id", s.ID).Str("user_id", s.UserID).Msg("broadcast send failed, session pruned")
		}
	}
}
