package core

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/draftarena/lobby-server/internal/match"
	"github.com/draftarena/lobby-server/internal/proto"
)

// teardownTimeout bounds coordinator calls made after the connection
// context is gone.
const teardownTimeout = 5 * time.Second

// Gateway drives the lifecycle of one connection: authenticate, emit the
// identity and initial status frames, register, dispatch inbound frames,
// and tear down.
type Gateway struct {
	auth        Authenticator
	registry    *Registry
	router      *Router
	coord       match.Coordinator
	sendTimeout time.Duration
	log         *zerolog.Logger
}

// NewGateway wires the connection lifecycle over its collaborators.
func NewGateway(auth Authenticator, registry *Registry, router *Router, coord match.Coordinator, sendTimeout time.Duration, logger *zerolog.Logger) *Gateway {
	if sendTimeout <= 0 {
		sendTimeout = 3 * time.Second
	}
	return &Gateway{
		auth:        auth,
		registry:    registry,
		router:      router,
		coord:       coord,
		sendTimeout: sendTimeout,
		log:         logger,
	}
}

// Serve runs the connection until it closes. It blocks for the lifetime of
// the connection; the transport calls it once per accepted connection.
func (g *Gateway) Serve(ctx context.Context, conn Conn, token string) {
	// Authentication happens before any other side effect.
	userID, err := g.auth.Identify(ctx, token)
	if err != nil {
		g.log.Warn().Err(err).Msg("connection rejected: no verified identity")
		_ = conn.Close(CloseNotAcceptable, "authentication required")
		return
	}

	sess := NewSession(userID, conn)
	g.log.Info().Str("session_id", sess.ID).Str("user_id", userID).Msg("connection established")

	// Identity frame first, then the immediate snapshot, then registration:
	// this orders both initial frames ahead of any broadcast frame.
	identity, err := proto.EncodeUserID(userID)
	if err != nil {
		g.log.Error().Err(err).Str("session_id", sess.ID).Msg("encode identity frame")
		sess.Close(CloseInternal, "internal error")
		return
	}
	if err := g.sendFrame(ctx, sess, identity); err != nil {
		return
	}

	if status, err := g.coord.CurrentStatus(ctx); err != nil {
		// Same policy as a skipped broadcast firing: the next one repairs
		// visibility within one period.
		g.log.Warn().Err(err).Str("session_id", sess.ID).Msg("initial status unavailable")
	} else if payload, err := proto.EncodeStatus(status); err != nil {
		g.log.Error().Err(err).Str("session_id", sess.ID).Msg("encode status frame")
	} else if err := g.sendFrame(ctx, sess, payload); err != nil {
		return
	}

	g.registry.Add(sess)
	defer g.teardown(sess)

	for {
		data, err := conn.Read(ctx)
		if err != nil {
			g.log.Debug().Err(err).Str("session_id", sess.ID).Msg("read loop ended")
			return
		}
		if err := g.router.Route(ctx, sess, data); err != nil {
			if !errors.Is(err, ErrSessionClosed) {
				g.log.Warn().Err(err).Str("session_id", sess.ID).Msg("session terminated by router")
			}
			return
		}
	}
}

func (g *Gateway) sendFrame(ctx context.Context, sess *Session, payload []byte) error {
	sendCtx, cancel := context.WithTimeout(ctx, g.sendTimeout)
	defer cancel()
	if err := sess.Send(sendCtx, payload); err != nil {
		g.log.Warn().Err(err).Str("session_id", sess.ID).Msg("initial send failed")
		return err
	}
	return nil
}

// teardown removes the session from the registry and issues the implicit
// cancel for identities still marked as joined, so an abrupt disconnect
// never leaves a participant stuck in the coordinator's queue.
func (g *Gateway) teardown(sess *Session) {
	g.registry.Remove(sess)

	ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
	defer cancel()

	joined, err := g.coord.IsJoined(ctx, sess.UserID)
	if err != nil {
		g.log.Warn().Err(err).Str("user_id", sess.UserID).Msg("joined check failed during teardown")
		return
	}
	if joined {
		if err := g.coord.Cancel(ctx, sess.UserID); err != nil {
			g.log.Warn().Err(err).Str("user_id", sess.UserID).Msg("implicit cancel failed")
		} else {
			g.log.Info().Str("user_id", sess.UserID).Msg("implicit cancel after disconnect")
		}
	}
	g.log.Info().Str("session_id", sess.ID).Str("user_id", sess.UserID).Msg("connection closed")
}
