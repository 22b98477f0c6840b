package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/draftarena/lobby-server/internal/match"
	"github.com/draftarena/lobby-server/internal/proto"
)

// Router dispatches inbound frames on a session to join/cancel intents
// against the match coordinator.
type Router struct {
	coord match.Coordinator
	log   *zerolog.Logger
}

// NewRouter builds a router over the given coordinator.
func NewRouter(coord match.Coordinator, logger *zerolog.Logger) *Router {
	return &Router{coord: coord, log: logger}
}

// Route handles one inbound frame. A nil return keeps the read loop going;
// a non-nil return means the session has been closed by the router and
// reading must stop. Failures here never affect other sessions.
func (r *Router) Route(ctx context.Context, s *Session, data []byte) error {
	typ, err := proto.ParseInbound(data)
	if err != nil {
		r.log.Warn().Err(err).Str("session_id", s.ID).Msg("malformed inbound frame")
		s.Close(CloseBadData, "malformed frame")
		return ErrMalformedFrame
	}

	// Should not occur after authentication, but checked defensively.
	if s.UserID == "" {
		r.log.Warn().Str("session_id", s.ID).Msg("session without identity")
		s.Close(CloseBadData, "missing identity")
		return ErrMissingIdentity
	}

	switch typ {
	case proto.TypeJoin:
		if err := r.coord.Join(ctx, s.UserID); err != nil {
			r.log.Warn().Err(err).Str("user_id", s.UserID).Msg("join failed")
		} else {
			r.log.Info().Str("user_id", s.UserID).Msg("join received")
		}
		return nil
	case proto.TypeCancel:
		if err := r.coord.Cancel(ctx, s.UserID); err != nil {
			r.log.Warn().Err(err).Str("user_id", s.UserID).Msg("cancel failed")
		} else {
			r.log.Info().Str("user_id", s.UserID).Msg("cancel received")
		}
		s.Close(CloseNormal, "cancelled")
		return ErrSessionClosed
	default:
		// Unknown types are ignored for forward compatibility.
		return nil
	}
}
