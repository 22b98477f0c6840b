package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/draftarena/lobby-server/internal/auth"
	"github.com/draftarena/lobby-server/internal/config"
	"github.com/draftarena/lobby-server/internal/core"
	"github.com/draftarena/lobby-server/internal/match"
	matchredis "github.com/draftarena/lobby-server/internal/match/redis"
	"github.com/draftarena/lobby-server/internal/store"
	"github.com/draftarena/lobby-server/internal/store/sqlite"
	transporthttp "github.com/draftarena/lobby-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	broadcaster     *core.Broadcaster
	store           store.Store
	coordCloser     func() error
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.JWTTTL,
	}
	authService := auth.NewService(st, jwtConfig)

	coord, closer, err := newCoordinator(cfg, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	registry := core.NewRegistry()
	router := core.NewRouter(coord, logger)
	gateway := core.NewGateway(authService, registry, router, coord, cfg.SendTimeout, logger)
	broadcaster := core.NewBroadcaster(registry, coord, cfg.BroadcastInterval, cfg.SendTimeout, logger)

	server := transporthttp.NewServer(gateway, authService, st, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		broadcaster:     broadcaster,
		store:           st,
		coordCloser:     closer,
		log:             logger,
	}, nil
}

// newCoordinator selects the Redis-backed coordinator when an address is
// configured and the in-memory one otherwise, seeding the startup round.
func newCoordinator(cfg *config.Config, logger *zerolog.Logger) (match.Coordinator, func() error, error) {
	now := time.Now()
	round, err := match.NewRound(1, now, now.Add(cfg.RoundDuration))
	if err != nil {
		return nil, nil, fmt.Errorf("seed round: %w", err)
	}

	if cfg.RedisAddr == "" {
		coord := match.NewInMemory()
		coord.SetRound(round)
		logger.Info().Str("round_id", round.ID).Msg("in-memory match coordinator")
		return coord, nil, nil
	}

	coord, err := matchredis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, fmt.Errorf("init coordinator: %w", err)
	}
	coord.SetRound(round)
	logger.Info().Str("redis_addr", cfg.RedisAddr).Str("round_id", round.ID).Msg("redis match coordinator")
	return coord, coord.Close, nil
}

// Run starts the broadcaster and HTTP server, blocking until context
// cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.broadcaster.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes database and coordinator resources.
func (a *App) cleanup() {
	if a.coordCloser != nil {
		if err := a.coordCloser(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close coordinator")
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
