package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/draftarena/lobby-server/internal/app"
	"github.com/draftarena/lobby-server/internal/config"
	"github.com/draftarena/lobby-server/internal/log"
)

func main() {
	var (
		configPath        string
		addr              string
		redisAddr         string
		broadcastInterval time.Duration
		shutdownTimeout   time.Duration
	)
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&addr, "addr", "", "HTTP listen address")
	flag.StringVar(&redisAddr, "redis-addr", "", "Redis address for the match coordinator (empty = in-memory)")
	flag.DurationVar(&broadcastInterval, "broadcast-interval", 0, "status broadcast period")
	flag.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")
	flag.Parse()

	bootLogger := log.New("info")
	cfg, resolvedPath, err := config.Load(bootLogger, configPath)
	if err != nil {
		stdlog.Fatalf("load config: %v", err)
	}

	// Explicit flags win over file and env values.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = addr
		case "redis-addr":
			cfg.RedisAddr = redisAddr
		case "broadcast-interval":
			cfg.BroadcastInterval = broadcastInterval
		case "shutdown-timeout":
			cfg.ShutdownTimeout = shutdownTimeout
		}
	})

	logger := log.New(cfg.LogLevel)
	logger.Info().Str("config", resolvedPath).Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(&cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build application")
	}

	logger.Info().Str("addr", cfg.Addr).Msg("starting lobby server")
	if err := application.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}
