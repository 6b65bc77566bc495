package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"

	"github.com/daikw/meetbot/internal/baas"
	"github.com/daikw/meetbot/internal/config"
	"github.com/daikw/meetbot/internal/registry"
	"github.com/daikw/meetbot/internal/server"
	"github.com/daikw/meetbot/internal/store"
	"github.com/daikw/meetbot/internal/transcript"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the admin console HTTP API",
		Action: handleServe,
	}
}

func handleServe(ctx context.Context, c *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	client := baas.NewClient(cfg.MeetingBaaSAPIKey, baas.WithBaseURL(cfg.MeetingBaaSBaseURL))

	srv := server.New(
		cfg,
		store.New(cfg.PersonasDir),
		client,
		registry.New(rdb),
		transcript.NewStore(cfg.TranscriptsDir),
	)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(runCtx)
}
