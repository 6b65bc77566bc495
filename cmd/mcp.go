package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"

	"github.com/daikw/meetbot/internal/baas"
	"github.com/daikw/meetbot/internal/config"
	"github.com/daikw/meetbot/internal/mcpserver"
	"github.com/daikw/meetbot/internal/registry"
	"github.com/daikw/meetbot/internal/store"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:   "mcp",
		Usage:  "Run the MCP server over stdio",
		Action: handleMCP,
	}
}

func handleMCP(ctx context.Context, c *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	client := baas.NewClient(cfg.MeetingBaaSAPIKey, baas.WithBaseURL(cfg.MeetingBaaSBaseURL))

	srv := mcpserver.New(
		store.New(cfg.PersonasDir),
		client,
		registry.New(rdb),
		cfg.WebhookURL,
		version,
	)
	return srv.ServeStdio()
}
