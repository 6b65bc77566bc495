package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"

	"github.com/daikw/meetbot/internal/baas"
	"github.com/daikw/meetbot/internal/config"
	"github.com/daikw/meetbot/internal/persona"
	"github.com/daikw/meetbot/internal/registry"
	"github.com/daikw/meetbot/internal/store"
)

func botCommand() *cli.Command {
	return &cli.Command{
		Name:    "bot",
		Usage:   "Launch and manage meeting bots",
		Aliases: []string{"b"},
		Commands: []*cli.Command{
			{
				Name:      "launch",
				Usage:     "Launch a bot into a meeting",
				Action:    handleBotLaunch,
				ArgsUsage: "<meeting-url>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "persona",
						Usage: "Persona name or key (random when omitted)",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name override for the bot",
					},
				},
			},
			{
				Name:    "list",
				Usage:   "List active bots",
				Action:  handleBotList,
				Aliases: []string{"ls"},
			},
			{
				Name:      "leave",
				Usage:     "Remove a bot from its meeting",
				Action:    handleBotLeave,
				ArgsUsage: "<bot-id>",
			},
		},
	}
}

func botDeps() (*config.Config, *store.Store, *baas.Client, *registry.Registry, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if cfg.MeetingBaaSAPIKey == "" {
		return nil, nil, nil, nil, fmt.Errorf("MEETING_BAAS_API_KEY is required")
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	client := baas.NewClient(cfg.MeetingBaaSAPIKey, baas.WithBaseURL(cfg.MeetingBaaSBaseURL))
	return cfg, store.New(cfg.PersonasDir), client, registry.New(rdb), nil
}

func handleBotLaunch(ctx context.Context, c *cli.Command) error {
	meetingURL := c.Args().Get(0)
	if meetingURL == "" {
		return fmt.Errorf("meeting URL is required")
	}

	cfg, personas, client, reg, err := botDeps()
	if err != nil {
		return err
	}

	var (
		key string
		p   *persona.Persona
	)
	if name := c.String("persona"); name != "" {
		key, p, err = personas.Get(name)
	} else {
		key, p, err = personas.Random()
	}
	if err != nil {
		return fmt.Errorf("failed to pick persona: %w", err)
	}

	botName := c.String("name")
	if botName == "" {
		botName = p.Name
	}
	entryMessage := p.Metadata.EntryMessage
	if entryMessage == "" {
		entryMessage = persona.DefaultEntryMessage
	}
	textMessage := p.Metadata.TextMessage
	if textMessage == "" {
		textMessage = persona.DefaultTextMessage
	}

	clientID := registry.NewClientID()

	botID, err := client.JoinMeeting(ctx, baas.JoinRequest{
		MeetingURL:       meetingURL,
		BotName:          botName,
		BotImage:         p.Metadata.Image,
		EntryMessage:     entryMessage,
		TextMessage:      textMessage,
		WebhookURL:       cfg.WebhookURL,
		DeduplicationKey: clientID,
	})
	if err != nil {
		return err
	}

	if err := reg.Put(ctx, registry.Record{
		ClientID:     clientID,
		BotID:        botID,
		MeetingURL:   meetingURL,
		Persona:      key,
		EntryMessage: entryMessage,
		TextMessage:  textMessage,
		Status:       registry.StatusJoining,
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		return err
	}

	fmt.Printf("Launched %s as %s (bot ID: %s)\n", color.CyanString(key), botName, botID)
	return nil
}

func handleBotList(ctx context.Context, c *cli.Command) error {
	_, _, _, reg, err := botDeps()
	if err != nil {
		return err
	}

	records, err := reg.List(ctx)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No active bots")
		return nil
	}

	for _, rec := range records {
		fmt.Printf("%s  %s  %s  %s\n",
			rec.BotID,
			color.CyanString(rec.Persona),
			rec.Status,
			rec.MeetingURL,
		)
	}
	return nil
}

func handleBotLeave(ctx context.Context, c *cli.Command) error {
	botID := c.Args().Get(0)
	if botID == "" {
		return fmt.Errorf("bot ID is required")
	}

	_, _, client, reg, err := botDeps()
	if err != nil {
		return err
	}

	if err := client.Leave(ctx, botID); err != nil {
		return err
	}
	if err := reg.Remove(ctx, botID); err != nil {
		// The bot may have been launched outside this registry.
		fmt.Printf("Left meeting, but no local record for bot %s\n", botID)
		return nil
	}

	fmt.Printf("Bot %s left its meeting\n", botID)
	return nil
}
