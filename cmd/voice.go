package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/daikw/meetbot/internal/config"
	"github.com/daikw/meetbot/internal/store"
	"github.com/daikw/meetbot/internal/voice"
)

func voiceCommand() *cli.Command {
	return &cli.Command{
		Name:  "voice",
		Usage: "Preview persona voices through TTS providers",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List available voices for a provider",
				Action: handleVoiceList,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "provider",
						Usage: "TTS provider: cartesia, polly, gcp",
						Value: "cartesia",
					},
				},
			},
			{
				Name:      "preview",
				Usage:     "Synthesize a sample of a persona's voice",
				Action:    handleVoicePreview,
				ArgsUsage: "<persona>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "provider",
						Usage: "TTS provider: cartesia, polly, gcp",
						Value: "cartesia",
					},
					&cli.StringFlag{
						Name:  "text",
						Usage: "Text to speak (defaults to the persona's entry message)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: stream to stdout)",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Audio format: mp3, wav, ogg",
						Value: "mp3",
					},
					&cli.FloatFlag{
						Name:  "speed",
						Usage: "Speech speed (0.25-4.0, provider dependent)",
						Value: 1.0,
					},
				},
			},
		},
	}
}

func handleVoiceList(ctx context.Context, c *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	provider, err := voice.NewFactory(cfg).CreateProvider(ctx, c.String("provider"))
	if err != nil {
		return err
	}

	voices, err := provider.ListVoices(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Available voices for %s:\n\n", provider.Name())
	for _, v := range voices {
		fmt.Printf("  %s - %s (%s, %s)\n", v.ID, v.Name, v.Language, v.Gender)
	}
	return nil
}

func handleVoicePreview(ctx context.Context, c *cli.Command) error {
	name := c.Args().Get(0)
	if name == "" {
		return fmt.Errorf("persona name is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	_, p, err := store.New(cfg.PersonasDir).Get(name)
	if err != nil {
		return err
	}

	provider, err := voice.NewFactory(cfg).CreateProvider(ctx, c.String("provider"))
	if err != nil {
		return err
	}

	if !provider.IsAvailable(ctx) {
		return fmt.Errorf("voice provider '%s' is not available", provider.Name())
	}

	text := c.String("text")
	if text == "" {
		text = p.Metadata.EntryMessage
	}
	if text == "" {
		text = fmt.Sprintf("Hi, I'm %s. %s", p.Name, p.Description)
	}

	stream, err := provider.Synthesize(ctx, text, voice.SynthesizeOptions{
		Voice:  p.Metadata.VoiceID,
		Speed:  c.Float("speed"),
		Format: c.String("format"),
		Params: p.Metadata.TTSParams,
	})
	if err != nil {
		return err
	}
	defer stream.Close()

	if outputFile := c.String("output"); outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()

		if _, err := io.Copy(f, stream); err != nil {
			return fmt.Errorf("failed to write audio: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Audio saved to %s\n", outputFile)
		return nil
	}

	if _, err := io.Copy(os.Stdout, stream); err != nil {
		return fmt.Errorf("failed to stream audio: %w", err)
	}
	return nil
}
