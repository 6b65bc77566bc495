package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/daikw/meetbot/internal/config"
	"github.com/daikw/meetbot/internal/persona"
	"github.com/daikw/meetbot/internal/store"
)

func personaCommand() *cli.Command {
	return &cli.Command{
		Name:    "persona",
		Usage:   "Manage persona definitions",
		Aliases: []string{"p"},
		Commands: []*cli.Command{
			{
				Name:    "list",
				Usage:   "List available personas",
				Action:  handlePersonaList,
				Aliases: []string{"ls", "l"},
			},
			{
				Name:      "show",
				Usage:     "Show the normalized form of a persona",
				Action:    handlePersonaShow,
				ArgsUsage: "<persona>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "Print the raw markdown instead of the normalized form",
					},
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate a persona markdown file and print diagnostics",
				Action:    handlePersonaValidate,
				ArgsUsage: "<file>",
			},
			{
				Name:      "create",
				Usage:     "Create a new persona with default sections",
				Action:    handlePersonaCreate,
				ArgsUsage: "<name>",
			},
			{
				Name:      "delete",
				Usage:     "Delete a persona",
				Action:    handlePersonaDelete,
				ArgsUsage: "<persona>",
			},
		},
	}
}

func personaStore() (*store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return store.New(cfg.PersonasDir), nil
}

func handlePersonaList(ctx context.Context, c *cli.Command) error {
	s, err := personaStore()
	if err != nil {
		return err
	}

	keys, err := s.List()
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		fmt.Println("No personas found. Create one with 'meetbot persona create <name>'")
		return nil
	}

	fmt.Println("Available personas:")
	for _, key := range keys {
		p, _, err := s.Load(key)
		if err != nil {
			fmt.Printf("  - %s %s\n", key, color.RedString("(unreadable: %v)", err))
			continue
		}
		fmt.Printf("  - %s: %s\n", color.CyanString(key), p.Description)
	}

	return nil
}

func handlePersonaShow(ctx context.Context, c *cli.Command) error {
	name := c.Args().Get(0)
	if name == "" {
		return fmt.Errorf("persona name is required")
	}

	s, err := personaStore()
	if err != nil {
		return err
	}

	key, p, err := s.Get(name)
	if err != nil {
		return err
	}

	if c.Bool("raw") {
		raw, err := s.Raw(key)
		if err != nil {
			return err
		}
		fmt.Println(raw)
		return nil
	}

	fmt.Println(color.New(color.Bold).Sprint(p.Name))
	if p.Description != "" {
		fmt.Printf("\n%s\n", p.Description)
	}
	if len(p.Characteristics) > 0 {
		fmt.Printf("\n%s\n", color.New(color.Bold).Sprint("Characteristics"))
		for _, trait := range p.Characteristics {
			fmt.Printf("  - %s\n", trait)
		}
	}
	if p.VoiceDescription != "" {
		fmt.Printf("\n%s\n%s\n", color.New(color.Bold).Sprint("Voice"), p.VoiceDescription)
	}
	if !p.Metadata.IsZero() {
		fmt.Printf("\n%s\n", color.New(color.Bold).Sprint("Metadata"))
		printMetadata(p.Metadata)
	}

	return nil
}

func printMetadata(m persona.Metadata) {
	if m.Image != "" {
		fmt.Printf("  image: %s\n", m.Image)
	}
	if m.EntryMessage != "" {
		fmt.Printf("  entry_message: %s\n", m.EntryMessage)
	}
	if m.TextMessage != "" {
		fmt.Printf("  text_message: %s\n", m.TextMessage)
	}
	if m.VoiceID != "" {
		fmt.Printf("  voice_id: %s\n", m.VoiceID)
	}
	if m.Gender != "" {
		fmt.Printf("  gender: %s\n", m.Gender)
	}
	if len(m.RelevantLinks) > 0 {
		fmt.Printf("  relevant_links: %s\n", strings.Join(m.RelevantLinks, " "))
	}
	if len(m.TTSParams) > 0 {
		fmt.Printf("  tts_params: %v\n", m.TTSParams)
	}
	for k, v := range m.Extra {
		fmt.Printf("  %s: %s\n", k, v)
	}
}

func handlePersonaValidate(ctx context.Context, c *cli.Command) error {
	path := c.Args().Get(0)
	if path == "" {
		return fmt.Errorf("file path is required")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	p, diags, err := persona.Normalize(string(content))
	if err != nil {
		fmt.Printf("%s %v\n", color.RedString("invalid:"), err)
		return fmt.Errorf("persona document is invalid")
	}

	fmt.Printf("%s %s\n", color.GreenString("valid:"), p.Name)
	for _, d := range diags {
		label := color.YellowString(string(d.Severity))
		if d.Severity == persona.SeverityInfo {
			label = color.CyanString(string(d.Severity))
		}
		fmt.Printf("  %s: %s\n", label, d.Message)
	}

	return nil
}

func handlePersonaCreate(ctx context.Context, c *cli.Command) error {
	name := c.Args().Get(0)
	if name == "" {
		return fmt.Errorf("persona name is required")
	}

	s, err := personaStore()
	if err != nil {
		return err
	}

	key := store.Key(name)
	if s.Exists(key) {
		return fmt.Errorf("persona '%s' already exists", key)
	}

	p := &persona.Persona{
		Name:            name,
		Description:     fmt.Sprintf("%s is a meeting bot persona.", name),
		Characteristics: persona.DefaultCharacteristics,
		VoiceDescription: fmt.Sprintf("%s speaks with %s.", name,
			strings.Join(persona.DefaultVoiceCharacteristics, " and ")),
	}
	if err := s.Save(key, p); err != nil {
		return err
	}

	fmt.Printf("Created new persona: %s\n", key)
	fmt.Printf("Edit it at: %s/%s/README.md\n", s.Dir(), key)
	return nil
}

func handlePersonaDelete(ctx context.Context, c *cli.Command) error {
	name := c.Args().Get(0)
	if name == "" {
		return fmt.Errorf("persona name is required")
	}

	s, err := personaStore()
	if err != nil {
		return err
	}

	if err := s.Delete(store.Key(name)); err != nil {
		return err
	}

	fmt.Printf("Deleted persona: %s\n", store.Key(name))
	return nil
}
