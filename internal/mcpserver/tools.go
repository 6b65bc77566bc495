package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"

	"github.com/daikw/meetbot/internal/baas"
	"github.com/daikw/meetbot/internal/persona"
	"github.com/daikw/meetbot/internal/registry"
	"github.com/daikw/meetbot/internal/store"
)

// ToolDefs returns the MCP tool definitions.
func ToolDefs() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "list_personas",
			Description: "List available meeting bot personas with their keys, names, and descriptions.",
			InputSchema: mcp.ToolInputSchema{
				Type:       "object",
				Properties: map[string]any{},
			},
		},
		{
			Name:        "get_persona",
			Description: "Get the normalized form of a persona by name or key, including its characteristics, voice description, and metadata.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"name": map[string]any{
						"type":        "string",
						"description": "Persona name or key. Closest match wins when no exact match exists.",
					},
				},
				Required: []string{"name"},
			},
		},
		{
			Name:        "validate_persona",
			Description: "Normalize a persona markdown document and report its diagnostics without saving it.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"content": map[string]any{
						"type":        "string",
						"description": "Persona document in markdown",
					},
				},
				Required: []string{"content"},
			},
		},
		{
			Name:        "launch_bot",
			Description: "Launch a speaking bot into a meeting. Picks a random persona unless one is named.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"meeting_url": map[string]any{
						"type":        "string",
						"description": "URL of the meeting to join",
					},
					"persona": map[string]any{
						"type":        "string",
						"description": "Persona name or key (optional, random when omitted)",
					},
					"bot_name": map[string]any{
						"type":        "string",
						"description": "Display name override for the bot (optional)",
					},
				},
				Required: []string{"meeting_url"},
			},
		},
		{
			Name:        "leave_bot",
			Description: "Remove a previously launched bot from its meeting.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"bot_id": map[string]any{
						"type":        "string",
						"description": "The bot ID returned from launch_bot",
					},
				},
				Required: []string{"bot_id"},
			},
		},
	}
}

// Handlers contains tool handler implementations.
type Handlers struct {
	personas   *store.Store
	baas       *baas.Client
	registry   *registry.Registry
	webhookURL string
}

// NewHandlers creates tool handlers.
func NewHandlers(personas *store.Store, baasClient *baas.Client, reg *registry.Registry, webhookURL string) *Handlers {
	return &Handlers{personas: personas, baas: baasClient, registry: reg, webhookURL: webhookURL}
}

// HandleListPersonas lists available personas.
func (h *Handlers) HandleListPersonas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := h.personas.LoadAll()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list personas: %v", err)), nil
	}

	personas := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		personas = append(personas, map[string]any{
			"key":         e.Key,
			"name":        e.Persona.Name,
			"description": e.Persona.Description,
		})
	}

	return jsonResult(map[string]any{
		"personas": personas,
		"count":    len(personas),
	})
}

// HandleGetPersona returns a normalized persona.
func (h *Handlers) HandleGetPersona(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := mcp.ParseString(req, "name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	key, p, err := h.personas.Get(name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("persona %s not found", name)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to get persona: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"key":     key,
		"persona": p,
	})
}

// HandleValidatePersona normalizes a document without saving it.
func (h *Handlers) HandleValidatePersona(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := mcp.ParseString(req, "content", "")
	if content == "" {
		return mcp.NewToolResultError("content is required"), nil
	}

	p, diags, err := persona.Normalize(content)
	if err != nil {
		return jsonResult(map[string]any{
			"valid": false,
			"error": err.Error(),
		})
	}

	return jsonResult(map[string]any{
		"valid":       true,
		"persona":     p,
		"diagnostics": diags,
	})
}

// HandleLaunchBot launches a bot into a meeting.
func (h *Handlers) HandleLaunchBot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	meetingURL := mcp.ParseString(req, "meeting_url", "")
	if meetingURL == "" {
		return mcp.NewToolResultError("meeting_url is required"), nil
	}

	var (
		key string
		p   *persona.Persona
		err error
	)
	if name := mcp.ParseString(req, "persona", ""); name != "" {
		key, p, err = h.personas.Get(name)
	} else {
		key, p, err = h.personas.Random()
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to pick persona: %v", err)), nil
	}

	botName := mcp.ParseString(req, "bot_name", "")
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

	botID, err := h.baas.JoinMeeting(ctx, baas.JoinRequest{
		MeetingURL:       meetingURL,
		BotName:          botName,
		BotImage:         p.Metadata.Image,
		EntryMessage:     entryMessage,
		TextMessage:      textMessage,
		WebhookURL:       h.webhookURL,
		DeduplicationKey: clientID,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to launch bot: %v", err)), nil
	}

	rec := registry.Record{
		ClientID:     clientID,
		BotID:        botID,
		MeetingURL:   meetingURL,
		Persona:      key,
		EntryMessage: entryMessage,
		TextMessage:  textMessage,
		Status:       registry.StatusJoining,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.registry.Put(ctx, rec); err != nil {
		log.Error().Err(err).Str("bot_id", botID).Msg("Failed to record launched bot")
	}

	return jsonResult(map[string]any{
		"bot_id":    botID,
		"client_id": clientID,
		"persona":   key,
		"status":    registry.StatusJoining,
	})
}

// HandleLeaveBot removes a bot from its meeting.
func (h *Handlers) HandleLeaveBot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	botID := mcp.ParseString(req, "bot_id", "")
	if botID == "" {
		return mcp.NewToolResultError("bot_id is required"), nil
	}

	if err := h.baas.Leave(ctx, botID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to leave meeting: %v", err)), nil
	}

	if err := h.registry.Remove(ctx, botID); err != nil && !errors.Is(err, registry.ErrNotFound) {
		log.Warn().Err(err).Str("bot_id", botID).Msg("Failed to remove bot record")
	}

	return jsonResult(map[string]any{"ok": true})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
