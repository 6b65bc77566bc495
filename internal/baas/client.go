package baas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://api.meetingbaas.com"

	botsEndpoint = "/bots"

	// The streaming frequency is pinned; the audio pipeline downstream
	// expects 16 kHz.
	streamingAudioFrequency = "16khz"

	apiKeyHeader = "x-meeting-baas-api-key"
)

// Client talks to the MeetingBaaS REST API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a MeetingBaaS API client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// JoinMeeting creates a bot in the given meeting and returns the
// MeetingBaaS bot ID.
func (c *Client) JoinMeeting(ctx context.Context, req JoinRequest) (string, error) {
	if req.MeetingURL == "" {
		return "", fmt.Errorf("meeting URL is required")
	}
	req.StreamingAudioFrequency = streamingAudioFrequency

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal join request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+botsEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create join request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(apiKeyHeader, c.apiKey)

	log.Debug().
		Str("meeting_url", req.MeetingURL).
		Str("bot_name", req.BotName).
		Msg("Creating MeetingBaaS bot")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call MeetingBaaS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("MeetingBaaS API error: status %d, body: %s", resp.StatusCode, string(raw))
	}

	var join JoinResponse
	if err := json.NewDecoder(resp.Body).Decode(&join); err != nil {
		return "", fmt.Errorf("failed to decode join response: %w", err)
	}
	if join.BotID == "" {
		return "", fmt.Errorf("MeetingBaaS returned no bot ID")
	}

	log.Info().Str("bot_id", join.BotID).Msg("Created MeetingBaaS bot")
	return join.BotID, nil
}

// Leave removes a bot from its meeting.
func (c *Client) Leave(ctx context.Context, botID string) error {
	if botID == "" {
		return fmt.Errorf("bot ID is required")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s%s/%s", c.baseURL, botsEndpoint, botID), nil)
	if err != nil {
		return fmt.Errorf("failed to create leave request: %w", err)
	}
	httpReq.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call MeetingBaaS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("MeetingBaaS API error: status %d, body: %s", resp.StatusCode, string(raw))
	}

	log.Info().Str("bot_id", botID).Msg("Removed MeetingBaaS bot")
	return nil
}
