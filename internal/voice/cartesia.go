package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cartesiaBaseURL = "https://api.cartesia.ai"
	cartesiaVersion = "2024-06-10"
	cartesiaModel   = "sonic-english"
)

// CartesiaProvider implements Provider using the Cartesia API. This is the
// provider meeting bots speak with, so previews here match what a persona
// sounds like in a call.
type CartesiaProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewCartesiaProvider creates a new Cartesia TTS provider.
func NewCartesiaProvider(apiKey string) *CartesiaProvider {
	return &CartesiaProvider{
		apiKey:  apiKey,
		baseURL: cartesiaBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name returns the provider name.
func (p *CartesiaProvider) Name() string {
	return "cartesia"
}

type cartesiaVoice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Gender      string `json:"gender"`
}

// ListVoices returns available Cartesia voices.
func (p *CartesiaProvider) ListVoices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	p.setHeaders(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cartesia API error (status %d): %s", resp.StatusCode, string(body))
	}

	var raw []cartesiaVoice
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode voices: %w", err)
	}

	voices := make([]Voice, 0, len(raw))
	for _, v := range raw {
		voices = append(voices, Voice{
			ID:          v.ID,
			Name:        v.Name,
			Language:    v.Language,
			Gender:      v.Gender,
			Description: v.Description,
		})
	}
	return voices, nil
}

type cartesiaVoiceRef struct {
	Mode string `json:"mode"`
	ID   string `json:"id"`
}

type cartesiaOutputFormat struct {
	Container  string `json:"container"`
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sample_rate"`
}

type cartesiaControls struct {
	Speed   any `json:"speed,omitempty"`
	Emotion any `json:"emotion,omitempty"`
}

type cartesiaTTSRequest struct {
	ModelID      string               `json:"model_id"`
	Transcript   string               `json:"transcript"`
	Voice        cartesiaVoiceRef     `json:"voice"`
	OutputFormat cartesiaOutputFormat `json:"output_format"`
	Language     string               `json:"language,omitempty"`
	Controls     *cartesiaControls    `json:"__experimental_controls,omitempty"`
}

// Synthesize generates audio from text using the Cartesia API.
func (p *CartesiaProvider) Synthesize(ctx context.Context, text string, options SynthesizeOptions) (io.ReadCloser, error) {
	if options.Voice == "" {
		return nil, fmt.Errorf("voice ID is required for cartesia synthesis")
	}

	ttsReq := cartesiaTTSRequest{
		ModelID:    cartesiaModel,
		Transcript: text,
		Voice:      cartesiaVoiceRef{Mode: "id", ID: options.Voice},
		OutputFormat: cartesiaOutputFormat{
			Container:  "mp3",
			Encoding:   "mp3",
			SampleRate: 44100,
		},
		Language: options.Language,
	}
	if options.Format == "wav" {
		ttsReq.OutputFormat = cartesiaOutputFormat{
			Container:  "wav",
			Encoding:   "pcm_s16le",
			SampleRate: 44100,
		}
	}

	controls := &cartesiaControls{}
	if options.Speed != 0 {
		controls.Speed = options.Speed
	}
	// Persona tts_params flow through as controls when recognized.
	if v, ok := options.Params["speed"]; ok {
		controls.Speed = v
	}
	if v, ok := options.Params["emotion"]; ok {
		controls.Emotion = v
	}
	if controls.Speed != nil || controls.Emotion != nil {
		ttsReq.Controls = controls
	}

	body, err := json.Marshal(ttsReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/tts/bytes", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	p.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	log.Debug().
		Str("voice", options.Voice).
		Int("text_length", len(text)).
		Msg("Synthesizing with Cartesia")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("cartesia API error (status %d): %s", resp.StatusCode, string(body))
	}

	return resp.Body, nil
}

// IsAvailable checks if the Cartesia API is reachable with the configured key.
func (p *CartesiaProvider) IsAvailable(ctx context.Context) bool {
	if p.apiKey == "" {
		return false
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, p.baseURL+"/voices", nil)
	if err != nil {
		return false
	}
	p.setHeaders(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (p *CartesiaProvider) setHeaders(req *http.Request) {
	req.Header.Set("X-API-Key", p.apiKey)
	req.Header.Set("Cartesia-Version", cartesiaVersion)
}
