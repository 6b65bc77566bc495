// Package voice auditions persona voices through TTS providers, so authors
// can hear a persona's configured voice before launching it into a meeting.
package voice

import (
	"context"
	"io"
)

// Provider is a TTS backend capable of previewing persona voices.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// ListVoices returns available voices for this provider.
	ListVoices(ctx context.Context) ([]Voice, error)

	// Synthesize generates audio from text and returns an audio stream.
	Synthesize(ctx context.Context, text string, options SynthesizeOptions) (io.ReadCloser, error)

	// IsAvailable checks if the provider can be used right now.
	IsAvailable(ctx context.Context) bool
}

// Voice represents a voice option.
type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Language    string `json:"language"`
	Gender      string `json:"gender,omitempty"`
	Description string `json:"description,omitempty"`
}

// SynthesizeOptions contains options for text synthesis. Params carries a
// persona's tts_params block through to the provider.
type SynthesizeOptions struct {
	Voice    string         `json:"voice"`
	Speed    float64        `json:"speed,omitempty"`
	Format   string         `json:"format,omitempty"`
	Language string         `json:"language,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
}
