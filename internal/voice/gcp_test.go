package voice

import (
	"context"
	"errors"
	"io"
	"testing"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/googleapis/gax-go/v2"
)

// MockGCPClient is a mock for the GCP TTS client
type MockGCPClient struct {
	mock.Mock
}

func (m *MockGCPClient) ListVoices(ctx context.Context, req *texttospeechpb.ListVoicesRequest, opts ...gax.CallOption) (*texttospeechpb.ListVoicesResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*texttospeechpb.ListVoicesResponse), args.Error(1)
}

func (m *MockGCPClient) SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*texttospeechpb.SynthesizeSpeechResponse), args.Error(1)
}

func (m *MockGCPClient) Close() error {
	return nil
}

func TestGCPProvider_Name(t *testing.T) {
	p := &GCPProvider{}
	assert.Equal(t, "gcp", p.Name())
}

func TestGCPProvider_detectEngineType(t *testing.T) {
	p := &GCPProvider{}

	tests := []struct {
		voiceName string
		expected  string
	}{
		{"en-US-Wavenet-A", "WaveNet"},
		{"en-US-Neural2-F", "Neural2"},
		{"en-US-Studio-O", "Studio"},
		{"en-US-Standard-A", "Standard"},
		{"en-US-Polyglot-1", "Polyglot"},
		{"en-US-News-K", "News"},
		{"en-US-Casual-K", "Casual"},
		{"unknown-voice", "Standard"},
	}

	for _, tt := range tests {
		t.Run(tt.voiceName, func(t *testing.T) {
			result := p.detectEngineType(tt.voiceName)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGCPProvider_getAudioEncoding(t *testing.T) {
	p := &GCPProvider{}

	tests := []struct {
		format   string
		expected texttospeechpb.AudioEncoding
	}{
		{"mp3", texttospeechpb.AudioEncoding_MP3},
		{"MP3", texttospeechpb.AudioEncoding_MP3},
		{"wav", texttospeechpb.AudioEncoding_LINEAR16},
		{"linear16", texttospeechpb.AudioEncoding_LINEAR16},
		{"ogg", texttospeechpb.AudioEncoding_OGG_OPUS},
		{"ogg_opus", texttospeechpb.AudioEncoding_OGG_OPUS},
		{"mulaw", texttospeechpb.AudioEncoding_MULAW},
		{"alaw", texttospeechpb.AudioEncoding_ALAW},
		{"unknown", texttospeechpb.AudioEncoding_MP3},
		{"", texttospeechpb.AudioEncoding_MP3},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			result := p.getAudioEncoding(tt.format)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGCPProvider_getSpeakingRate(t *testing.T) {
	p := &GCPProvider{}

	tests := []struct {
		name     string
		speed    float64
		expected float64
	}{
		{"default", 0, 1.0},
		{"negative", -1.0, 1.0},
		{"normal", 1.0, 1.0},
		{"slow", 0.5, 0.5},
		{"fast", 2.0, 2.0},
		{"too_slow", 0.1, 0.25},
		{"too_fast", 5.0, 4.0},
		{"boundary_min", 0.25, 0.25},
		{"boundary_max", 4.0, 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := p.getSpeakingRate(tt.speed)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGCPProvider_getSampleRate(t *testing.T) {
	p := &GCPProvider{}

	assert.Equal(t, int32(0), p.getSampleRate(nil))
	assert.Equal(t, int32(16000), p.getSampleRate(map[string]any{"sample_rate": 16000}))
	assert.Equal(t, int32(44100), p.getSampleRate(map[string]any{"sample_rate": "44100"}))
	assert.Equal(t, int32(0), p.getSampleRate(map[string]any{"sample_rate": 12345}))
}

func TestGCPProvider_ListVoices(t *testing.T) {
	t.Run("successful listing", func(t *testing.T) {
		mockClient := &MockGCPClient{}
		p := &GCPProvider{client: mockClient}

		mockClient.On("ListVoices", mock.Anything, mock.Anything).Return(&texttospeechpb.ListVoicesResponse{
			Voices: []*texttospeechpb.Voice{
				{
					Name:          "en-US-Neural2-F",
					LanguageCodes: []string{"en-US"},
					SsmlGender:    texttospeechpb.SsmlVoiceGender_FEMALE,
				},
			},
		}, nil)

		voices, err := p.ListVoices(context.Background())
		require.NoError(t, err)
		require.Len(t, voices, 1)
		assert.Equal(t, "en-US-Neural2-F", voices[0].ID)
		assert.Equal(t, "female", voices[0].Gender)
		assert.Equal(t, "Neural2 voice (en-US)", voices[0].Description)
	})

	t.Run("API error", func(t *testing.T) {
		mockClient := &MockGCPClient{}
		p := &GCPProvider{client: mockClient}

		mockClient.On("ListVoices", mock.Anything, mock.Anything).Return(nil, errors.New("permission denied"))

		_, err := p.ListVoices(context.Background())
		assert.EqualError(t, err, "failed to list GCP voices: permission denied")
	})
}

func TestGCPProvider_Synthesize(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		p := &GCPProvider{client: &MockGCPClient{}}
		_, err := p.Synthesize(context.Background(), "", SynthesizeOptions{})
		assert.EqualError(t, err, "text cannot be empty")
	})

	t.Run("text input with language from voice name", func(t *testing.T) {
		mockClient := &MockGCPClient{}
		p := &GCPProvider{client: mockClient, voice: "en-US-Neural2-F", language: "en-US"}

		mockClient.On("SynthesizeSpeech", mock.Anything, mock.MatchedBy(func(req *texttospeechpb.SynthesizeSpeechRequest) bool {
			return req.Voice.Name == "ja-JP-Neural2-B" &&
				req.Voice.LanguageCode == "ja-JP" &&
				req.Input.GetText() == "hello"
		})).Return(&texttospeechpb.SynthesizeSpeechResponse{
			AudioContent: []byte("audio"),
		}, nil)

		stream, err := p.Synthesize(context.Background(), "hello", SynthesizeOptions{Voice: "ja-JP-Neural2-B"})
		require.NoError(t, err)
		defer stream.Close()

		data, err := io.ReadAll(stream)
		require.NoError(t, err)
		assert.Equal(t, "audio", string(data))
		mockClient.AssertExpectations(t)
	})

	t.Run("SSML input", func(t *testing.T) {
		mockClient := &MockGCPClient{}
		p := &GCPProvider{client: mockClient, voice: "en-US-Neural2-F", language: "en-US"}

		mockClient.On("SynthesizeSpeech", mock.Anything, mock.MatchedBy(func(req *texttospeechpb.SynthesizeSpeechRequest) bool {
			return req.Input.GetSsml() == "<speak>hello</speak>"
		})).Return(&texttospeechpb.SynthesizeSpeechResponse{
			AudioContent: []byte("audio"),
		}, nil)

		_, err := p.Synthesize(context.Background(), "<speak>hello</speak>", SynthesizeOptions{})
		require.NoError(t, err)
		mockClient.AssertExpectations(t)
	})
}

func TestGCPProvider_IsAvailable(t *testing.T) {
	t.Run("available", func(t *testing.T) {
		mockClient := &MockGCPClient{}
		mockClient.On("ListVoices", mock.Anything, mock.Anything).Return(&texttospeechpb.ListVoicesResponse{}, nil)

		p := &GCPProvider{client: mockClient}
		assert.True(t, p.IsAvailable(context.Background()))
	})

	t.Run("unavailable", func(t *testing.T) {
		mockClient := &MockGCPClient{}
		mockClient.On("ListVoices", mock.Anything, mock.Anything).Return(nil, errors.New("unauthenticated"))

		p := &GCPProvider{client: mockClient}
		assert.False(t, p.IsAvailable(context.Background()))
	})
}
