package voice

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPollyClient is a mock implementation of the Polly API client
type MockPollyClient struct {
	mock.Mock
}

func (m *MockPollyClient) DescribeVoices(ctx context.Context, params *polly.DescribeVoicesInput, optFns ...func(*polly.Options)) (*polly.DescribeVoicesOutput, error) {
	args := m.Called(ctx, params)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.(*polly.DescribeVoicesOutput), args.Error(1)
}

func (m *MockPollyClient) SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error) {
	args := m.Called(ctx, params)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.(*polly.SynthesizeSpeechOutput), args.Error(1)
}

func TestPollyProvider_Name(t *testing.T) {
	provider := &PollyProvider{}
	assert.Equal(t, "polly", provider.Name())
}

func TestPollyProvider_ListVoices(t *testing.T) {
	tests := []struct {
		name           string
		mockResponse   *polly.DescribeVoicesOutput
		mockError      error
		expectedVoices []Voice
		expectedError  string
	}{
		{
			name: "successful voice listing",
			mockResponse: &polly.DescribeVoicesOutput{
				Voices: []types.Voice{
					{
						Id:               types.VoiceId("Joanna"),
						Name:             aws.String("Joanna"),
						LanguageCode:     types.LanguageCode("en-US"),
						Gender:           types.GenderFemale,
						SupportedEngines: []types.Engine{types.EngineNeural, types.EngineStandard},
					},
					{
						Id:               types.VoiceId("Matthew"),
						Name:             aws.String("Matthew"),
						LanguageCode:     types.LanguageCode("en-US"),
						Gender:           types.GenderMale,
						SupportedEngines: []types.Engine{types.EngineNeural},
					},
				},
			},
			expectedVoices: []Voice{
				{
					ID:          "Joanna",
					Name:        "Joanna",
					Language:    "en-US",
					Gender:      "female",
					Description: "Female voice, neural, standard engine supported",
				},
				{
					ID:          "Matthew",
					Name:        "Matthew",
					Language:    "en-US",
					Gender:      "male",
					Description: "Male voice, neural engine supported",
				},
			},
		},
		{
			name:          "API error",
			mockError:     errors.New("API error"),
			expectedError: "failed to list Polly voices: API error",
		},
		{
			name: "empty voice list",
			mockResponse: &polly.DescribeVoicesOutput{
				Voices: []types.Voice{},
			},
			expectedVoices: []Voice{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &MockPollyClient{}
			provider := &PollyProvider{client: mockClient, region: "us-east-1"}

			mockClient.On("DescribeVoices", mock.Anything, mock.Anything).Return(tt.mockResponse, tt.mockError)

			voices, err := provider.ListVoices(context.Background())

			if tt.expectedError != "" {
				assert.EqualError(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedVoices, voices)
			mockClient.AssertExpectations(t)
		})
	}
}

func TestPollyProvider_Synthesize(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		provider := &PollyProvider{client: &MockPollyClient{}}
		_, err := provider.Synthesize(context.Background(), "", SynthesizeOptions{})
		assert.EqualError(t, err, "text cannot be empty")
	})

	t.Run("unsupported format", func(t *testing.T) {
		provider := &PollyProvider{client: &MockPollyClient{}}
		_, err := provider.Synthesize(context.Background(), "hello", SynthesizeOptions{Format: "flac"})
		assert.EqualError(t, err, "unsupported audio format: flac")
	})

	t.Run("defaults to Joanna and mp3", func(t *testing.T) {
		mockClient := &MockPollyClient{}
		provider := &PollyProvider{client: mockClient}

		mockClient.On("SynthesizeSpeech", mock.Anything, mock.MatchedBy(func(input *polly.SynthesizeSpeechInput) bool {
			return input.VoiceId == types.VoiceId("Joanna") &&
				input.OutputFormat == types.OutputFormatMp3 &&
				input.Engine == types.EngineNeural &&
				input.TextType == types.TextTypeText
		})).Return(&polly.SynthesizeSpeechOutput{
			AudioStream: io.NopCloser(strings.NewReader("audio")),
			ContentType: aws.String("audio/mpeg"),
		}, nil)

		stream, err := provider.Synthesize(context.Background(), "hello", SynthesizeOptions{})
		require.NoError(t, err)
		defer stream.Close()

		data, err := io.ReadAll(stream)
		require.NoError(t, err)
		assert.Equal(t, "audio", string(data))
		mockClient.AssertExpectations(t)
	})

	t.Run("engine and sample rate from persona params", func(t *testing.T) {
		mockClient := &MockPollyClient{}
		provider := &PollyProvider{client: mockClient}

		mockClient.On("SynthesizeSpeech", mock.Anything, mock.MatchedBy(func(input *polly.SynthesizeSpeechInput) bool {
			return input.Engine == types.EngineStandard &&
				aws.ToString(input.SampleRate) == "16000"
		})).Return(&polly.SynthesizeSpeechOutput{
			AudioStream: io.NopCloser(strings.NewReader("audio")),
		}, nil)

		_, err := provider.Synthesize(context.Background(), "hello", SynthesizeOptions{
			Voice:  "Matthew",
			Params: map[string]any{"engine": "standard", "sample_rate": 16000},
		})
		require.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("SSML detection", func(t *testing.T) {
		mockClient := &MockPollyClient{}
		provider := &PollyProvider{client: mockClient}

		mockClient.On("SynthesizeSpeech", mock.Anything, mock.MatchedBy(func(input *polly.SynthesizeSpeechInput) bool {
			return input.TextType == types.TextTypeSsml
		})).Return(&polly.SynthesizeSpeechOutput{
			AudioStream: io.NopCloser(strings.NewReader("audio")),
		}, nil)

		_, err := provider.Synthesize(context.Background(), "<speak>hello</speak>", SynthesizeOptions{})
		require.NoError(t, err)
		mockClient.AssertExpectations(t)
	})
}

func TestPollyProvider_IsAvailable(t *testing.T) {
	t.Run("available", func(t *testing.T) {
		mockClient := &MockPollyClient{}
		mockClient.On("DescribeVoices", mock.Anything, mock.Anything).Return(&polly.DescribeVoicesOutput{}, nil)

		provider := &PollyProvider{client: mockClient}
		assert.True(t, provider.IsAvailable(context.Background()))
	})

	t.Run("unavailable", func(t *testing.T) {
		mockClient := &MockPollyClient{}
		mockClient.On("DescribeVoices", mock.Anything, mock.Anything).Return(nil, errors.New("credentials error"))

		provider := &PollyProvider{client: mockClient}
		assert.False(t, provider.IsAvailable(context.Background()))
	})
}

func TestFormatSupportedEngines(t *testing.T) {
	assert.Equal(t, "unknown", formatSupportedEngines(nil))
	assert.Equal(t, "neural", formatSupportedEngines([]types.Engine{types.EngineNeural}))
	assert.Equal(t, "neural, standard", formatSupportedEngines([]types.Engine{types.EngineNeural, types.EngineStandard}))
}
