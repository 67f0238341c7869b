package speech

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

type MockPollyClient struct {
	mock.Mock
}

func (m *MockPollyClient) DescribeVoices(ctx context.Context, params *polly.DescribeVoicesInput, optFns ...func(*polly.Options)) (*polly.DescribeVoicesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*polly.DescribeVoicesOutput), args.Error(1)
}

func (m *MockPollyClient) SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*polly.SynthesizeSpeechOutput), args.Error(1)
}

func TestPollyProvider_ListVoices(t *testing.T) {
	t.Run("maps voices", func(t *testing.T) {
		client := &MockPollyClient{}
		client.On("DescribeVoices", mock.Anything, mock.Anything).Return(&polly.DescribeVoicesOutput{
			Voices: []types.Voice{
				{
					Id:               types.VoiceIdBrian,
					Name:             aws.String("Brian"),
					LanguageCode:     types.LanguageCodeEnGb,
					Gender:           types.GenderMale,
					SupportedEngines: []types.Engine{types.EngineNeural, types.EngineStandard},
				},
			},
		}, nil)

		provider := NewPollyProviderWithClient(client, "eu-west-2")
		voices, err := provider.ListVoices(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []Voice{{
			ID:          "Brian",
			Name:        "Brian",
			Language:    "en-GB",
			Gender:      "male",
			Description: "Male voice, neural, standard engine supported",
		}}, voices)
		client.AssertExpectations(t)
	})

	t.Run("wraps API error", func(t *testing.T) {
		client := &MockPollyClient{}
		client.On("DescribeVoices", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

		_, err := NewPollyProviderWithClient(client, "").ListVoices(context.Background())
		assert.ErrorContains(t, err, "failed to list Polly voices: access denied")
	})
}

func TestPollyProvider_Synthesize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		options  SynthesizeOptions
		validate func(*testing.T, *polly.SynthesizeSpeechInput)
	}{
		{
			name: "defaults",
			text: "We suffer more in imagination.",
			validate: func(t *testing.T, input *polly.SynthesizeSpeechInput) {
				assert.Equal(t, types.VoiceId(pollyDefaultVoice), input.VoiceId)
				assert.Equal(t, types.OutputFormatMp3, input.OutputFormat)
				assert.Equal(t, types.EngineNeural, input.Engine)
				assert.Equal(t, types.TextTypeText, input.TextType)
				assert.Nil(t, input.SampleRate)
			},
		},
		{
			name:    "custom options",
			text:    "Begin at once to live.",
			options: SynthesizeOptions{Voice: "Brian", Format: "ogg", Engine: "standard", SampleRate: "16000"},
			validate: func(t *testing.T, input *polly.SynthesizeSpeechInput) {
				assert.Equal(t, types.VoiceId("Brian"), input.VoiceId)
				assert.Equal(t, types.OutputFormatOggVorbis, input.OutputFormat)
				assert.Equal(t, types.EngineStandard, input.Engine)
				assert.Equal(t, "16000", aws.ToString(input.SampleRate))
			},
		},
		{
			name:    "ssml and bad sample rate",
			text:    "<speak>Luck is preparation.</speak>",
			options: SynthesizeOptions{SampleRate: "12345"},
			validate: func(t *testing.T, input *polly.SynthesizeSpeechInput) {
				assert.Equal(t, types.TextTypeSsml, input.TextType)
				assert.Nil(t, input.SampleRate)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockPollyClient{}
			client.On("SynthesizeSpeech", mock.Anything, mock.MatchedBy(func(input *polly.SynthesizeSpeechInput) bool {
				tt.validate(t, input)
				return true
			})).Return(&polly.SynthesizeSpeechOutput{
				AudioStream: io.NopCloser(strings.NewReader("audio")),
			}, nil)

			reader, err := NewPollyProviderWithClient(client, "").Synthesize(context.Background(), tt.text, tt.options)
			require.NoError(t, err)
			data, _ := io.ReadAll(reader)
			assert.Equal(t, "audio", string(data))
			client.AssertExpectations(t)
		})
	}

	t.Run("rejects unknown format", func(t *testing.T) {
		client := &MockPollyClient{}
		_, err := NewPollyProviderWithClient(client, "").Synthesize(context.Background(), "x", SynthesizeOptions{Format: "flac"})
		assert.ErrorContains(t, err, "unsupported audio format")
		client.AssertNotCalled(t, "SynthesizeSpeech", mock.Anything, mock.Anything)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := NewPollyProviderWithClient(&MockPollyClient{}, "").Synthesize(context.Background(), "", SynthesizeOptions{})
		assert.ErrorContains(t, err, "text cannot be empty")
	})
}

func TestPollyProvider_IsAvailable(t *testing.T) {
	ok := &MockPollyClient{}
	ok.On("DescribeVoices", mock.Anything, mock.Anything).Return(&polly.DescribeVoicesOutput{}, nil)
	assert.True(t, NewPollyProviderWithClient(ok, "").IsAvailable(context.Background()))

	failing := &MockPollyClient{}
	failing.On("DescribeVoices", mock.Anything, mock.Anything).Return(nil, errors.New("no credentials"))
	assert.False(t, NewPollyProviderWithClient(failing, "").IsAvailable(context.Background()))
}
