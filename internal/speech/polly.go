package speech

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	pollyDefaultRegion = "us-east-1"
	pollyDefaultVoice  = "Matthew"
)

// PollyClient is the subset of the Polly API the provider uses
type PollyClient interface {
	DescribeVoices(ctx context.Context, params *polly.DescribeVoicesInput, optFns ...func(*polly.Options)) (*polly.DescribeVoicesOutput, error)
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// PollyProvider synthesizes speech with Amazon Polly
type PollyProvider struct {
	client PollyClient
	region string
}

// NewPollyProvider loads the default AWS credential chain for region
func NewPollyProvider(ctx context.Context, region string) (*PollyProvider, error) {
	if region == "" {
		region = pollyDefaultRegion
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewPollyProviderWithClient(polly.NewFromConfig(cfg), region), nil
}

// NewPollyProviderWithClient wraps an existing client
func NewPollyProviderWithClient(client PollyClient, region string) *PollyProvider {
	return &PollyProvider{client: client, region: region}
}

func (p *PollyProvider) Name() string {
	return ProviderPolly
}

// ListVoices describes every Polly voice
func (p *PollyProvider) ListVoices(ctx context.Context) ([]Voice, error) {
	result, err := p.client.DescribeVoices(ctx, &polly.DescribeVoicesInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list Polly voices: %w", err)
	}

	title := cases.Title(language.English)
	voices := make([]Voice, 0, len(result.Voices))
	for _, v := range result.Voices {
		voice := Voice{
			ID:       string(v.Id),
			Name:     aws.ToString(v.Name),
			Language: string(v.LanguageCode),
			Description: fmt.Sprintf("%s voice, %s engine supported",
				title.String(string(v.Gender)), joinEngines(v.SupportedEngines)),
		}
		switch v.Gender {
		case types.GenderFemale:
			voice.Gender = "female"
		case types.GenderMale:
			voice.Gender = "male"
		}
		voices = append(voices, voice)
	}
	return voices, nil
}

// Synthesize requests speech for text. SSML input is detected.
func (p *PollyProvider) Synthesize(ctx context.Context, text string, options SynthesizeOptions) (io.ReadCloser, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	voiceID := options.Voice
	if voiceID == "" {
		voiceID = pollyDefaultVoice
	}

	format, err := pollyFormat(options.Format)
	if err != nil {
		return nil, err
	}

	input := &polly.SynthesizeSpeechInput{
		Text:         aws.String(text),
		VoiceId:      types.VoiceId(voiceID),
		OutputFormat: format,
		Engine:       pollyEngine(options.Engine),
		TextType:     types.TextTypeText,
	}
	if isSSML(text) {
		input.TextType = types.TextTypeSsml
	}
	switch options.SampleRate {
	case "":
	case "8000", "16000", "22050", "24000":
		input.SampleRate = aws.String(options.SampleRate)
	default:
		log.Warn().Str("sample_rate", options.SampleRate).Msg("Invalid sample rate, using default")
	}

	log.Debug().
		Str("voice_id", voiceID).
		Str("engine", string(input.Engine)).
		Str("text_type", string(input.TextType)).
		Msg("Making Polly synthesis request")

	result, err := p.client.SynthesizeSpeech(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	return result.AudioStream, nil
}

// IsAvailable describes voices as a credential check
func (p *PollyProvider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := p.client.DescribeVoices(ctx, &polly.DescribeVoicesInput{})
	return err == nil
}

func pollyFormat(format string) (types.OutputFormat, error) {
	switch strings.ToLower(format) {
	case "", "mp3":
		return types.OutputFormatMp3, nil
	case "ogg":
		return types.OutputFormatOggVorbis, nil
	case "pcm":
		return types.OutputFormatPcm, nil
	default:
		return "", fmt.Errorf("unsupported audio format: %s", format)
	}
}

func pollyEngine(engine string) types.Engine {
	switch strings.ToLower(engine) {
	case "", "neural":
		return types.EngineNeural
	case "standard":
		return types.EngineStandard
	case "long-form":
		return types.EngineLongForm
	case "generative":
		return types.EngineGenerative
	default:
		log.Warn().Str("engine", engine).Msg("Unknown engine, using neural")
		return types.EngineNeural
	}
}

func joinEngines(engines []types.Engine) string {
	if len(engines) == 0 {
		return "unknown"
	}
	names := make([]string, len(engines))
	for i, e := range engines {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}

// isSSML reports whether text carries SSML markup
func isSSML(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasPrefix(trimmed, "<speak") ||
		strings.Contains(trimmed, "<prosody") ||
		strings.Contains(trimmed, "<break") ||
		strings.Contains(trimmed, "<emphasis")
}
