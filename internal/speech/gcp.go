package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
)

const gcpUserAgent = "philofight"

// GCPClient is the subset of the Cloud Text-to-Speech client the provider uses
type GCPClient interface {
	ListVoices(ctx context.Context, req *texttospeechpb.ListVoicesRequest, opts ...gax.CallOption) (*texttospeechpb.ListVoicesResponse, error)
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	Close() error
}

// GCPProvider synthesizes speech with Google Cloud Text-to-Speech.
// Credentials come from Application Default Credentials.
type GCPProvider struct {
	client    GCPClient
	projectID string
	region    string
	endpoint  string
	voice     string
	language  string
}

// GCPOption configures a GCPProvider
type GCPOption func(*GCPProvider)

// WithGCPProjectID bills requests to projectID
func WithGCPProjectID(projectID string) GCPOption {
	return func(p *GCPProvider) { p.projectID = projectID }
}

// WithGCPRegion routes requests to a regional endpoint such as "eu"
func WithGCPRegion(region string) GCPOption {
	return func(p *GCPProvider) { p.region = region }
}

// WithGCPEndpoint overrides the API endpoint
func WithGCPEndpoint(endpoint string) GCPOption {
	return func(p *GCPProvider) { p.endpoint = endpoint }
}

// WithGCPVoice sets the default voice name
func WithGCPVoice(voice string) GCPOption {
	return func(p *GCPProvider) { p.voice = voice }
}

// WithGCPClient injects a client instead of dialing one
func WithGCPClient(client GCPClient) GCPOption {
	return func(p *GCPProvider) { p.client = client }
}

// NewGCPProvider creates a provider, dialing the service unless a client
// was injected
func NewGCPProvider(ctx context.Context, opts ...GCPOption) (*GCPProvider, error) {
	p := &GCPProvider{
		voice:    "en-US-Neural2-D",
		language: "en-US",
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.client == nil {
		client, err := texttospeech.NewClient(ctx, p.clientOptions()...)
		if err != nil {
			return nil, fmt.Errorf("failed to create GCP TTS client: %w", err)
		}
		p.client = client
	}
	return p, nil
}

func (p *GCPProvider) clientOptions() []option.ClientOption {
	opts := []option.ClientOption{
		option.WithGRPCDialOption(grpc.WithUserAgent(gcpUserAgent)),
	}
	switch {
	case p.endpoint != "":
		opts = append(opts, option.WithEndpoint(p.endpoint))
	case p.region != "":
		opts = append(opts, option.WithEndpoint(p.region+"-texttospeech.googleapis.com:443"))
	}
	if p.projectID != "" {
		opts = append(opts, option.WithQuotaProject(p.projectID))
	}
	return opts
}

func (p *GCPProvider) Name() string {
	return ProviderGCP
}

// ListVoices returns one entry per voice and language pair
func (p *GCPProvider) ListVoices(ctx context.Context) ([]Voice, error) {
	resp, err := p.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list GCP voices: %w", err)
	}

	var voices []Voice
	for _, v := range resp.Voices {
		gender := strings.ToLower(v.SsmlGender.String())
		if v.SsmlGender == texttospeechpb.SsmlVoiceGender_SSML_VOICE_GENDER_UNSPECIFIED {
			gender = "unknown"
		}
		for _, lang := range v.LanguageCodes {
			voices = append(voices, Voice{
				ID:          v.Name,
				Name:        v.Name,
				Language:    lang,
				Gender:      gender,
				Description: fmt.Sprintf("%s voice (%s)", gcpVoiceFamily(v.Name), strings.Join(v.LanguageCodes, ", ")),
			})
		}
	}

	log.Debug().Int("count", len(voices)).Msg("Listed GCP TTS voices")
	return voices, nil
}

// Synthesize requests speech for text. The language defaults to the prefix
// of the voice name (en-GB-Neural2-B -> en-GB).
func (p *GCPProvider) Synthesize(ctx context.Context, text string, options SynthesizeOptions) (io.ReadCloser, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	voice := options.Voice
	if voice == "" {
		voice = p.voice
	}
	lang := options.Language
	if lang == "" {
		lang = p.language
		if parts := strings.SplitN(voice, "-", 3); len(parts) == 3 {
			lang = parts[0] + "-" + parts[1]
		}
	}

	input := &texttospeechpb.SynthesisInput{
		InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
	}
	if isSSML(text) {
		input.InputSource = &texttospeechpb.SynthesisInput_Ssml{Ssml: text}
	}

	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: input,
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: lang,
			Name:         voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding:   gcpEncoding(options.Format),
			SpeakingRate:    clampSpeed(options.Speed),
			SampleRateHertz: gcpSampleRate(options.SampleRate),
		},
	}

	log.Debug().Str("voice", voice).Str("language", lang).Msg("Making GCP TTS synthesis request")

	resp, err := p.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	return io.NopCloser(bytes.NewReader(resp.AudioContent)), nil
}

// IsAvailable lists voices as a credential check
func (p *GCPProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{LanguageCode: p.language})
	return err == nil
}

// Close releases the underlying connection
func (p *GCPProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

func gcpVoiceFamily(name string) string {
	lower := strings.ToLower(name)
	for _, family := range []string{"Wavenet", "Neural2", "Studio", "Polyglot", "News", "Casual", "Chirp"} {
		if strings.Contains(lower, strings.ToLower(family)) {
			return family
		}
	}
	return "Standard"
}

func gcpEncoding(format string) texttospeechpb.AudioEncoding {
	switch strings.ToLower(format) {
	case "wav", "linear16":
		return texttospeechpb.AudioEncoding_LINEAR16
	case "ogg", "ogg_opus":
		return texttospeechpb.AudioEncoding_OGG_OPUS
	case "mulaw":
		return texttospeechpb.AudioEncoding_MULAW
	case "alaw":
		return texttospeechpb.AudioEncoding_ALAW
	default:
		return texttospeechpb.AudioEncoding_MP3
	}
}

func gcpSampleRate(rate string) int32 {
	switch rate {
	case "8000":
		return 8000
	case "16000":
		return 16000
	case "22050":
		return 22050
	case "24000":
		return 24000
	case "44100":
		return 44100
	case "48000":
		return 48000
	default:
		return 0
	}
}
