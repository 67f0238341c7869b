package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	ElevenLabsBaseURL        = "https://api.elevenlabs.io/v1"
	elevenLabsTTSPath        = "/text-to-speech"
	elevenLabsVoicesPath     = "/voices"
	elevenLabsDefaultVoiceID = "21m00Tcm4TlvDq8ikWAM" // Rachel
	elevenLabsDefaultModel   = "eleven_multilingual_v2"
)

// ElevenLabsProvider talks to the ElevenLabs v1 API
type ElevenLabsProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewElevenLabsProvider creates an ElevenLabs provider
func NewElevenLabsProvider(apiKey string) *ElevenLabsProvider {
	return &ElevenLabsProvider{
		apiKey:     apiKey,
		baseURL:    ElevenLabsBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *ElevenLabsProvider) Name() string {
	return ProviderElevenLabs
}

type elevenLabsVoice struct {
	VoiceID         string            `json:"voice_id"`
	Name            string            `json:"name"`
	Category        string            `json:"category"`
	Labels          map[string]string `json:"labels"`
	Description     string            `json:"description"`
	AvailableForTTS *bool             `json:"available_for_tts,omitempty"`
	FineTuning      struct {
		Language string `json:"language"`
	} `json:"fine_tuning"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style,omitempty"`
	UseSpeakerBoost bool    `json:"use_speaker_boost,omitempty"`
}

type elevenLabsRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id,omitempty"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

// ListVoices fetches the account's voices
func (p *ElevenLabsProvider) ListVoices(ctx context.Context) ([]Voice, error) {
	resp, err := p.get(ctx, elevenLabsVoicesPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ElevenLabs voices API error: %s", readElevenLabsError(resp))
	}

	var payload struct {
		Voices []elevenLabsVoice `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode voices response: %w", err)
	}

	voices := make([]Voice, 0, len(payload.Voices))
	for _, v := range payload.Voices {
		if v.AvailableForTTS != nil && !*v.AvailableForTTS {
			continue
		}
		lang := v.FineTuning.Language
		if lang == "" {
			lang = "multilingual"
		}
		voices = append(voices, Voice{
			ID:          v.VoiceID,
			Name:        v.Name,
			Language:    lang,
			Gender:      v.Labels["gender"],
			Description: v.Description,
		})
	}

	log.Debug().Int("voice_count", len(voices)).Msg("ElevenLabs voices retrieved")
	return voices, nil
}

// Synthesize requests speech for text. options.Voice is a voice id.
func (p *ElevenLabsProvider) Synthesize(ctx context.Context, text string, options SynthesizeOptions) (io.ReadCloser, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	voiceID := options.Voice
	if voiceID == "" {
		voiceID = elevenLabsDefaultVoiceID
	}
	model := options.Model
	if model == "" {
		model = elevenLabsDefaultModel
	}

	body := elevenLabsRequest{
		Text:    text,
		ModelID: model,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			Style:           options.Style,
			UseSpeakerBoost: options.UseSpeakerBoost,
		},
	}
	if options.Stability > 0 {
		body.VoiceSettings.Stability = options.Stability
	}
	if options.SimilarityBoost > 0 {
		body.VoiceSettings.SimilarityBoost = options.SimilarityBoost
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s%s/%s?output_format=%s",
		p.baseURL, elevenLabsTTSPath, url.PathEscape(voiceID), elevenLabsFormat(options.Format))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", p.apiKey)

	log.Debug().Str("voice", voiceID).Str("model", model).Msg("Making ElevenLabs TTS request")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer func() {
			_ = resp.Body.Close()
		}()
		return nil, fmt.Errorf("ElevenLabs API error: %s", readElevenLabsError(resp))
	}
	return resp.Body, nil
}

// IsAvailable lists voices as a credential check
func (p *ElevenLabsProvider) IsAvailable(ctx context.Context) bool {
	if p.apiKey == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := p.get(ctx, elevenLabsVoicesPath)
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return resp.StatusCode == http.StatusOK
}

func (p *ElevenLabsProvider) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	return resp, nil
}

// elevenLabsFormat maps common format names onto ElevenLabs output formats
func elevenLabsFormat(format string) string {
	switch strings.ToLower(format) {
	case "wav", "wave", "pcm", "flac":
		return "pcm_44100"
	case "ulaw":
		return "ulaw_8000"
	default:
		return "mp3_44100_128"
	}
}

// readElevenLabsError decodes the detail field, which is a string, an
// object with a message or a validation list depending on the endpoint.
func readElevenLabsError(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil && len(payload.Detail) > 0 {
		var text string
		if json.Unmarshal(payload.Detail, &text) == nil {
			return fmt.Sprintf("status %d: %s", resp.StatusCode, text)
		}
		var obj struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(payload.Detail, &obj) == nil && obj.Message != "" {
			return fmt.Sprintf("status %d: %s", resp.StatusCode, obj.Message)
		}
		var list []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(payload.Detail, &list) == nil && len(list) > 0 && list[0].Msg != "" {
			return fmt.Sprintf("status %d: %s", resp.StatusCode, list[0].Msg)
		}
	}
	return fmt.Sprintf("status %d, body: %s", resp.StatusCode, string(body))
}
