// Package speech voices philosopher lines through hosted text-to-speech
// services and plays the result on the local machine.
package speech

import (
	"context"
	"io"
)

// Provider synthesizes speech with a hosted TTS service
type Provider interface {
	Name() string

	ListVoices(ctx context.Context) ([]Voice, error)

	// Synthesize returns an encoded audio stream the caller must close
	Synthesize(ctx context.Context, text string, options SynthesizeOptions) (io.ReadCloser, error)

	// IsAvailable performs a cheap credential check against the service
	IsAvailable(ctx context.Context) bool
}

// Voice is one selectable voice of a provider
type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Language    string `json:"language"`
	Gender      string `json:"gender,omitempty"`
	Description string `json:"description,omitempty"`
}

// SynthesizeOptions tune a single synthesis request. Providers ignore the
// fields they do not understand.
type SynthesizeOptions struct {
	Voice      string  `json:"voice"`
	Speed      float64 `json:"speed,omitempty"` // 0.25-4.0
	Format     string  `json:"format,omitempty"`
	Language   string  `json:"language,omitempty"`
	Model      string  `json:"model,omitempty"`
	Engine     string  `json:"engine,omitempty"`     // polly: standard, neural, long-form, generative
	SampleRate string  `json:"sampleRate,omitempty"` // polly, gcp

	// ElevenLabs voice settings
	Stability       float64 `json:"stability,omitempty"`
	SimilarityBoost float64 `json:"similarityBoost,omitempty"`
	Style           float64 `json:"style,omitempty"`
	UseSpeakerBoost bool    `json:"useSpeakerBoost,omitempty"`
}

func clampSpeed(speed float64) float64 {
	switch {
	case speed <= 0:
		return 1.0
	case speed < 0.25:
		return 0.25
	case speed > 4.0:
		return 4.0
	}
	return speed
}
