package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"slices"

	"github.com/daikw/philofight/internal/session"
	"github.com/daikw/philofight/internal/speech"
)

// Validate returns every problem found; an empty list means usable
func (f *File) Validate() []string {
	var problems []string
	if f == nil {
		return problems
	}

	r := f.Resolve()
	switch r.Vendor {
	case VendorRealtime:
		if !session.IsConfiguredKey(r.PublicKey) {
			problems = append(problems, fmt.Sprintf("publicKey is not set (use ${%s} for env var)", EnvPublicKey))
		}
		if r.VendorURL == "" {
			problems = append(problems, fmt.Sprintf("vendorUrl is required for the realtime vendor (or set %s)", EnvVendorURL))
		}
	case VendorRehearsal:
	default:
		problems = append(problems, fmt.Sprintf("vendor '%s' is not one of %s, %s", r.Vendor, VendorRealtime, VendorRehearsal))
	}

	if r.VendorURL != "" {
		u, err := url.Parse(r.VendorURL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			problems = append(problems, fmt.Sprintf("vendorUrl '%s' must be a ws:// or wss:// url", r.VendorURL))
		}
	}
	if f.ConnectTimeoutSeconds < 0 {
		problems = append(problems, "connectTimeoutSeconds must not be negative")
	}
	if f.MaxAttempts < 0 {
		problems = append(problems, "maxAttempts must not be negative")
	}

	if s := f.Speech; s != nil {
		if !slices.Contains(speech.Names(), s.Provider) {
			problems = append(problems, fmt.Sprintf("speech: unknown provider '%s'", s.Provider))
		}
		if s.Speed != 0 && (s.Speed < 0.25 || s.Speed > 4.0) {
			problems = append(problems, "speech: speed must be between 0.25 and 4.0")
		}
	}

	return problems
}

// MaskSecrets returns a copy safe to print. Keys are reduced to their
// length.
func (f *File) MaskSecrets() *File {
	if f == nil {
		return nil
	}

	masked := *f
	if f.PublicKey != "" {
		masked.PublicKey = fmt.Sprintf("[set, %d chars]", len(f.PublicKey))
	}
	if f.Speech != nil {
		s := *f.Speech
		if s.APIKey != "" {
			s.APIKey = fmt.Sprintf("[set, %d chars]", len(s.APIKey))
		}
		masked.Speech = &s
	}
	return &masked
}

// GenerateExample returns a starter config file
func GenerateExample() string {
	example := File{
		PublicKey:             "${" + EnvPublicKey + "}",
		VendorURL:             "${" + EnvVendorURL + "}",
		Vendor:                VendorRealtime,
		ConnectTimeoutSeconds: int(session.DefaultConnectTimeout.Seconds()),
		MaxAttempts:           session.DefaultMaxAttempts,
		Speech: &SpeechConfig{
			Provider: speech.ProviderOpenAI,
			APIKey:   "${OPENAI_API_KEY}",
			Model:    "tts-1",
			Format:   "mp3",
			Speed:    1.0,
		},
	}

	data, _ := json.MarshalIndent(example, "", "  ")
	return string(data)
}
