package speech

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Provider names
const (
	ProviderOpenAI     = "openai"
	ProviderElevenLabs = "elevenlabs"
	ProviderPolly      = "polly"
	ProviderGCP        = "gcp"
)

// Settings selects and configures a provider
type Settings struct {
	Provider  string
	APIKey    string
	BaseURL   string
	Voice     string
	Model     string
	Format    string
	Region    string
	ProjectID string
	Endpoint  string
}

// Names lists the supported providers
func Names() []string {
	return []string{ProviderOpenAI, ProviderElevenLabs, ProviderPolly, ProviderGCP}
}

// apiKeyEnv names the environment variable consulted when no key is configured
var apiKeyEnv = map[string]string{
	ProviderOpenAI:     "OPENAI_API_KEY",
	ProviderElevenLabs: "ELEVENLABS_API_KEY",
}

// NewProvider creates the provider named in s
func NewProvider(ctx context.Context, s Settings) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(s.Provider))

	switch name {
	case ProviderOpenAI, ProviderElevenLabs:
		apiKey := s.APIKey
		if apiKey == "" {
			apiKey = os.Getenv(apiKeyEnv[name])
		}
		if apiKey == "" {
			return nil, fmt.Errorf("%s API key not found in config or %s environment variable", name, apiKeyEnv[name])
		}
		if name == ProviderOpenAI {
			p := NewOpenAIProvider(apiKey)
			if s.BaseURL != "" {
				p.baseURL = strings.TrimSuffix(s.BaseURL, "/")
			}
			return p, nil
		}
		p := NewElevenLabsProvider(apiKey)
		if s.BaseURL != "" {
			p.baseURL = strings.TrimSuffix(s.BaseURL, "/")
		}
		return p, nil

	case ProviderPolly:
		return NewPollyProvider(ctx, s.Region)

	case ProviderGCP:
		var opts []GCPOption
		if s.ProjectID != "" {
			opts = append(opts, WithGCPProjectID(s.ProjectID))
		}
		if s.Region != "" {
			opts = append(opts, WithGCPRegion(s.Region))
		}
		if s.Endpoint != "" {
			opts = append(opts, WithGCPEndpoint(s.Endpoint))
		}
		if s.Voice != "" {
			opts = append(opts, WithGCPVoice(s.Voice))
		}
		return NewGCPProvider(ctx, opts...)

	case "":
		return nil, fmt.Errorf("no speech provider configured")
	default:
		return nil, fmt.Errorf("unknown speech provider: %s", s.Provider)
	}
}
