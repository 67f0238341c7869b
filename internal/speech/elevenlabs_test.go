package speech

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElevenLabsProvider_ListVoices(t *testing.T) {
	t.Run("skips voices unavailable for TTS", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/voices", r.URL.Path)
			assert.Equal(t, "test-api-key", r.Header.Get("xi-api-key"))
			_, _ = w.Write([]byte(`{"voices": [
				{"voice_id": "v1", "name": "Daniel", "labels": {"gender": "male"}, "fine_tuning": {"language": "en"}},
				{"voice_id": "v2", "name": "Hidden", "available_for_tts": false}
			]}`))
		}))
		defer server.Close()

		provider := NewElevenLabsProvider("test-api-key")
		provider.baseURL = server.URL

		voices, err := provider.ListVoices(context.Background())
		require.NoError(t, err)
		require.Len(t, voices, 1)
		assert.Equal(t, Voice{ID: "v1", Name: "Daniel", Language: "en", Gender: "male"}, voices[0])
	})

	t.Run("decodes detail errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": {"status": "invalid_api_key", "message": "Invalid API key"}}`))
		}))
		defer server.Close()

		provider := NewElevenLabsProvider("test-api-key")
		provider.baseURL = server.URL

		_, err := provider.ListVoices(context.Background())
		assert.ErrorContains(t, err, "status 401: Invalid API key")
	})
}

func TestElevenLabsProvider_Synthesize(t *testing.T) {
	t.Run("returns error for empty text", func(t *testing.T) {
		_, err := NewElevenLabsProvider("k").Synthesize(context.Background(), "", SynthesizeOptions{})
		assert.ErrorContains(t, err, "text cannot be empty")
	})

	t.Run("posts to the voice endpoint", func(t *testing.T) {
		var got elevenLabsRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/text-to-speech/Adam", r.URL.Path)
			assert.Equal(t, "pcm_44100", r.URL.Query().Get("output_format"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte("mock audio data"))
		}))
		defer server.Close()

		provider := NewElevenLabsProvider("test-api-key")
		provider.baseURL = server.URL

		reader, err := provider.Synthesize(context.Background(), "Become who you are.", SynthesizeOptions{
			Voice:     "Adam",
			Format:    "wav",
			Stability: 0.3,
		})
		require.NoError(t, err)
		data, _ := io.ReadAll(reader)
		_ = reader.Close()

		assert.Equal(t, "mock audio data", string(data))
		assert.Equal(t, "Become who you are.", got.Text)
		assert.Equal(t, elevenLabsDefaultModel, got.ModelID)
		assert.Equal(t, 0.3, got.VoiceSettings.Stability)
		assert.Equal(t, 0.75, got.VoiceSettings.SimilarityBoost)
	})

	t.Run("validation error list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"detail": [{"msg": "text too long"}]}`))
		}))
		defer server.Close()

		provider := NewElevenLabsProvider("test-api-key")
		provider.baseURL = server.URL

		_, err := provider.Synthesize(context.Background(), "x", SynthesizeOptions{})
		assert.ErrorContains(t, err, "text too long")
	})
}

func TestElevenLabsFormat(t *testing.T) {
	assert.Equal(t, "mp3_44100_128", elevenLabsFormat(""))
	assert.Equal(t, "mp3_44100_128", elevenLabsFormat("MP3"))
	assert.Equal(t, "pcm_44100", elevenLabsFormat("flac"))
	assert.Equal(t, "ulaw_8000", elevenLabsFormat("ulaw"))
}
