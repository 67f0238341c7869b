package session

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveTranscript(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []TranscriptEntry{
		{Speaker: "user", Role: RoleUser, Text: "Is the unexamined life worth living?", At: at},
		{Speaker: "socrates", Role: RoleAssistant, Text: "It is not.", At: at.Add(time.Second)},
	}
	path := filepath.Join(t.TempDir(), "logs", "debate.jsonl")

	require.NoError(t, SaveTranscript(path, entries))

	file, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = file.Close()
	})

	got, err := ReadTranscript(file)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "socrates", got[1].Speaker)
	assert.True(t, at.Equal(got[0].At))
}

func TestReadTranscript(t *testing.T) {
	t.Run("skips blank lines", func(t *testing.T) {
		input := "\n{\"speaker\":\"kant\",\"role\":\"assistant\",\"text\":\"Sapere aude\"}\n\n"
		got, err := ReadTranscript(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Sapere aude", got[0].Text)
	})

	t.Run("reports malformed line", func(t *testing.T) {
		input := "{\"speaker\":\"kant\"}\n{not json}\n"
		_, err := ReadTranscript(strings.NewReader(input))
		assert.ErrorContains(t, err, "line 2")
	})

	t.Run("long lines", func(t *testing.T) {
		var buf bytes.Buffer
		long := strings.Repeat("A", 200000)
		require.NoError(t, WriteTranscript(&buf, []TranscriptEntry{{Speaker: "hegel", Text: long}}))

		got, err := ReadTranscript(&buf)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Len(t, got[0].Text, 200000)
	})
}
