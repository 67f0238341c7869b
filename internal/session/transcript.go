package session

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// maxTranscriptLine bounds a single JSON line when reading transcripts back
const maxTranscriptLine = 10 * 1024 * 1024

// WriteTranscript writes entries as JSON Lines
func WriteTranscript(w io.Writer, entries []TranscriptEntry) error {
	encoder := json.NewEncoder(w)
	for i, entry := range entries {
		if err := encoder.Encode(entry); err != nil {
			return fmt.Errorf("failed to encode transcript entry %d: %w", i, err)
		}
	}
	return nil
}

// ReadTranscript reads entries written by WriteTranscript. Blank lines are
// skipped; a malformed line fails with its line number.
func ReadTranscript(r io.Reader) ([]TranscriptEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxTranscriptLine)

	var entries []TranscriptEntry
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry TranscriptEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("line %d: invalid transcript entry: %w", lineNo, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	return entries, nil
}

// SaveTranscript writes entries to path, creating parent directories
func SaveTranscript(path string, entries []TranscriptEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create transcript directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create transcript file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := WriteTranscript(file, entries); err != nil {
		return err
	}

	log.Debug().Str("path", path).Int("entries", len(entries)).Msg("Transcript saved")
	return nil
}
