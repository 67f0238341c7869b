package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// Player plays encoded audio
type Player interface {
	Play(ctx context.Context, audio io.Reader, format string) error
}

// playerCommands are tried in order: macOS, PulseAudio, ALSA, then ffmpeg
var playerCommands = []struct {
	name string
	args []string
}{
	{"afplay", nil},
	{"paplay", nil},
	{"aplay", nil},
	{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
}

// CommandPlayer shells out to the first audio player found on PATH
type CommandPlayer struct {
	lookPath func(file string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
}

// NewCommandPlayer creates a player backed by system commands
func NewCommandPlayer() *CommandPlayer {
	return &CommandPlayer{
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

// Available reports whether any audio player is installed
func (p *CommandPlayer) Available() bool {
	_, _, err := p.command()
	return err == nil
}

// Play writes audio to a temporary file and blocks until playback ends
func (p *CommandPlayer) Play(ctx context.Context, audio io.Reader, format string) error {
	name, args, err := p.command()
	if err != nil {
		return err
	}
	if format == "" {
		format = "mp3"
	}

	tmpFile, err := os.CreateTemp("", "philofight-*."+format)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmpFile.Name())
	}()

	if _, err := io.Copy(tmpFile, audio); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write audio: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}

	log.Debug().Str("player", name).Str("file", tmpFile.Name()).Msg("Playing audio")
	if err := p.run(ctx, name, append(args, tmpFile.Name())...); err != nil {
		return fmt.Errorf("failed to play audio: %w", err)
	}
	return nil
}

func (p *CommandPlayer) command() (string, []string, error) {
	for _, c := range playerCommands {
		if _, err := p.lookPath(c.name); err == nil {
			return c.name, append([]string(nil), c.args...), nil
		}
	}
	return "", nil, fmt.Errorf("no audio player found (tried afplay, paplay, aplay, ffplay)")
}
