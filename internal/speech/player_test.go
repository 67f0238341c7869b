package speech

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakePlayer(installed ...string) (*CommandPlayer, *[]string) {
	var ran []string
	p := &CommandPlayer{
		lookPath: func(file string) (string, error) {
			for _, name := range installed {
				if name == file {
					return "/usr/bin/" + file, nil
				}
			}
			return "", errors.New("not found")
		},
		run: func(ctx context.Context, name string, args ...string) error {
			file := args[len(args)-1]
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			ran = append(ran, name+" "+strings.Join(args[:len(args)-1], " ")+"|"+string(data))
			return nil
		},
	}
	return p, &ran
}

func TestCommandPlayer_Play(t *testing.T) {
	t.Run("prefers earlier players", func(t *testing.T) {
		p, ran := fakePlayer("aplay", "paplay")

		require.NoError(t, p.Play(context.Background(), strings.NewReader("riff"), "wav"))
		assert.Equal(t, []string{"paplay |riff"}, *ran)
	})

	t.Run("ffplay gets flags", func(t *testing.T) {
		p, ran := fakePlayer("ffplay")

		require.NoError(t, p.Play(context.Background(), strings.NewReader("id3"), ""))
		assert.Equal(t, []string{"ffplay -nodisp -autoexit -loglevel quiet|id3"}, *ran)
	})

	t.Run("no player installed", func(t *testing.T) {
		p, _ := fakePlayer()

		assert.False(t, p.Available())
		err := p.Play(context.Background(), strings.NewReader("x"), "mp3")
		assert.ErrorContains(t, err, "no audio player found")
	})

	t.Run("run failure", func(t *testing.T) {
		p, _ := fakePlayer("afplay")
		p.run = func(ctx context.Context, name string, args ...string) error {
			return errors.New("exit status 1")
		}

		err := p.Play(context.Background(), strings.NewReader("x"), "mp3")
		assert.ErrorContains(t, err, "failed to play audio")
	})
}
