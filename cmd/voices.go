package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/daikw/philofight/internal/speech"
)

func speechFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "provider",
			Usage: "TTS provider: " + strings.Join(speech.Names(), ", ") + " (default from config)",
		},
		&cli.StringFlag{
			Name:  "api-key",
			Usage: "API key for the provider (or use environment variables)",
		},
		&cli.StringFlag{
			Name:  "region",
			Usage: "AWS region for Polly, or GCP region for the regional endpoint",
		},
		&cli.StringFlag{
			Name:  "project-id",
			Usage: "Google Cloud project ID for GCP TTS",
		},
	}
}

// speechSettings merges the config speech section with command flags
func speechSettings(c *cli.Command) speech.Settings {
	var s speech.Settings
	if cfg, _, err := loadConfig(); err == nil {
		s = cfg.Speech.Settings()
	} else {
		log.Warn().Err(err).Msg("Ignoring config")
	}

	if v := c.String("provider"); v != "" && v != s.Provider {
		s = speech.Settings{Provider: v}
	}
	if v := c.String("api-key"); v != "" {
		s.APIKey = v
	}
	if v := c.String("region"); v != "" {
		s.Region = v
	}
	if v := c.String("project-id"); v != "" {
		s.ProjectID = v
	}
	return s
}

func newSpeechProvider(ctx context.Context, c *cli.Command) (speech.Provider, func(), error) {
	provider, err := speech.NewProvider(ctx, speechSettings(c))
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {}
	if closer, ok := provider.(io.Closer); ok {
		cleanup = func() { _ = closer.Close() }
	}
	return provider, cleanup, nil
}

func handleVoices(ctx context.Context, c *cli.Command) error {
	provider, cleanup, err := newSpeechProvider(ctx, c)
	if err != nil {
		return err
	}
	defer cleanup()

	voices, err := provider.ListVoices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list voices: %w", err)
	}
	if len(voices) == 0 {
		fmt.Println("No voices available")
		return nil
	}

	fmt.Printf("Available voices for provider '%s':\n", provider.Name())
	for _, v := range voices {
		fmt.Printf("  - %s (%s) - %s\n", v.ID, v.Language, v.Description)
	}
	return nil
}

func handleSpeak(ctx context.Context, c *cli.Command) error {
	ref := c.Args().Get(0)
	if ref == "" {
		return fmt.Errorf("philosopher is required")
	}

	cat, err := catalogFromConfig()
	if err != nil {
		return err
	}
	p, ok := cat.Resolve(ref)
	if !ok {
		return fmt.Errorf("philosopher '%s' does not exist", ref)
	}

	text := strings.TrimSpace(strings.Join(c.Args().Tail(), " "))
	if text == "" {
		text = p.Quote
	}
	if text == "" {
		return fmt.Errorf("%s has no quote; pass the text to say", p.Name)
	}

	provider, cleanup, err := newSpeechProvider(ctx, c)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := speech.SynthesizeOptions{Speed: c.Float("speed")}
	if p.Voice != nil && p.Voice.Provider == provider.Name() {
		opts.Voice = p.Voice.VoiceID
	}
	if cfg, _, err := loadConfig(); err == nil && cfg.Speech != nil && cfg.Speech.Format != "" {
		opts.Format = cfg.Speech.Format
	}

	audio, err := provider.Synthesize(ctx, text, opts)
	if err != nil {
		return fmt.Errorf("failed to synthesize: %w", err)
	}
	defer audio.Close()

	if output := c.String("output"); output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		if _, err := io.Copy(f, audio); err != nil {
			return fmt.Errorf("failed to write audio: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved %s saying %q to %s\n", p.Name, text, output)
		return nil
	}

	speakerColor(p.Name).Printf("%s: ", p.Name)
	fmt.Println(text)
	return speech.NewCommandPlayer().Play(ctx, audio, opts.Format)
}
