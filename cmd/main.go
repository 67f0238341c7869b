package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/daikw/philofight/internal/config"
)

var (
	version  = "dev"
	revision = "none"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:  "philofight",
		Usage: "Philosophy Fight Club - argue with philosophers over voice",
		Description: `philofight lists debates between philosophers and joins them as a live
voice session. Calls go to the hosted voice service, or to an offline
rehearsal vendor that answers with canned lines.`,
		Version: fmt.Sprintf("%s (rev: %s)", version, revision),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "Enable verbose logging",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from this file",
				Value: ".env",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "debates",
				Usage:   "List debates",
				Aliases: []string{"ls"},
				Action:  handleDebates,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Match title, topic or philosopher",
					},
					&cli.StringFlag{
						Name:    "category",
						Aliases: []string{"c"},
						Usage:   "Only show this category",
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Show a debate and its lineup",
				ArgsUsage: "<debate>",
				Action:    handleShow,
			},
			{
				Name:   "philosophers",
				Usage:  "List philosophers",
				Action: handlePhilosophers,
			},
			{
				Name:      "join",
				Usage:     "Join a debate as a voice session",
				ArgsUsage: "<debate>",
				Action:    handleJoin,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "persona",
						Aliases: []string{"p"},
						Usage:   "Talk to a single philosopher instead of a debate",
					},
					&cli.StringFlag{
						Name:  "vendor",
						Usage: "Voice vendor: realtime, rehearsal (default from config)",
					},
					&cli.StringFlag{
						Name:    "transcript-out",
						Aliases: []string{"o"},
						Usage:   "Write the transcript as JSON lines when the session ends",
					},
					&cli.DurationFlag{
						Name:  "pace",
						Usage: "Rehearsal thinking time before each reply",
						Value: 0,
					},
					&cli.BoolFlag{
						Name:  "speak",
						Usage: "Voice rehearsal lines with the configured speech provider",
					},
				},
			},
			{
				Name:  "config",
				Usage: "Manage configuration",
				Commands: []*cli.Command{
					{
						Name:   "init",
						Usage:  "Create an example configuration file",
						Action: handleConfigInit,
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:    "global",
								Aliases: []string{"g"},
								Usage:   "Create ~/.philofight/config.json instead of the project file",
							},
						},
					},
					{
						Name:   "show",
						Usage:  "Show the effective configuration (secrets masked)",
						Action: handleConfigShow,
					},
					{
						Name:   "validate",
						Usage:  "Validate the configuration",
						Action: handleConfigValidate,
					},
				},
			},
			{
				Name:   "voices",
				Usage:  "List voices of a speech provider",
				Action: handleVoices,
				Flags:  speechFlags(),
			},
			{
				Name:      "speak",
				Usage:     "Say a philosopher's quote (or the given text) in their voice",
				ArgsUsage: "<philosopher> [text]",
				Action:    handleSpeak,
				Flags: append(speechFlags(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write audio to this file instead of playing it",
					},
					&cli.FloatFlag{
						Name:  "speed",
						Usage: "Speech speed (0.25-4.0, provider dependent)",
						Value: 1.0,
					},
				),
			},
			{
				Name:   "mcp",
				Usage:  "Serve the catalog as MCP tools over stdio",
				Action: handleMCP,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			if err := config.LoadDotenv(c.String("env-file")); err != nil {
				log.Warn().Err(err).Msg("Failed to load env file")
			}
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("Failed to run application")
	}
}

// loadConfig reads the project or global config with env overrides
func loadConfig() (*config.File, string, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, path, err := config.NewLoader().Load(workDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, path, nil
}
