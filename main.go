package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/gockelhut/jsvcgen/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

// generateFlags are shared by the commands that load a schema
func generateFlags(flags *commands.Flags) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to jsvcgen.json (default: searched from the working directory upwards)",
			Destination: &flags.ConfigPath,
		},
		&cli.StringFlag{
			Name:        "schema",
			Aliases:     []string{"s"},
			Usage:       "service description JSON file",
			Destination: &flags.Schema,
		},
		&cli.StringFlag{
			Name:        "out",
			Aliases:     []string{"o"},
			Usage:       "output root directory",
			Destination: &flags.Output,
		},
		&cli.StringFlag{
			Name:        "language",
			Aliases:     []string{"l"},
			Usage:       "target language",
			Destination: &flags.Language,
		},
		&cli.StringFlag{
			Name:        "namespace",
			Usage:       "package or namespace of the generated code",
			Destination: &flags.Namespace,
		},
		&cli.BoolFlag{
			Name:        "immutable",
			Usage:       "generate records without mutators",
			Destination: &flags.Immutable,
		},
		&cli.IntFlag{
			Name:  "parallel",
			Usage: "number of type artifacts written concurrently",
			Action: func(ctx context.Context, c *cli.Command, v int64) error {
				if v < 1 {
					return fmt.Errorf("--parallel must be at least 1, got %d", v)
				}
				flags.Parallelism = int(v)
				return nil
			},
		},
	}
}

func main() {
	flags := &commands.Flags{}
	ctrl := commands.NewController(flags)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "jsvcgen",
		Usage:   "Generate typed client code from a JSON-RPC service description",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("JSVCGEN_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Create a jsvcgen.json in the current directory",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
			{
				Name:  "generate",
				Usage: "Generate one source file per type plus the service client",
				Flags: append(generateFlags(flags), &cli.BoolFlag{
					Name:        "check",
					Usage:       "verify the generated files are up to date without writing",
					Destination: &flags.Check,
				}),
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Generate(ctx)
				},
			},
			{
				Name:  "watch",
				Usage: "Regenerate whenever the schema changes",
				Flags: generateFlags(flags),
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Watch(ctx)
				},
			},
			{
				Name:  "dump",
				Usage: "Print the loaded service description",
				Flags: generateFlags(flags),
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Dump(ctx)
				},
			},
			{
				Name:  "languages",
				Usage: "List the supported target languages",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Languages(ctx)
				},
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run jsvcgen")
	}
}
