// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/AmanChauhan7010/bookfinder"
	"github.com/AmanChauhan7010/bookfinder/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the CLI. libOpts are passed to every bookfinder.Open call.
func newApp(libOpts ...bookfinder.Option) *cli.App {
	cmds := &commands{libOpts: libOpts}

	return &cli.App{
		Name:  "bookfinder",
		Usage: "Semantic search over a book catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Value:   config.DefaultPath,
			},
			&cli.StringFlag{
				Name:  "books",
				Usage: "Path to the sqlite book store (overrides config)",
			},
			&cli.StringFlag{
				Name:  "embeddings",
				Usage: "Path to the BadgerDB embedding store directory (overrides config)",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL (overrides config)",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name (overrides config)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write a default configuration file",
				Action: cmds.initCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing configuration file",
					},
				},
			},
			{
				Name:      "import",
				Usage:     "Load a YAML book catalog into the book store",
				ArgsUsage: "<catalog.yaml>",
				Action:    cmds.importCommand,
			},
			{
				Name:   "index",
				Usage:  "Embed every book and fill the embedding store",
				Action: cmds.indexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of books embedded per request (overrides config)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of batches embedded concurrently (overrides config)",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N books",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per batch (overrides config)",
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "incremental",
						Usage: "Skip books that already have an embedding",
					},
					&cli.BoolFlag{
						Name:  "prune",
						Usage: "Delete embeddings of books no longer in the book store",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Find books matching a free-text description",
				ArgsUsage: "<query...>",
				Action:    cmds.searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of books to show (overrides config)",
					},
				},
			},
			{
				Name:   "recent",
				Usage:  "List the most recently published books",
				Action: cmds.recentCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of books to show",
						Value:   10,
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Show the details of one book",
				ArgsUsage: "<id>",
				Action:    cmds.showCommand,
			},
			{
				Name:   "status",
				Usage:  "Load the embedding model and corpus and report their state",
				Action: cmds.statusCommand,
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
