// Copyright 2026 Dumpsift Contributors
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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dumpsift/dumpsift"
	"github.com/dumpsift/dumpsift/core"
	"github.com/dumpsift/dumpsift/embed"
	"github.com/dumpsift/dumpsift/source/sqlite"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "dumpsift",
		Usage: "Extract and ingest forensic records from device dump databases",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Directory holding the record, vector, graph, and cache stores",
				Value:   "dumpsift-data",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL (empty disables vector ingestion)",
				Value: "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
				Value: "embeddinggemma",
			},
			&cli.IntFlag{
				Name:  "max-attempts",
				Usage: "Maximum connection attempts per store",
			},
			&cli.DurationFlag{
				Name:  "retry-delay",
				Usage: "Delay between connection attempts",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Extract records from a dump database and write them to every store",
				ArgsUsage: "<dump.db>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "case-id",
						Usage:    "Case identifier recorded on every extracted record",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "investigator-id",
						Usage: "Investigator identifier recorded on the record set",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Semantic search over ingested chat messages",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Minimum cosine similarity score",
						Value: 0.0,
					},
				},
			},
			{
				Name:      "connections",
				Usage:     "Show the communication neighborhood of an identifier",
				ArgsUsage: "<identifier>",
				Action:    connectionsCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "depth",
						Usage: "Maximum traversal depth",
						Value: 2,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openSystem(c *cli.Context) (*dumpsift.System, error) {
	config := dumpsift.Config{
		DataDir:            c.String("data-dir"),
		MaxConnectAttempts: c.Int("max-attempts"),
		RetryDelay:         c.Duration("retry-delay"),
	}
	if host := c.String("embedding-host"); host != "" {
		config.Embedding = &embed.Config{
			Host:  host,
			Model: c.String("embedding-model"),
		}
	}
	return dumpsift.Open(c.Context, config)
}

func ingestCommand(c *cli.Context) error {
	dumpPath := c.Args().First()
	if dumpPath == "" {
		return fmt.Errorf("dump database path is required")
	}

	system, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer system.Close()

	src, err := sqlite.Open(dumpPath)
	if err != nil {
		return fmt.Errorf("failed to open dump: %w", err)
	}
	defer src.Close()

	start := time.Now()
	result, err := system.Extract(c.Context, src, c.String("case-id"), c.String("investigator-id"))
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	counts := result.Set.Counts()
	fmt.Fprintf(os.Stderr, "Extracted %d calls, %d chats, %d contacts from %d tables (%d skipped) in %s\n",
		counts[core.KindCall], counts[core.KindChat], counts[core.KindContact],
		len(result.Tables), len(result.Skipped()), time.Since(start).Round(time.Millisecond))

	ingestor, err := system.NewIngestor()
	if err != nil {
		return fmt.Errorf("failed to create ingestor: %w", err)
	}
	defer ingestor.Release()

	report, err := ingestor.Ingest(c.Context, result.Set)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	for name, store := range report.Stores {
		line := fmt.Sprintf("%-10s %s", name, store.Status)
		if store.Cause != "" {
			line += " (" + store.Cause + ")"
		}
		fmt.Fprintf(os.Stderr, "%s records=%d\n", line, store.Records)
	}
	fmt.Fprintf(os.Stderr, "Run %s finished in %s\n", report.RunID,
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	return nil
}

func searchCommand(c *cli.Context) error {
	query := c.Args().First()
	if query == "" {
		return fmt.Errorf("search query is required")
	}

	system, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer system.Close()

	results, err := system.SemanticSearch(c.Context, query, c.Int("limit"), float32(c.Float64("min-score")))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return printJSON(results)
}

func connectionsCommand(c *cli.Context) error {
	identifier := c.Args().First()
	if identifier == "" {
		return fmt.Errorf("identifier is required")
	}

	system, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer system.Close()

	sub, err := system.Connections(c.Context, identifier, c.Int("depth"))
	if err != nil {
		return fmt.Errorf("connection lookup failed: %w", err)
	}

	return printJSON(sub)
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
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
