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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/recall"
	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/ingestion"
	"github.com/poiesic/recall/search"
)

func main() {
	app := &cli.App{
		Name:  "recall",
		Usage: "Semantic and lexical search over conversational history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "embed",
				Usage:  "Embed pending messages and session transcripts",
				Action: embedCommand,
				Flags:  append(dataFlags(), embeddingFlags()...),
			},
			{
				Name:   "centroids",
				Usage:  "Recompute session and project centroids",
				Action: centroidsCommand,
				Flags:  append(dataFlags(), embeddingFlags()...),
			},
			{
				Name:      "search",
				Usage:     "Search indexed conversations",
				Action:    searchCommand,
				ArgsUsage: "QUERY...",
				Flags: append(append(dataFlags(), embeddingFlags()...),
					&cli.StringFlag{
						Name:  "negative",
						Usage: "Concept to steer results away from",
					},
					&cli.StringSliceFlag{
						Name:  "exclude",
						Usage: "Drop results containing this term (repeatable)",
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Ranking mode: semantic, text, or hybrid",
						Value: "hybrid",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Restrict results to one source system",
					},
					&cli.DurationFlag{
						Name:  "since",
						Usage: "Restrict results to items newer than this age (e.g. 168h)",
					},
					&cli.StringFlag{
						Name:  "cwd",
						Usage: "Project context for boosting (defaults to current directory name)",
					},
					&cli.BoolFlag{
						Name:  "project-only",
						Usage: "Restrict results to the cwd project",
					},
					&cli.StringSliceFlag{
						Name:  "like-session",
						Usage: "Weighted session exemplar, id or id:weight (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "unlike-session",
						Usage: "Weighted negative session exemplar (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "like-project",
						Usage: "Weighted project exemplar (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "unlike-project",
						Usage: "Weighted negative project exemplar (repeatable)",
					},
				),
			},
			{
				Name:   "heal",
				Usage:  "Retry eligible embedding failures and clean orphaned records",
				Action: healCommand,
				Flags:  append(dataFlags(), embeddingFlags()...),
			},
			{
				Name:   "failures",
				Usage:  "List recorded embedding failures",
				Action: failuresCommand,
				Flags: append(dataFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of failures to list",
						Value: 100,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dataFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "data",
			Aliases:  []string{"d"},
			Usage:    "Path to the data directory",
			Required: true,
		},
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "nomic-embed-text",
		},
		&cli.StringFlag{
			Name:  "summary-host",
			Usage: "Summarization service host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:  "summary-model",
			Usage: "Summarization model name",
			Value: "qwen2.5:3b",
		},
		&cli.IntFlag{
			Name:  "dimensions",
			Usage: "Expected embedding vector width",
			Value: 768,
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of items to process in each batch",
			Value: 100,
		},
		&cli.IntFlag{
			Name:  "report-interval",
			Usage: "Report progress every N items",
			Value: 100,
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Maximum retry attempts for transient failures",
			Value: 3,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: 1 * time.Second,
		},
		&cli.IntFlag{
			Name:  "pool-size",
			Usage: "Number of concurrent workers",
			Value: 4,
		},
	}
}

func openDatabase(c *cli.Context) (*recall.Database, error) {
	var opts []ai.ConfigOption
	if host := c.String("embedding-host"); host != "" {
		opts = append(opts, ai.WithEmbeddingHost(host))
		opts = append(opts, ai.WithSummaryHost(host))
	}
	if host := c.String("summary-host"); host != "" {
		opts = append(opts, ai.WithSummaryHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("summary-model"); model != "" {
		opts = append(opts, ai.WithSummaryModel(model))
	}
	if dims := c.Int("dimensions"); dims > 0 {
		opts = append(opts, ai.WithDimensions(dims))
	}

	aiConfig := ai.NewConfig(opts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, err
	}

	return recall.NewDatabase(c.String("data"), recall.WithAIConfig(aiConfig))
}

func ingestionConfig(c *cli.Context) *ingestion.Config {
	config := ingestion.DefaultConfig()
	config.BatchSize = c.Int("batch-size")
	config.ReportInterval = c.Int("report-interval")
	config.MaxRetries = c.Int("max-retries")
	config.RetryDelay = c.Duration("retry-delay")
	config.Dimensions = c.Int("dimensions")
	config.Model = c.String("embedding-model")
	config.PoolSize = c.Int("pool-size")
	return config
}

func embedCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline(
		ingestion.WithConfig(ingestionConfig(c)),
		ingestion.WithProgress(os.Stderr),
	)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	if err := pipeline.RunMessages(ctx); err != nil {
		return fmt.Errorf("message embedding failed: %w", err)
	}
	if err := pipeline.RunSessions(ctx); err != nil {
		return fmt.Errorf("session embedding failed: %w", err)
	}
	return nil
}

func centroidsCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	aggregator, err := db.NewAggregator()
	if err != nil {
		return err
	}
	defer aggregator.Release()

	stored, err := aggregator.ComputeAll(ctx)
	if err != nil {
		return fmt.Errorf("centroid computation failed: %w", err)
	}
	fmt.Printf("stored %d centroids\n", stored)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cwd := c.String("cwd")
	if cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			parts := strings.Split(wd, string(os.PathSeparator))
			cwd = parts[len(parts)-1]
		}
	}

	req := &search.Request{
		Query:          strings.Join(c.Args().Slice(), " "),
		NegativeQuery:  c.String("negative"),
		ExcludeTerms:   c.StringSlice("exclude"),
		Mode:           search.Mode(c.String("mode")),
		Limit:          c.Int("limit"),
		Source:         c.String("source"),
		Cwd:            cwd,
		ProjectOnly:    c.Bool("project-only"),
		LikeSessions:   c.StringSlice("like-session"),
		UnlikeSessions: c.StringSlice("unlike-session"),
		LikeProjects:   c.StringSlice("like-project"),
		UnlikeProjects: c.StringSlice("unlike-project"),
	}
	if age := c.Duration("since"); age > 0 {
		req.Since = time.Now().Add(-age)
	}

	results, err := db.NewSearcher().Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}
	for i, result := range results {
		title := result.Title
		if title == "" {
			title = result.SessionId
		}
		fmt.Printf("%2d. [%.3f] %s (%s)\n", i+1, result.Score, title, result.Strategy)
		if result.Project != "" {
			fmt.Printf("    project: %s\n", result.Project)
		}
		if result.Snippet != "" {
			fmt.Printf("    %s\n", result.Snippet)
		}
	}
	return nil
}

func healCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline(ingestion.WithConfig(ingestionConfig(c)))
	if err != nil {
		return err
	}
	defer pipeline.Release()

	healed, err := pipeline.Heal(ctx)
	if err != nil {
		return fmt.Errorf("healing failed: %w", err)
	}
	fmt.Printf("healed %d items\n", healed)
	return nil
}

func failuresCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	records, err := db.EmbeddingRecordRepository().ListFailureRecords(ctx, 0, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("listing failures: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("no recorded failures")
		return nil
	}
	for _, record := range records {
		fmt.Printf("%d\t%s\tretries=%d\t%s\t%s\n",
			record.ItemId, record.FailureReason, record.RetryCount,
			record.UpdatedAt.Format(time.RFC3339), record.FailureDetail)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}
