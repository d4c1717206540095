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
	"path/filepath"
	"strings"

	"github.com/poiesic/docquery"
	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/extract"
	"github.com/poiesic/docquery/ingestion"
	"github.com/poiesic/docquery/web"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "docquery",
		Usage: "Document question answering with routed retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:     "db",
				Aliases:  []string{"d"},
				Usage:    "Path to BadgerDB database directory",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL",
				Value: "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
				Value: "embeddinggemma",
			},
			&cli.StringFlag{
				Name:  "answer-host",
				Usage: "Answer generation service host URL (defaults to embedding-host)",
			},
			&cli.StringFlag{
				Name:  "answer-model",
				Usage: "Answer generation model name",
				Value: "qwen2.5:3b",
			},
			&cli.StringFlag{
				Name:    "serper-api-key",
				Usage:   "Serper.dev API key; web search is disabled when empty",
				EnvVars: []string{"SERPER_API_KEY"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest PDF or text documents into the evidence index",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
			},
			{
				Name:      "ask",
				Usage:     "Answer a question from documents and the web",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
			},
			{
				Name:      "route",
				Usage:     "Show the routing decision for a query without answering",
				ArgsUsage: "QUESTION",
				Action:    routeCommand,
			},
			{
				Name:   "stats",
				Usage:  "Show evidence index statistics",
				Action: statsCommand,
			},
			{
				Name:   "clear",
				Usage:  "Remove all evidence units from the index",
				Action: clearCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openEngine(c *cli.Context) (*docquery.Engine, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	answerHost := c.String("answer-host")
	if answerHost == "" {
		answerHost = c.String("embedding-host")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAnswerHost(answerHost),
		ai.WithAnswerModel(c.String("answer-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []docquery.EngineOption{docquery.WithAIConfig(aiConfig)}

	// Web search is optional: enabled only when an API key is present.
	if apiKey := c.String("serper-api-key"); apiKey != "" {
		client, err := web.NewClient(apiKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create web search client: %w", err)
		}
		opts = append(opts, docquery.WithWebSearcher(client))
	}

	engine, err := docquery.Open(dbPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return engine, nil
}

func sourceForFile(path string) ingestion.PageTextSource {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return extract.NewPDFSource(path)
	}
	return extract.NewTextSource(path)
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	sources := make([]ingestion.PageTextSource, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		sources = append(sources, sourceForFile(path))
	}

	results, err := engine.IngestDocuments(ctx, sources...)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	total := 0
	for _, result := range results {
		fmt.Fprintf(os.Stderr, "%s: %d evidence units\n", result.Filename, result.Units)
		total += result.Units
	}
	fmt.Fprintf(os.Stderr, "Ingested %d evidence units from %d files\n", total, len(results))

	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a question is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	answer, err := engine.Ask(ctx, query)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Route: %s (confidence %.2f)\n\n", answer.Decision.Route, answer.Decision.Confidence)
	fmt.Println(answer.Text)

	if answer.Evidence != nil && len(answer.Evidence.Items) > 0 {
		fmt.Fprintln(os.Stderr, "\nSources:")
		for i, item := range answer.Evidence.Items {
			if line := sourceLine(i, item); line != "" {
				fmt.Fprintln(os.Stderr, line)
			}
		}
	}

	return nil
}

// sourceLine renders one evidence item for the ask command's source list.
func sourceLine(i int, item core.EvidenceItem) string {
	switch {
	case item.Unit != nil:
		return fmt.Sprintf("  %d. %s (page %d, %s)",
			i+1, item.Unit.SourceFilename, item.Unit.PageStart, item.Unit.SectionTitle)
	case item.Web != nil:
		return fmt.Sprintf("  %d. %s — %s", i+1, item.Web.Title, item.Web.URL)
	}
	return ""
}

func routeCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a question is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	decision, err := engine.RouteQuery(ctx, query)
	if err != nil {
		return fmt.Errorf("routing failed: %w", err)
	}

	fmt.Printf("Route:      %s\n", decision.Route)
	fmt.Printf("Confidence: %.3f\n", decision.Confidence)
	fmt.Printf("Reasoning:  %s\n", engine.ExplainRoute(decision))

	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	count, err := engine.EvidenceCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count evidence units: %w", err)
	}

	fmt.Printf("Evidence units: %d\n", count)
	fmt.Printf("Web search:     %v\n", engine.WebAvailable())

	return nil
}

func clearCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.ClearDocuments(ctx); err != nil {
		return fmt.Errorf("failed to clear evidence: %w", err)
	}

	fmt.Fprintln(os.Stderr, "Evidence index cleared")

	return nil
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
