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
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/poiesic/kbase/config"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	corpusFlag := &cli.StringFlag{
		Name:  "corpus",
		Usage: "Directory holding the scraped JSON pages",
	}
	cacheFlag := &cli.StringFlag{
		Name:  "cache",
		Usage: "Directory of the persisted vector cache (disabled when empty)",
	}
	embeddingFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
	}

	return &cli.App{
		Name:      "kbase",
		Usage:     "Semantic search over a company's scraped service pages",
		Writer:    out,
		ErrWriter: os.Stderr,
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
				Name:  "env-file",
				Usage: "Path to a .env file loaded before the environment is read",
				Value: ".env",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Load the corpus and build the embedding index",
				Action: buildCommand,
				Flags: append([]cli.Flag{
					corpusFlag,
					cacheFlag,
					&cli.BoolFlag{
						Name:  "fresh",
						Usage: "Discard cached vectors of the embedding model first",
					},
				}, embeddingFlags...),
			},
			{
				Name:      "search",
				Usage:     "Search the knowledge base",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					corpusFlag,
					cacheFlag,
					&cli.IntFlag{
						Name:    "k",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
					},
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Print distances and scores of every candidate",
					},
				}, embeddingFlags...),
			},
			{
				Name:      "needs",
				Usage:     "Detect service needs mentioned in a text",
				ArgsUsage: "TEXT...",
				Action:    needsCommand,
			},
			{
				Name:   "contact",
				Usage:  "Print the aggregated contact details",
				Action: contactCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "contact-file",
						Usage: "Path to the aggregated contact JSON file",
					},
				},
			},
		},
	}
}

// setup loads the configuration and configures logging.
func setup(c *cli.Context) error {
	if err := config.LoadDotEnv(c.String("env-file")); err != nil {
		return err
	}
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if err := setupLogger(cfg.LogLevel); err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func setupLogger(name string) error {
	levelStr, err := config.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", name)
	}

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
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// appConfig returns the loaded configuration with the command's flags applied.
func appConfig(c *cli.Context) (*config.AppConfig, error) {
	cfg, ok := c.App.Metadata[configKey].(*config.AppConfig)
	if !ok {
		cfg = config.Default()
	}

	if v := c.String("corpus"); v != "" {
		cfg.Corpus.Dir = v
	}
	if v := c.String("cache"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := c.String("contact-file"); v != "" {
		cfg.Corpus.ContactFile = v
	}
	if v := c.String("embedding-host"); v != "" {
		cfg.Embedder.BaseURL = v
	}
	if v := c.String("embedding-model"); v != "" {
		cfg.Embedder.Model = v
	}
	if v := c.Int("k"); v > 0 {
		cfg.Retrieval.K = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
