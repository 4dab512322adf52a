package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/kbase"
	"github.com/poiesic/kbase/config"
	"github.com/poiesic/kbase/contact"
	"github.com/poiesic/kbase/needs"
	"github.com/urfave/cli/v2"
)

func kbaseOptions(cfg *config.AppConfig) []kbase.Option {
	opts := []kbase.Option{
		kbase.WithCorpusDir(cfg.Corpus.Dir),
		kbase.WithContactFile(cfg.ContactFilePath()),
		kbase.WithAIConfig(cfg.AIConfig()),
		kbase.WithCacheDir(cfg.Cache.Dir),
		kbase.WithNeedsTable(cfg.Needs),
		kbase.WithNormalize(cfg.Embedder.Normalize),
		kbase.WithDistanceScale(cfg.Retrieval.DistanceScale),
		kbase.WithMinScore(cfg.Retrieval.MinScore),
	}
	if cfg.Embedder.BatchSize > 0 {
		opts = append(opts, kbase.WithBatchSize(cfg.Embedder.BatchSize))
	}
	if cfg.Embedder.PoolSize > 0 {
		opts = append(opts, kbase.WithPoolSize(cfg.Embedder.PoolSize))
	}
	if cfg.Retrieval.PoolSize > 0 {
		opts = append(opts, kbase.WithSearchPoolSize(cfg.Retrieval.PoolSize))
	}
	if cfg.Embedder.MaxAttempts > 0 {
		delay := time.Duration(cfg.Embedder.RetryDelayMS) * time.Millisecond
		opts = append(opts, kbase.WithRetry(cfg.Embedder.MaxAttempts, delay))
	}
	return opts
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func buildCommand(c *cli.Context) error {
	cfg, err := appConfig(c)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Fprintf(os.Stderr, "Corpus: %s\n", cfg.Corpus.Dir)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", cfg.Embedder.BaseURL)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.Embedder.Model)
	if cfg.Cache.Dir != "" {
		fmt.Fprintf(os.Stderr, "Vector cache: %s\n", cfg.Cache.Dir)
	}
	fmt.Fprintln(os.Stderr)

	opts := append(kbaseOptions(cfg),
		kbase.WithFreshCache(c.Bool("fresh")),
		kbase.WithProgress(os.Stderr))
	kb, err := kbase.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	defer kb.Close()

	snap := kb.Snapshot()
	fmt.Fprintf(c.App.Writer, "Indexed %d documents (version %d, build %s, dimension %d)\n",
		snap.Len(), snap.Version, snap.BuildID, snap.Index.Dimension())
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("a query is required")
	}
	cfg, err := appConfig(c)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	kb, err := kbase.New(ctx, kbaseOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	defer kb.Close()

	var monitor *explainMonitor
	if c.Bool("explain") {
		monitor = newExplainMonitor(c.App.ErrWriter)
	}
	results := kb.SearchKnowledgeWithMonitor(ctx, query, cfg.Retrieval.K, monitorOrNil(monitor))

	fmt.Fprintln(c.App.Writer, kb.FormatKnowledgeResponse(results))
	return nil
}

func needsCommand(c *cli.Context) error {
	text := strings.Join(c.Args().Slice(), " ")
	cfg, err := appConfig(c)
	if err != nil {
		return err
	}

	table := needs.Table(cfg.Needs)
	if len(table) == 0 {
		table = needs.DefaultTable()
	}
	detector, err := needs.NewDetector(table)
	if err != nil {
		return err
	}

	found := detector.Detect(text)
	if len(found) == 0 {
		fmt.Fprintln(c.App.Writer, "No service need detected.")
		return nil
	}
	for _, need := range found {
		fmt.Fprintf(c.App.Writer, "%s: %s\n", need.Type, need.URL)
	}
	return nil
}

func contactCommand(c *cli.Context) error {
	cfg, err := appConfig(c)
	if err != nil {
		return err
	}
	resolver, err := contact.NewResolver(cfg.ContactFilePath())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(resolver.ContactInfo())
}
