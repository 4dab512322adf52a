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

// Package kbase answers questions about a company's services from the pages
// scraped off its website.
//
// A KnowledgeBase loads the scraped corpus, embeds every page into an
// in-memory index and serves semantic searches, keyword needs detection,
// the aggregated contact details and the plain-text rendering of results.
package kbase

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/kbase/ai"
	"github.com/poiesic/kbase/ai/openai"
	"github.com/poiesic/kbase/contact"
	"github.com/poiesic/kbase/core"
	"github.com/poiesic/kbase/corpus"
	"github.com/poiesic/kbase/format"
	"github.com/poiesic/kbase/index"
	"github.com/poiesic/kbase/ingestion"
	"github.com/poiesic/kbase/needs"
	"github.com/poiesic/kbase/search"
	"github.com/poiesic/kbase/storage"
	"github.com/poiesic/kbase/storage/badger"
)

// DefaultCorpusDir is the directory scanned for scraped pages.
const DefaultCorpusDir = "scraped_data"

const progressInterval = 50

var (
	// ErrClosed indicates the knowledge base was closed.
	ErrClosed = errors.New("knowledge base is closed")

	// ErrCorpusDirRequired indicates an empty corpus directory option.
	ErrCorpusDirRequired = errors.New("corpus directory is required")
)

// KnowledgeBase is the query surface over one corpus.
// It is safe for concurrent use; Rebuild calls are serialized.
type KnowledgeBase struct {
	corpusDir   string
	provider    ai.AIProvider
	ownProvider bool
	cache       storage.VectorCache
	loader      *corpus.Loader
	builder     *ingestion.Builder
	holder      *index.Holder
	searcher    *search.Searcher
	detector    *needs.Detector
	resolver    *contact.Resolver
	logger      *slog.Logger

	rebuildMu sync.Mutex
	closeOnce sync.Once
	closed    bool
}

// Option configures a KnowledgeBase.
type Option func(*options) error

type options struct {
	corpusDir     string
	contactFile   string
	aiConfig      *ai.Config
	provider      ai.AIProvider
	cacheDir      string
	freshCache    bool
	needsTable    needs.Table
	poolSize      int
	searchPool    int
	batchSize     int
	normalize     bool
	maxAttempts   int
	retryDelay    time.Duration
	progress      io.Writer
	distanceScale float64
	minScore      float64
	logger        *slog.Logger
}

// WithCorpusDir sets the directory holding the scraped JSON pages.
func WithCorpusDir(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return ErrCorpusDirRequired
		}
		o.corpusDir = dir
		return nil
	}
}

// WithContactFile sets the aggregated contact file. Empty means contact.DefaultFile.
func WithContactFile(path string) Option {
	return func(o *options) error {
		o.contactFile = path
		return nil
	}
}

// WithAIConfig sets the embedding service used when no provider is given.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("ai config cannot be nil")
		}
		o.aiConfig = cfg
		return nil
	}
}

// WithProvider sets the embedding provider. The caller keeps ownership.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) error {
		if provider == nil {
			return ingestion.ErrAIProviderRequired
		}
		o.provider = provider
		return nil
	}
}

// WithCacheDir enables the persisted vector cache in dir.
func WithCacheDir(dir string) Option {
	return func(o *options) error {
		o.cacheDir = dir
		return nil
	}
}

// WithFreshCache discards cached vectors of the current model before the first build.
func WithFreshCache(fresh bool) Option {
	return func(o *options) error {
		o.freshCache = fresh
		return nil
	}
}

// WithNeedsTable replaces the built-in needs keyword table.
func WithNeedsTable(table needs.Table) Option {
	return func(o *options) error {
		o.needsTable = table
		return nil
	}
}

// WithPoolSize sets the number of workers for both embedding and queries.
func WithPoolSize(size int) Option {
	return func(o *options) error {
		if size < 1 {
			return fmt.Errorf("pool size must be at least 1, got %d", size)
		}
		o.poolSize = size
		return nil
	}
}

// WithSearchPoolSize sets the number of concurrent queries, overriding
// WithPoolSize for the searcher only.
func WithSearchPoolSize(size int) Option {
	return func(o *options) error {
		if size < 1 {
			return fmt.Errorf("search pool size must be at least 1, got %d", size)
		}
		o.searchPool = size
		return nil
	}
}

// WithBatchSize sets how many passages go to the embedding service per call.
func WithBatchSize(size int) Option {
	return func(o *options) error {
		if size < 1 {
			return ingestion.ErrInvalidBatchSize
		}
		o.batchSize = size
		return nil
	}
}

// WithNormalize enables unit-length normalization of embeddings.
func WithNormalize(normalize bool) Option {
	return func(o *options) error {
		o.normalize = normalize
		return nil
	}
}

// WithRetry configures retries of failed embedding batches.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(o *options) error {
		if maxAttempts < 1 {
			return ingestion.ErrInvalidMaxAttempts
		}
		o.maxAttempts = maxAttempts
		o.retryDelay = baseDelay
		return nil
	}
}

// WithProgress reports embedding progress of each build to w.
func WithProgress(w io.Writer) Option {
	return func(o *options) error {
		o.progress = w
		return nil
	}
}

// WithDistanceScale sets the distance at which relevance drops to zero.
func WithDistanceScale(scale float64) Option {
	return func(o *options) error {
		if scale <= 0 {
			return search.ErrInvalidDistanceScale
		}
		o.distanceScale = scale
		return nil
	}
}

// WithMinScore sets the relevance floor of search results.
func WithMinScore(score float64) Option {
	return func(o *options) error {
		if score < 0 || score > 100 {
			return search.ErrInvalidMinScore
		}
		o.minScore = score
		return nil
	}
}

// WithLogger sets the logger. nil means slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// New wires the components and performs the initial build.
// A failed initial build is returned as an error.
func New(ctx context.Context, opts ...Option) (*KnowledgeBase, error) {
	o := &options{
		corpusDir:     DefaultCorpusDir,
		aiConfig:      ai.DefaultConfig(),
		distanceScale: search.DefaultDistanceScale,
		minScore:      search.DefaultMinScore,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	kb, err := newKnowledgeBase(ctx, o)
	if err != nil {
		return nil, err
	}
	if err := kb.Rebuild(ctx); err != nil {
		kb.Close()
		return nil, err
	}
	return kb, nil
}

func newKnowledgeBase(ctx context.Context, o *options) (_ *KnowledgeBase, err error) {
	kb := &KnowledgeBase{
		corpusDir: o.corpusDir,
		provider:  o.provider,
		holder:    index.NewHolder(),
		logger:    o.logger.With("component", "kbase"),
	}
	defer func() {
		if err != nil {
			kb.Close()
		}
	}()

	if kb.provider == nil {
		if kb.provider, err = openai.NewProvider(o.aiConfig, openai.WithLogger(o.logger)); err != nil {
			return nil, err
		}
		kb.ownProvider = true
	}

	if o.cacheDir != "" {
		cache, cacheErr := badger.OpenVectorCache(o.cacheDir, o.logger)
		if cacheErr != nil {
			return nil, fmt.Errorf("opening vector cache: %w", cacheErr)
		}
		kb.cache = cache
		if o.freshCache {
			if err = cache.Purge(ctx, kb.provider.ModelName()); err != nil {
				return nil, fmt.Errorf("purging vector cache: %w", err)
			}
		}
	}

	if kb.loader, err = corpus.NewLoader(corpus.WithLogger(o.logger)); err != nil {
		return nil, err
	}

	buildOpts := []ingestion.Option{
		ingestion.WithLogger(o.logger),
		ingestion.WithNormalize(o.normalize),
	}
	if o.poolSize > 0 {
		buildOpts = append(buildOpts, ingestion.WithPoolSize(o.poolSize))
	}
	if o.batchSize > 0 {
		buildOpts = append(buildOpts, ingestion.WithBatchSize(o.batchSize))
	}
	if o.maxAttempts > 0 {
		buildOpts = append(buildOpts, ingestion.WithRetry(o.maxAttempts, o.retryDelay))
	}
	if kb.cache != nil {
		buildOpts = append(buildOpts, ingestion.WithVectorCache(kb.cache))
	}
	if o.progress != nil {
		buildOpts = append(buildOpts, ingestion.WithProgress(o.progress, progressInterval))
	}
	if kb.builder, err = ingestion.NewBuilder(kb.provider, buildOpts...); err != nil {
		return nil, err
	}

	searchOpts := []search.Option{
		search.WithLogger(o.logger),
		search.WithDistanceScale(o.distanceScale),
		search.WithMinScore(o.minScore),
	}
	if size := cmp.Or(o.searchPool, o.poolSize); size > 0 {
		searchOpts = append(searchOpts, search.WithPoolSize(size))
	}
	if kb.searcher, err = search.NewSearcher(kb.holder, kb.provider, searchOpts...); err != nil {
		return nil, err
	}

	table := o.needsTable
	if len(table) == 0 {
		table = needs.DefaultTable()
	}
	if kb.detector, err = needs.NewDetector(table); err != nil {
		return nil, err
	}

	if kb.resolver, err = contact.NewResolver(o.contactFile, contact.WithLogger(o.logger)); err != nil {
		return nil, err
	}

	return kb, nil
}

// Rebuild reloads the corpus, rebuilds the index and publishes it.
// On failure the previously published snapshot stays in place.
func (kb *KnowledgeBase) Rebuild(ctx context.Context) error {
	kb.rebuildMu.Lock()
	defer kb.rebuildMu.Unlock()

	if kb.closed {
		return ErrClosed
	}

	start := time.Now()
	docs, err := kb.loader.Load(ctx, kb.corpusDir)
	if err != nil {
		kb.logger.Error("error loading corpus", "dir", kb.corpusDir, "err", err)
		return fmt.Errorf("loading corpus: %w", err)
	}

	idx, err := kb.builder.Build(ctx, docs)
	if err != nil {
		kb.logger.Error("error building index", "documents", len(docs), "err", err)
		return err
	}

	snap, err := kb.holder.Publish(docs, idx)
	if err != nil {
		return fmt.Errorf("publishing index: %w", err)
	}
	kb.saveManifest(ctx, snap)
	kb.resolver.Reload()

	kb.logger.Info("index published",
		"version", snap.Version,
		"documents", snap.Len(),
		"dimension", idx.Dimension(),
		"elapsed", time.Since(start))
	return nil
}

func (kb *KnowledgeBase) saveManifest(ctx context.Context, snap *index.Snapshot) {
	if kb.cache == nil {
		return
	}
	manifest := &storage.BuildManifest{
		Model:     kb.provider.ModelName(),
		BuildID:   snap.BuildID.String(),
		Version:   snap.Version,
		Documents: snap.Len(),
		Dimension: snap.Index.Dimension(),
		BuiltAt:   snap.BuiltAt,
	}
	if err := kb.cache.SaveManifest(ctx, manifest); err != nil {
		kb.logger.Warn("error saving build manifest", "err", err)
	}
}

// Snapshot returns the published snapshot, or nil before the first build.
func (kb *KnowledgeBase) Snapshot() *index.Snapshot {
	return kb.holder.Current()
}

// Manifest returns the manifest of the last build saved in the vector cache,
// or nil when there is none or no cache is configured.
func (kb *KnowledgeBase) Manifest(ctx context.Context) (*storage.BuildManifest, error) {
	if kb.cache == nil {
		return nil, nil
	}
	return kb.cache.LoadManifest(ctx, kb.provider.ModelName())
}

// SearchKnowledge returns up to k documents relevant to query, most relevant
// first. k <= 0 means search.DefaultK. Failures yield an empty result.
func (kb *KnowledgeBase) SearchKnowledge(ctx context.Context, query string, k int) []core.ScoredResult {
	return kb.searcher.SearchKnowledge(ctx, query, k)
}

// SearchKnowledgeWithMonitor is SearchKnowledge reporting to monitor.
func (kb *KnowledgeBase) SearchKnowledgeWithMonitor(ctx context.Context, query string, k int, monitor search.SearchMonitor) []core.ScoredResult {
	return kb.searcher.SearchKnowledgeWithMonitor(ctx, query, k, monitor)
}

// DetectNeeds returns the service categories whose keywords appear in text.
func (kb *KnowledgeBase) DetectNeeds(text string) []core.Need {
	return kb.detector.Detect(text)
}

// GetContactInfo returns the aggregated contact details.
func (kb *KnowledgeBase) GetContactInfo() core.ContactInfo {
	return kb.resolver.ContactInfo()
}

// FormatKnowledgeResponse renders results as plain text.
func (kb *KnowledgeBase) FormatKnowledgeResponse(results []core.ScoredResult) string {
	return format.KnowledgeResponse(results)
}

// Close releases the worker pools, the vector cache and an owned provider.
func (kb *KnowledgeBase) Close() error {
	var errs []error
	kb.closeOnce.Do(func() {
		kb.rebuildMu.Lock()
		kb.closed = true
		kb.rebuildMu.Unlock()

		if kb.searcher != nil {
			kb.searcher.Release()
		}
		if kb.builder != nil {
			kb.builder.Release()
		}
		if kb.cache != nil {
			if err := kb.cache.Close(); err != nil {
				kb.logger.Error("error closing vector cache", "err", err)
				errs = append(errs, err)
			}
		}
		if kb.ownProvider && kb.provider != nil {
			if err := kb.provider.Close(); err != nil {
				kb.logger.Error("error closing AI provider", "err", err)
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
