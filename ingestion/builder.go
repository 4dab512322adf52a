package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/kbase/ai"
	"github.com/poiesic/kbase/core"
	"github.com/poiesic/kbase/index"
	"github.com/poiesic/kbase/storage"
)

const (
	defaultBatchSize   = 32
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
)

// Builder embeds documents and assembles them into a FlatIndex.
// A Builder may be reused for successive builds; builds are independent.
type Builder struct {
	embedder         ai.Embedder
	model            string
	pool             *ants.Pool
	batchSize        int
	retry            retryPolicy
	cache            storage.VectorCache
	normalize        bool
	progress         io.Writer
	progressInterval int
	logger           *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if b.pool != nil {
			b.pool.Release()
		}
		b.pool = pool
		return nil
	}
}

// WithBatchSize sets how many passages are sent to the embedder per call.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(b *Builder) error {
		if size <= 0 {
			return ErrInvalidBatchSize
		}
		b.batchSize = size
		return nil
	}
}

// WithRetry sets the retry policy of each embedding call.
// Default is 3 attempts starting with a 500ms delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(b *Builder) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		b.retry = retryPolicy{attempts: maxAttempts, baseDelay: max(baseDelay, 0)}
		return nil
	}
}

// WithVectorCache enables reuse of previously computed embeddings.
func WithVectorCache(cache storage.VectorCache) Option {
	return func(b *Builder) error {
		b.cache = cache
		return nil
	}
}

// WithNormalize scales every vector to unit length before indexing.
func WithNormalize(normalize bool) Option {
	return func(b *Builder) error {
		b.normalize = normalize
		return nil
	}
}

// WithProgress writes embedding progress to w every interval passages.
func WithProgress(w io.Writer, interval int) Option {
	return func(b *Builder) error {
		b.progress = w
		b.progressInterval = interval
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates an index builder that embeds with provider.
func NewBuilder(provider ai.AIProvider, opts ...Option) (*Builder, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		embedder:         provider.Embedder(),
		model:            provider.ModelName(),
		pool:             pool,
		batchSize:        defaultBatchSize,
		retry:            retryPolicy{attempts: defaultMaxAttempts, baseDelay: defaultBaseDelay},
		progressInterval: 100,
		logger:           slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}
	b.logger = b.logger.With("component", "builder")

	return b, nil
}

// Release stops the worker pool.
func (b *Builder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}

// passage is one distinct text to embed and the rows that share it.
type passage struct {
	id   core.ID
	text string
	rows []int
}

// Build embeds every document and returns an index whose row i is the
// embedding of docs[i]. Any embedding failure aborts the build.
func (b *Builder) Build(ctx context.Context, docs []core.Document) (*index.FlatIndex, error) {
	start := time.Now()
	if len(docs) == 0 {
		b.logger.Warn("no documents to index")
		return index.NewFlatIndex(nil)
	}

	passages := groupPassages(docs)
	vectors := make([][]float32, len(docs))

	pending := b.applyCache(ctx, passages, vectors)
	b.logger.Info("building index",
		"documents", len(docs),
		"passages", len(passages),
		"cached", len(passages)-len(pending),
		"model", b.model)

	fresh, err := b.embedPending(ctx, pending, vectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}
	b.storeCache(ctx, fresh)

	build := index.NewFlatIndex
	if b.normalize {
		build = index.NewNormalizedFlatIndex
	}
	idx, err := build(vectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	b.logger.Info("index built",
		"rows", idx.Len(),
		"dimension", idx.Dimension(),
		"embedded", len(fresh),
		"elapsed", time.Since(start))
	return idx, nil
}

// groupPassages collects distinct contents in first-seen order.
func groupPassages(docs []core.Document) []*passage {
	byID := make(map[core.ID]*passage, len(docs))
	passages := make([]*passage, 0, len(docs))
	for row, doc := range docs {
		id := core.IDFromContent(doc.Content)
		p, ok := byID[id]
		if !ok {
			p = &passage{id: id, text: doc.Content}
			byID[id] = p
			passages = append(passages, p)
		}
		p.rows = append(p.rows, row)
	}
	return passages
}

// applyCache fills vectors from the cache and returns the passages still to
// embed. Cache failures only cost a re-embedding.
func (b *Builder) applyCache(ctx context.Context, passages []*passage, vectors [][]float32) []*passage {
	if b.cache == nil {
		return passages
	}

	ids := make([]core.ID, len(passages))
	for i, p := range passages {
		ids[i] = p.id
	}
	cached, err := b.cache.GetVectors(ctx, b.model, ids...)
	if err != nil {
		b.logger.Warn("vector cache lookup failed", "err", err)
		return passages
	}

	pending := make([]*passage, 0, len(passages)-len(cached))
	for _, p := range passages {
		vec, ok := cached[p.id]
		if !ok || len(vec) == 0 {
			pending = append(pending, p)
			continue
		}
		for _, row := range p.rows {
			vectors[row] = vec
		}
	}
	return pending
}

func (b *Builder) storeCache(ctx context.Context, fresh map[core.ID][]float32) {
	if b.cache == nil || len(fresh) == 0 {
		return
	}
	if err := b.cache.PutVectors(ctx, b.model, fresh); err != nil {
		b.logger.Warn("vector cache update failed", "vectors", len(fresh), "err", err)
	}
}

// embedPending embeds passages in batches on the pool and writes each vector
// into the rows sharing that passage.
func (b *Builder) embedPending(ctx context.Context, pending []*passage, vectors [][]float32) (map[core.ID][]float32, error) {
	fresh := make(map[core.ID][]float32, len(pending))
	if len(pending) == 0 {
		return fresh, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var tracker *ProgressTracker
	if b.progress != nil {
		tracker = NewProgressTracker(b.progress, len(pending), b.progressInterval)
		tracker.Start()
		defer tracker.Finish()
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	for start := 0; start < len(pending); start += b.batchSize {
		if ctx.Err() != nil {
			break
		}
		batch := pending[start:min(start+b.batchSize, len(pending))]

		wg.Add(1)
		err := b.pool.Submit(func() {
			defer wg.Done()

			batchVectors, err := b.embedBatch(ctx, start, batch)
			if err != nil {
				fail(err)
				return
			}

			mu.Lock()
			for i, p := range batch {
				fresh[p.id] = batchVectors[i]
				for _, row := range p.rows {
					vectors[row] = batchVectors[i]
				}
			}
			mu.Unlock()

			if tracker != nil {
				tracker.Increment(len(batch))
			}
		})
		if err != nil {
			wg.Done()
			fail(fmt.Errorf("submitting embedding batch: %w", err))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	// The parent context may have ended between batches.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fresh, nil
}

// embedBatch embeds one batch with retry and checks the result count.
// first is the batch offset into the pending passages, used in logs.
func (b *Builder) embedBatch(ctx context.Context, first int, batch []*passage) ([][]float32, error) {
	texts := make([]string, len(batch))
	for i, p := range batch {
		texts[i] = p.text
	}

	var batchVectors [][]float32
	err := b.retry.embed(ctx, b.logger, first, len(batch), func() error {
		var err error
		batchVectors, err = b.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return err
		}
		if len(batchVectors) != len(texts) {
			return fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingMismatch, len(texts), len(batchVectors))
		}
		return nil
	})
	if err != nil {
		b.logger.Error("error generating embeddings", "first", first, "passages", len(texts), "err", err)
		return nil, err
	}
	return batchVectors, nil
}
