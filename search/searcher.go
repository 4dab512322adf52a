package search

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/kbase/ai"
	"github.com/poiesic/kbase/core"
	"github.com/poiesic/kbase/index"
)

// SnapshotSource provides the currently published snapshot, or nil when
// nothing has been built yet. *index.Holder implements it.
type SnapshotSource interface {
	Current() *index.Snapshot
}

// Searcher retrieves scored documents for natural-language queries.
type Searcher struct {
	source        SnapshotSource
	embedder      ai.Embedder
	pool          *ants.Pool
	slots         chan struct{}
	distanceScale float64
	minScore      float64
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithDistanceScale sets the squared distance mapped to score 0.
// It depends on the embedding model; the default is 10.
func WithDistanceScale(scale float64) Option {
	return func(s *Searcher) error {
		if scale <= 0 {
			return ErrInvalidDistanceScale
		}
		s.distanceScale = scale
		return nil
	}
}

// WithMinScore sets the relevance floor. Default is 30.
func WithMinScore(score float64) Option {
	return func(s *Searcher) error {
		if score < 0 || score > 100 {
			return ErrInvalidMinScore
		}
		s.minScore = score
		return nil
	}
}

// WithPoolSize sets how many queries run concurrently.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		pool, err := newQueryPool(size)
		if err != nil {
			return err
		}
		if s.pool != nil {
			s.pool.Release()
		}
		s.pool = pool
		s.slots = make(chan struct{}, pool.Cap())
		return nil
	}
}

// NewSearcher creates a searcher over the snapshots published by source.
// provider must be the one used to build the index.
func NewSearcher(source SnapshotSource, provider ai.AIProvider, opts ...Option) (*Searcher, error) {
	if source == nil {
		return nil, ErrSnapshotSourceRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	pool, err := newQueryPool(runtime.NumCPU())
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		source:        source,
		embedder:      provider.Embedder(),
		pool:          pool,
		slots:         make(chan struct{}, pool.Cap()),
		distanceScale: DefaultDistanceScale,
		minScore:      DefaultMinScore,
		logger:        slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.Release()
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher")

	return s, nil
}

// newQueryPool creates the worker pool. Callers reserve one of slots before
// submitting, so Submit only waits for a worker that is already returning.
func newQueryPool(size int) (*ants.Pool, error) {
	return ants.NewPool(max(size, 1))
}

// Release stops the query pool. Queries issued afterwards return no results.
func (s *Searcher) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// Concurrency returns how many queries can run at once.
func (s *Searcher) Concurrency() int {
	return s.pool.Cap()
}

// SearchKnowledge returns up to k documents relevant to query, closest first,
// each scoring at least the relevance floor. k <= 0 means DefaultK.
func (s *Searcher) SearchKnowledge(ctx context.Context, query string, k int) []core.ScoredResult {
	return s.SearchKnowledgeWithMonitor(ctx, query, k, nil)
}

// SearchKnowledgeWithMonitor is SearchKnowledge with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (s *Searcher) SearchKnowledgeWithMonitor(ctx context.Context, query string, k int, monitor SearchMonitor) []core.ScoredResult {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if k <= 0 {
		k = DefaultK
	}
	monitor.Start(query, k)

	snapshot := s.source.Current()
	if snapshot == nil || snapshot.Index.Len() == 0 {
		s.logger.Debug("index is empty, no results", "query", query)
		empty := []core.ScoredResult{}
		monitor.Finish(empty)
		return empty
	}

	select {
	case s.slots <- struct{}{}:
	case <-ctx.Done():
		s.logger.Warn("query abandoned while waiting for a worker", "query", query, "err", ctx.Err())
		monitor.Failed("queue", ctx.Err())
		return []core.ScoredResult{}
	}

	done := make(chan []core.ScoredResult, 1)
	err := s.pool.Submit(func() {
		results := []core.ScoredResult{}
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("query panicked", "query", query, "panic", r)
				results = []core.ScoredResult{}
			}
			<-s.slots
			done <- results
		}()
		results = s.search(ctx, snapshot, query, k, monitor)
	})
	if err != nil {
		<-s.slots
		s.logger.Error("error submitting query", "query", query, "err", err)
		monitor.Failed("submit", err)
		return []core.ScoredResult{}
	}

	select {
	case results := <-done:
		monitor.Finish(results)
		return results
	case <-ctx.Done():
		s.logger.Warn("query abandoned", "query", query, "err", ctx.Err())
		monitor.Failed("wait", ctx.Err())
		return []core.ScoredResult{}
	}
}

// search runs one query against snapshot. It executes on a pool worker.
func (s *Searcher) search(ctx context.Context, snapshot *index.Snapshot, query string, k int, monitor SearchMonitor) []core.ScoredResult {
	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		monitor.Failed("embed", err)
		return []core.ScoredResult{}
	}
	if snapshot.Index.Normalized() {
		vector = index.NormalizeVector(vector)
	}
	monitor.AfterQueryEmbedding(vector)

	hits, err := snapshot.Index.Search(vector, k)
	if err != nil {
		s.logger.Error("error searching index", "query", query, "version", snapshot.Version, "err", err)
		monitor.Failed("search", err)
		return []core.ScoredResult{}
	}
	monitor.AfterIndexSearch(snapshot, hits)

	results := make([]core.ScoredResult, 0, len(hits))
	for _, hit := range hits {
		doc := snapshot.Documents[hit.Row]
		score := ScoreFromDistance(float64(hit.Distance), s.distanceScale)
		if score < s.minScore {
			monitor.BelowFloor(doc, score, hit.Distance)
			continue
		}
		result := core.NewScoredResult(doc, score)
		monitor.Hit(result, hit.Distance)
		results = append(results, result)
	}

	s.logger.Debug("query answered", "query", query, "hits", len(hits), "results", len(results))
	return results
}
