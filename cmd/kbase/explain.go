package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/kbase/core"
	"github.com/poiesic/kbase/index"
	"github.com/poiesic/kbase/search"
)

// explainMonitor prints each stage of a search.
type explainMonitor struct {
	mu    sync.Mutex
	out   io.Writer
	start time.Time
}

var _ search.SearchMonitor = (*explainMonitor)(nil)

func newExplainMonitor(out io.Writer) *explainMonitor {
	return &explainMonitor{out: out}
}

// monitorOrNil avoids handing a typed nil to the searcher.
func monitorOrNil(m *explainMonitor) search.SearchMonitor {
	if m == nil {
		return nil
	}
	return m
}

func (m *explainMonitor) printf(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintf(m.out, format, args...)
}

func (m *explainMonitor) Start(query string, k int) {
	m.start = time.Now()
	m.printf("query %q, k=%d\n", query, k)
}

func (m *explainMonitor) AfterQueryEmbedding(vector []float32) {
	m.printf("embedded query: %d dimensions (%s)\n", len(vector), time.Since(m.start))
}

func (m *explainMonitor) AfterIndexSearch(snapshot *index.Snapshot, hits []index.Hit) {
	m.printf("index version %d: %d candidates among %d documents\n", snapshot.Version, len(hits), snapshot.Len())
}

func (m *explainMonitor) Hit(result core.ScoredResult, distance float32) {
	m.printf("  kept    %6.2f  d=%.4f  %s\n", result.RelevanceScore, distance, result.URL)
}

func (m *explainMonitor) BelowFloor(doc core.Document, score float64, distance float32) {
	m.printf("  dropped %6.2f  d=%.4f  %s\n", score, distance, doc.URL)
}

func (m *explainMonitor) Failed(stage string, err error) {
	m.printf("failed at %s: %v\n", stage, err)
}

func (m *explainMonitor) Finish(results []core.ScoredResult) {
	m.printf("%d results in %s\n\n", len(results), time.Since(m.start))
}
