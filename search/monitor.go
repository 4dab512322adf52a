package search

import (
	"github.com/poiesic/kbase/core"
	"github.com/poiesic/kbase/index"
)

// SearchMonitor provides hooks to observe the search process.
// Callbacks after Start run on a pool worker, so implementations must be
// safe for use from another goroutine.
type SearchMonitor interface {
	Start(query string, k int)
	AfterQueryEmbedding(vector []float32)
	AfterIndexSearch(snapshot *index.Snapshot, hits []index.Hit)
	Hit(result core.ScoredResult, distance float32)
	BelowFloor(doc core.Document, score float64, distance float32)
	Failed(stage string, err error)
	Finish(results []core.ScoredResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)                           {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)                 {}
func (n *noopMonitor) AfterIndexSearch(_ *index.Snapshot, _ []index.Hit) {}
func (n *noopMonitor) Hit(_ core.ScoredResult, _ float32)              {}
func (n *noopMonitor) BelowFloor(_ core.Document, _ float64, _ float32) {}
func (n *noopMonitor) Failed(_ string, _ error)                        {}
func (n *noopMonitor) Finish(_ []core.ScoredResult)                    {}
