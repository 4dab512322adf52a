package search

import "math"

const (
	// DefaultK is the number of results requested when k <= 0.
	DefaultK = 5

	// DefaultDistanceScale is the squared distance at which the score reaches 0.
	DefaultDistanceScale = 10.0

	// DefaultMinScore is the relevance floor below which results are dropped.
	DefaultMinScore = 30.0
)

// ScoreFromDistance rescales a squared distance to a relevance score in
// [0, 100]: 100 at distance 0, 0 at distance >= scale. A non-positive scale
// means DefaultDistanceScale.
func ScoreFromDistance(distance, scale float64) float64 {
	if scale <= 0 {
		scale = DefaultDistanceScale
	}
	if math.IsNaN(distance) {
		return 0
	}
	score := (1 - distance/scale) * 100
	return max(0, min(100, score))
}
