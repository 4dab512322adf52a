package index

import "math"

// NormalizeVector returns a unit-length copy of v. The zero vector maps to a
// zero vector of the same length.
func NormalizeVector(v []float32) []float32 {
	result := make([]float32, len(v))

	var magnitude float64
	for _, val := range v {
		magnitude += float64(val) * float64(val)
	}
	if magnitude == 0 {
		return result
	}
	magnitude = math.Sqrt(magnitude)

	for i, val := range v {
		result[i] = float32(float64(val) / magnitude)
	}
	return result
}
