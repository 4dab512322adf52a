package index

import (
	"cmp"
	"fmt"
	"slices"
)

// Hit is one search result: the index row and its squared Euclidean distance
// to the query.
type Hit struct {
	Row      int
	Distance float32
}

// FlatIndex is an exact squared-L2 index. Vectors are stored contiguously in
// row order. A FlatIndex is safe for concurrent reads.
type FlatIndex struct {
	dim        int
	rows       int
	data       []float32
	normalized bool
}

// NewFlatIndex builds an index over a copy of vectors. All vectors must have
// the same non-zero length. No vectors yields a valid empty index.
func NewFlatIndex(vectors [][]float32) (*FlatIndex, error) {
	idx := &FlatIndex{rows: len(vectors)}
	if len(vectors) == 0 {
		return idx, nil
	}

	idx.dim = len(vectors[0])
	if idx.dim == 0 {
		return nil, fmt.Errorf("row 0: %w", ErrEmptyVector)
	}

	idx.data = make([]float32, 0, idx.dim*len(vectors))
	for row, vec := range vectors {
		if len(vec) == 0 {
			return nil, fmt.Errorf("row %d: %w", row, ErrEmptyVector)
		}
		if len(vec) != idx.dim {
			return nil, fmt.Errorf("row %d has %d values, want %d: %w", row, len(vec), idx.dim, ErrDimensionMismatch)
		}
		idx.data = append(idx.data, vec...)
	}
	return idx, nil
}

// NewNormalizedFlatIndex is NewFlatIndex over unit-length copies of vectors.
// Queries against it must be normalized too; see Normalized.
func NewNormalizedFlatIndex(vectors [][]float32) (*FlatIndex, error) {
	unit := make([][]float32, len(vectors))
	for row, vec := range vectors {
		unit[row] = NormalizeVector(vec)
	}
	idx, err := NewFlatIndex(unit)
	if err != nil {
		return nil, err
	}
	idx.normalized = true
	return idx, nil
}

// Normalized reports whether the index stores unit-length vectors.
func (f *FlatIndex) Normalized() bool {
	return f != nil && f.normalized
}

// Len returns the number of indexed vectors.
func (f *FlatIndex) Len() int {
	if f == nil {
		return 0
	}
	return f.rows
}

// Dimension returns the vector size, or 0 for an empty index.
func (f *FlatIndex) Dimension() int {
	if f == nil {
		return 0
	}
	return f.dim
}

// Vector returns a copy of the vector stored at row.
func (f *FlatIndex) Vector(row int) ([]float32, bool) {
	if f == nil || row < 0 || row >= f.rows {
		return nil, false
	}
	return slices.Clone(f.data[row*f.dim : (row+1)*f.dim]), true
}

// Search returns the min(k, Len()) rows closest to query, ordered by
// ascending distance. Equal distances are ordered by row.
func (f *FlatIndex) Search(query []float32, k int) ([]Hit, error) {
	if f.Len() == 0 || k <= 0 {
		return []Hit{}, nil
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("query has %d values, want %d: %w", len(query), f.dim, ErrDimensionMismatch)
	}

	hits := make([]Hit, f.rows)
	for row := range f.rows {
		hits[row] = Hit{Row: row, Distance: SquaredL2(query, f.data[row*f.dim:(row+1)*f.dim])}
	}
	slices.SortFunc(hits, func(a, b Hit) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Row, b.Row)
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// SquaredL2 returns the squared Euclidean distance between two vectors of
// equal length.
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
