package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFlatIndex(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		idx, err := NewFlatIndex(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, idx.Len())
		assert.Equal(t, 0, idx.Dimension())

		hits, err := idx.Search([]float32{1, 2, 3}, 5)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("copies input", func(t *testing.T) {
		vectors := [][]float32{{1, 2}, {3, 4}}
		idx, err := NewFlatIndex(vectors)
		require.NoError(t, err)

		vectors[0][0] = 99
		vec, ok := idx.Vector(0)
		require.True(t, ok)
		assert.Equal(t, []float32{1, 2}, vec)

		vec[1] = 42
		again, _ := idx.Vector(0)
		assert.Equal(t, []float32{1, 2}, again)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := NewFlatIndex([][]float32{{1, 2}, {1, 2, 3}})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("empty vector", func(t *testing.T) {
		_, err := NewFlatIndex([][]float32{{}})
		assert.ErrorIs(t, err, ErrEmptyVector)

		_, err = NewFlatIndex([][]float32{{1}, {}})
		assert.ErrorIs(t, err, ErrEmptyVector)
	})
}

func TestFlatIndexVectorBounds(t *testing.T) {
	idx, err := NewFlatIndex([][]float32{{1}})
	require.NoError(t, err)

	_, ok := idx.Vector(-1)
	assert.False(t, ok)
	_, ok = idx.Vector(1)
	assert.False(t, ok)

	var nilIndex *FlatIndex
	assert.Equal(t, 0, nilIndex.Len())
	_, ok = nilIndex.Vector(0)
	assert.False(t, ok)
}

func TestFlatIndexSearch(t *testing.T) {
	idx, err := NewFlatIndex([][]float32{
		{2, 2, 0},
		{1, 0.5, 0.5},
		{0, 0, 0},
		{0, 0, 0},
	})
	require.NoError(t, err)

	t.Run("ascending distance with row tie-break", func(t *testing.T) {
		hits, err := idx.Search([]float32{0, 0, 0}, 10)
		require.NoError(t, err)
		require.Len(t, hits, 4)

		assert.Equal(t, Hit{Row: 2, Distance: 0}, hits[0])
		assert.Equal(t, Hit{Row: 3, Distance: 0}, hits[1])
		assert.Equal(t, 1, hits[2].Row)
		assert.InDelta(t, 1.5, hits[2].Distance, 1e-6)
		assert.Equal(t, 0, hits[3].Row)
		assert.InDelta(t, 8.0, hits[3].Distance, 1e-6)
	})

	t.Run("limits to k", func(t *testing.T) {
		hits, err := idx.Search([]float32{0, 0, 0}, 2)
		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})

	t.Run("non-positive k", func(t *testing.T) {
		hits, err := idx.Search([]float32{0, 0, 0}, 0)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("query dimension mismatch", func(t *testing.T) {
		_, err := idx.Search([]float32{0, 0}, 1)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}

func TestFlatIndexSearchDeterministic(t *testing.T) {
	vectors := [][]float32{{0.3, 0.1}, {0.9, 0.2}, {0.1, 0.1}, {0.5, 0.5}}
	a, err := NewFlatIndex(vectors)
	require.NoError(t, err)
	b, err := NewFlatIndex(vectors)
	require.NoError(t, err)

	query := []float32{0.2, 0.2}
	hitsA, err := a.Search(query, 3)
	require.NoError(t, err)
	hitsB, err := b.Search(query, 3)
	require.NoError(t, err)
	assert.Equal(t, hitsA, hitsB)

	for row := range vectors {
		va, _ := a.Vector(row)
		vb, _ := b.Vector(row)
		assert.Equal(t, va, vb)
	}
}

func TestSquaredL2(t *testing.T) {
	assert.Equal(t, float32(0), SquaredL2([]float32{1, 2}, []float32{1, 2}))
	assert.Equal(t, float32(25), SquaredL2([]float32{0, 0}, []float32{3, 4}))
}

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
	}{
		{"unit axis", []float32{0, 2, 0}},
		{"mixed signs", []float32{-1, 1, 1, -1}},
		{"tiny values", []float32{1e-20, 1e-20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NormalizeVector(tt.in)
			assert.InDelta(t, 1.0, SquaredL2(out, make([]float32, len(out))), 1e-5)
		})
	}

	t.Run("zero vector", func(t *testing.T) {
		assert.Equal(t, []float32{0, 0}, NormalizeVector([]float32{0, 0}))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
	})

	t.Run("input untouched", func(t *testing.T) {
		in := []float32{3, 4}
		NormalizeVector(in)
		assert.Equal(t, []float32{3, 4}, in)
	})
}

func TestNewNormalizedFlatIndex(t *testing.T) {
	idx, err := NewNormalizedFlatIndex([][]float32{{3, 4}, {0, 5}})
	require.NoError(t, err)
	assert.True(t, idx.Normalized())

	vec, ok := idx.Vector(0)
	require.True(t, ok)
	assert.InDelta(t, 0.6, vec[0], 1e-6)
	assert.InDelta(t, 0.8, vec[1], 1e-6)

	hits, err := idx.Search(NormalizeVector([]float32{6, 8}), 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Row)
	assert.InDelta(t, 0, hits[0].Distance, 1e-6)

	plain, err := NewFlatIndex([][]float32{{3, 4}})
	require.NoError(t, err)
	assert.False(t, plain.Normalized())
	assert.False(t, (*FlatIndex)(nil).Normalized())
}
