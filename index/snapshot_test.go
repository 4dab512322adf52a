package index

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/poiesic/kbase/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolderStartsUnindexed(t *testing.T) {
	h := NewHolder()
	assert.Nil(t, h.Current())
	assert.Equal(t, 0, h.Current().Len())
}

func TestHolderPublish(t *testing.T) {
	h := NewHolder()
	docs := []core.Document{{URL: "a"}, {URL: "b"}}
	idx, err := NewFlatIndex([][]float32{{1}, {2}})
	require.NoError(t, err)

	first, err := h.Publish(docs, idx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.Version)
	assert.NotEqual(t, uuid.Nil, first.BuildID)
	assert.False(t, first.BuiltAt.IsZero())
	assert.Same(t, first, h.Current())
	assert.Equal(t, first.Index.Len(), len(first.Documents))

	docs[0].URL = "changed"
	assert.Equal(t, "a", h.Current().Documents[0].URL)

	second, err := h.Publish(docs, idx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.Version)
	assert.NotEqual(t, first.BuildID, second.BuildID)
	assert.Same(t, second, h.Current())
}

func TestHolderRejectsBadInput(t *testing.T) {
	h := NewHolder()
	idx, err := NewFlatIndex([][]float32{{1}})
	require.NoError(t, err)

	_, err = h.Publish([]core.Document{{}, {}}, idx)
	assert.ErrorIs(t, err, ErrMisaligned)

	_, err = h.Publish(nil, nil)
	assert.ErrorIs(t, err, ErrNilIndex)

	assert.Nil(t, h.Current())
}

func TestHolderConcurrentReaders(t *testing.T) {
	h := NewHolder()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if snap := h.Current(); snap != nil {
					assert.Equal(t, snap.Index.Len(), len(snap.Documents))
				}
			}
		}()
	}

	for n := 1; n <= 10; n++ {
		docs := make([]core.Document, n)
		vectors := make([][]float32, n)
		for i := range vectors {
			vectors[i] = []float32{float32(i)}
		}
		idx, err := NewFlatIndex(vectors)
		require.NoError(t, err)
		_, err = h.Publish(docs, idx)
		require.NoError(t, err)
	}
	wg.Wait()

	assert.Equal(t, uint64(10), h.Current().Version)
}
