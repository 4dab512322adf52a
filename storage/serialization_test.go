package storage

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalVector(t *testing.T) {
	vec := []float32{0, -1.5, 3.25, math.MaxFloat32, float32(math.SmallestNonzeroFloat32)}

	data := MarshalVector(vec)
	assert.Len(t, data, 1+4*len(vec))

	decoded, err := UnmarshalVector(data)
	require.NoError(t, err)
	assert.Equal(t, vec, decoded)
}

func TestMarshalVector_Empty(t *testing.T) {
	data := MarshalVector(nil)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalVector(data)
	require.NoError(t, err)
	assert.NotNil(t, decoded)
	assert.Empty(t, decoded)
}

func TestUnmarshalVector_Invalid(t *testing.T) {
	valid := MarshalVector([]float32{1, 2, 3})

	t.Run("empty data", func(t *testing.T) {
		_, err := UnmarshalVector([]byte{})
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})

	t.Run("truncated values", func(t *testing.T) {
		_, err := UnmarshalVector(valid[:len(valid)-2])
		assert.ErrorIs(t, err, ErrTruncatedData)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		data := append(append([]byte{}, valid...), 0xff)
		_, err := UnmarshalVector(data)
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}

func TestMarshalManifest(t *testing.T) {
	builtAt := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)
	m := &BuildManifest{
		Model:     "paraphrase-multilingual",
		BuildID:   "3f1c8a1e-2b9e-4c55-9f3b-6f1a3b0c9d21",
		Version:   7,
		Documents: 42,
		Dimension: 768,
		BuiltAt:   builtAt,
	}

	decoded, err := UnmarshalManifest(MarshalManifest(m))
	require.NoError(t, err)
	assert.Equal(t, m.Model, decoded.Model)
	assert.Equal(t, m.BuildID, decoded.BuildID)
	assert.Equal(t, m.Version, decoded.Version)
	assert.Equal(t, m.Documents, decoded.Documents)
	assert.Equal(t, m.Dimension, decoded.Dimension)
	assert.True(t, builtAt.Equal(decoded.BuiltAt))
}

func TestUnmarshalManifest_Truncated(t *testing.T) {
	data := MarshalManifest(&BuildManifest{Model: "m", BuildID: "b", Documents: 1})

	_, err := UnmarshalManifest(data[:2])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
