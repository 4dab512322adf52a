// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MarshalVector serializes a vector as its length followed by fixed-width
// float32 values.
func MarshalVector(vec []float32) []byte {
	size := varint.Int.Size(len(vec))
	for _, v := range vec {
		size += raw.Float32.Size(v)
	}
	buf := make([]byte, size)
	n := varint.Int.Marshal(len(vec), buf)
	for _, v := range vec {
		n += raw.Float32.Marshal(v, buf[n:])
	}
	return buf
}

// UnmarshalVector deserializes a vector written by MarshalVector.
func UnmarshalVector(data []byte) ([]float32, error) {
	length, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: vector length: %w", ErrSerializationFailed, err)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative vector length %d", ErrSerializationFailed, length)
	}
	if length > (len(data)-n)/4 {
		return nil, fmt.Errorf("%w: %d values declared, %d bytes left", ErrTruncatedData, length, len(data)-n)
	}

	vec := make([]float32, length)
	for i := range vec {
		v, m, err := raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: value %d: %w", ErrSerializationFailed, i, err)
		}
		vec[i] = v
		n += m
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return vec, nil
}

// MarshalManifest serializes a BuildManifest.
func MarshalManifest(m *BuildManifest) []byte {
	builtAt := m.BuiltAt.UnixMicro()
	size := ord.String.Size(m.Model) +
		ord.String.Size(m.BuildID) +
		varint.Uint64.Size(m.Version) +
		varint.Int.Size(m.Documents) +
		varint.Int.Size(m.Dimension) +
		varint.Int64.Size(builtAt)

	buf := make([]byte, size)
	n := ord.String.Marshal(m.Model, buf)
	n += ord.String.Marshal(m.BuildID, buf[n:])
	n += varint.Uint64.Marshal(m.Version, buf[n:])
	n += varint.Int.Marshal(m.Documents, buf[n:])
	n += varint.Int.Marshal(m.Dimension, buf[n:])
	varint.Int64.Marshal(builtAt, buf[n:])
	return buf
}

// UnmarshalManifest deserializes a BuildManifest.
func UnmarshalManifest(data []byte) (*BuildManifest, error) {
	var (
		m       BuildManifest
		builtAt int64
		n, k    int
		err     error
	)
	wrap := func(field string, err error) error {
		return fmt.Errorf("%w: manifest %s: %w", ErrSerializationFailed, field, err)
	}

	if m.Model, k, err = ord.String.Unmarshal(data); err != nil {
		return nil, wrap("model", err)
	}
	n += k
	if m.BuildID, k, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, wrap("build id", err)
	}
	n += k
	if m.Version, k, err = varint.Uint64.Unmarshal(data[n:]); err != nil {
		return nil, wrap("version", err)
	}
	n += k
	if m.Documents, k, err = varint.Int.Unmarshal(data[n:]); err != nil {
		return nil, wrap("documents", err)
	}
	n += k
	if m.Dimension, k, err = varint.Int.Unmarshal(data[n:]); err != nil {
		return nil, wrap("dimension", err)
	}
	n += k
	if builtAt, _, err = varint.Int64.Unmarshal(data[n:]); err != nil {
		return nil, wrap("built at", err)
	}
	m.BuiltAt = time.UnixMicro(builtAt).UTC()
	return &m, nil
}
