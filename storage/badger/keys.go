package badger

import (
	"encoding/binary"

	"github.com/poiesic/kbase/core"
)

// Key prefixes for different data types
const (
	vectorPrefix   = "vec:"
	manifestPrefix = "man:"
)

// modelID reduces a model name to a fixed-size key component.
func modelID(model string) core.ID {
	return core.IDFromContent(model)
}

// makeModelVectorPrefix generates the prefix shared by all vectors of a model.
// Format: prefix:modelID
func makeModelVectorPrefix(model string) []byte {
	buf := make([]byte, len(vectorPrefix)+8)
	offset := copy(buf, vectorPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(modelID(model)))
	return buf
}

// makeVectorKey generates the key of one cached vector.
// Format: prefix:modelID:contentID
func makeVectorKey(model string, id core.ID) []byte {
	prefix := makeModelVectorPrefix(model)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeManifestKey generates the key of a model's build manifest.
func makeManifestKey(model string) []byte {
	buf := make([]byte, len(manifestPrefix)+8)
	offset := copy(buf, manifestPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(modelID(model)))
	return buf
}
