package ai

import "context"

// Embedder maps text to points of a fixed-dimension vector space in which
// related texts lie close to each other.
// Implementations must be safe for concurrent use.
type Embedder interface {
	// EmbedText embeds a single query.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts embeds passages in one call. The i-th vector belongs to the
	// i-th text and every vector has the same dimension.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// AIProvider owns an Embedder and the model behind it.
type AIProvider interface {
	Embedder() Embedder

	// ModelName identifies the embedding model. Vectors of different models
	// are never compared, and caches key their entries by this name.
	ModelName() string

	// Close releases the provider. Its Embedder must not be used afterwards.
	Close() error
}
