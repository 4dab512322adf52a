package openai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/poiesic/kbase/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// blankInput replaces empty passages; the embeddings endpoint rejects "".
const blankInput = " "

// Embedder turns passages and queries into vectors through the /embeddings
// endpoint of an OpenAI-compatible server.
type Embedder struct {
	client embeddings.Embedder
	model  string
	logger *slog.Logger
}

func newEmbedder(config *ai.Config, logger *slog.Logger) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	llm, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(config.Token),
		openai.WithEmbeddingModel(config.EmbeddingModel),
		openai.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating client for %s: %w", config.EmbeddingHost, err)
	}

	client, err := embeddings.NewEmbedder(llm, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		client: client,
		model:  config.EmbeddingModel,
		logger: logger.With("component", "openai-embedder", "model", config.EmbeddingModel),
	}, nil
}

// NewEmbedder creates an embedder for config.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config, slog.Default())
}

// EmbedText embeds a search query.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.client.EmbedQuery(ctx, orBlank(text))
	if err != nil {
		e.logger.Error("error embedding query", "length", len(text), "err", err)
		return nil, err
	}
	if len(vector) == 0 {
		return nil, ai.ErrEmptyEmbedding
	}
	return vector, nil
}

// EmbedTexts embeds passages in one request, preserving their order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	inputs := make([]string, len(texts))
	for i, text := range texts {
		inputs[i] = orBlank(text)
	}

	e.logger.Debug("embedding passages", "count", len(inputs))
	vectors, err := e.client.EmbedDocuments(ctx, inputs)
	if err != nil {
		e.logger.Error("error embedding passages", "count", len(inputs), "err", err)
		return nil, err
	}
	if len(vectors) != len(inputs) {
		return nil, fmt.Errorf("%w: %d vectors for %d passages", ai.ErrEmbeddingCount, len(vectors), len(inputs))
	}
	for i, vector := range vectors {
		if len(vector) == 0 {
			return nil, fmt.Errorf("passage %d: %w", i, ai.ErrEmptyEmbedding)
		}
	}
	return vectors, nil
}

func orBlank(text string) string {
	if strings.TrimSpace(text) == "" {
		return blankInput
	}
	return text
}
