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

package openai

import (
	"log/slog"

	"github.com/poiesic/kbase/ai"
)

// Provider serves embeddings from one model of an OpenAI-compatible server.
type Provider struct {
	model    string
	host     string
	embedder *Embedder
	logger   *slog.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithLogger sets the logger of the provider and its embedder.
// nil means slog.Default().
func WithLogger(logger *slog.Logger) ProviderOption {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProvider validates config and creates a provider for its embedding model.
func NewProvider(config *ai.Config, opts ...ProviderOption) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	p := &Provider{
		model:  config.EmbeddingModel,
		host:   config.EmbeddingHost,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	embedder, err := newEmbedder(config, p.logger)
	if err != nil {
		return nil, err
	}
	p.embedder = embedder
	p.logger = p.logger.With("component", "openai-provider")
	p.logger.Debug("embedding provider ready", "host", p.host, "model", p.model)
	return p, nil
}

// Embedder returns the embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// ModelName returns the embedding model identifier.
func (p *Provider) ModelName() string {
	return p.model
}

// Close is a no-op; the HTTP client holds no resources.
func (p *Provider) Close() error {
	return nil
}
