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

package ai

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultEmbeddingHost is a local Ollama server.
	DefaultEmbeddingHost = "http://localhost:11434/v1"

	// DefaultEmbeddingModel handles French text.
	DefaultEmbeddingModel = "paraphrase-multilingual"

	// DefaultTimeout bounds one embedding request.
	DefaultTimeout = 60 * time.Second

	// anonymousToken is accepted by local servers that ignore authentication.
	anonymousToken = "none"
)

var (
	// ErrHostRequired indicates an empty embedding host.
	ErrHostRequired = errors.New("ai config: EmbeddingHost is required")

	// ErrModelRequired indicates an empty embedding model.
	ErrModelRequired = errors.New("ai config: EmbeddingModel is required")
)

// Config locates the embedding service.
type Config struct {
	// EmbeddingHost is the base URL of an OpenAI-compatible API, ending in /v1.
	EmbeddingHost string

	// EmbeddingModel names the model on that server.
	EmbeddingModel string

	// Token is sent as the bearer token.
	Token string

	// Timeout bounds each HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service base URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithToken sets the bearer token.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig targets a local Ollama server.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:  DefaultEmbeddingHost,
		EmbeddingModel: DefaultEmbeddingModel,
		Token:          anonymousToken,
		Timeout:        DefaultTimeout,
	}
}

// NewConfig applies opts to DefaultConfig.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize puts the config in canonical form: the host ends in /v1, which
// OpenAI-compatible servers expect, and empty fields take their defaults.
func (c *Config) Normalize() {
	c.EmbeddingHost = strings.TrimSpace(c.EmbeddingHost)
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/") + "/v1"
	}
	c.EmbeddingModel = strings.TrimSpace(c.EmbeddingModel)
	if c.Token == "" {
		c.Token = anonymousToken
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate normalizes the config and checks it is usable.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return ErrHostRequired
	}
	if u, err := url.Parse(c.EmbeddingHost); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ai config: invalid EmbeddingHost %q", c.EmbeddingHost)
	}
	if c.EmbeddingModel == "" {
		return ErrModelRequired
	}
	return nil
}
