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

// Package ai defines the embedding services the knowledge base depends on.
//
// Pages are embedded once per index build and each query is embedded at
// search time, always with the same model. Embedder is the only capability
// required; AIProvider ties it to a model name and a lifecycle.
//
// ai/openai talks to OpenAI-compatible servers. ai/mock provides
// deterministic doubles for tests.
//
// Config carries the connection settings and follows the functional options
// pattern:
//
//	cfg := ai.NewConfig(ai.WithEmbeddingModel("nomic-embed-text"))
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package ai
