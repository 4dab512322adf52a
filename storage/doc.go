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

// Package storage provides the persistence abstractions of the knowledge base.
//
// The index itself lives in memory and is rebuilt from the corpus, but
// computing embeddings is the expensive part of a build. VectorCache keeps
// the embedding of every passage keyed by the embedding model and a hash of
// the passage text, so a rebuild over an unchanged corpus only embeds what
// changed. The cache also records a BuildManifest describing the last
// successful build for each model.
//
// # Architecture
//
//   - VectorCache: cached embeddings and build manifests
//   - MarshalVector / MarshalManifest: compact binary encodings (mus-go)
//   - badger: BadgerDB implementation, on disk or in memory
//
// # Usage
//
//	cache, err := badger.OpenVectorCache("/var/cache/kbase", logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cache.Close()
//
//	hits, err := cache.GetVectors(ctx, "paraphrase-multilingual", ids...)
//
// Use in tests with in-memory storage:
//
//	cache, err := badger.NewMemoryVectorCache()
//
// # Thread Safety
//
// All implementations must be safe for concurrent use.
//
// # Context Support
//
// All methods accept context.Context and return its error once it is done.
package storage
