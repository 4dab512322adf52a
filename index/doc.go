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

// Package index holds the embedding index of the knowledge base.
//
// FlatIndex is an exact nearest-neighbor structure over fixed-dimension
// vectors using squared Euclidean distance. It is immutable once built: a
// rebuild creates a new index rather than modifying the current one.
//
// Snapshot pairs an index with the documents it was built from, row i of the
// index being the embedding of Documents[i]. Holder publishes snapshots with
// an atomic pointer swap so readers always observe one complete snapshot and
// never need a lock.
//
//	idx, err := index.NewFlatIndex(vectors)
//	snap, err := holder.Publish(docs, idx)
//	hits, err := holder.Current().Index.Search(query, 5)
package index
