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

// Package search implements knowledge retrieval over the published index.
//
// A query is embedded with the same model that built the index, the closest
// rows are looked up in the current snapshot and each hit's squared distance
// is rescaled to a 0-100 relevance score:
//
//	score = clamp(0, 100, (1 - distance/scale) * 100)
//
// Hits scoring below the relevance floor are dropped. The work of each query
// runs as a task on a bounded worker pool and the caller waits only on its
// own task or its context.
//
// SearchKnowledge never fails: an unindexed knowledge base, an empty index,
// an embedding or search error and an expired context all yield an empty
// result, with the cause logged.
package search
