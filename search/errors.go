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

package search

import "errors"

var (
	// ErrSnapshotSourceRequired is returned when no snapshot source is provided.
	ErrSnapshotSourceRequired = errors.New("snapshot source required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrInvalidDistanceScale is returned for a non-positive distance scale.
	ErrInvalidDistanceScale = errors.New("distance scale must be greater than 0")

	// ErrInvalidMinScore is returned for a relevance floor outside [0, 100].
	ErrInvalidMinScore = errors.New("minimum score must be between 0 and 100")
)
