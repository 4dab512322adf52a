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

package index

import "errors"

var (
	// ErrDimensionMismatch is returned when vectors of different sizes are mixed.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmptyVector is returned when a zero-length vector is indexed.
	ErrEmptyVector = errors.New("empty vector")

	// ErrMisaligned is returned when documents and index rows differ in count.
	ErrMisaligned = errors.New("documents and index rows are misaligned")

	// ErrNilIndex is returned when publishing without an index.
	ErrNilIndex = errors.New("index required")
)
