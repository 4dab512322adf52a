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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidCategory indicates a needs Category failed validation.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrEmptyCategoryName indicates the category Name field is empty.
	ErrEmptyCategoryName = errors.New("category name cannot be empty")

	// ErrEmptyCategoryURL indicates the category URL field is empty.
	ErrEmptyCategoryURL = errors.New("category url cannot be empty")

	// ErrNoKeywords indicates a category without any usable keyword.
	ErrNoKeywords = errors.New("category needs at least one keyword")

	// ErrDuplicateCategory indicates two categories share a name.
	ErrDuplicateCategory = errors.New("duplicate category")
)
