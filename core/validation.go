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

import (
	"fmt"
	"strings"
)

// Category is one entry of the needs keyword table: a service category,
// its canonical page and the keywords that reveal it.
type Category struct {
	Name     string   `yaml:"name"`
	URL      string   `yaml:"url"`
	Keywords []string `yaml:"keywords"`
}

// ValidateCategory validates a Category according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - URL must not be empty
//   - At least one keyword must be non-blank
func ValidateCategory(category *Category) error {
	if category == nil {
		return fmt.Errorf("%w: category is nil", ErrInvalidCategory)
	}

	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCategory, ErrEmptyCategoryName)
	}

	if strings.TrimSpace(category.URL) == "" {
		return fmt.Errorf("%w %q: %w", ErrInvalidCategory, category.Name, ErrEmptyCategoryURL)
	}

	for _, keyword := range category.Keywords {
		if strings.TrimSpace(keyword) != "" {
			return nil
		}
	}
	return fmt.Errorf("%w %q: %w", ErrInvalidCategory, category.Name, ErrNoKeywords)
}

// ValidateCategories validates every category and rejects duplicate names.
func ValidateCategories(categories []Category) error {
	seen := make(map[string]bool, len(categories))
	for i := range categories {
		if err := ValidateCategory(&categories[i]); err != nil {
			return err
		}
		if seen[categories[i].Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, categories[i].Name)
		}
		seen[categories[i].Name] = true
	}
	return nil
}
