package core

import (
	"errors"
	"testing"
)

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		name     string
		category *Category
		wantErr  error
	}{
		{
			name: "valid category",
			category: &Category{
				Name:     "cloud",
				URL:      "https://it-work.fr/cloud/",
				Keywords: []string{"cloud", "serveur"},
			},
			wantErr: nil,
		},
		{
			name:     "nil category",
			category: nil,
			wantErr:  ErrInvalidCategory,
		},
		{
			name: "blank name",
			category: &Category{
				Name:     "  ",
				URL:      "https://it-work.fr/cloud/",
				Keywords: []string{"cloud"},
			},
			wantErr: ErrEmptyCategoryName,
		},
		{
			name: "missing url",
			category: &Category{
				Name:     "voip",
				Keywords: []string{"voip"},
			},
			wantErr: ErrEmptyCategoryURL,
		},
		{
			name: "only blank keywords",
			category: &Category{
				Name:     "voip",
				URL:      "https://it-work.fr/voip/",
				Keywords: []string{"", " "},
			},
			wantErr: ErrNoKeywords,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCategory(tt.category)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCategory() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCategory() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidCategory) {
				t.Errorf("ValidateCategory() error should wrap ErrInvalidCategory, got %v", err)
			}
		})
	}
}

func TestValidateCategories_Duplicate(t *testing.T) {
	categories := []Category{
		{Name: "cloud", URL: "https://it-work.fr/cloud/", Keywords: []string{"cloud"}},
		{Name: "cloud", URL: "https://it-work.fr/cloud/", Keywords: []string{"serveur"}},
	}

	err := ValidateCategories(categories)
	if !errors.Is(err, ErrDuplicateCategory) {
		t.Errorf("ValidateCategories() error = %v, want %v", err, ErrDuplicateCategory)
	}
}

func TestValidateCategories_Valid(t *testing.T) {
	categories := []Category{
		{Name: "cloud", URL: "https://it-work.fr/cloud/", Keywords: []string{"cloud"}},
		{Name: "voip", URL: "https://it-work.fr/voip/", Keywords: []string{"voip"}},
	}

	if err := ValidateCategories(categories); err != nil {
		t.Errorf("ValidateCategories() unexpected error = %v", err)
	}
}
