package core

import (
	"encoding/json"
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "Titre: Sauvegarde Cloud",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "accented content",
			content:  "Description: stockage et sauvegarde de données hébergées en France",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestSocialMedia_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  SocialMedia
	}{
		{
			name:  "object form",
			input: `{"linkedin": "https://linkedin.com/company/it-work", "facebook": "https://facebook.com/itwork"}`,
			want: SocialMedia{
				"linkedin": "https://linkedin.com/company/it-work",
				"facebook": "https://facebook.com/itwork",
			},
		},
		{
			name:  "list form keeps first url per platform",
			input: `[{"platform": "twitter", "url": "https://twitter.com/a"}, {"platform": "twitter", "url": "https://twitter.com/b"}]`,
			want:  SocialMedia{"twitter": "https://twitter.com/a"},
		},
		{
			name:  "list form skips entries without platform",
			input: `[{"url": "https://example.com"}]`,
			want:  SocialMedia{},
		},
		{
			name:  "empty list",
			input: `[]`,
			want:  SocialMedia{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SocialMedia
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Unmarshal() = %v, want %v", got, tt.want)
			}
			for platform, url := range tt.want {
				if got[platform] != url {
					t.Errorf("Unmarshal()[%q] = %q, want %q", platform, got[platform], url)
				}
			}
		})
	}
}

func TestSocialMedia_UnmarshalJSON_Invalid(t *testing.T) {
	var got SocialMedia
	if err := json.Unmarshal([]byte(`"linkedin"`), &got); err == nil {
		t.Errorf("Unmarshal() expected error for a bare string")
	}
}

func TestEmptyContactInfo_KeysPresent(t *testing.T) {
	data, err := json.Marshal(EmptyContactInfo())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := map[string]string{
		"phone":        "[]",
		"email":        "[]",
		"address":      "[]",
		"social_media": "{}",
	}
	for key, raw := range want {
		got, ok := decoded[key]
		if !ok {
			t.Errorf("key %q missing from %s", key, data)
			continue
		}
		if string(got) != raw {
			t.Errorf("key %q = %s, want %s", key, got, raw)
		}
	}
}

func TestContactInfo_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		info ContactInfo
		want bool
	}{
		{name: "zero value", info: ContactInfo{}, want: true},
		{name: "empty constructor", info: EmptyContactInfo(), want: true},
		{name: "phone only", info: ContactInfo{Phone: []string{"01 23 45 67 89"}}, want: false},
		{name: "social only", info: ContactInfo{SocialMedia: SocialMedia{"x": "https://x.com/a"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContactInfo_Normalized(t *testing.T) {
	info := ContactInfo{Email: []string{"contact@it-work.fr"}}
	got := info.Normalized()

	if got.Phone == nil || got.Address == nil || got.SocialMedia == nil {
		t.Fatalf("Normalized() left nil fields: %+v", got)
	}
	if len(got.Email) != 1 || got.Email[0] != "contact@it-work.fr" {
		t.Errorf("Normalized() Email = %v", got.Email)
	}

	got.Email[0] = "changed"
	if info.Email[0] != "contact@it-work.fr" {
		t.Errorf("Normalized() shares backing array with the original")
	}
}

func TestNewScoredResult(t *testing.T) {
	doc := Document{
		Content: "Titre: VoIP",
		URL:     "https://it-work.fr/voip/",
		Title:   "VoIP",
		Links:   []Link{{Text: "Contact", URL: "https://it-work.fr/contact/"}},
	}

	got := NewScoredResult(doc, 72.5)
	if got.URL != doc.URL || got.Title != doc.Title || got.Content != doc.Content {
		t.Errorf("NewScoredResult() = %+v", got)
	}
	if got.RelevanceScore != 72.5 {
		t.Errorf("NewScoredResult() score = %v, want 72.5", got.RelevanceScore)
	}
	if len(got.Links) != 1 {
		t.Errorf("NewScoredResult() links = %v", got.Links)
	}
}
