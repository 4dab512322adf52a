package corpus

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/poiesic/kbase/core"
)

// Record is the on-disk shape of one scraped page. Every field except URL is
// optional and defaults to its zero value.
type Record struct {
	URL             string            `json:"url" validate:"required"`
	Title           string            `json:"title"`
	MetaDescription string            `json:"meta_description"`
	MainContent     []ContentBlock    `json:"main_content"`
	Links           []core.Link       `json:"links"`
	ContactInfo     *core.ContactInfo `json:"contact_info"`
	Timestamp       string            `json:"timestamp"`
}

// ContentBlock is one extracted body element of a page.
type ContentBlock struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// UnmarshalJSON decodes a record, ignoring main_content entries that are not
// objects.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var raw struct {
		plain
		MainContent []json.RawMessage `json:"main_content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record(raw.plain)
	r.MainContent = make([]ContentBlock, 0, len(raw.MainContent))
	for _, item := range raw.MainContent {
		var block ContentBlock
		if err := json.Unmarshal(item, &block); err != nil {
			continue
		}
		r.MainContent = append(r.MainContent, block)
	}
	return nil
}

// ParseRecord decodes and validates one page record.
func ParseRecord(data []byte, validate *validator.Validate) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if err := validate.Struct(&rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return &rec, nil
}

// Content builds the indexed text of the page: the title, the meta
// description and every non-empty body block, space-joined.
func (r *Record) Content() string {
	parts := make([]string, 0, len(r.MainContent)+2)
	if r.Title != "" {
		parts = append(parts, "Titre: "+r.Title)
	}
	if r.MetaDescription != "" {
		parts = append(parts, "Description: "+r.MetaDescription)
	}
	for _, block := range r.MainContent {
		if block.Content == "" {
			continue
		}
		parts = append(parts, block.Content)
	}
	return strings.Join(parts, " ")
}

// Document converts the record into its indexed form.
func (r *Record) Document() core.Document {
	contact := core.EmptyContactInfo()
	if r.ContactInfo != nil {
		contact = r.ContactInfo.Normalized()
	}
	links := r.Links
	if links == nil {
		links = []core.Link{}
	}
	return core.Document{
		Content:     r.Content(),
		URL:         r.URL,
		Title:       r.Title,
		Links:       links,
		ContactInfo: contact,
	}
}
