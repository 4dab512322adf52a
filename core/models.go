package core

import (
	"encoding/binary"
	"encoding/json"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Link is an outgoing link found on a scraped page.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// ContactInfo holds contact details, either attached to a single page or
// aggregated for the whole organization.
//
// All four keys are always serialized, empty or not; callers formatting
// contact answers rely on their presence.
type ContactInfo struct {
	Phone       []string    `json:"phone"`
	Email       []string    `json:"email"`
	Address     []string    `json:"address"`
	SocialMedia SocialMedia `json:"social_media"`
}

// EmptyContactInfo returns a ContactInfo with every field present and empty.
func EmptyContactInfo() ContactInfo {
	return ContactInfo{
		Phone:       []string{},
		Email:       []string{},
		Address:     []string{},
		SocialMedia: SocialMedia{},
	}
}

// IsEmpty reports whether no contact detail is set.
func (c ContactInfo) IsEmpty() bool {
	return len(c.Phone) == 0 && len(c.Email) == 0 && len(c.Address) == 0 && len(c.SocialMedia) == 0
}

// Normalized returns a copy where nil fields are replaced by empty values.
func (c ContactInfo) Normalized() ContactInfo {
	out := EmptyContactInfo()
	out.Phone = append(out.Phone, c.Phone...)
	out.Email = append(out.Email, c.Email...)
	out.Address = append(out.Address, c.Address...)
	for platform, url := range c.SocialMedia {
		out.SocialMedia[platform] = url
	}
	return out
}

// SocialMedia maps a platform name to a profile URL.
type SocialMedia map[string]string

// UnmarshalJSON accepts both the object form {"linkedin": "https://..."} and
// the list form [{"platform": "linkedin", "url": "https://..."}] produced by
// the scraper. For the list form the first URL seen for a platform wins.
func (s *SocialMedia) UnmarshalJSON(data []byte) error {
	var asMap map[string]string
	if err := json.Unmarshal(data, &asMap); err == nil {
		*s = SocialMedia(asMap)
		return nil
	}

	var asList []struct {
		Platform string `json:"platform"`
		URL      string `json:"url"`
	}
	if err := json.Unmarshal(data, &asList); err != nil {
		return err
	}
	out := make(SocialMedia, len(asList))
	for _, entry := range asList {
		if entry.Platform == "" {
			continue
		}
		if _, seen := out[entry.Platform]; !seen {
			out[entry.Platform] = entry.URL
		}
	}
	*s = out
	return nil
}

// Document is one scraped page prepared for indexing.
// Its position in the loaded collection is its row in the embedding index.
type Document struct {
	Content     string
	URL         string
	Title       string
	Links       []Link
	ContactInfo ContactInfo
}

// ScoredResult is a document returned by a knowledge search together with
// its relevance score (0-100, higher is more relevant).
type ScoredResult struct {
	Content        string
	URL            string
	Title          string
	RelevanceScore float64
	Links          []Link
	ContactInfo    ContactInfo
}

// NewScoredResult builds a result from a document and its score.
func NewScoredResult(doc Document, score float64) ScoredResult {
	return ScoredResult{
		Content:        doc.Content,
		URL:            doc.URL,
		Title:          doc.Title,
		RelevanceScore: score,
		Links:          doc.Links,
		ContactInfo:    doc.ContactInfo,
	}
}

// Need is a service category detected in user text.
type Need struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}
