// Package needs maps free text to service categories by keyword matching.
package needs

import (
	"strings"

	"github.com/poiesic/kbase/core"
)

// Table is an ordered list of categories. Order decides result order.
type Table []core.Category

// Detector finds the categories whose keywords appear in a text.
// It is immutable and safe for concurrent use.
type Detector struct {
	categories []core.Category
}

// NewDetector validates table and prepares a detector over a lower-cased
// copy of it. Blank keywords are ignored.
func NewDetector(table Table) (*Detector, error) {
	if err := core.ValidateCategories(table); err != nil {
		return nil, err
	}

	categories := make([]core.Category, len(table))
	for i, c := range table {
		keywords := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			if strings.TrimSpace(kw) == "" {
				continue
			}
			keywords = append(keywords, strings.ToLower(kw))
		}
		categories[i] = core.Category{Name: c.Name, URL: c.URL, Keywords: keywords}
	}
	return &Detector{categories: categories}, nil
}

// Detect returns, in table order, every category with at least one keyword
// occurring as a substring of the lower-cased text. Each category appears at
// most once.
func (d *Detector) Detect(text string) []core.Need {
	lowered := strings.ToLower(text)
	found := []core.Need{}
	for _, c := range d.categories {
		for _, kw := range c.Keywords {
			if strings.Contains(lowered, kw) {
				found = append(found, core.Need{Type: c.Name, URL: c.URL})
				break
			}
		}
	}
	return found
}

// Categories returns a copy of the detector's table.
func (d *Detector) Categories() Table {
	out := make(Table, len(d.categories))
	for i, c := range d.categories {
		out[i] = core.Category{Name: c.Name, URL: c.URL, Keywords: append([]string(nil), c.Keywords...)}
	}
	return out
}
