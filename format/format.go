// Package format renders retrieval results as grounding text for a language
// model prompt. Output is deterministic for identical input.
package format

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/kbase/core"
)

// NoResultsMessage is returned when there is nothing to format.
const NoResultsMessage = "Je n'ai pas trouvé d'information pertinente pour votre demande."

const (
	// ExcerptRunes is the length of the content excerpt of each result.
	ExcerptRunes = 500

	// MaxLinks is the number of links listed per result.
	MaxLinks = 3
)

// KnowledgeResponse formats results, most relevant first. Results with equal
// scores keep their relative order. The input slice is not modified.
func KnowledgeResponse(results []core.ScoredResult) string {
	if len(results) == 0 {
		return NoResultsMessage
	}

	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b core.ScoredResult) int {
		switch {
		case a.RelevanceScore > b.RelevanceScore:
			return -1
		case a.RelevanceScore < b.RelevanceScore:
			return 1
		}
		return 0
	})

	var lines []string
	for _, r := range sorted {
		lines = append(lines,
			fmt.Sprintf("\nSource: %s (%s)", r.Title, r.URL),
			fmt.Sprintf("Contenu pertinent: %s...", Excerpt(r.Content, ExcerptRunes)),
		)

		if len(r.Links) > 0 {
			lines = append(lines, "\nLiens utiles:")
			for _, link := range r.Links[:min(len(r.Links), MaxLinks)] {
				lines = append(lines, fmt.Sprintf("- %s: %s", link.Text, link.URL))
			}
		}

		if !r.ContactInfo.IsEmpty() {
			lines = append(lines, "\nInformations de contact:")
			if len(r.ContactInfo.Phone) > 0 {
				lines = append(lines, "Téléphone: "+strings.Join(r.ContactInfo.Phone, ", "))
			}
			if len(r.ContactInfo.Email) > 0 {
				lines = append(lines, "Email: "+strings.Join(r.ContactInfo.Email, ", "))
			}
		}
	}

	return strings.Join(lines, "\n")
}

// Excerpt returns the first n characters of s. It never splits a multi-byte
// character.
func Excerpt(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
