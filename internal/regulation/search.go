// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package regulation

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/regulation-server/internal/record"
	"github.com/pdiddy/regulation-server/pkg/types"
)

const (
	// snippetContext is the number of characters kept on each side of a match.
	snippetContext = 100
	// snippetFallback is the length of the snippet used when the keyword
	// cannot be located in the matched text.
	snippetFallback = 2 * snippetContext
	ellipsis        = "..."
)

// match is one field of a regulation that contains the keywords.
type match struct {
	kind    types.MatchType
	snippet string
}

// Search returns the regulations whose name, summary, article titles,
// article summaries, or developer guidance contain keywords as a substring,
// compared after normalization. Each regulation appears at most once, with
// the first matching field (in that order) as its primary match.
//
// Results are ordered by match type: name, then summary, then articles, then
// guidance. Ties keep store order. Blank keywords match nothing.
func (s *Store) Search(keywords string) []types.SearchResult {
	kw := record.Normalize(keywords)
	if kw == "" {
		return nil
	}

	var results []types.SearchResult
	for _, id := range s.order {
		reg := s.byID[id]
		matches := matchRegulation(reg, kw)
		if len(matches) == 0 {
			continue
		}
		results = append(results, types.SearchResult{
			ID:         id,
			Name:       reg.Name,
			Snippet:    matches[0].snippet,
			MatchType:  matches[0].kind,
			AllMatches: len(matches),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchType.Priority() < results[j].MatchType.Priority()
	})
	return results
}

// matchRegulation checks every searchable field of reg in priority order.
// kw must already be normalized and non-empty.
func matchRegulation(reg types.Regulation, kw string) []match {
	var matches []match

	if contains(reg.Name, kw) {
		matches = append(matches, match{types.MatchName, reg.Name})
	}
	if contains(reg.Summary, kw) {
		matches = append(matches, match{types.MatchSummary, extractSnippet(reg.Summary, kw)})
	}
	for _, a := range reg.Articles {
		prefix := "Article " + a.Label() + ": "
		if contains(a.Title, kw) {
			matches = append(matches, match{types.MatchArticleTitle, prefix + extractSnippet(a.Title, kw)})
		}
		if contains(a.Summary, kw) {
			matches = append(matches, match{types.MatchArticleSummary, prefix + extractSnippet(a.Summary, kw)})
		}
	}
	for _, g := range reg.DeveloperGuidance {
		if contains(g, kw) {
			matches = append(matches, match{types.MatchDeveloperGuidance, extractSnippet(g, kw)})
		}
	}

	return matches
}

func contains(text, kw string) bool {
	return strings.Contains(record.Normalize(text), kw)
}

// extractSnippet returns the text around the first occurrence of kw in text,
// keeping the original case. Up to snippetContext characters are kept on each
// side; an ellipsis marks each side that was cut. When kw does not occur, the
// first snippetFallback characters are returned unchanged.
func extractSnippet(text, kw string) string {
	runes := []rune(text)
	lowered := strings.Map(unicode.ToLower, text)

	byteIdx := strings.Index(lowered, kw)
	if byteIdx < 0 {
		if len(runes) > snippetFallback {
			return string(runes[:snippetFallback])
		}
		return text
	}

	// unicode.ToLower maps rune to rune, so rune offsets in lowered line up
	// with runes of text.
	idx := utf8.RuneCountInString(lowered[:byteIdx])
	start := max(0, idx-snippetContext)
	end := min(len(runes), idx+utf8.RuneCountInString(kw)+snippetContext)

	var b strings.Builder
	if start > 0 {
		b.WriteString(ellipsis)
	}
	b.WriteString(string(runes[start:end]))
	if end < len(runes) {
		b.WriteString(ellipsis)
	}
	return b.String()
}
