// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MatchType names the field in which a search keyword was found.
type MatchType string

const (
	MatchName              MatchType = "name"
	MatchSummary           MatchType = "summary"
	MatchArticleTitle      MatchType = "article_title"
	MatchArticleSummary    MatchType = "article_summary"
	MatchDeveloperGuidance MatchType = "developer_guidance"
)

// Priority orders match types for ranking; lower ranks first.
// Name matches rank 0, summary 1, any article match 2, everything else 3.
func (m MatchType) Priority() int {
	switch m {
	case MatchName:
		return 0
	case MatchSummary:
		return 1
	case MatchArticleTitle, MatchArticleSummary:
		return 2
	default:
		return 3
	}
}

// SearchResult is one regulation matched by a keyword search. A regulation
// appears at most once per search regardless of how many fields matched.
type SearchResult struct {
	// ID is the normalized regulation id.
	ID string `json:"id" yaml:"id"`

	// Name is the regulation name.
	Name string `json:"name" yaml:"name"`

	// Snippet shows the text around the primary match.
	Snippet string `json:"snippet" yaml:"snippet"`

	// MatchType is the field of the primary (first) match.
	MatchType MatchType `json:"match_type" yaml:"match_type"`

	// AllMatches counts every matching field in the regulation.
	AllMatches int `json:"all_matches" yaml:"all_matches"`
}
