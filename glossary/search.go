package glossary

import (
	"sort"
	"strings"
)

// Per-word relevance weights, plus a flat bonus when the whole query is a
// term's exact title.
const (
	titleWordWeight   = 10
	tagWordWeight     = 5
	summaryWordWeight = 2
	exactTitleBonus   = 20
)

// SearchResult is one ranked glossary hit.
type SearchResult struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Category Category `json:"category"`
	Score    int      `json:"score"`
}

// Search ranks terms against a free-text query. Each query word contributes
// titleWordWeight for a title hit, tagWordWeight if any tag contains it, and
// summaryWordWeight for a summary hit; an exact (case-insensitive) title
// match adds exactTitleBonus. Zero scores are excluded. Ties keep snapshot
// order.
func (t Terms) Search(query string) []SearchResult {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}
	full := strings.Join(words, " ")

	var results []SearchResult
	for _, term := range t {
		title := strings.ToLower(term.Title)
		summary := strings.ToLower(term.Summary)

		score := 0
		for _, w := range words {
			if strings.Contains(title, w) {
				score += titleWordWeight
			}
			if tagContains(term.Tags, w) {
				score += tagWordWeight
			}
			if strings.Contains(summary, w) {
				score += summaryWordWeight
			}
		}
		if full == title {
			score += exactTitleBonus
		}
		if score == 0 {
			continue
		}
		results = append(results, SearchResult{
			Title:    term.Title,
			Summary:  term.Summary,
			Category: term.Category,
			Score:    score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

func tagContains(tags []string, word string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), word) {
			return true
		}
	}
	return false
}

// FilterByTag returns terms with at least one tag containing the filter,
// case-insensitively. A non-empty category narrows the candidates first.
func (t Terms) FilterByTag(tag string, category Category) Terms {
	needle := strings.ToLower(strings.TrimSpace(tag))
	if needle == "" {
		return nil
	}
	var out Terms
	for _, term := range t.List(category) {
		if tagContains(term.Tags, needle) {
			out = append(out, term)
		}
	}
	return out
}

// Related returns up to max other terms sharing at least one tag with term,
// compared exactly (case-sensitive), in snapshot order.
func (t Terms) Related(term *Term, max int) []string {
	if term == nil || len(term.Tags) == 0 {
		return nil
	}
	own := make(map[string]bool, len(term.Tags))
	for _, tag := range term.Tags {
		own[tag] = true
	}

	var out []string
	for i := range t {
		other := &t[i]
		if strings.EqualFold(other.Title, term.Title) {
			continue
		}
		if !sharesTag(other.Tags, own) {
			continue
		}
		out = append(out, other.Title)
		if len(out) == max {
			break
		}
	}
	return out
}

func sharesTag(tags []string, own map[string]bool) bool {
	for _, tag := range tags {
		if own[tag] {
			return true
		}
	}
	return false
}
