package brand

import (
	"sort"
	"strings"
)

// Relevance weights. Fixed policy constants, not a derived formula.
const (
	titleWordWeight = 10
	bodyWordWeight  = 2
	phraseBonus     = 5
)

// SearchResult is one ranked hit; ID refers to a section or subsection.
type SearchResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
	Score   int    `json:"score"`
}

// Search tokenizes query on whitespace and ranks every section and
// subsection: per word, +10 when the title contains it and +2 when the body
// does; +5 when the full phrase appears verbatim (case-insensitive) in the
// combined title and body. Zero-score entities are excluded. Ties keep
// document order; results are truncated to maxResults.
func (c Content) Search(query string, maxResults, snippetLen int) []SearchResult {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}
	phrase := strings.Join(words, " ")

	var results []SearchResult
	score := func(id, title, body string) {
		lowTitle := strings.ToLower(title)
		lowBody := strings.ToLower(body)

		total := 0
		for _, w := range words {
			if strings.Contains(lowTitle, w) {
				total += titleWordWeight
			}
			if strings.Contains(lowBody, w) {
				total += bodyWordWeight
			}
		}
		if strings.Contains(lowTitle+" "+lowBody, phrase) {
			total += phraseBonus
		}
		if total == 0 {
			return
		}
		results = append(results, SearchResult{
			ID:      id,
			Title:   title,
			Snippet: makeSnippet(body, words, snippetLen),
			Score:   total,
		})
	}

	for _, sec := range c {
		score(sec.ID, sec.Title, sec.Body)
		for _, sub := range sec.Subsections {
			score(sub.ID, sub.Title, sub.Body)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// makeSnippet extracts a bounded window from body, centered on the first
// occurrence of any query word, with ellipsis markers at truncated ends.
// With no word hit the snippet is simply the leading max runes.
func makeSnippet(body string, words []string, max int) string {
	if body == "" {
		return ""
	}
	if max <= 0 {
		max = 150
	}

	runes := []rune(body)
	if len(runes) <= max {
		return body
	}

	lowRunes := []rune(strings.ToLower(body))
	hit := -1
	for _, w := range words {
		if i := indexRunes(lowRunes, []rune(w)); i >= 0 && (hit < 0 || i < hit) {
			hit = i
		}
	}

	start := 0
	if hit >= 0 {
		start = hit - max/2
		if start < 0 {
			start = 0
		}
	}
	end := start + max
	if end > len(runes) {
		end = len(runes)
		start = end - max
		if start < 0 {
			start = 0
		}
	}

	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(runes) {
		snippet = snippet + "..."
	}
	return snippet
}

// indexRunes is strings.Index over rune slices, so window math stays in
// rune coordinates.
func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
