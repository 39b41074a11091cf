package brand

import (
	"strings"
	"testing"
)

func testContent() Content {
	return Content{
		{
			ID:    "1",
			Title: "Color Palette",
			Body:  "Primary color is amber.",
			Subsections: []Subsection{
				{ID: "1.1", ParentID: "1", Title: "Backgrounds", Body: "Dark surfaces use the deep space color."},
			},
		},
		{
			ID:    "2",
			Title: "Typography",
			Body:  "Body text is set in Inter. Color contrast must meet AA.",
		},
	}
}

func TestSearch_TitleOutranksBody(t *testing.T) {
	// WHAT: A title hit (10) ranks above body-only hits (2).
	// WHY: Titles are the strongest relevance signal.
	results := testContent().Search("color", 5, 150)
	if len(results) != 3 {
		t.Fatalf("results: got %d, want 3", len(results))
	}
	if results[0].ID != "1" {
		t.Errorf("top result: got %s, want 1", results[0].ID)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("scores not descending: %d then %d", results[0].Score, results[1].Score)
	}
}

func TestSearch_PhraseBonus(t *testing.T) {
	// WHAT: The verbatim phrase adds a flat +5 on top of per-word scores.
	// WHY: Multi-word queries that appear intact are better matches.
	content := Content{
		{ID: "1", Title: "A", Body: "deep space color here"},
		{ID: "2", Title: "B", Body: "space is deep, color everywhere"},
	}
	results := content.Search("deep space", 5, 150)
	if len(results) != 2 {
		t.Fatalf("results: got %d", len(results))
	}
	if results[0].ID != "1" {
		t.Errorf("top: got %s, want 1", results[0].ID)
	}
	// Both match both words in body (2+2); only the first gets the +5.
	if results[0].Score != 9 || results[1].Score != 4 {
		t.Errorf("scores: got %d/%d, want 9/4", results[0].Score, results[1].Score)
	}
}

func TestSearch_ZeroScoreExcludedAndTruncated(t *testing.T) {
	// WHAT: Non-matching entities are excluded; results cap at maxResults.
	// WHY: Noise-free, bounded tool output.
	results := testContent().Search("typography", 5, 150)
	for _, r := range results {
		if r.Score == 0 {
			t.Errorf("zero-score result leaked: %+v", r)
		}
	}

	many := make(Content, 0, 10)
	for i := 0; i < 10; i++ {
		many = append(many, Section{ID: string(rune('a' + i)), Title: "widget", Body: ""})
	}
	if got := len(many.Search("widget", 5, 150)); got != 5 {
		t.Errorf("truncation: got %d, want 5", got)
	}
}

func TestSearch_TiesKeepDocumentOrder(t *testing.T) {
	// WHAT: Equal scores preserve snapshot order.
	// WHY: Deterministic output for identical inputs.
	content := Content{
		{ID: "1", Title: "widget one"},
		{ID: "2", Title: "widget two"},
		{ID: "3", Title: "widget three"},
	}
	results := content.Search("widget", 5, 150)
	for i, want := range []string{"1", "2", "3"} {
		if results[i].ID != want {
			t.Errorf("result[%d]: got %s, want %s", i, results[i].ID, want)
		}
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	// WHAT: A blank query returns nothing.
	// WHY: There is nothing to rank against.
	if got := testContent().Search("   ", 5, 150); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestMakeSnippet_CenteredWithEllipses(t *testing.T) {
	// WHAT: The snippet centers on the first query-word hit and marks
	// truncation at both ends.
	// WHY: Callers need enough context around the match, bounded.
	body := strings.Repeat("x", 200) + " amber " + strings.Repeat("y", 200)
	got := makeSnippet(body, []string{"amber"}, 50)
	if !strings.Contains(got, "amber") {
		t.Errorf("snippet misses the match: %q", got)
	}
	if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "...") {
		t.Errorf("snippet missing ellipses: %q", got)
	}
	if len([]rune(got)) > 50+6 {
		t.Errorf("snippet too long: %d runes", len([]rune(got)))
	}
}

func TestMakeSnippet_NoHitTakesLeading(t *testing.T) {
	// WHAT: Without a word hit the snippet is the leading window.
	// WHY: Title-only matches still deserve a preview.
	body := strings.Repeat("abcde ", 100)
	got := makeSnippet(body, []string{"zzz"}, 30)
	if !strings.HasPrefix(got, "abcde") {
		t.Errorf("snippet should start at the beginning: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("snippet should mark right truncation: %q", got)
	}
}

func TestMakeSnippet_ShortBodyUntouched(t *testing.T) {
	// WHAT: Bodies shorter than the window pass through unmodified.
	// WHY: No ellipses on text that was never cut.
	if got := makeSnippet("short body", []string{"body"}, 150); got != "short body" {
		t.Errorf("got %q", got)
	}
}
