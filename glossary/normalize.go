package glossary

import (
	"strings"

	"github.com/solstice-fi/lorebase/notion"
)

// Property names accepted for each term field. Source databases drifted over
// time; we read whichever name is present, first match wins.
var (
	titleKeys   = []string{"Name", "Term", "Title"}
	summaryKeys = []string{"Summary", "Description", "Definition"}
	tagKeys     = []string{"Tags", "Categories"}
	ownerKeys   = []string{"Owner", "Team"}
)

// normalizeRows turns raw database rows into terms of one category. Rows
// missing a title or a summary are dropped without error.
func normalizeRows(rows []notion.Row, category Category) Terms {
	var out Terms
	for _, row := range rows {
		term, ok := termFromRow(row, category)
		if !ok {
			continue
		}
		out = append(out, term)
	}
	return out
}

func termFromRow(row notion.Row, category Category) (Term, bool) {
	title := strings.TrimSpace(row.Title(titleKeys...))
	summary := strings.TrimSpace(row.Text(summaryKeys...))
	if title == "" || summary == "" {
		return Term{}, false
	}
	return Term{
		Title:    title,
		Summary:  summary,
		Tags:     row.Tags(tagKeys...),
		Category: category,
		Owner:    row.Person(ownerKeys...),
	}, true
}
