package glossary

import (
	"fmt"
	"strings"

	"github.com/solstice-fi/lorebase/notion"
)

// rowProps maps a property name to its JSON payload fragment.
type rowProps map[string]string

func testRows(rows ...rowProps) []notion.Row {
	out := make([]notion.Row, 0, len(rows))
	for _, props := range rows {
		parts := make([]string, 0, len(props))
		for name, payload := range props {
			parts = append(parts, fmt.Sprintf("%q:%s", name, payload))
		}
		row, err := notion.NewRow([]byte("{" + strings.Join(parts, ",") + "}"))
		if err != nil {
			panic(err)
		}
		out = append(out, row)
	}
	return out
}

func titleProp(text string) string {
	return fmt.Sprintf(`{"type":"title","title":[{"plain_text":%q}]}`, text)
}

func textProp(text string) string {
	return fmt.Sprintf(`{"type":"rich_text","rich_text":[{"plain_text":%q}]}`, text)
}

func tagsProp(tags ...string) string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, fmt.Sprintf(`{"name":%q}`, tag))
	}
	return fmt.Sprintf(`{"type":"multi_select","multi_select":[%s]}`, strings.Join(names, ","))
}

func peopleProp(name string) string {
	return fmt.Sprintf(`{"type":"people","people":[{"name":%q}]}`, name)
}

// rowJSON renders a full page object for fake upstream responses.
func rowJSON(props rowProps) string {
	parts := make([]string, 0, len(props))
	for name, payload := range props {
		parts = append(parts, fmt.Sprintf("%q:%s", name, payload))
	}
	return fmt.Sprintf(`{"properties":{%s}}`, strings.Join(parts, ","))
}

func queryResponse(rows ...string) string {
	return fmt.Sprintf(`{"results":[%s],"has_more":false}`, strings.Join(rows, ","))
}
