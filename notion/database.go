package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Row is one database row with named, typed properties.
type Row struct {
	props map[string]property
}

// property is the union of the provider's property payloads this system
// reads. Type discriminates; the matching field carries the value.
type property struct {
	Type        string     `json:"type"`
	Title       []richText `json:"title"`
	RichText    []richText `json:"rich_text"`
	MultiSelect []named    `json:"multi_select"`
	Select      *named     `json:"select"`
	People      []named    `json:"people"`
}

type named struct {
	Name string `json:"name"`
}

// NewRow builds a Row from a raw properties payload, the JSON found under a
// page object's "properties" key. Fixtures use it to construct rows without
// a live client.
func NewRow(propertiesJSON []byte) (Row, error) {
	var props map[string]property
	if err := json.Unmarshal(propertiesJSON, &props); err != nil {
		return Row{}, fmt.Errorf("decode row properties: %w", err)
	}
	return Row{props: props}, nil
}

// QueryDatabase returns all rows of a database, following pagination until
// exhausted. Order is the provider's fetch order.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) ([]Row, error) {
	var rows []Row
	cursor := ""
	for {
		body := map[string]any{"page_size": c.cfg.PageSize}
		if cursor != "" {
			body["start_cursor"] = cursor
		}
		data, err := c.do(ctx, "POST", "/v1/databases/"+url.PathEscape(databaseID)+"/query", body)
		if err != nil {
			return nil, fmt.Errorf("query database %s: %w", databaseID, err)
		}

		var page listResponse
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("decode row list: %w", err)
		}
		for _, raw := range page.Results {
			var pageObj struct {
				Properties map[string]property `json:"properties"`
			}
			if err := json.Unmarshal(raw, &pageObj); err != nil {
				return nil, fmt.Errorf("decode row: %w", err)
			}
			rows = append(rows, Row{props: pageObj.Properties})
		}

		if !page.HasMore || page.NextCursor == "" {
			return rows, nil
		}
		cursor = page.NextCursor
	}
}

// Title returns the text of the first present property among keys that is a
// title or rich-text property. First matching key wins.
func (r Row) Title(keys ...string) string {
	for _, k := range keys {
		p, ok := r.props[k]
		if !ok {
			continue
		}
		if len(p.Title) > 0 {
			return plainText(p.Title)
		}
		if len(p.RichText) > 0 {
			return plainText(p.RichText)
		}
	}
	return ""
}

// Text returns the rich-text (or title) content of the first present
// property among keys.
func (r Row) Text(keys ...string) string {
	return r.Title(keys...)
}

// Tags returns the multi-select values (or the single select value) of the
// first present property among keys.
func (r Row) Tags(keys ...string) []string {
	for _, k := range keys {
		p, ok := r.props[k]
		if !ok {
			continue
		}
		if len(p.MultiSelect) > 0 {
			tags := make([]string, 0, len(p.MultiSelect))
			for _, m := range p.MultiSelect {
				if m.Name != "" {
					tags = append(tags, m.Name)
				}
			}
			return tags
		}
		if p.Select != nil && p.Select.Name != "" {
			return []string{p.Select.Name}
		}
	}
	return nil
}

// Person returns the first person's name (or plain text) of the first
// present property among keys.
func (r Row) Person(keys ...string) string {
	for _, k := range keys {
		p, ok := r.props[k]
		if !ok {
			continue
		}
		if len(p.People) > 0 && p.People[0].Name != "" {
			return p.People[0].Name
		}
		if len(p.RichText) > 0 {
			return plainText(p.RichText)
		}
	}
	return ""
}
