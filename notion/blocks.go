package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// BlockType identifies a document block kind.
type BlockType string

// Block types the normalizers care about. Unknown types decode with empty
// text and are skipped downstream.
const (
	BlockHeading1     BlockType = "heading_1"
	BlockHeading2     BlockType = "heading_2"
	BlockHeading3     BlockType = "heading_3"
	BlockParagraph    BlockType = "paragraph"
	BlockBulletedItem BlockType = "bulleted_list_item"
	BlockNumberedItem BlockType = "numbered_list_item"
	BlockQuote        BlockType = "quote"
	BlockCallout      BlockType = "callout"
	BlockCode         BlockType = "code"
	BlockToDo         BlockType = "to_do"
	BlockDivider      BlockType = "divider"
)

// Block is a typed leaf block with its extracted plain text, in document
// order.
type Block struct {
	Type BlockType
	Text string
}

// HeadingLevel returns 1–3 for heading blocks, 0 otherwise.
func (b Block) HeadingLevel() int {
	switch b.Type {
	case BlockHeading1:
		return 1
	case BlockHeading2:
		return 2
	case BlockHeading3:
		return 3
	}
	return 0
}

// BlockChildren lists a container's child blocks, following continuation
// cursors until the listing is exhausted. Order is document order.
func (c *Client) BlockChildren(ctx context.Context, blockID string) ([]Block, error) {
	var blocks []Block
	cursor := ""
	for {
		q := url.Values{"page_size": {strconv.Itoa(c.cfg.PageSize)}}
		if cursor != "" {
			q.Set("start_cursor", cursor)
		}
		data, err := c.do(ctx, "GET", "/v1/blocks/"+url.PathEscape(blockID)+"/children?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("block children %s: %w", blockID, err)
		}

		var page listResponse
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("decode block list: %w", err)
		}
		for _, raw := range page.Results {
			b, err := decodeBlock(raw)
			if err != nil {
				return nil, fmt.Errorf("decode block: %w", err)
			}
			blocks = append(blocks, b)
		}

		if !page.HasMore || page.NextCursor == "" {
			return blocks, nil
		}
		cursor = page.NextCursor
	}
}

// decodeBlock extracts the type and plain text from one raw block object.
// The payload lives under a key named after the type, so the envelope is
// decoded as a raw map first.
func decodeBlock(raw json.RawMessage) (Block, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Block{}, err
	}

	var typ string
	if t, ok := envelope["type"]; ok {
		if err := json.Unmarshal(t, &typ); err != nil {
			return Block{}, err
		}
	}
	b := Block{Type: BlockType(typ)}

	payload, ok := envelope[typ]
	if !ok {
		return b, nil
	}
	var content struct {
		RichText []richText `json:"rich_text"`
	}
	if err := json.Unmarshal(payload, &content); err != nil {
		return Block{}, err
	}
	b.Text = plainText(content.RichText)
	return b, nil
}
