package brand

import (
	"strconv"
	"strings"

	"github.com/solstice-fi/lorebase/notion"
)

// Normalize converts the provider's flat, ordered block list into sections
// and subsections:
//
//   - a level-1 heading starts a new Section and resets the subsection
//     counter;
//   - a level-2 heading starts a new Subsection under the current section;
//   - a level-3 heading is appended to the open body as emphasized inline
//     content;
//   - any other text block appends to the open subsection's body, or to the
//     section body when no subsection is open.
//
// Blocks before the first level-1 heading have no section to attach to and
// are dropped. Dividers and empty text blocks are skipped entirely.
func Normalize(blocks []notion.Block) Content {
	var sections []Section
	curSub := -1 // index into the current section's Subsections, -1 = none open

	appendBody := func(text string) {
		sec := &sections[len(sections)-1]
		if curSub >= 0 {
			sub := &sec.Subsections[curSub]
			sub.Body = joinBody(sub.Body, text)
			return
		}
		sec.Body = joinBody(sec.Body, text)
	}

	for _, b := range blocks {
		if b.Type == notion.BlockDivider {
			continue
		}
		text := strings.TrimSpace(b.Text)
		if text == "" {
			continue
		}

		switch b.HeadingLevel() {
		case 1:
			sections = append(sections, Section{
				ID:    strconv.Itoa(len(sections) + 1),
				Title: text,
			})
			curSub = -1
		case 2:
			if len(sections) == 0 {
				continue
			}
			sec := &sections[len(sections)-1]
			sec.Subsections = append(sec.Subsections, Subsection{
				ID:       sec.ID + "." + strconv.Itoa(len(sec.Subsections)+1),
				ParentID: sec.ID,
				Title:    text,
			})
			curSub = len(sec.Subsections) - 1
		case 3:
			if len(sections) == 0 {
				continue
			}
			appendBody("*" + text + "*")
		default:
			if len(sections) == 0 {
				continue
			}
			appendBody(text)
		}
	}
	return sections
}

func joinBody(body, text string) string {
	if body == "" {
		return text
	}
	return body + "\n" + text
}
