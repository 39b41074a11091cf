package brand

import (
	"testing"

	"github.com/solstice-fi/lorebase/notion"
)

func block(typ notion.BlockType, text string) notion.Block {
	return notion.Block{Type: typ, Text: text}
}

func TestNormalize_SectionSubsectionBody(t *testing.T) {
	// WHAT: h1 → Section "1", h2 → Subsection "1.1", paragraph → its body.
	// WHY: The canonical document shape must survive normalization exactly.
	content := Normalize([]notion.Block{
		block(notion.BlockHeading1, "Intro"),
		block(notion.BlockHeading2, "Colors"),
		block(notion.BlockParagraph, "Use red."),
	})

	if len(content) != 1 {
		t.Fatalf("sections: got %d, want 1", len(content))
	}
	sec := content[0]
	if sec.ID != "1" || sec.Title != "Intro" {
		t.Errorf("section: got %q/%q", sec.ID, sec.Title)
	}
	if len(sec.Subsections) != 1 {
		t.Fatalf("subsections: got %d, want 1", len(sec.Subsections))
	}
	sub := sec.Subsections[0]
	if sub.ID != "1.1" || sub.ParentID != "1" || sub.Title != "Colors" {
		t.Errorf("subsection: got %+v", sub)
	}
	if sub.Body != "Use red." {
		t.Errorf("body: got %q, want %q", sub.Body, "Use red.")
	}
}

func TestNormalize_PreambleDropped(t *testing.T) {
	// WHAT: Blocks before the first h1 are dropped.
	// WHY: There is no section to attach them to.
	content := Normalize([]notion.Block{
		block(notion.BlockParagraph, "orphan text"),
		block(notion.BlockHeading2, "orphan heading"),
		block(notion.BlockHeading1, "First"),
	})

	if len(content) != 1 {
		t.Fatalf("sections: got %d, want 1", len(content))
	}
	if content[0].Body != "" || len(content[0].Subsections) != 0 {
		t.Errorf("preamble leaked into section: %+v", content[0])
	}
}

func TestNormalize_H3Emphasized(t *testing.T) {
	// WHAT: h3 text lands in the open body as *emphasized* inline content.
	// WHY: Third-level headings are styling, not structure.
	content := Normalize([]notion.Block{
		block(notion.BlockHeading1, "Voice"),
		block(notion.BlockHeading2, "Tone"),
		block(notion.BlockHeading3, "Do"),
		block(notion.BlockParagraph, "Be precise."),
	})

	sub := content[0].Subsections[0]
	want := "*Do*\nBe precise."
	if sub.Body != want {
		t.Errorf("body: got %q, want %q", sub.Body, want)
	}
}

func TestNormalize_BodyFallsToSectionWithoutSubsection(t *testing.T) {
	// WHAT: Text after an h1 but before any h2 lands in the section body.
	// WHY: Not every section opens with a subsection.
	content := Normalize([]notion.Block{
		block(notion.BlockHeading1, "Mission"),
		block(notion.BlockParagraph, "Ship the settlement layer."),
		block(notion.BlockQuote, "Calm and technical."),
	})

	want := "Ship the settlement layer.\nCalm and technical."
	if content[0].Body != want {
		t.Errorf("body: got %q, want %q", content[0].Body, want)
	}
}

func TestNormalize_SkipsDividersAndEmpty(t *testing.T) {
	// WHAT: Dividers and empty text blocks never produce output.
	// WHY: They carry no content.
	content := Normalize([]notion.Block{
		block(notion.BlockHeading1, "A"),
		block(notion.BlockDivider, ""),
		block(notion.BlockParagraph, "   "),
		block(notion.BlockParagraph, "text"),
	})

	if content[0].Body != "text" {
		t.Errorf("body: got %q", content[0].Body)
	}
}

func TestNormalize_IDsResetPerSection(t *testing.T) {
	// WHAT: Subsection counters restart in each section; ids stay unique
	// and monotonic in document order.
	// WHY: "2.1" must mean the first subsection of section 2.
	content := Normalize([]notion.Block{
		block(notion.BlockHeading1, "One"),
		block(notion.BlockHeading2, "A"),
		block(notion.BlockHeading2, "B"),
		block(notion.BlockHeading1, "Two"),
		block(notion.BlockHeading2, "C"),
	})

	if len(content) != 2 {
		t.Fatalf("sections: got %d", len(content))
	}
	ids := []string{
		content[0].Subsections[0].ID,
		content[0].Subsections[1].ID,
		content[1].Subsections[0].ID,
	}
	want := []string{"1.1", "1.2", "2.1"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("id[%d]: got %q, want %q", i, ids[i], want[i])
		}
	}
	if content[1].Subsections[0].ParentID != "2" {
		t.Errorf("parent: got %q, want %q", content[1].Subsections[0].ParentID, "2")
	}
}
