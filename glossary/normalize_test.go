package glossary

import (
	"reflect"
	"testing"
)

func TestNormalizeRows_DropsIncompleteRows(t *testing.T) {
	// WHAT: Rows missing a title or a summary are dropped without error.
	// WHY: Half-filled database rows must not surface as broken terms.
	rows := testRows(
		rowProps{"Name": titleProp("Solver"), "Summary": textProp("Fills intents.")},
		rowProps{"Name": titleProp("No Summary")},
		rowProps{"Summary": textProp("No title.")},
		rowProps{"Name": titleProp("   "), "Summary": textProp("Blank title.")},
	)

	terms := normalizeRows(rows, CategoryComponent)
	if len(terms) != 1 {
		t.Fatalf("terms: got %d, want 1", len(terms))
	}
	if terms[0].Title != "Solver" || terms[0].Category != CategoryComponent {
		t.Errorf("term: got %+v", terms[0])
	}
}

func TestNormalizeRows_AlternatePropertyNames(t *testing.T) {
	// WHAT: Each field reads from any of its accepted property names.
	// WHY: The source databases never agreed on a single schema.
	rows := testRows(rowProps{
		"Term":       titleProp("AMM"),
		"Definition": textProp("Quotes prices from a formula."),
		"Categories": tagsProp("Trading", "Pools"),
		"Team":       peopleProp("Mira"),
	})

	terms := normalizeRows(rows, CategoryConcept)
	if len(terms) != 1 {
		t.Fatalf("terms: got %d", len(terms))
	}
	got := terms[0]
	if got.Title != "AMM" || got.Summary != "Quotes prices from a formula." {
		t.Errorf("fields: got %+v", got)
	}
	if !reflect.DeepEqual(got.Tags, []string{"Trading", "Pools"}) {
		t.Errorf("tags: got %v", got.Tags)
	}
	if got.Owner != "Mira" {
		t.Errorf("owner: got %q", got.Owner)
	}
}

func TestDedupe_FirstOccurrenceWins(t *testing.T) {
	// WHAT: Duplicate titles (case-insensitive) keep only the first term.
	// WHY: Titles are unique within a snapshot.
	terms := dedupe(Terms{
		{Title: "Solver", Summary: "first", Category: CategoryConcept},
		{Title: "solver", Summary: "second", Category: CategoryComponent},
		{Title: "Intent", Summary: "kept", Category: CategoryConcept},
	})

	if len(terms) != 2 {
		t.Fatalf("terms: got %d, want 2", len(terms))
	}
	if terms[0].Summary != "first" {
		t.Errorf("duplicate replaced the original: %+v", terms[0])
	}
}
