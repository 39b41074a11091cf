package glossary

// defaultTerms is the static fallback served when the glossary has never
// been fetched successfully. A thin slice of the real glossary, enough for
// tools to answer the most common lookups.
func defaultTerms() (string, Terms) {
	return snapshotTitle, Terms{
		{
			Title:    "Intent",
			Summary:  "A signed trade request describing what a user wants to swap, without prescribing the execution route.",
			Tags:     []string{"Trading"},
			Category: CategoryConcept,
		},
		{
			Title:    "Solver",
			Summary:  "An agent that competes to fill intents at the best price, sourcing liquidity across venues.",
			Tags:     []string{"Trading"},
			Category: CategoryComponent,
		},
		{
			Title:    "Money Market",
			Summary:  "The lending side of the protocol where deposited collateral earns yield and backs borrows.",
			Tags:     []string{"Lending"},
			Category: CategoryComponent,
		},
		{
			Title:    "SOLS",
			Summary:  "The protocol token used for governance and fee discounts.",
			Tags:     []string{"Token"},
			Category: CategoryConcept,
		},
	}
}
