package brand

// defaultContent is the static minimal guide served when the very first
// fetch fails. It mirrors the structure of the live document so downstream
// tooling sees the same shape either way.
func defaultContent() (string, Content) {
	return snapshotTitle, Content{
		{
			ID:    "1",
			Title: "Brand Essence",
			Body:  "Solstice is the settlement layer for intent-based trading. The brand voice is precise, calm, and technical.",
			Subsections: []Subsection{
				{
					ID:       "1.1",
					ParentID: "1",
					Title:    "Naming",
					Body:     "Always \"Solstice\", never \"Solstice Protocol\" in running text. The token ticker is SOLS.",
				},
			},
		},
		{
			ID:    "2",
			Title: "Visual Identity",
			Subsections: []Subsection{
				{
					ID:       "2.1",
					ParentID: "2",
					Title:    "Colors",
					Body:     "Primary: solar amber #F5A623 on deep space #0B0E17. Use white text on dark surfaces.",
				},
				{
					ID:       "2.2",
					ParentID: "2",
					Title:    "Typography",
					Body:     "Headlines in Space Grotesk, body text in Inter. Code samples in JetBrains Mono.",
				},
			},
		},
	}
}
