// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/pdiddy/thesis-engine/pkg/types"
)

// renderMarkdown formats the final state as a markdown document: topic as
// the top heading, one section per manuscript entry with its citations as
// a footer.
func renderMarkdown(state types.ThesisState) string {
	lines := []string{"# " + state.Topic, ""}
	if state.ThesisTitle != "" {
		lines = []string{"# " + state.Topic, "## " + state.ThesisTitle, ""}
	}

	if len(state.Manuscript) == 0 {
		lines = append(lines, "_No manuscript generated._")
		return strings.Join(lines, "\n")
	}

	for _, section := range state.Manuscript {
		body := section.Content
		if len(section.Citations) > 0 {
			body += "\n\n_Citations: " + strings.Join(section.Citations, ", ") + "_"
		}
		lines = append(lines, "## "+section.Title, "", body, "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}
