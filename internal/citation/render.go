// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"fmt"
	"strings"
)

// Diagnostics collects the non-fatal conditions encountered while
// resolving and rendering a summary's citations.
type Diagnostics struct {
	// Unresolved lists citations whose hash was absent from the
	// retrieval context (the model hallucinated a source pairing).
	Unresolved []UnresolvedCitation

	// StyleWarnings lists ids the style engine could not resolve.
	StyleWarnings []StyleWarning
}

// IntegrityErr returns an IntegrityError when any citation was
// unresolved, nil otherwise.
func (d Diagnostics) IntegrityErr() error {
	if len(d.Unresolved) == 0 {
		return nil
	}
	return &IntegrityError{Unresolved: d.Unresolved}
}

// Format resolves the summary's citations, renders the bibliography in
// the named style, and returns the final human-readable output. Unresolved
// citations are omitted from the bibliography and flagged in the output
// and in the diagnostics; they never abort the summary. Only an unknown
// style name is an error.
func (s Summary) Format(styleName string) (string, Diagnostics, error) {
	entries, unresolved := s.Entries()

	bibliography, err := NewBibliography(styleName, entries)
	if err != nil {
		return "", Diagnostics{}, err
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	lines, warnings := bibliography.Cite(ids)

	diags := Diagnostics{Unresolved: unresolved, StyleWarnings: warnings}

	var b strings.Builder
	fmt.Fprintf(&b, "Summary: \n\n%s\n\n\n\nCitations: \n\n%s", s.Answer, strings.Join(lines, "\n"))
	for _, u := range unresolved {
		fmt.Fprintf(&b, "\nWARNING: the model cited %s, which is not in the retrieval context; omitted from the bibliography.", u)
	}

	return b.String(), diags, nil
}
