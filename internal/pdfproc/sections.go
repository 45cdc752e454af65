// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfproc

import (
	"regexp"
	"strings"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// titleRe matches a section title line: a short capitalized word, optionally
// numbered ("3." or a bare roman I), optionally followed by "and" plus a
// second capitalized word. Runs of non-matching lines form the section body.
var titleRe = regexp.MustCompile(`^(?:\d+\.?\s*|\bI\b\s*)?[A-Z][A-Za-z\-:]*\s*(?:[Aa][Nn][Dd]\s+[A-Z][A-Za-z\-:]*\s*)?$`)

// inlineCiteRe matches inline numeric citation markers like [12].
var inlineCiteRe = regexp.MustCompile(`\[\d+\]`)

// Section is one titled span of a paper with the provenance metadata every
// chunk derived from it will carry.
type Section struct {
	Title    string
	Metadata types.ChunkMeta
	Content  string
}

// ExtractSections scans the page texts in order and collects titled
// sections. Lines matching the title heuristic start a new section; all
// following non-title lines are that section's content. Content appearing
// before the first matched title has no section to attach to and is
// dropped. The hash and bibliographic metadata are stamped onto every
// section; per-page bookkeeping (page numbers, labels) is not carried over.
func ExtractSections(pages []string, meta types.PaperMeta, hash string) []Section {
	var (
		sections       []Section
		currentTitle   string
		currentContent []string
	)

	flush := func() {
		if currentTitle == "" {
			return
		}
		sections = append(sections, Section{
			Title: currentTitle,
			Metadata: types.ChunkMeta{
				PaperMeta: meta,
				Hash:      hash,
				Section:   currentTitle,
			},
			Content: strings.Join(currentContent, "\n"),
		})
	}

	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			trimmed := strings.TrimSpace(line)
			if titleRe.MatchString(trimmed) {
				flush()
				currentTitle = trimmed
				currentContent = nil
			} else {
				currentContent = append(currentContent, trimmed)
			}
		}
	}
	flush()

	return sections
}

// Preprocess filters extracted sections for indexing. Sections whose title
// mentions "references" or "introduction" (case-insensitive) are excluded,
// except a section titled exactly "introduction": its content is kept after
// removing sentences that carry inline numeric citation markers.
func Preprocess(sections []Section) []Section {
	var filtered []Section
	for _, s := range sections {
		title := strings.ToLower(s.Title)
		switch {
		case !strings.Contains(title, "references") && !strings.Contains(title, "introduction"):
			filtered = append(filtered, s)
		case title == "introduction":
			s.Content = stripCitedSentences(s.Content)
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// stripCitedSentences splits content on sentence boundaries at line ends
// (".\n") and drops sentences containing a [N] citation marker. Sentences
// without markers are retained verbatim.
func stripCitedSentences(content string) string {
	var kept []string
	for _, sentence := range strings.Split(content, ".\n") {
		if inlineCiteRe.MatchString(sentence) {
			continue
		}
		kept = append(kept, sentence)
	}
	return strings.Join(kept, "\n")
}
