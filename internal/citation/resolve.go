// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation joins a pipeline result's answer citations back to the
// retrieved chunks by content hash, builds normalized bibliographic
// entries, and renders a styled bibliography. Referential integrity between
// what the model cited and what was actually retrieved is enforced here:
// a citation whose hash is absent from the retrieval context is reported
// as an unresolved diagnostic, never silently dropped and never fatal to
// the rest of the summary.
package citation

import (
	"fmt"
	"strconv"

	"github.com/pdiddy/paper-summarizer/internal/bib"
	"github.com/pdiddy/paper-summarizer/internal/rag"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// Summary holds one query's answer together with the retrieval context
// needed to resolve its citations. The context maps hash to one
// representative chunk (last seen wins on duplicate hashes) and is scoped
// to this query only.
type Summary struct {
	Question  string
	Context   map[string]types.Chunk
	Answer    string
	Citations []types.SourceCitation
}

// ParseSummary builds a Summary from the pipeline result.
func ParseSummary(res rag.Result) Summary {
	ctx := make(map[string]types.Chunk, len(res.Context))
	for _, c := range res.Context {
		ctx[c.Metadata.Hash] = c
	}
	return Summary{
		Question:  res.Question,
		Context:   ctx,
		Answer:    res.Answer.Answer,
		Citations: res.Answer.Citations,
	}
}

// Entry is a normalized bibliographic record in CSL terms: the shape a
// citation style consumes. Ephemeral; built per query to drive rendering.
type Entry struct {
	ID             string     `json:"id" yaml:"id"`
	Type           string     `json:"type" yaml:"type"`
	Title          string     `json:"title" yaml:"title"`
	Author         []bib.Name `json:"author" yaml:"author"`
	Year           int        `json:"year" yaml:"year"`
	ContainerTitle string     `json:"container-title" yaml:"container-title"`
	Volume         string     `json:"volume" yaml:"volume"`
	Issue          string     `json:"issue" yaml:"issue"`
	Page           string     `json:"page" yaml:"page"`
	DOI            string     `json:"DOI" yaml:"DOI"`
}

// UnresolvedCitation flags an answer citation whose hash was not a key in
// the retrieval context: the model referenced a source it was not given.
type UnresolvedCitation struct {
	SourceID int
	Hash     string
}

func (u UnresolvedCitation) String() string {
	return fmt.Sprintf("source %d (hash %s)", u.SourceID, u.Hash)
}

// IntegrityError reports unresolved citations to callers that want the
// condition as an error value rather than diagnostics.
type IntegrityError struct {
	Unresolved []UnresolvedCitation
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("model referenced %d unknown source(s)", len(e.Unresolved))
}

// Entries resolves each citation against the retrieval context and builds
// one bibliographic entry per distinct cited source, in citation order.
// Citations whose hash is missing from the context are returned as
// unresolved diagnostics; the remaining entries are still built.
func (s Summary) Entries() ([]Entry, []UnresolvedCitation) {
	var (
		entries    []Entry
		unresolved []UnresolvedCitation
		seen       = make(map[string]bool)
	)

	for _, cit := range s.Citations {
		if seen[cit.Hash] {
			continue
		}
		seen[cit.Hash] = true

		chunk, ok := s.Context[cit.Hash]
		if !ok {
			unresolved = append(unresolved, UnresolvedCitation{SourceID: cit.SourceID, Hash: cit.Hash})
			continue
		}
		entries = append(entries, entryFromMeta(cit.Hash, chunk.Metadata.PaperMeta))
	}

	return entries, unresolved
}

// entryFromMeta normalizes chunk metadata into a bibliographic entry.
// Every retrieved source is treated as a journal article. A year that does
// not parse is left 0 and rendered as undated.
func entryFromMeta(hash string, meta types.PaperMeta) Entry {
	year, _ := strconv.Atoi(meta.Year)
	return Entry{
		ID:             hash,
		Type:           "article-journal",
		Title:          meta.Title,
		Author:         bib.ParseAuthors(meta.Author),
		Year:           year,
		ContainerTitle: meta.Journal,
		Volume:         meta.Volume,
		Issue:          meta.Number,
		Page:           meta.Pages,
		DOI:            meta.DOI,
	}
}
