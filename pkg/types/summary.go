// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-summarizer
// pipeline: chunks and their provenance metadata, the structured answer
// contract honored by the generation backend, and stage configuration.
package types

// PaperMeta holds the bibliographic metadata of a source paper. All fields
// are strings; the zero value means the field is absent. The author field
// lists authors in "Given Family" form separated by semicolons.
type PaperMeta struct {
	Author  string `json:"author" yaml:"author"`
	Title   string `json:"title" yaml:"title"`
	Journal string `json:"journal" yaml:"journal"`
	Year    string `json:"year" yaml:"year"`
	Volume  string `json:"volume" yaml:"volume"`
	Number  string `json:"number" yaml:"number"`
	Pages   string `json:"pages" yaml:"pages"`
	DOI     string `json:"doi" yaml:"doi"`
}

// ChunkMeta is the provenance attached to every stored chunk. All chunks
// derived from the same source paper carry the same Hash.
type ChunkMeta struct {
	PaperMeta `yaml:",inline"`

	// Hash is the 8-character content hash of the source paper's
	// bibliographic metadata. It anchors citations back to the paper.
	Hash string `json:"hash" yaml:"hash"`

	// Section is the heading of the paper section the chunk came from.
	Section string `json:"section,omitempty" yaml:"section,omitempty"`
}

// Chunk is a retrievable unit of text with attached provenance metadata.
// Chunks are created at ingestion time and never mutated afterwards.
type Chunk struct {
	Content  string    `json:"content" yaml:"content"`
	Metadata ChunkMeta `json:"metadata" yaml:"metadata"`
}

// SourceCitation is one citation reference emitted by the generation
// backend: the source index assigned during context formatting plus the
// content hash of the cited paper.
type SourceCitation struct {
	// SourceID is the integer ID of the specific source that justifies
	// the answer, as numbered in the formatted context.
	SourceID int `json:"source_id" yaml:"source_id"`

	// Hash is the content hash of the specific source that justifies
	// the answer.
	Hash string `json:"hash" yaml:"hash"`
}

// QuotedAnswer is the structured output of the generation backend: a
// summary grounded only in the provided sources, plus the citations
// that justify it.
type QuotedAnswer struct {
	Answer    string           `json:"answer" yaml:"answer"`
	Citations []SourceCitation `json:"citations" yaml:"citations"`
}
