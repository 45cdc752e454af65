// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rag

import (
	"strings"
	"unicode"

	"github.com/pdiddy/paper-summarizer/internal/pdfproc"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

const (
	// DefaultChunkSize is the maximum chunk length in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the overlap between consecutive chunks.
	DefaultChunkOverlap = 100
)

// SplitText splits text into chunks of at most size characters with the
// given overlap, preferring to cut at whitespace in the second half of the
// window so words are not broken mid-token.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 10
	}

	runes := []rune(text)
	var chunks []string

	for start := 0; start < len(runes); {
		end := start + size
		if end >= len(runes) {
			if chunk := strings.TrimSpace(string(runes[start:])); chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		// Prefer a whitespace cut point anywhere past the window midpoint.
		cut := end
		for i := end; i > start+size/2; i-- {
			if unicode.IsSpace(runes[i-1]) {
				cut = i
				break
			}
		}

		if chunk := strings.TrimSpace(string(runes[start:cut])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}

	return chunks
}

// SplitSections turns preprocessed sections into store-ready chunks. Every
// chunk carries its section's provenance metadata, so all chunks of one
// paper share the paper's hash.
func SplitSections(sections []pdfproc.Section, size, overlap int) []types.Chunk {
	var chunks []types.Chunk
	for _, sec := range sections {
		for _, piece := range SplitText(sec.Content, size, overlap) {
			chunks = append(chunks, types.Chunk{
				Content:  piece,
				Metadata: sec.Metadata,
			})
		}
	}
	return chunks
}
