// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rag orchestrates the retrieval-generation pipeline: ingestion of
// preprocessed papers into the chunk store, context formatting with stable
// per-source IDs, and the retrieve-then-generate flow for a question.
package rag

import (
	"fmt"
	"strings"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// chunkTemplate renders one retrieved chunk as a prompt block. The model
// cites sources by the Source ID / Hash pair, so the pair must stay stable
// within one formatted context.
const chunkTemplate = "Source ID: %d\nHash: %s\nAuthors: %s\nArticle Snippet: %s"

// FormatChunks renders retrieved chunks into a single prompt-ready string.
// Each distinct source hash is assigned a small integer ID in first-seen
// order starting at 1; chunks repeating a hash reuse its ID. Blocks are
// separated by blank lines with a leading blank line.
func FormatChunks(chunks []types.Chunk) string {
	ids := make(map[string]int)
	next := 1

	blocks := make([]string, 0, len(chunks))
	for _, c := range chunks {
		id, ok := ids[c.Metadata.Hash]
		if !ok {
			id = next
			ids[c.Metadata.Hash] = id
			next++
		}
		blocks = append(blocks, fmt.Sprintf(chunkTemplate, id, c.Metadata.Hash, c.Metadata.Author, c.Content))
	}

	return "\n\n" + strings.Join(blocks, "\n\n")
}
