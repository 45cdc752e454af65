// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rag

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/paper-summarizer/internal/bib"
	"github.com/pdiddy/paper-summarizer/internal/pdfproc"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// MetadataBackend extracts bibliographic metadata from a paper's first-page
// text. Implementations may retry internally.
type MetadataBackend interface {
	ExtractMetadata(ctx context.Context, firstPage string) (types.PaperMeta, error)
}

// ChunkStore is the ingestion side of the chunk store.
type ChunkStore interface {
	Has(ctx context.Context, hash string) (bool, error)
	Add(ctx context.Context, chunks []types.Chunk) error
}

// Ingestor preprocesses papers and stores their chunks.
type Ingestor struct {
	store ChunkStore
	cfg   types.IngestConfig
}

// NewIngestor builds an ingestor over the given store.
func NewIngestor(store ChunkStore, cfg types.IngestConfig) *Ingestor {
	return &Ingestor{store: store, cfg: cfg}
}

// IngestPages computes the paper's content hash from its metadata, skips
// the paper if the hash is already stored (a duplicate is a no-op, not an
// error), and otherwise extracts sections, cleans them, splits them into
// chunks, and adds the chunks to the store. Progress and data-quality
// warnings go to w. The existence check and the insert are separate store
// calls; concurrent ingestion of the same new paper can race.
func (ing *Ingestor) IngestPages(ctx context.Context, pages []string, meta types.PaperMeta, w io.Writer) (bool, string, error) {
	hash := bib.Hash(meta)

	exists, err := ing.store.Has(ctx, hash)
	if err != nil {
		return false, hash, fmt.Errorf("checking for duplicate %s: %w", hash, err)
	}
	if exists {
		fmt.Fprintf(w, "skipped %s: already in the store\n", hash)
		return false, hash, nil
	}

	sections := pdfproc.Preprocess(pdfproc.ExtractSections(pages, meta, hash))
	if len(sections) == 0 {
		fmt.Fprintf(w, "warning: %s: no titled sections matched; page content dropped\n", hash)
		return false, hash, nil
	}

	size := ing.cfg.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	overlap := ing.cfg.ChunkOverlap
	if overlap <= 0 {
		overlap = DefaultChunkOverlap
	}

	chunks := SplitSections(sections, size, overlap)
	if len(chunks) == 0 {
		fmt.Fprintf(w, "warning: %s: sections were empty after cleaning; nothing to store\n", hash)
		return false, hash, nil
	}

	if err := ing.store.Add(ctx, chunks); err != nil {
		return false, hash, fmt.Errorf("storing %d chunks for %s: %w", len(chunks), hash, err)
	}

	fmt.Fprintf(w, "stored %s (%d chunks)\n", hash, len(chunks))
	return true, hash, nil
}
