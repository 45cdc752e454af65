package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-summarizer/internal/bib"
	"github.com/pdiddy/paper-summarizer/internal/llm"
	"github.com/pdiddy/paper-summarizer/internal/pdfproc"
	"github.com/pdiddy/paper-summarizer/internal/rag"
	"github.com/pdiddy/paper-summarizer/internal/spend"
	"github.com/pdiddy/paper-summarizer/internal/vectorstore"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "paper-summarizer/0.1"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [pdfs...]",
	Short: "Add PDF papers to the chunk store",
	Long: `Ingest reads PDF files, extracts bibliographic metadata from the first
page, splits the body into titled sections and overlapping chunks, and
indexes the chunks in the local store. Papers already in the store are
skipped.

Metadata is extracted by the language model unless --doi is given, in
which case it is fetched from the Crossref API instead.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("doi", "", "resolve metadata from this DOI via Crossref (single PDF only)")
	ingestCmd.Flags().String("model", "", "chat model identifier for metadata extraction")
	ingestCmd.Flags().String("embedding-model", "", "embedding model identifier")
	ingestCmd.Flags().Int("chunk-size", rag.DefaultChunkSize, "maximum chunk length in characters")
	ingestCmd.Flags().Int("chunk-overlap", rag.DefaultChunkOverlap, "overlap between consecutive chunks")
	ingestCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more PDF files")
	}

	doi, _ := cmd.Flags().GetString("doi")
	if doi != "" && len(args) > 1 {
		return fmt.Errorf("--doi applies to a single PDF; got %d", len(args))
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	chunkSize, _ := cmd.Flags().GetInt("chunk-size")
	chunkOverlap, _ := cmd.Flags().GetInt("chunk-overlap")

	storeCfg := storeConfig(cmd)
	ingestCfg := types.IngestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	}

	ledger, err := spend.OpenLedger(storeCfg)
	if err != nil {
		return err
	}
	defer saveLedger(ledger)

	client := llm.NewClient(llmConfig(cmd), ledger)
	store, err := vectorstore.Open(storeCfg, client)
	if err != nil {
		return err
	}
	defer store.Close()

	ingestor := rag.NewIngestor(store, ingestCfg)

	ctx := cmd.Context()
	failed := 0
	for _, path := range args {
		if err := ingestOne(ctx, ingestor, client, path, doi, ingestCfg.HTTPConfig); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d paper(s) failed ingestion", failed)
	}
	return nil
}

// ingestOne loads one PDF, resolves its metadata, and stores its chunks.
func ingestOne(ctx context.Context, ingestor *rag.Ingestor, client *llm.Client, path, doi string, httpCfg types.HTTPConfig) error {
	pages, err := pdfproc.LoadPDF(path)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no pages")
	}

	var meta types.PaperMeta
	if doi != "" {
		crossref := &bib.CrossrefClient{Client: &http.Client{Timeout: httpCfg.Timeout}}
		meta, err = crossref.Lookup(ctx, doi, httpCfg)
	} else {
		meta, err = client.ExtractMetadata(ctx, pages[0])
	}
	if err != nil {
		return fmt.Errorf("resolving metadata: %w", err)
	}

	_, _, err = ingestor.IngestPages(ctx, pages, meta, os.Stdout)
	return err
}

// saveLedger persists the spend ledger, reporting rather than propagating
// failures so a ledger write error never masks the pipeline result.
func saveLedger(ledger *spend.Ledger) {
	if err := ledger.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: saving spend ledger: %v\n", err)
	}
}
