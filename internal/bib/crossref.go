// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-summarizer/internal/httputil"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// crossrefWorksBase is the Crossref Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefWorksBase = "https://api.crossref.org/works"

// CrossrefClient fetches bibliographic metadata for a DOI from the Crossref
// REST API. It is the ingestion-side alternative to LLM metadata extraction
// when the caller already knows the paper's DOI.
type CrossrefClient struct {
	Client *http.Client
}

// crossrefResponse is the subset of the Crossref Works payload we consume.
type crossrefResponse struct {
	Message struct {
		Title          []string       `json:"title"`
		Author         []crossrefName `json:"author"`
		ContainerTitle []string       `json:"container-title"`
		Issued         struct {
			DateParts [][]int `json:"date-parts"`
		} `json:"issued"`
		Volume string `json:"volume"`
		Issue  string `json:"issue"`
		Page   string `json:"page"`
		DOI    string `json:"DOI"`
	} `json:"message"`
}

// crossrefName is an author entry in the Crossref payload.
type crossrefName struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

// Lookup resolves a DOI to PaperMeta. Rate-limited responses are retried
// with backoff; other non-200 responses are errors.
func (c *CrossrefClient) Lookup(ctx context.Context, doi string, cfg types.HTTPConfig) (types.PaperMeta, error) {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return types.PaperMeta{}, fmt.Errorf("empty DOI")
	}

	reqURL := crossrefWorksBase + "/" + url.PathEscape(doi)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.PaperMeta{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return types.PaperMeta{}, fmt.Errorf("Crossref API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.PaperMeta{}, fmt.Errorf("Crossref API returned HTTP %d for %s", resp.StatusCode, doi)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return types.PaperMeta{}, fmt.Errorf("parsing Crossref response: %w", err)
	}

	meta := types.PaperMeta{
		Volume: cr.Message.Volume,
		Number: cr.Message.Issue,
		Pages:  cr.Message.Page,
		DOI:    cr.Message.DOI,
	}
	if meta.DOI == "" {
		meta.DOI = doi
	}
	if len(cr.Message.Title) > 0 {
		meta.Title = cr.Message.Title[0]
	}
	if len(cr.Message.ContainerTitle) > 0 {
		meta.Journal = cr.Message.ContainerTitle[0]
	}
	if parts := cr.Message.Issued.DateParts; len(parts) > 0 && len(parts[0]) > 0 {
		meta.Year = strconv.Itoa(parts[0][0])
	}

	names := make([]Name, 0, len(cr.Message.Author))
	for _, a := range cr.Message.Author {
		if a.Given == "" && a.Family == "" {
			continue
		}
		names = append(names, Name{Given: a.Given, Family: a.Family})
	}
	meta.Author = JoinAuthors(names)

	return meta, nil
}
