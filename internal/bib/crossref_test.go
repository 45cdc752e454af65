// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

const crossrefFixture = `{
	"message": {
		"title": ["Efficient Attention Mechanisms"],
		"author": [
			{"given": "Jane", "family": "Doe"},
			{"given": "John", "family": "Smith"}
		],
		"container-title": ["Journal of Machine Learning"],
		"issued": {"date-parts": [[2020, 6, 1]]},
		"volume": "21",
		"issue": "3",
		"page": "1-24",
		"DOI": "10.5555/attention"
	}
}`

func TestCrossrefLookup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/10.5555%2Fattention" && r.URL.Path != "/10.5555/attention" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(crossrefFixture))
	}))
	defer ts.Close()

	oldBase := crossrefWorksBase
	crossrefWorksBase = ts.URL
	defer func() { crossrefWorksBase = oldBase }()

	c := &CrossrefClient{Client: ts.Client()}
	meta, err := c.Lookup(context.Background(), "10.5555/attention", types.HTTPConfig{UserAgent: "paper-summarizer/test"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	if meta.Title != "Efficient Attention Mechanisms" {
		t.Errorf("Title = %q", meta.Title)
	}
	if meta.Author != "Jane Doe; John Smith" {
		t.Errorf("Author = %q", meta.Author)
	}
	if meta.Journal != "Journal of Machine Learning" {
		t.Errorf("Journal = %q", meta.Journal)
	}
	if meta.Year != "2020" {
		t.Errorf("Year = %q", meta.Year)
	}
	if meta.Volume != "21" || meta.Number != "3" || meta.Pages != "1-24" {
		t.Errorf("Volume/Number/Pages = %q/%q/%q", meta.Volume, meta.Number, meta.Pages)
	}
	if meta.DOI != "10.5555/attention" {
		t.Errorf("DOI = %q", meta.DOI)
	}
}

func TestCrossrefLookupHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	oldBase := crossrefWorksBase
	crossrefWorksBase = ts.URL
	defer func() { crossrefWorksBase = oldBase }()

	c := &CrossrefClient{Client: ts.Client()}
	if _, err := c.Lookup(context.Background(), "10.1/missing", types.HTTPConfig{}); err == nil {
		t.Fatal("expected error for HTTP 404")
	}
}

func TestCrossrefLookupEmptyDOI(t *testing.T) {
	c := &CrossrefClient{}
	if _, err := c.Lookup(context.Background(), "  ", types.HTTPConfig{}); err == nil {
		t.Fatal("expected error for empty DOI")
	}
}
