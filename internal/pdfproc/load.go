// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfproc turns PDF files into titled, cleaned sections ready for
// chunking. Text extraction is per physical page; section detection is a
// line-oriented heuristic over the page text.
package pdfproc

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// LoadPDF extracts plain text from the PDF at path, one string per
// physical page. Pages that cannot be represented yield an empty string
// rather than failing the whole document.
func LoadPDF(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
