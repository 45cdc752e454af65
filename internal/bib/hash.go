// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bib handles bibliographic metadata: content hashing for dedup and
// citation anchoring, author-name parsing, and DOI metadata lookup.
package bib

import (
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// HashLength is the number of hex characters kept from the digest. The
// truncation weakens the SHA-256 collision guarantee, which is acceptable
// because metadata is not adversarial.
const HashLength = 8

// metaFields returns the metadata as a key/value mapping. Absent fields
// participate as empty strings so that hashing stays order-independent
// and deterministic.
func metaFields(m types.PaperMeta) map[string]string {
	return map[string]string{
		"author":  m.Author,
		"title":   m.Title,
		"journal": m.Journal,
		"year":    m.Year,
		"volume":  m.Volume,
		"number":  m.Number,
		"pages":   m.Pages,
		"doi":     m.DOI,
	}
}

// Hash derives the stable 8-character content hash of a paper from its
// bibliographic metadata. Key/value pairs are serialized sorted by key and
// digested with SHA-256; the hex digest is truncated to HashLength
// characters. Identical metadata always yields an identical hash.
func Hash(m types.PaperMeta) string {
	fields := metaFields(m)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s\n", k, fields[k])
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:HashLength]
}
