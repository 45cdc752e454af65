// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import "strings"

// Name is a person's name split into given and family parts, matching the
// CSL author shape consumed by the bibliography renderer.
type Name struct {
	Given  string `json:"given" yaml:"given"`
	Family string `json:"family" yaml:"family"`
}

// ParseAuthors splits a semicolon-delimited author string into names.
// Within each name, the first whitespace-separated token is the given name
// and the last token is the family name. A single-token name degrades to
// given = family = that token. Empty segments are skipped.
func ParseAuthors(author string) []Name {
	var names []Name
	for _, part := range strings.Split(author, ";") {
		tokens := strings.Fields(part)
		if len(tokens) == 0 {
			continue
		}
		names = append(names, Name{
			Given:  tokens[0],
			Family: tokens[len(tokens)-1],
		})
	}
	return names
}

// JoinAuthors renders names back into the semicolon-delimited "Given Family"
// form used in chunk metadata.
func JoinAuthors(names []Name) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		switch {
		case n.Given == "" && n.Family == "":
			continue
		case n.Given == "":
			parts = append(parts, n.Family)
		case n.Family == "" || n.Given == n.Family:
			parts = append(parts, n.Given)
		default:
			parts = append(parts, n.Given+" "+n.Family)
		}
	}
	return strings.Join(parts, "; ")
}
