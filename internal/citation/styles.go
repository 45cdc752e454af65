// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"fmt"
	"strings"

	"github.com/pdiddy/paper-summarizer/internal/bib"
)

// DefaultStyle is the bibliography style used when the caller does not
// select one.
const DefaultStyle = "harvard1"

// style renders one entry as a bibliography line. pos is the 1-based
// position in the cited order, used by numbered styles.
type style interface {
	render(pos int, e Entry) string
}

// styles maps style names to renderers.
var styles = map[string]style{
	"harvard1": harvardStyle{},
	"apa":      apaStyle{},
	"ieee":     ieeeStyle{},
}

// StyleNames returns the supported style names, for CLI help text.
func StyleNames() []string {
	return []string{"harvard1", "apa", "ieee"}
}

// StyleWarning reports an id the style engine could not resolve during
// rendering. Rendering continues with the remaining ids.
type StyleWarning struct {
	ID string
}

func (w StyleWarning) String() string {
	return fmt.Sprintf("reference with key '%s' not found in the bibliography", w.ID)
}

// Bibliography renders registered entries in a named style.
type Bibliography struct {
	style style
	byID  map[string]Entry
}

// NewBibliography builds a bibliography over the entries. Unknown style
// names are an error.
func NewBibliography(styleName string, entries []Entry) (*Bibliography, error) {
	if styleName == "" {
		styleName = DefaultStyle
	}
	st, ok := styles[styleName]
	if !ok {
		return nil, fmt.Errorf("unknown citation style %q: supported styles are %s",
			styleName, strings.Join(StyleNames(), ", "))
	}

	byID := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	return &Bibliography{style: st, byID: byID}, nil
}

// Cite renders one bibliography line per resolvable id, in the given
// order. Ids with no registered entry produce a StyleWarning instead of a
// line.
func (b *Bibliography) Cite(ids []string) ([]string, []StyleWarning) {
	var (
		lines    []string
		warnings []StyleWarning
	)
	for _, id := range ids {
		e, ok := b.byID[id]
		if !ok {
			warnings = append(warnings, StyleWarning{ID: id})
			continue
		}
		lines = append(lines, b.style.render(len(lines)+1, e))
	}
	return lines, warnings
}

// harvardStyle renders the harvard1 author-date form:
// "Doe, J. & Smith, J., 2020. Title. Journal, 21(3), pp.1-24."
type harvardStyle struct{}

func (harvardStyle) render(_ int, e Entry) string {
	var b strings.Builder

	if authors := joinNames(e.Author, initialAfterFamily, " & "); authors != "" {
		b.WriteString(authors)
		b.WriteString(", ")
	}
	b.WriteString(yearOr(e.Year, "n.d."))
	b.WriteString(". ")
	if e.Title != "" {
		b.WriteString(e.Title)
		b.WriteString(". ")
	}
	if e.ContainerTitle != "" {
		b.WriteString(e.ContainerTitle)
		if e.Volume != "" {
			b.WriteString(", ")
			b.WriteString(e.Volume)
			if e.Issue != "" {
				fmt.Fprintf(&b, "(%s)", e.Issue)
			}
		}
		if e.Page != "" {
			b.WriteString(", pp.")
			b.WriteString(e.Page)
		}
		b.WriteString(".")
	}

	return strings.TrimSpace(b.String())
}

// apaStyle renders the APA form:
// "Doe, J., & Smith, J. (2020). Title. Journal, 21(3), 1-24. https://doi.org/10.1/x"
type apaStyle struct{}

func (apaStyle) render(_ int, e Entry) string {
	var b strings.Builder

	if authors := joinNames(e.Author, initialAfterFamily, ", & "); authors != "" {
		b.WriteString(authors)
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "(%s). ", yearOr(e.Year, "n.d."))
	if e.Title != "" {
		b.WriteString(e.Title)
		b.WriteString(". ")
	}
	if e.ContainerTitle != "" {
		b.WriteString(e.ContainerTitle)
		if e.Volume != "" {
			b.WriteString(", ")
			b.WriteString(e.Volume)
			if e.Issue != "" {
				fmt.Fprintf(&b, "(%s)", e.Issue)
			}
		}
		if e.Page != "" {
			b.WriteString(", ")
			b.WriteString(e.Page)
		}
		b.WriteString(".")
	}
	if e.DOI != "" {
		b.WriteString(" https://doi.org/")
		b.WriteString(e.DOI)
	}

	return strings.TrimSpace(b.String())
}

// ieeeStyle renders the numbered IEEE form:
// "[1] J. Doe and J. Smith, "Title," Journal, vol. 21, no. 3, pp. 1-24, 2020."
type ieeeStyle struct{}

func (ieeeStyle) render(pos int, e Entry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%d] ", pos)
	if authors := joinNames(e.Author, initialBeforeFamily, " and "); authors != "" {
		b.WriteString(authors)
		b.WriteString(", ")
	}
	if e.Title != "" {
		fmt.Fprintf(&b, "%q, ", e.Title)
	}
	if e.ContainerTitle != "" {
		b.WriteString(e.ContainerTitle)
		b.WriteString(", ")
	}
	if e.Volume != "" {
		fmt.Fprintf(&b, "vol. %s, ", e.Volume)
	}
	if e.Issue != "" {
		fmt.Fprintf(&b, "no. %s, ", e.Issue)
	}
	if e.Page != "" {
		fmt.Fprintf(&b, "pp. %s, ", e.Page)
	}
	b.WriteString(yearOr(e.Year, "n.d."))
	b.WriteString(".")

	return strings.TrimSpace(b.String())
}

// nameForm renders one parsed name for a particular style.
type nameForm func(n bib.Name) string

// initialAfterFamily renders the harvard/APA author form, "Doe, J.".
func initialAfterFamily(n bib.Name) string {
	if ini := initial(n.Given); ini != "" && n.Family != "" && n.Given != n.Family {
		return n.Family + ", " + ini
	}
	return n.Family
}

// initialBeforeFamily renders the IEEE author form, "J. Doe".
func initialBeforeFamily(n bib.Name) string {
	if ini := initial(n.Given); ini != "" && n.Family != "" && n.Given != n.Family {
		return ini + " " + n.Family
	}
	return n.Family
}

// initial reduces a given name to its dotted initial.
func initial(given string) string {
	for _, r := range given {
		return string(r) + "."
	}
	return ""
}

// joinNames renders every name with form and joins them, using lastSep
// before the final name.
func joinNames(names []bib.Name, form nameForm, lastSep string) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if p := form(n); p != "" {
			parts = append(parts, p)
		}
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + lastSep + parts[len(parts)-1]
	}
}

// yearOr renders year or a fallback for undated entries.
func yearOr(year int, fallback string) string {
	if year <= 0 {
		return fallback
	}
	return fmt.Sprintf("%d", year)
}
