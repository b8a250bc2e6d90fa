package bibtex

import (
	"strings"

	apperrors "github.com/FocuswithJustin/bibtex/core/errors"
	"github.com/FocuswithJustin/bibtex/core/syntax"
)

// Bibtex is the resolved result of parsing a BibTeX database. It is
// immutable once built; every accessor returns a snapshot.
type Bibtex struct {
	comments       []string
	preambles      []string
	variables      map[string]string
	bibliographies []Bibliography
}

// Parse runs the full pipeline: grammar parse, variable resolution, document
// build. On failure no partial document is returned.
func Parse(input string) (*Bibtex, error) {
	entries, err := syntax.Parse(input)
	if err != nil {
		return nil, err
	}
	return Build(entries)
}

// RawParse exposes the grammar output without resolution, for callers that
// want the unresolved structure.
func RawParse(input string) ([]syntax.Entry, error) {
	return syntax.Parse(input)
}

// Build resolves a raw entry stream into a document. It is the entry point
// for importers that produce raw entries from other representations.
func Build(entries []syntax.Entry) (*Bibtex, error) {
	variables, err := resolveVariables(entries)
	if err != nil {
		return nil, err
	}

	doc := &Bibtex{variables: variables}
	for _, entry := range entries {
		switch e := entry.(type) {
		case syntax.Variable:
			// Consumed by resolveVariables.
		case syntax.Comment:
			doc.comments = append(doc.comments, e.Text)
		case syntax.Preamble:
			value, err := doc.expand(e.Value)
			if err != nil {
				return nil, err
			}
			doc.preambles = append(doc.preambles, value)
		case syntax.Bibliography:
			tags := make(map[string]string, len(e.Tags))
			for _, tag := range e.Tags {
				value, err := doc.expand(tag.Value)
				if err != nil {
					return nil, err
				}
				// Tag names are case-insensitive by convention; on a
				// case-fold collision the later declaration wins.
				tags[strings.ToLower(tag.Key)] = value
			}
			doc.bibliographies = append(doc.bibliographies, Bibliography{
				entryType:   e.EntryType,
				citationKey: e.CitationKey,
				tags:        tags,
			})
		}
	}
	return doc, nil
}

// expand resolves preamble and tag fragments. Variables shadow the month
// constants; a name missing from both scopes fails the parse.
func (b *Bibtex) expand(value []syntax.Fragment) (string, error) {
	var sb strings.Builder
	for _, frag := range value {
		switch f := frag.(type) {
		case syntax.Literal:
			sb.WriteString(f.Value)
		case syntax.Abbreviation:
			if v, ok := b.variables[f.Name]; ok {
				sb.WriteString(v)
			} else if m, ok := MonthName(f.Name); ok {
				sb.WriteString(m)
			} else {
				return "", &apperrors.UndefinedVariableError{Name: f.Name}
			}
		}
	}
	return sb.String(), nil
}

// Comments returns the @comment bodies in declaration order.
func (b *Bibtex) Comments() []string {
	return append([]string(nil), b.comments...)
}

// Preambles returns the expanded @preamble values in declaration order.
func (b *Bibtex) Preambles() []string {
	return append([]string(nil), b.preambles...)
}

// Variables returns the fully-expanded string variables. The map is a copy;
// it is an auxiliary view, not consumed internally after construction.
func (b *Bibtex) Variables() map[string]string {
	vars := make(map[string]string, len(b.variables))
	for k, v := range b.variables {
		vars[k] = v
	}
	return vars
}

// Bibliographies returns the resolved bibliography records in declaration
// order.
func (b *Bibtex) Bibliographies() []Bibliography {
	return append([]Bibliography(nil), b.bibliographies...)
}

// Bibliography is a resolved bibliography record.
type Bibliography struct {
	entryType   string
	citationKey string
	tags        map[string]string
}

// EntryType returns the publication type (article, book, ...) as declared.
func (b Bibliography) EntryType() string { return b.entryType }

// CitationKey returns the key external documents use to reference this
// record, as declared.
func (b Bibliography) CitationKey() string { return b.citationKey }

// Tags returns a copy of the tag mapping. Keys are lowercased.
func (b Bibliography) Tags() map[string]string {
	tags := make(map[string]string, len(b.tags))
	for k, v := range b.tags {
		tags[k] = v
	}
	return tags
}

// Tag looks up a single tag value, case-insensitively.
func (b Bibliography) Tag(name string) (string, bool) {
	v, ok := b.tags[strings.ToLower(name)]
	return v, ok
}
