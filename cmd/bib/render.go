package main

import (
	"github.com/FocuswithJustin/bibtex/core/bibtex"
	"github.com/FocuswithJustin/bibtex/core/syntax"
)

// documentOutput is the JSON shape of a resolved document.
type documentOutput struct {
	Comments       []string             `json:"comments"`
	Preambles      []string             `json:"preambles"`
	Variables      map[string]string    `json:"variables"`
	Bibliographies []bibliographyOutput `json:"bibliographies"`
	Fingerprint    string               `json:"fingerprint"`
}

type bibliographyOutput struct {
	EntryType   string            `json:"entry_type"`
	CitationKey string            `json:"citation_key"`
	Tags        map[string]string `json:"tags"`
}

func renderDocument(doc *bibtex.Bibtex) documentOutput {
	bibs := doc.Bibliographies()
	out := documentOutput{
		Comments:       doc.Comments(),
		Preambles:      doc.Preambles(),
		Variables:      doc.Variables(),
		Bibliographies: make([]bibliographyOutput, 0, len(bibs)),
		Fingerprint:    doc.Fingerprint(),
	}
	for _, bib := range bibs {
		out.Bibliographies = append(out.Bibliographies, bibliographyOutput{
			EntryType:   bib.EntryType(),
			CitationKey: bib.CitationKey(),
			Tags:        bib.Tags(),
		})
	}
	return out
}

// rawEntryOutput is the JSON shape of one unresolved entry.
type rawEntryOutput struct {
	Kind        string           `json:"kind"`
	Key         string           `json:"key,omitempty"`
	Text        string           `json:"text,omitempty"`
	Value       []fragmentOutput `json:"value,omitempty"`
	EntryType   string           `json:"entry_type,omitempty"`
	CitationKey string           `json:"citation_key,omitempty"`
	Tags        []tagOutput      `json:"tags,omitempty"`
}

type tagOutput struct {
	Key   string           `json:"key"`
	Value []fragmentOutput `json:"value"`
}

type fragmentOutput struct {
	Text         *string `json:"text,omitempty"`
	Abbreviation *string `json:"abbreviation,omitempty"`
}

func renderRawEntries(entries []syntax.Entry) []rawEntryOutput {
	out := make([]rawEntryOutput, 0, len(entries))
	for _, entry := range entries {
		switch e := entry.(type) {
		case syntax.Variable:
			out = append(out, rawEntryOutput{
				Kind:  "variable",
				Key:   e.Key,
				Value: renderFragments(e.Value),
			})
		case syntax.Comment:
			out = append(out, rawEntryOutput{Kind: "comment", Text: e.Text})
		case syntax.Preamble:
			out = append(out, rawEntryOutput{Kind: "preamble", Value: renderFragments(e.Value)})
		case syntax.Bibliography:
			tags := make([]tagOutput, 0, len(e.Tags))
			for _, tag := range e.Tags {
				tags = append(tags, tagOutput{Key: tag.Key, Value: renderFragments(tag.Value)})
			}
			out = append(out, rawEntryOutput{
				Kind:        "bibliography",
				EntryType:   e.EntryType,
				CitationKey: e.CitationKey,
				Tags:        tags,
			})
		}
	}
	return out
}

func renderFragments(frags []syntax.Fragment) []fragmentOutput {
	out := make([]fragmentOutput, 0, len(frags))
	for _, frag := range frags {
		switch f := frag.(type) {
		case syntax.Literal:
			v := f.Value
			out = append(out, fragmentOutput{Text: &v})
		case syntax.Abbreviation:
			n := f.Name
			out = append(out, fragmentOutput{Abbreviation: &n})
		}
	}
	return out
}
