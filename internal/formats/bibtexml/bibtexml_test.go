package bibtexml

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/bibtex/core/syntax"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<bibtex:file xmlns:bibtex="http://bibtexml.sf.net/">
  <bibtex:entry id="rivest1978">
    <bibtex:article>
      <bibtex:author>Rivest and Shamir and Adleman</bibtex:author>
      <bibtex:title>
        A Method for Obtaining Digital Signatures
      </bibtex:title>
      <bibtex:year>1978</bibtex:year>
    </bibtex:article>
  </bibtex:entry>
  <bibtex:entry id="knuth1984">
    <bibtex:book>
      <bibtex:title>The TeXbook</bibtex:title>
    </bibtex:book>
  </bibtex:entry>
</bibtex:file>`

// TestParse tests lowering BibTeXML into raw entries.
func TestParse(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	bib, ok := entries[0].(syntax.Bibliography)
	if !ok {
		t.Fatalf("expected Bibliography, got %T", entries[0])
	}
	if bib.EntryType != "article" || bib.CitationKey != "rivest1978" {
		t.Errorf("unexpected header: %q %q", bib.EntryType, bib.CitationKey)
	}
	if len(bib.Tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(bib.Tags))
	}
	if bib.Tags[1].Key != "title" {
		t.Errorf("tag order lost: %#v", bib.Tags)
	}

	title := bib.Tags[1].Value[0].(syntax.Literal).Value
	if title != "A Method for Obtaining Digital Signatures" {
		t.Errorf("whitespace not trimmed: %q", title)
	}
}

// TestImport tests resolving imported entries into a document.
func TestImport(t *testing.T) {
	doc, err := Import(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatalf("failed to import: %v", err)
	}

	bibs := doc.Bibliographies()
	if len(bibs) != 2 {
		t.Fatalf("expected 2 bibliographies, got %d", len(bibs))
	}
	if got, _ := bibs[0].Tag("year"); got != "1978" {
		t.Errorf("year mismatch: got %q", got)
	}
	if bibs[1].EntryType() != "book" {
		t.Errorf("entry type mismatch: got %q", bibs[1].EntryType())
	}
}

// TestParseUnprefixed tests documents without a namespace prefix.
func TestParseUnprefixed(t *testing.T) {
	xml := `<file><entry id="k"><misc><note>n</note></misc></entry></file>`
	entries, err := Parse(strings.NewReader(xml))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].(syntax.Bibliography).EntryType != "misc" {
		t.Errorf("unexpected entry type: %#v", entries[0])
	}
}

// TestParseMissingID tests that entries without an id attribute fail.
func TestParseMissingID(t *testing.T) {
	xml := `<file><entry><misc><note>n</note></misc></entry></file>`
	if _, err := Parse(strings.NewReader(xml)); err == nil {
		t.Error("expected error for entry without id")
	}
}

// TestParseMissingType tests that entries without a type element fail.
func TestParseMissingType(t *testing.T) {
	xml := `<file><entry id="k"></entry></file>`
	if _, err := Parse(strings.NewReader(xml)); err == nil {
		t.Error("expected error for entry without type element")
	}
}
