package syntax

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	apperrors "github.com/FocuswithJustin/bibtex/core/errors"
)

// TestParseStringVariable tests parsing a basic @string definition.
func TestParseStringVariable(t *testing.T) {
	entries, err := Parse(`@string{inst = "MIT"}`)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	v, ok := entries[0].(Variable)
	if !ok {
		t.Fatalf("expected Variable, got %T", entries[0])
	}
	if v.Key != "inst" {
		t.Errorf("key mismatch: got %q, want %q", v.Key, "inst")
	}
	want := []Fragment{Literal{Value: "MIT"}}
	if !reflect.DeepEqual(v.Value, want) {
		t.Errorf("value mismatch: got %#v, want %#v", v.Value, want)
	}
}

// TestParseConcatenation tests # concatenation of literals and abbreviations.
func TestParseConcatenation(t *testing.T) {
	entries, err := Parse(`@string{full = "a" # mid # {b}}`)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	v := entries[0].(Variable)
	want := []Fragment{
		Literal{Value: "a"},
		Abbreviation{Name: "mid"},
		Literal{Value: "b"},
	}
	if !reflect.DeepEqual(v.Value, want) {
		t.Errorf("fragments mismatch: got %#v, want %#v", v.Value, want)
	}
}

// TestParseBibliography tests a bibliography record with several tag kinds.
func TestParseBibliography(t *testing.T) {
	input := `@article{rivest1978,
		author = "Rivest and Shamir and Adleman",
		title  = {A Method for Obtaining Digital Signatures},
		year   = 1978,
		month  = feb,
	}`
	entries, err := Parse(input)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	bib, ok := entries[0].(Bibliography)
	if !ok {
		t.Fatalf("expected Bibliography, got %T", entries[0])
	}
	if bib.EntryType != "article" {
		t.Errorf("entry type mismatch: got %q", bib.EntryType)
	}
	if bib.CitationKey != "rivest1978" {
		t.Errorf("citation key mismatch: got %q", bib.CitationKey)
	}
	if len(bib.Tags) != 4 {
		t.Fatalf("expected 4 tags, got %d", len(bib.Tags))
	}

	wantTags := []KeyValue{
		{Key: "author", Value: []Fragment{Literal{Value: "Rivest and Shamir and Adleman"}}},
		{Key: "title", Value: []Fragment{Literal{Value: "A Method for Obtaining Digital Signatures"}}},
		{Key: "year", Value: []Fragment{Literal{Value: "1978"}}},
		{Key: "month", Value: []Fragment{Abbreviation{Name: "feb"}}},
	}
	if !reflect.DeepEqual(bib.Tags, wantTags) {
		t.Errorf("tags mismatch:\ngot  %#v\nwant %#v", bib.Tags, wantTags)
	}
}

// TestParseParenthesesDelimiters tests the ( ) entry delimiter form.
func TestParseParenthesesDelimiters(t *testing.T) {
	entries, err := Parse(`@article(key1, title = "T")`)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	bib := entries[0].(Bibliography)
	if bib.CitationKey != "key1" {
		t.Errorf("citation key mismatch: got %q", bib.CitationKey)
	}
	if len(bib.Tags) != 1 || bib.Tags[0].Key != "title" {
		t.Errorf("unexpected tags: %#v", bib.Tags)
	}
}

// TestParseComment tests that @comment bodies pass through verbatim,
// including nested braces and punctuation.
func TestParseComment(t *testing.T) {
	entries, err := Parse(`@comment{hello, world = {nested} stuff!}`)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	c, ok := entries[0].(Comment)
	if !ok {
		t.Fatalf("expected Comment, got %T", entries[0])
	}
	if c.Text != "hello, world = {nested} stuff!" {
		t.Errorf("comment body mismatch: got %q", c.Text)
	}
}

// TestParsePreamble tests @preamble with concatenation.
func TestParsePreamble(t *testing.T) {
	entries, err := Parse(`@preamble{"Maintained by " # maintainer}`)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	p, ok := entries[0].(Preamble)
	if !ok {
		t.Fatalf("expected Preamble, got %T", entries[0])
	}
	want := []Fragment{
		Literal{Value: "Maintained by "},
		Abbreviation{Name: "maintainer"},
	}
	if !reflect.DeepEqual(p.Value, want) {
		t.Errorf("fragments mismatch: got %#v, want %#v", p.Value, want)
	}
}

// TestParseJunkIgnored tests that free text between declarations is skipped
// while entry order is preserved.
func TestParseJunkIgnored(t *testing.T) {
	input := `This file collects crypto papers.
@string{a = "1"}
some more junk text
@misc{m1}
trailing junk`
	entries, err := Parse(input)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if _, ok := entries[0].(Variable); !ok {
		t.Errorf("expected Variable first, got %T", entries[0])
	}
	if _, ok := entries[1].(Bibliography); !ok {
		t.Errorf("expected Bibliography second, got %T", entries[1])
	}
}

// TestParseNestedBraces tests that braced values keep interior braces and
// strip only the outer pair.
func TestParseNestedBraces(t *testing.T) {
	entries, err := Parse(`@misc{k, title = {The {TeX}book {a {b}} end}}`)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	bib := entries[0].(Bibliography)
	got := bib.Tags[0].Value[0].(Literal).Value
	want := "The {TeX}book {a {b}} end"
	if got != want {
		t.Errorf("braced value mismatch: got %q, want %q", got, want)
	}
}

// TestParseQuotedWithBraces tests that braces protect quotes inside quoted
// strings.
func TestParseQuotedWithBraces(t *testing.T) {
	entries, err := Parse(`@misc{k, note = "a {"} b"}`)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	bib := entries[0].(Bibliography)
	got := bib.Tags[0].Value[0].(Literal).Value
	if got != `a {"} b` {
		t.Errorf("quoted value mismatch: got %q", got)
	}
}

// TestParseCaseInsensitiveKeywords tests @STRING/@PreAmble/@COMMENT forms.
func TestParseCaseInsensitiveKeywords(t *testing.T) {
	input := `@STRING{a = "1"}
@PreAmble{"p"}
@COMMENT{c}`
	entries, err := Parse(input)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if _, ok := entries[0].(Variable); !ok {
		t.Errorf("expected Variable, got %T", entries[0])
	}
	if _, ok := entries[1].(Preamble); !ok {
		t.Errorf("expected Preamble, got %T", entries[1])
	}
	if _, ok := entries[2].(Comment); !ok {
		t.Errorf("expected Comment, got %T", entries[2])
	}
}

// TestParseEntryTypeCasePreserved tests that entry types and citation keys
// are not normalized.
func TestParseEntryTypeCasePreserved(t *testing.T) {
	entries, err := Parse(`@ARTICLE{MyKey, title = "x"}`)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	bib := entries[0].(Bibliography)
	if bib.EntryType != "ARTICLE" {
		t.Errorf("entry type was normalized: got %q", bib.EntryType)
	}
	if bib.CitationKey != "MyKey" {
		t.Errorf("citation key was normalized: got %q", bib.CitationKey)
	}
}

// TestParseEmptyInput tests that junk-only input yields an empty stream.
func TestParseEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n\t", "no entries here"} {
		entries, err := Parse(input)
		if err != nil {
			t.Fatalf("failed to parse %q: %v", input, err)
		}
		if len(entries) != 0 {
			t.Errorf("expected no entries for %q, got %d", input, len(entries))
		}
	}
}

// TestParseSyntaxError tests that malformed input fails with a positioned
// SyntaxError and no partial result.
func TestParseSyntaxError(t *testing.T) {
	cases := []string{
		`@article{key, title = }`,
		`@article{key, title = "unterminated}`,
		`@string{a = "1"`,
		`@article key, title = "x"}`,
		`@`,
	}
	for _, input := range cases {
		entries, err := Parse(input)
		if err == nil {
			t.Errorf("expected error for %q", input)
			continue
		}
		if entries != nil {
			t.Errorf("expected no partial result for %q", input)
		}
		var serr *apperrors.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("expected SyntaxError for %q, got %T", input, err)
			continue
		}
		if serr.Line < 1 || serr.Column < 1 {
			t.Errorf("missing position for %q: line=%d column=%d", input, serr.Line, serr.Column)
		}
		if !apperrors.IsSyntax(err) {
			t.Errorf("error for %q does not unwrap to ErrSyntax", input)
		}
	}
}

// TestParseSyntaxErrorSnippet tests that the error quotes the offending
// input region.
func TestParseSyntaxErrorSnippet(t *testing.T) {
	input := "@string{a = \"1\"}\n@article{broken, title = }"
	_, err := Parse(input)
	if err == nil {
		t.Fatal("expected error")
	}
	var serr *apperrors.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SyntaxError, got %T", err)
	}
	if serr.Line != 2 {
		t.Errorf("expected failure on line 2, got %d", serr.Line)
	}
	if !strings.Contains(serr.Snippet, "broken") {
		t.Errorf("snippet does not quote the input region: %q", serr.Snippet)
	}
}

// TestParseBibliographyWithoutTags tests a bare citation record, with and
// without a trailing comma.
func TestParseBibliographyWithoutTags(t *testing.T) {
	for _, input := range []string{`@misc{lonely}`, `@misc{lonely,}`} {
		entries, err := Parse(input)
		if err != nil {
			t.Fatalf("failed to parse %q: %v", input, err)
		}
		bib := entries[0].(Bibliography)
		if bib.CitationKey != "lonely" || len(bib.Tags) != 0 {
			t.Errorf("unexpected result for %q: %#v", input, bib)
		}
	}
}

// TestParseNumericCitationKey tests that an all-digit citation key parses.
func TestParseNumericCitationKey(t *testing.T) {
	entries, err := Parse(`@misc{2024, title = "x"}`)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if key := entries[0].(Bibliography).CitationKey; key != "2024" {
		t.Errorf("citation key mismatch: got %q", key)
	}
}
