// Package bibtexml imports BibTeXML documents into the bibliography model.
//
// BibTeXML (http://bibtexml.sf.net/) represents each record as
//
//	<bibtex:entry id="citation-key">
//	  <bibtex:article>
//	    <bibtex:author>...</bibtex:author>
//	    ...
//	  </bibtex:article>
//	</bibtex:entry>
//
// where the element under <entry> names the entry type and its children are
// the tags. XML carries no string variables or concatenation, so tag values
// import as literal fragments and run through the same resolution pass as
// parsed BibTeX text.
package bibtexml

import (
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/bibtex/core/bibtex"
	"github.com/FocuswithJustin/bibtex/core/syntax"
)

// entryExpr selects entry elements regardless of namespace prefix.
var entryExpr = xpath.MustCompile("//*[local-name()='entry']")

// Parse reads a BibTeXML document into raw bibliography entries.
func Parse(r io.Reader) ([]syntax.Entry, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse BibTeXML: %w", err)
	}

	var entries []syntax.Entry
	for _, node := range xmlquery.QuerySelectorAll(doc, entryExpr) {
		key := node.SelectAttr("id")
		if key == "" {
			return nil, fmt.Errorf("BibTeXML entry without id attribute")
		}

		typeNode := firstElement(node)
		if typeNode == nil {
			return nil, fmt.Errorf("BibTeXML entry %s has no entry type element", key)
		}

		var tags []syntax.KeyValue
		for tag := typeNode.FirstChild; tag != nil; tag = tag.NextSibling {
			if tag.Type != xmlquery.ElementNode {
				continue
			}
			tags = append(tags, syntax.KeyValue{
				Key:   tag.Data,
				Value: []syntax.Fragment{syntax.Literal{Value: strings.TrimSpace(tag.InnerText())}},
			})
		}

		entries = append(entries, syntax.Bibliography{
			EntryType:   typeNode.Data,
			CitationKey: key,
			Tags:        tags,
		})
	}
	return entries, nil
}

// Import parses a BibTeXML document and resolves it into a document.
func Import(r io.Reader) (*bibtex.Bibtex, error) {
	entries, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return bibtex.Build(entries)
}

func firstElement(node *xmlquery.Node) *xmlquery.Node {
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}
