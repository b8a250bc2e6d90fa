// Package bibtex resolves raw BibTeX entry streams into queryable documents.
//
// The pipeline runs in one pass per call and keeps no state between calls:
//
//   - core/syntax parses text into the ordered raw entry stream
//   - variable resolution expands every @string definition, independent of
//     declaration order
//   - the document builder walks the stream, expanding preambles and tag
//     values against the resolved variables and the built-in month constants
//
// The result is a Bibtex document: comments, preambles, variables and
// bibliography records with all abbreviations replaced by plain text. Any
// failure aborts the whole parse; there is no partial result.
package bibtex
