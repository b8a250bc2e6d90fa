// Package syntax turns BibTeX text into an ordered stream of raw entries.
//
// The grammar, informally:
//
//	Database ::= (Junk '@' Declaration)*
//	Declaration ::= String | Preamble | Comment | Bibliography
//	String      ::= "string" Open Name '=' Value Close
//	Preamble    ::= "preamble" Open Value Close
//	Comment     ::= "comment" Open RawText Close
//	Bibliography ::= Name Open Key (',' Name '=' Value)* ','? Close
//	Value       ::= Piece ('#' Piece)*
//	Piece       ::= QuotedString | BracedString | Integer | Name
//
// Open/Close are a matched '{' '}' or '(' ')' pair. Declaration keywords are
// case-insensitive; names, entry types and citation keys are passed through
// as written. Braced strings keep interior braces and strip the outer pair.
// Text between declarations is junk and is ignored.
//
// Values are not resolved here: abbreviation names survive as Abbreviation
// fragments for the resolution pass in core/bibtex.
package syntax
