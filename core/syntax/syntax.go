package syntax

import (
	"errors"

	"github.com/alecthomas/participle/v2"

	apperrors "github.com/FocuswithJustin/bibtex/core/errors"
)

// Fragment is one piece of an unresolved value. A value is the ordered
// concatenation of its fragments.
type Fragment interface{ isFragment() }

// Literal is a plain string segment.
type Literal struct {
	Value string
}

// Abbreviation names a string variable or built-in constant to substitute.
type Abbreviation struct {
	Name string
}

func (Literal) isFragment()      {}
func (Abbreviation) isFragment() {}

// KeyValue pairs a name with its unresolved value fragments. It only exists
// during parsing and resolution; resolved documents keep plain strings.
type KeyValue struct {
	Key   string
	Value []Fragment
}

// Entry is a raw declaration in file order.
type Entry interface{ isEntry() }

// Variable is an @string definition. It is consumed by variable resolution
// and not retained in the resolved document.
type Variable struct {
	KeyValue
}

// Comment is the body of an @comment declaration, verbatim.
type Comment struct {
	Text string
}

// Preamble is an @preamble value, unresolved.
type Preamble struct {
	Value []Fragment
}

// Bibliography is a raw bibliography record with unresolved tag values.
type Bibliography struct {
	EntryType   string
	CitationKey string
	Tags        []KeyValue
}

func (Variable) isEntry()     {}
func (Comment) isEntry()      {}
func (Preamble) isEntry()     {}
func (Bibliography) isEntry() {}

// Grammar AST. Lowered to the exported entry types after parsing.

type file struct {
	Decls []decl `@@*`
}

type decl struct {
	Comment  *commentDecl  `  @@`
	String   *stringDecl   `| @@`
	Preamble *preambleDecl `| @@`
	Biblio   *biblioDecl   `| @@`
}

type commentDecl struct {
	Body string `At CommentKw Open @CommentText Close`
}

type stringDecl struct {
	Def keyValueNode `At StringKw Open @@ Close`
}

type preambleDecl struct {
	Value []valueNode `At PreambleKw Open @@ ( Concat @@ )* Close`
}

type biblioDecl struct {
	EntryType string         `At @Ident Open`
	Key       string         `@( Ident | Number )`
	Tags      []keyValueNode `( Comma @@ )* Comma? Close`
}

type keyValueNode struct {
	Key   string      `@Ident Equals`
	Value []valueNode `@@ ( Concat @@ )*`
}

type valueNode struct {
	Quoted *string `  @Quoted`
	Braced *string `| @Braced`
	Number *string `| @Number`
	Abbrev *string `| @Ident`
}

var bibParser = participle.MustBuild[file](
	participle.Lexer(bibDefinition{}),
	participle.UseLookahead(2),
)

// Parse turns BibTeX text into the ordered raw entry stream. Failures are
// reported as *errors.SyntaxError quoting the offending input region.
func Parse(input string) ([]Entry, error) {
	ast, err := bibParser.ParseString("", input)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			pos := perr.Position()
			return nil, apperrors.NewSyntaxError(input, pos.Offset, pos.Line, pos.Column, perr.Message(), err)
		}
		return nil, apperrors.NewSyntaxError(input, 0, 1, 1, err.Error(), err)
	}
	return lowerFile(ast), nil
}

func lowerFile(ast *file) []Entry {
	entries := make([]Entry, 0, len(ast.Decls))
	for _, d := range ast.Decls {
		switch {
		case d.Comment != nil:
			entries = append(entries, Comment{Text: d.Comment.Body})
		case d.String != nil:
			entries = append(entries, Variable{KeyValue: lowerKeyValue(d.String.Def)})
		case d.Preamble != nil:
			entries = append(entries, Preamble{Value: lowerValue(d.Preamble.Value)})
		case d.Biblio != nil:
			tags := make([]KeyValue, 0, len(d.Biblio.Tags))
			for _, tag := range d.Biblio.Tags {
				tags = append(tags, lowerKeyValue(tag))
			}
			entries = append(entries, Bibliography{
				EntryType:   d.Biblio.EntryType,
				CitationKey: d.Biblio.Key,
				Tags:        tags,
			})
		}
	}
	return entries
}

func lowerKeyValue(node keyValueNode) KeyValue {
	return KeyValue{Key: node.Key, Value: lowerValue(node.Value)}
}

func lowerValue(nodes []valueNode) []Fragment {
	frags := make([]Fragment, 0, len(nodes))
	for _, n := range nodes {
		switch {
		case n.Quoted != nil:
			frags = append(frags, Literal{Value: *n.Quoted})
		case n.Braced != nil:
			frags = append(frags, Literal{Value: *n.Braced})
		case n.Number != nil:
			frags = append(frags, Literal{Value: *n.Number})
		case n.Abbrev != nil:
			frags = append(frags, Abbreviation{Name: *n.Abbrev})
		}
	}
	return frags
}
