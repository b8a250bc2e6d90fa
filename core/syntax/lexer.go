package syntax

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Token types produced by the BibTeX scanner.
const (
	tokenAt lexer.TokenType = iota + 1
	tokenIdent
	tokenNumber
	tokenStringKw
	tokenPreambleKw
	tokenCommentKw
	tokenOpen
	tokenClose
	tokenComma
	tokenEquals
	tokenConcat
	tokenQuoted
	tokenBraced
	tokenCommentText
)

var tokenSymbols = map[string]lexer.TokenType{
	"EOF":         lexer.EOF,
	"At":          tokenAt,
	"Ident":       tokenIdent,
	"Number":      tokenNumber,
	"StringKw":    tokenStringKw,
	"PreambleKw":  tokenPreambleKw,
	"CommentKw":   tokenCommentKw,
	"Open":        tokenOpen,
	"Close":       tokenClose,
	"Comma":       tokenComma,
	"Equals":      tokenEquals,
	"Concat":      tokenConcat,
	"Quoted":      tokenQuoted,
	"Braced":      tokenBraced,
	"CommentText": tokenCommentText,
}

// bibDefinition adapts the hand-written scanner to participle's lexer API.
// Balanced-brace values and raw @comment bodies are context-sensitive, which
// puts them out of reach of lexer.MustSimple regexp rule sets.
type bibDefinition struct{}

func (bibDefinition) Symbols() map[string]lexer.TokenType { return tokenSymbols }

func (bibDefinition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return newScanner(filename, string(data)), nil
}

func (bibDefinition) LexString(filename, input string) (lexer.Lexer, error) {
	return newScanner(filename, input), nil
}

// lexError satisfies participle.Error so scanner failures carry positions.
type lexError struct {
	msg string
	pos lexer.Position
}

func (e *lexError) Error() string            { return fmt.Sprintf("%s: %s", e.pos, e.msg) }
func (e *lexError) Message() string          { return e.msg }
func (e *lexError) Position() lexer.Position { return e.pos }

type scanMode int

const (
	// Outside any declaration, skipping junk until the next '@'.
	modeJunk scanMode = iota
	// After '@', expecting the declaration keyword or entry type.
	modeHeader
	// After the keyword, expecting the opening '{' or '('.
	modeOpen
	// Inside @comment, the body is raw text up to the matching closer.
	modeCommentBody
	// Positioned on the delimiter that closes an @comment body.
	modeCommentClose
	// Inside a structured declaration body.
	modeBody
)

type scanner struct {
	input  string
	pos    lexer.Position
	mode   scanMode
	kind   lexer.TokenType // keyword token of the current declaration
	opener byte
	closer byte
}

func newScanner(filename, input string) *scanner {
	return &scanner{
		input: input,
		pos:   lexer.Position{Filename: filename, Line: 1, Column: 1},
	}
}

func (s *scanner) Next() (lexer.Token, error) {
	switch s.mode {
	case modeJunk:
		for !s.eof() && s.peek() != '@' {
			s.advance(1)
		}
		if s.eof() {
			return lexer.EOFToken(s.pos), nil
		}
		tok := lexer.Token{Type: tokenAt, Value: "@", Pos: s.pos}
		s.advance(1)
		s.mode = modeHeader
		return tok, nil

	case modeHeader:
		s.skipSpace()
		start := s.pos
		name := s.scanName()
		if name == "" {
			return lexer.Token{}, &lexError{msg: "expected entry type after @", pos: start}
		}
		switch {
		case strings.EqualFold(name, "string"):
			s.kind = tokenStringKw
		case strings.EqualFold(name, "preamble"):
			s.kind = tokenPreambleKw
		case strings.EqualFold(name, "comment"):
			s.kind = tokenCommentKw
		default:
			s.kind = tokenIdent
		}
		s.mode = modeOpen
		return lexer.Token{Type: s.kind, Value: name, Pos: start}, nil

	case modeOpen:
		s.skipSpace()
		if s.eof() {
			return lexer.Token{}, &lexError{msg: "unexpected end of input in entry", pos: s.pos}
		}
		c := s.peek()
		if c != '{' && c != '(' {
			return lexer.Token{}, &lexError{msg: fmt.Sprintf("expected { or ( after entry type, found %q", c), pos: s.pos}
		}
		tok := lexer.Token{Type: tokenOpen, Value: string(c), Pos: s.pos}
		s.opener = c
		s.closer = '}'
		if c == '(' {
			s.closer = ')'
		}
		s.advance(1)
		if s.kind == tokenCommentKw {
			s.mode = modeCommentBody
		} else {
			s.mode = modeBody
		}
		return tok, nil

	case modeCommentBody:
		start := s.pos
		text, err := s.scanBalanced(s.opener, s.closer)
		if err != nil {
			return lexer.Token{}, err
		}
		s.mode = modeCommentClose
		return lexer.Token{Type: tokenCommentText, Value: text, Pos: start}, nil

	case modeCommentClose:
		tok := lexer.Token{Type: tokenClose, Value: string(s.closer), Pos: s.pos}
		s.advance(1)
		s.mode = modeJunk
		return tok, nil

	default: // modeBody
		s.skipSpace()
		if s.eof() {
			return lexer.Token{}, &lexError{msg: "unexpected end of input in entry", pos: s.pos}
		}
		start := s.pos
		switch c := s.peek(); c {
		case s.closer:
			s.advance(1)
			s.mode = modeJunk
			return lexer.Token{Type: tokenClose, Value: string(c), Pos: start}, nil
		case ',':
			s.advance(1)
			return lexer.Token{Type: tokenComma, Value: ",", Pos: start}, nil
		case '=':
			s.advance(1)
			return lexer.Token{Type: tokenEquals, Value: "=", Pos: start}, nil
		case '#':
			s.advance(1)
			return lexer.Token{Type: tokenConcat, Value: "#", Pos: start}, nil
		case '"':
			s.advance(1)
			value, err := s.scanQuoted(start)
			if err != nil {
				return lexer.Token{}, err
			}
			return lexer.Token{Type: tokenQuoted, Value: value, Pos: start}, nil
		case '{':
			s.advance(1)
			value, err := s.scanBalanced('{', '}')
			if err != nil {
				return lexer.Token{}, err
			}
			s.advance(1) // closing brace
			return lexer.Token{Type: tokenBraced, Value: value, Pos: start}, nil
		default:
			name := s.scanName()
			if name == "" {
				return lexer.Token{}, &lexError{msg: fmt.Sprintf("unexpected character %q in entry", c), pos: start}
			}
			typ := tokenIdent
			if isDigits(name) {
				typ = tokenNumber
			}
			return lexer.Token{Type: typ, Value: name, Pos: start}, nil
		}
	}
}

func (s *scanner) eof() bool  { return s.pos.Offset >= len(s.input) }
func (s *scanner) peek() byte { return s.input[s.pos.Offset] }

// advance moves n bytes forward, tracking line and rune column.
func (s *scanner) advance(n int) {
	for i := 0; i < n; i++ {
		b := s.input[s.pos.Offset]
		s.pos.Offset++
		if b == '\n' {
			s.pos.Line++
			s.pos.Column = 1
		} else if b&0xC0 != 0x80 { // skip UTF-8 continuation bytes
			s.pos.Column++
		}
	}
}

func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.advance(1)
		default:
			return
		}
	}
}

// nameDelims are the bytes that terminate a bare name. Everything else,
// BibTeX allows in variable names, entry types, citation keys and tag names.
const nameDelims = " \t\r\n{}(),=#\"@%"

func (s *scanner) scanName() string {
	start := s.pos.Offset
	for !s.eof() && !strings.ContainsRune(nameDelims, rune(s.peek())) {
		s.advance(1)
	}
	return s.input[start:s.pos.Offset]
}

// scanQuoted consumes up to and including the closing quote. Braces protect
// quotes, as in BibTeX; there are no backslash escapes.
func (s *scanner) scanQuoted(start lexer.Position) (string, error) {
	from := s.pos.Offset
	depth := 0
	for !s.eof() {
		switch s.peek() {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return "", &lexError{msg: "unbalanced braces in quoted string", pos: s.pos}
			}
		case '"':
			if depth == 0 {
				value := s.input[from:s.pos.Offset]
				s.advance(1)
				return value, nil
			}
		}
		s.advance(1)
	}
	return "", &lexError{msg: "unterminated quoted string", pos: start}
}

// scanBalanced consumes text up to, but not including, the delimiter that
// closes the already-open group. Nested groups are kept verbatim.
func (s *scanner) scanBalanced(open, close byte) (string, error) {
	start := s.pos
	from := s.pos.Offset
	depth := 1
	for !s.eof() {
		switch s.peek() {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s.input[from:s.pos.Offset], nil
			}
		}
		s.advance(1)
	}
	return "", &lexError{msg: fmt.Sprintf("unterminated %q group", open), pos: start}
}

func isDigits(v string) bool {
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return len(v) > 0
}
