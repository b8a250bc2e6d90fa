// Package errors provides standardized error types for the bibtex codebase.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	// ErrSyntax indicates the input could not be parsed
	ErrSyntax = errors.New("syntax error")
	// ErrVariableNotFound indicates an abbreviation referenced an unknown name
	ErrVariableNotFound = errors.New("string variable not found")
	// ErrCyclicVariable indicates a string variable is defined in terms of itself
	ErrCyclicVariable = errors.New("cyclic string variable")
)

// SyntaxError represents a grammar-level parse failure with position context.
type SyntaxError struct {
	Line    int    // 1-based line of the offending token
	Column  int    // 1-based column of the offending token
	Offset  int    // Byte offset into the input
	Snippet string // Input region surrounding the failure
	Message string // Parser diagnostic
	Err     error  // Underlying error, if any
}

func (e *SyntaxError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("syntax error at line %d, column %d: %s\n\t%s", e.Line, e.Column, e.Message, e.Snippet)
	}
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrSyntax
}

// NewSyntaxError builds a SyntaxError quoting the input region around offset.
func NewSyntaxError(input string, offset, line, column int, message string, err error) *SyntaxError {
	return &SyntaxError{
		Line:    line,
		Column:  column,
		Offset:  offset,
		Snippet: snippet(input, offset),
		Message: message,
		Err:     err,
	}
}

// snippetWidth bounds how much surrounding input a syntax error quotes.
const snippetWidth = 40

// snippet extracts the line region around offset, truncated to snippetWidth
// on each side.
func snippet(input string, offset int) string {
	if offset < 0 || offset > len(input) {
		return ""
	}
	start := strings.LastIndexByte(input[:offset], '\n') + 1
	if offset-start > snippetWidth {
		start = offset - snippetWidth
	}
	end := offset + snippetWidth
	if end > len(input) {
		end = len(input)
	}
	if i := strings.IndexByte(input[offset:end], '\n'); i >= 0 {
		end = offset + i
	}
	return strings.TrimSpace(input[start:end])
}

// UndefinedVariableError represents a reference to a variable or constant
// that does not exist in the applicable lookup scope.
type UndefinedVariableError struct {
	Name string // Abbreviation name that failed to resolve
	Err  error  // Underlying error, if any
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("string variable not found: %s", e.Name)
}

func (e *UndefinedVariableError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrVariableNotFound
}

// CyclicVariableError represents a string variable whose expansion depends,
// directly or through a chain, on itself.
type CyclicVariableError struct {
	Name string // Variable that closed the cycle
	Err  error  // Underlying error, if any
}

func (e *CyclicVariableError) Error() string {
	return fmt.Sprintf("cyclic string variable: %s", e.Name)
}

func (e *CyclicVariableError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrCyclicVariable
}

// IsSyntax reports whether err is a syntax error.
func IsSyntax(err error) bool {
	return errors.Is(err, ErrSyntax)
}

// IsVariableNotFound reports whether err is an undefined-variable error.
func IsVariableNotFound(err error) bool {
	return errors.Is(err, ErrVariableNotFound)
}

// IsCyclicVariable reports whether err is a cyclic-variable error.
func IsCyclicVariable(err error) bool {
	return errors.Is(err, ErrCyclicVariable)
}
