// Package mserrors defines the error type shared by every microses engine
// package: a numbered error class plus an optional source position, with
// stdlib errors.Is/errors.As support so callers can test "is this a
// grammar-class error" (etc.) without matching on an exact code, and
// errors.Unwrap support for errors that reclassify a lower-level cause.
package mserrors

import "fmt"

// Error classes, each covering a band of 100 codes.
const (
	LexicalErrors  = 101 // lexer: unclassifiable bytes, unterminated literals
	GrammarErrors  = 201 // bnf: undefined rule, left recursion, bad DSL
	ParseErrors    = 301 // scanner/bnf: grammar did not match the input
	InternalErrors = 401 // lexer/scanner: invariant violations
)

// Class is one of the four error classes above. It implements error so it
// can be passed as the target of errors.Is: errors.Is(err, mserrors.Grammar)
// reports whether err's Code falls in the grammar-error band, regardless
// of which specific code it is.
type Class int

const (
	Lexical  Class = LexicalErrors
	Grammar  Class = GrammarErrors
	Parse    Class = ParseErrors
	Internal Class = InternalErrors
)

func (c Class) Error() string {
	switch c {
	case Lexical:
		return "lexical error"
	case Grammar:
		return "grammar error"
	case Parse:
		return "parse error"
	case Internal:
		return "internal error"
	default:
		return "error"
	}
}

// classOf maps a specific code to the Class band it falls in (each band
// spans a contiguous 100 codes starting at its *Errors constant).
func classOf(code int) Class {
	return Class(((code-1)/100)*100 + 1)
}

// SourcePos is implemented by anything that can locate itself in a
// template; token.Token and position.Position both satisfy it.
type SourcePos interface {
	SourceName() string
	Line() int
	Col() int
}

// Error is the error type returned by every microses engine package. Cause
// is set only when an Error reclassifies a lower-level error (for example,
// the BNF compiler reclassifying a scanner-level parse error as a
// grammar-definition error while still letting callers see what the
// underlying failure was, via errors.Unwrap/errors.Is).
type Error struct {
	Code       int
	Message    string
	SourceName string
	Line, Col  int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes Cause to errors.Is/errors.As/errors.Unwrap.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is either the same Error's Class or another
// *Error with an identical Code, letting callers write
// errors.Is(err, mserrors.Parse) to test class membership without caring
// about the exact numbered code.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Class:
		return classOf(e.Code) == t
	case *Error:
		return e.Code == t.Code
	default:
		return false
	}
}

// New builds an Error, appending position information to the message when
// name/line/col are all non-empty/non-zero.
func New(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{Code: code, Message: msg, SourceName: name, Line: line, Col: col}
}

// Format builds an Error carrying no position information.
func Format(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return New(code, msg, "", 0, 0)
}

// FormatPos builds an Error carrying pos's position information.
func FormatPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return New(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}

// Wrap builds an Error under code whose Cause is the lower-level error
// that triggered it, so errors.Unwrap(err) still reaches cause and
// errors.Is(err, classOf(cause)) still holds even though err itself now
// reports as code's class.
func Wrap(code int, cause error, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	e := New(code, msg, "", 0, 0)
	e.Cause = cause
	return e
}
