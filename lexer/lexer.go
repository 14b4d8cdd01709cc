// Package lexer tokenizes the raw segments of a template, interleaving
// hole markers between segments, to produce a token.Stream (spec.md §4.3).
//
// The Token Model carries no type tag at all: classification into NUMBER,
// STRING, IDENT, punctuation, etc. happens later, in package scanner, by
// matching a Token's text against the relevant rule pattern. The lexer's
// only job is to slice every byte of every segment into contiguous lexemes,
// including whitespace and comment runs, which is why "Tokenization
// totality" (spec.md §8 property 1) holds unconditionally: nothing is
// dropped before the Scanner sees it.
package lexer

import (
	"unicode/utf8"

	"github.com/microses/peg/mserrors"
	"github.com/microses/peg/position"
	"github.com/microses/peg/regexkit"
	"github.com/microses/peg/token"
)

// Error codes used by the lexer.
const (
	// WrongCharError indicates the token regex could not classify the
	// bytes at the current position.
	WrongCharError = mserrors.LexicalErrors + iota

	// MisalignedMatchError indicates an internal invariant violation: a
	// zero-length match, which would loop forever if accepted, or one not
	// starting at the current offset.
	MisalignedMatchError = mserrors.InternalErrors + iota
)

// Sub-patterns of the default token alphabet. Exported so package scanner
// can classify already-lexed tokens (NUMBER, STRING, IDENT, whitespace,
// line comment) using the exact same regexes the lexer used to slice them.
const (
	WhitespacePattern  = `\s+`
	NumberPattern      = `[0-9]+(?:\.[0-9]+)?`
	StringPattern      = `"(?:[^"\\]|\\.)*"`
	IdentPattern       = `[A-Za-z_][A-Za-z0-9_]*`
	PunctPattern       = `[(){}\[\],;]`
	OperatorCharsRun   = `[+\-*/%=<>!&|^~?.:@]+`
	LineCommentPattern = `#[^\n]*`
)

// DefaultTokenPattern is the source text of the default capturing token
// regex described in spec.md §4.3.
var DefaultTokenPattern = regexkit.Alternation(
	WhitespacePattern,
	NumberPattern,
	StringPattern,
	IdentPattern,
	PunctPattern,
	OperatorCharsRun,
	LineCommentPattern,
)

var defaultSticky = regexkit.NewSticky(regexkit.Capture(DefaultTokenPattern))

// Lex tokenizes segments using the default token pattern.
func Lex(segments []string) (token.Stream, error) {
	return LexWith(segments, defaultSticky)
}

// LexWith tokenizes segments using a caller-supplied sticky token matcher,
// for grammars that need a non-default lexical alphabet.
func LexWith(segments []string, re regexkit.Sticky) (token.Stream, error) {
	var stream token.Stream

	for segIdx, seg := range segments {
		content := []byte(seg)
		pos := 0

		for pos < len(content) {
			m, ok := re.FindAt(content, pos)
			if !ok {
				return nil, wrongCharError(content, segIdx, pos)
			}

			length := m[1] - m[0]
			if m[0] != 0 || length <= 0 {
				return nil, misalignedMatchError(segIdx, pos)
			}

			lexeme := content[pos : pos+length]
			span := position.New(segIdx, pos, pos+length)
			stream = append(stream, token.OfToken(token.New(string(lexeme), span)))
			pos += length
		}

		if segIdx < len(segments)-1 {
			stream = append(stream, token.OfHole(token.Hole(segIdx)))
		}
	}

	return stream, nil
}

func wrongCharError(content []byte, segIdx, pos int) *mserrors.Error {
	r, size := utf8.DecodeRune(content[pos:])
	if size == 0 {
		size = 1
	}
	offending := string(content[pos : pos+size])
	sp := position.New(segIdx, pos, pos+size)
	tok := token.New(offending, sp)
	return mserrors.FormatPos(tok, WrongCharError, "wrong char %q (u+%x)", r, r)
}

func misalignedMatchError(segIdx, pos int) *mserrors.Error {
	sp := position.New(segIdx, pos, pos)
	tok := token.New("", sp)
	return mserrors.FormatPos(tok, MisalignedMatchError, "internal error: lexer produced a zero-length or misaligned match")
}
