// Package token defines the Token Model (spec.md §3/§4.2): an immutable
// token record with provenance, and the tagged-variant stream element that
// distinguishes real tokens from template hole markers.
package token

import (
	"fmt"

	"github.com/microses/peg/position"
)

// Token is an immutable (text, pos) pair. Tokens are produced only by the
// lexer and never mutated afterwards.
type Token struct {
	text string
	pos  position.Position
}

// New builds a Token. text is the raw lexeme exactly as it appeared in the
// segment.
func New(text string, pos position.Position) Token {
	return Token{text: text, pos: pos}
}

func (t Token) Text() string { return t.text }

func (t Token) Pos() position.Position { return t.pos }

// mserrors.SourcePos:
func (t Token) SourceName() string { return t.pos.SourceName() }
func (t Token) Line() int          { return t.pos.Line() }
func (t Token) Col() int           { return t.pos.Col() }

// String renders the documented `"text" at segmentNum@start:after` form.
func (t Token) String() string {
	return fmt.Sprintf("%q at %s", t.text, t.pos.String())
}

// Hole is a stream element representing the k-th interpolation gap of a
// template; it is a bare non-negative integer equal to its own index.
type Hole int

// Element is one slot of a Token Stream: either a Token or a Hole marker.
// Exactly one of the two accessors is meaningful, selected by IsHole.
type Element struct {
	tok    Token
	hole   Hole
	isHole bool
}

// OfToken wraps a Token as a stream element.
func OfToken(t Token) Element {
	return Element{tok: t}
}

// OfHole wraps a Hole index as a stream element.
func OfHole(h Hole) Element {
	return Element{hole: h, isHole: true}
}

// IsHole reports whether this element is a hole marker rather than a Token.
func (e Element) IsHole() bool { return e.isHole }

// Token returns the wrapped Token. Only meaningful when !IsHole().
func (e Element) Token() Token { return e.tok }

// Hole returns the wrapped hole index. Only meaningful when IsHole().
func (e Element) Hole() Hole { return e.hole }

func (e Element) String() string {
	if e.isHole {
		return fmt.Sprintf("hole#%d", int(e.hole))
	}
	return e.tok.String()
}

// Stream is the ordered sequence produced by the lexer: a mix of Tokens and
// hole markers, indexed by stream position (spec.md §3).
type Stream []Element

// Len reports the number of elements.
func (s Stream) Len() int { return len(s) }

// At returns the element at pos and whether pos is within range.
func (s Stream) At(pos int) (Element, bool) {
	if pos < 0 || pos >= len(s) {
		return Element{}, false
	}
	return s[pos], true
}
