package mserrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePos struct {
	name       string
	line, col int
}

func (p fakePos) SourceName() string { return p.name }
func (p fakePos) Line() int          { return p.line }
func (p fakePos) Col() int           { return p.col }

func TestFormat(t *testing.T) {
	e := Format(LexicalErrors, "wrong char %q", "@")
	assert.Equal(t, LexicalErrors, e.Code)
	assert.Equal(t, `wrong char "@"`, e.Message)
	assert.Equal(t, "", e.SourceName)
}

func TestFormatPos(t *testing.T) {
	e := FormatPos(fakePos{"tpl", 2, 5}, GrammarErrors, "undefined rule %s", "expr")
	assert.Equal(t, GrammarErrors, e.Code)
	assert.Equal(t, "undefined rule expr in tpl at line 2 col 5", e.Message)
	assert.Equal(t, "tpl", e.SourceName)
	assert.Equal(t, 2, e.Line)
	assert.Equal(t, 5, e.Col)
}

func TestFormatPosOmitsMissingFields(t *testing.T) {
	e := FormatPos(fakePos{"", 0, 0}, ParseErrors, "unexpected EOF")
	assert.Equal(t, "unexpected EOF", e.Message)
}

func TestErrorSatisfiesErrorInterface(t *testing.T) {
	var err error = Format(InternalErrors, "boom")
	assert.EqualError(t, err, "boom")
}

func TestIsMatchesClassRegardlessOfExactCode(t *testing.T) {
	err := Format(GrammarErrors+20, "undefined rule expr")
	assert.True(t, errors.Is(err, Grammar))
	assert.False(t, errors.Is(err, Parse))
	assert.False(t, errors.Is(err, Lexical))
}

func TestIsMatchesAnotherErrorWithTheSameCode(t *testing.T) {
	a := Format(ParseErrors, "unexpected token")
	b := Format(ParseErrors, "a different message, same code")
	assert.True(t, errors.Is(a, b))

	c := Format(ParseErrors+1, "different code")
	assert.False(t, errors.Is(a, c))
}

func TestWrapPreservesCauseThroughUnwrap(t *testing.T) {
	cause := Format(ParseErrors, "expected \";\"")
	wrapped := Wrap(GrammarErrors+20, cause, "malformed grammar definition")

	assert.Equal(t, GrammarErrors+20, wrapped.Code)
	assert.Equal(t, cause, errors.Unwrap(wrapped))
	assert.True(t, errors.Is(wrapped, Grammar))
	assert.True(t, errors.Is(wrapped, Parse), "unwrapping should still reach the parse-class cause")
	assert.Contains(t, wrapped.Error(), cause.Error())
}

func TestWrapWithoutCauseFormatsLikeFormat(t *testing.T) {
	e := Wrap(InternalErrors, nil, "invariant violated: %s", "left recursion")
	assert.Nil(t, e.Cause)
	assert.Equal(t, "invariant violated: left recursion", e.Error())
}
