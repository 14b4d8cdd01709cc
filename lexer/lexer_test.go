package lexer

import (
	"testing"

	"github.com/microses/peg/token"
	"github.com/stretchr/testify/assert"
)

func concatText(stream token.Stream) string {
	out := ""
	for _, el := range stream {
		if !el.IsHole() {
			out += el.Token().Text()
		}
	}
	return out
}

func TestTokenizationTotality(t *testing.T) {
	segs := []string{"foo 123 \"bar\" + # comment\n baz"}
	stream, e := Lex(segs)
	assert.NoError(t, e)
	assert.Equal(t, segs[0], concatText(stream))
}

func TestHolePlacement(t *testing.T) {
	segs := []string{"a ", " b ", " c"}
	stream, e := Lex(segs)
	assert.NoError(t, e)

	holeCount := 0
	for i, el := range stream {
		if el.IsHole() {
			assert.Equal(t, token.Hole(holeCount), el.Hole())
			holeCount++
			// holes are never adjacent to nothing: they're flanked by
			// whitespace tokens here, but never merged into them.
			assert.Greater(t, i, 0)
		}
	}
	assert.Equal(t, 2, holeCount)
}

func TestContiguousSpansWithinSegment(t *testing.T) {
	stream, e := Lex([]string{"ab+cd"})
	assert.NoError(t, e)

	var prev *token.Token
	for _, el := range stream {
		tok := el.Token()
		if prev != nil {
			assert.True(t, tok.Pos().Adjacent(prev.Pos()))
		}
		prev = &tok
	}
}

func TestWrongCharIsLexicalError(t *testing.T) {
	_, e := Lex([]string{"a $ b"})
	assert.Error(t, e)
}

func TestEmptySegmentsProduceOnlyHoles(t *testing.T) {
	stream, e := Lex([]string{"", "", ""})
	assert.NoError(t, e)
	assert.Len(t, stream, 2)
	assert.True(t, stream[0].IsHole())
	assert.True(t, stream[1].IsHole())
}
