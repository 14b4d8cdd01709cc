package scanner

import (
	"testing"

	"github.com/microses/peg/lexer"
	"github.com/microses/peg/packrat"
	"github.com/microses/peg/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScanner(t *testing.T, src string, reserved ...string) *Scanner {
	tpl := template.Of([]string{src})
	stream, e := lexer.Lex(tpl.Segments)
	require.NoError(t, e)

	rs := map[string]bool{}
	for _, r := range reserved {
		rs[r] = true
	}
	return New(tpl, stream, rs, packrat.New(false, nil))
}

func TestRuleNumber(t *testing.T) {
	s := newScanner(t, "42 foo")
	pos, v, e := s.RuleNumber(0)
	require.NoError(t, e)
	assert.Equal(t, "42", v)
	assert.Greater(t, pos, 0)
}

func TestRuleStringRequiresQuotes(t *testing.T) {
	s := newScanner(t, `"hi there"`)
	_, v, e := s.RuleString(0)
	require.NoError(t, e)
	assert.Equal(t, `"hi there"`, v)
}

func TestRuleIdentRejectsReserved(t *testing.T) {
	s := newScanner(t, "if", "if")
	_, v, e := s.RuleIdent(0)
	require.NoError(t, e)
	assert.Equal(t, packrat.FAIL, v)
}

func TestRuleIdentAcceptsNonReserved(t *testing.T) {
	s := newScanner(t, "ifx")
	_, v, e := s.RuleIdent(0)
	require.NoError(t, e)
	assert.Equal(t, "ifx", v)
}

func TestRuleSkipConsumesSpaceAndComment(t *testing.T) {
	s := newScanner(t, "   # a comment\n  42")
	pos, e := s.RuleSkip(0)
	require.NoError(t, e)

	v, ok := s.at(pos)
	require.True(t, ok)
	assert.Equal(t, "42", v.Token().Text())
}

func TestRuleHoleDoesNotAbsorbIntoSkip(t *testing.T) {
	tpl := template.Of([]string{"a ", " b"}, 99)
	stream, e := lexer.Lex(tpl.Segments)
	require.NoError(t, e)
	s := New(tpl, stream, nil, packrat.New(false, nil))

	// position 0 is token "a"; eat it with a literal pattern.
	pos, v, e := s.Eat(0, "a")
	require.NoError(t, e)
	assert.Equal(t, "a", v)

	pos, v2, e := s.RuleHole(pos)
	require.NoError(t, e)
	require.NotEqual(t, packrat.FAIL, v2)
	assert.EqualValues(t, 0, v2)
	assert.Greater(t, pos, 0)
}

func TestRuleEOFSucceedsAtEnd(t *testing.T) {
	s := newScanner(t, "  ")
	pos, v, e := s.RuleEOF(0)
	require.NoError(t, e)
	assert.Equal(t, packrat.EOF, v)
	assert.Equal(t, s.Len(), pos)
}

func TestRuleEOFFailsWithRemainingTokens(t *testing.T) {
	s := newScanner(t, "x")
	_, v, e := s.RuleEOF(0)
	require.NoError(t, e)
	assert.Equal(t, packrat.FAIL, v)
}

func TestSyntaxErrorNamesFurthestFailure(t *testing.T) {
	s := newScanner(t, "a")
	_, _, _ = s.Eat(0, "a")
	_, _, _ = s.Eat(1, "b")
	err := s.SyntaxError(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unexpected EOF")
}
