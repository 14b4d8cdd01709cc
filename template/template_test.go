package template

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestOfMirrorsTagCallSite(t *testing.T) {
	tpl := Of([]string{"a", "b", "c"}, 1, 2)
	assert.Equal(t, []string{"a", "b", "c"}, tpl.Segments)
	assert.Equal(t, []any{1, 2}, tpl.Holes)
}

func TestStringSubstitutesOneGlyphPerHole(t *testing.T) {
	tpl := Of([]string{"foo", "bar", "baz"}, 1, 2)
	s := tpl.String()

	segLen := len("foo") + len("bar") + len("baz")
	glyphLen := utf8.RuneLen(holeGlyph) * 2
	assert.Equal(t, segLen+glyphLen, len(s))
	assert.Equal(t, "foo◆bar◆baz", s)
}

func TestStringWithNoHoles(t *testing.T) {
	tpl := Of([]string{"solo"})
	assert.Equal(t, "solo", tpl.String())
}
