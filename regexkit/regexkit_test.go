package regexkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnchoredMatchesWholeStringOnly(t *testing.T) {
	re := Anchored(`[0-9]+`)
	assert.True(t, re.MatchString("123"))
	assert.False(t, re.MatchString("123a"))
	assert.False(t, re.MatchString("a123"))
}

func TestAlternationOrderedChoice(t *testing.T) {
	src := Alternation("ab", "a")
	re := Anchored(src)
	assert.True(t, re.MatchString("ab"))
	assert.True(t, re.MatchString("a"))
	assert.False(t, re.MatchString("b"))
}

func TestCaptureWrapsInSingleGroup(t *testing.T) {
	src := Capture(`[a-z]+`)
	re := NewSticky(src)
	m, ok := m1(re, []byte("foo bar"), 0)
	assert.True(t, ok)
	assert.Equal(t, "foo", string([]byte("foo bar")[m[2]:m[3]]))
}

func m1(s Sticky, content []byte, pos int) ([]int, bool) {
	return s.FindAt(content, pos)
}

func TestStickyMatchesOnlyAtOffset(t *testing.T) {
	re := NewSticky(`[0-9]+`)
	content := []byte("12 34")

	m, ok := re.FindAt(content, 0)
	assert.True(t, ok)
	assert.Equal(t, 0, m[0])
	assert.Equal(t, 2, m[1])

	_, ok = re.FindAt(content, 1)
	assert.False(t, ok)

	m, ok = re.FindAt(content, 3)
	assert.True(t, ok)
	assert.Equal(t, "34", string(content[3+m[0]:3+m[1]]))
}

func TestSourceWithStartAnchorPanics(t *testing.T) {
	assert.Panics(t, func() { Anchored("^abc") })
}
