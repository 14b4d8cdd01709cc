package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringForm(t *testing.T) {
	p := New(2, 5, 9)
	assert.Equal(t, "#2@5:9", p.String())
}

func TestEqualityIsStructural(t *testing.T) {
	assert.Equal(t, New(1, 2, 3), New(1, 2, 3))
	assert.NotEqual(t, New(1, 2, 3), New(1, 2, 4))
}

func TestAdjacent(t *testing.T) {
	a := New(0, 0, 3)
	b := New(0, 3, 5)
	c := New(0, 4, 5)
	d := New(1, 3, 5)

	assert.True(t, b.Adjacent(a))
	assert.False(t, c.Adjacent(a))
	assert.False(t, d.Adjacent(a))
}

func TestLen(t *testing.T) {
	assert.Equal(t, 4, New(0, 5, 9).Len())
}
