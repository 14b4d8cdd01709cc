package packrat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoizationCachesAfterFirstInvoke(t *testing.T) {
	s := New(false, nil)
	calls := 0
	invoke := func(pos int) (int, any) {
		calls++
		return pos + 1, "ok"
	}

	p1, v1, e1 := s.Run(0, 7, "rule", false, invoke)
	p2, v2, e2 := s.Run(0, 7, "rule", false, invoke)

	require.NoError(t, e1)
	require.NoError(t, e2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, p1, p2)
	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, s.Misses())
	assert.Equal(t, 1, s.Hits())
}

func TestDifferentPositionsDoNotShareMemo(t *testing.T) {
	s := New(false, nil)
	calls := 0
	invoke := func(pos int) (int, any) {
		calls++
		return pos + 1, "ok"
	}

	_, _, _ = s.Run(0, 1, "rule", false, invoke)
	_, _, _ = s.Run(1, 1, "rule", false, invoke)
	assert.Equal(t, 2, calls)
}

func TestLeftRecursionDetected(t *testing.T) {
	s := New(false, nil)
	var run func(pos int) (int, any)
	run = func(pos int) (int, any) {
		_, _, e := s.Run(pos, 1, "A", false, run)
		if e != nil {
			panic(e)
		}
		return pos, "never"
	}

	assert.PanicsWithError(t, "Left recursion on rule: A", func() {
		run(0)
	})
}

func TestRuleMissingError(t *testing.T) {
	s := New(false, nil)
	_, _, e := s.Run(0, 1, "Ghost", false, nil)
	require.Error(t, e)
	assert.Contains(t, e.Error(), "Rule missing: Ghost")
}

func TestLastFailuresExcludesProcedureKeys(t *testing.T) {
	s := New(false, nil)
	_, _, _ = s.Run(0, 1, "expr", false, func(pos int) (int, any) { return pos, FAIL })
	_, _, _ = s.Run(0, 2, `"+"`, true, func(pos int) (int, any) { return pos, FAIL })
	_, _, _ = s.Run(0, 3, `"-"`, true, func(pos int) (int, any) { return pos, FAIL })

	pos, names := s.LastFailures()
	assert.Equal(t, 0, pos)
	assert.ElementsMatch(t, []string{`"+"`, `"-"`}, names)
}

func TestLastFailuresTakesFurthestAdvance(t *testing.T) {
	s := New(false, nil)
	_, _, _ = s.Run(0, 1, `"a"`, true, func(pos int) (int, any) { return 0, FAIL })
	_, _, _ = s.Run(0, 2, `"b"`, true, func(pos int) (int, any) { return 3, FAIL })

	pos, names := s.LastFailures()
	assert.Equal(t, 3, pos)
	assert.Equal(t, []string{`"b"`}, names)
}

func TestSentinelsAreIdentityUnique(t *testing.T) {
	assert.NotEqual(t, FAIL, EOF)
	assert.Equal(t, "FAIL", FAIL.String())
	assert.Equal(t, "EOF", EOF.String())
	assert.Equal(t, "LEFT_RECUR", LeftRecur.String())
}

func TestTwoFreshSubstratesGiveSameResultDifferentCounters(t *testing.T) {
	invoke := func(pos int) (int, any) { return pos + 1, "v" }

	s1 := New(false, nil)
	p1, v1, _ := s1.Run(0, 1, "rule", false, invoke)
	p1b, _, _ := s1.Run(0, 1, "rule", false, invoke)

	s2 := New(false, nil)
	p2, v2, _ := s2.Run(0, 1, "rule", false, invoke)

	assert.Equal(t, p1, p2)
	assert.Equal(t, v1, v2)
	assert.Equal(t, p1, p1b)
	assert.Equal(t, 1, s1.Hits())
	assert.Equal(t, 0, s2.Hits())
}
