// Package regexkit composes the small set of regex shapes the lexer and
// scanner need: anchored-to-end, ordered alternation, single capture, and
// sticky-at-offset matching (spec.md §4.1).
//
// Inputs must not already carry a start anchor or a global/sticky flag;
// Go's regexp package has neither concept, so callers only need to avoid
// passing a leading "^" themselves. Passing one is a programming error and
// panics, mirroring the source engine's construction-time failure.
package regexkit

import (
	"fmt"
	"regexp"
	"strings"
)

func checkSource(src string) {
	if strings.HasPrefix(src, "^") {
		panic(fmt.Sprintf("regexkit: source %q must not carry a start anchor", src))
	}
}

// Anchored compiles a regex equivalent to src but required to match the
// entire candidate string.
func Anchored(src string) *regexp.Regexp {
	checkSource(src)
	return regexp.MustCompile(`^(?:` + src + `)$`)
}

// Alternation joins sources with `|` under ordered-choice semantics: the
// first alternative that can match at a given position wins, which is
// exactly Go's RE2 alternation order for non-overlapping leftmost matches.
func Alternation(sources ...string) string {
	for _, s := range sources {
		checkSource(s)
	}
	parts := make([]string, len(sources))
	for i, s := range sources {
		parts[i] = "(?:" + s + ")"
	}
	return strings.Join(parts, "|")
}

// Capture wraps src in a single capturing group.
func Capture(src string) string {
	checkSource(src)
	return "(" + src + ")"
}

// Sticky compiles src so that FindAt always checks for a match starting
// exactly at the caller-supplied offset. Go's regexp has no native sticky
// flag, but re-anchoring against the tail of the string (content[pos:])
// achieves the same effect without a global search-and-filter step.
type Sticky struct {
	re *regexp.Regexp
}

// NewSticky builds a Sticky matcher from src, which must not itself start
// with "^" (one is added internally).
func NewSticky(src string) Sticky {
	checkSource(src)
	return Sticky{re: regexp.MustCompile(`^(?:` + src + `)`)}
}

// FindAt attempts to match starting exactly at offset pos in content.
// Returns the submatch index pairs (as returned by regexp.FindSubmatchIndex,
// relative to pos; match[1]-match[0] is the matched byte length), or
// ok=false if there is no match at pos.
func (s Sticky) FindAt(content []byte, pos int) (match []int, ok bool) {
	if pos > len(content) {
		return nil, false
	}
	m := s.re.FindSubmatchIndex(content[pos:])
	if m == nil {
		return nil, false
	}
	return m, true
}
