// Package position defines the immutable location of a lexeme inside one
// segment of a template.
package position

import "fmt"

// Position locates a byte span inside one raw segment of a template.
// It is a value type: equality is structural over all three fields, and
// once created it is never mutated. Positions are produced only by the
// lexer (package lexer).
type Position struct {
	SegmentNum  int
	StartOffset int
	AfterOffset int
}

// New builds a Position. after must be >= start.
func New(segmentNum, start, after int) Position {
	return Position{SegmentNum: segmentNum, StartOffset: start, AfterOffset: after}
}

// SourceName satisfies mserrors.SourcePos. Templates have no file name, so
// this reports a fixed placeholder; it exists only so mserrors.FormatPos
// always appends position information (its name-is-empty guard is meant
// for cases with no position at all, which never happens here).
func (p Position) SourceName() string { return "template" }

// Line reports the segment number, 1-based, standing in for "line" in
// mserrors.SourcePos so position errors still carry provenance.
func (p Position) Line() int { return p.SegmentNum + 1 }

// Col reports the 1-based start offset within the segment.
func (p Position) Col() int { return p.StartOffset + 1 }

// String renders the documented "#segmentNum@start:after" form.
func (p Position) String() string {
	return fmt.Sprintf("#%d@%d:%d", p.SegmentNum, p.StartOffset, p.AfterOffset)
}

// Len returns the byte length of the span.
func (p Position) Len() int {
	return p.AfterOffset - p.StartOffset
}

// Adjacent reports whether p immediately follows prev within the same
// segment, i.e. prev.AfterOffset == p.StartOffset. Used by the lexer's
// tests to check the token-stream-contiguity invariant (spec §3).
func (p Position) Adjacent(prev Position) bool {
	return p.SegmentNum == prev.SegmentNum && p.StartOffset == prev.AfterOffset
}
