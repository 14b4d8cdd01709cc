// Package packrat implements the execution substrate shared by every rule
// procedure: memoization per (position, rule), left-recursion detection,
// and furthest-failure tracking (spec.md §4.4).
//
// The substrate knows nothing about grammars, tokens, or the BNF compiler;
// it only ever sees integer rule/pattern ids and opaque result values. That
// split mirrors how the teacher's github.com/ava12/llx separates its
// packrat-free LL(*) runtime (package parser) from the grammar it runs
// (package grammar) — here the runtime (this package) is reused across
// every compiled ruleset (package bnf), each bringing its own id space.
package packrat

import (
	"github.com/microses/peg/mserrors"
	"go.uber.org/zap"
)

// sentinel is a reference-unique, printable marker value. Equality must be
// tested by identity (==), never by printed form.
type sentinel struct{ name string }

func (s *sentinel) String() string { return s.name }

var (
	// FAIL marks a rule attempt that did not match.
	FAIL = &sentinel{"FAIL"}

	// EOF marks successful recognition of end-of-stream by rule_EOF.
	EOF = &sentinel{"EOF"}

	// LeftRecur marks an in-flight probe at a (position, rule) cell.
	// Internal only: it must never be returned from Run to a caller.
	LeftRecur = &sentinel{"LEFT_RECUR"}
)

// Error codes used by the substrate.
const (
	LeftRecursionError = mserrors.GrammarErrors + iota
	RuleMissingError
)

// Invoke performs the actual work of a rule or terminal-pattern attempt at
// pos, returning the position reached and the value produced (FAIL on
// failure). It is supplied by the caller (package scanner/bnf) so that this
// package stays ignorant of tokens and grammars.
type Invoke func(pos int) (newPos int, value any)

type memoEntry struct {
	newPos     int
	value      any
	isTerminal bool
	name       string
}

// Substrate is the packrat memo table plus counters for one parse
// invocation. It is created fresh per parse, populated during rule
// execution, and discarded when the top-level rule returns; ownership is
// exclusive to the enclosing parser instance (spec.md §5).
type Substrate struct {
	memo         map[int]map[int]memoEntry
	hits, misses int
	debug        bool
	log          *zap.Logger
}

// New creates an empty Substrate. Pass a non-nil logger and debug=true to
// enable the optional per-call trace and final dump described in
// spec.md §4.4 "Debug mode"; passing debug=false has no behavioral effect
// beyond suppressing those log lines.
func New(debug bool, log *zap.Logger) *Substrate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Substrate{
		memo:  make(map[int]map[int]memoEntry),
		debug: debug,
		log:   log,
	}
}

// Run executes the packrat contract of spec.md §4.4: look up (pos, id) in
// the memo; on a live probe, raise left recursion; on a cached result,
// return it; otherwise install a probe, invoke, cache, and return.
//
// id is a small dense integer uniquely identifying either a compiled rule
// procedure or an interned terminal pattern (spec.md §9 "Memo key"). name
// is the printable rule/pattern name used in diagnostics. isTerminal must
// be true only for terminal-pattern ids, since lastFailures excludes
// procedure-valued keys.
func (s *Substrate) Run(pos, id int, name string, isTerminal bool, invoke Invoke) (newPos int, value any, err error) {
	inner, ok := s.memo[pos]
	if !ok {
		inner = make(map[int]memoEntry)
		s.memo[pos] = inner
	}

	if entry, found := inner[id]; found {
		if entry.value == LeftRecur {
			return 0, nil, leftRecursionErr(name)
		}

		s.hits++
		if s.debug {
			s.log.Debug("packrat hit", zap.Int("pos", pos), zap.String("rule", name), zap.Int("newPos", entry.newPos))
		}
		return entry.newPos, entry.value, nil
	}

	s.misses++
	inner[id] = memoEntry{value: LeftRecur}

	if invoke == nil {
		delete(inner, id)
		return 0, nil, ruleMissingErr(name)
	}

	newPos, value = invoke(pos)
	entry := memoEntry{newPos: newPos, value: value, isTerminal: isTerminal, name: name}
	inner[id] = entry

	if s.debug {
		s.log.Debug("packrat miss",
			zap.Int("pos", pos), zap.String("rule", name),
			zap.Int("newPos", newPos), zap.Bool("failed", value == FAIL))
	}

	return newPos, value, nil
}

// LastFailures scans the memo table for terminal-pattern entries whose
// value is FAIL, returning the furthest newPos reached by any of them and
// the set of names that failed at exactly that position (spec.md §4.4).
// Procedure-valued (non-terminal) keys are excluded, since only terminal
// patterns name themselves usefully for "expected X" diagnostics.
func (s *Substrate) LastFailures() (furthest int, names []string) {
	furthest = -1
	seen := make(map[string]bool)

	for _, inner := range s.memo {
		for _, entry := range inner {
			if !entry.isTerminal || entry.value != FAIL {
				continue
			}
			if entry.newPos > furthest {
				furthest = entry.newPos
				seen = map[string]bool{entry.name: true}
			} else if entry.newPos == furthest {
				seen[entry.name] = true
			}
		}
	}

	names = make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	return furthest, names
}

// Hits returns the number of memo lookups that were satisfied by a cached
// result.
func (s *Substrate) Hits() int { return s.hits }

// Misses returns the number of memo lookups that required invoking a rule.
func (s *Substrate) Misses() int { return s.misses }

// DumpDebug logs a final summary of hit/miss totals and the furthest
// failure set, iff debug mode is enabled. No-op otherwise.
func (s *Substrate) DumpDebug() {
	if !s.debug {
		return
	}
	pos, names := s.LastFailures()
	s.log.Debug("packrat summary",
		zap.Int("hits", s.hits), zap.Int("misses", s.misses),
		zap.Int("furthestFailure", pos), zap.Strings("expected", names))
}

func leftRecursionErr(name string) *mserrors.Error {
	return mserrors.Format(LeftRecursionError, "Left recursion on rule: %s", name)
}

func ruleMissingErr(name string) *mserrors.Error {
	return mserrors.Format(RuleMissingError, "Rule missing: %s", name)
}
