package bnf

import (
	"fmt"

	"github.com/microses/peg/mserrors"
	"github.com/microses/peg/packrat"
	"github.com/microses/peg/scanner"
)

// chunk is one compiled fragment of a grammar body: a literal, a rule
// reference, a sequence, an ordered choice, or a repetition. It is pure
// data, built once at compile time and shared across every parse of the
// compiled grammar (spec.md §5 "compiled grammar is immutable").
//
// Evaluating a chunk never backtracks across sibling atoms: a failed
// atom fails its enclosing sequence outright, in the ordered-choice PEG
// style described in spec.md §4.6.
type chunk interface {
	eval(ec *evalCtx, pos int) (newPos int, value any)
}

// ruleKind distinguishes the three things a ruleEntry can be.
type ruleKind int

const (
	kUserRule ruleKind = iota
	kLiteral
	kBuiltin
)

// builtinKind names one of the scanner's fixed terminal rules.
type builtinKind int

const (
	bNumber builtinKind = iota
	bString
	bIdent
	bHole
	bEOF
)

// ruleEntry is a named, memoizable grammar rule: a compiled user
// production, an interned literal atom, or a scanner builtin terminal.
type ruleEntry struct {
	id          int
	name        string
	kind        ruleKind
	builtinKind builtinKind
	literal     string
	body        chunk
}

func (re *ruleEntry) String() string { return fmt.Sprintf("%s(#%d)", re.name, re.id) }

// evalCtx is the per-parse evaluation context: just the scanner instance
// for this invocation. Every chunk already holds a direct pointer to the
// ruleEntry it needs (resolved once, at compile time), so evalCtx carries
// no rule table of its own.
type evalCtx struct {
	sc *scanner.Scanner
}

// runNamed invokes re at pos. Builtins and literals dispatch to the
// scanner directly (builtins memoize themselves under their own reserved
// ids; literals memoize under re.id through the shared substrate); user
// productions run their compiled body through the shared substrate under
// re.id. A grammar-use error (left recursion, a missing rule) is fatal
// and unwinds via panic to the top of Ruleset.Parse, matching spec.md's
// "raise a non-recoverable error" framing for those two conditions.
func (ec *evalCtx) runNamed(re *ruleEntry, pos int) (int, any) {
	switch re.kind {
	case kBuiltin:
		var np int
		var v any
		var err error
		switch re.builtinKind {
		case bNumber:
			np, v, err = ec.sc.RuleNumber(pos)
		case bString:
			np, v, err = ec.sc.RuleString(pos)
		case bIdent:
			np, v, err = ec.sc.RuleIdent(pos)
		case bHole:
			np, v, err = ec.sc.RuleHole(pos)
		case bEOF:
			np, v, err = ec.sc.RuleEOF(pos)
		}
		if err != nil {
			panic(err)
		}
		return np, v

	case kLiteral:
		np, v, err := ec.sc.Substrate().Run(pos, re.id, re.name, true, func(p int) (int, any) {
			pp, vv, eerr := ec.sc.Eat(p, re.literal)
			if eerr != nil {
				panic(eerr)
			}
			return pp, vv
		})
		if err != nil {
			panic(err)
		}
		return np, v

	default: // kUserRule
		np, v, err := ec.sc.Substrate().Run(pos, re.id, re.name, false, func(p int) (int, any) {
			return re.body.eval(ec, p)
		})
		if err != nil {
			panic(err)
		}
		return np, v
	}
}

// ruleRefChunk defers to a named rule whose ruleEntry was resolved at
// compile time; Compile registers every production name before compiling
// any body, so a body may reference rules declared later in the same
// grammar (spec.md §4.6, forward references across productions).
// Compile validates every name up front, so the nil case here is purely
// defensive.
type ruleRefChunk struct {
	re *ruleEntry
}

func (c *ruleRefChunk) eval(ec *evalCtx, pos int) (int, any) {
	if c.re == nil {
		panic(mserrors.Format(RuleUndefinedError, "Rule undefined"))
	}
	return ec.runNamed(c.re, pos)
}

// seqChunk matches every atom in order. With no action it yields the sole
// atom's value when there is exactly one atom, or an []any of every
// atom's value otherwise; with a trailing action it calls the action with
// those same positional values and yields its result (spec.md §4.6).
type seqChunk struct {
	atoms  []chunk
	action func(args ...any) any
}

func (c *seqChunk) eval(ec *evalCtx, pos int) (int, any) {
	results := make([]any, 0, len(c.atoms))
	p := pos
	for _, a := range c.atoms {
		np, v := a.eval(ec, p)
		if v == packrat.FAIL {
			return np, packrat.FAIL
		}
		results = append(results, v)
		p = np
	}

	if c.action != nil {
		return p, c.action(results...)
	}
	if len(results) == 1 {
		return p, results[0]
	}
	return p, results
}

// choiceChunk tries each alternative in order and yields the first one
// that does not FAIL (ordered choice, spec.md §4.6). If every alternative
// fails, it fails at the furthest position any of them reached, which
// keeps whatever diagnostic ultimately surfaces as informative as
// possible even though the choice itself is not separately memoized.
type choiceChunk struct {
	alts []chunk
}

func (c *choiceChunk) eval(ec *evalCtx, pos int) (int, any) {
	furthest := pos
	for _, a := range c.alts {
		np, v := a.eval(ec, pos)
		if v != packrat.FAIL {
			return np, v
		}
		if np > furthest {
			furthest = np
		}
	}
	return furthest, packrat.FAIL
}

// optionalChunk implements the `?` operator: its value is always a
// sequence, either empty or holding the single matched value (spec.md §4.6
// repetition-operator table).
type optionalChunk struct {
	inner chunk
}

func (c *optionalChunk) eval(ec *evalCtx, pos int) (int, any) {
	np, v := c.inner.eval(ec, pos)
	if v == packrat.FAIL {
		return pos, []any{}
	}
	return np, []any{v}
}

// repeatChunk implements `*` (min=0) and `+` (min=1): zero-or-more /
// one-or-more repetition of inner, with no separator. Its value is always
// an ordered sequence of inner's successive values.
type repeatChunk struct {
	inner chunk
	min   int
}

func (c *repeatChunk) eval(ec *evalCtx, pos int) (int, any) {
	var results []any
	p := pos
	for {
		np, v := c.inner.eval(ec, p)
		if v == packrat.FAIL {
			break
		}
		results = append(results, v)
		p = np
	}
	if len(results) < c.min {
		return pos, packrat.FAIL
	}
	if results == nil {
		results = []any{}
	}
	return p, results
}

// sepRepeatChunk implements `**` (min=0) and `++` (min=1): inner
// separated by sep. A dangling separator — one with nothing following it
// — is never consumed: the repetition stops at the position before that
// separator, so whatever follows (an EOF check, say) sees it and the
// parse fails there instead of silently swallowing it (spec.md §4.6, the
// `**`/`++` row; exercised by the trailing-separator edge case).
type sepRepeatChunk struct {
	inner, sep chunk
	min        int
}

func (c *sepRepeatChunk) eval(ec *evalCtx, pos int) (int, any) {
	first, v := c.inner.eval(ec, pos)
	if v == packrat.FAIL {
		if c.min > 0 {
			return first, packrat.FAIL
		}
		return pos, []any{}
	}

	results := []any{v}
	p := first
	for {
		afterSep, sv := c.sep.eval(ec, p)
		if sv == packrat.FAIL {
			break
		}
		afterInner, iv := c.inner.eval(ec, afterSep)
		if iv == packrat.FAIL {
			break
		}
		results = append(results, iv)
		p = afterInner
	}
	return p, results
}
