package bnf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/microses/peg/lexer"
	"github.com/microses/peg/packrat"
	"github.com/microses/peg/scanner"
	"github.com/microses/peg/template"
	"go.uber.org/zap"
)

// Ruleset is a compiled grammar (spec.md §4.6): an immutable rule table
// plus the reserved keyword set and start-rule name derived from it. It
// may be shared across concurrently running parses (spec.md §5), since
// every mutable piece of parse state — the Scanner, the Token Stream,
// the packrat.Substrate — is created fresh inside Parse.
type Ruleset struct {
	rules     map[string]*ruleEntry
	reserved  map[string]bool
	startName string
	source    template.Template

	// Debug, when set, enables the substrate's zap debug trace for every
	// parse run through this Ruleset (spec.md §4.4 "Debug mode").
	Debug bool
	Log   *zap.Logger
}

// Parse implements the Parser Tag API of spec.md §4.7: tokenize t's
// segments, run the start rule at position 0, require rule_EOF to
// succeed at the resulting position, and return the action's output —
// applying t's hole values to it first if it is itself a curried
// post-processor.
func (rs *Ruleset) Parse(t template.Template) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	stream, lexErr := lexer.Lex(t.Segments)
	if lexErr != nil {
		return nil, lexErr
	}

	sub := packrat.New(rs.Debug, rs.Log)
	sc := scanner.New(t, stream, rs.reserved, sub)
	defer sub.DumpDebug()

	ec := &evalCtx{sc: sc}
	start := rs.rules[rs.startName]

	pos, value := ec.runNamed(start, 0)
	if value == packrat.FAIL {
		return nil, sc.SyntaxError(pos)
	}

	eofPos, eofVal, eofErr := sc.RuleEOF(pos)
	if eofErr != nil {
		return nil, eofErr
	}
	if eofVal == packrat.FAIL {
		return nil, sc.SyntaxError(eofPos)
	}

	if post, ok := value.(func(args ...any) any); ok {
		value = post(t.Holes...)
	}
	return value, nil
}

// StartRule returns the name of the grammar's start symbol: the first
// production defined in the compiled source (spec.md §4.6).
func (rs *Ruleset) StartRule() string { return rs.startName }

// Describe renders a human-readable summary of the compiled rule table —
// the start rule, every production name in alphabetical order (the start
// rule marked with "*"), and the reserved keyword set — for diagnostics
// and for the cmd/msparse "compile" subcommand. Interned literals and
// builtin terminals are not listed.
func (rs *Ruleset) Describe() string {
	names := make([]string, 0, len(rs.rules))
	for name, re := range rs.rules {
		if re.kind == kUserRule {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "start rule: %s\n", rs.startName)
	for _, name := range names {
		marker := " "
		if name == rs.startName {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s\n", marker, name)
	}

	if len(rs.reserved) > 0 {
		kw := make([]string, 0, len(rs.reserved))
		for w := range rs.reserved {
			kw = append(kw, w)
		}
		sort.Strings(kw)
		fmt.Fprintf(&b, "reserved: %s\n", strings.Join(kw, ", "))
	}

	return b.String()
}
