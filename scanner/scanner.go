// Package scanner is the base parser (spec.md §4.5): standard terminal
// rules (NUMBER, STRING, IDENT, HOLE, EOF) plus whitespace/comment
// skipping, built directly over a token.Stream and a shared
// packrat.Substrate. The BNF compiler (package bnf) compiles user grammars
// into additional rule procedures layered on top of these.
package scanner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/microses/peg/lexer"
	"github.com/microses/peg/mserrors"
	"github.com/microses/peg/packrat"
	"github.com/microses/peg/regexkit"
	"github.com/microses/peg/template"
	"github.com/microses/peg/token"
)

// Error codes used by the scanner.
const (
	UnexpectedTokenError = mserrors.ParseErrors + iota
	UnexpectedEofError
)

// Builtin rule ids. Compilers layered on top of the scanner (package bnf)
// must start interning their own rule/pattern ids at FirstFreeID so they
// never collide with these, since all rules share one packrat.Substrate
// per parse (spec.md §4.4).
const (
	idComment = iota
	idNumber
	idString
	idIdent
	idHole
	idEOF

	// FirstFreeID is the first id a downstream compiler may assign to its
	// own compiled rules or interned terminal patterns.
	FirstFreeID = 100
)

var (
	spaceRe   = regexkit.Anchored(lexer.WhitespacePattern)
	commentRe = regexkit.Anchored(lexer.LineCommentPattern)
	numberRe  = regexkit.Anchored(lexer.NumberPattern)
	stringRe  = regexkit.Anchored(lexer.StringPattern)
	identRe   = regexkit.Anchored(lexer.IdentPattern)
)

// Scanner owns the Token Stream and the set of reserved keywords; the
// stream index is the "position" used throughout the engine.
type Scanner struct {
	stream   token.Stream
	reserved map[string]bool
	sub      *packrat.Substrate
	tpl      template.Template
}

// New builds a Scanner over stream, sharing sub with every other rule in
// the same parse. reserved holds literal strings collected by the BNF
// compiler that must not be accepted by rule_IDENT (spec.md §4.6).
func New(tpl template.Template, stream token.Stream, reserved map[string]bool, sub *packrat.Substrate) *Scanner {
	if reserved == nil {
		reserved = map[string]bool{}
	}
	return &Scanner{stream: stream, reserved: reserved, sub: sub, tpl: tpl}
}

// Len reports the number of elements in the underlying Token Stream.
func (s *Scanner) Len() int { return s.stream.Len() }

// Substrate returns the shared packrat substrate, for compilers that need
// to run their own rule ids against it.
func (s *Scanner) Substrate() *packrat.Substrate { return s.sub }

func (s *Scanner) at(pos int) (token.Element, bool) {
	return s.stream.At(pos)
}

// skip matches the token at pos against re in full; on success it
// advances by one element and returns "" as the (ignored) value.
func (s *Scanner) skip(pos int, re *regexp.Regexp) (int, any) {
	el, ok := s.at(pos)
	if !ok || el.IsHole() {
		return pos, packrat.FAIL
	}
	if !re.MatchString(el.Token().Text()) {
		return pos, packrat.FAIL
	}
	return pos + 1, ""
}

// ruleSpace recognizes one whitespace-run token. Never memoized: spec.md
// §4.5 calls this "cheap" and forbids caching it.
func (s *Scanner) ruleSpace(pos int) (int, any) {
	return s.skip(pos, spaceRe)
}

// ruleComment recognizes one line-comment token. May be memoized.
func (s *Scanner) ruleComment(pos int) (int, any, error) {
	return s.sub.Run(pos, idComment, "/COMMENT/", true, func(p int) (int, any) {
		return s.skip(p, commentRe)
	})
}

// RuleSkip consumes any mixture of SPACE and COMMENT tokens starting at
// pos, returning the position past them. Never fails.
func (s *Scanner) RuleSkip(pos int) (int, error) {
	for {
		if newPos, v := s.ruleSpace(pos); v != packrat.FAIL {
			pos = newPos
			continue
		}
		newPos, v, err := s.ruleComment(pos)
		if err != nil {
			return pos, err
		}
		if v == packrat.FAIL {
			return pos, nil
		}
		pos = newPos
	}
}

// Eat skips trivia, then matches the current element's text against patt
// (a string for literal equality, or *regexp.Regexp for a full match).
// Holes never satisfy Eat: a literal or pattern atom cannot consume one.
func (s *Scanner) Eat(pos int, patt any) (int, any, error) {
	pos, err := s.RuleSkip(pos)
	if err != nil {
		return pos, nil, err
	}

	el, ok := s.at(pos)
	if !ok || el.IsHole() {
		return pos, packrat.FAIL, nil
	}

	text := el.Token().Text()
	matched := false
	switch p := patt.(type) {
	case string:
		matched = text == p
	case *regexp.Regexp:
		matched = p.MatchString(text)
	default:
		return pos, nil, mserrors.Format(mserrors.InternalErrors, "scanner: unsupported pattern type %T", patt)
	}

	if !matched {
		return pos, packrat.FAIL, nil
	}
	return pos + 1, text, nil
}

// RuleNumber recognizes a NUMBER token: eat against the number regex.
func (s *Scanner) RuleNumber(pos int) (int, any, error) {
	return s.sub.Run(pos, idNumber, "NUMBER", true, func(p int) (int, any) {
		np, v, err := s.Eat(p, numberRe)
		if err != nil {
			panic(err)
		}
		return np, v
	})
}

// RuleString recognizes a STRING token: eat against the string regex.
func (s *Scanner) RuleString(pos int) (int, any, error) {
	return s.sub.Run(pos, idString, "STRING", true, func(p int) (int, any) {
		np, v, err := s.Eat(p, stringRe)
		if err != nil {
			panic(err)
		}
		return np, v
	})
}

// RuleIdent recognizes an IDENT token: after SKIP, the token's text must
// match the identifier regex and must not be a reserved keyword.
func (s *Scanner) RuleIdent(pos int) (int, any, error) {
	return s.sub.Run(pos, idIdent, "IDENT", true, func(p int) (int, any) {
		skipped, err := s.RuleSkip(p)
		if err != nil {
			panic(err)
		}

		el, ok := s.at(skipped)
		if !ok || el.IsHole() {
			return skipped, packrat.FAIL
		}

		text := el.Token().Text()
		if !identRe.MatchString(text) || s.reserved[text] {
			return skipped, packrat.FAIL
		}

		return skipped + 1, text
	})
}

// RuleHole recognizes a hole marker: after SKIP, succeeds with the hole's
// index iff the current element is a hole. Holes are never consumed by
// SPACE/COMMENT, so this always resolves to the literal next element.
func (s *Scanner) RuleHole(pos int) (int, any, error) {
	return s.sub.Run(pos, idHole, "HOLE", true, func(p int) (int, any) {
		skipped, err := s.RuleSkip(p)
		if err != nil {
			panic(err)
		}

		el, ok := s.at(skipped)
		if !ok || !el.IsHole() {
			return skipped, packrat.FAIL
		}

		return skipped + 1, el.Hole()
	})
}

// RuleEOF succeeds with packrat.EOF iff, after SKIP, pos has reached the
// end of the stream.
func (s *Scanner) RuleEOF(pos int) (int, any, error) {
	return s.sub.Run(pos, idEOF, "EOF", true, func(p int) (int, any) {
		skipped, err := s.RuleSkip(p)
		if err != nil {
			panic(err)
		}

		if skipped < s.stream.Len() {
			return skipped, packrat.FAIL
		}
		return skipped, packrat.EOF
	})
}

// describeElement renders an element (or "EOF") for error messages.
func (s *Scanner) describeElement(pos int) string {
	el, ok := s.at(pos)
	if !ok {
		return "EOF"
	}
	if el.IsHole() {
		return fmt.Sprintf("hole #%d", int(el.Hole()))
	}
	return fmt.Sprintf("%q", el.Token().Text())
}

// SyntaxError builds the diagnostic described in spec.md §4.5: it prints
// the template with holes substituted for visibility, names either the
// offending element or "Unexpected EOF after <lastToken>", and lists the
// furthest-failure diagnostic set from the shared substrate.
func (s *Scanner) SyntaxError(pos int) error {
	furthest, expected := s.sub.LastFailures()
	if furthest < 0 {
		furthest = pos
	}

	var subject string
	if furthest >= s.stream.Len() {
		last := "start of input"
		if furthest > 0 {
			if el, ok := s.at(furthest - 1); ok && !el.IsHole() {
				last = el.Token().Text()
			}
		}
		subject = fmt.Sprintf("Unexpected EOF after %q", last)
	} else {
		subject = "Unexpected " + s.describeElement(furthest)
	}

	msg := fmt.Sprintf("%s\ntemplate: %s", subject, s.tpl.String())
	if len(expected) > 0 {
		msg += fmt.Sprintf("\nexpecting one of: %s", strings.Join(expected, ", "))
	}

	code := UnexpectedTokenError
	if furthest >= s.stream.Len() {
		code = UnexpectedEofError
	}
	return mserrors.Format(code, msg)
}
