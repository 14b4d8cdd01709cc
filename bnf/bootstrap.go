package bnf

import (
	"strings"

	"github.com/microses/peg/mserrors"
	"github.com/microses/peg/packrat"
	"github.com/microses/peg/scanner"
)

// grammarParser walks the grammar-DSL token stream once, by hand, to
// produce a grammarAST. It is a plain recursive-descent parser, not a
// packrat ruleset: the grammar it recognizes is small and fixed, and it
// only ever runs once per Compile call, so memoization would buy nothing.
// It still goes through the scanner's terminal rules (RuleIdent,
// RuleString, RuleHole, RuleEOF, Eat) so the grammar-DSL text enjoys the
// same SKIP/hole handling as any other parse.
type grammarParser struct {
	sc *scanner.Scanner
}

// parseGrammarSource parses the whole grammar-DSL token stream.
// parseGrammar's own loop only exits once rule_EOF has succeeded at the
// final position, so there is nothing left to check afterward.
func parseGrammarSource(sc *scanner.Scanner) (*grammarAST, error) {
	gp := &grammarParser{sc: sc}
	_, ast, err := gp.parseGrammar(0)
	return ast, err
}

func (gp *grammarParser) parseGrammar(pos int) (int, *grammarAST, error) {
	var prods []*productionNode
	for {
		_, v, err := gp.sc.RuleEOF(pos)
		if err != nil {
			return pos, nil, err
		}
		if v != packrat.FAIL {
			break
		}

		p, prod, err := gp.parseProduction(pos)
		if err != nil {
			return pos, nil, err
		}
		prods = append(prods, prod)
		pos = p
	}

	if len(prods) == 0 {
		return pos, nil, mserrors.Format(EmptyGrammarError, "grammar has no productions")
	}
	return pos, &grammarAST{productions: prods}, nil
}

func (gp *grammarParser) parseProduction(pos int) (int, *productionNode, error) {
	p, name, err := gp.expectIdent(pos)
	if err != nil {
		return pos, nil, err
	}
	p, err = gp.expectLiteral(p, "::=")
	if err != nil {
		return pos, nil, err
	}
	p, body, err := gp.parseBody(p)
	if err != nil {
		return pos, nil, err
	}
	p, err = gp.expectLiteral(p, ";")
	if err != nil {
		return pos, nil, err
	}
	return p, &productionNode{name: name, body: body}, nil
}

func (gp *grammarParser) parseBody(pos int) (int, *bodyNode, error) {
	p, seq, err := gp.parseSeq(pos)
	if err != nil {
		return pos, nil, err
	}
	seqs := []*seqNode{seq}

	for {
		p2, v, err := gp.sc.Eat(p, "/")
		if err != nil {
			return pos, nil, err
		}
		if v == packrat.FAIL {
			break
		}
		p, seq, err = gp.parseSeq(p2)
		if err != nil {
			return pos, nil, err
		}
		seqs = append(seqs, seq)
	}

	return p, &bodyNode{seqs: seqs}, nil
}

func (gp *grammarParser) parseSeq(pos int) (int, *seqNode, error) {
	var atoms []*atomNode
	p := pos
	for {
		// A hole is ambiguous between a rule_HOLE input placeholder and a
		// trailing semantic action until we know what follows it: only a
		// hole immediately before the sequence's terminator (";", "/", or
		// ")") is the action (spec.md's Open Question resolution, recorded
		// in DESIGN.md). Peeking is cheap: RuleHole and RuleEOF are
		// memoized against the shared substrate, and the literal checks in
		// atSeqTerminator are single-token re-scans.
		hp, hv, err := gp.sc.RuleHole(p)
		if err != nil {
			return pos, nil, err
		}
		if hv != packrat.FAIL {
			if gp.atSeqTerminator(hp) {
				return hp, &seqNode{atoms: atoms, hasAction: true, action: hv}, nil
			}
			atoms = append(atoms, &atomNode{prim: &primNode{kind: primHole, hole: hv}})
			p = hp
			continue
		}

		p2, at, ok, err := gp.tryAtom(p)
		if err != nil {
			return pos, nil, err
		}
		if !ok {
			break
		}
		atoms = append(atoms, at)
		p = p2
	}

	return p, &seqNode{atoms: atoms}, nil
}

// atSeqTerminator reports whether pos sits at one of the tokens that can
// legally close a sequence. Only the RuleEOF check below goes through the
// shared substrate and is memoized; the literal Eat calls are plain
// re-scans each time they're tried, since Eat never calls Substrate.Run.
// That's fine here: the bootstrap parser runs once over a short grammar
// text, so the handful of repeated single-token scans cost nothing worth
// caching.
func (gp *grammarParser) atSeqTerminator(pos int) bool {
	for _, lit := range []string{";", "/", ")"} {
		if _, v, _ := gp.sc.Eat(pos, lit); v != packrat.FAIL {
			return true
		}
	}
	if _, v, _ := gp.sc.RuleEOF(pos); v != packrat.FAIL {
		return true
	}
	return false
}

func (gp *grammarParser) tryAtom(pos int) (int, *atomNode, bool, error) {
	p, prim, ok, err := gp.parsePrimNoHole(pos)
	if err != nil || !ok {
		return pos, nil, false, err
	}

	for _, op := range []string{"**", "++"} {
		p2, v, err := gp.sc.Eat(p, op)
		if err != nil {
			return pos, nil, false, err
		}
		if v == packrat.FAIL {
			continue
		}
		p3, sep, ok, err := gp.parsePrim(p2)
		if err != nil {
			return pos, nil, false, err
		}
		if !ok {
			return pos, nil, false, grammarSyntaxError(gp.sc, p2)
		}
		return p3, &atomNode{prim: prim, op: op, sep: sep}, true, nil
	}

	for _, op := range []string{"*", "+", "?"} {
		p2, v, err := gp.sc.Eat(p, op)
		if err != nil {
			return pos, nil, false, err
		}
		if v == packrat.FAIL {
			continue
		}
		return p2, &atomNode{prim: prim, op: op}, true, nil
	}

	return p, &atomNode{prim: prim}, true, nil
}

// parsePrim parses one primary, including a bare hole — used where there
// is no trailing-action ambiguity to resolve, namely a `**`/`++`
// separator position.
func (gp *grammarParser) parsePrim(pos int) (int, *primNode, bool, error) {
	if p, node, ok, err := gp.parsePrimNoHole(pos); err != nil || ok {
		return p, node, ok, err
	}

	if p, v, err := gp.sc.RuleHole(pos); err != nil {
		return pos, nil, false, err
	} else if v != packrat.FAIL {
		return p, &primNode{kind: primHole, hole: v}, true, nil
	}

	return pos, nil, false, nil
}

// parsePrimNoHole parses one atom-level primary, excluding holes: at the
// top of a sequence, a hole is handled explicitly by parseSeq so it can
// be told apart from a trailing action. Holes nested inside a group
// still go through parseSeq recursively (via parseBody), so this
// exclusion only affects the immediate atom position.
func (gp *grammarParser) parsePrimNoHole(pos int) (int, *primNode, bool, error) {
	if p, v, err := gp.sc.RuleString(pos); err != nil {
		return pos, nil, false, err
	} else if v != packrat.FAIL {
		return p, &primNode{kind: primLiteral, text: unquoteLiteral(v.(string))}, true, nil
	}

	if p, v, err := gp.sc.RuleIdent(pos); err != nil {
		return pos, nil, false, err
	} else if v != packrat.FAIL {
		return p, &primNode{kind: primIdent, name: v.(string)}, true, nil
	}

	if p, v, err := gp.sc.Eat(pos, "("); err != nil {
		return pos, nil, false, err
	} else if v != packrat.FAIL {
		p2, body, err := gp.parseBody(p)
		if err != nil {
			return pos, nil, false, err
		}
		p3, err := gp.expectLiteral(p2, ")")
		if err != nil {
			return pos, nil, false, err
		}
		return p3, &primNode{kind: primGroup, group: body}, true, nil
	}

	return pos, nil, false, nil
}

func (gp *grammarParser) expectIdent(pos int) (int, string, error) {
	p, v, err := gp.sc.RuleIdent(pos)
	if err != nil {
		return pos, "", err
	}
	if v == packrat.FAIL {
		return pos, "", grammarSyntaxError(gp.sc, pos)
	}
	return p, v.(string), nil
}

func (gp *grammarParser) expectLiteral(pos int, lit string) (int, error) {
	p, v, err := gp.sc.Eat(pos, lit)
	if err != nil {
		return pos, err
	}
	if v == packrat.FAIL {
		return pos, grammarSyntaxError(gp.sc, pos)
	}
	return p, nil
}

// grammarSyntaxError reuses the scanner's own diagnostic machinery — the
// grammar-DSL text is tokenized and scanned exactly like any other input
// — and reclasses it as a grammar-definition mistake rather than a
// parse-time failure against caller input.
//
// sc.SyntaxError documents an "expecting one of" set built from the
// substrate's failure memo, but the bootstrap parser's own literal
// matching (expectLiteral, atSeqTerminator) calls sc.Eat directly rather
// than going through the substrate, so for a malformed grammar-DSL text
// that set names only the scanner's own memoized terminals that failed
// there (IDENT, STRING, HOLE, EOF, /COMMENT/), never the DSL literal that
// was expected. The underlying scanner error is still preserved as Cause,
// so a caller walking errors.Unwrap sees whatever message sc.SyntaxError
// did produce. Accepted gap: see DESIGN.md.
func grammarSyntaxError(sc *scanner.Scanner, pos int) error {
	cause := sc.SyntaxError(pos)
	return mserrors.Wrap(SyntaxInGrammarError, cause, "malformed grammar definition")
}

// unquoteLiteral strips the surrounding double quotes a STRING token
// always carries and resolves the same backslash escapes the lexer's
// STRING pattern accepts, so the interned literal's text is exactly the
// bytes a matching input token would carry.
func unquoteLiteral(tokenText string) string {
	inner := tokenText
	if len(inner) >= 2 {
		inner = inner[1 : len(inner)-1]
	}
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}
