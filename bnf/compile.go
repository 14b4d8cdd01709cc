package bnf

import (
	"regexp"

	"github.com/microses/peg/lexer"
	"github.com/microses/peg/mserrors"
	"github.com/microses/peg/packrat"
	"github.com/microses/peg/scanner"
	"github.com/microses/peg/template"
	"github.com/microses/peg/token"
)

// identLikeRe recognizes literal atoms that look like identifiers
// ("if", "then", ...): the BNF compiler folds these into the reserved
// keyword set so rule_IDENT never swallows one (spec.md §4.6).
var identLikeRe = regexp.MustCompile(`^` + lexer.IdentPattern + `$`)

var builtinNames = map[string]builtinKind{
	"NUMBER": bNumber,
	"STRING": bString,
	"IDENT":  bIdent,
	"HOLE":   bHole,
	"EOF":    bEOF,
}

// compiler accumulates the rule table while walking the bootstrap AST
// into chunks. Ids start at scanner.FirstFreeID so they never collide
// with the scanner's own builtin ids, which bypass this table entirely.
type compiler struct {
	rules    map[string]*ruleEntry
	literals map[string]*ruleEntry
	reserved map[string]bool
	nextID   int
	holes    []any // the grammar template's hole values, indexed by token.Hole
}

// Compile reads a grammar-DSL template (spec.md §4.6/§6.3) and produces
// an immutable Ruleset. Action holes are the template's interpolated
// values, each of type func(args ...any) any (spec.md §6.2's "semantic
// action"); a non-trailing hole stands in for a rule_HOLE input
// placeholder instead, per the Open Question resolution in DESIGN.md.
func Compile(tpl template.Template) (*Ruleset, error) {
	stream, err := lexer.Lex(tpl.Segments)
	if err != nil {
		return nil, err
	}

	sub := packrat.New(false, nil)
	sc := scanner.New(tpl, stream, nil, sub)

	ast, err := parseGrammarSource(sc)
	if err != nil {
		return nil, err
	}

	c := &compiler{
		rules:    map[string]*ruleEntry{},
		literals: map[string]*ruleEntry{},
		reserved: map[string]bool{},
		nextID:   scanner.FirstFreeID,
		holes:    tpl.Holes,
	}

	// Pass 1: register every production name so forward references
	// resolve regardless of declaration order, then collect reserved
	// keywords from every literal atom in the grammar.
	for _, prod := range ast.productions {
		if _, dup := c.rules[prod.name]; dup {
			return nil, mserrors.Format(DuplicateRuleError, "Rule declared more than once: %s", prod.name)
		}
		c.rules[prod.name] = &ruleEntry{id: c.nextID, name: prod.name, kind: kUserRule}
		c.nextID++
	}
	c.collectReserved(ast)

	startName := ast.productions[0].name

	// Pass 2: compile each production's body now that every name is
	// known, filling in the ruleEntry reserved in pass 1.
	for _, prod := range ast.productions {
		body, err := c.convertBody(prod.body)
		if err != nil {
			return nil, err
		}
		c.rules[prod.name].body = body
	}

	if err := c.validateRefs(); err != nil {
		return nil, err
	}

	return &Ruleset{
		rules:     c.rules,
		reserved:  c.reserved,
		startName: startName,
		source:    tpl,
	}, nil
}

func (c *compiler) collectReserved(ast *grammarAST) {
	var walkBody func(*bodyNode)
	var walkPrim func(*primNode)

	walkPrim = func(p *primNode) {
		switch p.kind {
		case primLiteral:
			if identLikeRe.MatchString(p.text) {
				c.reserved[p.text] = true
			}
		case primGroup:
			walkBody(p.group)
		}
	}

	walkBody = func(b *bodyNode) {
		for _, seq := range b.seqs {
			for _, at := range seq.atoms {
				walkPrim(at.prim)
				if at.sep != nil {
					walkPrim(at.sep)
				}
			}
		}
	}

	for _, prod := range ast.productions {
		walkBody(prod.body)
	}
}

func (c *compiler) convertBody(b *bodyNode) (chunk, error) {
	if len(b.seqs) == 1 {
		return c.convertSeq(b.seqs[0])
	}
	alts := make([]chunk, 0, len(b.seqs))
	for _, s := range b.seqs {
		ch, err := c.convertSeq(s)
		if err != nil {
			return nil, err
		}
		alts = append(alts, ch)
	}
	return &choiceChunk{alts: alts}, nil
}

func (c *compiler) convertSeq(s *seqNode) (chunk, error) {
	atoms := make([]chunk, 0, len(s.atoms))
	for _, a := range s.atoms {
		ch, err := c.convertAtom(a)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, ch)
	}

	seq := &seqChunk{atoms: atoms}
	if s.hasAction {
		// The bootstrap parser records the hole's index; the action itself
		// is the template's value at that index.
		actionVal := s.action
		if h, isHole := actionVal.(token.Hole); isHole && int(h) >= 0 && int(h) < len(c.holes) {
			actionVal = c.holes[h]
		}
		action, ok := actionVal.(func(args ...any) any)
		if !ok {
			return nil, mserrors.Format(ActionTypeError, "grammar action hole must be func(args ...any) any, got %T", actionVal)
		}
		seq.action = action
	}
	return seq, nil
}

func (c *compiler) convertAtom(a *atomNode) (chunk, error) {
	prim, err := c.convertPrim(a.prim)
	if err != nil {
		return nil, err
	}

	switch a.op {
	case "":
		return prim, nil
	case "?":
		return &optionalChunk{inner: prim}, nil
	case "*":
		return &repeatChunk{inner: prim, min: 0}, nil
	case "+":
		return &repeatChunk{inner: prim, min: 1}, nil
	case "**", "++":
		sep, err := c.convertPrim(a.sep)
		if err != nil {
			return nil, err
		}
		min := 0
		if a.op == "++" {
			min = 1
		}
		return &sepRepeatChunk{inner: prim, sep: sep, min: min}, nil
	default:
		return nil, mserrors.Format(SyntaxInGrammarError, "unknown repetition operator %q", a.op)
	}
}

func (c *compiler) convertPrim(p *primNode) (chunk, error) {
	switch p.kind {
	case primLiteral:
		return &ruleRefChunk{re: c.internLiteral(p.text)}, nil

	case primIdent:
		if bk, ok := builtinNames[p.name]; ok {
			return &ruleRefChunk{re: c.internBuiltin(p.name, bk)}, nil
		}
		// Pass 1 registered every declared production name, so a forward
		// reference already resolves here; an undeclared name yields nil,
		// which validateRefs reports.
		return &ruleRefChunk{re: c.rules[p.name]}, nil

	case primHole:
		// A non-trailing hole stands for the builtin HOLE terminal: match
		// whatever input hole sits at this position in the token stream.
		return &ruleRefChunk{re: c.internBuiltin("HOLE", bHole)}, nil

	case primGroup:
		return c.convertBody(p.group)

	default:
		return nil, mserrors.Format(SyntaxInGrammarError, "unknown grammar atom kind")
	}
}

func (c *compiler) internLiteral(text string) *ruleEntry {
	if re, ok := c.literals[text]; ok {
		return re
	}
	re := &ruleEntry{id: c.nextID, name: `"` + text + `"`, kind: kLiteral, literal: text}
	c.nextID++
	c.literals[text] = re
	return re
}

func (c *compiler) internBuiltin(name string, kind builtinKind) *ruleEntry {
	if re, ok := c.rules["/"+name]; ok {
		return re
	}
	re := &ruleEntry{name: name, kind: kBuiltin, builtinKind: kind}
	c.rules["/"+name] = re
	return re
}

// validateRefs catches a reference to an undeclared rule name eagerly,
// at compile time, rather than waiting for a parse to stumble over a nil
// ruleEntry (spec.md §4.6 grammar-definition errors).
func (c *compiler) validateRefs() error {
	var walk func(chunk) error
	walk = func(ch chunk) error {
		switch v := ch.(type) {
		case *ruleRefChunk:
			if v.re == nil {
				return mserrors.Format(RuleUndefinedError, "Rule undefined")
			}
		case *seqChunk:
			for _, a := range v.atoms {
				if err := walk(a); err != nil {
					return err
				}
			}
		case *choiceChunk:
			for _, a := range v.alts {
				if err := walk(a); err != nil {
					return err
				}
			}
		case *optionalChunk:
			return walk(v.inner)
		case *repeatChunk:
			return walk(v.inner)
		case *sepRepeatChunk:
			if err := walk(v.inner); err != nil {
				return err
			}
			return walk(v.sep)
		}
		return nil
	}

	for _, re := range c.rules {
		if re.kind == kUserRule && re.body != nil {
			if err := walk(re.body); err != nil {
				return err
			}
		}
	}
	return nil
}
