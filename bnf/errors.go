package bnf

import "github.com/microses/peg/mserrors"

// Error codes used while compiling a grammar-DSL template. These are
// grammar-definition mistakes, distinct from the parse-time errors a
// compiled Ruleset can raise against input (package scanner) and from the
// substrate's own left-recursion/missing-rule errors (package packrat).
const (
	SyntaxInGrammarError = mserrors.GrammarErrors + 20 + iota
	DuplicateRuleError
	RuleUndefinedError
	EmptyGrammarError
	ActionTypeError
)
