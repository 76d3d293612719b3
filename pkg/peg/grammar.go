// Package peg implements a small lexerless parsing-expression-grammar engine.
//
// A [Grammar] is a set of named rules built from combinators such as [Seq],
// [Choice], and [ZeroOrMore]. Rules match characters directly, so spacing and
// comments are ordinary rules of the grammar. A built grammar is turned into a
// [Parser] that yields an [ast.Tree] or a [RecognitionError].
package peg

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
)

// Sentinel errors for grammar construction.
var (
	// ErrUndefinedRule indicates a reference to a rule that was never defined.
	ErrUndefinedRule = errors.New("undefined grammar rule")
	// ErrDuplicateRule indicates a rule name defined twice.
	ErrDuplicateRule = errors.New("duplicate grammar rule")
	// ErrNoRoot indicates the grammar has no root rule.
	ErrNoRoot = errors.New("grammar root rule is not set")
	// ErrNotBuilt indicates a parser was requested from an unbuilt grammar.
	ErrNotBuilt = errors.New("grammar is not built")
)

// RuleOption customizes how a rule contributes nodes to the tree.
type RuleOption func(*rule)

// SkipIfOneChild replaces the rule's node with its only child when the rule
// produced exactly one child. Used for precedence ladders.
func SkipIfOneChild() RuleOption {
	return func(rl *rule) { rl.skipIfOneChild = true }
}

// Quiet keeps the rule's failures out of the expectation set. Used for
// spacing, which would otherwise be expected almost everywhere.
func Quiet() RuleOption {
	return func(rl *rule) { rl.quiet = true }
}

// Memo caches the rule's result per input offset in the default
// configuration. Worth it for rules that ordered choices retry at the same
// offset; token-level rules are cheaper to re-match than to cache.
func Memo() RuleOption {
	return func(rl *rule) { rl.memo = true }
}

type rule struct {
	name           string
	index          int
	kind           ast.Kind
	expr           Expr
	skipIfOneChild bool
	quiet          bool
	memo           bool
}

// transparent rules lift their children into the enclosing rule.
func (rl *rule) transparent() bool { return rl.kind == ast.KindInvalid }

// Grammar is a named collection of rules with one root.
type Grammar struct {
	name  string
	rules map[string]*rule
	order []*rule
	root  *rule
	built bool
	errs  []error
}

// NewGrammar creates an empty grammar.
func NewGrammar(name string) *Grammar {
	return &Grammar{name: name, rules: make(map[string]*rule)}
}

// Name returns the grammar name.
func (g *Grammar) Name() string { return g.name }

// Rule defines a rule that produces a node of the given kind.
func (g *Grammar) Rule(name string, kind ast.Kind, expr Expr, opts ...RuleOption) {
	if _, exists := g.rules[name]; exists {
		g.errs = append(g.errs, fmt.Errorf("%w: %s", ErrDuplicateRule, name))

		return
	}

	rl := &rule{name: name, index: len(g.order), kind: kind, expr: expr}
	for _, opt := range opts {
		opt(rl)
	}

	g.rules[name] = rl
	g.order = append(g.order, rl)
	g.built = false
}

// Transparent defines a rule that produces no node of its own.
func (g *Grammar) Transparent(name string, expr Expr, opts ...RuleOption) {
	g.Rule(name, ast.KindInvalid, expr, opts...)
}

// SetRoot selects the rule parsing starts from.
func (g *Grammar) SetRoot(name string) {
	g.root = g.rules[name]
	if g.root == nil {
		g.errs = append(g.errs, fmt.Errorf("%w: root %s", ErrUndefinedRule, name))
	}
}

// Build resolves every rule reference and validates the grammar.
func (g *Grammar) Build() error {
	errs := append([]error(nil), g.errs...)

	if g.root == nil {
		errs = append(errs, ErrNoRoot)
	}

	for _, rl := range g.order {
		errs = append(errs, g.resolve(rl.name, rl.expr)...)
	}

	err := errors.Join(errs...)
	if err != nil {
		return fmt.Errorf("build grammar %s: %w", g.name, err)
	}

	g.built = true

	return nil
}

func (g *Grammar) resolve(owner string, expr Expr) []error {
	var errs []error

	if ref, ok := expr.(*refExpr); ok {
		ref.rule = g.rules[ref.name]
		if ref.rule == nil {
			errs = append(errs, fmt.Errorf("%w: %s (referenced from %s)", ErrUndefinedRule, ref.name, owner))
		}
	}

	for _, sub := range expr.subexprs() {
		errs = append(errs, g.resolve(owner, sub)...)
	}

	return errs
}

// RuleNames returns the rule names in definition order.
func (g *Grammar) RuleNames() []string {
	names := make([]string, 0, len(g.order))
	for _, rl := range g.order {
		names = append(names, rl.name)
	}

	return names
}
