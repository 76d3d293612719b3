package peg

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
)

// Expr is a parsing expression. Expressions match characters directly;
// there is no separate token stream.
type Expr interface {
	match(r *run, pos int) (int, bool)
	subexprs() []Expr
	String() string
}

// Seq matches every expression in order.
func Seq(exprs ...Expr) Expr {
	if len(exprs) == 1 {
		return exprs[0]
	}

	return &seqExpr{exprs: exprs}
}

// Choice tries the expressions in order and commits to the first that matches.
func Choice(exprs ...Expr) Expr {
	if len(exprs) == 1 {
		return exprs[0]
	}

	return &choiceExpr{exprs: exprs}
}

// ZeroOrMore matches expr greedily as many times as possible.
func ZeroOrMore(expr Expr) Expr { return &repeatExpr{expr: expr, min: 0} }

// OneOrMore matches expr greedily at least once.
func OneOrMore(expr Expr) Expr { return &repeatExpr{expr: expr, min: 1} }

// Optional matches expr or nothing.
func Optional(expr Expr) Expr { return &optionalExpr{expr: expr} }

// Not succeeds without consuming input when expr does not match.
func Not(expr Expr) Expr { return &predicateExpr{expr: expr, negate: true} }

// And succeeds without consuming input when expr matches.
func And(expr Expr) Expr { return &predicateExpr{expr: expr} }

// Lit matches the literal text exactly.
func Lit(text string) Expr { return &litExpr{text: text} }

// Any matches a single character.
func Any() Expr { return anyExpr{} }

// EOF matches the end of input.
func EOF() Expr { return &predicateExpr{expr: anyExpr{}, negate: true, desc: "end of input"} }

// Ref refers to a named rule of the grammar. References are resolved by [Grammar.Build].
func Ref(name string) Expr { return &refExpr{name: name} }

// Token matches expr and replaces whatever it produced with a single leaf
// node of the given kind covering the matched text.
func Token(kind ast.Kind, expr Expr) Expr { return &tokenExpr{kind: kind, expr: expr} }

// Trivia is like [Token] but marks the leaf as insignificant, e.g. a comment.
// Trivia trailing a rule's last significant child is lifted out of the rule's
// node and does not count for [SkipIfOneChild].
func Trivia(kind ast.Kind, expr Expr) Expr { return &tokenExpr{kind: kind, expr: expr, trivia: true} }

// Class matches one character from a set written in bracket-expression
// style without the brackets, e.g. "a-zA-Z0-9_". A leading '^' negates the set.
func Class(spec string) Expr {
	cls := &classExpr{spec: spec}

	runes := []rune(spec)
	if len(runes) > 0 && runes[0] == '^' {
		cls.negate = true
		runes = runes[1:]
	}

	for i := 0; i < len(runes); i++ {
		lo := runes[i]
		hi := lo

		if i+2 < len(runes) && runes[i+1] == '-' {
			hi = runes[i+2]
			i += 2
		}

		cls.ranges = append(cls.ranges, [2]rune{lo, hi})
	}

	return cls
}

type seqExpr struct{ exprs []Expr }

func (e *seqExpr) match(r *run, pos int) (int, bool) {
	mark := len(r.out)
	cur := pos

	for _, sub := range e.exprs {
		next, ok := sub.match(r, cur)
		if !ok {
			r.out = r.out[:mark]

			return pos, false
		}

		cur = next
	}

	return cur, true
}

func (e *seqExpr) subexprs() []Expr { return e.exprs }

func (e *seqExpr) String() string { return joinExprs(e.exprs, " ") }

type choiceExpr struct{ exprs []Expr }

func (e *choiceExpr) match(r *run, pos int) (int, bool) {
	mark := len(r.out)

	for _, sub := range e.exprs {
		next, ok := sub.match(r, pos)
		if ok {
			return next, true
		}

		r.out = r.out[:mark]
	}

	return pos, false
}

func (e *choiceExpr) subexprs() []Expr { return e.exprs }

func (e *choiceExpr) String() string { return "(" + joinExprs(e.exprs, " / ") + ")" }

type repeatExpr struct {
	expr Expr
	min  int
}

func (e *repeatExpr) match(r *run, pos int) (int, bool) {
	mark := len(r.out)
	cur := pos
	count := 0

	for {
		iterMark := len(r.out)

		next, ok := e.expr.match(r, cur)
		if !ok {
			r.out = r.out[:iterMark]

			break
		}

		count++

		// A repetition that consumes nothing would loop forever.
		if next == cur {
			break
		}

		cur = next
	}

	if count < e.min {
		r.out = r.out[:mark]

		return pos, false
	}

	return cur, true
}

func (e *repeatExpr) subexprs() []Expr { return []Expr{e.expr} }

func (e *repeatExpr) String() string {
	if e.min == 0 {
		return e.expr.String() + "*"
	}

	return e.expr.String() + "+"
}

type optionalExpr struct{ expr Expr }

func (e *optionalExpr) match(r *run, pos int) (int, bool) {
	mark := len(r.out)

	next, ok := e.expr.match(r, pos)
	if !ok {
		r.out = r.out[:mark]

		return pos, true
	}

	return next, true
}

func (e *optionalExpr) subexprs() []Expr { return []Expr{e.expr} }

func (e *optionalExpr) String() string { return e.expr.String() + "?" }

type predicateExpr struct {
	expr   Expr
	negate bool
	desc   string
}

func (e *predicateExpr) match(r *run, pos int) (int, bool) {
	mark := len(r.out)

	r.quiet++
	_, ok := e.expr.match(r, pos)
	r.quiet--

	r.out = r.out[:mark]

	if e.negate {
		ok = !ok
	}

	if !ok && e.desc != "" {
		r.expect(pos, e.desc)
	}

	return pos, ok
}

func (e *predicateExpr) subexprs() []Expr { return []Expr{e.expr} }

func (e *predicateExpr) String() string {
	if e.desc != "" {
		return e.desc
	}

	if e.negate {
		return "!" + e.expr.String()
	}

	return "&" + e.expr.String()
}

type litExpr struct{ text string }

func (e *litExpr) match(r *run, pos int) (int, bool) {
	end := pos + len(e.text)
	if end <= len(r.src) && string(r.src[pos:end]) == e.text {
		return end, true
	}

	r.expect(pos, strconv.Quote(e.text))

	return pos, false
}

func (e *litExpr) subexprs() []Expr { return nil }

func (e *litExpr) String() string { return strconv.Quote(e.text) }

type anyExpr struct{}

func (anyExpr) match(r *run, pos int) (int, bool) {
	if pos >= len(r.src) {
		r.expect(pos, "any character")

		return pos, false
	}

	_, size := utf8.DecodeRune(r.src[pos:])

	return pos + size, true
}

func (anyExpr) subexprs() []Expr { return nil }

func (anyExpr) String() string { return "." }

type classExpr struct {
	spec   string
	ranges [][2]rune
	negate bool
}

func (e *classExpr) match(r *run, pos int) (int, bool) {
	if pos < len(r.src) {
		ch, size := utf8.DecodeRune(r.src[pos:])

		in := false

		for _, rng := range e.ranges {
			if ch >= rng[0] && ch <= rng[1] {
				in = true

				break
			}
		}

		if in != e.negate {
			return pos + size, true
		}
	}

	r.expect(pos, e.String())

	return pos, false
}

func (e *classExpr) subexprs() []Expr { return nil }

func (e *classExpr) String() string { return "[" + e.spec + "]" }

type refExpr struct {
	name string
	rule *rule
}

func (e *refExpr) match(r *run, pos int) (int, bool) {
	return r.apply(e.rule, pos)
}

func (e *refExpr) subexprs() []Expr { return nil }

func (e *refExpr) String() string { return e.name }

type tokenExpr struct {
	kind   ast.Kind
	expr   Expr
	trivia bool
}

func (e *tokenExpr) match(r *run, pos int) (int, bool) {
	mark := len(r.out)

	end, ok := e.expr.match(r, pos)
	r.out = r.out[:mark]

	if !ok {
		return pos, false
	}

	r.out = append(r.out, &pnode{kind: e.kind, start: pos, end: end, trivia: e.trivia})

	return end, true
}

func (e *tokenExpr) subexprs() []Expr { return []Expr{e.expr} }

func (e *tokenExpr) String() string { return fmt.Sprintf("<%s %s>", e.kind, e.expr) }

func joinExprs(exprs []Expr, sep string) string {
	parts := make([]string, 0, len(exprs))
	for _, sub := range exprs {
		parts = append(parts, sub.String())
	}

	return strings.Join(parts, sep)
}
