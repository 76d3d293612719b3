package peg

import (
	"fmt"
	"sort"

	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
)

// Option configures a [Parser].
type Option func(*Parser)

// WithDiagnostics makes the parser record every rule attempt and the rule
// stack active at the deepest failure. Much slower than the default
// configuration; meant for re-parsing a file that already failed.
func WithDiagnostics() Option {
	return func(p *Parser) { p.diagnostics = true }
}

// Parser parses input against a built grammar. A Parser keeps no state
// between calls and is safe for concurrent use.
type Parser struct {
	grammar     *Grammar
	diagnostics bool
}

// NewParser creates a parser for a built grammar.
func NewParser(g *Grammar, opts ...Option) (*Parser, error) {
	if !g.built {
		return nil, fmt.Errorf("new parser for %s: %w", g.name, ErrNotBuilt)
	}

	p := &Parser{grammar: g}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Diagnostic reports whether the parser records rule attempts.
func (p *Parser) Diagnostic() bool { return p.diagnostics }

// Parse matches the whole input against the root rule. It returns a
// *[RecognitionError] when the input is rejected.
func (p *Parser) Parse(path string, src []byte) (*ast.Tree, error) {
	r := newRun(src, p.diagnostics)

	end, ok := r.apply(p.grammar.root, 0)
	if !ok || end != len(src) {
		if ok && r.farthest < end {
			r.farthest = -1
			r.expect(end, "end of input")
		}

		return nil, r.failure(path)
	}

	tree := ast.NewTree(path, src)

	root := &pnode{kind: ast.Module, children: r.out}

	// Trivia lifted out of the root rule's node belongs back inside it.
	rootRule := p.grammar.root
	if !rootRule.transparent() && len(r.out) > 0 && r.out[0].kind == rootRule.kind && !r.out[0].trivia {
		root = r.out[0]
		root.children = append(root.children, r.out[1:]...)
	}

	rootID := tree.AddNode(ast.NoNode, root.kind, 0, len(src))
	for _, child := range root.children {
		flatten(tree, rootID, child)
	}

	return tree, nil
}

// flatten copies a parse node and its descendants into the arena in pre-order,
// so every child ID is greater than its parent's.
func flatten(tree *ast.Tree, parent ast.NodeID, n *pnode) {
	id := tree.AddNode(parent, n.kind, n.start, n.end)
	for _, child := range n.children {
		flatten(tree, id, child)
	}
}

// pnode is the scratch node built while matching; discarded on backtrack.
type pnode struct {
	kind     ast.Kind
	start    int
	end      int
	trivia   bool
	children []*pnode
}

type memoKey struct {
	rule int
	pos  int
}

type memoEntry struct {
	end   int
	ok    bool
	nodes []*pnode
}

// run holds the state of a single Parse call.
type run struct {
	src  []byte
	out  []*pnode
	memo map[memoKey]memoEntry

	quiet    int
	farthest int
	expected []string

	diagnostics bool
	stack       []Frame
	failStack   []Frame
	attempts    int
}

func newRun(src []byte, diagnostics bool) *run {
	r := &run{src: src, farthest: -1, diagnostics: diagnostics}

	// Memoized results would hide attempts from the diagnostic trace.
	if !diagnostics {
		r.memo = make(map[memoKey]memoEntry)
	}

	return r
}

func (r *run) apply(rl *rule, pos int) (int, bool) {
	key := memoKey{rule: rl.index, pos: pos}
	useMemo := r.memo != nil && rl.memo && r.quiet == 0

	if useMemo {
		if entry, hit := r.memo[key]; hit {
			if entry.ok {
				r.out = append(r.out, entry.nodes...)
			}

			return entry.end, entry.ok
		}
	}

	r.attempts++

	if r.diagnostics {
		r.stack = append(r.stack, Frame{Rule: rl.name, Offset: pos})
	}

	if rl.quiet {
		r.quiet++
	}

	mark := len(r.out)
	end, ok := rl.expr.match(r, pos)

	if rl.quiet {
		r.quiet--
	}

	if r.diagnostics {
		r.stack = r.stack[:len(r.stack)-1]
	}

	if !ok {
		r.out = r.out[:mark]
	} else if !rl.transparent() {
		r.wrap(rl, pos, mark)
	}

	if useMemo {
		entry := memoEntry{end: end, ok: ok}
		if ok {
			entry.nodes = append([]*pnode(nil), r.out[mark:]...)
		}

		r.memo[key] = entry
	}

	return end, ok
}

// wrap replaces the nodes produced since mark with the rule's own node,
// keeping trailing trivia after it. Transparent and collapsed rules leave
// their children in place.
func (r *run) wrap(rl *rule, pos, mark int) {
	core, trailing := splitTrailingTrivia(r.out[mark:])
	if rl.skipIfOneChild && len(core) == 1 {
		return
	}

	node := newRuleNode(rl.kind, pos, append([]*pnode(nil), core...))
	if len(core) == 0 {
		r.out = append(r.out, node)

		return
	}

	// trailing sits after core in r.out, so copy moves it down past the node.
	r.out[mark] = node
	n := copy(r.out[mark+1:], trailing)
	r.out = r.out[:mark+1+n]
}

// splitTrailingTrivia separates trivia after the last significant child.
func splitTrailingTrivia(children []*pnode) (core, trailing []*pnode) {
	cut := len(children)
	for cut > 0 && children[cut-1].trivia {
		cut--
	}

	if cut == 0 {
		return children, nil
	}

	return children[:cut:cut], children[cut:]
}

// newRuleNode spans from the first to the last child so trailing spacing
// consumed by the rule stays outside the node.
func newRuleNode(kind ast.Kind, pos int, children []*pnode) *pnode {
	n := &pnode{kind: kind, start: pos, end: pos, children: children}
	if len(children) > 0 {
		n.start = children[0].start
		n.end = children[len(children)-1].end
	}

	return n
}

// expect records a terminal that could not be matched at pos.
func (r *run) expect(pos int, desc string) {
	if r.quiet > 0 {
		return
	}

	if pos > r.farthest {
		r.farthest = pos
		r.expected = r.expected[:0]

		if r.diagnostics {
			r.failStack = append(r.failStack[:0], r.stack...)
		}
	}

	if pos == r.farthest {
		for _, seen := range r.expected {
			if seen == desc {
				return
			}
		}

		r.expected = append(r.expected, desc)
	}
}

func (r *run) failure(path string) *RecognitionError {
	offset := max(r.farthest, 0)
	positions := ast.NewTree(path, r.src)
	line, col := positions.Position(offset)

	expected := append([]string(nil), r.expected...)
	sort.Strings(expected)

	rerr := &RecognitionError{
		Path:      path,
		Offset:    offset,
		Line:      line,
		Column:    col,
		Expected:  expected,
		Found:     describeFound(r.src, offset),
		Retryable: !r.diagnostics,
	}

	if r.diagnostics {
		rerr.Attempts = r.attempts
		rerr.Trace = make([]Frame, 0, len(r.failStack))

		for _, frame := range r.failStack {
			frame.Line, frame.Column = positions.Position(frame.Offset)
			rerr.Trace = append(rerr.Trace, frame)
		}
	}

	return rerr
}
