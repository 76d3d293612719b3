package analyze

import (
	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
)

// Stack capacity constants for iterative traversal.
const (
	walkerStackInitCap   = 64
	walkerStackGrowth    = 32
	walkerVisitorInitCap = 4
)

// Walker dispatches the nodes of a syntax tree to the visitors subscribed to
// their kind. Enter hooks run in registration order and leave hooks in
// reverse registration order, so visitors nest like brackets.
type Walker struct {
	visitors    []Visitor
	subscribers map[ast.Kind][]Visitor
}

// NewWalker creates a walker over the given visitors. Subscriptions are read once here.
func NewWalker(visitors ...Visitor) *Walker {
	w := &Walker{
		visitors:    make([]Visitor, 0, max(len(visitors), walkerVisitorInitCap)),
		subscribers: make(map[ast.Kind][]Visitor),
	}

	for _, v := range visitors {
		w.add(v)
	}

	return w
}

func (w *Walker) add(v Visitor) {
	w.visitors = append(w.visitors, v)

	seen := make(map[ast.Kind]bool)

	for _, k := range v.Subscriptions() {
		if seen[k] {
			continue
		}

		seen[k] = true
		w.subscribers[k] = append(w.subscribers[k], v)
	}
}

// Visitors returns the visitors in registration order.
func (w *Walker) Visitors() []Visitor {
	return w.visitors
}

// walkFrame represents a stack frame for iterative tree traversal.
// childIdx tracks which child to process next; a value equal to
// len(node.Children) means all children have been visited and the leave
// hooks should run.
type walkFrame struct {
	node     *ast.Node
	childIdx int // Next child to push; -1 = enter hooks not yet called.
}

// Walk visits the file entity and every node of tree in document order.
func (w *Walker) Walk(ctx *Context, tree *ast.Tree, file *index.SourceCode) {
	for _, v := range w.visitors {
		v.VisitFile(ctx, file)
	}

	if root := tree.Root(); root != nil {
		w.walkNodes(ctx, tree, root)
	}

	for i := len(w.visitors) - 1; i >= 0; i-- {
		w.visitors[i].LeaveFile(ctx, file)
	}
}

// EnterFailed runs the VisitFile hooks with a nil file for an input that
// could not be parsed. LeaveFailed closes it.
func (w *Walker) EnterFailed(ctx *Context) {
	for _, v := range w.visitors {
		v.VisitFile(ctx, nil)
	}
}

// LeaveFailed runs the LeaveFile hooks with a nil file, in reverse order.
func (w *Walker) LeaveFailed(ctx *Context) {
	for i := len(w.visitors) - 1; i >= 0; i-- {
		w.visitors[i].LeaveFile(ctx, nil)
	}
}

func (w *Walker) walkNodes(ctx *Context, tree *ast.Tree, root *ast.Node) {
	stack := make([]walkFrame, 0, walkerStackInitCap)
	stack = append(stack, walkFrame{node: root, childIdx: -1})

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		// First visit: fire enter hooks, then the node joins the ancestry.
		if top.childIdx == -1 {
			for _, v := range w.subscribers[top.node.Kind] {
				v.VisitNode(ctx, top.node)
			}

			ctx.ancestors = append(ctx.ancestors, top.node)
			top.childIdx = 0
		}

		// Push next unvisited child.
		if top.childIdx < len(top.node.Children) {
			child := tree.Node(top.node.Children[top.childIdx])
			top.childIdx++

			if len(stack) == cap(stack) {
				grown := make([]walkFrame, len(stack), cap(stack)+walkerStackGrowth)
				copy(grown, stack)
				stack = grown
			}

			stack = append(stack, walkFrame{node: child, childIdx: -1})

			continue
		}

		// All children visited: leave the ancestry, fire leave hooks and pop.
		ctx.ancestors = ctx.ancestors[:len(ctx.ancestors)-1]

		subs := w.subscribers[top.node.Kind]
		for i := len(subs) - 1; i >= 0; i-- {
			subs[i].LeaveNode(ctx, top.node)
		}

		stack = stack[:len(stack)-1]
	}
}
