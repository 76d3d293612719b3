// Package builder populates the source-code index with the Erlang modules
// and functions of every parsed file.
package builder

import (
	"fmt"

	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/internal/analyzers/common"
	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
	"github.com/Sumatoshi-tech/erlfang/pkg/metrics"
)

// Visitor creates a Class entity for the -module attribute and a Function
// entity per function definition, keyed name/arity. Register it before any
// visitor that reads the current class or function from the context.
type Visitor struct {
	analyze.BaseVisitor

	exports     map[string]bool
	pushedClass bool
}

// NewVisitor creates a new Visitor.
func NewVisitor() *Visitor {
	return &Visitor{}
}

// Subscriptions implements analyze.Visitor.
func (v *Visitor) Subscriptions() []ast.Kind {
	return []ast.Kind{ast.ModuleAttr, ast.Function}
}

// VisitFile implements analyze.Visitor.
func (v *Visitor) VisitFile(ctx *analyze.Context, file *index.SourceCode) {
	v.pushedClass = false
	v.exports = nil

	if file == nil {
		return
	}

	file.AddMetric(metrics.Files, 1)
	v.exports = common.Exports(ctx.Tree())
}

// VisitNode implements analyze.Visitor.
func (v *Visitor) VisitNode(ctx *analyze.Context, n *ast.Node) {
	tree := ctx.Tree()

	switch n.Kind {
	case ast.ModuleAttr:
		if v.pushedClass {
			ctx.Logger().DebugContext(ctx.Context(), "duplicate module attribute", "path", ctx.Path(), "line", n.Line())

			return
		}

		name := common.ModuleName(tree, n)
		if name == "" {
			return
		}

		class, err := ctx.AddSourceCode(index.Class, name)
		if err != nil {
			ctx.Fail(fmt.Errorf("module %s: %w", name, err))

			return
		}

		v.pushedClass = true

		class.AddMetric(metrics.Classes, 1)
	case ast.Function:
		key := common.FunctionKey(tree, n)

		fn, err := ctx.AddSourceCode(index.Function, key)
		if err != nil {
			ctx.Fail(fmt.Errorf("function %s: %w", key, err))

			return
		}

		fn.AddMetric(metrics.Functions, 1)
		fn.AddMetric(metrics.FunctionClauses, float64(len(tree.ChildrenOf(n, ast.FunctionClause))))

		if v.exports[key] {
			fn.AddMetric(metrics.PublicAPI, 1)
		}
	}
}

// LeaveNode implements analyze.Visitor.
func (v *Visitor) LeaveNode(ctx *analyze.Context, n *ast.Node) {
	if n.Kind == ast.Function && ctx.PeekSourceCode().Kind() == index.Function {
		ctx.PopSourceCode()
	}
}

// LeaveFile implements analyze.Visitor.
func (v *Visitor) LeaveFile(ctx *analyze.Context, _ *index.SourceCode) {
	if v.pushedClass {
		ctx.PopSourceCode()
		v.pushedClass = false
	}
}
