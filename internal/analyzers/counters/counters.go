// Package counters counts statements, fun expressions and macro definitions.
package counters

import (
	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
	"github.com/Sumatoshi-tech/erlfang/pkg/metrics"
)

//nolint:gochecknoglobals // Static kind table.
var attributeKinds = []ast.Kind{
	ast.ModuleAttr, ast.ExportAttr, ast.ImportAttr, ast.RecordAttr,
	ast.TypeAttr, ast.SpecAttr, ast.DefineAttr, ast.Attribute,
}

// Visitor adds its counts to the innermost entity on the cursor: the
// function for body expressions, the module or file for attributes.
type Visitor struct {
	analyze.BaseVisitor
}

// NewVisitor creates a new Visitor.
func NewVisitor() *Visitor {
	return &Visitor{}
}

// Subscriptions implements analyze.Visitor.
func (v *Visitor) Subscriptions() []ast.Kind {
	return append([]ast.Kind{ast.Statement, ast.FunExpr}, attributeKinds...)
}

// VisitNode implements analyze.Visitor.
func (v *Visitor) VisitNode(ctx *analyze.Context, n *ast.Node) {
	target := ctx.PeekSourceCode()

	switch {
	case n.Kind == ast.FunExpr:
		target.AddMetric(metrics.FunExpressions, 1)
	case n.Kind == ast.Statement:
		target.AddMetric(metrics.Statements, 1)
	default:
		target.AddMetric(metrics.Statements, 1)

		if n.Kind == ast.DefineAttr {
			target.AddMetric(metrics.Macros, 1)
		}
	}
}
