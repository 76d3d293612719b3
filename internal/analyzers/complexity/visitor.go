package complexity

import (
	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
	"github.com/Sumatoshi-tech/erlfang/pkg/metrics"
)

// Visitor records complexity and max_function_complexity on each function
// entity. It relies on the builder having opened the function.
type Visitor struct {
	analyze.BaseVisitor
}

// NewVisitor creates a new Visitor.
func NewVisitor() *Visitor {
	return &Visitor{}
}

// Subscriptions implements analyze.Visitor.
func (v *Visitor) Subscriptions() []ast.Kind {
	return []ast.Kind{ast.Function}
}

// VisitNode implements analyze.Visitor.
func (v *Visitor) VisitNode(ctx *analyze.Context, n *ast.Node) {
	fn := ctx.PeekSourceCode()
	if fn.Kind() != index.Function {
		return
	}

	value := float64(Function(ctx.Tree(), n))

	fn.AddMetric(metrics.Complexity, value)

	if value > fn.RawMetric(metrics.MaxFunctionComplexity) {
		fn.SetMetric(metrics.MaxFunctionComplexity, value)
	}
}
