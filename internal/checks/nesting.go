package checks

import (
	"fmt"

	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/internal/analyzers/common"
	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
)

// depthOfCases reports each case expression nested deeper than the limit.
type depthOfCases struct {
	analyze.BaseVisitor

	max   int
	cases *common.ContextStack[*ast.Node]
}

func newDepthOfCases(params Params) (analyze.Visitor, error) {
	limit, err := params.Int(ParamMaxNestingLevel, DefaultMaxNestingLevel)
	if err != nil {
		return nil, err
	}

	return &depthOfCases{max: limit, cases: common.NewContextStack[*ast.Node]()}, nil
}

func (c *depthOfCases) Subscriptions() []ast.Kind { return []ast.Kind{ast.CaseExpr} }

func (c *depthOfCases) VisitFile(*analyze.Context, *index.SourceCode) {
	c.cases.Reset()
}

func (c *depthOfCases) VisitNode(ctx *analyze.Context, n *ast.Node) {
	c.cases.Push(n)

	if c.cases.Depth() > c.max {
		ctx.AddIssue(KeyDepthOfCases, n.Line(), fmt.Sprintf("Avoid nesting case expressions deeper than %d.", c.max))
	}
}

func (c *depthOfCases) LeaveNode(*analyze.Context, *ast.Node) {
	c.cases.Pop()
}
