package checks

import (
	"fmt"
	"regexp"

	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/internal/analyzers/common"
	"github.com/Sumatoshi-tech/erlfang/internal/analyzers/complexity"
	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
)

type functionComplexity struct {
	analyze.BaseVisitor

	max int
}

func newFunctionComplexity(params Params) (analyze.Visitor, error) {
	limit, err := params.Int(ParamMaxComplexity, DefaultMaxComplexity)
	if err != nil {
		return nil, err
	}

	return &functionComplexity{max: limit}, nil
}

func (c *functionComplexity) Subscriptions() []ast.Kind { return []ast.Kind{ast.Function} }

func (c *functionComplexity) VisitNode(ctx *analyze.Context, n *ast.Node) {
	value := complexity.Function(ctx.Tree(), n)
	if value > c.max {
		ctx.AddIssue(KeyFunctionComplexity, n.Line(),
			fmt.Sprintf("Function has a complexity of %d which is greater than %d authorized.", value, c.max))
	}
}

type functionArgs struct {
	analyze.BaseVisitor

	max int
}

func newFunctionArgs(params Params) (analyze.Visitor, error) {
	limit, err := params.Int(ParamMaxArgs, DefaultMaxArgs)
	if err != nil {
		return nil, err
	}

	return &functionArgs{max: limit}, nil
}

func (c *functionArgs) Subscriptions() []ast.Kind { return []ast.Kind{ast.Function} }

func (c *functionArgs) VisitNode(ctx *analyze.Context, n *ast.Node) {
	_, arity := common.FunctionSignature(ctx.Tree(), n)
	if arity > c.max {
		ctx.AddIssue(KeyNumberOfFunctionArgs, n.Line(),
			fmt.Sprintf("Function has %d arguments which is greater than %d authorized.", arity, c.max))
	}
}

type functionName struct {
	analyze.BaseVisitor

	pattern *regexp.Regexp
}

func newFunctionName(params Params) (analyze.Visitor, error) {
	re, err := params.Regexp(ParamRegularExpression, DefaultFunctionNamePattern)
	if err != nil {
		return nil, err
	}

	return &functionName{pattern: re}, nil
}

func (c *functionName) Subscriptions() []ast.Kind { return []ast.Kind{ast.Function} }

func (c *functionName) VisitNode(ctx *analyze.Context, n *ast.Node) {
	name, _ := common.FunctionSignature(ctx.Tree(), n)
	if name != "" && !c.pattern.MatchString(name) {
		ctx.AddIssue(KeyFunctionNamePattern, n.Line(),
			fmt.Sprintf("Rename function %q to match the regular expression %s.", name, c.pattern))
	}
}
