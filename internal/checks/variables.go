package checks

import (
	"fmt"
	"regexp"

	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
)

// variableName reports the first occurrence of each badly named variable of a file.
type variableName struct {
	analyze.BaseVisitor

	pattern  *regexp.Regexp
	reported map[string]bool
}

func newVariableName(params Params) (analyze.Visitor, error) {
	re, err := params.Regexp(ParamRegularExpression, DefaultVariableNamePattern)
	if err != nil {
		return nil, err
	}

	return &variableName{pattern: re}, nil
}

func (c *variableName) Subscriptions() []ast.Kind { return []ast.Kind{ast.Variable} }

func (c *variableName) VisitFile(*analyze.Context, *index.SourceCode) {
	c.reported = make(map[string]bool)
}

func (c *variableName) VisitNode(ctx *analyze.Context, n *ast.Node) {
	if c.reported[n.Token] || c.pattern.MatchString(n.Token) {
		return
	}

	c.reported[n.Token] = true
	ctx.AddIssue(KeyVariableNamePattern, n.Line(),
		fmt.Sprintf("Rename variable %q to match the regular expression %s.", n.Token, c.pattern))
}
