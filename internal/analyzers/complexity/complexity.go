// Package complexity computes the cyclomatic complexity of Erlang functions.
package complexity

import (
	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
)

// Function returns the complexity of a Function node: one per clause, one
// per branch of a case, if, receive or try beyond the first, one per fun
// clause, and one per andalso or orelse operator.
func Function(tree *ast.Tree, fn *ast.Node) int {
	total := 0

	tree.Walk(fn, func(n *ast.Node) {
		total += increment(tree, n)
	})

	return total
}

func increment(tree *ast.Tree, n *ast.Node) int {
	switch n.Kind {
	case ast.Function:
		return len(tree.ChildrenOf(n, ast.FunctionClause))
	case ast.CaseExpr, ast.ReceiveExpr:
		return extraBranches(tree, n, ast.CrClause)
	case ast.TryExpr:
		return extraBranches(tree, n, ast.CrClause) + extraBranches(tree, n, ast.TryCatchClause)
	case ast.IfExpr:
		return extraBranches(tree, n, ast.IfClause)
	case ast.FunClause:
		return 1
	case ast.Keyword:
		if n.Token == "andalso" || n.Token == "orelse" {
			return 1
		}
	}

	return 0
}

func extraBranches(tree *ast.Tree, n *ast.Node, clause ast.Kind) int {
	return max(len(tree.ChildrenOf(n, clause))-1, 0)
}
