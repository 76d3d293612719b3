package checks

import (
	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/internal/analyzers/common"
	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
)

// exportOnePerLine reports every export entry sharing a line with an
// earlier entry of the same attribute.
type exportOnePerLine struct {
	analyze.BaseVisitor
}

func (c *exportOnePerLine) Subscriptions() []ast.Kind { return []ast.Kind{ast.ExportAttr} }

func (c *exportOnePerLine) VisitNode(ctx *analyze.Context, n *ast.Node) {
	seen := make(map[int]bool)

	for _, entry := range common.ExportEntries(ctx.Tree(), n) {
		if seen[entry.Line] {
			ctx.AddIssue(KeyExportOneFunctionPerLine, entry.Line, "Only one function per line is allowed in an export.")

			continue
		}

		seen[entry.Line] = true
	}
}

// noExportAll reports -compile attributes enabling export_all.
type noExportAll struct {
	analyze.BaseVisitor
}

func (c *noExportAll) Subscriptions() []ast.Kind { return []ast.Kind{ast.Attribute} }

func (c *noExportAll) VisitNode(ctx *analyze.Context, n *ast.Node) {
	tree := ctx.Tree()

	if common.AttributeName(tree, n) != "compile" {
		return
	}

	for i, atom := range tree.Find(n, ast.Atom) {
		// The first atom is the attribute name.
		if i > 0 && common.AtomName(atom.Token) == "export_all" {
			ctx.AddIssue(KeyDoNotUseExportAll, atom.Line(), "Do not use export_all.")

			return
		}
	}
}
