// Package lines measures the physical lines of each parsed file.
package lines

import (
	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/internal/analyzers/common"
	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
	"github.com/Sumatoshi-tech/erlfang/pkg/metrics"
)

// Counts holds the line measures of one file. A line holding both code and
// a comment counts in both.
type Counts struct {
	Lines        int
	LinesOfCode  int
	CommentLines int
	BlankLines   int
}

// Count measures tree.
func Count(tree *ast.Tree) Counts {
	total := tree.LineCount()
	code := make([]bool, total+1)
	comment := make([]bool, total+1)

	if root := tree.Root(); root != nil {
		tree.Walk(root, func(n *ast.Node) {
			if !n.Kind.IsLeaf() {
				return
			}

			marks := code
			if n.Kind == ast.Comment {
				marks = comment
			}

			for line := n.Pos.StartLine; line <= n.Pos.EndLine && line <= total; line++ {
				marks[line] = true
			}
		})
	}

	counts := Counts{Lines: total}

	for i, text := range tree.Lines() {
		line := i + 1

		if code[line] {
			counts.LinesOfCode++
		}

		if comment[line] {
			counts.CommentLines++
		}

		if common.IsBlank(text) && !code[line] && !comment[line] {
			counts.BlankLines++
		}
	}

	return counts
}

// Visitor records the line metrics on each file entity.
type Visitor struct {
	analyze.BaseVisitor
}

// NewVisitor creates a new Visitor.
func NewVisitor() *Visitor {
	return &Visitor{}
}

// VisitFile implements analyze.Visitor.
func (v *Visitor) VisitFile(ctx *analyze.Context, file *index.SourceCode) {
	if file == nil {
		return
	}

	counts := Count(ctx.Tree())

	file.SetMetric(metrics.Lines, float64(counts.Lines))
	file.SetMetric(metrics.LinesOfCode, float64(counts.LinesOfCode))
	file.SetMetric(metrics.CommentLines, float64(counts.CommentLines))
	file.SetMetric(metrics.BlankLines, float64(counts.BlankLines))
}
