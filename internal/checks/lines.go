package checks

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/internal/analyzers/common"
	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
)

// multipleBlankLines reports runs of blank lines longer than the threshold
// for where the run lies, on the last line of the run.
type multipleBlankLines struct {
	analyze.BaseVisitor

	maxInside  int
	maxOutside int
}

func newMultipleBlankLines(params Params) (analyze.Visitor, error) {
	inside, err := params.Int(ParamMaxBlankLinesInside, DefaultMaxBlankLinesInside)
	if err != nil {
		return nil, err
	}

	outside, err := params.Int(ParamMaxBlankLinesOutside, DefaultMaxBlankLinesOutside)
	if err != nil {
		return nil, err
	}

	return &multipleBlankLines{maxInside: inside, maxOutside: outside}, nil
}

func (c *multipleBlankLines) VisitFile(ctx *analyze.Context, file *index.SourceCode) {
	if file == nil {
		return
	}

	tree := ctx.Tree()
	inside := functionLines(tree)
	lines := ctx.Lines()

	// Lines inside multi-line tokens are never blank.
	covered := tokenLines(tree)

	runStart := 0

	for i := 0; i <= len(lines); i++ {
		line := i + 1

		if i < len(lines) && common.IsBlank(lines[i]) && !covered[line] {
			if runStart == 0 {
				runStart = line
			}

			continue
		}

		if runStart == 0 {
			continue
		}

		runEnd := line - 1
		limit := c.maxOutside

		if inside[runStart] && inside[runEnd] {
			limit = c.maxInside
		}

		if runEnd-runStart+1 > limit {
			ctx.AddIssue(KeyMultipleBlankLines, runEnd, fmt.Sprintf("Too many blank lines found, the threshold is %d.", limit))
		}

		runStart = 0
	}
}

// functionLines marks the lines spanned by function definitions.
func functionLines(tree *ast.Tree) map[int]bool {
	marks := make(map[int]bool)

	root := tree.Root()
	if root == nil {
		return marks
	}

	for _, fn := range tree.ChildrenOf(root, ast.Function) {
		for line := fn.Pos.StartLine; line <= fn.Pos.EndLine; line++ {
			marks[line] = true
		}
	}

	return marks
}

// tokenLines marks the lines strictly inside leaves that span several lines.
func tokenLines(tree *ast.Tree) map[int]bool {
	marks := make(map[int]bool)

	root := tree.Root()
	if root == nil {
		return marks
	}

	tree.Walk(root, func(n *ast.Node) {
		if !n.Kind.IsLeaf() {
			return
		}

		for line := n.Pos.StartLine + 1; line < n.Pos.EndLine; line++ {
			marks[line] = true
		}
	})

	return marks
}

type lineLength struct {
	analyze.BaseVisitor

	max int
}

func newLineLength(params Params) (analyze.Visitor, error) {
	limit, err := params.Int(ParamMaxLineLength, DefaultMaxLineLength)
	if err != nil {
		return nil, err
	}

	return &lineLength{max: limit}, nil
}

func (c *lineLength) VisitFile(ctx *analyze.Context, file *index.SourceCode) {
	if file == nil {
		return
	}

	for i, line := range ctx.Lines() {
		if utf8.RuneCountInString(line) > c.max {
			ctx.AddIssue(KeyLineLength, i+1, fmt.Sprintf("The line length is greater than %d authorized.", c.max))
		}
	}
}

// noTabs reports the first line holding a tab, once per file.
type noTabs struct {
	analyze.BaseVisitor
}

func (c *noTabs) VisitFile(ctx *analyze.Context, file *index.SourceCode) {
	if file == nil {
		return
	}

	for i, line := range ctx.Lines() {
		if strings.ContainsRune(line, '\t') {
			ctx.AddIssue(KeyNoTabs, i+1, "Replace all tab characters in this file by sequences of white-spaces.")

			return
		}
	}
}

type noTrailingWhitespace struct {
	analyze.BaseVisitor
}

func (c *noTrailingWhitespace) VisitFile(ctx *analyze.Context, file *index.SourceCode) {
	if file == nil {
		return
	}

	for i, line := range ctx.Lines() {
		if line == "" {
			continue
		}

		if last := line[len(line)-1]; last == ' ' || last == '\t' {
			ctx.AddIssue(KeyNoTrailingWhitespace, i+1, fmt.Sprintf("Remove the trailing whitespace at line %d.", i+1))
		}
	}
}
