package analyze

import (
	"context"
	"log/slog"

	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
)

// Context is the state shared with visitors during a scan: the index, the
// file being walked, the source-code cursor, and the syntax ancestry of the
// current node.
type Context struct {
	ctx    context.Context //nolint:containedctx // Hooks have no context parameter of their own.
	logger *slog.Logger
	index  *index.Index

	path  string
	tree  *ast.Tree
	lines []string

	cursor    []*index.SourceCode
	ancestors []*ast.Node

	err error
}

func newContext(ctx context.Context, logger *slog.Logger, idx *index.Index) *Context {
	return &Context{
		ctx:    ctx,
		logger: logger,
		index:  idx,
		cursor: []*index.SourceCode{idx.Project()},
	}
}

// beginFile resets the per-file state. tree is nil for a file that failed to parse.
func (c *Context) beginFile(path string, tree *ast.Tree) {
	c.path = path
	c.tree = tree
	c.lines = nil
	c.ancestors = c.ancestors[:0]
	c.cursor = c.cursor[:1]

	if tree != nil {
		c.lines = tree.Lines()
	}
}

// Context returns the context of the running scan.
func (c *Context) Context() context.Context { return c.ctx }

// Logger returns the scan logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// Index returns the index being built.
func (c *Context) Index() *index.Index { return c.index }

// Project returns the project entity.
func (c *Context) Project() *index.SourceCode { return c.index.Project() }

// Path returns the path of the current file, empty outside of a file.
func (c *Context) Path() string { return c.path }

// Tree returns the syntax tree of the current file, nil when it failed to parse.
func (c *Context) Tree() *ast.Tree { return c.tree }

// Lines returns the lines of the current file.
func (c *Context) Lines() []string { return c.lines }

// PeekSourceCode returns the innermost entity on the cursor.
func (c *Context) PeekSourceCode() *index.SourceCode {
	return c.cursor[len(c.cursor)-1]
}

// AddSourceCode gets or creates a child of the current entity and makes it current.
func (c *Context) AddSourceCode(kind index.Kind, key string) (*index.SourceCode, error) {
	child, err := c.index.GetOrCreate(kind, key, c.PeekSourceCode())
	if err != nil {
		return nil, err
	}

	c.cursor = append(c.cursor, child)

	return child, nil
}

// PopSourceCode makes the parent of the current entity current again. The
// project is never popped.
func (c *Context) PopSourceCode() *index.SourceCode {
	if len(c.cursor) == 1 {
		return c.cursor[0]
	}

	top := c.cursor[len(c.cursor)-1]
	c.cursor = c.cursor[:len(c.cursor)-1]

	return top
}

// PeekSourceFile returns the current file entity, or nil.
func (c *Context) PeekSourceFile() *index.SourceCode {
	return c.PeekSourceCode().Ancestor(index.File)
}

// PeekParentPackage returns the package enclosing the current entity, or nil.
func (c *Context) PeekParentPackage() *index.SourceCode {
	return c.PeekSourceCode().Ancestor(index.Package)
}

// PeekSourceClass returns the current class (Erlang module) entity, or nil.
func (c *Context) PeekSourceClass() *index.SourceCode {
	return c.PeekSourceCode().Ancestor(index.Class)
}

// PeekSourceFunction returns the current function entity, or nil.
func (c *Context) PeekSourceFunction() *index.SourceCode {
	return c.PeekSourceCode().Ancestor(index.Function)
}

// Ancestors returns the syntax ancestry of the current node, outermost first.
// The slice is only valid until the walker moves on.
func (c *Context) Ancestors() []*ast.Node { return c.ancestors }

// Parent returns the syntax parent of the current node, nil at the root.
func (c *Context) Parent() *ast.Node {
	if len(c.ancestors) == 0 {
		return nil
	}

	return c.ancestors[len(c.ancestors)-1]
}

// HasAncestor reports whether a node of one of the given kinds encloses the current node.
func (c *Context) HasAncestor(kinds ...ast.Kind) bool {
	for _, n := range c.ancestors {
		if n.Is(kinds...) {
			return true
		}
	}

	return false
}

// AddIssue records an issue on the current file. Outside of a file, or for a
// line the file does not have, the issue is dropped and logged.
func (c *Context) AddIssue(ruleKey string, line int, message string) {
	file := c.PeekSourceFile()
	if file == nil {
		c.logger.DebugContext(c.ctx, "issue outside of a file dropped", "rule", ruleKey, "line", line)

		return
	}

	err := file.AddIssue(index.Issue{RuleKey: ruleKey, Line: line, Message: message})
	if err != nil {
		c.logger.WarnContext(c.ctx, "issue dropped", "path", c.path, "rule", ruleKey, "error", err)
	}
}

// Fail aborts the scan after the current file with err. Only the first error is kept.
func (c *Context) Fail(err error) {
	if c.err == nil && err != nil {
		c.err = err
	}
}

func (c *Context) takeErr() error {
	err := c.err
	c.err = nil

	return err
}
