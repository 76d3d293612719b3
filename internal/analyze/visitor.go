// Package analyze drives Erlang analysis: it parses input files, walks each
// syntax tree with the registered visitors, records entities and issues in
// the source-code index, and finally aggregates metrics.
package analyze

import (
	"context"
	"time"

	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
	"github.com/Sumatoshi-tech/erlfang/pkg/peg"
)

// Visitor is a stateful participant of a scan. The scanner calls Init once
// before the first file and Destroy once after the last. For every file,
// VisitFile and LeaveFile bracket the node hooks; both receive nil when the
// file could not be parsed, and no node hooks run for it.
//
// VisitNode and LeaveNode are only called for the kinds returned by
// Subscriptions, which is consulted once when the walker is built.
type Visitor interface {
	Subscriptions() []ast.Kind
	Init(ctx *Context)
	VisitFile(ctx *Context, file *index.SourceCode)
	VisitNode(ctx *Context, n *ast.Node)
	LeaveNode(ctx *Context, n *ast.Node)
	LeaveFile(ctx *Context, file *index.SourceCode)
	Destroy(ctx *Context)
}

// BaseVisitor implements every hook as a no-op. Embed it and override what you need.
type BaseVisitor struct{}

// Subscriptions implements Visitor.
func (BaseVisitor) Subscriptions() []ast.Kind { return nil }

// Init implements Visitor.
func (BaseVisitor) Init(*Context) {}

// VisitFile implements Visitor.
func (BaseVisitor) VisitFile(*Context, *index.SourceCode) {}

// VisitNode implements Visitor.
func (BaseVisitor) VisitNode(*Context, *ast.Node) {}

// LeaveNode implements Visitor.
func (BaseVisitor) LeaveNode(*Context, *ast.Node) {}

// LeaveFile implements Visitor.
func (BaseVisitor) LeaveFile(*Context, *index.SourceCode) {}

// Destroy implements Visitor.
func (BaseVisitor) Destroy(*Context) {}

// AuditListener is notified once for every file the grammar rejected.
// Visitors that implement it are registered as listeners automatically.
type AuditListener interface {
	ProcessRecognitionFailure(ctx context.Context, failure *peg.RecognitionError)
}

// ScanObserver receives per-file outcomes and per-rule issue totals.
type ScanObserver interface {
	ObserveFile(ctx context.Context, state string, parseDuration time.Duration)
	ObserveIssues(ctx context.Context, ruleKey string, count int)
}

// Parser turns file contents into a syntax tree. A rejected input yields a
// *peg.RecognitionError.
type Parser interface {
	Parse(path string, src []byte) (*ast.Tree, error)
}
