package analyze_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
	"github.com/Sumatoshi-tech/erlfang/pkg/erlang"
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
	"github.com/Sumatoshi-tech/erlfang/pkg/peg"
)

const (
	validSource  = "-module(a).\n-export([f/0]).\n\nf() -> ok.\n"
	brokenSource = "-module(b).\nf() -> \"oops.\n"
	otherSource  = "-module(c).\ng(X) -> X + 1.\n"
)

// eventLog is shared by the recorders of one test.
type eventLog struct {
	events []string
}

func (l *eventLog) add(format string, args ...any) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

func (l *eventLog) filter(prefix string) []string {
	var out []string

	for _, e := range l.events {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}

	return out
}

// recorder logs every hook it receives.
type recorder struct {
	analyze.BaseVisitor

	name  string
	kinds []ast.Kind
	log   *eventLog
}

func (r *recorder) Subscriptions() []ast.Kind { return r.kinds }

func (r *recorder) Init(*analyze.Context) { r.log.add("%s:init", r.name) }

func (r *recorder) VisitFile(_ *analyze.Context, file *index.SourceCode) {
	r.log.add("%s:visitFile(%s)", r.name, fileKey(file))
}

func (r *recorder) VisitNode(_ *analyze.Context, n *ast.Node) {
	r.log.add("%s:visitNode(%s)", r.name, n.Kind)
}

func (r *recorder) LeaveNode(_ *analyze.Context, n *ast.Node) {
	r.log.add("%s:leaveNode(%s)", r.name, n.Kind)
}

func (r *recorder) LeaveFile(_ *analyze.Context, file *index.SourceCode) {
	r.log.add("%s:leaveFile(%s)", r.name, fileKey(file))
}

func (r *recorder) Destroy(*analyze.Context) { r.log.add("%s:destroy", r.name) }

func fileKey(file *index.SourceCode) string {
	if file == nil {
		return "nil"
	}

	return file.Key()
}

// auditRecorder collects recognition failures.
type auditRecorder struct {
	failures []*peg.RecognitionError
}

func (a *auditRecorder) ProcessRecognitionFailure(_ context.Context, failure *peg.RecognitionError) {
	a.failures = append(a.failures, failure)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newParsers() (parser, diagnostic *peg.Parser) {
	return erlang.MustParsers()
}

func newScanner(t *testing.T, opts ...analyze.Option) *analyze.Scanner {
	t.Helper()

	parser, diagnostic := newParsers()

	return analyze.NewScanner(parser, diagnostic, append([]analyze.Option{analyze.WithLogger(discardLogger())}, opts...)...)
}

func TestWalker_Walk_EnterInOrderLeaveInReverse(t *testing.T) {
	t.Parallel()

	log := &eventLog{}
	kinds := []ast.Kind{ast.Function}

	s := newScanner(t)
	require.NoError(t, s.RegisterVisitor(&recorder{name: "a", kinds: kinds, log: log}))
	require.NoError(t, s.RegisterVisitor(&recorder{name: "b", kinds: kinds, log: log}))

	_, err := s.Scan(context.Background(), []analyze.InputFile{{Path: "a.erl", Content: []byte(validSource)}})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"a:init", "b:init",
		"a:visitFile(a.erl)", "b:visitFile(a.erl)",
		"a:visitNode(Function)", "b:visitNode(Function)",
		"b:leaveNode(Function)", "a:leaveNode(Function)",
		"b:leaveFile(a.erl)", "a:leaveFile(a.erl)",
		"a:destroy", "b:destroy",
	}, log.events)
}

func TestWalker_Walk_OnlySubscribedKinds(t *testing.T) {
	t.Parallel()

	log := &eventLog{}

	s := newScanner(t)
	require.NoError(t, s.RegisterVisitor(&recorder{name: "m", kinds: []ast.Kind{ast.ModuleAttr, ast.ModuleAttr}, log: log}))
	require.NoError(t, s.RegisterVisitor(&recorder{name: "x", log: log}))

	_, err := s.Scan(context.Background(), []analyze.InputFile{{Path: "a.erl", Content: []byte(validSource)}})
	require.NoError(t, err)

	assert.Equal(t, []string{"m:visitNode(ModuleAttr)"}, log.filter("m:visitNode"))
	assert.Empty(t, log.filter("x:visitNode"))
}

func TestWalker_Walk_FileHooksBracketNodeHooks(t *testing.T) {
	t.Parallel()

	log := &eventLog{}

	s := newScanner(t)
	require.NoError(t, s.RegisterVisitor(&recorder{name: "a", kinds: ast.Kinds(), log: log}))

	_, err := s.Scan(context.Background(), []analyze.InputFile{
		{Path: "a.erl", Content: []byte(validSource)},
		{Path: "c.erl", Content: []byte(otherSource)},
	})
	require.NoError(t, err)

	for _, path := range []string{"a.erl", "c.erl"} {
		visits := 0
		first, last := -1, -1

		for i, e := range log.events {
			switch e {
			case "a:visitFile(" + path + ")":
				visits++
				first = i
			case "a:leaveFile(" + path + ")":
				last = i
			}
		}

		require.Equal(t, 1, visits, path)
		require.Greater(t, last, first, path)

		// Every node hook between the file hooks belongs to this file.
		for _, e := range log.events[first+1 : last] {
			assert.True(t, strings.HasPrefix(e, "a:visitNode") || strings.HasPrefix(e, "a:leaveNode"), e)
		}
	}

	assert.Equal(t, "a:visitNode(Module)", log.events[2])
	assert.Len(t, log.filter("a:visitNode"), len(log.filter("a:leaveNode")))
}

// auditLogger logs recognition failures into a shared event log.
type auditLogger struct {
	log *eventLog
}

func (a *auditLogger) ProcessRecognitionFailure(_ context.Context, failure *peg.RecognitionError) {
	a.log.add("audit(%s)", failure.Path)
}

func TestWalker_FailedFile_FileHooksOnly(t *testing.T) {
	t.Parallel()

	log := &eventLog{}

	s := newScanner(t)
	require.NoError(t, s.RegisterVisitor(&recorder{name: "a", kinds: ast.Kinds(), log: log}))
	require.NoError(t, s.RegisterVisitor(&recorder{name: "b", kinds: ast.Kinds(), log: log}))
	require.NoError(t, s.AddAuditListener(&auditLogger{log: log}))

	_, err := s.Scan(context.Background(), []analyze.InputFile{{Path: "b.erl", Content: []byte(brokenSource)}})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"a:init", "b:init",
		"a:visitFile(nil)", "b:visitFile(nil)",
		"audit(b.erl)",
		"b:leaveFile(nil)", "a:leaveFile(nil)",
		"a:destroy", "b:destroy",
	}, log.events)
}

// ancestryChecker checks the syntax ancestry seen by visitors.
type ancestryChecker struct {
	analyze.BaseVisitor

	parents  []ast.Kind
	inFunc   []bool
	function []string
}

func (p *ancestryChecker) Subscriptions() []ast.Kind { return []ast.Kind{ast.Atom} }

func (p *ancestryChecker) VisitNode(ctx *analyze.Context, n *ast.Node) {
	if n.Token != "ok" && n.Token != "a" {
		return
	}

	p.parents = append(p.parents, ctx.Parent().Kind)
	p.inFunc = append(p.inFunc, ctx.HasAncestor(ast.Function))
	p.function = append(p.function, fmt.Sprint(ctx.Ancestors()[0].Kind))
}

func TestContext_Ancestors_TrackedByWalker(t *testing.T) {
	t.Parallel()

	checker := &ancestryChecker{}

	s := newScanner(t)
	require.NoError(t, s.RegisterVisitor(checker))

	_, err := s.Scan(context.Background(), []analyze.InputFile{{Path: "a.erl", Content: []byte(validSource)}})
	require.NoError(t, err)

	assert.Equal(t, []ast.Kind{ast.ModuleAttr, ast.Statement}, checker.parents)
	assert.Equal(t, []bool{false, true}, checker.inFunc)
	assert.Equal(t, []string{"Module", "Module"}, checker.function)
}
