package analyze

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
	"github.com/Sumatoshi-tech/erlfang/pkg/metrics"
	"github.com/Sumatoshi-tech/erlfang/pkg/peg"
)

const tracerName = "erlfang"

// DefaultProjectKey is the key of the project entity when none is configured.
const DefaultProjectKey = "project"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// InputFile is one file handed to the scanner. When Content is nil the file
// is read from Path. Encoding names the IANA charset of Content; empty means UTF-8.
type InputFile struct {
	Path     string
	Content  []byte
	Encoding string
}

// FileState is the progress of one input file through a scan.
type FileState uint8

// File states.
const (
	Pending FileState = iota
	Parsing
	Walked
	Failed
)

func (s FileState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Parsing:
		return "parsing"
	case Walked:
		return "walked"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ScanResult summarizes a finished scan.
type ScanResult struct {
	States   map[string]FileState
	Failures []*peg.RecognitionError
	Duration time.Duration
}

// Count returns how many files ended in the given state.
func (r ScanResult) Count(state FileState) int {
	n := 0

	for _, s := range r.States {
		if s == state {
			n++
		}
	}

	return n
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the scan logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) { s.logger = logger }
}

// WithTracer sets the tracer used for scan spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Scanner) { s.tracer = tracer }
}

// WithParallelism parses up to n files concurrently. Walking stays sequential.
func WithParallelism(n int) Option {
	return func(s *Scanner) { s.parallelism = max(n, 1) }
}

// WithProjectKey sets the key of the project entity.
func WithProjectKey(key string) Option {
	return func(s *Scanner) { s.projectKey = key }
}

// WithRegistry sets the metric definitions used for decoration.
func WithRegistry(registry *metrics.Registry) Option {
	return func(s *Scanner) { s.decorator = metrics.NewDecorator(registry) }
}

// WithObserver adds a receiver of per-file outcomes.
func WithObserver(o ScanObserver) Option {
	return func(s *Scanner) { s.observers = append(s.observers, o) }
}

// Scanner parses a batch of files, walks them with the registered visitors
// and decorates the resulting index. A scanner runs a single batch.
type Scanner struct {
	parser      Parser
	debugParser Parser

	visitors  []Visitor
	listeners []AuditListener
	observers []ScanObserver
	decorator *metrics.Decorator

	logger      *slog.Logger
	tracer      trace.Tracer
	parallelism int
	projectKey  string

	started bool
	index   *index.Index
	result  ScanResult
}

// NewScanner creates a scanner. debugParser may be nil, in which case
// recognition failures are reported as the default parser produced them.
func NewScanner(parser, debugParser Parser, opts ...Option) *Scanner {
	s := &Scanner{
		parser:      parser,
		debugParser: debugParser,
		logger:      slog.Default(),
		parallelism: 1,
		projectKey:  DefaultProjectKey,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}

	if s.decorator == nil {
		s.decorator = metrics.NewDecorator(metrics.StandardRegistry())
	}

	return s
}

// RegisterVisitor adds a visitor. Visitors implementing AuditListener also
// receive recognition failures.
func (s *Scanner) RegisterVisitor(v Visitor) error {
	if s.started {
		return ErrScanStarted
	}

	s.visitors = append(s.visitors, v)

	if l, ok := v.(AuditListener); ok {
		s.listeners = append(s.listeners, l)
	}

	return nil
}

// AddAuditListener adds a receiver of recognition failures.
func (s *Scanner) AddAuditListener(l AuditListener) error {
	if s.started {
		return ErrScanStarted
	}

	s.listeners = append(s.listeners, l)

	return nil
}

// Index returns the index of the last scan, nil before Scan.
func (s *Scanner) Index() *index.Index { return s.index }

// Result returns the per-file outcome of the last scan.
func (s *Scanner) Result() ScanResult { return s.result }

// parseOutcome is the pure part of processing one file.
type parseOutcome struct {
	content  []byte
	tree     *ast.Tree
	err      error
	duration time.Duration
}

// Scan analyzes files in order and returns the decorated index. Files the
// grammar rejects are reported to audit listeners and skipped; any other
// failure aborts the batch with an *AnalysisError. Every path may appear
// once per batch, otherwise Scan returns ErrDuplicateInput.
func (s *Scanner) Scan(ctx context.Context, files []InputFile) (*index.Index, error) {
	if s.started {
		return nil, ErrScanStarted
	}

	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		if _, dup := seen[f.Path]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateInput, f.Path)
		}

		seen[f.Path] = struct{}{}
	}

	s.started = true
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "erlfang.scan",
		trace.WithAttributes(
			attribute.Int("erlfang.scan.files", len(files)),
			attribute.Int("erlfang.scan.visitors", len(s.visitors)),
			attribute.Int("erlfang.scan.parallelism", s.parallelism),
		))
	defer span.End()

	s.index = index.New(s.projectKey)
	s.result = ScanResult{States: make(map[string]FileState, len(files))}

	for _, f := range files {
		s.result.States[f.Path] = Pending
	}

	vctx := newContext(ctx, s.logger, s.index)
	walker := NewWalker(s.visitors...)

	err := s.guard("", func() {
		for _, v := range s.visitors {
			v.Init(vctx)
		}
	})
	if err != nil {
		return nil, s.abort(span, err)
	}

	var outcomes []parseOutcome
	if s.parallelism > 1 {
		outcomes = s.parseAll(ctx, files)
	}

	for i, f := range files {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, s.abort(span, fmt.Errorf("scan: %w", ctxErr))
		}

		s.result.States[f.Path] = Parsing

		var outcome parseOutcome
		if outcomes != nil {
			outcome = outcomes[i]
		} else {
			outcome = s.parseFile(f)
		}

		err = s.processFile(ctx, vctx, walker, f.Path, outcome)
		if err != nil {
			return nil, s.abort(span, err)
		}
	}

	vctx.ctx = ctx
	vctx.beginFile("", nil)

	err = s.guard("", func() {
		for _, v := range s.visitors {
			v.Destroy(vctx)
		}
	})
	if err != nil {
		return nil, s.abort(span, err)
	}

	s.recordIssues(ctx)
	s.decorator.Decorate(s.index.Project())

	s.result.Duration = time.Since(start)

	s.logger.InfoContext(ctx, "scan complete",
		"files", len(files),
		"walked", s.result.Count(Walked),
		"failed", s.result.Count(Failed),
		"entities", s.index.Len(),
		"duration", s.result.Duration)

	span.SetAttributes(
		attribute.Int("erlfang.scan.failed", s.result.Count(Failed)),
		attribute.Int("erlfang.scan.entities", s.index.Len()),
	)

	return s.index, nil
}

func (s *Scanner) abort(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}

// parseAll runs the parse phase for every file with bounded concurrency.
// Errors stay attached to their file so the walk phase reports them in order.
func (s *Scanner) parseAll(ctx context.Context, files []InputFile) []parseOutcome {
	outcomes := make([]parseOutcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for i, f := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			outcomes[i] = s.parseFile(f)

			return nil
		})
	}

	_ = g.Wait()

	return outcomes
}

func (s *Scanner) parseFile(f InputFile) parseOutcome {
	content, err := loadContent(f)
	if err != nil {
		return parseOutcome{err: err}
	}

	start := time.Now()
	tree, err := s.parser.Parse(f.Path, content)

	return parseOutcome{content: content, tree: tree, err: err, duration: time.Since(start)}
}

func (s *Scanner) processFile(ctx context.Context, vctx *Context, walker *Walker, path string, outcome parseOutcome) error {
	ctx, span := s.tracer.Start(ctx, "erlfang.scan.file",
		trace.WithAttributes(attribute.String("erlfang.file.path", path)))
	defer span.End()

	vctx.ctx = ctx

	var rerr *peg.RecognitionError

	switch {
	case outcome.err == nil:
		file, err := enterFile(vctx, path, outcome.tree)
		if err != nil {
			return wrapAnalysis(path, err)
		}

		err = s.guard(path, func() { walker.Walk(vctx, outcome.tree, file) })
		if err == nil {
			err = vctx.takeErr()
		}

		if err != nil {
			return wrapAnalysis(path, err)
		}

		s.result.States[path] = Walked
	case errors.As(outcome.err, &rerr):
		err := s.handleFailure(ctx, vctx, walker, path, outcome.content, rerr)
		if err != nil {
			return wrapAnalysis(path, err)
		}

		s.result.States[path] = Failed
	default:
		return wrapAnalysis(path, outcome.err)
	}

	state := s.result.States[path]
	span.SetAttributes(attribute.String("erlfang.file.state", state.String()))

	for _, o := range s.observers {
		o.ObserveFile(ctx, state.String(), outcome.duration)
	}

	return nil
}

func (s *Scanner) handleFailure(
	ctx context.Context, vctx *Context, walker *Walker, path string, content []byte, failure *peg.RecognitionError,
) error {
	s.logger.WarnContext(ctx, "unable to parse file", "path", path, "error", failure.Error())

	if failure.Retryable && s.debugParser != nil {
		_, err := s.debugParser.Parse(path, content)

		var detailed *peg.RecognitionError
		if errors.As(err, &detailed) {
			failure = detailed
		}

		s.logger.DebugContext(ctx, "parse trace", "path", path, "trace", failure.ExtendedMessage())
	}

	s.result.Failures = append(s.result.Failures, failure)

	vctx.beginFile(path, nil)

	// Listeners see the failure between the nil file hooks.
	err := s.guard(path, func() {
		walker.EnterFailed(vctx)

		for _, l := range s.listeners {
			l.ProcessRecognitionFailure(ctx, failure)
		}

		walker.LeaveFailed(vctx)
	})
	if err != nil {
		return err
	}

	return vctx.takeErr()
}

// guard turns a panic raised by fn into an error.
func (s *Scanner) guard(path string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrVisitorPanic, r)
			if path != "" {
				err = wrapAnalysis(path, err)
			}
		}
	}()

	fn()

	return nil
}

// recordIssues stores the issue count of every file as its raw issues metric.
func (s *Scanner) recordIssues(ctx context.Context) {
	perRule := make(map[string]int)

	for _, file := range s.index.Search(index.File) {
		issues := file.Issues()
		file.SetMetric(metrics.Issues, float64(len(issues)))

		for _, is := range issues {
			perRule[is.RuleKey]++
		}
	}

	for rule, count := range perRule {
		for _, o := range s.observers {
			o.ObserveIssues(ctx, rule, count)
		}
	}
}

// enterFile indexes the package and file of a parsed input and leaves the
// file entity on the cursor.
func enterFile(vctx *Context, path string, tree *ast.Tree) (*index.SourceCode, error) {
	vctx.beginFile(path, tree)

	key := filepath.ToSlash(path)

	_, err := vctx.AddSourceCode(index.Package, packageKey(key))
	if err != nil {
		return nil, err
	}

	file, err := vctx.AddSourceCode(index.File, key)
	if err != nil {
		return nil, err
	}

	file.SetLineCount(tree.LineCount())

	return file, nil
}

// packageKey returns the directory of a slash-separated path, "." for the root.
func packageKey(path string) string {
	i := strings.LastIndexByte(path, '/')
	switch {
	case i < 0:
		return "."
	case i == 0:
		return "/"
	}

	return path[:i]
}

func wrapAnalysis(path string, err error) error {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return err
	}

	return &AnalysisError{Path: path, Err: err}
}

// loadContent returns the UTF-8 content of f.
func loadContent(f InputFile) ([]byte, error) {
	content := f.Content

	if content == nil {
		data, err := os.ReadFile(filepath.Clean(f.Path))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Path, err)
		}

		content = data
	}

	return decode(content, f.Encoding)
}

func decode(content []byte, charset string) ([]byte, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return bytes.TrimPrefix(content, utf8BOM), nil
	}

	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, charset)
	}

	out, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", charset, err)
	}

	return out, nil
}
