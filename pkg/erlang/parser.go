package erlang

import (
	"fmt"
	"sync"

	"github.com/Sumatoshi-tech/erlfang/pkg/peg"
)

//nolint:gochecknoglobals // The grammar is immutable once built and shared by all parsers.
var (
	grammarOnce  sync.Once
	grammarValue *peg.Grammar
	grammarErr   error
)

// Grammar returns the shared, built Erlang grammar.
func Grammar() (*peg.Grammar, error) {
	grammarOnce.Do(func() {
		grammarValue, grammarErr = NewGrammar()
	})

	return grammarValue, grammarErr
}

// NewParser returns the default parser: memoized and reporting only the
// farthest failure position.
func NewParser() (*peg.Parser, error) {
	return newParser()
}

// NewDiagnosticParser returns a parser that records the rule stack at the
// deepest failure. Use it to re-parse a file the default parser rejected.
func NewDiagnosticParser() (*peg.Parser, error) {
	return newParser(peg.WithDiagnostics())
}

func newParser(opts ...peg.Option) (*peg.Parser, error) {
	g, err := Grammar()
	if err != nil {
		return nil, fmt.Errorf("erlang grammar: %w", err)
	}

	return peg.NewParser(g, opts...)
}

// MustParsers returns both parser configurations and panics if the grammar
// does not build. Intended for tests and program start-up.
func MustParsers() (parser, diagnostic *peg.Parser) {
	var err error

	parser, err = NewParser()
	if err != nil {
		panic(err)
	}

	diagnostic, err = NewDiagnosticParser()
	if err != nil {
		panic(err)
	}

	return parser, diagnostic
}
