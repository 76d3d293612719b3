package builder_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/internal/analyzers/builder"
	"github.com/Sumatoshi-tech/erlfang/pkg/erlang"
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
	"github.com/Sumatoshi-tech/erlfang/pkg/metrics"
)

func scan(t *testing.T, files ...analyze.InputFile) *index.Index {
	t.Helper()

	parser, diagnostic := erlang.MustParsers()
	s := analyze.NewScanner(parser, diagnostic, analyze.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, s.RegisterVisitor(builder.NewVisitor()))

	idx, err := s.Scan(context.Background(), files)
	require.NoError(t, err)

	return idx
}

func TestVisitor_BuildsModuleAndFunctions(t *testing.T) {
	t.Parallel()

	src := "-module(m).\n-export([f/0, 'g h'/2]).\nf() -> ok.\n'g h'(A, B) -> A;\n'g h'(_, B) -> B.\nlocal() -> ok.\n"

	idx := scan(t, analyze.InputFile{Path: "src/m.erl", Content: []byte(src)})

	class := idx.Get(index.Class, "project:src:src/m.erl:m")
	require.NotNil(t, class)

	var keys []string
	for _, fn := range class.Children() {
		keys = append(keys, fn.Key())
	}

	assert.Equal(t, []string{"f/0", "g h/2", "local/0"}, keys)

	gh := class.Child("g h/2")
	assert.InDelta(t, 2.0, gh.Metric(metrics.FunctionClauses), 0)
	assert.InDelta(t, 1.0, gh.Metric(metrics.PublicAPI), 0)
	assert.Zero(t, class.Child("local/0").Metric(metrics.PublicAPI))

	assert.InDelta(t, 2.0, idx.Project().Metric(metrics.PublicAPI), 0)
	assert.InDelta(t, 3.0, idx.Project().Metric(metrics.Functions), 0)
	assert.InDelta(t, 1.0, idx.Project().Metric(metrics.Files), 0)
}

func TestVisitor_NoModuleAttribute_FunctionsUnderFile(t *testing.T) {
	t.Parallel()

	idx := scan(t, analyze.InputFile{Path: "script.escript", Content: []byte("#!/usr/bin/env escript\nmain(_) -> ok.\n")})

	fn := idx.Get(index.Function, "project:.:script.escript:main/1")
	require.NotNil(t, fn)
	assert.Equal(t, index.File, fn.Parent().Kind())
	assert.Empty(t, idx.Search(index.Class))
}

func TestVisitor_ModulePoppedBetweenFiles(t *testing.T) {
	t.Parallel()

	idx := scan(t,
		analyze.InputFile{Path: "a.erl", Content: []byte("-module(a).\nf() -> ok.\n")},
		analyze.InputFile{Path: "b.erl", Content: []byte("g() -> ok.\n")},
	)

	g := idx.Get(index.Function, "project:.:b.erl:g/0")
	require.NotNil(t, g)
	assert.Equal(t, "b.erl", g.Parent().Key())
	assert.Len(t, idx.Search(index.Class), 1)
}
