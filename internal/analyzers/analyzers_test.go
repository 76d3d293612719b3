package analyzers_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/internal/analyzers"
	"github.com/Sumatoshi-tech/erlfang/pkg/erlang"
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
	"github.com/Sumatoshi-tech/erlfang/pkg/metrics"
)

const moduleSource = `%% Shapes.
-module(shapes).
-export([area/1]).

-define(PI, 3.14).

area({circle, R}) -> ?PI * R * R;
area({square, S}) -> S * S.

helper(X) when X > 0 andalso X < 10 ->
    case X of
        1 -> one;
        _ -> fun(Y) -> Y end
    end.
`

func TestMetrics_Scan_DecoratesProject(t *testing.T) {
	t.Parallel()

	parser, diagnostic := erlang.MustParsers()
	s := analyze.NewScanner(parser, diagnostic, analyze.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	for _, v := range analyzers.Metrics() {
		require.NoError(t, s.RegisterVisitor(v))
	}

	idx, err := s.Scan(context.Background(), []analyze.InputFile{
		{Path: "src/shapes.erl", Content: []byte(moduleSource)},
		{Path: "src/broken.erl", Content: []byte("-module(broken).\nf( -> ok.\n")},
	})
	require.NoError(t, err)

	project := idx.Project()
	assert.InDelta(t, 1.0, project.Metric(metrics.Files), 0)
	assert.InDelta(t, 1.0, project.Metric(metrics.Classes), 0)
	assert.InDelta(t, 2.0, project.Metric(metrics.Functions), 0)
	assert.InDelta(t, 3.0, project.Metric(metrics.FunctionClauses), 0)
	assert.InDelta(t, 1.0, project.Metric(metrics.PublicAPI), 0)
	assert.InDelta(t, 1.0, project.Metric(metrics.Macros), 0)
	assert.InDelta(t, 1.0, project.Metric(metrics.FunExpressions), 0)
	assert.InDelta(t, 14.0, project.Metric(metrics.Lines), 0)
	assert.InDelta(t, 1.0, project.Metric(metrics.CommentLines), 0)

	// area/1: 2 clauses. helper/1: 1 clause + andalso + 1 extra case branch + 1 fun clause.
	assert.InDelta(t, 6.0, project.Metric(metrics.Complexity), 0)
	assert.InDelta(t, 4.0, project.Metric(metrics.MaxFunctionComplexity), 0)

	area := idx.Get(index.Function, "project:src:src/shapes.erl:shapes:area/1")
	require.NotNil(t, area)
	assert.InDelta(t, 2.0, area.Metric(metrics.Complexity), 0)
}
