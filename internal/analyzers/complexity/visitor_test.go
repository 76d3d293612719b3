package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
	"github.com/Sumatoshi-tech/erlfang/pkg/erlang"
)

func functionComplexities(t *testing.T, src string) []int {
	t.Helper()

	parser, err := erlang.NewParser()
	require.NoError(t, err)

	tree, err := parser.Parse("c.erl", []byte(src))
	require.NoError(t, err)

	var out []int
	for _, fn := range tree.Find(tree.Root(), ast.Function) {
		out = append(out, Function(tree, fn))
	}

	return out
}

func TestFunction_Branches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []int
	}{
		{"single clause", "f() -> ok.\n", []int{1}},
		{"clauses", "f(0) -> zero;\nf(1) -> one;\nf(_) -> many.\n", []int{3}},
		{"case", "f(X) -> case X of a -> 1; b -> 2; _ -> 3 end.\n", []int{3}},
		{"if", "f(X) -> if X > 1 -> big; true -> small end.\n", []int{2}},
		{"receive", "f() -> receive a -> 1; b -> 2 after 10 -> 3 end.\n", []int{2}},
		{"try", "f() -> try g() of ok -> 1; _ -> 2 catch error:_ -> 3; exit:_ -> 4 end.\n", []int{3}},
		{"boolean operators", "f(X) when X > 0 andalso X < 5 orelse X == 9 -> ok.\n", []int{3}},
		{"fun clauses", "f() -> fun(a) -> 1; (b) -> 2 end.\n", []int{3}},
		{"fun reference", "f() -> fun g/0.\n", []int{1}},
		{"per function", "f() -> ok.\ng(X) -> case X of a -> 1; _ -> 2 end.\n", []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, functionComplexities(t, tt.src))
		})
	}
}
