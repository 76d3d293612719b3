package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/erlfang/pkg/index"
)

func fileEntity(t *testing.T, idx *index.Index) *index.SourceCode {
	t.Helper()

	pkg, err := idx.GetOrCreate(index.Package, "src", idx.Project())
	require.NoError(t, err)

	file, err := idx.GetOrCreate(index.File, "src/a.erl", pkg)
	require.NoError(t, err)

	return file
}

func TestIndex_GetOrCreate_Idempotent(t *testing.T) {
	t.Parallel()

	idx := index.New("proj")
	file := fileEntity(t, idx)

	again, err := idx.GetOrCreate(index.File, "src/a.erl", file.Parent())
	require.NoError(t, err)
	assert.Same(t, file, again)
	assert.Equal(t, 3, idx.Len())
	assert.Len(t, file.Parent().Children(), 1)
}

func TestIndex_GetOrCreate_KindConflict(t *testing.T) {
	t.Parallel()

	idx := index.New("proj")
	file := fileEntity(t, idx)

	_, err := idx.GetOrCreate(index.Class, "a", file)
	require.NoError(t, err)

	_, err = idx.GetOrCreate(index.Function, "a", file)
	require.ErrorIs(t, err, index.ErrKindConflict)
}

func TestIndex_GetOrCreate_ForeignParent(t *testing.T) {
	t.Parallel()

	one := index.New("one")
	other := index.New("other")

	_, err := one.GetOrCreate(index.Package, "src", other.Project())
	require.ErrorIs(t, err, index.ErrForeignParent)

	_, err = one.GetOrCreate(index.Package, "src", nil)
	require.ErrorIs(t, err, index.ErrForeignParent)
}

func TestIndex_GetOrCreate_InvalidNesting(t *testing.T) {
	t.Parallel()

	idx := index.New("proj")
	file := fileEntity(t, idx)

	_, err := idx.GetOrCreate(index.Package, "nested", file)
	require.ErrorIs(t, err, index.ErrInvalidNesting)

	_, err = idx.GetOrCreate(index.Project, "again", idx.Project())
	require.ErrorIs(t, err, index.ErrInvalidNesting)

	_, err = idx.GetOrCreate(index.File, "", idx.Project())
	require.ErrorIs(t, err, index.ErrEmptyKey)
}

func TestSourceCode_QualifiedKeyAndAncestors(t *testing.T) {
	t.Parallel()

	idx := index.New("proj")
	file := fileEntity(t, idx)

	class, err := idx.GetOrCreate(index.Class, "a", file)
	require.NoError(t, err)

	fn, err := idx.GetOrCreate(index.Function, "f/1", class)
	require.NoError(t, err)

	assert.Equal(t, "proj:src:src/a.erl:a:f/1", fn.QualifiedKey())
	assert.Same(t, file, fn.Ancestor(index.File))
	assert.Same(t, class, fn.Ancestor(index.Class))
	assert.Same(t, fn, fn.Ancestor(index.Function))
	assert.Same(t, idx.Project(), fn.Ancestor(index.Project))
	assert.Nil(t, file.Ancestor(index.Class))

	assert.Same(t, fn, idx.Get(index.Function, "proj:src:src/a.erl:a:f/1"))
	assert.Nil(t, idx.Get(index.Class, "proj:src:src/a.erl:a:f/1"))
	assert.Equal(t, []*index.SourceCode{fn}, idx.Search(index.Function))
	assert.Equal(t, "function proj:src:src/a.erl:a:f/1", fn.String())
}

func TestSourceCode_Metrics_RawUntilDecorated(t *testing.T) {
	t.Parallel()

	idx := index.New("proj")
	file := fileEntity(t, idx)

	file.AddMetric("lines", 3)
	file.AddMetric("lines", 2)
	assert.InDelta(t, 5.0, file.Metric("lines"), 0)
	assert.False(t, file.Decorated())

	file.SetAggregated(map[string]float64{"lines": 7})
	assert.True(t, file.Decorated())
	assert.InDelta(t, 7.0, file.Metric("lines"), 0)
	assert.InDelta(t, 5.0, file.RawMetric("lines"), 0)
	assert.Equal(t, map[string]float64{"lines": 5}, file.RawMetrics())
	assert.Equal(t, map[string]float64{"lines": 7}, file.Metrics())
}

func TestSourceCode_Issues_OrderedByLine(t *testing.T) {
	t.Parallel()

	idx := index.New("proj")
	file := fileEntity(t, idx)
	file.SetLineCount(10)

	class, err := idx.GetOrCreate(index.Class, "a", file)
	require.NoError(t, err)

	require.NoError(t, file.AddIssue(index.Issue{RuleKey: "NoTabs", Line: 7, Message: "tabs"}))
	require.NoError(t, class.AddIssue(index.Issue{RuleKey: "LineLength", Line: 2, Message: "long"}))
	require.NoError(t, file.AddIssue(index.Issue{RuleKey: "LineLength", Line: 7, Message: "long"}))

	issues := file.Issues()
	require.Len(t, issues, 3)
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, "LineLength", issues[1].RuleKey)
	assert.Equal(t, "NoTabs", issues[2].RuleKey)
	assert.Equal(t, "proj:src:src/a.erl", issues[0].File)

	assert.Len(t, file.IssuesFor("LineLength"), 2)
	assert.Empty(t, class.Issues())
	assert.Equal(t, 3, idx.Project().IssueCount())
	assert.Len(t, idx.Issues(), 3)

	err = file.AddIssue(index.Issue{RuleKey: "X", Line: 11})
	require.ErrorIs(t, err, index.ErrLineOutOfRange)

	err = idx.Project().AddIssue(index.Issue{RuleKey: "X", Line: 1})
	require.ErrorIs(t, err, index.ErrNoFile)
}

func TestSourceCode_Walk_PostOrder(t *testing.T) {
	t.Parallel()

	idx := index.New("proj")
	file := fileEntity(t, idx)

	_, err := idx.GetOrCreate(index.Function, "f/0", file)
	require.NoError(t, err)

	var keys []string

	idx.Project().Walk(func(s *index.SourceCode) { keys = append(keys, s.Key()) })

	assert.Equal(t, []string{"f/0", "src/a.erl", "src", "proj"}, keys)
}

func TestKind_Names(t *testing.T) {
	t.Parallel()

	kind, ok := index.ParseKind("class")
	require.True(t, ok)
	assert.Equal(t, index.Class, kind)
	assert.Equal(t, "function", index.Function.String())
	assert.True(t, index.Project.CanContain(index.Package))
	assert.False(t, index.Function.CanContain(index.Function))

	_, ok = index.ParseKind("module")
	assert.False(t, ok)
}
