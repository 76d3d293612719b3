package checks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/internal/checks"
)

func TestDefault_AllChecksStableOrder(t *testing.T) {
	t.Parallel()

	all := checks.Default().All()

	require.Len(t, all, 11)
	assert.Equal(t, checks.KeyMultipleBlankLines, all[0].Key)
	assert.Equal(t, checks.KeyDepthOfCases, all[len(all)-1].Key)

	for _, d := range all {
		assert.NotEmpty(t, d.Description, d.Key)
		assert.NotEmpty(t, d.Severity, d.Key)
	}
}

func TestRegistry_Descriptor(t *testing.T) {
	t.Parallel()

	r := checks.Default()

	d, ok := r.Descriptor(checks.KeyLineLength)
	require.True(t, ok)
	require.Len(t, d.Params, 1)
	assert.Equal(t, checks.ParamMaxLineLength, d.Params[0].Name)
	assert.Equal(t, checks.DefaultMaxLineLength, d.Params[0].Default)

	_, ok = r.Descriptor("Nope")
	assert.False(t, ok)
}

func TestNewRegistry_Duplicate_Fails(t *testing.T) {
	t.Parallel()

	def := checks.Definition{
		Descriptor: checks.Descriptor{Key: "A"},
		New:        func(checks.Params) (analyze.Visitor, error) { return &analyze.BaseVisitor{}, nil },
	}

	_, err := checks.NewRegistry(def, def)
	require.ErrorIs(t, err, checks.ErrDuplicateCheck)
}

func TestSelectedKeys(t *testing.T) {
	t.Parallel()

	r := checks.Default()

	tests := []struct {
		name     string
		patterns []string
		want     []string
		wantErr  error
	}{
		{name: "empty selects all", patterns: nil, want: nil},
		{name: "exact", patterns: []string{"NoTabs"}, want: []string{"NoTabs"}},
		{
			name:     "glob",
			patterns: []string{"Function*"},
			want:     []string{"FunctionComplexity", "FunctionNamePattern"},
		},
		{
			name:     "dedup across patterns",
			patterns: []string{"*NamePattern", " VariableNamePattern "},
			want:     []string{"FunctionNamePattern", "VariableNamePattern"},
		},
		{name: "unknown", patterns: []string{"Nope"}, wantErr: checks.ErrUnknownCheck},
		{name: "glob without match", patterns: []string{"Zz*"}, wantErr: checks.ErrUnknownCheck},
		{name: "bad glob", patterns: []string{"[*"}, wantErr: checks.ErrInvalidGlob},
		{name: "blank", patterns: []string{"  "}, wantErr: checks.ErrUnknownCheck},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.SelectedKeys(tt.patterns)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)

			if tt.want == nil {
				assert.Len(t, got, len(r.All()))

				return
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_AllDefaults(t *testing.T) {
	t.Parallel()

	r := checks.Default()

	keys, err := r.SelectedKeys(nil)
	require.NoError(t, err)

	visitors, err := r.Build(keys, nil)
	require.NoError(t, err)
	assert.Len(t, visitors, len(keys))
}

func TestBuild_ParamsForUnknownCheck_Fails(t *testing.T) {
	t.Parallel()

	_, err := checks.Default().Build([]string{checks.KeyNoTabs}, map[string]checks.Params{
		"Ghost": {"x": 1},
	})

	require.ErrorIs(t, err, checks.ErrUnknownCheck)
	assert.Contains(t, err.Error(), "Ghost")
}

func TestBuild_InvalidParams_JoinsErrors(t *testing.T) {
	t.Parallel()

	_, err := checks.Default().Build(
		[]string{checks.KeyLineLength, checks.KeyFunctionNamePattern, "Missing"},
		map[string]checks.Params{
			checks.KeyLineLength:          {checks.ParamMaxLineLength: -3},
			checks.KeyFunctionNamePattern: {checks.ParamRegularExpression: "("},
		},
	)

	require.ErrorIs(t, err, checks.ErrInvalidParam)
	require.ErrorIs(t, err, checks.ErrUnknownCheck)
	assert.Contains(t, err.Error(), checks.KeyLineLength)
	assert.Contains(t, err.Error(), checks.KeyFunctionNamePattern)
}

func TestParams_Int(t *testing.T) {
	t.Parallel()

	p := checks.Params{"a": "12", "b": 3.0, "c": "x", "d": nil}

	v, err := p.Int("a", 1)
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	v, err = p.Int("b", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = p.Int("c", 1)
	require.ErrorIs(t, err, checks.ErrInvalidParam)

	v, err = p.Int("d", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = p.Int("missing", 9)
	require.NoError(t, err)
	assert.Equal(t, 9, v)
}

func TestParams_Regexp(t *testing.T) {
	t.Parallel()

	re, err := checks.Params{}.Regexp("r", "^a$")
	require.NoError(t, err)
	assert.True(t, re.MatchString("a"))

	re, err = checks.Params{"r": "^b+$"}.Regexp("r", "^a$")
	require.NoError(t, err)
	assert.True(t, re.MatchString("bbb"))

	_, err = checks.Params{"r": "[z"}.Regexp("r", "^a$")
	require.ErrorIs(t, err, checks.ErrInvalidParam)
}

func TestRegistry_Suggest(t *testing.T) {
	t.Parallel()

	reg := checks.Default()

	tests := []struct {
		in   string
		want string
	}{
		{"NoTab", checks.KeyNoTabs},
		{"linelength", checks.KeyLineLength},
		{"DepthOfCase", checks.KeyDepthOfCases},
		{"SomethingElse", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, reg.Suggest(tt.in), tt.in)
	}
}

func TestSelectedKeys_Typo_ErrorSuggestsKey(t *testing.T) {
	t.Parallel()

	_, err := checks.Default().SelectedKeys([]string{"NoTab"})
	require.ErrorIs(t, err, checks.ErrUnknownCheck)
	assert.Contains(t, err.Error(), "did you mean NoTabs?")
}
