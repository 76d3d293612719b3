package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/erlfang/internal/analyzers/common"
)

func TestContextStack_NewStack_IsEmpty(t *testing.T) {
	t.Parallel()

	s := common.NewContextStack[int]()

	assert.Equal(t, 0, s.Depth())

	val, ok := s.Current()
	assert.False(t, ok)
	assert.Zero(t, val)

	_, ok = s.Pop()
	assert.False(t, ok)
}

func TestContextStack_LIFO_Ordering(t *testing.T) {
	t.Parallel()

	s := common.NewContextStack[string]()

	s.Push("case")
	s.Push("receive")

	top, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "receive", top)
	assert.Equal(t, 2, s.Depth())

	first, _ := s.Pop()
	second, _ := s.Pop()

	assert.Equal(t, "receive", first)
	assert.Equal(t, "case", second)
	assert.Equal(t, 0, s.Depth())
}

func TestContextStack_Reset_Empties(t *testing.T) {
	t.Parallel()

	s := common.NewContextStack[*int]()

	v := 1
	s.Push(&v)
	s.Push(&v)
	s.Reset()

	assert.Equal(t, 0, s.Depth())

	_, ok := s.Current()
	assert.False(t, ok)
}
