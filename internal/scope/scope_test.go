package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmofishsauce/co/internal/scope"
)

func TestDefineAndLookupSameScope(t *testing.T) {
	var s scope.Stack
	s.Push()
	s.Define("x", 1)
	v, ok := s.Lookup("x", 0)
	require.True(t, ok)
	assert.Equal(t, 1, v)
	s.Pop()
}

func TestShadowingNewestWins(t *testing.T) {
	var s scope.Stack
	s.Push()
	s.Define("x", "outer")
	s.Push()
	s.Define("x", "inner")
	v, ok := s.Lookup("x", ^uint32(0))
	require.True(t, ok)
	assert.Equal(t, "inner", v)
	s.Pop()
	v, ok = s.Lookup("x", ^uint32(0))
	require.True(t, ok)
	assert.Equal(t, "outer", v)
	s.Pop()
}

func TestMaxDepthLimitsCrossing(t *testing.T) {
	var s scope.Stack
	s.Push()
	s.Define("x", "outer")
	s.Push()
	// maxDepth 0: do not cross into the outer scope.
	_, ok := s.Lookup("x", 0)
	assert.False(t, ok)
	s.Pop()
	s.Pop()
}

func TestPushPopBalance(t *testing.T) {
	var s scope.Stack
	assert.True(t, s.AtTopLevel())
	s.Push()
	assert.False(t, s.AtTopLevel())
	s.Define("a", 1)
	s.Push()
	s.Define("b", 2)
	s.Pop()
	assert.False(t, s.AtTopLevel())
	s.Pop()
	assert.True(t, s.AtTopLevel())
}

func TestLookupMissing(t *testing.T) {
	var s scope.Stack
	s.Push()
	_, ok := s.Lookup("nope", ^uint32(0))
	assert.False(t, ok)
	s.Pop()
}
