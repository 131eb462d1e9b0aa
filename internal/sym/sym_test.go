package sym_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmofishsauce/co/internal/sym"
)

func TestInternPointerEquality(t *testing.T) {
	var tab sym.Table
	a := tab.Intern("hello")
	b := tab.Intern("hello")
	require.Same(t, a, b)
	assert.Equal(t, "hello", a.String())
}

func TestInternDistinctStrings(t *testing.T) {
	var tab sym.Table
	a := tab.Intern("foo")
	b := tab.Intern("bar")
	assert.NotSame(t, a, b)
}

func TestInternBytesMatchesIntern(t *testing.T) {
	var tab sym.Table
	a := tab.Intern("x")
	b := tab.InternBytes([]byte("x"))
	assert.Same(t, a, b)
}

func TestInternConcurrent(t *testing.T) {
	var tab sym.Table
	const n = 200
	syms := make([]*sym.Symbol, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			syms[i] = tab.Intern("shared")
		}(i)
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		assert.Same(t, syms[0], syms[i])
	}
}

func TestIsAnon(t *testing.T) {
	var tab sym.Table
	anon := tab.Intern("_")
	other := tab.Intern("x")
	assert.True(t, sym.IsAnon(anon))
	assert.False(t, sym.IsAnon(other))
}
