package typeid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmofishsauce/co/internal/ast"
	"github.com/gmofishsauce/co/internal/sym"
	"github.com/gmofishsauce/co/internal/typeid"
	"github.com/gmofishsauce/co/internal/universe"
)

func setup(t *testing.T) (*typeid.Interner, *universe.Universe) {
	t.Helper()
	var syms sym.Table
	return typeid.New(&syms), universe.Get(&syms)
}

func TestStructurallyEqualFuncTypesShareNode(t *testing.T) {
	in, uni := setup(t)

	build := func() ast.Type {
		p1 := &ast.Param{Type: uni.I32}
		p2 := &ast.Param{Type: uni.I32}
		ft := ast.NewFuncType([]*ast.Param{p1, p2}, uni.I32, 8)
		return in.Intern(ft)
	}

	a := build()
	b := build()
	assert.Same(t, a, b)
}

func TestDistinctStructsDoNotShare(t *testing.T) {
	in, uni := setup(t)

	f1 := &ast.Field{Name: nil, Type: uni.I32}
	f2 := &ast.Field{Name: nil, Type: uni.I64}

	s1 := in.Intern(ast.NewStructType([]*ast.Field{f1}))
	s2 := in.Intern(ast.NewStructType([]*ast.Field{f2}))
	assert.NotSame(t, s1, s2)
}

func TestTidNonEmptyAndMapsBack(t *testing.T) {
	in, uni := setup(t)
	arr := in.Intern(ast.NewArrayType(4, uni.I32))
	require.NotNil(t, arr.Tid())
	got, ok := in.Lookup(arr.Tid())
	require.True(t, ok)
	assert.Same(t, arr, got)
}

func TestPrimitiveTypesUnaffectedByIntern(t *testing.T) {
	in, uni := setup(t)
	got := in.Intern(uni.I32)
	assert.Same(t, uni.I32, got)
}

func TestSignatureIsTotalFunctionOfStructure(t *testing.T) {
	_, uni := setup(t)
	p := &ast.Param{Type: uni.I32}
	ft1 := ast.NewFuncType([]*ast.Param{p}, uni.Bool, 8)
	ft2 := ast.NewFuncType([]*ast.Param{{Type: uni.I32}}, uni.Bool, 8)
	assert.Equal(t, typeid.Signature(ft1), typeid.Signature(ft2))
}
