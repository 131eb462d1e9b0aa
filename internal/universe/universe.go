// Package universe holds the process-wide, init-once set of built-in
// primitive types and constants (spec.md §3, §4.4.5, §5): "Universe
// (built-in primitives and constants) is initialized exactly once;
// readers see a fully constructed map."
package universe

import (
	"sync"

	"github.com/gmofishsauce/co/internal/ast"
	"github.com/gmofishsauce/co/internal/sym"
)

// Universe is the read-only root of name resolution: the parent scope the
// package map sits atop (spec.md §4.4.5 "the universe map sits as parent
// of the package map and is read-only").
type Universe struct {
	Void    *ast.BasicType
	Bool    *ast.BasicType
	I8      *ast.BasicType
	I16     *ast.BasicType
	I32     *ast.BasicType
	I64     *ast.BasicType
	U8      *ast.BasicType
	U16     *ast.BasicType
	U32     *ast.BasicType
	U64     *ast.BasicType
	Int     *ast.BasicType
	Uint    *ast.BasicType
	F32     *ast.BasicType
	F64     *ast.BasicType
	Unknown *ast.BasicType

	types  map[*sym.Symbol]*ast.BasicType
	consts map[*sym.Symbol]bool // true/false boolean constants
}

var (
	once sync.Once
	u    *Universe
)

// Get returns the single process-wide Universe, building it on first use
// and interning its type names into syms. Only the first call's syms is
// used; later calls return the same Universe and ignore their argument.
func Get(syms *sym.Table) *Universe {
	once.Do(func() {
		u = build(syms)
	})
	return u
}

func build(syms *sym.Table) *Universe {
	un := &Universe{
		Void:    ast.NewBasicType(ast.Void, 0, 0, false),
		Bool:    ast.NewBasicType(ast.Bool, 1, 1, true),
		I8:      ast.NewBasicType(ast.I8, 1, 1, false),
		I16:     ast.NewBasicType(ast.I16, 2, 2, false),
		I32:     ast.NewBasicType(ast.I32, 4, 4, false),
		I64:     ast.NewBasicType(ast.I64, 8, 8, false),
		U8:      ast.NewBasicType(ast.U8, 1, 1, true),
		U16:     ast.NewBasicType(ast.U16, 2, 2, true),
		U32:     ast.NewBasicType(ast.U32, 4, 4, true),
		U64:     ast.NewBasicType(ast.U64, 8, 8, true),
		Int:     ast.NewBasicType(ast.Int, 4, 4, false),
		Uint:    ast.NewBasicType(ast.Uint, 4, 4, true),
		F32:     ast.NewBasicType(ast.F32, 4, 4, false),
		F64:     ast.NewBasicType(ast.F64, 8, 8, false),
		Unknown: ast.NewBasicType(ast.Unknown, 0, 0, false),
	}

	un.types = map[*sym.Symbol]*ast.BasicType{
		syms.Intern("void"): un.Void,
		syms.Intern("bool"): un.Bool,
		syms.Intern("i8"):   un.I8,
		syms.Intern("i16"):  un.I16,
		syms.Intern("i32"):  un.I32,
		syms.Intern("i64"):  un.I64,
		syms.Intern("u8"):   un.U8,
		syms.Intern("u16"):  un.U16,
		syms.Intern("u32"):  un.U32,
		syms.Intern("u64"):  un.U64,
		syms.Intern("int"):  un.Int,
		syms.Intern("uint"): un.Uint,
		syms.Intern("f32"):  un.F32,
		syms.Intern("f64"):  un.F64,
	}

	un.consts = map[*sym.Symbol]bool{
		syms.Intern("true"):  true,
		syms.Intern("false"): false,
	}

	// The signed integer, float, bool, void and unknown primitives get
	// single-byte tids per spec.md §4.5's TYPEID_PREFIX convention: this
	// table fixes the byte assigned to each kind, stable for the process
	// lifetime.
	prefixes := []struct {
		sym  *ast.BasicType
		byte byte
	}{
		{un.Void, 'v'}, {un.Bool, 'b'},
		{un.I8, '1'}, {un.I16, '2'}, {un.I32, '4'}, {un.I64, '8'},
		{un.Int, 'i'}, {un.Uint, 'u'},
		{un.F32, 'f'}, {un.F64, 'F'},
		{un.Unknown, '?'},
	}
	for _, p := range prefixes {
		p.sym.SetTid(syms.Intern(string(p.byte)))
	}
	// The unsigned integer kinds (U8/U16/U32/U64) get two-byte tids, "U"
	// followed by their byte width, so that u8 and i8 never collide.
	un.U8.SetTid(syms.Intern("U1"))
	un.U16.SetTid(syms.Intern("U2"))
	un.U32.SetTid(syms.Intern("U4"))
	un.U64.SetTid(syms.Intern("U8"))

	return un
}

// LookupType returns the primitive type named by name, if any.
func (u *Universe) LookupType(name *sym.Symbol) (ast.Type, bool) {
	t, ok := u.types[name]
	return t, ok
}

// Lookup resolves any universe-level name that isn't a boolean constant:
// currently just primitive type names, structured the same way
// package/local lookup is so the parser's three-tier resolution (local,
// package, universe — spec.md §4.4.5) can treat all three uniformly.
func (u *Universe) Lookup(name *sym.Symbol) (ast.Node, bool) {
	if t, ok := u.types[name]; ok {
		return t, true
	}
	return nil, false
}

// LookupBoolConst reports whether name is the `true`/`false` universe
// constant and, if so, its value. These resolve to BoolLit nodes rather
// than Idents, so they're looked up separately from ordinary names
// (spec.md §4.4.5's universe scope also seeds the two boolean literals).
func (u *Universe) LookupBoolConst(name *sym.Symbol) (value bool, ok bool) {
	value, ok = u.consts[name]
	return value, ok
}
