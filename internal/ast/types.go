package ast

import "github.com/gmofishsauce/co/internal/sym"

// Type is the common interface for every type-shaped node (spec.md §3's
// "type invariants"): every type has a size, an alignment, an
// unsignedness bit, and — once interned — a canonical tid symbol.
type Type interface {
	Node
	Size() uint64
	Align() uint64
	Unsigned() bool
	Tid() *sym.Symbol
	SetTid(*sym.Symbol)
}

type typeBase struct {
	base
	size     uint64
	align    uint64
	unsigned bool
	tid      *sym.Symbol
}

func (t *typeBase) Size() uint64        { return t.size }
func (t *typeBase) Align() uint64       { return t.align }
func (t *typeBase) Unsigned() bool      { return t.unsigned }
func (t *typeBase) Tid() *sym.Symbol    { return t.tid }
func (t *typeBase) SetTid(s *sym.Symbol) { t.tid = s }

// BasicType represents every primitive type (VOID, BOOL, I8..U64, INT,
// UINT, F32, F64, UNKNOWN). Primitive types are process-wide singletons
// (spec.md §3) — see package universe.
type BasicType struct{ typeBase }

// NewBasicType constructs a primitive type node. Callers normally use the
// prebuilt singletons in package universe rather than calling this
// directly.
func NewBasicType(kind Kind, size, align uint64, unsigned bool) *BasicType {
	t := &BasicType{}
	t.kind = kind
	t.size = size
	t.align = align
	t.unsigned = unsigned
	return t
}

// RefType covers PTR, REF, MUTREF, SLICE, and MUTSLICE — all a pointer
// wrapping one element type, differing only in mutability/ownership
// semantics the front-end does not need to enforce beyond parse-time
// checks (spec.md §4.4.3).
type RefType struct {
	typeBase
	Elem Type
}

// NewRefType builds a pointer-shaped type of the given kind around elem.
// ptrSize comes from the compiler's target configuration and is used for
// both size and alignment (spec.md §3: "pointer-shaped types have
// size/align equal to target pointer size/align").
func NewRefType(kind Kind, elem Type, ptrSize uint64) *RefType {
	t := &RefType{Elem: elem}
	t.kind = kind
	t.size = ptrSize
	t.align = ptrSize
	return t
}

// OptionalType is `?T`: T or the absence of a value.
type OptionalType struct {
	typeBase
	Elem Type
}

func NewOptionalType(elem Type, ptrSize uint64) *OptionalType {
	t := &OptionalType{Elem: elem}
	t.kind = Optional
	// An optional is represented as a nilable pointer-shaped value when
	// elem itself is pointer-shaped, or an elem-size-plus-tag-byte value
	// otherwise; this front-end only needs size/align for diagnostics,
	// not codegen.
	if elem.Kind().IsPointerShaped() {
		t.size = ptrSize
		t.align = ptrSize
	} else {
		t.size = elem.Size() + 1
		t.align = elem.Align()
		if t.align < 1 {
			t.align = 1
		}
	}
	return t
}

// ArrayType is a fixed-length array.
type ArrayType struct {
	typeBase
	Len  uint64
	Elem Type
}

func NewArrayType(length uint64, elem Type) *ArrayType {
	t := &ArrayType{Len: length, Elem: elem}
	t.kind = Array
	t.align = elem.Align()
	t.size = roundUp(length*elem.Size(), t.align)
	return t
}

// FuncType is a function signature: parameter types in order, plus a
// result type (spec.md §4.5: "F <u32 nparams> <param-tid>* <result-tid>").
type FuncType struct {
	typeBase
	Params []*Param
	Result Type
}

func NewFuncType(params []*Param, result Type, ptrSize uint64) *FuncType {
	t := &FuncType{Params: params, Result: result}
	t.kind = FunType
	t.size = ptrSize
	t.align = ptrSize
	return t
}

// StructType is a struct's field layout. Methods are intentionally absent
// from this node: they live in the side-table MethodMap so that methods
// referencing their receiver type never create an ownership cycle back
// into the type node (spec.md §9 "cyclic references").
type StructType struct {
	typeBase
	Name   *sym.Symbol // set once a `type NAME { ... }` gives it a name
	Fields []*Field
}

// NewStructType computes align/size from fields per spec.md §4.2:
// "align := max(field.align), size := round-up(Σ field.size, align)".
func NewStructType(fields []*Field) *StructType {
	t := &StructType{Fields: fields}
	t.kind = Struct
	var align, total uint64 = 1, 0
	for _, f := range fields {
		if f.Type.Align() > align {
			align = f.Type.Align()
		}
		total += f.Type.Size()
	}
	t.align = align
	t.size = roundUp(total, align)
	return t
}

// AliasType is `type NAME UNDERLYING`.
type AliasType struct {
	typeBase
	Name       *sym.Symbol
	Underlying Type
}

func NewAliasType(name *sym.Symbol, underlying Type) *AliasType {
	t := &AliasType{Name: name, Underlying: underlying}
	t.kind = Alias
	t.size = underlying.Size()
	t.align = underlying.Align()
	t.unsigned = underlying.Unsigned()
	return t
}

func roundUp(n, align uint64) uint64 {
	if align == 0 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}

// MethodMap is the per-receiver-type side table of method-name to
// function node (spec.md §4.4.6). Keys are Type identity — after
// interning, structurally-equal receivers share one map entry.
type MethodMap struct {
	byType map[Type]map[*sym.Symbol]*Fun
}

// NewMethodMap creates an empty method map.
func NewMethodMap() *MethodMap {
	return &MethodMap{byType: make(map[Type]map[*sym.Symbol]*Fun)}
}

// Lookup finds the method named name on receiver recv, if any.
func (m *MethodMap) Lookup(recv Type, name *sym.Symbol) (*Fun, bool) {
	methods, ok := m.byType[recv]
	if !ok {
		return nil, false
	}
	fn, ok := methods[name]
	return fn, ok
}

// Define adds fn as method name on recv. It reports ok=false if name is
// already a method of recv (the caller is responsible for also checking
// field-name collisions, since this map knows nothing about fields).
func (m *MethodMap) Define(recv Type, name *sym.Symbol, fn *Fun) (existing *Fun, ok bool) {
	methods, have := m.byType[recv]
	if !have {
		methods = make(map[*sym.Symbol]*Fun)
		m.byType[recv] = methods
	}
	if prior, exists := methods[name]; exists {
		return prior, false
	}
	methods[name] = fn
	return nil, true
}

// All returns every method defined on recv, for iteration (e.g. by a
// pretty-printer); order is unspecified.
func (m *MethodMap) All(recv Type) map[*sym.Symbol]*Fun {
	return m.byType[recv]
}
