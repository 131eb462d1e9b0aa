// Package typeid implements the type interner described in spec.md §4.5:
// every composite type gets a canonical byte signature ("typeid"); the
// signature is interned as a symbol and used as the key into an
// Interner's map from signature to the one canonical type node sharing
// that structure. Two structurally identical composite types therefore
// share the same node address (spec.md §3, §8).
package typeid

import (
	"strconv"
	"sync"

	"github.com/gmofishsauce/co/internal/ast"
	"github.com/gmofishsauce/co/internal/sym"
)

// Interner assigns-if-absent canonical type nodes keyed by their byte
// signature. Safe for concurrent use (spec.md §5: "assign-if-absent
// semantics must be race-free" across parsers sharing one compiler
// context).
type Interner struct {
	syms *sym.Table

	mu  sync.Mutex
	byTid map[*sym.Symbol]ast.Type
}

// New creates an Interner that interns signatures into syms.
func New(syms *sym.Table) *Interner {
	return &Interner{syms: syms, byTid: make(map[*sym.Symbol]ast.Type)}
}

// Intern returns the canonical node for t's structure: if a
// structurally-identical type was interned before, that earlier node is
// returned instead of t. Primitive types (which already carry their tid
// as a process-wide singleton, per spec.md §3) are returned unchanged.
func (in *Interner) Intern(t ast.Type) ast.Type {
	if t.Kind().IsPrimType() {
		return t
	}
	if t.Tid() != nil {
		if existing, ok := in.lookup(t.Tid()); ok {
			return existing
		}
		in.install(t.Tid(), t)
		return t
	}

	var buf []byte
	buf = appendType(buf, t)
	tid := in.syms.InternBytes(buf)

	in.mu.Lock()
	defer in.mu.Unlock()
	if existing, ok := in.byTid[tid]; ok {
		return existing
	}
	t.SetTid(tid)
	in.byTid[tid] = t
	return t
}

func (in *Interner) lookup(tid *sym.Symbol) (ast.Type, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	t, ok := in.byTid[tid]
	return t, ok
}

func (in *Interner) install(tid *sym.Symbol, t ast.Type) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if _, ok := in.byTid[tid]; !ok {
		in.byTid[tid] = t
	}
}

// Lookup returns the type currently interned under tid, if any.
func (in *Interner) Lookup(tid *sym.Symbol) (ast.Type, bool) {
	return in.lookup(tid)
}

// Signature computes t's canonical byte signature without interning it —
// useful for tests asserting on the exact wire form (spec.md §4.5).
func Signature(t ast.Type) string {
	return string(appendType(nil, t))
}

// typeidPrefix is the leading byte identifying a composite kind in the
// signature, per spec.md §4.5.
func typeidPrefix(k ast.Kind) byte {
	switch k {
	case ast.FunType:
		return 'F'
	case ast.Struct:
		return 'S'
	case ast.Array:
		return 'A'
	case ast.Ptr:
		return 'P'
	case ast.Ref:
		return 'R'
	case ast.MutRef:
		return 'M'
	case ast.Slice:
		return 'l'
	case ast.MutSlice:
		return 'm'
	case ast.Optional:
		return 'O'
	case ast.Alias:
		return 'L'
	default:
		return '?'
	}
}

func appendType(buf []byte, t ast.Type) []byte {
	if t.Kind().IsPrimType() {
		if t.Tid() != nil {
			return append(buf, t.Tid().Bytes()...)
		}
		return append(buf, typeidPrefix(t.Kind()))
	}
	if t.Tid() != nil {
		return append(buf, t.Tid().Bytes()...)
	}

	buf = append(buf, typeidPrefix(t.Kind()))
	switch v := t.(type) {
	case *ast.ArrayType:
		buf = appendU64(buf, v.Len)
		buf = appendType(buf, v.Elem)
	case *ast.FuncType:
		buf = appendU32(buf, uint32(len(v.Params)))
		for _, p := range v.Params {
			buf = appendType(buf, p.Type)
		}
		buf = appendType(buf, v.Result)
	case *ast.StructType:
		buf = appendU32(buf, uint32(len(v.Fields)))
		for _, f := range v.Fields {
			buf = appendType(buf, f.Type)
		}
	case *ast.AliasType:
		name := v.Name.Bytes()
		buf = appendU32(buf, uint32(len(name)))
		buf = append(buf, name...)
	case *ast.RefType:
		buf = appendType(buf, v.Elem)
	case *ast.OptionalType:
		buf = appendType(buf, v.Elem)
	}
	return buf
}

// appendU32/appendU64 write hex with a terminating ';', per spec.md §4.5
// ("Integers are encoded in hex with a terminating ';'").
func appendU32(buf []byte, v uint32) []byte {
	buf = strconv.AppendUint(buf, uint64(v), 16)
	return append(buf, ';')
}

func appendU64(buf []byte, v uint64) []byte {
	buf = strconv.AppendUint(buf, v, 16)
	return append(buf, ';')
}
