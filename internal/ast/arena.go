package ast

import "github.com/gmofishsauce/co/internal/source"

// Arena owns every node allocated while parsing one compilation unit
// (spec.md §3: "AST nodes are owned by a per-unit arena; the arena
// outlives all borrows until the unit is discarded"). Unlike the C
// original's bump allocator, Go's garbage collector reclaims node memory
// automatically; Arena still exists as the single owner so that
// "discard the unit" is one call (Dispose) and so call sites read the
// same way the teacher's mkexpr()-style constructors do.
type Arena struct {
	nodes []Node
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) own(n Node) {
	a.nodes = append(a.nodes, n)
}

// Len reports how many nodes this arena has allocated; mainly useful for
// tests and diagnostics.
func (a *Arena) Len() int { return len(a.nodes) }

// Dispose releases the arena's bookkeeping slice. Nodes already handed to
// callers remain valid Go values (they're ordinarily GC-rooted via the
// Unit tree); Dispose only drops the arena's own retaining reference,
// matching spec.md §5 ("the AST arena ... released on parser disposal").
func (a *Arena) Dispose() {
	a.nodes = nil
}

func (a *Arena) NewBad(pos source.Pos) *Bad {
	n := &Bad{base{kind: Bad, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewUnit(pos source.Pos) *Unit {
	n := &Unit{base: base{kind: Unit, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewIdent(pos source.Pos) *Ident {
	n := &Ident{base: base{kind: ID, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewIntLit(pos source.Pos) *IntLit {
	n := &IntLit{base: base{kind: IntLit, pos: pos, flags: FlagRValue | FlagRValueChecked}}
	a.own(n)
	return n
}

func (a *Arena) NewFloatLit(pos source.Pos) *FloatLit {
	n := &FloatLit{base: base{kind: FloatLit, pos: pos, flags: FlagRValue | FlagRValueChecked}}
	a.own(n)
	return n
}

func (a *Arena) NewBoolLit(pos source.Pos, v bool) *BoolLit {
	n := &BoolLit{base: base{kind: BoolLit, pos: pos, flags: FlagRValue | FlagRValueChecked}, Value: v}
	a.own(n)
	return n
}

func (a *Arena) NewPrefixOp(pos source.Pos) *PrefixOp {
	n := &PrefixOp{base: base{kind: PrefixOp, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewPostfixOp(pos source.Pos) *PostfixOp {
	n := &PostfixOp{base: base{kind: PostfixOp, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewBinOp(pos source.Pos) *BinOp {
	n := &BinOp{base: base{kind: BinOp, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewDeref(pos source.Pos) *Deref {
	n := &Deref{base: base{kind: Deref, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewAddr(pos source.Pos) *Addr {
	n := &Addr{base: base{kind: Addr, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewCall(pos source.Pos) *Call {
	n := &Call{base: base{kind: Call, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewMember(pos source.Pos) *Member {
	n := &Member{base: base{kind: Member, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewBlock(pos source.Pos) *Block {
	n := &Block{base: base{kind: Block, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewIf(pos source.Pos) *If {
	n := &If{base: base{kind: If, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewFor(pos source.Pos) *For {
	n := &For{base: base{kind: For, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewReturn(pos source.Pos) *Return {
	n := &Return{base: base{kind: Return, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewLocalDecl(pos source.Pos, kind Kind) *LocalDecl {
	n := &LocalDecl{base: base{kind: kind, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewParam(pos source.Pos) *Param {
	n := &Param{base: base{kind: Param, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewField(pos source.Pos) *Field {
	n := &Field{base: base{kind: Field, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewFun(pos source.Pos) *Fun {
	n := &Fun{base: base{kind: Fun, pos: pos}}
	a.own(n)
	return n
}

func (a *Arena) NewTypedef(pos source.Pos) *Typedef {
	n := &Typedef{base: base{kind: Typedef, pos: pos}}
	a.own(n)
	return n
}

// CloneNode clones any node by kind, used for optional narrowing (spec.md
// §4.4.3): the cloned binding gets the element type while the original
// binding's type stays `?T`.
func (a *Arena) CloneNode(n Node) Node {
	switch v := n.(type) {
	case *LocalDecl:
		c := *v
		a.own(&c)
		return &c
	case *Param:
		c := *v
		a.own(&c)
		return &c
	default:
		return n
	}
}
