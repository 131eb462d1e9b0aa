package ast

import (
	"github.com/gmofishsauce/co/internal/sym"
	"github.com/gmofishsauce/co/internal/token"
)

// Ident is an identifier reference (spec.md §4.4.3). Ref is the node it
// resolved to (nil if resolution failed — a diagnostic was already
// reported at that point).
type Ident struct {
	base
	Name *sym.Symbol
	Ref  Node
	Type Type
}

// IntLit is an integer literal; Type is chosen by select_int_type-style
// context rules (spec.md §4.4.3, §9).
type IntLit struct {
	base
	Value uint64
	Type  Type
}

// FloatLit is a floating point literal.
type FloatLit struct {
	base
	Value float64
	Raw   string
	Type  Type
}

// BoolLit is `true`/`false`.
type BoolLit struct {
	base
	Value bool
	Type  Type
}

// PrefixOp is a prefix unary operator (`!x`, `-x`, `+x`, `~x`, `++x`,
// `--x`). Op is the token.Kind of the operator. `&x`, `mut &x` and `*x`
// produce Addr and Deref nodes instead.
type PrefixOp struct {
	base
	Op   token.Kind
	X    Node
	Type Type
}

// PostfixOp is a postfix unary operator (`x++`, `x--`).
type PostfixOp struct {
	base
	Op   token.Kind
	X    Node
	Type Type
}

// BinOp is a binary operator application.
type BinOp struct {
	base
	Op   token.Kind
	X, Y Node
	Type Type
}

// Deref is `*expr`; Type is Void when the operand wasn't actually a
// reference, matching spec.md §8 scenario 6 ("safe default").
type Deref struct {
	base
	X    Node
	Type Type
}

// Addr is `&expr` / `mut &expr`.
type Addr struct {
	base
	Mutable bool
	X       Node
	Type    Type
}

// Call is both a function call and a type-cast/struct-construction
// (spec.md §4.4.3: "expr(args)... If expr names a type...").
type Call struct {
	base
	Fun  Node
	Args []Node
	Type Type
}

// Member is `expr.name`, including the `.name` dot-context shorthand once
// rewritten to `dotctx.name` by the parser.
type Member struct {
	base
	X    Node
	Name *sym.Symbol
	Ref  Node // the resolved field or method, if any
	Type Type
}

// Block is a `{ ... }` sequence of expressions (spec.md §4.4.4).
type Block struct {
	base
	Stmts []Node
	Type  Type
}

// If is `if COND THEN (else ELSE)?`.
type If struct {
	base
	Cond Node
	Then *Block
	Else Node // *Block, *If (for `else if`), or nil
	Type Type
}

// For covers all three `for` variants sharing one node (spec.md §4.4.3).
type For struct {
	base
	Init Node
	Cond Node
	Step Node
	Body *Block
}

// Return is a `return expr?` statement.
type Return struct {
	base
	Value Node // nil for bare `return`
}

// LocalDecl is `let`/`var NAME (TYPE)? (= INIT)?`. Kind distinguishes Let
// from Var.
type LocalDecl struct {
	base
	Name    *sym.Symbol
	Type    Type
	Init    Node
	NRefs   int
}

// Param is a function parameter (spec.md §4.4.1's `this`-parameter
// handling lives here via IsThis).
type Param struct {
	base
	Name   *sym.Symbol
	Type   Type
	IsThis bool
	NRefs  int
}

// Field is a struct field declaration, with an optional default-value
// initializer expression.
type Field struct {
	base
	Name *sym.Symbol
	Type Type
	Init Node
}

// Fun is a function or method declaration/definition.
type Fun struct {
	base
	Name      *sym.Symbol
	Params    []*Param
	Result    Type
	Body      *Block // nil for a declaration without a body
	Type      *FuncType
	MethodOf  Type // non-nil when this is a method
}

// Typedef is `type NAME TYPE`.
type Typedef struct {
	base
	Name *sym.Symbol
	Type Type
}

// Unit is the top-level container produced by one call to Parse.
type Unit struct {
	base
	Decls []Node
}

// Bad is the error-recovery placeholder (spec.md §4.6).
type Bad struct {
	base
}

// IsStorage reports whether n designates a memory cell — an identifier
// resolving to a local/param/field, a member access, or a deref — per
// spec.md's "storage expression" (§4.4.3, glossary). This is the
// exhaustive-match style the teacher's design notes call for (§9).
func IsStorage(n Node) bool {
	switch v := n.(type) {
	case *Ident:
		if v.Ref == nil {
			return false
		}
		switch v.Ref.(type) {
		case *LocalDecl, *Param, *Field:
			return true
		default:
			return false
		}
	case *Member, *Deref:
		return true
	default:
		return false
	}
}

// IsMutableStorage reports whether n is a storage expression whose
// backing binding is mutable — i.e. not a `let` — for `mut &expr`
// checking (spec.md §4.4.3).
func IsMutableStorage(n Node) bool {
	if !IsStorage(n) {
		return false
	}
	switch v := n.(type) {
	case *Ident:
		switch ref := v.Ref.(type) {
		case *LocalDecl:
			return ref.Kind() == Var
		case *Param:
			return true
		case *Field:
			return true
		}
	case *Member:
		return true
	case *Deref:
		return true
	}
	return false
}
