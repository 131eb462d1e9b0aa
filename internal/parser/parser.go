// Package parser implements the Pratt-driven recursive-descent parser
// described in spec.md §4.4: it drives two token-indexed parselet tables
// (expressions, types) plus a direct switch for statement-only
// declarations, resolves names eagerly
// against a scope stack / package map / universe chain, and canonicalizes
// every composite type it builds through the compiler's type interner.
package parser

import (
	"fmt"

	"github.com/gmofishsauce/co/internal/ast"
	"github.com/gmofishsauce/co/internal/compiler"
	"github.com/gmofishsauce/co/internal/diag"
	"github.com/gmofishsauce/co/internal/scanner"
	"github.com/gmofishsauce/co/internal/scope"
	"github.com/gmofishsauce/co/internal/source"
	"github.com/gmofishsauce/co/internal/sym"
	"github.com/gmofishsauce/co/internal/token"
)

// ExprFlags is the expression-flags bitset threaded through expr() calls
// (spec.md §4.4's "expression-flags bitset... notably an is-rvalue bit").
type ExprFlags uint8

const (
	ExprRValue ExprFlags = 1 << iota
)

// Has reports whether bit is set in f.
func (f ExprFlags) Has(bit ExprFlags) bool { return f&bit != 0 }

// exprRule is one row of the expression parselet table: a prefix and/or
// infix handler plus the infix binding precedence.
type exprRule struct {
	prefix func(p *Parser, flags ExprFlags) ast.Node
	infix  func(p *Parser, left ast.Node, flags ExprFlags) ast.Node
	prec   token.Precedence
}

// typePrefixFn parses a type expression starting at the current token.
type typePrefixFn func(p *Parser) ast.Type

// Parser drives one compilation unit's worth of parsing over a compiler
// context (spec.md §6's parser-init/parser-parse/parser-dispose API).
type Parser struct {
	c     *compiler.Compiler
	scan  *scanner.Scanner
	arena *ast.Arena

	scopes scope.Stack
	pkg    map[*sym.Symbol]ast.Node

	tok token.Token

	// typeCtx is the stack of "expected type" contexts literal and
	// argument parselets consult (spec.md §4.4.3).
	typeCtx []ast.Type

	// dotCtx is the stack of implicit receivers for the `.name` shorthand
	// (spec.md's glossary: "dot-context"); pushed on entry to a method
	// body whose first parameter is `this`.
	dotCtx []ast.Node
}

// New constructs a parser bound to compiler context c.
func New(c *compiler.Compiler) (*Parser, error) {
	if c == nil {
		return nil, fmt.Errorf("parser: nil compiler context")
	}
	return &Parser{
		c:    c,
		scan: scanner.New(c.Sink, c.Syms),
		pkg:  make(map[*sym.Symbol]ast.Node),
	}, nil
}

// Parse scans and parses one input into a Unit, allocating nodes in arena.
// Package-level definitions accumulate across calls on the same Parser,
// matching spec.md §3's lifecycle note.
func (p *Parser) Parse(arena *ast.Arena, input *source.Input) *ast.Unit {
	p.arena = arena
	p.scan.SetInput(input)
	p.next()
	return p.parseUnit()
}

// Dispose releases the parser's scratch state (spec.md §5: "scope
// buffer, scratch buffers... released on parser disposal").
func (p *Parser) Dispose() {
	p.scopes = scope.Stack{}
	p.typeCtx = nil
	p.dotCtx = nil
	p.arena = nil
}

func (p *Parser) next() {
	p.scan.Next()
	p.tok = p.scan.Tok()
}

func (p *Parser) errorf(pos source.Pos, format string, args ...any) {
	p.c.Sink.Reportf(source.PointRange(pos), diag.Err, format, args...)
}

func (p *Parser) warnf(pos source.Pos, format string, args ...any) {
	p.c.Sink.Reportf(source.PointRange(pos), diag.Warn, format, args...)
}

// expect consumes the current token if it has kind k, reporting an error
// otherwise. It always returns the position the token was (or would have
// been) at.
func (p *Parser) expect(k token.Kind) (source.Pos, bool) {
	if p.tok.Kind != k {
		p.errorf(p.tok.Pos, "expected %s, got %s", k, p.tok.Kind)
		return p.tok.Pos, false
	}
	pos := p.tok.Pos
	p.next()
	return pos, true
}

// recoverTo fast-forwards past tokens until one in stops (or EOF) is
// reached, implementing spec.md §4.6's recovery strategy.
func (p *Parser) recoverTo(stops ...token.Kind) {
	for p.tok.Kind != token.EOF {
		for _, s := range stops {
			if p.tok.Kind == s {
				return
			}
		}
		p.next()
	}
}

func (p *Parser) skipSemis() {
	for p.tok.Kind == token.SEMI {
		p.next()
	}
}

func (p *Parser) pushTypeCtx(t ast.Type) { p.typeCtx = append(p.typeCtx, t) }

func (p *Parser) popTypeCtx() {
	if len(p.typeCtx) > 0 {
		p.typeCtx = p.typeCtx[:len(p.typeCtx)-1]
	}
}

func (p *Parser) curTypeCtx() ast.Type {
	if len(p.typeCtx) == 0 {
		return nil
	}
	return p.typeCtx[len(p.typeCtx)-1]
}

// isTypeStart reports whether k can begin a type expression, excluding
// '{' — used at call sites (function declaration result position) where
// '{' unambiguously means "function body", never an anonymous struct
// result (spec.md §4.4.1's grammar doesn't resolve this directly; this
// is the parser's chosen disambiguation).
func (p *Parser) isTypeStart(k token.Kind) bool {
	switch k {
	case token.ID, token.STAR, token.AND, token.KW_MUT, token.QUESTION, token.LBRACK, token.KW_FUN:
		return true
	default:
		return false
	}
}

// maxScopeDepth effectively removes the max-depth limit on a lookup that
// should cross every pushed scope down to the bottom of the stack.
const maxScopeDepth = ^uint32(0)

// define binds name to n in the current scope, or the package map at top
// level, rejecting redefinition within that one scope (spec.md §4.4.5).
func (p *Parser) define(pos source.Pos, name *sym.Symbol, n ast.Node) {
	if sym.IsAnon(name) {
		return
	}
	if !p.scopes.AtTopLevel() {
		if _, exists := p.scopes.Lookup(name, 0); exists {
			p.errorf(pos, "redefinition of %q", name.String())
			return
		}
		p.scopes.Define(name, n)
		return
	}
	if _, exists := p.pkg[name]; exists {
		p.errorf(pos, "redefinition of %q", name.String())
		return
	}
	p.pkg[name] = n
}

// defineReplace unconditionally (re)binds name, used by optional
// narrowing (spec.md §4.4.5).
func (p *Parser) defineReplace(name *sym.Symbol, n ast.Node) {
	if sym.IsAnon(name) {
		return
	}
	if p.scopes.AtTopLevel() {
		p.pkg[name] = n
		return
	}
	p.scopes.Define(name, n)
}

// lookup resolves name through the local scope chain, then the package
// map, then the universe (spec.md §4.4.5's three-tier chain).
func (p *Parser) lookup(name *sym.Symbol) (ast.Node, bool) {
	if sym.IsAnon(name) {
		return nil, false
	}
	if v, ok := p.scopes.Lookup(name, maxScopeDepth); ok {
		return v.(ast.Node), true
	}
	if n, ok := p.pkg[name]; ok {
		return n, true
	}
	if t, ok := p.c.Uni.LookupType(name); ok {
		return t, true
	}
	return nil, false
}

func bumpRefs(n ast.Node) {
	switch v := n.(type) {
	case *ast.LocalDecl:
		v.NRefs++
	case *ast.Param:
		v.NRefs++
	}
}

// exprType extracts the Type field of whichever concrete node kind n is;
// returns nil for nodes that carry no type (e.g. Return, For, Typedef).
func exprType(n ast.Node) ast.Type {
	switch v := n.(type) {
	case *ast.Ident:
		return v.Type
	case *ast.IntLit:
		return v.Type
	case *ast.FloatLit:
		return v.Type
	case *ast.BoolLit:
		return v.Type
	case *ast.PrefixOp:
		return v.Type
	case *ast.PostfixOp:
		return v.Type
	case *ast.BinOp:
		return v.Type
	case *ast.Deref:
		return v.Type
	case *ast.Addr:
		return v.Type
	case *ast.Call:
		return v.Type
	case *ast.Member:
		return v.Type
	case *ast.Block:
		return v.Type
	case *ast.If:
		return v.Type
	case *ast.LocalDecl:
		return v.Type
	case ast.Type:
		return v
	default:
		return nil
	}
}

// typeDisplayName renders t the way source would spell it, for
// diagnostics (spec.md §8 scenario 6 expects "type i32", not the
// internal Kind spelling "I32").
func typeDisplayName(t ast.Type) string {
	if t == nil {
		return "void"
	}
	switch v := t.(type) {
	case *ast.BasicType:
		return basicTypeName(v.Kind())
	case *ast.StructType:
		if v.Name != nil {
			return v.Name.String()
		}
		return "struct{...}"
	case *ast.AliasType:
		return v.Name.String()
	case *ast.RefType:
		switch v.Kind() {
		case ast.Ptr:
			return "*" + typeDisplayName(v.Elem)
		case ast.Ref:
			return "&" + typeDisplayName(v.Elem)
		case ast.MutRef:
			return "mut &" + typeDisplayName(v.Elem)
		case ast.Slice:
			return "[]" + typeDisplayName(v.Elem)
		case ast.MutSlice:
			return "mut []" + typeDisplayName(v.Elem)
		}
	case *ast.OptionalType:
		return "?" + typeDisplayName(v.Elem)
	case *ast.ArrayType:
		return fmt.Sprintf("[%d]%s", v.Len, typeDisplayName(v.Elem))
	case *ast.FuncType:
		return "fun(...)"
	}
	return "<type>"
}

func basicTypeName(k ast.Kind) string {
	switch k {
	case ast.Void:
		return "void"
	case ast.Bool:
		return "bool"
	case ast.I8:
		return "i8"
	case ast.I16:
		return "i16"
	case ast.I32:
		return "i32"
	case ast.I64:
		return "i64"
	case ast.U8:
		return "u8"
	case ast.U16:
		return "u16"
	case ast.U32:
		return "u32"
	case ast.U64:
		return "u64"
	case ast.Int:
		return "int"
	case ast.Uint:
		return "uint"
	case ast.F32:
		return "f32"
	case ast.F64:
		return "f64"
	default:
		return "unknown"
	}
}

// stmt is the statement-category parselet: declarations that can only
// appear at statement position (type/fun), falling through to the
// expression table for everything else — including `let`/`var`, which
// spec.md §3 groups under the Expression kinds (they're legal inside
// blocks as well as at top level).
func (p *Parser) stmt() ast.Node {
	switch p.tok.Kind {
	case token.KW_TYPE:
		return p.typeDecl()
	case token.KW_FUN:
		fn := p.funDecl(nil)
		if fn == nil {
			return p.arena.NewBad(p.tok.Pos)
		}
		return fn
	default:
		return p.expr(token.Lowest, ExprRValue)
	}
}

func (p *Parser) parseUnit() *ast.Unit {
	pos := p.tok.Pos
	u := p.arena.NewUnit(pos)
	for {
		p.skipSemis()
		if p.tok.Kind == token.EOF {
			break
		}
		u.Decls = append(u.Decls, p.stmt())
	}
	return u
}

// expr is the Pratt core loop for the expression category (spec.md
// §4.4): invoke the current token's prefix parselet, then repeatedly
// apply infix parselets whose precedence is at least prec.
func (p *Parser) expr(prec token.Precedence, flags ExprFlags) ast.Node {
	rule, ok := exprRules[p.tok.Kind]
	if !ok || rule.prefix == nil {
		pos := p.tok.Pos
		p.errorf(pos, "unexpected %s", p.tok.Kind)
		p.recoverTo(token.SEMI, token.RBRACE, token.RPAREN)
		return p.arena.NewBad(pos)
	}
	left := rule.prefix(p, flags)
	for {
		r, ok := exprRules[p.tok.Kind]
		if !ok || r.infix == nil || r.prec < prec {
			break
		}
		left = r.infix(p, left, flags)
	}
	return left
}

// parseType is the Pratt core loop for the type category. Types have no
// infix operators in this grammar, so it's just prefix dispatch.
func (p *Parser) parseType(prec token.Precedence) ast.Type {
	rule, ok := typeRules[p.tok.Kind]
	if !ok {
		p.errorf(p.tok.Pos, "expected type, got %s", p.tok.Kind)
		p.recoverTo(token.SEMI, token.RBRACE, token.RPAREN, token.COMMA)
		return p.c.Uni.Unknown
	}
	return rule(p)
}
