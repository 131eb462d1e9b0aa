package parser

import (
	"github.com/gmofishsauce/co/internal/ast"
	"github.com/gmofishsauce/co/internal/token"
)

// typeDecl parses `type NAME TYPE` (spec.md §4.4.1). A struct literal
// type that has no name yet takes this declaration's name directly;
// every other underlying type is wrapped in an AliasType.
func (p *Parser) typeDecl() ast.Node {
	pos := p.tok.Pos
	p.next() // consume 'type'
	if p.tok.Kind != token.ID {
		p.errorf(p.tok.Pos, "expected type name, got %s", p.tok.Kind)
		p.recoverTo(token.SEMI, token.RBRACE)
		return p.arena.NewBad(pos)
	}
	name := p.tok.Sym
	namePos := p.tok.Pos
	p.next()

	underlying := p.parseType(token.Lowest)

	final := underlying
	if st, ok := underlying.(*ast.StructType); ok {
		if st.Name == nil {
			st.Name = name
		}
	} else {
		final = p.c.Types.Intern(ast.NewAliasType(name, underlying))
	}

	td := p.arena.NewTypedef(pos)
	td.Name = name
	td.Type = final

	p.define(namePos, name, final)
	return td
}

// funDecl parses `fun NAME(params) RESULT? BLOCK?` (spec.md §4.4.1). When
// methodOf is non-nil this is a method body parsed inside a struct's `{
// }`; it's registered in the compiler's method map instead of being
// defined as an ordinary name.
func (p *Parser) funDecl(methodOf ast.Type) *ast.Fun {
	pos := p.tok.Pos
	p.next() // consume 'fun'

	if p.tok.Kind != token.ID {
		p.errorf(p.tok.Pos, "expected function name, got %s", p.tok.Kind)
		p.recoverTo(token.SEMI, token.RBRACE)
		return nil
	}
	name := p.tok.Sym
	namePos := p.tok.Pos
	p.next()

	if _, ok := p.expect(token.LPAREN); !ok {
		p.recoverTo(token.SEMI, token.RBRACE)
		return nil
	}
	params := p.parseFunDeclParams(methodOf)

	var result ast.Type = p.c.Uni.Void
	hasBody := false
	switch {
	case p.tok.Kind == token.LBRACE:
		hasBody = true
	case p.isTypeStart(p.tok.Kind):
		result = p.parseType(token.Lowest)
		hasBody = p.tok.Kind == token.LBRACE
	}

	fn := p.arena.NewFun(pos)
	fn.Name = name
	fn.Params = params
	fn.Result = result
	fn.MethodOf = methodOf

	interned := p.c.Types.Intern(ast.NewFuncType(params, result, p.c.Config.PtrSize))
	if ft, ok := interned.(*ast.FuncType); ok {
		fn.Type = ft
	}

	if methodOf != nil {
		if existing, ok := p.c.Methods.Define(methodOf, name, fn); !ok {
			p.errorf(namePos, "method %q already defined at %s", name.String(), existing.Pos().String())
		}
		if st, isStruct := methodOf.(*ast.StructType); isStruct {
			for _, f := range st.Fields {
				if f.Name == name {
					p.errorf(namePos, "method %q collides with field of the same name", name.String())
					break
				}
			}
		}
	} else {
		p.define(namePos, name, fn)
	}

	if hasBody {
		p.scopes.Push()
		dotPushed := false
		for _, prm := range params {
			p.define(prm.Pos(), prm.Name, prm)
			if prm.IsThis {
				p.dotCtx = append(p.dotCtx, prm)
				dotPushed = true
			}
		}
		fn.Body = p.parseBlock(ExprRValue)
		if dotPushed {
			p.dotCtx = p.dotCtx[:len(p.dotCtx)-1]
		}
		p.scopes.Pop()
	}
	return fn
}

// parseFunDeclParams parses a declaration's parameter list. Unlike a
// function-type's params, these are always the `NAME TYPE` form — except
// for the leading `this`/`mut this` receiver parameter of a method, which
// has no explicit type at all.
func (p *Parser) parseFunDeclParams(methodOf ast.Type) []*ast.Param {
	var params []*ast.Param
	first := true
	for p.tok.Kind != token.RPAREN && p.tok.Kind != token.EOF {
		if first && methodOf != nil && (p.tok.Kind == token.KW_THIS || p.tok.Kind == token.KW_MUT) {
			params = append(params, p.parseThisParam(methodOf))
		} else if p.tok.Kind != token.ID {
			p.errorf(p.tok.Pos, "expected parameter name, got %s", p.tok.Kind)
			p.recoverTo(token.COMMA, token.RPAREN)
		} else {
			pos := p.tok.Pos
			name := p.tok.Sym
			p.next()
			ty := p.parseType(token.Lowest)
			prm := p.arena.NewParam(pos)
			prm.Name = name
			prm.Type = ty
			params = append(params, prm)
		}
		first = false
		if p.tok.Kind == token.COMMA {
			p.next()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return params
}

// parseThisParam parses the leading `this` / `mut this` receiver
// parameter (spec.md §4.4.1): small structs and primitives are passed by
// value when the receiver isn't mutable, everything else by reference.
func (p *Parser) parseThisParam(methodOf ast.Type) *ast.Param {
	pos := p.tok.Pos
	mutable := false
	if p.tok.Kind == token.KW_MUT {
		mutable = true
		p.next()
		if p.tok.Kind != token.KW_THIS {
			p.errorf(p.tok.Pos, "expected %s after %s, got %s", token.KW_THIS, token.KW_MUT, p.tok.Kind)
		}
	}
	name := p.tok.Sym
	p.next() // consume 'this'

	param := p.arena.NewParam(pos)
	param.Name = name
	param.IsThis = true
	param.AddFlags(ast.FlagIsThis)

	smallOrPrim := methodOf.Kind().IsPrimType() ||
		(methodOf.Align() <= p.c.Config.PtrSize && methodOf.Size() <= 2*p.c.Config.PtrSize)
	if !mutable && smallOrPrim {
		param.Type = methodOf
	} else {
		kind := ast.Ref
		if mutable {
			kind = ast.MutRef
		}
		param.Type = p.c.Types.Intern(ast.NewRefType(kind, methodOf, p.c.Config.PtrSize))
	}
	return param
}
