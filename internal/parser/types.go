package parser

import (
	"github.com/gmofishsauce/co/internal/ast"
	"github.com/gmofishsauce/co/internal/source"
	"github.com/gmofishsauce/co/internal/sym"
	"github.com/gmofishsauce/co/internal/token"
)

var typeRules map[token.Kind]typePrefixFn

func init() {
	typeRules = map[token.Kind]typePrefixFn{
		token.ID:       (*Parser).parseNamedType,
		token.LBRACE:   (*Parser).parseStructType,
		token.KW_FUN:   (*Parser).parseFuncTypePrefix,
		token.STAR:     (*Parser).parsePtrTypePrefix,
		token.AND:      (*Parser).parseRefTypePrefix,
		token.KW_MUT:   (*Parser).parseMutRefTypePrefix,
		token.QUESTION: (*Parser).parseOptionalTypePrefix,
		token.LBRACK:   (*Parser).parseArrayTypePrefix,
	}
}

func (p *Parser) parseNamedType() ast.Type {
	pos := p.tok.Pos
	name := p.tok.Sym
	p.next()
	n, ok := p.lookup(name)
	if !ok {
		p.errorf(pos, "undeclared type %q", name.String())
		return p.c.Uni.Unknown
	}
	t, ok := n.(ast.Type)
	if !ok {
		p.errorf(pos, "%q is not a type", name.String())
		return p.c.Uni.Unknown
	}
	return t
}

func (p *Parser) parsePtrTypePrefix() ast.Type {
	p.next() // consume *
	elem := p.parseType(token.Lowest)
	return p.c.Types.Intern(ast.NewRefType(ast.Ptr, elem, p.c.Config.PtrSize))
}

func (p *Parser) parseRefTypePrefix() ast.Type {
	p.next() // consume &
	elem := p.parseType(token.Lowest)
	return p.c.Types.Intern(ast.NewRefType(ast.Ref, elem, p.c.Config.PtrSize))
}

func (p *Parser) parseMutRefTypePrefix() ast.Type {
	p.next() // consume mut
	if _, ok := p.expect(token.AND); !ok {
		return p.c.Uni.Unknown
	}
	elem := p.parseType(token.Lowest)
	return p.c.Types.Intern(ast.NewRefType(ast.MutRef, elem, p.c.Config.PtrSize))
}

func (p *Parser) parseOptionalTypePrefix() ast.Type {
	p.next() // consume ?
	elem := p.parseType(token.Lowest)
	return p.c.Types.Intern(ast.NewOptionalType(elem, p.c.Config.PtrSize))
}

func (p *Parser) parseArrayTypePrefix() ast.Type {
	p.next() // consume [
	if p.tok.Kind != token.INTLIT {
		p.errorf(p.tok.Pos, "expected array length, got %s", p.tok.Kind)
		p.recoverTo(token.RBRACK)
	}
	length := p.tok.IntVal
	if p.tok.Kind == token.INTLIT {
		p.next()
	}
	p.expect(token.RBRACK)
	elem := p.parseType(token.Lowest)
	return p.c.Types.Intern(ast.NewArrayType(length, elem))
}

// parseFuncTypePrefix parses a function-type expression (`fun(...) R?`)
// appearing in type position — as opposed to a `fun NAME(...)`
// declaration, which decl.go handles directly.
func (p *Parser) parseFuncTypePrefix() ast.Type {
	p.next() // consume fun
	if _, ok := p.expect(token.LPAREN); !ok {
		return p.c.Uni.Unknown
	}
	params := p.parseFuncTypeParams()
	p.expect(token.RPAREN)
	var result ast.Type = p.c.Uni.Void
	if p.isTypeStart(p.tok.Kind) {
		result = p.parseType(token.Lowest)
	}
	ft := ast.NewFuncType(params, result, p.c.Config.PtrSize)
	return p.c.Types.Intern(ft)
}

type pendingParamName struct {
	pos  source.Pos
	name *sym.Symbol
}

// parseFuncTypeParams parses a function type's parameter list, resolving
// the two-form ambiguity spec.md §4.4.2 describes: a run of bare
// identifiers either turns out to be a sequence of parameter NAMEs once a
// later entry supplies an explicit type (name-and-type form), or — if no
// such entry ever appears — each bare identifier is reinterpreted as a
// type name in its own right (type-only form).
func (p *Parser) parseFuncTypeParams() []*ast.Param {
	var params []*ast.Param
	var pending []pendingParamName
	sawPair := false

	flush := func(ty ast.Type) {
		for _, pe := range pending {
			prm := p.arena.NewParam(pe.pos)
			prm.Name = pe.name
			prm.Type = ty
			params = append(params, prm)
		}
		pending = nil
	}

	for p.tok.Kind != token.RPAREN && p.tok.Kind != token.EOF {
		if p.tok.Kind == token.ID {
			pos := p.tok.Pos
			name := p.tok.Sym
			p.next()
			if p.tok.Kind == token.COMMA || p.tok.Kind == token.RPAREN {
				pending = append(pending, pendingParamName{pos, name})
			} else {
				ty := p.parseType(token.Lowest)
				flush(ty)
				prm := p.arena.NewParam(pos)
				prm.Name = name
				prm.Type = ty
				params = append(params, prm)
				sawPair = true
			}
		} else {
			ty := p.parseType(token.Lowest)
			prm := p.arena.NewParam(p.tok.Pos)
			prm.Name = p.c.Syms.Intern(sym.Anon)
			prm.Type = ty
			params = append(params, prm)
		}
		if p.tok.Kind == token.COMMA {
			p.next()
			continue
		}
		break
	}

	if len(pending) > 0 {
		if sawPair {
			for _, pe := range pending {
				p.errorf(pe.pos, "parameter %q has no type", pe.name.String())
				prm := p.arena.NewParam(pe.pos)
				prm.Name = pe.name
				prm.Type = p.c.Uni.Unknown
				params = append(params, prm)
			}
		} else {
			for _, pe := range pending {
				t, isType := p.resolveAsType(pe.pos, pe.name)
				prm := p.arena.NewParam(pe.pos)
				prm.Name = p.c.Syms.Intern(sym.Anon)
				if isType {
					prm.Type = t
				} else {
					prm.Type = p.c.Uni.Unknown
				}
				params = append(params, prm)
			}
		}
	}
	return params
}

func (p *Parser) resolveAsType(pos source.Pos, name *sym.Symbol) (ast.Type, bool) {
	n, ok := p.lookup(name)
	if !ok {
		p.errorf(pos, "undeclared type %q", name.String())
		return nil, false
	}
	t, ok := n.(ast.Type)
	if !ok {
		p.errorf(pos, "%q is not a type", name.String())
		return nil, false
	}
	return t, true
}

// parseFieldSet parses one `name (, name)* TYPE (= expr (, expr)*)?` entry
// of a struct body (spec.md §4.4.2), returning one *ast.Field per name.
func (p *Parser) parseFieldSet() []*ast.Field {
	var names []*sym.Symbol
	var poss []source.Pos
	for {
		if p.tok.Kind != token.ID {
			p.errorf(p.tok.Pos, "expected field name, got %s", p.tok.Kind)
			p.recoverTo(token.SEMI, token.RBRACE)
			return nil
		}
		poss = append(poss, p.tok.Pos)
		names = append(names, p.tok.Sym)
		p.next()
		if p.tok.Kind == token.COMMA {
			p.next()
			continue
		}
		break
	}

	ty := p.parseType(token.Lowest)

	var inits []ast.Node
	if p.tok.Kind == token.ASSIGN {
		p.next()
		p.pushTypeCtx(ty)
		for {
			inits = append(inits, p.expr(token.Assign+1, ExprRValue))
			if p.tok.Kind == token.COMMA {
				p.next()
				continue
			}
			break
		}
		p.popTypeCtx()
	}

	fields := make([]*ast.Field, len(names))
	for i, nm := range names {
		f := p.arena.NewField(poss[i])
		f.Name = nm
		f.Type = ty
		if i < len(inits) {
			f.Init = inits[i]
		}
		fields[i] = f
	}
	return fields
}

// parseStructType parses a `{ fieldSet* method* }` struct body (spec.md
// §4.4.2, §4.4.6). Fields are collected first, the struct type is
// interned once their shape is complete, and only then are methods parsed
// against the now-canonical receiver type — a struct body is expected to
// declare all its fields before its first method.
func (p *Parser) parseStructType() ast.Type {
	p.next() // consume {
	var fields []*ast.Field
	seen := make(map[*sym.Symbol]source.Pos)

	for {
		p.skipSemis()
		if p.tok.Kind == token.RBRACE || p.tok.Kind == token.KW_FUN || p.tok.Kind == token.EOF {
			break
		}
		for _, f := range p.parseFieldSet() {
			if prior, dup := seen[f.Name]; dup {
				p.errorf(f.Pos(), "duplicate field %q (also declared at %s)", f.Name.String(), prior.String())
				continue
			}
			seen[f.Name] = f.Pos()
			fields = append(fields, f)
		}
	}

	interned := p.c.Types.Intern(ast.NewStructType(fields))
	st, ok := interned.(*ast.StructType)
	if !ok {
		st = ast.NewStructType(fields)
	}

	for {
		p.skipSemis()
		if p.tok.Kind == token.RBRACE || p.tok.Kind == token.EOF {
			break
		}
		if p.tok.Kind != token.KW_FUN {
			p.errorf(p.tok.Pos, "expected method or \"}\", got %s", p.tok.Kind)
			p.recoverTo(token.SEMI, token.RBRACE)
			continue
		}
		p.funDecl(st)
	}
	p.expect(token.RBRACE)
	return st
}
