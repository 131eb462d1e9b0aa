package parser

import (
	"strconv"

	"github.com/gmofishsauce/co/internal/ast"
	"github.com/gmofishsauce/co/internal/source"
	"github.com/gmofishsauce/co/internal/sym"
	"github.com/gmofishsauce/co/internal/token"
)

var exprRules map[token.Kind]exprRule

func init() {
	exprRules = map[token.Kind]exprRule{
		token.ID:       {prefix: (*Parser).parseIdentExpr},
		token.KW_THIS:  {prefix: (*Parser).parseIdentExpr},
		token.INTLIT:   {prefix: (*Parser).parseIntLitExpr},
		token.FLOATLIT: {prefix: (*Parser).parseFloatLitExpr},
		token.KW_IF:    {prefix: (*Parser).parseIfExpr},
		token.KW_FOR:   {prefix: (*Parser).parseForExpr},
		token.KW_RETURN: {prefix: (*Parser).parseReturnExpr},
		token.KW_LET:   {prefix: (*Parser).parseLetExpr},
		token.KW_VAR:   {prefix: (*Parser).parseVarExpr},
		token.LBRACE:   {prefix: (*Parser).parseBlockExpr},
		token.LPAREN:   {prefix: (*Parser).parseParenExpr, infix: (*Parser).parseCallExpr, prec: token.UnaryPostfix},

		token.PLUS:  {prefix: (*Parser).parsePrefixExpr, infix: (*Parser).parseBinaryExpr, prec: token.Add},
		token.MINUS: {prefix: (*Parser).parsePrefixExpr, infix: (*Parser).parseBinaryExpr, prec: token.Add},
		token.STAR:  {prefix: (*Parser).parsePrefixExpr, infix: (*Parser).parseBinaryExpr, prec: token.Mul},
		token.SLASH: {infix: (*Parser).parseBinaryExpr, prec: token.Mul},
		token.PERCENT: {infix: (*Parser).parseBinaryExpr, prec: token.Mul},

		token.AND: {prefix: (*Parser).parsePrefixExpr, infix: (*Parser).parseBinaryExpr, prec: token.BitwiseAnd},
		token.OR:  {infix: (*Parser).parseBinaryExpr, prec: token.BitwiseOr},
		token.XOR: {infix: (*Parser).parseBinaryExpr, prec: token.BitwiseXor},
		token.TILDE: {prefix: (*Parser).parsePrefixExpr},
		token.SHL: {infix: (*Parser).parseBinaryExpr, prec: token.Shift},
		token.SHR: {infix: (*Parser).parseBinaryExpr, prec: token.Shift},

		token.EQ: {infix: (*Parser).parseBinaryExpr, prec: token.Equal},
		token.NE: {infix: (*Parser).parseBinaryExpr, prec: token.Equal},
		token.LT: {infix: (*Parser).parseBinaryExpr, prec: token.Compare},
		token.LE: {infix: (*Parser).parseBinaryExpr, prec: token.Compare},
		token.GT: {infix: (*Parser).parseBinaryExpr, prec: token.Compare},
		token.GE: {infix: (*Parser).parseBinaryExpr, prec: token.Compare},

		token.LAND: {infix: (*Parser).parseBinaryExpr, prec: token.LogicalAnd},
		token.LOR:  {infix: (*Parser).parseBinaryExpr, prec: token.LogicalOr},
		token.NOT:  {prefix: (*Parser).parsePrefixExpr},

		token.ASSIGN:     {infix: (*Parser).parseBinaryExpr, prec: token.Assign},
		token.ADD_ASSIGN: {infix: (*Parser).parseBinaryExpr, prec: token.Assign},
		token.SUB_ASSIGN: {infix: (*Parser).parseBinaryExpr, prec: token.Assign},
		token.MUL_ASSIGN: {infix: (*Parser).parseBinaryExpr, prec: token.Assign},
		token.DIV_ASSIGN: {infix: (*Parser).parseBinaryExpr, prec: token.Assign},
		token.MOD_ASSIGN: {infix: (*Parser).parseBinaryExpr, prec: token.Assign},
		token.SHL_ASSIGN: {infix: (*Parser).parseBinaryExpr, prec: token.Assign},
		token.SHR_ASSIGN: {infix: (*Parser).parseBinaryExpr, prec: token.Assign},
		token.AND_ASSIGN: {infix: (*Parser).parseBinaryExpr, prec: token.Assign},
		token.XOR_ASSIGN: {infix: (*Parser).parseBinaryExpr, prec: token.Assign},
		token.OR_ASSIGN:  {infix: (*Parser).parseBinaryExpr, prec: token.Assign},

		token.COMMA: {infix: (*Parser).parseBinaryExpr, prec: token.Comma},

		token.INC: {prefix: (*Parser).parsePrefixExpr, infix: (*Parser).parsePostfixExpr, prec: token.UnaryPostfix},
		token.DEC: {prefix: (*Parser).parsePrefixExpr, infix: (*Parser).parsePostfixExpr, prec: token.UnaryPostfix},

		token.DOT:    {prefix: (*Parser).parseDotShorthandExpr, infix: (*Parser).parseMemberExpr, prec: token.Member},
		token.LBRACK: {infix: (*Parser).parseSubscriptExpr, prec: token.UnaryPostfix},

		token.KW_MUT: {prefix: (*Parser).parsePrefixExpr},
	}
}

func (p *Parser) parseParenExpr(flags ExprFlags) ast.Node {
	p.next() // consume (
	inner := p.expr(token.Lowest, flags)
	p.expect(token.RPAREN)
	return inner
}

// parseIdentExpr resolves an identifier through the local/package/universe
// chain (spec.md §4.4.5). `true`/`false` are special-cased here: the
// keyword list has no boolean-literal tokens, so the scanner hands them
// over as ordinary identifiers and the universe recognizes the two names.
func (p *Parser) parseIdentExpr(flags ExprFlags) ast.Node {
	pos := p.tok.Pos
	sy := p.tok.Sym
	p.next()

	if sy != nil {
		if b, ok := p.c.Uni.LookupBoolConst(sy); ok {
			return p.arena.NewBoolLit(pos, b)
		}
	}

	id := p.arena.NewIdent(pos)
	id.Name = sy
	if flags.Has(ExprRValue) {
		id.AddFlags(ast.FlagRValue)
	}

	ref, ok := p.lookup(sy)
	if !ok {
		p.errorf(pos, "undeclared identifier %q", sy.String())
		return id
	}
	id.Ref = ref
	bumpRefs(ref)

	switch t := ref.(type) {
	case *ast.LocalDecl:
		id.Type = t.Type
	case *ast.Param:
		id.Type = t.Type
	case *ast.Field:
		id.Type = t.Type
	case *ast.Fun:
		id.Type = t.Type
	case ast.Type:
		id.Type = t
	}
	return id
}

func isIntegerKind(k ast.Kind) bool {
	switch k {
	case ast.I8, ast.I16, ast.I32, ast.I64, ast.U8, ast.U16, ast.U32, ast.U64, ast.Int, ast.Uint:
		return true
	default:
		return false
	}
}

func integerMax(bt *ast.BasicType, neg bool) uint64 {
	bits := bt.Size() * 8
	if bits >= 64 {
		if bt.Unsigned() {
			return ^uint64(0)
		}
		if neg {
			return uint64(1) << 63
		}
		return uint64(1)<<63 - 1
	}
	if bt.Unsigned() {
		return uint64(1)<<bits - 1
	}
	if neg {
		return uint64(1) << (bits - 1)
	}
	return uint64(1)<<(bits-1) - 1
}

// selectIntType chooses an integer literal's type: the narrowing type
// context if one is pushed, else the smallest of int/i64/u64 that fits
// (spec.md §4.4.3, §9).
//
// Under an integer context type, the overflow check compares val directly
// against the maximum integerMax derives from that type's width and
// signedness.
func (p *Parser) selectIntType(pos source.Pos, val uint64, neg bool) ast.Type {
	if bt, ok := p.curTypeCtx().(*ast.BasicType); ok && isIntegerKind(bt.Kind()) {
		max := integerMax(bt, neg)
		if val > max {
			p.errorf(pos, "integer literal overflows %s", typeDisplayName(bt))
		}
		return bt
	}

	switch {
	case !neg && val <= uint64(1)<<31-1:
		return p.c.Uni.Int
	case neg && val <= uint64(1)<<31:
		return p.c.Uni.Int
	case neg && val <= uint64(1)<<63:
		return p.c.Uni.I64
	case !neg && val <= uint64(1)<<63-1:
		return p.c.Uni.I64
	default:
		return p.c.Uni.U64
	}
}

func (p *Parser) parseIntLitExpr(flags ExprFlags) ast.Node {
	pos := p.tok.Pos
	val := p.tok.IntVal
	p.next()
	n := p.arena.NewIntLit(pos)
	n.Value = val
	n.Type = p.selectIntType(pos, val, false)
	return n
}

func (p *Parser) parseFloatLitExpr(flags ExprFlags) ast.Node {
	return p.parseFloatLitImpl(false)
}

func (p *Parser) parseFloatLitImpl(neg bool) ast.Node {
	pos := p.tok.Pos
	raw := p.tok.FloatLit
	if neg && len(raw) > 0 {
		b := []byte(raw)
		b[0] = '-'
		raw = string(b)
	}
	p.next()

	n := p.arena.NewFloatLit(pos)
	n.Raw = raw

	bits := 64
	if bt, ok := p.curTypeCtx().(*ast.BasicType); ok && bt.Kind() == ast.F32 {
		bits = 32
		n.Type = p.c.Uni.F32
	} else {
		n.Type = p.c.Uni.F64
	}
	v, err := strconv.ParseFloat(raw, bits)
	if err != nil {
		p.errorf(pos, "invalid float literal %q", raw)
	}
	n.Value = v
	return n
}

// parsePrefixExpr is the shared prefix handler for every unary-prefix
// token: `!`, `~`, `-`, `+`, `++`, `--`, `&`, `mut &`, `*`.
func (p *Parser) parsePrefixExpr(flags ExprFlags) ast.Node {
	pos := p.tok.Pos
	op := p.tok.Kind
	p.next()

	switch op {
	case token.MINUS:
		if p.tok.Kind == token.INTLIT {
			litPos := p.tok.Pos
			val := p.tok.IntVal
			p.next()
			lit := p.arena.NewIntLit(litPos)
			lit.Value = val
			lit.Type = p.selectIntType(litPos, val, true)
			n := p.arena.NewPrefixOp(pos)
			n.Op = op
			n.X = lit
			n.Type = lit.Type
			return n
		}
		if p.tok.Kind == token.FLOATLIT {
			fl := p.parseFloatLitImpl(true)
			n := p.arena.NewPrefixOp(pos)
			n.Op = op
			n.X = fl
			n.Type = exprType(fl)
			return n
		}
	case token.AND:
		return p.parseAddrExpr(pos, false, flags)
	case token.KW_MUT:
		if _, ok := p.expect(token.AND); !ok {
			return p.arena.NewBad(pos)
		}
		return p.parseAddrExpr(pos, true, flags)
	case token.STAR:
		return p.parseDerefExpr(pos, flags)
	}

	x := p.expr(token.UnaryPrefix, flags)
	n := p.arena.NewPrefixOp(pos)
	n.Op = op
	n.X = x
	if op == token.NOT {
		n.Type = p.c.Uni.Bool
	} else {
		n.Type = exprType(x)
	}
	return n
}

func (p *Parser) parseAddrExpr(pos source.Pos, mutable bool, flags ExprFlags) ast.Node {
	x := p.expr(token.UnaryPrefix, flags)
	addr := p.arena.NewAddr(pos)
	addr.Mutable = mutable
	addr.X = x

	xt := exprType(x)
	if !ast.IsStorage(x) {
		p.errorf(pos, "cannot take the address of a non-storage expression")
		addr.Type = p.c.Uni.Unknown
		return addr
	}
	if mutable && !ast.IsMutableStorage(x) {
		p.errorf(pos, "cannot take a mutable reference to an immutable binding")
	}
	if rt, ok := xt.(*ast.RefType); ok && (rt.Kind() == ast.Ref || rt.Kind() == ast.MutRef) {
		p.errorf(pos, "cannot take a reference to a value that is already a reference")
	}
	if xt == nil {
		xt = p.c.Uni.Unknown
	}
	kind := ast.Ref
	if mutable {
		kind = ast.MutRef
	}
	addr.Type = p.c.Types.Intern(ast.NewRefType(kind, xt, p.c.Config.PtrSize))
	return addr
}

// parseDerefExpr parses `*expr` (spec.md §8 scenario 6: dereferencing a
// non-reference value reports an error and yields Void rather than
// panicking).
func (p *Parser) parseDerefExpr(pos source.Pos, flags ExprFlags) ast.Node {
	x := p.expr(token.UnaryPrefix, flags)
	d := p.arena.NewDeref(pos)
	d.X = x

	xt := exprType(x)
	rt, ok := xt.(*ast.RefType)
	if !ok {
		p.errorf(pos, "dereferencing non-reference value of type %s", typeDisplayName(xt))
		d.Type = p.c.Uni.Void
		return d
	}
	d.Type = rt.Elem
	return d
}

func (p *Parser) parsePostfixExpr(left ast.Node, flags ExprFlags) ast.Node {
	pos := p.tok.Pos
	op := p.tok.Kind
	p.next()

	n := p.arena.NewPostfixOp(pos)
	n.Op = op
	n.X = left
	if !ast.IsStorage(left) {
		p.errorf(pos, "operand of %s must be a storage expression", op)
	}
	n.Type = exprType(left)
	return n
}

func binOpResultType(p *Parser, op token.Kind, left ast.Node) ast.Type {
	switch op {
	case token.EQ, token.NE, token.LT, token.LE, token.GT, token.GE, token.LAND, token.LOR:
		return p.c.Uni.Bool
	default:
		if t := exprType(left); t != nil {
			return t
		}
		return p.c.Uni.Unknown
	}
}

// parseBinaryExpr is the shared infix handler for every binary operator,
// including assignment. An assignment's left-hand side is not checked for
// being a storage expression, nor for mutability, at parse time.
func (p *Parser) parseBinaryExpr(left ast.Node, flags ExprFlags) ast.Node {
	pos := p.tok.Pos
	op := p.tok.Kind
	prec, _ := token.InfixPrecedence(op)
	p.next()

	right := p.expr(prec+1, flags)
	n := p.arena.NewBinOp(pos)
	n.Op = op
	n.X = left
	n.Y = right
	n.Type = binOpResultType(p, op, left)
	return n
}

// parseCallExpr parses `expr(args)`. When expr names a type rather than a
// function, this is a cast (one argument) or a struct constructor (one
// argument per field) instead of a call (spec.md §4.4.3).
func (p *Parser) parseCallExpr(left ast.Node, flags ExprFlags) ast.Node {
	pos := p.tok.Pos
	p.next() // consume (

	call := p.arena.NewCall(pos)
	call.Fun = left

	var paramTypes []ast.Type
	if ft, ok := exprType(left).(*ast.FuncType); ok {
		for _, prm := range ft.Params {
			if prm.IsThis {
				continue
			}
			paramTypes = append(paramTypes, prm.Type)
		}
		call.Type = ft.Result
	} else if id, ok := left.(*ast.Ident); ok {
		if t, ok := id.Ref.(ast.Type); ok {
			call.Type = t
			if st, ok := t.(*ast.StructType); ok {
				for _, f := range st.Fields {
					paramTypes = append(paramTypes, f.Type)
				}
			}
		}
	}

	var args []ast.Node
	i := 0
	for p.tok.Kind != token.RPAREN && p.tok.Kind != token.EOF {
		if i < len(paramTypes) {
			p.pushTypeCtx(paramTypes[i])
		}
		args = append(args, p.expr(token.Assign+1, flags|ExprRValue))
		if i < len(paramTypes) {
			p.popTypeCtx()
		}
		i++
		if p.tok.Kind == token.COMMA {
			p.next()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	call.Args = args

	if call.Type == nil {
		p.errorf(pos, "cannot call a value of non-function, non-type expression")
		call.Type = p.c.Uni.Unknown
	}
	return call
}

// resolveMember looks up name as a field (or, failing that, a method) of
// xt's struct shape — unwrapping one layer of reference first, since
// `.` implicitly dereferences (spec.md §4.4.3, §4.4.6).
func (p *Parser) resolveMember(pos source.Pos, xt ast.Type, name *sym.Symbol) (ast.Type, ast.Node) {
	base := xt
	if rt, ok := xt.(*ast.RefType); ok {
		base = rt.Elem
	}
	if st, ok := base.(*ast.StructType); ok {
		for _, f := range st.Fields {
			if f.Name == name {
				return f.Type, f
			}
		}
		if fn, ok := p.c.Methods.Lookup(st, name); ok {
			return fn.Type, fn
		}
	}
	p.errorf(pos, "type %s has no field or method %q", typeDisplayName(xt), name.String())
	return p.c.Uni.Unknown, nil
}

func (p *Parser) parseMemberExpr(left ast.Node, flags ExprFlags) ast.Node {
	pos := p.tok.Pos
	p.next() // consume .
	if p.tok.Kind != token.ID {
		p.errorf(p.tok.Pos, "expected field or method name, got %s", p.tok.Kind)
		return p.arena.NewBad(pos)
	}
	name := p.tok.Sym
	p.next()

	m := p.arena.NewMember(pos)
	m.X = left
	m.Name = name
	m.Type, m.Ref = p.resolveMember(pos, exprType(left), name)
	return m
}

// parseDotShorthandExpr parses the `.name` shorthand for `dotctx.name`
// inside a method body (spec.md's glossary entry for "dot-context").
func (p *Parser) parseDotShorthandExpr(flags ExprFlags) ast.Node {
	pos := p.tok.Pos
	p.next() // consume .
	if p.tok.Kind != token.ID {
		p.errorf(pos, "expected field or method name after \".\"")
		return p.arena.NewBad(pos)
	}
	name := p.tok.Sym
	p.next()

	if len(p.dotCtx) == 0 {
		p.errorf(pos, "\".%s\" used outside a method body", name.String())
		return p.arena.NewBad(pos)
	}
	ctx := p.dotCtx[len(p.dotCtx)-1]
	recv := p.arena.NewIdent(pos)
	if prm, ok := ctx.(*ast.Param); ok {
		recv.Name = prm.Name
		recv.Ref = prm
		recv.Type = prm.Type
		bumpRefs(prm)
	}

	m := p.arena.NewMember(pos)
	m.X = recv
	m.Name = name
	m.Type, m.Ref = p.resolveMember(pos, recv.Type, name)
	return m
}

// parseSubscriptExpr reports the reserved-but-unimplemented subscript
// syntax as a diagnostic rather than silently mis-parsing it (spec.md §9
// Open Question).
func (p *Parser) parseSubscriptExpr(left ast.Node, flags ExprFlags) ast.Node {
	pos := p.tok.Pos
	p.errorf(pos, "subscript expressions are reserved and not yet implemented")
	p.recoverTo(token.RBRACK, token.SEMI, token.RBRACE)
	if p.tok.Kind == token.RBRACK {
		p.next()
	}
	return p.arena.NewBad(pos)
}

func (p *Parser) parseBlockExpr(flags ExprFlags) ast.Node {
	return p.parseBlock(flags)
}

// parseBlock parses `{ stmt* }` (spec.md §4.4.4): the last statement's
// is-rvalue bit tracks whether the block itself is used as a value, a
// `return` sets the exits flag and stops rvalue propagation at the
// statement just before it, and any statement appearing after that first
// `return` earns exactly one unreachable-code warning per block.
func (p *Parser) parseBlock(flags ExprFlags) *ast.Block {
	pos := p.tok.Pos
	p.expect(token.LBRACE)

	blk := p.arena.NewBlock(pos)
	p.scopes.Push()

	var stmts []ast.Node
	exitIdx := -1
	warned := false
	for {
		p.skipSemis()
		if p.tok.Kind == token.RBRACE || p.tok.Kind == token.EOF {
			break
		}
		if exitIdx >= 0 && !warned {
			p.warnf(p.tok.Pos, "unreachable code")
			warned = true
		}
		s := p.stmt()
		stmts = append(stmts, s)
		if _, ok := s.(*ast.Return); ok && exitIdx < 0 {
			exitIdx = len(stmts) - 1
		}
	}
	p.expect(token.RBRACE)
	p.scopes.Pop()

	blk.Stmts = stmts
	switch {
	case exitIdx >= 0:
		blk.AddFlags(ast.FlagExits)
		if exitIdx > 0 {
			stmts[exitIdx-1].ClearFlags(ast.FlagRValue)
		}
		blk.Type = p.c.Uni.Void
	case len(stmts) > 0:
		last := stmts[len(stmts)-1]
		if flags.Has(ExprRValue) {
			last.AddFlags(ast.FlagRValue)
			if t := exprType(last); t != nil {
				blk.Type = t
			} else {
				blk.Type = p.c.Uni.Void
			}
		} else {
			last.ClearFlags(ast.FlagRValue)
			blk.Type = p.c.Uni.Void
		}
	default:
		blk.Type = p.c.Uni.Void
	}
	return blk
}

// parseIfExpr parses `if COND BLOCK (else (if ... | BLOCK))?`, including
// `if let NAME = expr BLOCK` and the optional-narrowing rewrite applied to
// a bare identifier condition (spec.md §4.4.3).
func (p *Parser) parseIfExpr(flags ExprFlags) ast.Node {
	pos := p.tok.Pos
	p.next() // consume if

	ifLet := false
	var letName *sym.Symbol
	var letPos source.Pos
	if p.tok.Kind == token.KW_LET {
		ifLet = true
		p.next()
		if p.tok.Kind != token.ID {
			p.errorf(p.tok.Pos, "expected identifier after \"if let\"")
		} else {
			letPos = p.tok.Pos
			letName = p.tok.Sym
			p.next()
		}
		p.expect(token.ASSIGN)
	}

	cond := p.expr(token.Lowest, ExprRValue)
	ifNode := p.arena.NewIf(pos)
	ifNode.Cond = cond

	condType := exprType(cond)
	var narrowedElem ast.Type
	if opt, ok := condType.(*ast.OptionalType); ok {
		narrowedElem = opt.Elem
	} else if condType != nil && condType != p.c.Uni.Bool {
		p.errorf(pos, "condition must be bool or optional, got %s", typeDisplayName(condType))
	}

	p.scopes.Push()
	if ifLet && letName != nil {
		decl := p.arena.NewLocalDecl(letPos, ast.Let)
		decl.Name = letName
		if narrowedElem != nil {
			decl.Type = narrowedElem
		} else {
			decl.Type = condType
		}
		decl.Init = cond
		decl.AddFlags(ast.FlagOptionalNarrowed)
		p.define(letPos, letName, decl)
	} else if id, ok := cond.(*ast.Ident); ok && narrowedElem != nil && id.Ref != nil {
		clone := p.arena.CloneNode(id.Ref)
		switch c := clone.(type) {
		case *ast.LocalDecl:
			c.Type = narrowedElem
			c.AddFlags(ast.FlagShadowsOptional)
			p.defineReplace(id.Name, c)
		case *ast.Param:
			c.Type = narrowedElem
			c.AddFlags(ast.FlagShadowsOptional)
			p.defineReplace(id.Name, c)
		}
	}
	ifNode.Then = p.parseBlock(flags)
	p.scopes.Pop()

	if p.tok.Kind == token.KW_ELSE {
		p.next()
		if p.tok.Kind == token.KW_IF {
			ifNode.Else = p.parseIfExpr(flags)
		} else {
			ifNode.Else = p.parseBlockExpr(flags)
		}
	}

	if ifNode.Else != nil {
		ifNode.Type = exprType(ifNode.Then)
		if ifNode.Type == nil {
			ifNode.Type = p.c.Uni.Void
		}
	} else {
		ifNode.Type = p.c.Uni.Void
	}
	return ifNode
}

// parseForExpr parses all three `for` variants sharing one node (spec.md
// §4.4.3): bare `for COND BLOCK`, `for ; COND ; STEP BLOCK`, and
// `for INIT ; COND ; STEP BLOCK`. A parenthesized head is accepted too.
func (p *Parser) parseForExpr(flags ExprFlags) ast.Node {
	pos := p.tok.Pos
	p.next() // consume for

	parens := false
	if p.tok.Kind == token.LPAREN {
		parens = true
		p.next()
	}

	p.scopes.Push()
	forNode := p.arena.NewFor(pos)

	switch {
	case p.tok.Kind == token.SEMI:
		p.next()
		if p.tok.Kind != token.SEMI {
			forNode.Cond = p.expr(token.Lowest, ExprRValue)
		}
		p.expect(token.SEMI)
		if p.tok.Kind != token.LBRACE && !(parens && p.tok.Kind == token.RPAREN) {
			forNode.Step = p.expr(token.Lowest, 0)
		}
	case p.tok.Kind == token.LBRACE || (parens && p.tok.Kind == token.RPAREN):
		// bodyless condition: `for {}` loops forever.
	default:
		first := p.expr(token.Lowest, ExprRValue)
		if p.tok.Kind == token.SEMI {
			forNode.Init = first
			p.next()
			if p.tok.Kind != token.SEMI {
				forNode.Cond = p.expr(token.Lowest, ExprRValue)
			}
			p.expect(token.SEMI)
			if p.tok.Kind != token.LBRACE && !(parens && p.tok.Kind == token.RPAREN) {
				forNode.Step = p.expr(token.Lowest, 0)
			}
		} else {
			forNode.Cond = first
		}
	}

	if parens {
		p.expect(token.RPAREN)
	}
	forNode.Body = p.parseBlock(0)
	p.scopes.Pop()
	return forNode
}

func (p *Parser) parseReturnExpr(flags ExprFlags) ast.Node {
	pos := p.tok.Pos
	p.next() // consume return
	r := p.arena.NewReturn(pos)
	if p.tok.Kind != token.SEMI && p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
		r.Value = p.expr(token.Lowest, ExprRValue)
	}
	return r
}

func (p *Parser) parseLetExpr(flags ExprFlags) ast.Node { return p.parseLocalDecl(ast.Let) }
func (p *Parser) parseVarExpr(flags ExprFlags) ast.Node { return p.parseLocalDecl(ast.Var) }

// parseLocalDecl parses `let`/`var NAME TYPE? (= expr)?` (spec.md
// §4.4.1, §4.4.5).
func (p *Parser) parseLocalDecl(kind ast.Kind) ast.Node {
	pos := p.tok.Pos
	p.next() // consume let/var

	if p.tok.Kind != token.ID {
		p.errorf(p.tok.Pos, "expected identifier, got %s", p.tok.Kind)
		p.recoverTo(token.SEMI, token.RBRACE)
		return p.arena.NewBad(pos)
	}
	name := p.tok.Sym
	p.next()

	var declType ast.Type
	if p.tok.Kind != token.ASSIGN && (p.isTypeStart(p.tok.Kind) || p.tok.Kind == token.LBRACE) {
		declType = p.parseType(token.Lowest)
	}

	decl := p.arena.NewLocalDecl(pos, kind)
	decl.Name = name
	decl.Type = declType

	if p.tok.Kind == token.ASSIGN {
		p.next()
		if declType != nil {
			p.pushTypeCtx(declType)
		}
		init := p.expr(token.Assign+1, ExprRValue)
		if declType != nil {
			p.popTypeCtx()
		}
		decl.Init = init
		if decl.Type == nil {
			decl.Type = exprType(init)
		}
	}
	if decl.Type == nil {
		decl.Type = p.c.Uni.Unknown
	}

	p.define(pos, name, decl)
	return decl
}
