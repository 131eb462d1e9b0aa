// Package token defines the lexical token kinds produced by the scanner
// and the precedence table used to drive the Pratt parser (spec.md §4.1,
// §4.4).
package token

import (
	"sort"

	"github.com/gmofishsauce/co/internal/source"
	"github.com/gmofishsauce/co/internal/sym"
)

// Kind identifies a lexical token category.
type Kind int

const (
	EOF Kind = iota
	SEMI

	ID
	INTLIT
	FLOATLIT

	// Punctuation
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACK
	RBRACK
	COMMA
	DOT
	DOTDOT
	DOTDOTDOT
	HASH
	QUESTION
	COLON

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT

	AND // &
	OR  // |
	XOR // ^
	TILDE
	SHL // <<
	SHR // >>

	EQ  // ==
	NE  // !=
	LT  // <
	LE  // <=
	GT  // >
	GE  // >=

	LAND // &&
	LOR  // ||
	NOT  // !

	ASSIGN
	ADD_ASSIGN
	SUB_ASSIGN
	MUL_ASSIGN
	DIV_ASSIGN
	MOD_ASSIGN
	SHL_ASSIGN
	SHR_ASSIGN
	AND_ASSIGN
	XOR_ASSIGN
	OR_ASSIGN

	INC // ++
	DEC // --

	// Keywords
	KW_FUN
	KW_TYPE
	KW_LET
	KW_VAR
	KW_IF
	KW_ELSE
	KW_FOR
	KW_RETURN
	KW_MUT
	KW_THIS
)

var names = map[Kind]string{
	EOF: "EOF", SEMI: ";",
	ID: "identifier", INTLIT: "int literal", FLOATLIT: "float literal",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	LBRACK: "[", RBRACK: "]", COMMA: ",", DOT: ".",
	DOTDOT: "..", DOTDOTDOT: "...", HASH: "#", QUESTION: "?", COLON: ":",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	AND: "&", OR: "|", XOR: "^", TILDE: "~", SHL: "<<", SHR: ">>",
	EQ: "==", NE: "!=", LT: "<", LE: "<=", GT: ">", GE: ">=",
	LAND: "&&", LOR: "||", NOT: "!",
	ASSIGN: "=", ADD_ASSIGN: "+=", SUB_ASSIGN: "-=", MUL_ASSIGN: "*=",
	DIV_ASSIGN: "/=", MOD_ASSIGN: "%=", SHL_ASSIGN: "<<=", SHR_ASSIGN: ">>=",
	AND_ASSIGN: "&=", XOR_ASSIGN: "^=", OR_ASSIGN: "|=",
	INC: "++", DEC: "--",
	KW_FUN: "fun", KW_TYPE: "type", KW_LET: "let", KW_VAR: "var",
	KW_IF: "if", KW_ELSE: "else", KW_FOR: "for", KW_RETURN: "return",
	KW_MUT: "mut", KW_THIS: "this",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "<unknown token>"
}

// keywords maps keyword text to its Kind. Sorted lookup mirrors the
// teacher's binary search over a sorted keyword table (spec.md §4.1),
// reimplemented here with sort.Search over a slice built once at init.
type keywordEntry struct {
	text string
	kind Kind
}

var keywordTable = func() []keywordEntry {
	tab := []keywordEntry{
		{"else", KW_ELSE},
		{"for", KW_FOR},
		{"fun", KW_FUN},
		{"if", KW_IF},
		{"let", KW_LET},
		{"mut", KW_MUT},
		{"return", KW_RETURN},
		{"this", KW_THIS},
		{"type", KW_TYPE},
		{"var", KW_VAR},
	}
	sort.Slice(tab, func(i, j int) bool { return tab[i].text < tab[j].text })
	return tab
}()

// LookupKeyword returns (kind, true) if lit names a keyword, reclassifying
// an otherwise-ID token the way the scanner does once it has the full
// lexeme in hand.
func LookupKeyword(lit string) (Kind, bool) {
	i := sort.Search(len(keywordTable), func(i int) bool {
		return keywordTable[i].text >= lit
	})
	if i < len(keywordTable) && keywordTable[i].text == lit {
		return keywordTable[i].kind, true
	}
	return 0, false
}

// Token is one lexical unit: its kind, its source position, the literal
// bytes it was scanned from (borrowed from the input buffer), and for
// numeric literals, a decoded value.
type Token struct {
	Kind Kind
	Pos  source.Pos
	Lit  []byte   // borrowed from Input.Data; not valid past the scan
	Sym  *sym.Symbol // set for ID tokens

	IntVal   uint64 // set for INTLIT
	FloatLit string // textual form handed to strconv, set for FLOATLIT
}

// EndsStatement reports whether a token of this kind can legally end a
// statement — the set the scanner consults to decide whether to insert an
// implicit semicolon after a line break (spec.md §4.1).
func (k Kind) EndsStatement() bool {
	switch k {
	case RPAREN, RBRACK, RBRACE, ID, INTLIT, FLOATLIT, KW_RETURN:
		return true
	default:
		return false
	}
}

// Precedence ranks operators for the Pratt parser (spec.md §4.4). Higher
// binds tighter.
type Precedence int

const (
	Lowest Precedence = iota
	Comma
	Assign
	LogicalOr
	LogicalAnd
	BitwiseOr
	BitwiseXor
	BitwiseAnd
	Equal
	Compare
	Shift
	Add
	Mul
	UnaryPrefix
	UnaryPostfix
	Member
)

// InfixPrecedence returns the precedence of k used as an infix/postfix
// operator, or Lowest with ok=false if k is never infix.
func InfixPrecedence(k Kind) (Precedence, bool) {
	switch k {
	case COMMA:
		return Comma, true
	case ASSIGN, ADD_ASSIGN, SUB_ASSIGN, MUL_ASSIGN, DIV_ASSIGN, MOD_ASSIGN,
		SHL_ASSIGN, SHR_ASSIGN, AND_ASSIGN, XOR_ASSIGN, OR_ASSIGN:
		return Assign, true
	case LOR:
		return LogicalOr, true
	case LAND:
		return LogicalAnd, true
	case OR:
		return BitwiseOr, true
	case XOR:
		return BitwiseXor, true
	case AND:
		return BitwiseAnd, true
	case EQ, NE:
		return Equal, true
	case LT, LE, GT, GE:
		return Compare, true
	case SHL, SHR:
		return Shift, true
	case PLUS, MINUS:
		return Add, true
	case STAR, SLASH, PERCENT:
		return Mul, true
	case INC, DEC, LPAREN, LBRACK:
		return UnaryPostfix, true
	case DOT:
		return Member, true
	default:
		return Lowest, false
	}
}

// IsAssignOp reports whether k is one of the `=`/`+=`/... assignment
// operators.
func IsAssignOp(k Kind) bool {
	switch k {
	case ASSIGN, ADD_ASSIGN, SUB_ASSIGN, MUL_ASSIGN, DIV_ASSIGN, MOD_ASSIGN,
		SHL_ASSIGN, SHR_ASSIGN, AND_ASSIGN, XOR_ASSIGN, OR_ASSIGN:
		return true
	default:
		return false
	}
}
