package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmofishsauce/co/internal/diag"
	"github.com/gmofishsauce/co/internal/scanner"
	"github.com/gmofishsauce/co/internal/source"
	"github.com/gmofishsauce/co/internal/sym"
	"github.com/gmofishsauce/co/internal/token"
)

func newScanner(t *testing.T, src string) (*scanner.Scanner, *diag.Sink) {
	t.Helper()
	var syms sym.Table
	var sink diag.Sink
	s := scanner.New(&sink, &syms)
	s.SetInput(source.NewInput("test.co", []byte(src)))
	return s, &sink
}

func kinds(t *testing.T, s *scanner.Scanner) []token.Kind {
	t.Helper()
	var out []token.Kind
	for {
		s.Next()
		out = append(out, s.Tok().Kind)
		if s.Tok().Kind == token.EOF {
			return out
		}
	}
}

func TestImplicitSemicolonAfterIdentifier(t *testing.T) {
	s, sink := newScanner(t, "a\nb")
	got := kinds(t, s)
	assert.Equal(t, []token.Kind{token.ID, token.SEMI, token.ID, token.SEMI, token.EOF}, got)
	assert.Empty(t, sink.Diagnostics())
}

func TestNoSemicolonAfterOperator(t *testing.T) {
	s, _ := newScanner(t, "a + \n b")
	got := kinds(t, s)
	assert.Equal(t, []token.Kind{token.ID, token.PLUS, token.ID, token.SEMI, token.EOF}, got)
}

func TestKeywordsReclassified(t *testing.T) {
	s, _ := newScanner(t, "fun type let var if else for return mut this")
	got := kinds(t, s)
	want := []token.Kind{
		token.KW_FUN, token.KW_TYPE, token.KW_LET, token.KW_VAR, token.KW_IF,
		token.KW_ELSE, token.KW_FOR, token.KW_RETURN, token.KW_MUT, token.KW_THIS,
		token.EOF,
	}
	assert.Equal(t, want, got)
}

func TestIntegerLiteralBases(t *testing.T) {
	cases := []struct {
		src  string
		want uint64
	}{
		{"0xFF", 0xFF},
		{"0b101", 0b101},
		{"0o17", 0o17},
		{"123", 123},
		{"1_000", 1000},
	}
	for _, c := range cases {
		s, sink := newScanner(t, c.src)
		s.Next()
		require.Equal(t, token.INTLIT, s.Tok().Kind, "src=%q", c.src)
		assert.Equal(t, c.want, s.Tok().IntVal, "src=%q", c.src)
		assert.Empty(t, sink.Diagnostics(), "src=%q", c.src)
	}
}

func TestIntegerOverflow(t *testing.T) {
	s, sink := newScanner(t, "0xFFFFFFFFFFFFFFFF")
	s.Next()
	require.Len(t, sink.Diagnostics(), 0, "no overflow yet")

	s2, sink2 := newScanner(t, "0xFFFFFFFFFFFFFFFFF") // one hex digit too many
	s2.Next()
	assert.NotEmpty(t, sink2.Diagnostics())
	_ = sink
}

func TestTrailingUnderscoreIsError(t *testing.T) {
	s, sink := newScanner(t, "0x1ff_")
	s.Next()
	require.NotEmpty(t, sink.Diagnostics())
	assert.Contains(t, sink.Diagnostics()[0].Message, "trailing")
}

func TestFloatLiteralRewind(t *testing.T) {
	s, sink := newScanner(t, "3.14")
	s.Next()
	require.Equal(t, token.FLOATLIT, s.Tok().Kind)
	assert.Equal(t, "+3.14", s.Tok().FloatLit)
	assert.Empty(t, sink.Diagnostics())
}

func TestLineComment(t *testing.T) {
	s, _ := newScanner(t, "a // comment\nb")
	got := kinds(t, s)
	assert.Equal(t, []token.Kind{token.ID, token.SEMI, token.ID, token.SEMI, token.EOF}, got)
}

func TestBlockCommentSlashStarSlashDoesNotClose(t *testing.T) {
	s, sink := newScanner(t, "/*/ still a comment */ a")
	got := kinds(t, s)
	assert.Equal(t, []token.Kind{token.ID, token.SEMI, token.EOF}, got)
	assert.Empty(t, sink.Diagnostics())
}

func TestUTF8Identifier(t *testing.T) {
	s, sink := newScanner(t, "café")
	s.Next()
	require.Equal(t, token.ID, s.Tok().Kind)
	assert.Equal(t, "café", s.Tok().Sym.String())
	assert.Empty(t, sink.Diagnostics())
}

func TestInvalidByteHalts(t *testing.T) {
	s, sink := newScanner(t, "@")
	got := kinds(t, s)
	require.NotEmpty(t, sink.Diagnostics())
	assert.Equal(t, []token.Kind{token.EOF}, got)
}

func TestInternStability(t *testing.T) {
	s, _ := newScanner(t, "foo foo")
	s.Next()
	first := s.Tok().Sym
	s.Next()
	require.Equal(t, token.ID, s.Tok().Kind)
	assert.Same(t, first, s.Tok().Sym)
}
