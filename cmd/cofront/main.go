// cofront - co front-end driver
//
// Usage: cofront [flags] file.co
//
// Reads a single .co source file, runs the scanner and parser over it, and
// prints the accumulated diagnostics and, with -ast, the resulting
// declarations.
// This is deliberately thin: everything interesting lives in
// internal/parser. cofront exists so the front-end can be exercised
// standalone, ahead of the LLVM/Clang backend and multi-call driver binary
// that are out of scope for this module.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/width"

	"github.com/gmofishsauce/co/internal/ast"
	"github.com/gmofishsauce/co/internal/compiler"
	"github.com/gmofishsauce/co/internal/diag"
	"github.com/gmofishsauce/co/internal/parser"
	"github.com/gmofishsauce/co/internal/source"
)

var (
	dumpAST = flag.Bool("ast", false, "also print a one-line summary of each parsed top-level declaration")
	verbose = flag.Bool("v", false, "log parse progress to stderr")
	ptrSize = flag.Uint64("ptrsize", 8, "target pointer size in bytes")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] file.co\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "cofront: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if !*verbose {
		logger = logger.Level(zerolog.Disabled)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	logger.Info().Str("file", path).Int("bytes", len(data)).Msg("file loaded")

	sink := &diag.Sink{Logger: &logger}
	cfg := compiler.DefaultConfig()
	cfg.PtrSize = *ptrSize
	c := compiler.New(cfg, sink)

	p, err := parser.New(c)
	if err != nil {
		return fmt.Errorf("initializing parser: %w", err)
	}
	defer p.Dispose()

	arena := ast.NewArena()
	in := source.NewInput(path, data)

	logger.Info().Msg("parse started")
	unit := p.Parse(arena, in)
	logger.Info().Int("decls", len(unit.Decls)).Msg("parse finished")

	sink.SortByPosition()
	printDiagnostics(os.Stderr, data, sink.Diagnostics())

	if *dumpAST {
		for _, d := range unit.Decls {
			fmt.Println(describeDecl(d))
		}
	}

	if sink.HasErrors() {
		return fmt.Errorf("%s: parse failed", path)
	}
	return nil
}

// printDiagnostics renders each diagnostic as a ripgrep/gcc-style line
// followed by the offending source line and a caret underneath it. Column
// alignment accounts for full-width source runes (spec.md's identifiers
// allow non-ASCII UTF-8) so the caret lands under the right character
// rather than the right byte.
func printDiagnostics(w *os.File, src []byte, items []diag.Diagnostic) {
	lines := strings.Split(string(src), "\n")
	for _, d := range items {
		fmt.Fprintln(w, d.String())

		lineIdx := int(d.Range.Focus.Line) - 1
		if lineIdx < 0 || lineIdx >= len(lines) {
			continue
		}
		line := lines[lineIdx]
		fmt.Fprintln(w, line)
		fmt.Fprintln(w, caretUnder(line, int(d.Range.Focus.Col)))
	}
}

// caretUnder builds a "    ^" line whose caret sits under byte column col
// (1-based, as the scanner counts columns) of line, double-padding under
// any East Asian wide/fullwidth rune that precedes it so the visual
// alignment holds in a monospace terminal.
func caretUnder(line string, col int) string {
	var b strings.Builder
	col0 := col - 1
	for i, r := range line {
		if i >= col0 {
			break
		}
		w := 1
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w = 2
		}
		for ; w > 0; w-- {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('^')
	return b.String()
}

func describeDecl(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Fun:
		return fmt.Sprintf("fun %s: %s", v.Name.String(), typeName(v.Type))
	case *ast.Typedef:
		return fmt.Sprintf("type %s: %s", v.Name.String(), typeName(v.Type))
	case *ast.LocalDecl:
		return fmt.Sprintf("let/var %s: %s", v.Name.String(), typeName(v.Type))
	case *ast.Bad:
		return "<bad decl>"
	default:
		return fmt.Sprintf("%T", n)
	}
}

func typeName(t ast.Type) string {
	if t == nil {
		return "void"
	}
	if tid := t.Tid(); tid != nil {
		return tid.String()
	}
	return fmt.Sprintf("%T", t)
}
