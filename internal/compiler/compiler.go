// Package compiler models the compiler context described in spec.md §6:
// target configuration the parser reads but does not own (pointer size,
// the diagnostics sink, the process-wide symbol interner, and the
// compiler's typeid map, shared by every parser built on it). The driver/toolchain plumbing that builds a
// Config from CLI flags and spawns clang/lld lives in cmd/cofront and is
// deliberately thin — everything interesting is in internal/parser.
package compiler

import (
	"github.com/gmofishsauce/co/internal/ast"
	"github.com/gmofishsauce/co/internal/diag"
	"github.com/gmofishsauce/co/internal/sym"
	"github.com/gmofishsauce/co/internal/typeid"
	"github.com/gmofishsauce/co/internal/universe"
)

// Config is the target configuration a Compiler is built from.
type Config struct {
	// PtrSize is the target's pointer size in bytes (8 on every LLVM
	// target this front-end currently cares about; kept configurable
	// since pointer-shaped types derive their size/align from it,
	// spec.md §3).
	PtrSize uint64
}

// processSyms is the symbol interner shared by every Compiler.
var processSyms = &sym.Table{}

// DefaultConfig is the configuration used when a host doesn't override
// anything — a 64-bit target, matching every platform compis currently
// ships for.
func DefaultConfig() Config {
	return Config{PtrSize: 8}
}

// Compiler is the read-only context a parser is constructed against
// (spec.md §6's "Parser API": `parser-init(compiler)`). One Compiler may
// back many parsers running over many units, including concurrently
// (spec.md §5) — Syms and Types are safe for that; Sink and Methods are
// not synchronized.
type Compiler struct {
	Config Config

	Sink    *diag.Sink
	Syms    *sym.Table
	Types   *typeid.Interner
	Uni     *universe.Universe
	Methods *ast.MethodMap
}

// New builds a Compiler context. sink may be shared across many
// Compilers (e.g. one sink collecting diagnostics for a whole build).
// Every Compiler uses the one process-wide symbol Table, the table the
// process-wide universe's names are interned into; a fresh type Interner
// and method map are created here, so type identity is per Compiler.
func New(cfg Config, sink *diag.Sink) *Compiler {
	syms := processSyms
	return &Compiler{
		Config:  cfg,
		Sink:    sink,
		Syms:    syms,
		Types:   typeid.New(syms),
		Uni:     universe.Get(syms),
		Methods: ast.NewMethodMap(),
	}
}
