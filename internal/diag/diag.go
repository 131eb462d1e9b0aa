// Package diag implements the diagnostics sink described in spec.md §4.6
// and §6: diagnostics carry a source range, a severity, and a formatted
// message; the sink coalesces duplicates and otherwise makes no
// assumption about how they're presented. No diagnostic aborts parsing —
// error recovery is the parser's job, not the sink's.
package diag

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/gmofishsauce/co/internal/source"
)

// Severity is the level of a diagnostic.
type Severity int

const (
	Warn Severity = iota
	Err
)

func (s Severity) String() string {
	if s == Err {
		return "error"
	}
	return "warning"
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Range    source.Range
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Range.Focus, d.Severity, d.Message)
}

// key identifies diagnostics that should be coalesced: same focus
// position, same severity, same text. Two errors about the same token are
// almost always the same error reported twice during recovery.
type key struct {
	input   *source.Input
	line    uint32
	col     uint32
	sev     Severity
	message string
}

// Sink accumulates diagnostics for a compilation, deduplicating repeats
// and optionally mirroring them to a structured logger. The zero Sink is
// ready to use.
type Sink struct {
	// Logger, if non-nil, receives a structured log event per unique
	// diagnostic in addition to the in-memory record. This is the
	// "forward to host" half of spec.md §6 made concrete: the sink itself
	// still makes no presentation decisions, but gives a driver a ready
	// structured stream to subscribe to.
	Logger *zerolog.Logger

	seen  map[key]bool
	items []Diagnostic
}

// Report records a diagnostic, skipping it if an identical one (same
// position, severity and message) was already reported.
func (s *Sink) Report(rng source.Range, sev Severity, message string) {
	k := key{
		input:   rng.Focus.Input,
		line:    rng.Focus.Line,
		col:     rng.Focus.Col,
		sev:     sev,
		message: message,
	}
	if s.seen == nil {
		s.seen = make(map[key]bool)
	}
	if s.seen[k] {
		return
	}
	s.seen[k] = true

	d := Diagnostic{Range: rng, Severity: sev, Message: message}
	s.items = append(s.items, d)

	if s.Logger != nil {
		ev := s.Logger.Warn()
		if sev == Err {
			ev = s.Logger.Error()
		}
		ev.Str("pos", rng.Focus.String()).Msg(message)
	}
}

// Reportf is Report with fmt.Sprintf-style formatting.
func (s *Sink) Reportf(rng source.Range, sev Severity, format string, args ...any) {
	s.Report(rng, sev, fmt.Sprintf(format, args...))
}

// Errorf reports an error-severity diagnostic.
func (s *Sink) Errorf(rng source.Range, format string, args ...any) {
	s.Reportf(rng, Err, format, args...)
}

// Warnf reports a warning-severity diagnostic.
func (s *Sink) Warnf(rng source.Range, format string, args ...any) {
	s.Reportf(rng, Warn, format, args...)
}

// Diagnostics returns all recorded diagnostics in report order.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.items
}

// HasErrors reports whether any Err-severity diagnostic was recorded.
func (s *Sink) HasErrors() bool {
	for _, d := range s.items {
		if d.Severity == Err {
			return true
		}
	}
	return false
}

// SortByPosition orders the recorded diagnostics by source position; the
// sink itself reports in encounter order, but a host presenting results to
// a user usually wants them grouped by location.
func (s *Sink) SortByPosition() {
	sort.SliceStable(s.items, func(i, j int) bool {
		a, b := s.items[i].Range.Focus, s.items[j].Range.Focus
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
}
