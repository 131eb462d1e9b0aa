// Package scope implements the linear-probed scope stack described in
// spec.md §4.3: a single contiguous slice of (key, value) pairs with
// base-index markers delimiting each pushed scope. Lookups scan from the
// top down; recently defined identifiers are found fastest, which is the
// common case in practice since most references name something bound
// nearby.
package scope

// Stack is a scope stack. The zero Stack is empty and at top level
// (AtTopLevel() == true); Push/Pop must be balanced by the caller on
// every code path, including error recovery (spec.md §5). Keys and
// values are compared with ==, so callers should use pointer-identity
// keys (e.g. *sym.Symbol) the way the rest of the front-end does.
type Stack struct {
	ptr  []any // interleaved: ..., value, key, marker, value, key, ...
	base int
}

// Push opens a new scope nested inside the current one.
func (s *Stack) Push() {
	s.ptr = append(s.ptr, s.base)
	s.base = len(s.ptr) - 1
}

// Pop closes the current scope, discarding everything defined in it and
// restoring the parent scope's base.
func (s *Stack) Pop() {
	parentBase := s.ptr[s.base].(int)
	s.ptr = s.ptr[:s.base]
	s.base = parentBase
}

// AtTopLevel reports whether no scope is currently pushed.
func (s *Stack) AtTopLevel() bool {
	return s.base == 0 && len(s.ptr) == 0
}

// Define binds key to value in the current scope. Multiple definitions of
// the same key in the same scope are legal at this layer — shadowing
// policy (reject vs. allow) lives in the parser, which consults Lookup
// with maxDepth=0 to test "already defined in this scope" before calling
// Define (spec.md §4.4.5).
func (s *Stack) Define(key, value any) {
	// value then key, mirroring the original's "reverse" order so lookup
	// scans key, then reads the adjacent value without extra arithmetic.
	s.ptr = append(s.ptr, value, key)
}

// Lookup scans from the innermost scope outward, crossing at most
// maxDepth scope boundaries (maxDepth == 0 restricts the search to the
// current scope only). It returns the first matching value and true, or
// (nil, false) if key is not bound within range.
func (s *Stack) Lookup(key any, maxDepth uint32) (any, bool) {
	i := len(s.ptr) - 1
	base := s.base
	for i >= 0 {
		if i == base {
			if maxDepth == 0 {
				return nil, false
			}
			maxDepth--
			base = s.ptr[i].(int)
			i--
			continue
		}
		if s.ptr[i] == key {
			return s.ptr[i-1], true
		}
		i -= 2
	}
	return nil, false
}
