// Package operator holds the flat, immutable catalog of symbolic
// operators the lexer and diagnostics subsystem consult. It is built
// once at process start and never mutated afterward.
package operator

import "sort"

// Category classifies an operator's semantic family.
type Category int

const (
	Arithmetic Category = iota
	Bitwise
	Comparison
	Assignment
	Pointer
	Memory
	Atomic
	Syscall
	Control
	Miscellaneous
)

func (c Category) String() string {
	switch c {
	case Arithmetic:
		return "arithmetic"
	case Bitwise:
		return "bitwise"
	case Comparison:
		return "comparison"
	case Assignment:
		return "assignment"
	case Pointer:
		return "pointer"
	case Memory:
		return "memory"
	case Atomic:
		return "atomic"
	case Syscall:
		return "syscall"
	case Control:
		return "control"
	default:
		return "miscellaneous"
	}
}

// Arity is the number of operands an operator takes.
type Arity int

const (
	Unary Arity = iota
	Binary
	Ternary
	NAry
)

// Assoc is associativity for binary operators.
type Assoc int

const (
	NoAssoc Assoc = iota
	LeftAssoc
	RightAssoc
)

// Position disambiguates operators whose literal symbol is reused in
// more than one syntactic position (e.g. "-" as prefix negation vs.
// infix subtraction).
type Position int

const (
	Prefix Position = iota
	Infix
	Postfix
)

// Descriptor is one entry in the registry.
type Descriptor struct {
	Symbol      string
	Category    Category
	Arity       Arity
	Precedence  int
	Assoc       Assoc
	Position    Position
	Description string
}

// Registry is the immutable, built-once operator catalog.
type Registry struct {
	entries []Descriptor
	bySym   map[string][]Descriptor // literal symbol -> all positional variants, insertion order
}

// New builds the registry from the static table below. Called once at
// core initialization; the result must be treated as read-only.
func New() *Registry {
	r := &Registry{
		entries: append([]Descriptor(nil), builtinTable...),
		bySym:   make(map[string][]Descriptor),
	}
	for _, d := range r.entries {
		r.bySym[d.Symbol] = append(r.bySym[d.Symbol], d)
	}
	return r
}

// Lookup returns the descriptor for an exact symbol match. When a
// symbol has more than one positional variant, the infix form wins by
// default — callers needing a specific position should use
// LookupPosition.
func (r *Registry) Lookup(symbol string) (Descriptor, bool) {
	variants, ok := r.bySym[symbol]
	if !ok || len(variants) == 0 {
		return Descriptor{}, false
	}
	for _, v := range variants {
		if v.Position == Infix {
			return v, true
		}
	}
	return variants[0], true
}

// LookupPosition returns the descriptor matching both symbol and
// syntactic position.
func (r *Registry) LookupPosition(symbol string, pos Position) (Descriptor, bool) {
	for _, v := range r.bySym[symbol] {
		if v.Position == pos {
			return v, true
		}
	}
	return Descriptor{}, false
}

// Iterate returns all descriptors in registration order.
func (r *Registry) Iterate() []Descriptor {
	return append([]Descriptor(nil), r.entries...)
}

// LongestMatch returns the descriptor whose symbol is the longest
// prefix of b, and how many bytes it consumed. This is the lexer's
// primary primitive (§4.1). When the matched symbol has more than one
// positional descriptor, the infix one is returned (otherwise the first
// registered); no position-based choice is made afterward, and the
// lexer stores this descriptor on the token as-is.
func (r *Registry) LongestMatch(b []byte) (Descriptor, int, bool) {
	best := Descriptor{}
	bestLen := 0
	found := false
	for sym, variants := range r.bySym {
		n := len(sym)
		if n == 0 || n > len(b) || n <= bestLen {
			continue
		}
		if string(b[:n]) == sym {
			best = variants[0]
			for _, v := range variants {
				if v.Position == Infix {
					best = v
					break
				}
			}
			bestLen = n
			found = true
		}
	}
	return best, bestLen, found
}

// sortedSymbols returns every distinct symbol in the registry, sorted.
func (r *Registry) sortedSymbols() []string {
	syms := make([]string, 0, len(r.bySym))
	for s := range r.bySym {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return syms
}

// AllDescriptorsBySymbol exposes one representative descriptor per
// distinct symbol, in registration order — used by the suggestion
// algorithm in internal/diag, which ranks by symbol rather than by
// positional variant.
func (r *Registry) AllDescriptorsBySymbol() []Descriptor {
	seen := make(map[string]bool, len(r.entries))
	out := make([]Descriptor, 0, len(r.bySym))
	for _, d := range r.entries {
		if seen[d.Symbol] {
			continue
		}
		seen[d.Symbol] = true
		out = append(out, d)
	}
	return out
}

// builtinTable is the static, compile-time operator catalog. Symbols
// are printable; most are 1-4 bytes, while the memory family uses
// longer "$name" spellings of up to 7 bytes.
var builtinTable = []Descriptor{
	// Arithmetic
	{"+", Arithmetic, Binary, 50, LeftAssoc, Infix, "addition"},
	{"-", Arithmetic, Binary, 50, LeftAssoc, Infix, "subtraction"},
	{"-", Arithmetic, Unary, 90, RightAssoc, Prefix, "negation"},
	{"*", Arithmetic, Binary, 60, LeftAssoc, Infix, "multiplication"},
	{"/", Arithmetic, Binary, 60, LeftAssoc, Infix, "division"},
	{"%", Arithmetic, Binary, 60, LeftAssoc, Infix, "modulo"},
	{"+%", Arithmetic, Binary, 50, LeftAssoc, Infix, "wrapping addition"},
	{"-%", Arithmetic, Binary, 50, LeftAssoc, Infix, "wrapping subtraction"},
	{"*%", Arithmetic, Binary, 60, LeftAssoc, Infix, "wrapping multiplication"},
	{"+|", Arithmetic, Binary, 50, LeftAssoc, Infix, "saturating addition"},
	{"-|", Arithmetic, Binary, 50, LeftAssoc, Infix, "saturating subtraction"},
	{"+?", Arithmetic, Binary, 50, LeftAssoc, Infix, "checked addition"},
	{"-?", Arithmetic, Binary, 50, LeftAssoc, Infix, "checked subtraction"},

	// Bitwise
	{"&", Bitwise, Binary, 30, LeftAssoc, Infix, "bitwise and"},
	{"|", Bitwise, Binary, 20, LeftAssoc, Infix, "bitwise or"},
	{"^", Bitwise, Binary, 25, LeftAssoc, Infix, "bitwise xor"},
	{"~", Bitwise, Unary, 90, RightAssoc, Prefix, "bitwise not"},
	{"<<", Bitwise, Binary, 40, LeftAssoc, Infix, "left shift"},
	{">>", Bitwise, Binary, 40, LeftAssoc, Infix, "arithmetic right shift"},
	{">>>", Bitwise, Binary, 40, LeftAssoc, Infix, "logical right shift"},
	{"<<<", Bitwise, Binary, 40, LeftAssoc, Infix, "rotate left"},
	{">>>>", Bitwise, Binary, 40, LeftAssoc, Infix, "rotate right"},

	// Comparison
	{"==", Comparison, Binary, 15, LeftAssoc, Infix, "equal"},
	{"!=", Comparison, Binary, 15, LeftAssoc, Infix, "not equal"},
	{"<", Comparison, Binary, 17, LeftAssoc, Infix, "less than"},
	{"<=", Comparison, Binary, 17, LeftAssoc, Infix, "less or equal"},
	{">", Comparison, Binary, 17, LeftAssoc, Infix, "greater than"},
	{">=", Comparison, Binary, 17, LeftAssoc, Infix, "greater or equal"},

	// Assignment
	{":=", Assignment, Binary, 5, RightAssoc, Infix, "declare and assign"},
	{"=", Assignment, Binary, 5, RightAssoc, Infix, "assign"},

	// Pointer
	{"@", Pointer, Unary, 90, RightAssoc, Prefix, "dereference"},
	{"&@", Pointer, Unary, 90, RightAssoc, Prefix, "address-of"},

	// Memory (desugaring surface)
	{"$alloc", Memory, Binary, 10, LeftAssoc, Infix, "heap allocate"},
	{"$free", Memory, Unary, 90, RightAssoc, Prefix, "heap deallocate"},
	{"$salloc", Memory, Unary, 90, RightAssoc, Prefix, "stack allocate"},
	{"$sfree", Memory, Unary, 90, RightAssoc, Prefix, "stack free"},
	{"$arena", Memory, Binary, 10, LeftAssoc, Infix, "arena allocate"},
	{"$areset", Memory, Unary, 90, RightAssoc, Prefix, "arena reset"},
	{"$slab", Memory, Binary, 10, LeftAssoc, Infix, "slab allocate"},
	{"$sfree2", Memory, Unary, 90, RightAssoc, Prefix, "slab free"},
	{"$mmio", Memory, Binary, 10, LeftAssoc, Infix, "mmio map"},
	{"$^", Memory, Binary, 10, LeftAssoc, Infix, "align up"},
	{"$v", Memory, Binary, 10, LeftAssoc, Infix, "align down"},
	{"$?", Memory, Binary, 10, LeftAssoc, Infix, "is aligned"},
	{"$pf", Memory, Unary, 90, RightAssoc, Prefix, "prefetch"},
	{"$pfw", Memory, Unary, 90, RightAssoc, Prefix, "prefetch for write"},

	// Atomic
	{"~@", Atomic, Unary, 90, RightAssoc, Prefix, "atomic read"},
	{"<~", Atomic, Binary, 10, LeftAssoc, Infix, "atomic store"},
	{"<~>", Atomic, Binary, 10, LeftAssoc, Infix, "atomic swap"},
	{"<=>", Atomic, Ternary, 10, LeftAssoc, Infix, "atomic compare-and-swap"},

	// Syscall
	{"$/", Syscall, Binary, 10, LeftAssoc, Infix, "write syscall"},
	{"/$", Syscall, Binary, 10, LeftAssoc, Infix, "read syscall"},
	{"$$", Syscall, NAry, 10, LeftAssoc, Infix, "raw syscall"},

	// Control / misc
	{"?", Control, Ternary, 8, RightAssoc, Infix, "ternary"},
	{",", Miscellaneous, Binary, 1, LeftAssoc, Infix, "comma"},
	{"!", Control, Unary, 90, RightAssoc, Prefix, "print"},
}
