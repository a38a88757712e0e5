// Package diag implements the structured diagnostics subsystem (C3):
// an accumulating, capped error list with source positions, a
// similarity-based operator suggestion engine, and ANSI-colored
// rendering. Grounded on sentra's internal/errors.SentraError,
// generalized from a single error value into a handler that
// accumulates, classifies, and renders many.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"fcx/internal/operator"
)

// Kind is the error taxonomy of §4.3.
type Kind int

const (
	Lexical Kind = iota
	Syntax
	Semantic
	TypeMismatch
	UnknownOperator
	OperatorAmbiguity
	PointerTypeMismatch
	Codegen
	Link
	Internal
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Semantic:
		return "semantic"
	case TypeMismatch:
		return "type-mismatch"
	case UnknownOperator:
		return "unknown-operator"
	case OperatorAmbiguity:
		return "operator-ambiguity"
	case PointerTypeMismatch:
		return "pointer-type-mismatch"
	case Codegen:
		return "codegen"
	case Link:
		return "link"
	default:
		return "internal"
	}
}

// Severity of a diagnostic.
type Severity int

const (
	Warning Severity = iota
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Fatal:
		return "fatal"
	default:
		return "error"
	}
}

// Position is a source location: filename, 1-based line/column, and a
// byte length used to size the caret underline.
type Position struct {
	File   string
	Line   int
	Column int
	Length int
}

// Suggestion is one candidate correction for an unknown operator.
type Suggestion struct {
	Symbol      string
	Similarity  int // 0-100
	Description string
}

// SyntaxDetail carries (expected, found) for syntax errors.
type SyntaxDetail struct {
	Expected string
	Found    string
}

// TypeDetail carries (from, to, hint) for type-mismatch/pointer errors.
type TypeDetail struct {
	From string
	To   string
	Hint string
}

// UnknownOperatorDetail carries the offending symbol and its ranked
// suggestions.
type UnknownOperatorDetail struct {
	Symbol      string
	Suggestions []Suggestion
}

// AmbiguityDetail carries the colliding symbol and its readings.
type AmbiguityDetail struct {
	Symbol             string
	PossibleMeanings   []string
	DisambiguationHint string
}

// Diagnostic is one reported error.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Pos      Position
	Message  string
	Detail   interface{} // one of the *Detail types above, or nil
}

// Handler accumulates diagnostics, interns filenames, and renders.
// Not safe for concurrent use — the whole core is single-threaded (§5).
type Handler struct {
	diags     []Diagnostic
	maxErrors int
	warnings  int
	fatals    int
	dropped   int

	filePool map[string]string // dedup: content -> canonical backing string

	reg *operator.Registry

	out      io.Writer
	colorize bool
}

const defaultMaxErrors = 100

// NewHandler builds a diagnostics handler. reg supplies the operator
// catalog consulted for unknown-operator suggestions; out is where
// Render writes (typically os.Stderr).
func NewHandler(reg *operator.Registry, out io.Writer) *Handler {
	return &Handler{
		maxErrors: defaultMaxErrors,
		filePool:  make(map[string]string),
		reg:       reg,
		out:       out,
		colorize:  detectColor(out),
	}
}

// detectColor enables ANSI color only when out is a real terminal,
// grounded on the same check CLI tools in the pack (e.g. kanso-lang-kanso)
// run before calling into fatih/color.
func detectColor(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetMaxErrors overrides the default cap (100).
func (h *Handler) SetMaxErrors(n int) { h.maxErrors = n }

// SetColor forces color on or off, overriding terminal detection —
// used by callers redirecting output to a file or a CI log collector.
func (h *Handler) SetColor(on bool) { h.colorize = on }

// intern returns the canonical backing string for filename, so equal
// filenames share one allocation across every diagnostic referencing
// them (§4.3).
func (h *Handler) intern(filename string) string {
	if canon, ok := h.filePool[filename]; ok {
		return canon
	}
	h.filePool[filename] = filename
	return filename
}

// Add appends a diagnostic unless the cap has been reached, in which
// case it is silently dropped (and counted).
func (h *Handler) Add(d Diagnostic) {
	if len(h.diags) >= h.maxErrors {
		h.dropped++
		return
	}
	d.Pos.File = h.intern(d.Pos.File)
	if d.Pos.Length <= 0 {
		d.Pos.Length = 1
	}
	h.diags = append(h.diags, d)
	switch d.Severity {
	case Warning:
		h.warnings++
	case Fatal:
		h.fatals++
	}
}

// Diagnostics returns every accumulated diagnostic, in report order.
func (h *Handler) Diagnostics() []Diagnostic { return append([]Diagnostic(nil), h.diags...) }

// HasErrors reports whether any non-warning diagnostic exists.
func (h *Handler) HasErrors() bool {
	for _, d := range h.diags {
		if d.Severity != Warning {
			return true
		}
	}
	return false
}

// HasFatalErrors reports whether any fatal diagnostic exists.
func (h *Handler) HasFatalErrors() bool { return h.fatals > 0 }

// Dropped is how many diagnostics were discarded once the cap was hit.
func (h *Handler) Dropped() int { return h.dropped }

// ReportUnknownOperator emits an unknown-operator diagnostic with up
// to 5 ranked suggestions (§4.2, §4.3).
func (h *Handler) ReportUnknownOperator(pos Position, symbol string) {
	h.Add(Diagnostic{
		Kind:     UnknownOperator,
		Severity: Error,
		Pos:      pos,
		Message:  fmt.Sprintf("unknown operator %q", symbol),
		Detail: UnknownOperatorDetail{
			Symbol:      symbol,
			Suggestions: h.Suggest(symbol),
		},
	})
}

// ReportInternal wraps an internal Go error (via github.com/pkg/errors)
// into an "internal" diagnostic, preserving its cause chain in Message.
func (h *Handler) ReportInternal(pos Position, cause error, context string) {
	wrapped := errors.Wrap(cause, context)
	h.Add(Diagnostic{
		Kind:     Internal,
		Severity: Fatal,
		Pos:      pos,
		Message:  wrapped.Error(),
	})
}

// Suggest computes the top-5 similarity-ranked operator suggestions
// for an unknown symbol S, per §4.3's suggestion algorithm.
func (h *Handler) Suggest(symbol string) []Suggestion {
	if h.reg == nil {
		return nil
	}
	type scored struct {
		Suggestion
		order int
	}
	var candidates []scored
	for i, d := range h.reg.AllDescriptorsBySymbol() {
		dist := levenshtein(symbol, d.Symbol)
		denom := len(symbol)
		if len(d.Symbol) > denom {
			denom = len(d.Symbol)
		}
		if denom == 0 {
			continue
		}
		sim := 100 - 100*dist/denom
		if sim < 0 {
			sim = 0
		}
		if sim <= 40 {
			continue
		}
		candidates = append(candidates, scored{
			Suggestion: Suggestion{Symbol: d.Symbol, Similarity: sim, Description: d.Description},
			order:      i,
		})
	}
	slices.SortFunc(candidates, func(a, b scored) int {
		if a.Similarity != b.Similarity {
			return b.Similarity - a.Similarity // descending
		}
		return a.order - b.order // stable: registry insertion order
	})
	if len(candidates) > 5 {
		candidates = candidates[:5]
	}
	out := make([]Suggestion, len(candidates))
	for i, c := range candidates {
		out[i] = c.Suggestion
	}
	return out
}

// levenshtein computes classic edit distance via dynamic programming.
// Hand-rolled: no edit-distance library appears anywhere in the
// retrieval pack, and the algorithm is small and exact.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	n, m := len(ra), len(rb)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}
	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for j := 0; j <= m; j++ {
		prev[j] = j
	}
	for i := 1; i <= n; i++ {
		curr[0] = i
		for j := 1; j <= m; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[m]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// Summary renders a one-line human-readable count of diagnostics.
func (h *Handler) Summary() string {
	errs, warns := 0, 0
	for _, d := range h.diags {
		if d.Severity == Warning {
			warns++
		} else {
			errs++
		}
	}
	return fmt.Sprintf("%s errors, %s warnings", humanize.Comma(int64(errs)), humanize.Comma(int64(warns)))
}

// Render writes every accumulated diagnostic to h.out in the §4.3
// layout, optionally colorized.
func (h *Handler) Render(sourceLines map[string][]string) {
	for _, d := range h.diags {
		h.renderOne(d, sourceLines[d.Pos.File])
	}
}

func (h *Handler) renderOne(d Diagnostic, lines []string) {
	sev := colorForSeverity(d.Severity, h.colorize)
	fmt.Fprintf(h.out, "%s: %s\n", sev.Sprint(strings.ToUpper(d.Severity.String()[:1])+d.Severity.String()[1:]), d.Message)
	fmt.Fprintf(h.out, "  --> %s:%d:%d\n", d.Pos.File, d.Pos.Line, d.Pos.Column)
	fmt.Fprintln(h.out, "   |")
	if d.Pos.Line >= 1 && d.Pos.Line <= len(lines) {
		src := lines[d.Pos.Line-1]
		fmt.Fprintf(h.out, "%4d| %s\n", d.Pos.Line, src)
		carets := strings.Repeat("^", d.Pos.Length)
		pad := strings.Repeat(" ", maxInt(0, d.Pos.Column-1))
		fmt.Fprintf(h.out, "   |      %s%s\n", pad, sev.Sprint(carets))
	}
	if note := detailNote(d.Detail); note != "" {
		fmt.Fprintf(h.out, "   = note: %s\n", note)
	}
	if help := detailHelp(d.Detail); help != "" {
		fmt.Fprintf(h.out, "   = help: %s\n", help)
	}
}

func colorForSeverity(s Severity, on bool) *color.Color {
	if !on {
		return color.New()
	}
	switch s {
	case Warning:
		return color.New(color.FgYellow, color.Bold)
	case Fatal:
		return color.New(color.FgHiRed, color.Bold, color.Underline)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func detailNote(detail interface{}) string {
	switch d := detail.(type) {
	case SyntaxDetail:
		return fmt.Sprintf("expected %s, found %s", d.Expected, d.Found)
	case TypeDetail:
		if d.Hint != "" {
			return fmt.Sprintf("cannot convert %s to %s (%s)", d.From, d.To, d.Hint)
		}
		return fmt.Sprintf("cannot convert %s to %s", d.From, d.To)
	case UnknownOperatorDetail:
		return fmt.Sprintf("%q is not a recognized operator", d.Symbol)
	case AmbiguityDetail:
		return fmt.Sprintf("%q resolves to more than one operator: %s", d.Symbol, strings.Join(d.PossibleMeanings, ", "))
	default:
		return ""
	}
}

func detailHelp(detail interface{}) string {
	switch d := detail.(type) {
	case UnknownOperatorDetail:
		if len(d.Suggestions) == 0 {
			return ""
		}
		parts := make([]string, len(d.Suggestions))
		for i, s := range d.Suggestions {
			parts[i] = fmt.Sprintf("%s (%d%%, %s)", s.Symbol, s.Similarity, s.Description)
		}
		return "did you mean: " + strings.Join(parts, ", ")
	case AmbiguityDetail:
		return d.DisambiguationHint
	default:
		return ""
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
