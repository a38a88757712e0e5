package diag

import (
	"bytes"
	"testing"

	"github.com/rogpeppe/go-internal/txtar"

	"fcx/internal/operator"
)

// golden is a txtar-embedded fixture: the "render" file is the exact
// text Render is expected to produce for a plain semantic diagnostic
// with no source line available (so the caret block is skipped).
var golden = txtar.Parse([]byte(`
-- render --
Error: something broke
  --> t.fcx:5:3
   |
`))

func TestRenderMatchesGoldenFixture(t *testing.T) {
	var want string
	for _, f := range golden.Files {
		if f.Name == "render" {
			want = string(f.Data)
		}
	}
	if want == "" {
		t.Fatal("golden fixture missing a \"render\" file")
	}

	var out bytes.Buffer
	h := NewHandler(operator.New(), &out)
	h.Add(Diagnostic{Kind: Semantic, Severity: Error, Pos: Position{File: "t.fcx", Line: 5, Column: 3, Length: 1}, Message: "something broke"})
	h.Render(nil)
	if out.String() != want {
		t.Fatalf("Render() = %q, want %q", out.String(), want)
	}
}

func TestSuggestOrderingAndCap(t *testing.T) {
	h := NewHandler(operator.New(), &bytes.Buffer{})
	s := h.Suggest("xyz")
	for i := 1; i < len(s); i++ {
		if s[i].Similarity > s[i-1].Similarity {
			t.Fatalf("suggestions not sorted by similarity descending: %+v", s)
		}
	}
	for _, sug := range s {
		if sug.Similarity <= 40 {
			t.Fatalf("suggestion %+v has similarity <= 40", sug)
		}
	}
	if len(s) > 5 {
		t.Fatalf("got %d suggestions, want at most 5", len(s))
	}
}

func TestSuggestSimilarSymbolWins(t *testing.T) {
	h := NewHandler(operator.New(), &bytes.Buffer{})
	s := h.Suggest("==!")
	if len(s) == 0 || s[0].Symbol != "==" {
		t.Fatalf("expected \"==\" to rank first for \"==!\", got %+v", s)
	}
}

func TestHandlerCapsAndDrops(t *testing.T) {
	h := NewHandler(operator.New(), &bytes.Buffer{})
	h.SetMaxErrors(3)
	for i := 0; i < 5; i++ {
		h.Add(Diagnostic{Kind: Semantic, Severity: Error, Message: "x"})
	}
	if len(h.Diagnostics()) != 3 {
		t.Fatalf("got %d diagnostics, want 3", len(h.Diagnostics()))
	}
	if h.Dropped() != 2 {
		t.Fatalf("got %d dropped, want 2", h.Dropped())
	}
}

func TestHasErrorsIgnoresWarnings(t *testing.T) {
	h := NewHandler(operator.New(), &bytes.Buffer{})
	h.Add(Diagnostic{Kind: Semantic, Severity: Warning, Message: "w"})
	if h.HasErrors() {
		t.Fatal("a warning-only handler should not report HasErrors")
	}
	h.Add(Diagnostic{Kind: Semantic, Severity: Error, Message: "e"})
	if !h.HasErrors() {
		t.Fatal("expected HasErrors once a non-warning diagnostic is added")
	}
}

func TestFilenameInterning(t *testing.T) {
	h := NewHandler(operator.New(), &bytes.Buffer{})
	h.Add(Diagnostic{Kind: Lexical, Severity: Error, Pos: Position{File: "a.fcx", Line: 1, Column: 1}, Message: "m1"})
	h.Add(Diagnostic{Kind: Lexical, Severity: Error, Pos: Position{File: "a.fcx", Line: 2, Column: 1}, Message: "m2"})
	diags := h.Diagnostics()
	if diags[0].Pos.File != diags[1].Pos.File {
		t.Fatal("expected interned filenames to compare equal")
	}
	if len(h.filePool) != 1 {
		t.Fatalf("expected one pooled filename, got %d", len(h.filePool))
	}
}

func TestUnknownOperatorEndToEnd(t *testing.T) {
	h := NewHandler(operator.New(), &bytes.Buffer{})
	h.ReportUnknownOperator(Position{File: "t.fcx", Line: 3, Column: 5}, "??!")
	diags := h.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != UnknownOperator {
		t.Fatalf("expected one unknown-operator diagnostic, got %+v", diags)
	}
	detail, ok := diags[0].Detail.(UnknownOperatorDetail)
	if !ok {
		t.Fatalf("expected UnknownOperatorDetail, got %T", diags[0].Detail)
	}
	for _, s := range detail.Suggestions {
		if s.Similarity <= 40 {
			t.Fatalf("suggestion %+v should have similarity > 40", s)
		}
	}
}
