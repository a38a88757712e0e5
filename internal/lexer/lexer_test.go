package lexer

import (
	"bytes"
	"strings"
	"testing"

	"fcx/internal/diag"
	"fcx/internal/operator"
)

func newTestLexer(src string) *Lexer {
	reg := operator.New()
	h := diag.NewHandler(reg, &bytes.Buffer{})
	return New(src, "t.fcx", reg, h)
}

func TestEmptySourceYieldsImmediateEOF(t *testing.T) {
	l := newTestLexer("")
	tok := l.Next()
	if tok.Kind != KindEOF {
		t.Fatalf("got kind %v, want EOF", tok.Kind)
	}
}

func TestUnknownOperatorReportsDiagnosticWithRankedSuggestions(t *testing.T) {
	reg := operator.New()
	h := diag.NewHandler(reg, &bytes.Buffer{})
	l := New("#", "t.fcx", reg, h)
	tok := l.Next()
	if tok.Kind != KindError {
		t.Fatalf("got kind %v, want KindError", tok.Kind)
	}
	diags := h.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != diag.UnknownOperator {
		t.Fatalf("expected one unknown-operator diagnostic, got %+v", diags)
	}
	detail := diags[0].Detail.(diag.UnknownOperatorDetail)
	for i, s := range detail.Suggestions {
		if s.Similarity <= 40 {
			t.Fatalf("suggestion %+v should have similarity > 40", s)
		}
		if i > 0 && s.Similarity > detail.Suggestions[i-1].Similarity {
			t.Fatal("suggestions not sorted descending by similarity")
		}
	}
	if len(detail.Suggestions) > 5 {
		t.Fatalf("got %d suggestions, want at most 5", len(detail.Suggestions))
	}
}

func TestBigIntegerLimbBoundaries(t *testing.T) {
	cases := []struct {
		text      string
		wantLimbs int
	}{
		{"340282366920938463463374607431768211455", 2},                                                         // 2^128-1
		{"115792089237316195423570985008687907853269984665640564039457584007913129639935", 4},                  // 2^256-1
	}
	for _, c := range cases {
		l := newTestLexer(c.text)
		tok := l.Next()
		if tok.Kind != KindBigIntLit {
			t.Fatalf("%s: got kind %v, want KindBigIntLit", c.text, tok.Kind)
		}
		if len(tok.Limbs) != c.wantLimbs {
			t.Fatalf("%s: got %d limbs, want %d", c.text, len(tok.Limbs), c.wantLimbs)
		}
	}
}

func TestSmallIntegerStaysIntLit(t *testing.T) {
	l := newTestLexer("42")
	tok := l.Next()
	if tok.Kind != KindIntLit || tok.IntVal != 42 {
		t.Fatalf("got (%v, %d), want (KindIntLit, 42)", tok.Kind, tok.IntVal)
	}
}

func TestTokensTileSourceWithWhitespace(t *testing.T) {
	src := "let x = 1 + 2;"
	l := newTestLexer(src)
	var rebuilt strings.Builder
	lastEnd := 0
	for {
		l.skipWhitespaceAndComments()
		gapStart := lastEnd
		startOffset := l.current
		rebuilt.WriteString(src[gapStart:startOffset])
		tok := l.Next()
		if tok.Kind == KindEOF {
			break
		}
		rebuilt.WriteString(tok.Lexeme)
		lastEnd = l.current
	}
	rebuilt.WriteString(src[lastEnd:])
	if rebuilt.String() != src {
		t.Fatalf("rebuilt %q, want %q", rebuilt.String(), src)
	}
}

func TestKeywordsAndIdentifiersDistinguished(t *testing.T) {
	l := newTestLexer("fn foo")
	fn := l.Next()
	if fn.Kind != KindKeyword || fn.Keyword != "fn" {
		t.Fatalf("got %+v, want keyword fn", fn)
	}
	id := l.Next()
	if id.Kind != KindIdent || id.Lexeme != "foo" {
		t.Fatalf("got %+v, want ident foo", id)
	}
}

func TestLongestMatchOperatorPreferredOverShorter(t *testing.T) {
	l := newTestLexer(">>> x")
	tok := l.Next()
	if tok.Kind != KindOperator || tok.Lexeme != ">>>" {
		t.Fatalf("got %+v, want operator >>>", tok)
	}
}
