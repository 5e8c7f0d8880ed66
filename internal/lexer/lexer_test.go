package lexer

import (
	"testing"

	"github.com/nxlang/nx/internal/token"
)

func TestNextTokenBasics(t *testing.T) {
	input := `let x = 1 + 2
print x`
	want := []token.Type{
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.PLUS, token.INT,
		token.PRINT, token.IDENT, token.EOF,
	}
	l := New(input)
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w {
			t.Fatalf("token %d: want %s, got %s (%q)", i, w, tok.Type, tok.Lexeme)
		}
	}
}

func TestFirstOnLineFlag(t *testing.T) {
	input := "a\n.b"
	l := New(input)
	tok := l.NextToken() // a
	if tok.FirstOnLine != true {
		t.Fatalf("expected first token to be first-on-line")
	}
	dot := l.NextToken()
	if !dot.FirstOnLine {
		t.Fatalf("expected '.' token to be first-on-line")
	}
}

func TestNumberBases(t *testing.T) {
	cases := []struct {
		in   string
		want token.Type
	}{
		{"0b101", token.INT},
		{"0o17", token.INT},
		{"0xFF", token.INT},
		{"1.5", token.FLOAT},
		{"42", token.INT},
	}
	for _, c := range cases {
		l := New(c.in)
		tok := l.NextToken()
		if tok.Type != c.want {
			t.Errorf("%q: want %s got %s", c.in, c.want, tok.Type)
		}
		if len(l.Errors) != 0 {
			t.Errorf("%q: unexpected lex errors: %v", c.in, l.Errors)
		}
	}
}

func TestBinaryDigitCapRejected(t *testing.T) {
	l := New("0b" + "11111111111111111111111111111111111111111111111111111111111111111111") // 68 digits
	l.NextToken()
	if len(l.Errors) == 0 {
		t.Fatalf("expected error for oversized binary literal")
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"a\nb\tc"`)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("want STRING got %s", tok.Type)
	}
	if tok.Lexeme != "a\nb\tc" {
		t.Fatalf("escape decoding failed: %q", tok.Lexeme)
	}
}
