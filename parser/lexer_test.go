package parser

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/dhamidi/jminus/diag"
)

func scanAll(input string, sink diag.Sink) []Token {
	l := NewLexerString(input, "test.java", sink)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks
		}
	}
}

func kindsOf(toks []Token) []TokenKind {
	kinds := make([]TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	return kinds
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"class", []TokenKind{TokenClass, TokenEOF}},
		{"public class Main {}", []TokenKind{TokenPublic, TokenClass, TokenIdent, TokenLBrace, TokenRBrace, TokenEOF}},
		{"// comment\nclass", []TokenKind{TokenClass, TokenEOF}},
		{"/* block */ class", []TokenKind{TokenClass, TokenEOF}},
		{"/* a /* b */ c", []TokenKind{TokenIdent, TokenEOF}},
		{"a / b /= c", []TokenKind{TokenIdent, TokenSlash, TokenIdent, TokenSlashAssign, TokenIdent, TokenEOF}},
		{">>>=", []TokenKind{TokenUShrAssign, TokenEOF}},
		{">> =", []TokenKind{TokenShr, TokenAssign, TokenEOF}},
		{">>>", []TokenKind{TokenUShr, TokenEOF}},
		{">>=", []TokenKind{TokenShrAssign, TokenEOF}},
		{"<<=", []TokenKind{TokenShlAssign, TokenEOF}},
		{"a+++b", []TokenKind{TokenIdent, TokenIncrement, TokenPlus, TokenIdent, TokenEOF}},
		{"x-->0", []TokenKind{TokenIdent, TokenDecrement, TokenGT, TokenIntLiteral, TokenEOF}},
		{"&&&", []TokenKind{TokenAnd, TokenBitAnd, TokenEOF}},
		{"|||=", []TokenKind{TokenOr, TokenOrAssign, TokenEOF}},
		{"int... xs", []TokenKind{TokenInt, TokenEllipsis, TokenIdent, TokenEOF}},
		{"a.b", []TokenKind{TokenIdent, TokenDot, TokenIdent, TokenEOF}},
		{"do x until (y);", []TokenKind{TokenDo, TokenIdent, TokenUntil, TokenLParen, TokenIdent, TokenRParen, TokenSemicolon, TokenEOF}},
		{"$x _y z9", []TokenKind{TokenIdent, TokenIdent, TokenIdent, TokenEOF}},
		{"true false null", []TokenKind{TokenTrue, TokenFalse, TokenNull, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := kindsOf(scanAll(tt.input, nil))
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerFixedKindsRoundTrip(t *testing.T) {
	for _, kind := range FixedKinds() {
		t.Run(kind.Image(), func(t *testing.T) {
			toks := scanAll(kind.Image(), nil)
			if len(toks) != 2 {
				t.Fatalf("got %d tokens, want 2", len(toks))
			}
			if toks[0].Kind != kind {
				t.Errorf("Kind = %v, want %v", toks[0].Kind, kind)
			}
			if toks[0].Image() != kind.Image() {
				t.Errorf("Image() = %q, want %q", toks[0].Image(), kind.Image())
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"0", TokenIntLiteral},
		{"42", TokenIntLiteral},
		{"0b1010", TokenBinaryLiteral},
		{"0B11", TokenBinaryLiteral},
		{"0x1F", TokenHexLiteral},
		{"0XfF", TokenHexLiteral},
		{"017", TokenOctalLiteral},
		{"42L", TokenLongLiteral},
		{"0x1Fl", TokenLongLiteral},
		{"3.14", TokenDoubleLiteral},
		{"3.", TokenDoubleLiteral},
		{".5", TokenDoubleLiteral},
		{"0.5", TokenDoubleLiteral},
		{"1e10", TokenDoubleLiteral},
		{"1E-3", TokenDoubleLiteral},
		{"2.5e+3d", TokenDoubleLiteral},
		{"1f", TokenFloatLiteral},
		{"3.14F", TokenFloatLiteral},
		{"0f", TokenFloatLiteral},
		{"7d", TokenDoubleLiteral},
		{"09.5", TokenDoubleLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := &diag.Collector{}
			toks := scanAll(tt.input, c)
			if len(toks) != 2 {
				t.Fatalf("got %v, want one literal", kindsOf(toks))
			}
			if toks[0].Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", toks[0].Kind, tt.kind)
			}
			if toks[0].Literal != tt.input {
				t.Errorf("Literal = %q, want %q", toks[0].Literal, tt.input)
			}
			if c.Len() != 0 {
				t.Errorf("unexpected diagnostics: %v", c.Diagnostics())
			}
		})
	}
}

func TestLexerLiterals(t *testing.T) {
	tests := []struct {
		input   string
		kind    TokenKind
		literal string
	}{
		{`'a'`, TokenCharLiteral, `'a'`},
		{`'\n'`, TokenCharLiteral, `'\n'`},
		{`'\''`, TokenCharLiteral, `'\''`},
		{`"hello"`, TokenStringLiteral, `"hello"`},
		{`"a\tb\"c"`, TokenStringLiteral, `"a\tb\"c"`},
		{`""`, TokenStringLiteral, `""`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := scanAll(tt.input, nil)
			if toks[0].Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", toks[0].Kind, tt.kind)
			}
			if toks[0].Literal != tt.literal {
				t.Errorf("Literal = %q, want %q", toks[0].Literal, tt.literal)
			}
		})
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenKind
		message  string
	}{
		{"unidentified", "a # b", []TokenKind{TokenIdent, TokenIdent, TokenEOF}, "unidentified input token: '#'"},
		{"unterminated comment", "a /* b", []TokenKind{TokenIdent, TokenEOF}, "unexpected end of file found in comment"},
		{"empty char", "''", []TokenKind{TokenCharLiteral, TokenEOF}, "empty character literal"},
		{"unclosed char", "'ab';", []TokenKind{TokenCharLiteral, TokenSemicolon, TokenEOF}, "b found by scanner where closing ' was expected"},
		{"bad escape", `"\q"`, []TokenKind{TokenStringLiteral, TokenEOF}, `badly formed escape: \q`},
		{"string at end of line", "\"abc\nx", []TokenKind{TokenStringLiteral, TokenIdent, TokenEOF}, "unexpected end of line found in string"},
		{"string at end of file", `"abc`, []TokenKind{TokenStringLiteral, TokenEOF}, "unexpected end of file found in string"},
		{"double dot", "a..b", []TokenKind{TokenIdent, TokenIdent, TokenEOF}, "invalid token '..'"},
		{"octal", "09", []TokenKind{TokenOctalLiteral, TokenEOF}, "invalid octal literal: 09"},
		{"octal with trailing eight", "0178", []TokenKind{TokenOctalLiteral, TokenEOF}, "invalid octal literal: 0178"},
		{"exponent", "1e+", []TokenKind{TokenDoubleLiteral, TokenEOF}, "invalid floating point literal: 1e+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &diag.Collector{}
			l := NewLexerString(tt.input, "test.java", c)
			var got []TokenKind
			for {
				tok := l.NextToken()
				got = append(got, tok.Kind)
				if tok.Kind == TokenEOF {
					break
				}
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
			if !l.ErrorHasOccurred() {
				t.Errorf("ErrorHasOccurred() = false, want true")
			}
			ds := c.Diagnostics()
			if len(ds) != 1 {
				t.Fatalf("got %d diagnostics, want 1: %v", len(ds), ds)
			}
			if ds[0].Message != tt.message {
				t.Errorf("Message = %q, want %q", ds[0].Message, tt.message)
			}
		})
	}
}

func TestLexerLines(t *testing.T) {
	input := "a\nb\r\nc\rd /* x\ny */ e\n"
	toks := scanAll(input, nil)
	want := []int{1, 2, 3, 4, 5, 5}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, tok := range toks {
		if tok.Line != want[i] {
			t.Errorf("token %d (%s): Line = %d, want %d", i, tok.Image(), tok.Line, want[i])
		}
	}
}

func TestLexerReadError(t *testing.T) {
	c := &diag.Collector{}
	l := NewLexer(iotest.ErrReader(errors.New("disk on fire")), "broken.java", c)
	if tok := l.NextToken(); tok.Kind != TokenEOF {
		t.Errorf("Kind = %v, want %v", tok.Kind, TokenEOF)
	}
	if !l.ErrorHasOccurred() {
		t.Fatal("ErrorHasOccurred() = false, want true")
	}
	ds := c.Diagnostics()
	if len(ds) != 1 || !strings.HasPrefix(ds[0].Message, "unable to read characters from input") {
		t.Errorf("diagnostics = %v", ds)
	}
}
