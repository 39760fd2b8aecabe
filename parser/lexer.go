package parser

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/dhamidi/jminus/diag"
)

// Lexer turns a character Source into tokens. Lexical errors are reported
// to the sink and scanning always continues.
type Lexer struct {
	src  *Source
	file string
	sink diag.Sink

	ch   rune
	line int

	isInError bool
	quiet     int
}

// lexerState is a rewindable snapshot of the lexer: the source position
// plus the character under the cursor.
type lexerState struct {
	src sourceState
	ch  rune
}

// NewLexer reads r fully. A read failure is reported as a lexical error and
// the lexer continues with whatever was read.
func NewLexer(r io.Reader, file string, sink diag.Sink) *Lexer {
	if sink == nil {
		sink = diag.Discard
	}
	src, err := NewSource(r)
	l := &Lexer{src: src, file: file, sink: sink, line: 1}
	if err != nil {
		l.reportError("unable to read characters from input: %v", err)
	}
	l.nextCh()
	return l
}

// NewLexerString is NewLexer over an in-memory string.
func NewLexerString(input, file string, sink diag.Sink) *Lexer {
	return NewLexer(strings.NewReader(input), file, sink)
}

func (l *Lexer) FileName() string {
	return l.file
}

// ErrorHasOccurred reports whether any lexical error has been reported.
func (l *Lexer) ErrorHasOccurred() bool {
	return l.isInError
}

func (l *Lexer) nextCh() {
	l.ch = l.src.Next()
}

func (l *Lexer) snapshot() lexerState {
	return lexerState{src: l.src.snapshot(), ch: l.ch}
}

func (l *Lexer) restore(st lexerState) {
	l.src.restore(st.src)
	l.ch = st.ch
}

func (l *Lexer) reportError(format string, args ...any) {
	if l.quiet > 0 {
		return
	}
	l.isInError = true
	l.sink.Report(l.file, l.line, fmt.Sprintf(format, args...))
}

func (l *Lexer) token(kind TokenKind) Token {
	return Token{Kind: kind, Literal: kind.Image(), Line: l.line}
}

// single consumes the current character and returns a fixed token.
func (l *Lexer) single(kind TokenKind) Token {
	l.nextCh()
	return l.token(kind)
}

// NextToken scans and returns the next token. At end of input it keeps
// returning TokenEOF.
func (l *Lexer) NextToken() Token {
	for {
		if tok, ok := l.skipWhitespaceAndComments(); ok {
			return tok
		}
		l.line = l.src.Line()

		switch l.ch {
		case EOFCh:
			return Token{Kind: TokenEOF, Literal: TokenEOF.Image(), Line: l.line}
		case '(':
			return l.single(TokenLParen)
		case ')':
			return l.single(TokenRParen)
		case '{':
			return l.single(TokenLBrace)
		case '}':
			return l.single(TokenRBrace)
		case '[':
			return l.single(TokenLBracket)
		case ']':
			return l.single(TokenRBracket)
		case ';':
			return l.single(TokenSemicolon)
		case ',':
			return l.single(TokenComma)
		case '?':
			return l.single(TokenQuestion)
		case ':':
			return l.single(TokenColon)
		case '~':
			return l.single(TokenBitNot)
		case '.':
			if tok, ok := l.scanDot(); ok {
				return tok
			}
			continue
		case '\'':
			return l.scanCharLiteral()
		case '"':
			return l.scanStringLiteral()
		case '0':
			return l.scanZero()
		}

		if isDigit(l.ch) {
			return l.scanDecimal()
		}
		if isIdentStart(l.ch) {
			return l.scanIdentifier()
		}
		if tok, ok := l.scanOperator(); ok {
			return tok
		}

		l.reportError("unidentified input token: '%c'", l.ch)
		l.nextCh()
	}
}

// skipWhitespaceAndComments consumes blanks and comments. A '/' that does
// not start a comment is a division operator, returned directly.
func (l *Lexer) skipWhitespaceAndComments() (Token, bool) {
	for {
		for isWhitespace(l.ch) {
			l.nextCh()
		}
		if l.ch != '/' {
			return Token{}, false
		}
		l.line = l.src.Line()
		l.nextCh()
		switch l.ch {
		case '/':
			for l.ch != '\n' && l.ch != EOFCh {
				l.nextCh()
			}
		case '*':
			l.skipBlockComment()
		case '=':
			l.nextCh()
			return l.token(TokenSlashAssign), true
		default:
			return l.token(TokenSlash), true
		}
	}
}

func (l *Lexer) skipBlockComment() {
	l.nextCh()
	for {
		switch l.ch {
		case EOFCh:
			l.reportError("unexpected end of file found in comment")
			return
		case '*':
			l.nextCh()
			if l.ch == '/' {
				l.nextCh()
				return
			}
		default:
			l.nextCh()
		}
	}
}

func (l *Lexer) scanDot() (Token, bool) {
	l.nextCh()
	if isDigit(l.ch) {
		var b strings.Builder
		b.WriteByte('.')
		return l.scanFraction(&b), true
	}
	if l.ch != '.' {
		return l.token(TokenDot), true
	}
	l.nextCh()
	if l.ch == '.' {
		l.nextCh()
		return l.token(TokenEllipsis), true
	}
	l.reportError("invalid token '..'")
	return Token{}, false
}

// scanOperator handles operators whose first character may extend into a
// longer operator. Each chain is a longest match.
func (l *Lexer) scanOperator() (Token, bool) {
	switch l.ch {
	case '=':
		l.nextCh()
		if l.ch == '=' {
			return l.single(TokenEQ), true
		}
		return l.token(TokenAssign), true
	case '!':
		l.nextCh()
		if l.ch == '=' {
			return l.single(TokenNE), true
		}
		return l.token(TokenNot), true
	case '*':
		l.nextCh()
		if l.ch == '=' {
			return l.single(TokenStarAssign), true
		}
		return l.token(TokenStar), true
	case '%':
		l.nextCh()
		if l.ch == '=' {
			return l.single(TokenPercentAssign), true
		}
		return l.token(TokenPercent), true
	case '^':
		l.nextCh()
		if l.ch == '=' {
			return l.single(TokenXorAssign), true
		}
		return l.token(TokenBitXor), true
	case '+':
		l.nextCh()
		switch l.ch {
		case '+':
			return l.single(TokenIncrement), true
		case '=':
			return l.single(TokenPlusAssign), true
		}
		return l.token(TokenPlus), true
	case '-':
		l.nextCh()
		switch l.ch {
		case '-':
			return l.single(TokenDecrement), true
		case '=':
			return l.single(TokenMinusAssign), true
		}
		return l.token(TokenMinus), true
	case '&':
		l.nextCh()
		switch l.ch {
		case '&':
			return l.single(TokenAnd), true
		case '=':
			return l.single(TokenAndAssign), true
		}
		return l.token(TokenBitAnd), true
	case '|':
		l.nextCh()
		switch l.ch {
		case '|':
			return l.single(TokenOr), true
		case '=':
			return l.single(TokenOrAssign), true
		}
		return l.token(TokenBitOr), true
	case '<':
		l.nextCh()
		switch l.ch {
		case '=':
			return l.single(TokenLE), true
		case '<':
			l.nextCh()
			if l.ch == '=' {
				return l.single(TokenShlAssign), true
			}
			return l.token(TokenShl), true
		}
		return l.token(TokenLT), true
	case '>':
		l.nextCh()
		switch l.ch {
		case '=':
			return l.single(TokenGE), true
		case '>':
			l.nextCh()
			switch l.ch {
			case '=':
				return l.single(TokenShrAssign), true
			case '>':
				l.nextCh()
				if l.ch == '=' {
					return l.single(TokenUShrAssign), true
				}
				return l.token(TokenUShr), true
			}
			return l.token(TokenShr), true
		}
		return l.token(TokenGT), true
	}
	return Token{}, false
}

// scanEscape consumes a backslash sequence and appends it verbatim.
func (l *Lexer) scanEscape(b *strings.Builder) {
	b.WriteRune(l.ch)
	l.nextCh()
	switch l.ch {
	case 'b', 't', 'n', 'f', 'r', '"', '\'', '\\':
		b.WriteRune(l.ch)
		l.nextCh()
	case EOFCh, '\n':
		l.reportError("badly formed escape at end of line")
	default:
		l.reportError("badly formed escape: \\%c", l.ch)
		b.WriteRune(l.ch)
		l.nextCh()
	}
}

func (l *Lexer) scanCharLiteral() Token {
	var b strings.Builder
	b.WriteRune(l.ch)
	l.nextCh()
	switch l.ch {
	case '\\':
		l.scanEscape(&b)
	case '\'':
		l.reportError("empty character literal")
		b.WriteRune(l.ch)
		l.nextCh()
		return Token{Kind: TokenCharLiteral, Literal: b.String(), Line: l.line}
	case '\n', EOFCh:
		l.reportError("unexpected end of line found in character literal")
		return Token{Kind: TokenCharLiteral, Literal: b.String(), Line: l.line}
	default:
		b.WriteRune(l.ch)
		l.nextCh()
	}
	if l.ch == '\'' {
		b.WriteRune(l.ch)
		l.nextCh()
		return Token{Kind: TokenCharLiteral, Literal: b.String(), Line: l.line}
	}
	if l.ch == EOFCh {
		l.reportError("<EOF> found by scanner where closing ' was expected")
	} else {
		l.reportError("%c found by scanner where closing ' was expected", l.ch)
	}
	for l.ch != '\'' && l.ch != ';' && l.ch != '\n' && l.ch != EOFCh {
		b.WriteRune(l.ch)
		l.nextCh()
	}
	if l.ch == '\'' {
		b.WriteRune(l.ch)
		l.nextCh()
	}
	return Token{Kind: TokenCharLiteral, Literal: b.String(), Line: l.line}
}

func (l *Lexer) scanStringLiteral() Token {
	var b strings.Builder
	b.WriteRune(l.ch)
	l.nextCh()
	for l.ch != '"' && l.ch != '\n' && l.ch != EOFCh {
		if l.ch == '\\' {
			l.scanEscape(&b)
			continue
		}
		b.WriteRune(l.ch)
		l.nextCh()
	}
	switch l.ch {
	case '\n':
		l.reportError("unexpected end of line found in string")
	case EOFCh:
		l.reportError("unexpected end of file found in string")
	default:
		b.WriteRune(l.ch)
		l.nextCh()
	}
	return Token{Kind: TokenStringLiteral, Literal: b.String(), Line: l.line}
}

// scanZero handles literals that start with 0: binary, hex, octal, a
// fraction, or a lone zero.
func (l *Lexer) scanZero() Token {
	var b strings.Builder
	b.WriteRune(l.ch)
	l.nextCh()
	switch {
	case l.ch == 'b' || l.ch == 'B':
		b.WriteRune(l.ch)
		l.nextCh()
		if n := l.scanRun(&b, isBinaryDigit); n == 0 {
			l.reportError("invalid binary literal: %s", b.String())
		}
		return l.intSuffix(&b, TokenBinaryLiteral)
	case l.ch == 'x' || l.ch == 'X':
		b.WriteRune(l.ch)
		l.nextCh()
		if n := l.scanRun(&b, isHexDigit); n == 0 {
			l.reportError("invalid hexadecimal literal: %s", b.String())
		}
		return l.intSuffix(&b, TokenHexLiteral)
	case isDigit(l.ch):
		l.scanRun(&b, isDigit)
		switch l.ch {
		case '.':
			b.WriteRune(l.ch)
			l.nextCh()
			return l.scanFraction(&b)
		case 'e', 'E', 'f', 'F', 'd', 'D':
			return l.scanFraction(&b)
		}
		if strings.IndexFunc(b.String(), func(r rune) bool { return !isOctalDigit(r) }) >= 0 {
			l.reportError("invalid octal literal: %s", b.String())
		}
		return l.intSuffix(&b, TokenOctalLiteral)
	case l.ch == '.':
		b.WriteRune(l.ch)
		l.nextCh()
		return l.scanFraction(&b)
	case l.ch == 'e' || l.ch == 'E':
		return l.scanFraction(&b)
	case l.ch == 'f' || l.ch == 'F' || l.ch == 'd' || l.ch == 'D':
		return l.scanFraction(&b)
	}
	return l.intSuffix(&b, TokenIntLiteral)
}

func (l *Lexer) scanDecimal() Token {
	var b strings.Builder
	l.scanRun(&b, isDigit)
	switch l.ch {
	case '.':
		b.WriteRune(l.ch)
		l.nextCh()
		return l.scanFraction(&b)
	case 'e', 'E', 'f', 'F', 'd', 'D':
		return l.scanFraction(&b)
	}
	return l.intSuffix(&b, TokenIntLiteral)
}

// intSuffix turns an integer into a long literal when followed by l or L.
func (l *Lexer) intSuffix(b *strings.Builder, kind TokenKind) Token {
	if l.ch == 'l' || l.ch == 'L' {
		b.WriteRune(l.ch)
		l.nextCh()
		kind = TokenLongLiteral
	}
	return Token{Kind: kind, Literal: b.String(), Line: l.line}
}

// scanFraction scans the digits after a decimal point (already consumed),
// an optional exponent, and an optional f/F/d/D suffix. Without a suffix
// the literal is a double.
func (l *Lexer) scanFraction(b *strings.Builder) Token {
	l.scanRun(b, isDigit)
	if l.ch == 'e' || l.ch == 'E' {
		b.WriteRune(l.ch)
		l.nextCh()
		if l.ch == '+' || l.ch == '-' {
			b.WriteRune(l.ch)
			l.nextCh()
		}
		if n := l.scanRun(b, isDigit); n == 0 {
			l.reportError("invalid floating point literal: %s", b.String())
		}
	}
	kind := TokenDoubleLiteral
	switch l.ch {
	case 'f', 'F':
		kind = TokenFloatLiteral
		b.WriteRune(l.ch)
		l.nextCh()
	case 'd', 'D':
		b.WriteRune(l.ch)
		l.nextCh()
	}
	return Token{Kind: kind, Literal: b.String(), Line: l.line}
}

func (l *Lexer) scanRun(b *strings.Builder, accept func(rune) bool) int {
	n := 0
	for accept(l.ch) {
		b.WriteRune(l.ch)
		l.nextCh()
		n++
	}
	return n
}

func (l *Lexer) scanIdentifier() Token {
	var b strings.Builder
	for isIdentPart(l.ch) {
		b.WriteRune(l.ch)
		l.nextCh()
	}
	text := b.String()
	return Token{Kind: LookupKeyword(text), Literal: text, Line: l.line}
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\f'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isOctalDigit(ch rune) bool {
	return ch >= '0' && ch <= '7'
}

func isBinaryDigit(ch rune) bool {
	return ch == '0' || ch == '1'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch rune) bool {
	if ch == '_' || ch == '$' {
		return true
	}
	if ch < 0x80 {
		return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
	}
	return unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch) || (ch >= 0x80 && unicode.IsDigit(ch))
}
