package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jminus/ast"
	"github.com/dhamidi/jminus/diag"
	"github.com/dhamidi/jminus/types"
)

type Option func(*Parser)

// WithFile sets the file name used in diagnostics and recorded in the
// compilation unit.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithSink sets where lexical and syntactic diagnostics go. The default
// discards them; ErrorHasOccurred still reports failure.
func WithSink(sink diag.Sink) Option {
	return func(p *Parser) {
		p.sink = sink
	}
}

// state is the panic-mode recovery state. isRecovered is false between a
// reported mismatch and the next successful match.
type state struct {
	isInError   bool
	isRecovered bool
}

// Parser is a recursive-descent parser for j--. It never stops at the
// first error: every parse method returns a node, possibly holding
// ast.Wild placeholders, and diagnostics go to the sink.
type Parser struct {
	file    string
	sink    diag.Sink
	scanner *LookaheadScanner
	state   state
}

// New prepares a parser over r. Input is read fully up front.
func New(r io.Reader, opts ...Option) *Parser {
	p := &Parser{sink: diag.Discard}
	for _, opt := range opts {
		opt(p)
	}
	p.scanner = NewLookaheadScanner(NewLexer(r, p.file, p.sink))
	p.state.isRecovered = true
	return p
}

// NewString is New over an in-memory string.
func NewString(input string, opts ...Option) *Parser {
	return New(strings.NewReader(input), opts...)
}

// ErrorHasOccurred reports whether a syntax error has been reported.
func (p *Parser) ErrorHasOccurred() bool {
	return p.state.isInError
}

// LexicalErrorHasOccurred reports whether the underlying lexer reported
// an error.
func (p *Parser) LexicalErrorHasOccurred() bool {
	return p.scanner.ErrorHasOccurred()
}

func (p *Parser) token() Token {
	return p.scanner.Token()
}

func (p *Parser) line() int {
	return p.scanner.Token().Line
}

func (p *Parser) see(sought TokenKind) bool {
	return p.scanner.Token().Kind == sought
}

func (p *Parser) have(sought TokenKind) bool {
	if p.see(sought) {
		p.scanner.Next()
		return true
	}
	return false
}

// mustBe matches sought or recovers. The first mismatch in a region is
// reported; later ones skip input up to sought (or EOF) silently.
func (p *Parser) mustBe(sought TokenKind) {
	switch {
	case p.see(sought):
		p.scanner.Next()
		p.state.isRecovered = true
	case p.state.isRecovered:
		p.reportError("%s found where %s sought", p.token().Image(), sought.Image())
	default:
		for !p.see(sought) && !p.see(TokenEOF) {
			p.scanner.Next()
		}
		if p.have(sought) {
			p.state.isRecovered = true
		}
	}
}

func (p *Parser) reportError(format string, args ...any) {
	p.reportErrorAt(p.line(), format, args...)
}

func (p *Parser) reportErrorAt(line int, format string, args ...any) {
	p.state.isInError = true
	p.state.isRecovered = false
	p.sink.Report(p.file, line, fmt.Sprintf(format, args...))
}

// previous is the image of the token mustBe or have just consumed.
func (p *Parser) previous() string {
	return p.scanner.PreviousToken().Literal
}

// speculate runs probe from a checkpoint and always rewinds.
func (p *Parser) speculate(probe func() bool) bool {
	cp := p.scanner.RecordPosition()
	defer p.scanner.ReturnToPosition(cp)
	return probe()
}

func (p *Parser) seeIdentLParen() bool {
	return p.speculate(func() bool {
		return p.have(TokenIdent) && p.see(TokenLParen)
	})
}

// seeCast looks for ( type ). A reference type cast also needs an operand
// to follow that cannot be read as the right side of a binary operator,
// so (x) - y stays a subtraction.
func (p *Parser) seeCast() bool {
	return p.speculate(func() bool {
		if !p.have(TokenLParen) {
			return false
		}
		if p.seeBasicType() {
			return true
		}
		if !p.skipQualifiedIdentifier() || !p.skipDims() {
			return false
		}
		if !p.have(TokenRParen) {
			return false
		}
		return p.seeCastOperand()
	})
}

func (p *Parser) seeCastOperand() bool {
	k := p.token().Kind
	if k.IsLiteral() {
		return true
	}
	switch k {
	case TokenIdent, TokenLParen, TokenThis, TokenSuper, TokenNew, TokenNot, TokenBitNot:
		return true
	}
	return false
}

// seeLocalVariableDeclaration looks for type IDENTIFIER.
func (p *Parser) seeLocalVariableDeclaration() bool {
	return p.speculate(func() bool {
		switch {
		case p.see(TokenIdent):
			if !p.skipQualifiedIdentifier() {
				return false
			}
		case p.seeBasicType():
			p.scanner.Next()
		default:
			return false
		}
		return p.skipDims() && p.have(TokenIdent)
	})
}

func (p *Parser) seeDims() bool {
	return p.speculate(func() bool {
		return p.have(TokenLBracket) && p.see(TokenRBracket)
	})
}

func (p *Parser) skipQualifiedIdentifier() bool {
	if !p.have(TokenIdent) {
		return false
	}
	for p.have(TokenDot) {
		if !p.have(TokenIdent) {
			return false
		}
	}
	return true
}

func (p *Parser) skipDims() bool {
	for p.have(TokenLBracket) {
		if !p.have(TokenRBracket) {
			return false
		}
	}
	return true
}

var basicTypes = map[TokenKind]*types.Type{
	TokenBoolean: types.Boolean,
	TokenChar:    types.Char,
	TokenInt:     types.Int,
	TokenLong:    types.Long,
	TokenFloat:   types.Float,
	TokenDouble:  types.Double,
}

func (p *Parser) seeBasicType() bool {
	_, ok := basicTypes[p.token().Kind]
	return ok
}

// ParseCompilationUnit parses a whole source file.
func (p *Parser) ParseCompilationUnit() *ast.CompilationUnit {
	line := p.line()
	var pkg string
	if p.have(TokenPackage) {
		pkg = p.parseQualifiedIdentifier()
		p.mustBe(TokenSemicolon)
	}
	var imports []string
	for p.have(TokenImport) {
		imports = append(imports, p.parseQualifiedIdentifier())
		p.mustBe(TokenSemicolon)
	}
	var decls []*ast.ClassDeclaration
	for !p.see(TokenEOF) {
		mods := p.parseModifiers()
		decls = append(decls, p.parseClassDeclaration(mods))
	}
	p.mustBe(TokenEOF)
	return ast.NewCompilationUnit(p.file, line, pkg, imports, decls)
}

func (p *Parser) parseQualifiedIdentifier() string {
	p.mustBe(TokenIdent)
	parts := []string{p.previous()}
	for p.have(TokenDot) {
		p.mustBe(TokenIdent)
		parts = append(parts, p.previous())
	}
	return strings.Join(parts, ".")
}

var modifierTokens = map[TokenKind]string{
	TokenPublic:    "public",
	TokenProtected: "protected",
	TokenPrivate:   "private",
	TokenStatic:    "static",
	TokenAbstract:  "abstract",
	TokenFinal:     "final",
}

var accessModifiers = map[string]bool{
	"public":    true,
	"protected": true,
	"private":   true,
}

// parseModifiers accepts modifiers in any order, reporting repeats and
// more than one access modifier.
func (p *Parser) parseModifiers() []string {
	var mods []string
	seen := make(map[string]bool)
	access := false
	for {
		mod, ok := modifierTokens[p.token().Kind]
		if !ok {
			return mods
		}
		p.scanner.Next()
		if seen[mod] {
			p.reportError("Repeated modifier: %s", mod)
		} else if accessModifiers[mod] && access {
			p.reportError("Access conflict in modifiers")
		}
		if accessModifiers[mod] {
			access = true
		}
		seen[mod] = true
		mods = append(mods, mod)
	}
}

func (p *Parser) parseClassDeclaration(mods []string) *ast.ClassDeclaration {
	line := p.line()
	p.mustBe(TokenClass)
	p.mustBe(TokenIdent)
	name := p.previous()
	var super *types.Type
	if p.have(TokenExtends) {
		super = types.Named(p.parseQualifiedIdentifier())
	}
	return ast.NewClassDeclaration(line, mods, name, super, p.parseClassBody())
}

func (p *Parser) parseClassBody() []ast.Member {
	var members []ast.Member
	p.mustBe(TokenLBrace)
	for !p.see(TokenRBrace) && !p.see(TokenEOF) {
		members = append(members, p.parseMemberDecl(p.parseModifiers()))
	}
	p.mustBe(TokenRBrace)
	return members
}

func (p *Parser) parseMemberDecl(mods []string) ast.Member {
	line := p.line()
	if p.seeIdentLParen() {
		p.mustBe(TokenIdent)
		name := p.previous()
		params := p.parseFormalParameters()
		throws := p.parseThrows()
		return ast.NewConstructorDeclaration(line, mods, name, params, throws, p.parseBlock())
	}
	var ret *types.Type
	if p.have(TokenVoid) {
		ret = types.Void
	} else {
		ret = p.parseType()
		if !p.seeIdentLParen() {
			decls := p.parseVariableDeclarators(ret)
			p.mustBe(TokenSemicolon)
			return ast.NewFieldDeclaration(line, mods, decls)
		}
	}
	p.mustBe(TokenIdent)
	name := p.previous()
	params := p.parseFormalParameters()
	throws := p.parseThrows()
	var body *ast.Block
	if !p.have(TokenSemicolon) {
		body = p.parseBlock()
	}
	return ast.NewMethodDeclaration(line, mods, ret, name, params, throws, body)
}

func (p *Parser) parseThrows() []*types.Type {
	if !p.have(TokenThrows) {
		return nil
	}
	var throws []*types.Type
	for {
		throws = append(throws, types.Named(p.parseQualifiedIdentifier()))
		if !p.have(TokenComma) {
			return throws
		}
	}
}

func (p *Parser) parseFormalParameters() []*ast.FormalParameter {
	var params []*ast.FormalParameter
	p.mustBe(TokenLParen)
	if p.have(TokenRParen) {
		return params
	}
	for {
		if n := len(params); n > 0 && params[n-1].Varargs {
			p.reportError("Varargs parameter must be the last parameter")
		}
		params = append(params, p.parseFormalParameter())
		if !p.have(TokenComma) {
			break
		}
	}
	p.mustBe(TokenRParen)
	return params
}

func (p *Parser) parseFormalParameter() *ast.FormalParameter {
	line := p.line()
	t := p.parseType()
	varargs := p.have(TokenEllipsis)
	if varargs {
		t = types.ArrayOf(t)
	}
	p.mustBe(TokenIdent)
	return ast.NewFormalParameter(line, p.previous(), t, varargs)
}

// parseType parses a basic or qualified type followed by any number of
// [] pairs.
func (p *Parser) parseType() *types.Type {
	var t *types.Type
	switch {
	case p.seeBasicType():
		t = basicTypes[p.token().Kind]
		p.scanner.Next()
	case p.see(TokenIdent):
		t = types.Named(p.parseQualifiedIdentifier())
	default:
		p.reportError("Type sought where %s found", p.token().Image())
		return types.Any
	}
	for p.seeDims() {
		p.mustBe(TokenLBracket)
		p.mustBe(TokenRBracket)
		t = types.ArrayOf(t)
	}
	return t
}

func (p *Parser) parseVariableDeclarators(t *types.Type) []*ast.VariableDeclarator {
	var decls []*ast.VariableDeclarator
	for {
		decls = append(decls, p.parseVariableDeclarator(t))
		if !p.have(TokenComma) {
			return decls
		}
	}
}

func (p *Parser) parseVariableDeclarator(t *types.Type) *ast.VariableDeclarator {
	line := p.line()
	p.mustBe(TokenIdent)
	d := &ast.VariableDeclarator{Line: line, Name: p.previous(), Type: t}
	if p.have(TokenAssign) {
		d.Init = p.parseVariableInitializer(t)
	}
	return d
}

func (p *Parser) parseVariableInitializer(t *types.Type) ast.Expression {
	if p.see(TokenLBrace) {
		return p.parseArrayInitializer(t)
	}
	return p.parseExpression()
}

// parseArrayInitializer allows a trailing comma before the closing brace.
func (p *Parser) parseArrayInitializer(t *types.Type) ast.Expression {
	line := p.line()
	var elems []ast.Expression
	component := t.ComponentType()
	if component == nil {
		component = types.Any
	}
	p.mustBe(TokenLBrace)
	for !p.see(TokenRBrace) && !p.see(TokenEOF) {
		elems = append(elems, p.parseVariableInitializer(component))
		if !p.have(TokenComma) {
			break
		}
	}
	p.mustBe(TokenRBrace)
	return ast.NewArrayInitializer(line, t, elems)
}
