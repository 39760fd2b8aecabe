package parser

import (
	"strings"

	"github.com/dhamidi/jminus/ast"
	"github.com/dhamidi/jminus/types"
)

// ParseExpression parses a single expression.
func (p *Parser) ParseExpression() ast.Expression {
	return p.parseExpression()
}

func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

func (p *Parser) parseParExpression() ast.Expression {
	p.mustBe(TokenLParen)
	e := p.parseExpression()
	p.mustBe(TokenRParen)
	return e
}

var assignOps = map[TokenKind]ast.Operator{
	TokenAssign:        ast.OpAssign,
	TokenPlusAssign:    ast.OpPlusAssign,
	TokenMinusAssign:   ast.OpMinusAssign,
	TokenStarAssign:    ast.OpStarAssign,
	TokenSlashAssign:   ast.OpSlashAssign,
	TokenPercentAssign: ast.OpPercentAssign,
	TokenShlAssign:     ast.OpShlAssign,
	TokenShrAssign:     ast.OpShrAssign,
	TokenUShrAssign:    ast.OpUShrAssign,
	TokenAndAssign:     ast.OpAndAssign,
	TokenOrAssign:      ast.OpOrAssign,
	TokenXorAssign:     ast.OpXorAssign,
}

// parseAssignment is right associative: a = b = c is a = (b = c).
func (p *Parser) parseAssignment() ast.Expression {
	line := p.line()
	lhs := p.parseTernary()
	op, ok := assignOps[p.token().Kind]
	if !ok {
		return lhs
	}
	p.scanner.Next()
	return ast.NewAssignExpression(line, op, lhs, p.parseAssignment())
}

// parseTernary is right associative.
func (p *Parser) parseTernary() ast.Expression {
	line := p.line()
	cond := p.parseBinary(0)
	if !p.have(TokenQuestion) {
		return cond
	}
	then := p.parseExpression()
	p.mustBe(TokenColon)
	return ast.NewTernary(line, cond, then, p.parseTernary())
}

// binaryLevels lists the left-associative binary levels from loosest to
// tightest. Relational operators and instanceof are handled separately.
var binaryLevels = []map[TokenKind]ast.Operator{
	{TokenOr: ast.OpOr},
	{TokenAnd: ast.OpAnd},
	{TokenBitOr: ast.OpBitOr},
	{TokenBitXor: ast.OpBitXor},
	{TokenBitAnd: ast.OpBitAnd},
	{TokenEQ: ast.OpEQ, TokenNE: ast.OpNE},
	nil,
	{TokenShl: ast.OpShl, TokenShr: ast.OpShr, TokenUShr: ast.OpUShr},
	{TokenPlus: ast.OpPlus, TokenMinus: ast.OpMinus},
	{TokenStar: ast.OpStar, TokenSlash: ast.OpSlash, TokenPercent: ast.OpPercent},
}

const relationalLevel = 6

var relationalOps = map[TokenKind]ast.Operator{
	TokenLT: ast.OpLT,
	TokenGT: ast.OpGT,
	TokenLE: ast.OpLE,
	TokenGE: ast.OpGE,
}

func (p *Parser) parseBinary(level int) ast.Expression {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	if level == relationalLevel {
		return p.parseRelational()
	}
	line := p.line()
	lhs := p.parseBinary(level + 1)
	for {
		op, ok := binaryLevels[level][p.token().Kind]
		if !ok {
			return lhs
		}
		p.scanner.Next()
		lhs = ast.NewBinaryExpression(line, op, lhs, p.parseBinary(level+1))
	}
}

// parseRelational does not chain: a < b < c is a syntax error.
func (p *Parser) parseRelational() ast.Expression {
	line := p.line()
	lhs := p.parseBinary(relationalLevel + 1)
	if op, ok := relationalOps[p.token().Kind]; ok {
		p.scanner.Next()
		return ast.NewBinaryExpression(line, op, lhs, p.parseBinary(relationalLevel+1))
	}
	if p.have(TokenInstanceof) {
		return ast.NewInstanceOf(line, lhs, p.parseType())
	}
	return lhs
}

var prefixOps = map[TokenKind]ast.Operator{
	TokenIncrement: ast.OpPreInc,
	TokenDecrement: ast.OpPreDec,
	TokenPlus:      ast.OpPos,
	TokenMinus:     ast.OpNeg,
}

func (p *Parser) parseUnary() ast.Expression {
	line := p.line()
	if op, ok := prefixOps[p.token().Kind]; ok {
		p.scanner.Next()
		return ast.NewUnaryExpression(line, op, p.parseUnary())
	}
	return p.parseSimpleUnary()
}

// parseSimpleUnary handles ! ~ and casts. A basic type cast takes any
// unary operand; a reference cast only a simple unary one.
func (p *Parser) parseSimpleUnary() ast.Expression {
	line := p.line()
	switch {
	case p.have(TokenNot):
		return ast.NewUnaryExpression(line, ast.OpNot, p.parseUnary())
	case p.have(TokenBitNot):
		return ast.NewUnaryExpression(line, ast.OpBitNot, p.parseUnary())
	case p.seeCast():
		p.mustBe(TokenLParen)
		basic := p.seeBasicType()
		t := p.parseType()
		p.mustBe(TokenRParen)
		if basic {
			return ast.NewCast(line, t, p.parseUnary())
		}
		return ast.NewCast(line, t, p.parseSimpleUnary())
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expression {
	line := p.line()
	e := p.parsePrimary()
	for p.see(TokenDot) || p.see(TokenLBracket) {
		e = p.parseSelector(e)
	}
	for {
		switch {
		case p.have(TokenIncrement):
			e = ast.NewUnaryExpression(line, ast.OpPostInc, e)
		case p.have(TokenDecrement):
			e = ast.NewUnaryExpression(line, ast.OpPostDec, e)
		default:
			return e
		}
	}
}

func (p *Parser) parseSelector(target ast.Expression) ast.Expression {
	line := p.line()
	if p.have(TokenDot) {
		p.mustBe(TokenIdent)
		name := p.previous()
		if p.see(TokenLParen) {
			return ast.NewMessageExpression(line, target, name, p.parseArguments())
		}
		return ast.NewFieldSelection(line, target, name)
	}
	p.mustBe(TokenLBracket)
	index := p.parseExpression()
	p.mustBe(TokenRBracket)
	return ast.NewArrayExpression(line, target, index)
}

func (p *Parser) parsePrimary() ast.Expression {
	line := p.line()
	switch {
	case p.see(TokenLParen):
		return p.parseParExpression()
	case p.have(TokenThis):
		if p.see(TokenLParen) {
			return ast.NewThisConstruction(line, p.parseArguments())
		}
		return ast.NewThis(line)
	case p.have(TokenSuper):
		if !p.have(TokenDot) {
			return ast.NewSuperConstruction(line, p.parseArguments())
		}
		p.mustBe(TokenIdent)
		name := p.previous()
		if p.see(TokenLParen) {
			return ast.NewMessageExpression(line, ast.NewSuper(line), name, p.parseArguments())
		}
		return ast.NewFieldSelection(line, ast.NewSuper(line), name)
	case p.have(TokenNew):
		return p.parseCreator()
	case p.see(TokenIdent):
		return p.parseName()
	}
	return p.parseLiteral()
}

// parseName turns a.b.c into a field selection or call on the ambiguous
// prefix a.b; a lone name is a variable or an unqualified call.
func (p *Parser) parseName() ast.Expression {
	line := p.line()
	id := p.parseQualifiedIdentifier()
	var target ast.Expression
	name := id
	if i := strings.LastIndexByte(id, '.'); i >= 0 {
		target = ast.NewAmbiguousName(line, id[:i])
		name = id[i+1:]
	}
	switch {
	case p.see(TokenLParen):
		return ast.NewMessageExpression(line, target, name, p.parseArguments())
	case target == nil:
		return ast.NewVariable(line, name)
	}
	return ast.NewFieldSelection(line, target, name)
}

func (p *Parser) parseArguments() []ast.Expression {
	var args []ast.Expression
	p.mustBe(TokenLParen)
	if p.have(TokenRParen) {
		return args
	}
	for {
		args = append(args, p.parseExpression())
		if !p.have(TokenComma) {
			break
		}
	}
	p.mustBe(TokenRParen)
	return args
}

// parseCreator parses what follows new: a constructor call, an array
// with an initializer, or an array with dimension expressions.
func (p *Parser) parseCreator() ast.Expression {
	line := p.line()
	var t *types.Type
	if p.seeBasicType() {
		t = basicTypes[p.token().Kind]
		p.scanner.Next()
	} else {
		t = types.Named(p.parseQualifiedIdentifier())
	}
	switch {
	case p.see(TokenLParen):
		return ast.NewNewOp(line, t, p.parseArguments())
	case p.seeDims():
		for p.have(TokenLBracket) {
			p.mustBe(TokenRBracket)
			t = types.ArrayOf(t)
		}
		return p.parseArrayInitializer(t)
	case p.see(TokenLBracket):
		return p.parseNewArrayDeclarator(line, t)
	}
	p.reportError("( or [ sought where %s found", p.token().Image())
	return ast.NewWild(line)
}

// parseNewArrayDeclarator parses [e1][e2]...[][] after new T.
func (p *Parser) parseNewArrayDeclarator(line int, t *types.Type) ast.Expression {
	var dims []ast.Expression
	for p.see(TokenLBracket) && !p.seeDims() {
		p.mustBe(TokenLBracket)
		dims = append(dims, p.parseExpression())
		p.mustBe(TokenRBracket)
		t = types.ArrayOf(t)
	}
	for p.seeDims() {
		p.mustBe(TokenLBracket)
		p.mustBe(TokenRBracket)
		t = types.ArrayOf(t)
	}
	return ast.NewNewArrayOp(line, t, dims)
}

var literalKinds = map[TokenKind]ast.LiteralKind{
	TokenIntLiteral:    ast.LiteralInt,
	TokenHexLiteral:    ast.LiteralInt,
	TokenOctalLiteral:  ast.LiteralInt,
	TokenBinaryLiteral: ast.LiteralInt,
	TokenLongLiteral:   ast.LiteralLong,
	TokenFloatLiteral:  ast.LiteralFloat,
	TokenDoubleLiteral: ast.LiteralDouble,
	TokenCharLiteral:   ast.LiteralChar,
	TokenStringLiteral: ast.LiteralString,
	TokenTrue:          ast.LiteralBoolean,
	TokenFalse:         ast.LiteralBoolean,
	TokenNull:          ast.LiteralNull,
}

func (p *Parser) parseLiteral() ast.Expression {
	tok := p.token()
	kind, ok := literalKinds[tok.Kind]
	if !ok {
		p.reportError("Literal sought where %s found", tok.Image())
		return ast.NewWild(tok.Line)
	}
	p.scanner.Next()
	return ast.NewLiteral(tok.Line, kind, tok.Literal)
}
