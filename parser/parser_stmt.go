package parser

import (
	"github.com/dhamidi/jminus/ast"
)

func (p *Parser) parseBlock() *ast.Block {
	line := p.line()
	var stmts []ast.Statement
	p.mustBe(TokenLBrace)
	for !p.see(TokenRBrace) && !p.see(TokenEOF) {
		stmts = append(stmts, p.parseBlockStatement())
	}
	p.mustBe(TokenRBrace)
	return ast.NewBlock(line, stmts)
}

func (p *Parser) parseBlockStatement() ast.Statement {
	if p.seeLocalVariableDeclaration() {
		return p.parseLocalVariableDeclaration()
	}
	return p.parseStatement()
}

func (p *Parser) parseLocalVariableDeclaration() ast.Statement {
	line := p.line()
	decls := p.parseVariableDeclarators(p.parseType())
	p.mustBe(TokenSemicolon)
	return ast.NewVariableDeclaration(line, nil, decls)
}

// ParseStatement parses a single block statement, for tools and tests that
// work below the compilation unit.
func (p *Parser) ParseStatement() ast.Statement {
	return p.parseBlockStatement()
}

func (p *Parser) parseStatement() ast.Statement {
	line := p.line()
	switch {
	case p.see(TokenLBrace):
		return p.parseBlock()
	case p.have(TokenIf):
		cond := p.parseParExpression()
		then := p.parseStatement()
		var els ast.Statement
		if p.have(TokenElse) {
			els = p.parseStatement()
		}
		return ast.NewIfStatement(line, cond, then, els)
	case p.have(TokenWhile):
		cond := p.parseParExpression()
		return ast.NewWhileStatement(line, cond, p.parseStatement())
	case p.have(TokenDo):
		return p.parseDoStatement(line)
	case p.have(TokenFor):
		return p.parseForStatement(line)
	case p.have(TokenReturn):
		if p.have(TokenSemicolon) {
			return ast.NewReturnStatement(line, nil)
		}
		value := p.parseExpression()
		p.mustBe(TokenSemicolon)
		return ast.NewReturnStatement(line, value)
	case p.have(TokenBreak):
		p.mustBe(TokenSemicolon)
		return ast.NewBreakStatement(line)
	case p.have(TokenSemicolon):
		return ast.NewEmptyStatement(line)
	case p.have(TokenThrow):
		isNew := p.see(TokenNew)
		value := p.parsePrimary()
		p.mustBe(TokenSemicolon)
		return ast.NewThrowStatement(line, value, isNew)
	case p.have(TokenTry):
		return p.parseTryStatement(line)
	case p.have(TokenSwitch):
		return p.parseSwitchStatement(line)
	}
	s := p.parseStatementExpression()
	p.mustBe(TokenSemicolon)
	return s
}

// parseDoStatement handles both do-while and the do-until extension.
func (p *Parser) parseDoStatement(line int) ast.Statement {
	body := p.parseStatement()
	if p.have(TokenUntil) {
		cond := p.parseParExpression()
		p.mustBe(TokenSemicolon)
		return ast.NewDoUntilStatement(line, body, cond)
	}
	p.mustBe(TokenWhile)
	cond := p.parseParExpression()
	p.mustBe(TokenSemicolon)
	return ast.NewDoWhileStatement(line, body, cond)
}

// parseForStatement tells for-each from the classic form by a colon right
// after the first declarator's name.
func (p *Parser) parseForStatement(line int) ast.Statement {
	p.mustBe(TokenLParen)
	var init []ast.Statement
	switch {
	case p.seeLocalVariableDeclaration():
		declLine := p.line()
		t := p.parseType()
		p.mustBe(TokenIdent)
		name := p.previous()
		if p.have(TokenColon) {
			iterable := p.parseExpression()
			p.mustBe(TokenRParen)
			return ast.NewForEachStatement(line, t, name, iterable, p.parseStatement())
		}
		first := &ast.VariableDeclarator{Line: declLine, Name: name, Type: t}
		if p.have(TokenAssign) {
			first.Init = p.parseVariableInitializer(t)
		}
		decls := []*ast.VariableDeclarator{first}
		if p.have(TokenComma) {
			decls = append(decls, p.parseVariableDeclarators(t)...)
		}
		init = []ast.Statement{ast.NewVariableDeclaration(declLine, nil, decls)}
	case !p.see(TokenSemicolon):
		init = p.parseStatementExpressionList()
	}
	p.mustBe(TokenSemicolon)
	var cond ast.Expression
	if !p.see(TokenSemicolon) {
		cond = p.parseExpression()
	}
	p.mustBe(TokenSemicolon)
	var update []ast.Statement
	if !p.see(TokenRParen) {
		update = p.parseStatementExpressionList()
	}
	p.mustBe(TokenRParen)
	return ast.NewForStatement(line, init, cond, update, p.parseStatement())
}

func (p *Parser) parseStatementExpressionList() []ast.Statement {
	var out []ast.Statement
	for {
		out = append(out, p.parseStatementExpression())
		if !p.have(TokenComma) {
			return out
		}
	}
}

func (p *Parser) parseTryStatement(line int) ast.Statement {
	body := p.parseBlock()
	var catches []*ast.CatchClause
	p.mustBe(TokenCatch)
	for {
		catchLine := p.scanner.PreviousToken().Line
		p.mustBe(TokenLParen)
		param := p.parseFormalParameter()
		p.mustBe(TokenRParen)
		catches = append(catches, &ast.CatchClause{Line: catchLine, Param: param, Body: p.parseBlock()})
		if !p.have(TokenCatch) {
			break
		}
	}
	var finally ast.Statement
	if p.have(TokenFinally) {
		finally = p.parseBlock()
	}
	return ast.NewTryStatement(line, body, catches, finally)
}

// parseSwitchStatement collects consecutive labels into one case group
// whose body runs up to the next label or the closing brace.
func (p *Parser) parseSwitchStatement(line int) ast.Statement {
	sw := ast.NewSwitchStatement(line, p.parseParExpression())
	p.mustBe(TokenLBrace)
	var labels []ast.Expression
	for p.see(TokenCase) || p.see(TokenDefault) {
		if p.have(TokenDefault) {
			labels = append(labels, nil)
		} else {
			p.mustBe(TokenCase)
			labels = append(labels, p.parseExpression())
		}
		p.mustBe(TokenColon)
		if p.see(TokenCase) || p.see(TokenDefault) {
			continue
		}
		groupLine := p.line()
		var body []ast.Statement
		for !p.see(TokenCase) && !p.see(TokenDefault) && !p.see(TokenRBrace) && !p.see(TokenEOF) {
			body = append(body, p.parseBlockStatement())
		}
		if !sw.AddGroup(labels, body) {
			p.reportErrorAt(groupLine, "Duplicate case label in switch statement")
		}
		labels = nil
	}
	p.mustBe(TokenRBrace)
	return sw
}

// parseStatementExpression rejects expressions without a side effect.
// Placeholders for unparseable input have been reported already.
func (p *Parser) parseStatementExpression() ast.Statement {
	line := p.line()
	e := p.parseExpression()
	if _, wild := e.(*ast.Wild); !wild && !ast.MarkStatementExpression(e) {
		p.reportError("Invalid statement expression; it does not have a side effect")
	}
	return ast.NewStatementExpression(line, e)
}
