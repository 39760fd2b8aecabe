package format

import (
	"strings"

	"github.com/dhamidi/jminus/ast"
)

// printBlock writes a block starting at the current column and leaves the
// cursor after the closing brace.
func (p *Printer) printBlock(b *ast.Block) {
	if len(b.Statements) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.newline()
	p.indent++
	for _, s := range b.Statements {
		p.printStatement(s)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

// printBody writes the body of a compound statement. A block stays on the
// header line; anything else goes on its own line, one level deeper. It
// reports whether the body was a block.
func (p *Printer) printBody(s ast.Statement) bool {
	if b, ok := s.(*ast.Block); ok {
		p.write(" ")
		p.printBlock(b)
		return true
	}
	p.newline()
	p.indent++
	p.writeStatement(s)
	p.indent--
	return false
}

func (p *Printer) printStatement(s ast.Statement) {
	p.writeStatement(s)
	if !p.atLineStart {
		p.newline()
	}
}

// writeStatement writes s without the trailing newline.
func (p *Printer) writeStatement(s ast.Statement) {
	p.writeIndent()
	switch s := s.(type) {
	case *ast.Block:
		p.printBlock(s)
	case *ast.IfStatement:
		p.printIf(s)
	case *ast.WhileStatement:
		p.write("while (" + exprString(s.Cond, 0) + ")")
		p.printBody(s.Body)
	case *ast.DoWhileStatement:
		p.printDo(s.Body, "while", s.Cond)
	case *ast.DoUntilStatement:
		p.printDo(s.Body, "until", s.Cond)
	case *ast.ForStatement:
		p.printFor(s)
	case *ast.ForEachStatement:
		p.write("for (" + typeString(s.VarType) + " " + s.VarName + " : " + exprString(s.Iterable, 0) + ")")
		p.printBody(s.Body)
	case *ast.ReturnStatement:
		if s.Value == nil {
			p.write("return;")
		} else {
			p.write("return " + exprString(s.Value, 0) + ";")
		}
	case *ast.BreakStatement:
		p.write("break;")
	case *ast.EmptyStatement:
		p.write(";")
	case *ast.ThrowStatement:
		p.write("throw " + primaryString(s.Value) + ";")
	case *ast.TryStatement:
		p.printTry(s)
	case *ast.SwitchStatement:
		p.printSwitch(s)
	case *ast.StatementExpression:
		p.write(exprString(s.Expr, 0) + ";")
	case *ast.VariableDeclaration:
		p.writeModifiers(s.Mods)
		p.write(declaratorsString(s.Declarators) + ";")
	}
}

func (p *Printer) printIf(s *ast.IfStatement) {
	p.write("if (" + exprString(s.Cond, 0) + ")")
	then := s.Then
	if s.Else != nil && danglingIf(then) {
		then = ast.NewBlock(then.Line(), []ast.Statement{then})
	}
	block := p.printBody(then)
	if s.Else == nil {
		return
	}
	if block {
		p.write(" else")
	} else {
		p.newline()
		p.writeIndent()
		p.write("else")
	}
	if elseIf, ok := s.Else.(*ast.IfStatement); ok {
		p.write(" ")
		p.printIf(elseIf)
		return
	}
	p.printBody(s.Else)
}

// danglingIf reports whether s ends in an if without else, which would
// capture a following else once printed without braces.
func danglingIf(s ast.Statement) bool {
	switch s := s.(type) {
	case *ast.IfStatement:
		return s.Else == nil || danglingIf(s.Else)
	case *ast.WhileStatement:
		return danglingIf(s.Body)
	case *ast.ForStatement:
		return danglingIf(s.Body)
	case *ast.ForEachStatement:
		return danglingIf(s.Body)
	}
	return false
}

func (p *Printer) printDo(body ast.Statement, keyword string, cond ast.Expression) {
	p.write("do")
	if p.printBody(body) {
		p.write(" ")
	} else {
		p.newline()
		p.writeIndent()
	}
	p.write(keyword + " (" + exprString(cond, 0) + ");")
}

func (p *Printer) printFor(s *ast.ForStatement) {
	var cond string
	if s.Cond != nil {
		cond = " " + exprString(s.Cond, 0)
	}
	update := forClause(s.Update)
	if update != "" {
		update = " " + update
	}
	p.write("for (" + forClause(s.Init) + ";" + cond + ";" + update + ")")
	p.printBody(s.Body)
}

// forClause renders the init or update part of a for header: a single
// local declaration or a comma separated list of statement expressions.
func forClause(stmts []ast.Statement) string {
	parts := make([]string, 0, len(stmts))
	for _, s := range stmts {
		switch s := s.(type) {
		case *ast.VariableDeclaration:
			parts = append(parts, declaratorsString(s.Declarators))
		case *ast.StatementExpression:
			parts = append(parts, exprString(s.Expr, 0))
		}
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) printTry(s *ast.TryStatement) {
	p.write("try")
	p.printBody(s.Body)
	for _, c := range s.Catches {
		p.write(" catch (" + parameterString(c.Param) + ")")
		p.printBody(c.Body)
	}
	if s.Finally != nil {
		p.write(" finally")
		p.printBody(s.Finally)
	}
}

func (p *Printer) printSwitch(s *ast.SwitchStatement) {
	p.write("switch (" + exprString(s.Clause, 0) + ") {")
	p.newline()
	p.indent++
	for _, g := range s.Groups {
		for _, l := range g.Labels {
			if l == nil {
				p.line("default:")
			} else {
				p.line("case " + exprString(l, 0) + ":")
			}
		}
		p.indent++
		for _, st := range g.Body {
			p.printStatement(st)
		}
		p.indent--
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

// declaratorsString renders "T a = 1, b" for field, local and for-init
// declarations. All declarators of one declaration share a type.
func declaratorsString(decls []*ast.VariableDeclarator) string {
	if len(decls) == 0 {
		return ""
	}
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.Name
		if d.Init != nil {
			parts[i] += " = " + initializerString(d.Init)
		}
	}
	return typeString(decls[0].Type) + " " + strings.Join(parts, ", ")
}
