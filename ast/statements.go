package ast

import (
	"github.com/dhamidi/jminus/emit"
	"github.com/dhamidi/jminus/types"
)

// Block is { statements }. It opens a new local scope.
type Block struct {
	stmt
	Statements []Statement
}

func NewBlock(line int, statements []Statement) *Block {
	return &Block{stmt: stmt{line: line}, Statements: statements}
}

func (b *Block) Analyze(ctx *Context) Statement {
	return b.analyzeBlock(ctx)
}

func (b *Block) analyzeBlock(ctx *Context) *Block {
	out := *b
	ctx.pushScope()
	out.Statements = analyzeStatements(b.Statements, ctx)
	ctx.popScope()
	return &out
}

func analyzeStatements(ss []Statement, ctx *Context) []Statement {
	out := make([]Statement, len(ss))
	for i, s := range ss {
		out[i] = s.Analyze(ctx)
	}
	return out
}

func (b *Block) Codegen(out emit.Emitter) {
	for _, s := range b.Statements {
		s.Codegen(out)
	}
}

func (b *Block) Dump(d Dumper) {
	d.Open("Block", lineAttr(b.line))
	for _, s := range b.Statements {
		s.Dump(d)
	}
	d.Close()
}

// IfStatement has an optional else branch.
type IfStatement struct {
	stmt
	Cond Expression
	Then Statement
	Else Statement
}

func NewIfStatement(line int, cond Expression, then, els Statement) *IfStatement {
	return &IfStatement{stmt: stmt{line: line}, Cond: cond, Then: then, Else: els}
}

func (s *IfStatement) Analyze(ctx *Context) Statement {
	out := *s
	out.Cond = analyzed(s.Cond, ctx)
	out.Cond.Type().MustMatchExpected(s.line, types.Boolean, ctx)
	out.Then = s.Then.Analyze(ctx)
	if s.Else != nil {
		out.Else = s.Else.Analyze(ctx)
	}
	return &out
}

func (s *IfStatement) Codegen(out emit.Emitter) {
	elseLabel := out.CreateLabel()
	codegenBranch(s.Cond, out, elseLabel, false)
	s.Then.Codegen(out)
	if s.Else == nil {
		out.AddLabel(elseLabel)
		return
	}
	if endsAbruptly(s.Then) {
		out.AddLabel(elseLabel)
		s.Else.Codegen(out)
		return
	}
	end := out.CreateLabel()
	out.AddBranchInstruction(emit.GOTO, end)
	out.AddLabel(elseLabel)
	s.Else.Codegen(out)
	out.AddLabel(end)
}

func (s *IfStatement) Dump(d Dumper) {
	d.Open("IfStatement", lineAttr(s.line))
	dumpSection(d, "TestExpression", s.Cond)
	dumpSection(d, "ThenClause", s.Then)
	if s.Else != nil {
		dumpSection(d, "ElseClause", s.Else)
	}
	d.Close()
}

// WhileStatement tests before each iteration.
type WhileStatement struct {
	stmt
	Cond Expression
	Body Statement

	brk *breakTarget
}

func NewWhileStatement(line int, cond Expression, body Statement) *WhileStatement {
	return &WhileStatement{stmt: stmt{line: line}, Cond: cond, Body: body}
}

func (s *WhileStatement) Analyze(ctx *Context) Statement {
	out := *s
	out.Cond = analyzed(s.Cond, ctx)
	out.Cond.Type().MustMatchExpected(s.line, types.Boolean, ctx)
	out.brk = ctx.pushBreakTarget()
	out.Body = s.Body.Analyze(ctx)
	ctx.popBreakTarget()
	return &out
}

func (s *WhileStatement) Codegen(out emit.Emitter) {
	test := out.CreateLabel()
	exit := out.CreateLabel()
	if s.brk != nil {
		s.brk.label = exit
	}
	out.AddLabel(test)
	codegenBranch(s.Cond, out, exit, false)
	s.Body.Codegen(out)
	out.AddBranchInstruction(emit.GOTO, test)
	out.AddLabel(exit)
}

func (s *WhileStatement) Dump(d Dumper) {
	d.Open("WhileStatement", lineAttr(s.line))
	dumpSection(d, "TestExpression", s.Cond)
	dumpSection(d, "Body", s.Body)
	d.Close()
}

// DoWhileStatement runs the body, then repeats while Cond holds.
type DoWhileStatement struct {
	stmt
	Body Statement
	Cond Expression

	brk *breakTarget
}

func NewDoWhileStatement(line int, body Statement, cond Expression) *DoWhileStatement {
	return &DoWhileStatement{stmt: stmt{line: line}, Body: body, Cond: cond}
}

func (s *DoWhileStatement) Analyze(ctx *Context) Statement {
	out := *s
	out.brk = ctx.pushBreakTarget()
	out.Body = s.Body.Analyze(ctx)
	ctx.popBreakTarget()
	out.Cond = analyzed(s.Cond, ctx)
	out.Cond.Type().MustMatchExpected(s.line, types.Boolean, ctx)
	return &out
}

func (s *DoWhileStatement) Codegen(out emit.Emitter) {
	codegenPostTestLoop(out, s.Body, s.Cond, true, s.brk)
}

func (s *DoWhileStatement) Dump(d Dumper) {
	d.Open("DoWhileStatement", lineAttr(s.line))
	dumpSection(d, "Body", s.Body)
	dumpSection(d, "TestExpression", s.Cond)
	d.Close()
}

// DoUntilStatement runs the body, then repeats until Cond holds.
type DoUntilStatement struct {
	stmt
	Body Statement
	Cond Expression

	brk *breakTarget
}

func NewDoUntilStatement(line int, body Statement, cond Expression) *DoUntilStatement {
	return &DoUntilStatement{stmt: stmt{line: line}, Body: body, Cond: cond}
}

func (s *DoUntilStatement) Analyze(ctx *Context) Statement {
	out := *s
	out.brk = ctx.pushBreakTarget()
	out.Body = s.Body.Analyze(ctx)
	ctx.popBreakTarget()
	out.Cond = analyzed(s.Cond, ctx)
	out.Cond.Type().MustMatchExpected(s.line, types.Boolean, ctx)
	return &out
}

func (s *DoUntilStatement) Codegen(out emit.Emitter) {
	codegenPostTestLoop(out, s.Body, s.Cond, false, s.brk)
}

func (s *DoUntilStatement) Dump(d Dumper) {
	d.Open("DoUntilStatement", lineAttr(s.line))
	dumpSection(d, "Body", s.Body)
	dumpSection(d, "TestExpression", s.Cond)
	d.Close()
}

// codegenPostTestLoop jumps back to the top while cond == repeatOn. The
// exit label exists only when a break needs it.
func codegenPostTestLoop(out emit.Emitter, body Statement, cond Expression, repeatOn bool, brk *breakTarget) {
	top := out.CreateLabel()
	if brk != nil && brk.used {
		brk.label = out.CreateLabel()
	}
	out.AddLabel(top)
	body.Codegen(out)
	codegenBranch(cond, out, top, repeatOn)
	if brk != nil && brk.used {
		out.AddLabel(brk.label)
	}
}

// ForStatement is the classic three-clause loop. Cond may be nil.
type ForStatement struct {
	stmt
	Init   []Statement
	Cond   Expression
	Update []Statement
	Body   Statement

	brk *breakTarget
}

func NewForStatement(line int, init []Statement, cond Expression, update []Statement, body Statement) *ForStatement {
	return &ForStatement{stmt: stmt{line: line}, Init: init, Cond: cond, Update: update, Body: body}
}

func (s *ForStatement) Analyze(ctx *Context) Statement {
	out := *s
	ctx.pushScope()
	out.Init = analyzeStatements(s.Init, ctx)
	if s.Cond != nil {
		out.Cond = analyzed(s.Cond, ctx)
		out.Cond.Type().MustMatchExpected(s.line, types.Boolean, ctx)
	}
	out.Update = analyzeStatements(s.Update, ctx)
	out.brk = ctx.pushBreakTarget()
	out.Body = s.Body.Analyze(ctx)
	ctx.popBreakTarget()
	ctx.popScope()
	return &out
}

func (s *ForStatement) Codegen(out emit.Emitter) {
	for _, st := range s.Init {
		st.Codegen(out)
	}
	test := out.CreateLabel()
	needExit := s.Cond != nil || (s.brk != nil && s.brk.used)
	var exit emit.Label
	if needExit {
		exit = out.CreateLabel()
		if s.brk != nil {
			s.brk.label = exit
		}
	}
	out.AddLabel(test)
	if s.Cond != nil {
		codegenBranch(s.Cond, out, exit, false)
	}
	s.Body.Codegen(out)
	for _, st := range s.Update {
		st.Codegen(out)
	}
	out.AddBranchInstruction(emit.GOTO, test)
	if needExit {
		out.AddLabel(exit)
	}
}

func (s *ForStatement) Dump(d Dumper) {
	d.Open("ForStatement", lineAttr(s.line))
	dumpSection(d, "Init", statementNodes(s.Init)...)
	if s.Cond != nil {
		dumpSection(d, "TestExpression", s.Cond)
	}
	dumpSection(d, "Update", statementNodes(s.Update)...)
	dumpSection(d, "Body", s.Body)
	d.Close()
}

func statementNodes(ss []Statement) []Node {
	out := make([]Node, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// ForEachStatement is for (T name : iterable) body. Only arrays can be
// iterated.
type ForEachStatement struct {
	stmt
	VarType  *types.Type
	VarName  string
	Iterable Expression
	Body     Statement

	brk       *breakTarget
	variable  *LocalVariable
	arraySlot int
	indexSlot int
}

func NewForEachStatement(line int, varType *types.Type, varName string, iterable Expression, body Statement) *ForEachStatement {
	return &ForEachStatement{stmt: stmt{line: line}, VarType: varType, VarName: varName, Iterable: iterable, Body: body}
}

func (s *ForEachStatement) Analyze(ctx *Context) Statement {
	out := *s
	out.Iterable = analyzed(s.Iterable, ctx)
	it := out.Iterable.Type()
	switch {
	case it.IsArray():
		it.ComponentType().MustMatchExpected(s.line, s.VarType, ctx)
	case it != types.Any:
		ctx.ReportSemanticError(s.line, "Can only iterate over an array, found %s", it)
	}
	ctx.pushScope()
	out.arraySlot = ctx.allocate(types.Object)
	out.indexSlot = ctx.allocate(types.Int)
	out.variable = ctx.declare(s.line, s.VarName, s.VarType)
	out.brk = ctx.pushBreakTarget()
	out.Body = s.Body.Analyze(ctx)
	ctx.popBreakTarget()
	ctx.popScope()
	return &out
}

func (s *ForEachStatement) Codegen(out emit.Emitter) {
	test := out.CreateLabel()
	exit := out.CreateLabel()
	if s.brk != nil {
		s.brk.label = exit
	}
	s.Iterable.Codegen(out)
	out.AddOneArgInstruction(emit.ASTORE, s.arraySlot)
	out.AddNoArgInstruction(emit.ICONST_0)
	out.AddOneArgInstruction(emit.ISTORE, s.indexSlot)
	out.AddLabel(test)
	out.AddOneArgInstruction(emit.ILOAD, s.indexSlot)
	out.AddOneArgInstruction(emit.ALOAD, s.arraySlot)
	out.AddNoArgInstruction(emit.ARRAYLENGTH)
	out.AddBranchInstruction(emit.IF_ICMPGE, exit)
	out.AddOneArgInstruction(emit.ALOAD, s.arraySlot)
	out.AddOneArgInstruction(emit.ILOAD, s.indexSlot)
	out.AddNoArgInstruction(arrayLoadOpcode(s.VarType))
	out.AddOneArgInstruction(storeOpcode(s.VarType), s.variable.Slot)
	s.Body.Codegen(out)
	out.AddIINCInstruction(s.indexSlot, 1)
	out.AddBranchInstruction(emit.GOTO, test)
	out.AddLabel(exit)
}

func (s *ForEachStatement) Dump(d Dumper) {
	d.Open("ForEachStatement", lineAttr(s.line))
	d.Open("Variable", Attr{"name", s.VarName}, Attr{"type", s.VarType.String()})
	d.Close()
	dumpSection(d, "Iterable", s.Iterable)
	dumpSection(d, "Body", s.Body)
	d.Close()
}

// ReturnStatement has an optional value.
type ReturnStatement struct {
	stmt
	Value Expression

	returnType *types.Type
	tries      []*tryTarget
}

func NewReturnStatement(line int, value Expression) *ReturnStatement {
	return &ReturnStatement{stmt: stmt{line: line}, Value: value}
}

func (s *ReturnStatement) Analyze(ctx *Context) Statement {
	out := *s
	rt := ctx.returnType()
	out.returnType = rt
	out.tries = ctx.enclosingTries(0)
	if s.Value == nil {
		if rt != types.Void && rt != types.Any {
			ctx.ReportSemanticError(s.line, "Missing return value")
		}
		return &out
	}
	out.Value = analyzed(s.Value, ctx)
	if rt == types.Void {
		ctx.ReportSemanticError(s.line, "Cannot return a value from a void method")
		return &out
	}
	out.Value.Type().MustMatchExpected(s.line, rt, ctx)
	return &out
}

// Codegen runs enclosing finally blocks before returning. A return value
// waits in the outermost finally's slot while they run.
func (s *ReturnStatement) Codegen(out emit.Emitter) {
	if s.Value == nil {
		codegenExit(out, s.tries, func() {
			out.AddNoArgInstruction(emit.RETURN)
		})
		return
	}
	s.Value.Codegen(out)
	slot, ok := returnSlot(s.tries)
	if !ok {
		out.AddNoArgInstruction(returnOpcode(s.returnType))
		return
	}
	out.AddOneArgInstruction(storeOpcode(s.returnType), slot)
	codegenExit(out, s.tries, func() {
		out.AddOneArgInstruction(loadOpcode(s.returnType), slot)
		out.AddNoArgInstruction(returnOpcode(s.returnType))
	})
}

// returnSlot finds the outermost try with a finally block. Its slot was
// reserved before any of the inner blocks' locals.
func returnSlot(tries []*tryTarget) (int, bool) {
	for _, t := range tries {
		if t.finally != nil {
			return t.returnSlot, true
		}
	}
	return 0, false
}

func (s *ReturnStatement) Dump(d Dumper) {
	d.Open("ReturnStatement", lineAttr(s.line))
	if s.Value != nil {
		s.Value.Dump(d)
	}
	d.Close()
}

// BreakStatement leaves the innermost loop or switch.
type BreakStatement struct {
	stmt

	target *breakTarget
	tries  []*tryTarget
}

func NewBreakStatement(line int) *BreakStatement {
	return &BreakStatement{stmt: stmt{line: line}}
}

func (s *BreakStatement) Analyze(ctx *Context) Statement {
	out := *s
	out.target = ctx.currentBreakTarget()
	if out.target == nil {
		ctx.ReportSemanticError(s.line, "break outside of a loop or switch")
		return &out
	}
	out.target.used = true
	out.tries = ctx.enclosingTries(out.target.tryDepth)
	return &out
}

func (s *BreakStatement) Codegen(out emit.Emitter) {
	if s.target == nil {
		return
	}
	codegenExit(out, s.tries, func() {
		out.AddBranchInstruction(emit.GOTO, s.target.label)
	})
}

// codegenExit leaves the try statements in tries, running their finally
// blocks innermost first, then emits exit. The code from each try's
// first inlined instruction through exit is a gap in that try's
// protected ranges.
func codegenExit(out emit.Emitter, tries []*tryTarget, exit func()) {
	if _, ok := returnSlot(tries); !ok {
		exit()
		return
	}
	starts := make([]emit.Label, len(tries))
	first, abrupt := len(tries), false
	for i := len(tries) - 1; i >= 0 && !abrupt; i-- {
		starts[i] = out.CreateLabel()
		out.AddLabel(starts[i])
		first = i
		if f := tries[i].finally; f != nil {
			f.Codegen(out)
			abrupt = endsAbruptly(f)
		}
	}
	if !abrupt {
		exit()
	}
	end := out.CreateLabel()
	out.AddLabel(end)
	for i := first; i < len(tries); i++ {
		tries[i].gaps = append(tries[i].gaps, codeRange{starts[i], end})
	}
}

// endsAbruptly reports whether control never falls out of the end of s.
func endsAbruptly(s Statement) bool {
	switch s := s.(type) {
	case *ReturnStatement, *ThrowStatement, *BreakStatement:
		return true
	case *Block:
		return len(s.Statements) > 0 && endsAbruptly(s.Statements[len(s.Statements)-1])
	case *IfStatement:
		return s.Else != nil && endsAbruptly(s.Then) && endsAbruptly(s.Else)
	case *TryStatement:
		if s.Finally != nil && endsAbruptly(s.Finally) {
			return true
		}
		if !endsAbruptly(s.Body) {
			return false
		}
		for _, c := range s.Catches {
			if !endsAbruptly(c.Body) {
				return false
			}
		}
		return true
	}
	return false
}

func (s *BreakStatement) Dump(d Dumper) {
	d.Open("BreakStatement", lineAttr(s.line))
	d.Close()
}

// EmptyStatement is a lone semicolon.
type EmptyStatement struct {
	stmt
}

func NewEmptyStatement(line int) *EmptyStatement {
	return &EmptyStatement{stmt: stmt{line: line}}
}

func (s *EmptyStatement) Analyze(ctx *Context) Statement {
	out := *s
	return &out
}

func (s *EmptyStatement) Codegen(out emit.Emitter) {}

func (s *EmptyStatement) Dump(d Dumper) {
	d.Open("EmptyStatement", lineAttr(s.line))
	d.Close()
}

// ThrowStatement throws a primary expression. IsNew records whether the
// operand was constructed in place (throw new E()) or named.
type ThrowStatement struct {
	stmt
	Value Expression
	IsNew bool
}

func NewThrowStatement(line int, value Expression, isNew bool) *ThrowStatement {
	return &ThrowStatement{stmt: stmt{line: line}, Value: value, IsNew: isNew}
}

func (s *ThrowStatement) Analyze(ctx *Context) Statement {
	out := *s
	out.Value = analyzed(s.Value, ctx)
	if t := out.Value.Type(); t != types.Any && !t.IsReference() {
		ctx.ReportSemanticError(s.line, "Cannot throw a value of type %s", t)
	}
	return &out
}

func (s *ThrowStatement) Codegen(out emit.Emitter) {
	s.Value.Codegen(out)
	out.AddNoArgInstruction(emit.ATHROW)
}

func (s *ThrowStatement) Dump(d Dumper) {
	isNew := "false"
	if s.IsNew {
		isNew = "true"
	}
	d.Open("ThrowStatement", lineAttr(s.line), Attr{"new", isNew})
	s.Value.Dump(d)
	d.Close()
}

// StatementExpression is an expression evaluated for its side effect.
type StatementExpression struct {
	stmt
	Expr Expression
}

func NewStatementExpression(line int, e Expression) *StatementExpression {
	return &StatementExpression{stmt: stmt{line: line}, Expr: e}
}

func (s *StatementExpression) Analyze(ctx *Context) Statement {
	out := *s
	out.Expr = analyzed(s.Expr, ctx)
	return &out
}

func (s *StatementExpression) Codegen(out emit.Emitter) {
	s.Expr.Codegen(out)
}

func (s *StatementExpression) Dump(d Dumper) {
	d.Open("StatementExpression", lineAttr(s.line))
	s.Expr.Dump(d)
	d.Close()
}

// VariableDeclarator is one name in a declaration, with an optional
// initializer.
type VariableDeclarator struct {
	Line int
	Name string
	Type *types.Type
	Init Expression
}

func (v *VariableDeclarator) Dump(d Dumper) {
	d.Open("VariableDeclarator", lineAttr(v.Line), Attr{"name", v.Name}, Attr{"type", v.Type.String()})
	if v.Init != nil {
		dumpSection(d, "Initializer", v.Init)
	}
	d.Close()
}

// VariableDeclaration declares one or more locals.
type VariableDeclaration struct {
	stmt
	Mods        []string
	Declarators []*VariableDeclarator

	locals []*LocalVariable
}

func NewVariableDeclaration(line int, mods []string, declarators []*VariableDeclarator) *VariableDeclaration {
	return &VariableDeclaration{stmt: stmt{line: line}, Mods: mods, Declarators: declarators}
}

func (s *VariableDeclaration) Analyze(ctx *Context) Statement {
	out := *s
	out.Declarators = make([]*VariableDeclarator, len(s.Declarators))
	out.locals = make([]*LocalVariable, len(s.Declarators))
	for i, v := range s.Declarators {
		dv := *v
		if v.Init != nil {
			dv.Init = analyzed(v.Init, ctx)
			dv.Init.Type().MustMatchExpected(v.Line, v.Type, ctx)
		}
		out.locals[i] = ctx.declare(v.Line, v.Name, v.Type)
		out.Declarators[i] = &dv
	}
	return &out
}

func (s *VariableDeclaration) Codegen(out emit.Emitter) {
	for i, v := range s.Declarators {
		if v.Init == nil {
			continue
		}
		v.Init.Codegen(out)
		out.AddOneArgInstruction(storeOpcode(v.Type), s.locals[i].Slot)
	}
}

func (s *VariableDeclaration) Dump(d Dumper) {
	d.Open("VariableDeclaration", lineAttr(s.line))
	dumpModifiers(d, s.Mods)
	for _, v := range s.Declarators {
		v.Dump(d)
	}
	d.Close()
}

func dumpModifiers(d Dumper, mods []string) {
	if len(mods) == 0 {
		return
	}
	d.Open("Modifiers")
	for _, m := range mods {
		d.Text("%s", m)
	}
	d.Close()
}
