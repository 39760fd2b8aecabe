package ast

import (
	"github.com/dhamidi/jminus/emit"
	"github.com/dhamidi/jminus/types"
)

// AssignExpression is = or one of the compound assignment operators.
type AssignExpression struct {
	expr
	Op  Operator
	Lhs Expression
	Rhs Expression
}

func NewAssignExpression(line int, op Operator, lhs, rhs Expression) *AssignExpression {
	return &AssignExpression{expr: expr{line: line}, Op: op, Lhs: lhs, Rhs: rhs}
}

func (a *AssignExpression) Analyze(ctx *Context) Expression {
	out := *a
	out.Lhs = analyzed(a.Lhs, ctx)
	out.Rhs = analyzed(a.Rhs, ctx)
	if _, ok := out.Lhs.(lvalue); !ok {
		ctx.ReportSemanticError(a.line, "Illegal lhs for assignment")
		out.typ = types.Any
		return &out
	}
	lt, rt := out.Lhs.Type(), out.Rhs.Type()

	switch a.Op {
	case OpAssign:
		rt.MustMatchExpected(a.line, lt, ctx)
		out.typ = lt
	case OpPlusAssign:
		if lt == types.String {
			out.typ = types.String
			break
		}
		fallthrough
	case OpMinusAssign, OpStarAssign, OpSlashAssign, OpPercentAssign, OpShlAssign, OpShrAssign, OpUShrAssign:
		lt.MustMatchExpected(a.line, types.Int, ctx)
		rt.MustMatchExpected(a.line, types.Int, ctx)
		out.typ = lt
	case OpAndAssign, OpOrAssign, OpXorAssign:
		if lt == types.Boolean {
			rt.MustMatchExpected(a.line, types.Boolean, ctx)
		} else {
			lt.MustMatchExpected(a.line, types.Int, ctx)
			rt.MustMatchExpected(a.line, types.Int, ctx)
		}
		out.typ = lt
	}
	return &out
}

// Codegen stores into the target. A compound assignment loads the target,
// applies the operator and stores back. The value is left on the stack
// only when the assignment is used as an expression.
func (a *AssignExpression) Codegen(out emit.Emitter) {
	lv, ok := a.Lhs.(lvalue)
	if !ok {
		return
	}
	lv.codegenRef(out)
	if op, compound := a.Op.Binary(); compound {
		lv.codegenDupRef(out)
		lv.codegenLoad(out)
		a.Rhs.Codegen(out)
		if a.typ == types.String {
			codegenStringAppend(out, a.Rhs.Type())
		} else {
			out.AddNoArgInstruction(arithmeticOpcodes[op])
		}
	} else {
		a.Rhs.Codegen(out)
	}
	if !a.isStatement {
		lv.codegenDupValue(out)
	}
	lv.codegenStore(out)
}

// codegenStringAppend concatenates the value on top of the stack onto the
// string below it.
func codegenStringAppend(out emit.Emitter, operand *types.Type) {
	if operand != types.String {
		out.AddMemberAccessInstruction(emit.INVOKESTATIC, "java/lang/String", "valueOf",
			"("+appendDescriptor(operand)+")Ljava/lang/String;")
	}
	out.AddMemberAccessInstruction(emit.INVOKEVIRTUAL, "java/lang/String", "concat",
		"(Ljava/lang/String;)Ljava/lang/String;")
}

func (a *AssignExpression) codegenBranch(out emit.Emitter, target emit.Label, onTrue bool) {
	a.Codegen(out)
	branchOnValue(out, target, onTrue)
}

func (a *AssignExpression) Dump(d Dumper) {
	d.Open("AssignExpression", nodeAttrs(a.line, a.typ, Attr{"operator", a.Op.String()})...)
	dumpSection(d, "Lhs", a.Lhs)
	dumpSection(d, "Rhs", a.Rhs)
	d.Close()
}
