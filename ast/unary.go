package ast

import (
	"github.com/dhamidi/jminus/emit"
	"github.com/dhamidi/jminus/types"
)

// UnaryExpression covers prefix and postfix operators.
type UnaryExpression struct {
	expr
	Op      Operator
	Operand Expression
}

func NewUnaryExpression(line int, op Operator, operand Expression) *UnaryExpression {
	return &UnaryExpression{expr: expr{line: line}, Op: op, Operand: operand}
}

func (u *UnaryExpression) Analyze(ctx *Context) Expression {
	out := *u
	out.Operand = analyzed(u.Operand, ctx)
	ot := out.Operand.Type()
	switch u.Op {
	case OpNot:
		ot.MustMatchExpected(u.line, types.Boolean, ctx)
		out.typ = types.Boolean
	case OpNeg, OpPos, OpBitNot:
		ot.MustMatchExpected(u.line, types.Int, ctx)
		out.typ = types.Int
	default:
		if _, ok := out.Operand.(lvalue); !ok {
			ctx.ReportSemanticError(u.line, "Operand to %s must have an lvalue", u.Op)
			out.typ = types.Any
			return &out
		}
		ot.MustMatchExpected(u.line, types.Int, ctx)
		out.typ = types.Int
	}
	return &out
}

func (u *UnaryExpression) Codegen(out emit.Emitter) {
	switch u.Op {
	case OpNot:
		codegenBooleanValue(out, u)
	case OpNeg:
		u.Operand.Codegen(out)
		out.AddNoArgInstruction(emit.INEG)
	case OpPos:
		u.Operand.Codegen(out)
	case OpBitNot:
		u.Operand.Codegen(out)
		out.AddNoArgInstruction(emit.ICONST_M1)
		out.AddNoArgInstruction(emit.IXOR)
	default:
		u.codegenIncDec(out)
	}
}

func (u *UnaryExpression) codegenIncDec(out emit.Emitter) {
	lv, ok := u.Operand.(lvalue)
	if !ok {
		return
	}
	delta, op := 1, emit.IADD
	if u.Op == OpPreDec || u.Op == OpPostDec {
		delta, op = -1, emit.ISUB
	}
	post := u.Op == OpPostInc || u.Op == OpPostDec
	keep := !u.isStatement

	if slot, ok := lv.localSlot(); ok {
		if post && keep {
			out.AddOneArgInstruction(emit.ILOAD, slot)
		}
		out.AddIINCInstruction(slot, delta)
		if !post && keep {
			out.AddOneArgInstruction(emit.ILOAD, slot)
		}
		return
	}

	lv.codegenRef(out)
	lv.codegenDupRef(out)
	lv.codegenLoad(out)
	if post && keep {
		lv.codegenDupValue(out)
	}
	out.AddNoArgInstruction(emit.ICONST_1)
	out.AddNoArgInstruction(op)
	if !post && keep {
		lv.codegenDupValue(out)
	}
	lv.codegenStore(out)
}

func (u *UnaryExpression) codegenBranch(out emit.Emitter, target emit.Label, onTrue bool) {
	if u.Op == OpNot {
		codegenBranch(u.Operand, out, target, !onTrue)
		return
	}
	u.Codegen(out)
	branchOnValue(out, target, onTrue)
}

func (u *UnaryExpression) Dump(d Dumper) {
	d.Open("UnaryExpression", nodeAttrs(u.line, u.typ, Attr{"operator", u.Op.String()})...)
	dumpSection(d, "Operand", u.Operand)
	d.Close()
}
