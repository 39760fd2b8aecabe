package ast

import (
	"github.com/dhamidi/jminus/emit"
	"github.com/dhamidi/jminus/types"
)

// BinaryExpression covers every infix operator except assignment.
type BinaryExpression struct {
	expr
	Op  Operator
	Lhs Expression
	Rhs Expression
}

func NewBinaryExpression(line int, op Operator, lhs, rhs Expression) *BinaryExpression {
	return &BinaryExpression{expr: expr{line: line}, Op: op, Lhs: lhs, Rhs: rhs}
}

var arithmeticOpcodes = map[Operator]emit.Opcode{
	OpPlus:    emit.IADD,
	OpMinus:   emit.ISUB,
	OpStar:    emit.IMUL,
	OpSlash:   emit.IDIV,
	OpPercent: emit.IREM,
	OpShl:     emit.ISHL,
	OpShr:     emit.ISHR,
	OpUShr:    emit.IUSHR,
	OpBitAnd:  emit.IAND,
	OpBitOr:   emit.IOR,
	OpBitXor:  emit.IXOR,
}

var compareOpcodes = map[Operator]emit.Opcode{
	OpEQ: emit.IF_ICMPEQ,
	OpNE: emit.IF_ICMPNE,
	OpLT: emit.IF_ICMPLT,
	OpGT: emit.IF_ICMPGT,
	OpLE: emit.IF_ICMPLE,
	OpGE: emit.IF_ICMPGE,
}

// Analyze types the operands. A + with a String operand is replaced by a
// StringConcatenation.
func (b *BinaryExpression) Analyze(ctx *Context) Expression {
	out := *b
	out.Lhs = analyzed(b.Lhs, ctx)
	out.Rhs = analyzed(b.Rhs, ctx)
	lt, rt := out.Lhs.Type(), out.Rhs.Type()

	switch b.Op {
	case OpPlus:
		switch {
		case lt == types.String || rt == types.String:
			return NewStringConcatenation(b.line, out.Lhs, out.Rhs).Analyze(ctx)
		case lt == types.Int && rt == types.Int:
			out.typ = types.Int
		case lt == types.Any || rt == types.Any:
			out.typ = types.Any
		default:
			ctx.ReportSemanticError(b.line, "Invalid operand types for +")
			out.typ = types.Any
		}
	case OpMinus, OpStar, OpSlash, OpPercent, OpShl, OpShr, OpUShr:
		lt.MustMatchExpected(b.line, types.Int, ctx)
		rt.MustMatchExpected(b.line, types.Int, ctx)
		out.typ = types.Int
	case OpBitAnd, OpBitOr, OpBitXor:
		if lt == types.Boolean {
			rt.MustMatchExpected(b.line, types.Boolean, ctx)
			out.typ = types.Boolean
		} else {
			lt.MustMatchExpected(b.line, types.Int, ctx)
			rt.MustMatchExpected(b.line, types.Int, ctx)
			out.typ = types.Int
		}
	case OpAnd, OpOr:
		lt.MustMatchExpected(b.line, types.Boolean, ctx)
		rt.MustMatchExpected(b.line, types.Boolean, ctx)
		out.typ = types.Boolean
	case OpEQ, OpNE:
		rt.MustMatchExpected(b.line, lt, ctx)
		out.typ = types.Boolean
	case OpLT, OpGT, OpLE, OpGE:
		lt.MustMatchOneOf(b.line, ctx, types.Int, types.Char)
		rt.MustMatchOneOf(b.line, ctx, types.Int, types.Char)
		out.typ = types.Boolean
	}
	return &out
}

func (b *BinaryExpression) Codegen(out emit.Emitter) {
	switch {
	case b.Op == OpAnd || b.Op == OpOr || b.Op.IsRelational():
		codegenBooleanValue(out, b)
	default:
		b.Lhs.Codegen(out)
		b.Rhs.Codegen(out)
		out.AddNoArgInstruction(arithmeticOpcodes[b.Op])
	}
}

func (b *BinaryExpression) codegenBranch(out emit.Emitter, target emit.Label, onTrue bool) {
	switch {
	case b.Op == OpAnd && onTrue:
		skip := out.CreateLabel()
		codegenBranch(b.Lhs, out, skip, false)
		codegenBranch(b.Rhs, out, target, true)
		out.AddLabel(skip)
	case b.Op == OpAnd:
		codegenBranch(b.Lhs, out, target, false)
		codegenBranch(b.Rhs, out, target, false)
	case b.Op == OpOr && onTrue:
		codegenBranch(b.Lhs, out, target, true)
		codegenBranch(b.Rhs, out, target, true)
	case b.Op == OpOr:
		skip := out.CreateLabel()
		codegenBranch(b.Lhs, out, skip, true)
		codegenBranch(b.Rhs, out, target, false)
		out.AddLabel(skip)
	case b.Op.IsRelational():
		b.Lhs.Codegen(out)
		b.Rhs.Codegen(out)
		op := compareOpcodes[b.Op]
		if b.Lhs.Type() != nil && b.Lhs.Type().IsReference() {
			if b.Op == OpEQ {
				op = emit.IF_ACMPEQ
			} else {
				op = emit.IF_ACMPNE
			}
		}
		if !onTrue {
			op = op.Negate()
		}
		out.AddBranchInstruction(op, target)
	default:
		b.Codegen(out)
		branchOnValue(out, target, onTrue)
	}
}

func (b *BinaryExpression) Dump(d Dumper) {
	d.Open("BinaryExpression", nodeAttrs(b.line, b.typ, Attr{"operator", b.Op.String()})...)
	dumpSection(d, "Lhs", b.Lhs)
	dumpSection(d, "Rhs", b.Rhs)
	d.Close()
}

// StringConcatenation is what a + over a String becomes after analysis.
type StringConcatenation struct {
	expr
	Lhs Expression
	Rhs Expression
}

func NewStringConcatenation(line int, lhs, rhs Expression) *StringConcatenation {
	return &StringConcatenation{expr: expr{line: line}, Lhs: lhs, Rhs: rhs}
}

func (s *StringConcatenation) Analyze(ctx *Context) Expression {
	out := *s
	out.Lhs = analyzed(s.Lhs, ctx)
	out.Rhs = analyzed(s.Rhs, ctx)
	out.typ = types.String
	return &out
}

const stringBuilder = "java/lang/StringBuilder"

func (s *StringConcatenation) Codegen(out emit.Emitter) {
	out.AddReferenceInstruction(emit.NEW, stringBuilder)
	out.AddNoArgInstruction(emit.DUP)
	out.AddMemberAccessInstruction(emit.INVOKESPECIAL, stringBuilder, "<init>", "()V")
	s.nestedCodegen(out)
	out.AddMemberAccessInstruction(emit.INVOKEVIRTUAL, stringBuilder, "toString", "()Ljava/lang/String;")
}

// nestedCodegen appends both operands to the builder already on the
// stack, flattening nested concatenations into one builder.
func (s *StringConcatenation) nestedCodegen(out emit.Emitter) {
	for _, operand := range []Expression{s.Lhs, s.Rhs} {
		if nested, ok := operand.(*StringConcatenation); ok {
			nested.nestedCodegen(out)
			continue
		}
		operand.Codegen(out)
		out.AddMemberAccessInstruction(emit.INVOKEVIRTUAL, stringBuilder, "append",
			"("+appendDescriptor(operand.Type())+")Ljava/lang/StringBuilder;")
	}
}

func appendDescriptor(t *types.Type) string {
	switch t {
	case types.Boolean, types.Char, types.Int, types.Long, types.Float, types.Double, types.String:
		return t.Descriptor()
	}
	return types.Object.Descriptor()
}

func (s *StringConcatenation) Dump(d Dumper) {
	d.Open("StringConcatenation", nodeAttrs(s.line, s.typ)...)
	dumpSection(d, "Lhs", s.Lhs)
	dumpSection(d, "Rhs", s.Rhs)
	d.Close()
}
