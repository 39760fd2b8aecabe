package ast

import (
	"github.com/dhamidi/jminus/emit"
	"github.com/dhamidi/jminus/types"
)

// Ternary is cond ? then : else.
type Ternary struct {
	expr
	Cond Expression
	Then Expression
	Else Expression
}

func NewTernary(line int, cond, then, els Expression) *Ternary {
	return &Ternary{expr: expr{line: line}, Cond: cond, Then: then, Else: els}
}

func (t *Ternary) Analyze(ctx *Context) Expression {
	out := *t
	out.Cond = analyzed(t.Cond, ctx)
	out.Cond.Type().MustMatchExpected(t.line, types.Boolean, ctx)
	out.Then = analyzed(t.Then, ctx)
	out.Else = analyzed(t.Else, ctx)
	tt, et := out.Then.Type(), out.Else.Type()
	switch {
	case tt == types.Null:
		out.typ = et
	case et == types.Null:
		out.typ = tt
	case et.Matches(tt):
		out.typ = tt
	default:
		out.typ = et.MustMatchExpected(t.line, tt, ctx)
	}
	return &out
}

func (t *Ternary) Codegen(out emit.Emitter) {
	elseLabel := out.CreateLabel()
	end := out.CreateLabel()
	codegenBranch(t.Cond, out, elseLabel, false)
	t.Then.Codegen(out)
	out.AddBranchInstruction(emit.GOTO, end)
	out.AddLabel(elseLabel)
	t.Else.Codegen(out)
	out.AddLabel(end)
}

func (t *Ternary) Dump(d Dumper) {
	d.Open("Ternary", nodeAttrs(t.line, t.typ)...)
	dumpSection(d, "Condition", t.Cond)
	dumpSection(d, "WhenTrue", t.Then)
	dumpSection(d, "WhenFalse", t.Else)
	d.Close()
}

// Cast is (T) expr.
type Cast struct {
	expr
	Target  *types.Type
	Operand Expression

	conversion []emit.Opcode
	checkcast  bool
}

func NewCast(line int, target *types.Type, operand Expression) *Cast {
	return &Cast{expr: expr{line: line}, Target: target, Operand: operand}
}

type typePair struct {
	from, to *types.Type
}

var conversions = map[typePair][]emit.Opcode{
	{types.Int, types.Char}:     {emit.I2C},
	{types.Int, types.Long}:     {emit.I2L},
	{types.Int, types.Float}:    {emit.I2F},
	{types.Int, types.Double}:   {emit.I2D},
	{types.Char, types.Int}:     nil,
	{types.Char, types.Long}:    {emit.I2L},
	{types.Char, types.Float}:   {emit.I2F},
	{types.Char, types.Double}:  {emit.I2D},
	{types.Long, types.Int}:     {emit.L2I},
	{types.Long, types.Char}:    {emit.L2I, emit.I2C},
	{types.Long, types.Float}:   {emit.L2F},
	{types.Long, types.Double}:  {emit.L2D},
	{types.Float, types.Int}:    {emit.F2I},
	{types.Float, types.Char}:   {emit.F2I, emit.I2C},
	{types.Float, types.Long}:   {emit.F2L},
	{types.Float, types.Double}: {emit.F2D},
	{types.Double, types.Int}:   {emit.D2I},
	{types.Double, types.Char}:  {emit.D2I, emit.I2C},
	{types.Double, types.Long}:  {emit.D2L},
	{types.Double, types.Float}: {emit.D2F},
}

func (c *Cast) Analyze(ctx *Context) Expression {
	out := *c
	out.Operand = analyzed(c.Operand, ctx)
	from, to := out.Operand.Type(), c.Target
	out.typ = to
	switch {
	case from == types.Any || from.Equals(to):
	case from.IsPrimitive() && to.IsPrimitive():
		ops, ok := conversions[typePair{from, to}]
		if !ok {
			ctx.ReportSemanticError(c.line, "Cannot cast a %s to a %s", from, to)
			out.typ = types.Any
		}
		out.conversion = ops
	case from.IsReference() && to.IsReference():
		out.checkcast = !to.Equals(types.Object)
	default:
		ctx.ReportSemanticError(c.line, "Cannot cast a %s to a %s", from, to)
		out.typ = types.Any
	}
	return &out
}

func (c *Cast) Codegen(out emit.Emitter) {
	c.Operand.Codegen(out)
	for _, op := range c.conversion {
		out.AddNoArgInstruction(op)
	}
	if c.checkcast {
		out.AddReferenceInstruction(emit.CHECKCAST, c.Target.JVMName())
	}
}

func (c *Cast) Dump(d Dumper) {
	d.Open("Cast", nodeAttrs(c.line, c.typ, Attr{"target", c.Target.String()})...)
	dumpSection(d, "Expression", c.Operand)
	d.Close()
}

// InstanceOf is expr instanceof T.
type InstanceOf struct {
	expr
	Operand Expression
	Target  *types.Type
}

func NewInstanceOf(line int, operand Expression, target *types.Type) *InstanceOf {
	return &InstanceOf{expr: expr{line: line}, Operand: operand, Target: target}
}

func (i *InstanceOf) Analyze(ctx *Context) Expression {
	out := *i
	out.Operand = analyzed(i.Operand, ctx)
	if ot := out.Operand.Type(); ot != types.Any && !ot.IsReference() {
		ctx.ReportSemanticError(i.line, "Operand of instanceof must be a reference, found %s", ot)
	}
	if i.Target.IsPrimitive() {
		ctx.ReportSemanticError(i.line, "instanceof requires a reference type, found %s", i.Target)
	}
	out.typ = types.Boolean
	return &out
}

func (i *InstanceOf) Codegen(out emit.Emitter) {
	i.Operand.Codegen(out)
	out.AddReferenceInstruction(emit.INSTANCEOF, i.Target.JVMName())
}

func (i *InstanceOf) Dump(d Dumper) {
	d.Open("InstanceOf", nodeAttrs(i.line, i.typ, Attr{"target", i.Target.String()})...)
	dumpSection(d, "Expression", i.Operand)
	d.Close()
}

// Wild stands in for an expression the parser could not make sense of.
type Wild struct {
	expr
}

func NewWild(line int) *Wild {
	return &Wild{expr: expr{line: line}}
}

func (w *Wild) Analyze(ctx *Context) Expression {
	out := *w
	out.typ = types.Any
	return &out
}

func (w *Wild) Codegen(out emit.Emitter) {}

func (w *Wild) Dump(d Dumper) {
	d.Open("WildExpression", nodeAttrs(w.line, w.typ)...)
	d.Close()
}
