package ast

import (
	"github.com/dhamidi/jminus/emit"
	"github.com/dhamidi/jminus/types"
)

// NewOp is new T(args).
type NewOp struct {
	expr
	Class *types.Type
	Args  []Expression
}

func NewNewOp(line int, class *types.Type, args []Expression) *NewOp {
	return &NewOp{expr: expr{line: line}, Class: class, Args: args}
}

func (n *NewOp) Analyze(ctx *Context) Expression {
	out := *n
	out.Args = analyzeAll(n.Args, ctx)
	out.typ = n.Class
	if n.Class.IsPrimitive() {
		ctx.ReportSemanticError(n.line, "Cannot instantiate primitive type %s", n.Class)
		out.typ = types.Any
	}
	return &out
}

func (n *NewOp) Codegen(out emit.Emitter) {
	owner := n.Class.JVMName()
	out.AddReferenceInstruction(emit.NEW, owner)
	out.AddNoArgInstruction(emit.DUP)
	for _, a := range n.Args {
		a.Codegen(out)
	}
	out.AddMemberAccessInstruction(emit.INVOKESPECIAL, owner, "<init>", types.MethodDescriptor(types.Void, typesOf(n.Args)...))
	if n.isStatement {
		out.AddNoArgInstruction(emit.POP)
	}
}

func (n *NewOp) Dump(d Dumper) {
	d.Open("NewOp", nodeAttrs(n.line, n.typ, Attr{"class", n.Class.String()})...)
	dumpArguments(d, n.Args)
	d.Close()
}

// NewArrayOp is new T[d1][d2]...[] with at least one dimension expression.
type NewArrayOp struct {
	expr
	Array *types.Type
	Dims  []Expression
}

func NewNewArrayOp(line int, array *types.Type, dims []Expression) *NewArrayOp {
	return &NewArrayOp{expr: expr{line: line}, Array: array, Dims: dims}
}

func (n *NewArrayOp) Analyze(ctx *Context) Expression {
	out := *n
	out.Dims = analyzeAll(n.Dims, ctx)
	for _, d := range out.Dims {
		d.Type().MustMatchExpected(n.line, types.Int, ctx)
	}
	out.typ = n.Array
	return &out
}

func (n *NewArrayOp) Codegen(out emit.Emitter) {
	for _, d := range n.Dims {
		d.Codegen(out)
	}
	if len(n.Dims) == 1 {
		emitNewArray(out, n.Array.ComponentType())
	} else {
		out.AddMultiArrayInstruction(n.Array.Descriptor(), len(n.Dims))
	}
	if n.isStatement {
		out.AddNoArgInstruction(emit.POP)
	}
}

func (n *NewArrayOp) Dump(d Dumper) {
	d.Open("NewArrayOp", nodeAttrs(n.line, n.typ, Attr{"array", n.Array.String()})...)
	dumpSection(d, "Dimensions", exprNodes(n.Dims)...)
	d.Close()
}

// ArrayInitializer is {e1, e2, ...} for a known array type.
type ArrayInitializer struct {
	expr
	Array    *types.Type
	Elements []Expression
}

func NewArrayInitializer(line int, array *types.Type, elements []Expression) *ArrayInitializer {
	return &ArrayInitializer{expr: expr{line: line}, Array: array, Elements: elements}
}

func (a *ArrayInitializer) Analyze(ctx *Context) Expression {
	out := *a
	if !a.Array.IsArray() {
		ctx.ReportSemanticError(a.line, "Cannot initialize a %s with an array initializer", a.Array)
		out.Elements = analyzeAll(a.Elements, ctx)
		out.typ = types.Any
		return &out
	}
	out.Elements = analyzeAll(a.Elements, ctx)
	for _, e := range out.Elements {
		e.Type().MustMatchExpected(e.Line(), a.Array.ComponentType(), ctx)
	}
	out.typ = a.Array
	return &out
}

func (a *ArrayInitializer) Codegen(out emit.Emitter) {
	component := a.Array.ComponentType()
	emitInt(out, int32(len(a.Elements)))
	emitNewArray(out, component)
	for i, e := range a.Elements {
		out.AddNoArgInstruction(emit.DUP)
		emitInt(out, int32(i))
		e.Codegen(out)
		out.AddNoArgInstruction(arrayStoreOpcode(component))
	}
}

func (a *ArrayInitializer) Dump(d Dumper) {
	d.Open("ArrayInitializer", nodeAttrs(a.line, a.typ, Attr{"array", a.Array.String()})...)
	for _, e := range a.Elements {
		e.Dump(d)
	}
	d.Close()
}

func exprNodes(es []Expression) []Node {
	out := make([]Node, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}
