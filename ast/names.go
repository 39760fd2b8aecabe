package ast

import (
	"strings"

	"github.com/dhamidi/jminus/emit"
	"github.com/dhamidi/jminus/types"
)

// Variable is a simple name: a local, a parameter or a field of the
// enclosing class.
type Variable struct {
	expr
	Name string

	local *LocalVariable
	field *FieldInfo
	owner string
}

func NewVariable(line int, name string) *Variable {
	return &Variable{expr: expr{line: line}, Name: name}
}

func (v *Variable) Analyze(ctx *Context) Expression {
	out := *v
	if lv := ctx.lookup(v.Name); lv != nil {
		out.local = lv
		out.typ = lv.Type
		return &out
	}
	if f := ctx.field(v.Name); f != nil {
		if !f.IsStatic && ctx.isStatic() {
			ctx.ReportSemanticError(v.line, "Cannot reference non-static field %s from a static context", v.Name)
		}
		out.field = f
		out.owner = ctx.Class().Type().JVMName()
		out.typ = f.Type
		return &out
	}
	ctx.ReportSemanticError(v.line, "Cannot find name: %s", v.Name)
	out.typ = types.Any
	return &out
}

func (v *Variable) Codegen(out emit.Emitter) {
	v.codegenRef(out)
	v.codegenLoad(out)
}

func (v *Variable) codegenBranch(out emit.Emitter, target emit.Label, onTrue bool) {
	v.Codegen(out)
	branchOnValue(out, target, onTrue)
}

func (v *Variable) codegenRef(out emit.Emitter) {
	if v.field != nil && !v.field.IsStatic {
		out.AddOneArgInstruction(emit.ALOAD, 0)
	}
}

func (v *Variable) codegenDupRef(out emit.Emitter) {
	if v.field != nil && !v.field.IsStatic {
		out.AddNoArgInstruction(emit.DUP)
	}
}

func (v *Variable) codegenLoad(out emit.Emitter) {
	switch {
	case v.local != nil:
		out.AddOneArgInstruction(loadOpcode(v.local.Type), v.local.Slot)
	case v.field != nil && v.field.IsStatic:
		out.AddMemberAccessInstruction(emit.GETSTATIC, v.owner, v.Name, v.field.Type.Descriptor())
	case v.field != nil:
		out.AddMemberAccessInstruction(emit.GETFIELD, v.owner, v.Name, v.field.Type.Descriptor())
	}
}

func (v *Variable) codegenDupValue(out emit.Emitter) {
	refWords := 0
	if v.field != nil && !v.field.IsStatic {
		refWords = 1
	}
	out.AddNoArgInstruction(dupOpcode(v.typ, refWords))
}

func (v *Variable) codegenStore(out emit.Emitter) {
	switch {
	case v.local != nil:
		out.AddOneArgInstruction(storeOpcode(v.local.Type), v.local.Slot)
	case v.field != nil && v.field.IsStatic:
		out.AddMemberAccessInstruction(emit.PUTSTATIC, v.owner, v.Name, v.field.Type.Descriptor())
	case v.field != nil:
		out.AddMemberAccessInstruction(emit.PUTFIELD, v.owner, v.Name, v.field.Type.Descriptor())
	}
}

func (v *Variable) localSlot() (int, bool) {
	if v.local != nil && v.local.Type == types.Int {
		return v.local.Slot, true
	}
	return 0, false
}

func (v *Variable) Dump(d Dumper) {
	d.Open("Variable", nodeAttrs(v.line, v.typ, Attr{"name", v.Name})...)
	d.Close()
}

// AmbiguousName is a dotted name whose meaning (package, type or variable
// access) is not known at parse time. It appears as the target of a field
// selection or call.
type AmbiguousName struct {
	expr
	Name string

	variable *Variable
}

func NewAmbiguousName(line int, name string) *AmbiguousName {
	return &AmbiguousName{expr: expr{line: line}, Name: name}
}

// Analyze resolves a simple name that denotes a local or field of the
// current class. Anything else names a type or package, which has no
// value and types as Any without complaint.
func (a *AmbiguousName) Analyze(ctx *Context) Expression {
	out := *a
	if !strings.Contains(a.Name, ".") && (ctx.lookup(a.Name) != nil || ctx.field(a.Name) != nil) {
		out.variable = NewVariable(a.line, a.Name).Analyze(ctx).(*Variable)
		out.typ = out.variable.typ
		return &out
	}
	out.typ = types.Any
	return &out
}

// IsTypeName reports whether analysis found no variable behind the name.
func (a *AmbiguousName) IsTypeName() bool {
	return a.variable == nil
}

func (a *AmbiguousName) Codegen(out emit.Emitter) {
	if a.variable != nil {
		a.variable.Codegen(out)
	}
}

func (a *AmbiguousName) Dump(d Dumper) {
	d.Open("AmbiguousName", nodeAttrs(a.line, a.typ, Attr{"name", a.Name})...)
	d.Close()
}

// staticOwner returns the class named by target when target names a type.
func staticOwner(target Expression) (string, bool) {
	if a, ok := target.(*AmbiguousName); ok && a.IsTypeName() {
		return types.Named(a.Name).JVMName(), true
	}
	return "", false
}

// FieldSelection is target.Name.
type FieldSelection struct {
	expr
	Target Expression
	Name   string

	field    *FieldInfo
	owner    string
	isLength bool
}

func NewFieldSelection(line int, target Expression, name string) *FieldSelection {
	return &FieldSelection{expr: expr{line: line}, Target: target, Name: name}
}

func (f *FieldSelection) Analyze(ctx *Context) Expression {
	out := *f
	out.Target = analyzed(f.Target, ctx)
	tt := out.Target.Type()
	switch {
	case tt.IsArray():
		if f.Name != "length" {
			ctx.ReportSemanticError(f.line, "Cannot select %s from an array", f.Name)
			out.typ = types.Any
			return &out
		}
		out.isLength = true
		out.typ = types.Int
	case ctx.Class() != nil && tt.Equals(ctx.Class().Type()) && ctx.field(f.Name) != nil:
		out.field = ctx.field(f.Name)
		out.owner = tt.JVMName()
		out.typ = out.field.Type
	default:
		if owner, ok := staticOwner(out.Target); ok {
			out.owner = owner
		} else if tt != types.Any {
			out.owner = tt.JVMName()
		} else {
			out.owner = types.Object.JVMName()
		}
		out.typ = types.Any
	}
	return &out
}

func (f *FieldSelection) isStatic() bool {
	if f.field != nil {
		return f.field.IsStatic
	}
	_, ok := staticOwner(f.Target)
	return ok
}

func (f *FieldSelection) descriptor() string {
	if f.field != nil {
		return f.field.Type.Descriptor()
	}
	return f.typ.Descriptor()
}

func (f *FieldSelection) Codegen(out emit.Emitter) {
	f.codegenRef(out)
	f.codegenLoad(out)
}

func (f *FieldSelection) codegenBranch(out emit.Emitter, target emit.Label, onTrue bool) {
	f.Codegen(out)
	branchOnValue(out, target, onTrue)
}

func (f *FieldSelection) codegenRef(out emit.Emitter) {
	if !f.isStatic() {
		f.Target.Codegen(out)
	}
}

func (f *FieldSelection) codegenDupRef(out emit.Emitter) {
	if !f.isStatic() {
		out.AddNoArgInstruction(emit.DUP)
	}
}

func (f *FieldSelection) codegenLoad(out emit.Emitter) {
	switch {
	case f.isLength:
		out.AddNoArgInstruction(emit.ARRAYLENGTH)
	case f.isStatic():
		out.AddMemberAccessInstruction(emit.GETSTATIC, f.owner, f.Name, f.descriptor())
	default:
		out.AddMemberAccessInstruction(emit.GETFIELD, f.owner, f.Name, f.descriptor())
	}
}

func (f *FieldSelection) codegenDupValue(out emit.Emitter) {
	refWords := 1
	if f.isStatic() {
		refWords = 0
	}
	out.AddNoArgInstruction(dupOpcode(f.typ, refWords))
}

func (f *FieldSelection) codegenStore(out emit.Emitter) {
	if f.isStatic() {
		out.AddMemberAccessInstruction(emit.PUTSTATIC, f.owner, f.Name, f.descriptor())
	} else {
		out.AddMemberAccessInstruction(emit.PUTFIELD, f.owner, f.Name, f.descriptor())
	}
}

func (f *FieldSelection) localSlot() (int, bool) {
	return 0, false
}

func (f *FieldSelection) Dump(d Dumper) {
	d.Open("FieldSelection", nodeAttrs(f.line, f.typ, Attr{"name", f.Name})...)
	dumpSection(d, "Target", f.Target)
	d.Close()
}

// ArrayExpression is array[index].
type ArrayExpression struct {
	expr
	Array Expression
	Index Expression
}

func NewArrayExpression(line int, array, index Expression) *ArrayExpression {
	return &ArrayExpression{expr: expr{line: line}, Array: array, Index: index}
}

func (a *ArrayExpression) Analyze(ctx *Context) Expression {
	out := *a
	out.Array = analyzed(a.Array, ctx)
	out.Index = analyzed(a.Index, ctx)
	out.Index.Type().MustMatchExpected(a.line, types.Int, ctx)
	at := out.Array.Type()
	switch {
	case at.IsArray():
		out.typ = at.ComponentType()
	case at == types.Any:
		out.typ = types.Any
	default:
		ctx.ReportSemanticError(a.line, "Attempt to index a non-array object")
		out.typ = types.Any
	}
	return &out
}

func (a *ArrayExpression) Codegen(out emit.Emitter) {
	a.codegenRef(out)
	a.codegenLoad(out)
}

func (a *ArrayExpression) codegenBranch(out emit.Emitter, target emit.Label, onTrue bool) {
	a.Codegen(out)
	branchOnValue(out, target, onTrue)
}

func (a *ArrayExpression) codegenRef(out emit.Emitter) {
	a.Array.Codegen(out)
	a.Index.Codegen(out)
}

func (a *ArrayExpression) codegenDupRef(out emit.Emitter) {
	out.AddNoArgInstruction(emit.DUP2)
}

func (a *ArrayExpression) codegenLoad(out emit.Emitter) {
	out.AddNoArgInstruction(arrayLoadOpcode(a.typ))
}

func (a *ArrayExpression) codegenDupValue(out emit.Emitter) {
	out.AddNoArgInstruction(dupOpcode(a.typ, 2))
}

func (a *ArrayExpression) codegenStore(out emit.Emitter) {
	out.AddNoArgInstruction(arrayStoreOpcode(a.typ))
}

func (a *ArrayExpression) localSlot() (int, bool) {
	return 0, false
}

func (a *ArrayExpression) Dump(d Dumper) {
	d.Open("ArrayExpression", nodeAttrs(a.line, a.typ)...)
	dumpSection(d, "Array", a.Array)
	dumpSection(d, "Index", a.Index)
	d.Close()
}

// MessageExpression is a method call. Target is nil for an unqualified
// call on the current object or class.
type MessageExpression struct {
	expr
	Target Expression
	Name   string
	Args   []Expression

	owner    string
	isStatic bool
	isSuper  bool
}

func NewMessageExpression(line int, target Expression, name string, args []Expression) *MessageExpression {
	return &MessageExpression{expr: expr{line: line}, Target: target, Name: name, Args: args}
}

// Analyze resolves unqualified calls against the current class. Calls on
// other receivers cannot be resolved without a class path and type as Any.
func (m *MessageExpression) Analyze(ctx *Context) Expression {
	out := *m
	if m.Target != nil {
		out.Target = analyzed(m.Target, ctx)
	}
	out.Args = analyzeAll(m.Args, ctx)
	out.typ = types.Any

	switch target := out.Target.(type) {
	case nil:
		if ctx.Class() == nil {
			return &out
		}
		out.owner = ctx.Class().Type().JVMName()
		mi := ctx.method(m.Name)
		if mi == nil {
			if ctx.Class().Super == types.Object.String() {
				ctx.ReportSemanticError(m.line, "Cannot find method: %s", m.Name)
			}
			out.isStatic = ctx.isStatic()
			return &out
		}
		out.checkArgs(ctx, mi)
		if !mi.IsStatic && ctx.isStatic() {
			ctx.ReportSemanticError(m.line, "Cannot call non-static method %s from a static context", m.Name)
		}
		out.isStatic = mi.IsStatic
		out.typ = mi.Return
	case *Super:
		out.isSuper = true
		out.owner = target.Type().JVMName()
	default:
		if owner, ok := staticOwner(target); ok {
			out.owner = owner
			out.isStatic = true
			return &out
		}
		tt := target.Type()
		if tt.IsPrimitive() {
			ctx.ReportSemanticError(m.line, "Cannot invoke %s on a value of type %s", m.Name, tt)
			return &out
		}
		if tt == types.Any {
			out.owner = types.Object.JVMName()
		} else {
			out.owner = tt.JVMName()
		}
		if ctx.Class() != nil && tt.Equals(ctx.Class().Type()) {
			if mi := ctx.method(m.Name); mi != nil {
				out.checkArgs(ctx, mi)
				out.typ = mi.Return
			}
		}
	}
	return &out
}

func (m *MessageExpression) checkArgs(ctx *Context, mi *MethodInfo) {
	if len(mi.Params) != len(m.Args) {
		ctx.ReportSemanticError(m.line, "Method %s expects %d argument(s), found %d", m.Name, len(mi.Params), len(m.Args))
		return
	}
	for i, p := range mi.Params {
		m.Args[i].Type().MustMatchExpected(m.line, p, ctx)
	}
}

func (m *MessageExpression) descriptor() string {
	ret := m.typ
	if ret == types.Any {
		ret = types.Object
	}
	return types.MethodDescriptor(ret, typesOf(m.Args)...)
}

func (m *MessageExpression) Codegen(out emit.Emitter) {
	switch {
	case m.isStatic:
	case m.Target == nil:
		out.AddOneArgInstruction(emit.ALOAD, 0)
	default:
		m.Target.Codegen(out)
	}
	for _, a := range m.Args {
		a.Codegen(out)
	}
	switch {
	case m.isStatic:
		out.AddMemberAccessInstruction(emit.INVOKESTATIC, m.owner, m.Name, m.descriptor())
	case m.isSuper:
		out.AddMemberAccessInstruction(emit.INVOKESPECIAL, m.owner, m.Name, m.descriptor())
	default:
		out.AddMemberAccessInstruction(emit.INVOKEVIRTUAL, m.owner, m.Name, m.descriptor())
	}
	if m.isStatement && m.typ != types.Void {
		if m.typ.WordSize() == 2 {
			out.AddNoArgInstruction(emit.POP2)
		} else {
			out.AddNoArgInstruction(emit.POP)
		}
	}
}

func (m *MessageExpression) codegenBranch(out emit.Emitter, target emit.Label, onTrue bool) {
	m.Codegen(out)
	branchOnValue(out, target, onTrue)
}

func (m *MessageExpression) Dump(d Dumper) {
	d.Open("MessageExpression", nodeAttrs(m.line, m.typ, Attr{"name", m.Name})...)
	if m.Target != nil {
		dumpSection(d, "Target", m.Target)
	}
	dumpArguments(d, m.Args)
	d.Close()
}

func dumpArguments(d Dumper, args []Expression) {
	if len(args) == 0 {
		return
	}
	d.Open("Arguments")
	for _, a := range args {
		a.Dump(d)
	}
	d.Close()
}

// This is the this keyword used as a value.
type This struct {
	expr
}

func NewThis(line int) *This {
	return &This{expr: expr{line: line}}
}

func (t *This) Analyze(ctx *Context) Expression {
	out := *t
	if ctx.isStatic() {
		ctx.ReportSemanticError(t.line, "Cannot use this in a static context")
	}
	if ctx.Class() != nil {
		out.typ = ctx.Class().Type()
	} else {
		out.typ = types.Any
	}
	return &out
}

func (t *This) Codegen(out emit.Emitter) {
	out.AddOneArgInstruction(emit.ALOAD, 0)
}

func (t *This) Dump(d Dumper) {
	d.Open("This", nodeAttrs(t.line, t.typ)...)
	d.Close()
}

// Super is the super keyword used as a call or field target.
type Super struct {
	expr
}

func NewSuper(line int) *Super {
	return &Super{expr: expr{line: line}}
}

func (s *Super) Analyze(ctx *Context) Expression {
	out := *s
	if ctx.isStatic() {
		ctx.ReportSemanticError(s.line, "Cannot use super in a static context")
	}
	if ctx.Class() != nil {
		out.typ = types.Named(ctx.Class().Super)
	} else {
		out.typ = types.Object
	}
	return &out
}

func (s *Super) Codegen(out emit.Emitter) {
	out.AddOneArgInstruction(emit.ALOAD, 0)
}

func (s *Super) Dump(d Dumper) {
	d.Open("Super", nodeAttrs(s.line, s.typ)...)
	d.Close()
}

// ThisConstruction is an explicit this(args) constructor call.
type ThisConstruction struct {
	expr
	Args []Expression

	owner string
}

func NewThisConstruction(line int, args []Expression) *ThisConstruction {
	return &ThisConstruction{expr: expr{line: line}, Args: args}
}

func (t *ThisConstruction) Analyze(ctx *Context) Expression {
	out := *t
	out.Args = analyzeAll(t.Args, ctx)
	out.typ = types.Void
	out.owner = types.Object.JVMName()
	if ctx.Class() != nil {
		out.owner = ctx.Class().Type().JVMName()
	}
	return &out
}

func (t *ThisConstruction) Codegen(out emit.Emitter) {
	out.AddOneArgInstruction(emit.ALOAD, 0)
	for _, a := range t.Args {
		a.Codegen(out)
	}
	out.AddMemberAccessInstruction(emit.INVOKESPECIAL, t.owner, "<init>", types.MethodDescriptor(types.Void, typesOf(t.Args)...))
}

func (t *ThisConstruction) Dump(d Dumper) {
	d.Open("ThisConstruction", nodeAttrs(t.line, t.typ)...)
	dumpArguments(d, t.Args)
	d.Close()
}

// SuperConstruction is an explicit super(args) constructor call.
type SuperConstruction struct {
	expr
	Args []Expression

	owner string
}

func NewSuperConstruction(line int, args []Expression) *SuperConstruction {
	return &SuperConstruction{expr: expr{line: line}, Args: args}
}

func (s *SuperConstruction) Analyze(ctx *Context) Expression {
	out := *s
	out.Args = analyzeAll(s.Args, ctx)
	out.typ = types.Void
	out.owner = types.Object.JVMName()
	if ctx.Class() != nil {
		out.owner = types.Named(ctx.Class().Super).JVMName()
	}
	return &out
}

func (s *SuperConstruction) Codegen(out emit.Emitter) {
	out.AddOneArgInstruction(emit.ALOAD, 0)
	for _, a := range s.Args {
		a.Codegen(out)
	}
	out.AddMemberAccessInstruction(emit.INVOKESPECIAL, s.owner, "<init>", types.MethodDescriptor(types.Void, typesOf(s.Args)...))
}

func (s *SuperConstruction) Dump(d Dumper) {
	d.Open("SuperConstruction", nodeAttrs(s.line, s.typ)...)
	dumpArguments(d, s.Args)
	d.Close()
}
