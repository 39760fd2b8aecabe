package ast

import (
	"slices"

	"github.com/dhamidi/jminus/emit"
	"github.com/dhamidi/jminus/types"
)

// FormalParameter is one method or constructor parameter. For a varargs
// parameter Type is already the array type.
type FormalParameter struct {
	line    int
	Name    string
	Type    *types.Type
	Varargs bool
}

func NewFormalParameter(line int, name string, t *types.Type, varargs bool) *FormalParameter {
	return &FormalParameter{line: line, Name: name, Type: t, Varargs: varargs}
}

func (p *FormalParameter) Line() int { return p.line }

func (p *FormalParameter) Dump(d Dumper) {
	attrs := []Attr{lineAttr(p.line), {"name", p.Name}, {"type", p.Type.String()}}
	if p.Varargs {
		attrs = append(attrs, Attr{"varargs", "true"})
	}
	d.Open("FormalParameter", attrs...)
	d.Close()
}

func paramTypes(ps []*FormalParameter) []*types.Type {
	out := make([]*types.Type, len(ps))
	for i, p := range ps {
		out[i] = p.Type
	}
	return out
}

func dumpParams(d Dumper, ps []*FormalParameter) {
	if len(ps) == 0 {
		return
	}
	d.Open("FormalParameters")
	for _, p := range ps {
		p.Dump(d)
	}
	d.Close()
}

func dumpThrows(d Dumper, ts []*types.Type) {
	if len(ts) == 0 {
		return
	}
	d.Open("Throws")
	for _, t := range ts {
		d.Text("%s", t)
	}
	d.Close()
}

func hasModifier(mods []string, m string) bool {
	return slices.Contains(mods, m)
}

// Member is the closed set of class body declarations.
type Member interface {
	Node
	declareIn(ctx *Context, info *ClassInfo)
	analyzeMember(ctx *Context) Member
	codegenMember(c *emit.Class, class *ClassDeclaration)
}

// FieldDeclaration declares one or more fields sharing modifiers.
type FieldDeclaration struct {
	line        int
	Mods        []string
	Declarators []*VariableDeclarator
}

func NewFieldDeclaration(line int, mods []string, declarators []*VariableDeclarator) *FieldDeclaration {
	return &FieldDeclaration{line: line, Mods: mods, Declarators: declarators}
}

func (f *FieldDeclaration) Line() int { return f.line }

func (f *FieldDeclaration) IsStatic() bool { return hasModifier(f.Mods, "static") }

func (f *FieldDeclaration) declareIn(ctx *Context, info *ClassInfo) {
	for _, v := range f.Declarators {
		if _, ok := info.Fields[v.Name]; ok {
			ctx.ReportSemanticError(v.Line, "Redefining field: %s", v.Name)
			continue
		}
		info.Fields[v.Name] = &FieldInfo{Name: v.Name, Type: v.Type, IsStatic: f.IsStatic()}
	}
}

// analyzeMember analyzes initializers in a frame of their own, static or
// instance to match the field.
func (f *FieldDeclaration) analyzeMember(ctx *Context) Member {
	out := *f
	out.Declarators = make([]*VariableDeclarator, len(f.Declarators))
	ctx.enterMethod(types.Void, f.IsStatic())
	for i, v := range f.Declarators {
		dv := *v
		if v.Init != nil {
			dv.Init = analyzed(v.Init, ctx)
			dv.Init.Type().MustMatchExpected(v.Line, v.Type, ctx)
		}
		out.Declarators[i] = &dv
	}
	ctx.exitMethod()
	return &out
}

func (f *FieldDeclaration) codegenMember(c *emit.Class, class *ClassDeclaration) {
	flags := emit.FlagsFromModifiers(f.Mods)
	for _, v := range f.Declarators {
		c.AddField(flags, v.Name, v.Type.Descriptor())
	}
}

// codegenInitializers stores each initialized field. Instance fields are
// addressed through this in slot 0.
func (f *FieldDeclaration) codegenInitializers(out emit.Emitter, owner string) {
	for _, v := range f.Declarators {
		if v.Init == nil {
			continue
		}
		if f.IsStatic() {
			v.Init.Codegen(out)
			out.AddMemberAccessInstruction(emit.PUTSTATIC, owner, v.Name, v.Type.Descriptor())
			continue
		}
		out.AddOneArgInstruction(emit.ALOAD, 0)
		v.Init.Codegen(out)
		out.AddMemberAccessInstruction(emit.PUTFIELD, owner, v.Name, v.Type.Descriptor())
	}
}

func (f *FieldDeclaration) Dump(d Dumper) {
	d.Open("FieldDeclaration", lineAttr(f.line))
	dumpModifiers(d, f.Mods)
	for _, v := range f.Declarators {
		v.Dump(d)
	}
	d.Close()
}

// MethodDeclaration is a method with an optional body. Abstract methods
// have none.
type MethodDeclaration struct {
	line       int
	Mods       []string
	ReturnType *types.Type
	Name       string
	Params     []*FormalParameter
	Throws     []*types.Type
	Body       *Block
}

func NewMethodDeclaration(line int, mods []string, ret *types.Type, name string, params []*FormalParameter, throws []*types.Type, body *Block) *MethodDeclaration {
	return &MethodDeclaration{line: line, Mods: mods, ReturnType: ret, Name: name, Params: params, Throws: throws, Body: body}
}

func (m *MethodDeclaration) Line() int { return m.line }

func (m *MethodDeclaration) IsStatic() bool   { return hasModifier(m.Mods, "static") }
func (m *MethodDeclaration) IsAbstract() bool { return hasModifier(m.Mods, "abstract") }

func (m *MethodDeclaration) Descriptor() string {
	return types.MethodDescriptor(m.ReturnType, paramTypes(m.Params)...)
}

// declareIn records the first declaration of each name; calls are
// resolved by name only.
func (m *MethodDeclaration) declareIn(ctx *Context, info *ClassInfo) {
	if _, ok := info.Methods[m.Name]; ok {
		return
	}
	info.Methods[m.Name] = &MethodInfo{Name: m.Name, Return: m.ReturnType, Params: paramTypes(m.Params), IsStatic: m.IsStatic()}
}

func (m *MethodDeclaration) analyzeMember(ctx *Context) Member {
	out := *m
	switch {
	case m.IsAbstract() && m.Body != nil:
		ctx.ReportSemanticError(m.line, "Abstract method %s cannot have a body", m.Name)
	case !m.IsAbstract() && m.Body == nil:
		ctx.ReportSemanticError(m.line, "Method %s requires a body", m.Name)
	}
	if m.IsAbstract() && m.IsStatic() {
		ctx.ReportSemanticError(m.line, "Method %s cannot be both abstract and static", m.Name)
	}
	if m.Body == nil {
		return &out
	}
	ctx.enterMethod(m.ReturnType, m.IsStatic())
	for _, p := range m.Params {
		ctx.declare(p.line, p.Name, p.Type)
	}
	out.Body = m.Body.analyzeBlock(ctx)
	ctx.exitMethod()
	return &out
}

func (m *MethodDeclaration) codegenMember(c *emit.Class, class *ClassDeclaration) {
	flags := emit.FlagsFromModifiers(m.Mods)
	if n := len(m.Params); n > 0 && m.Params[n-1].Varargs {
		flags |= emit.AccVarargs
	}
	method := c.AddMethod(flags, m.Name, m.Descriptor())
	if m.Body == nil {
		return
	}
	m.Body.Codegen(method.Code)
	if m.ReturnType == types.Void && !endsAbruptly(m.Body) {
		method.Code.AddNoArgInstruction(emit.RETURN)
	}
}

func (m *MethodDeclaration) Dump(d Dumper) {
	d.Open("MethodDeclaration", lineAttr(m.line), Attr{"name", m.Name}, Attr{"returnType", m.ReturnType.String()})
	dumpModifiers(d, m.Mods)
	dumpParams(d, m.Params)
	dumpThrows(d, m.Throws)
	if m.Body != nil {
		dumpSection(d, "Body", m.Body)
	}
	d.Close()
}

// ConstructorDeclaration is a constructor. Unless its body starts with
// this(...) or super(...), an implicit super() is generated.
type ConstructorDeclaration struct {
	line   int
	Mods   []string
	Name   string
	Params []*FormalParameter
	Throws []*types.Type
	Body   *Block
}

func NewConstructorDeclaration(line int, mods []string, name string, params []*FormalParameter, throws []*types.Type, body *Block) *ConstructorDeclaration {
	return &ConstructorDeclaration{line: line, Mods: mods, Name: name, Params: params, Throws: throws, Body: body}
}

func (c *ConstructorDeclaration) Line() int { return c.line }

func (c *ConstructorDeclaration) Descriptor() string {
	return types.MethodDescriptor(types.Void, paramTypes(c.Params)...)
}

func (c *ConstructorDeclaration) declareIn(ctx *Context, info *ClassInfo) {
	if c.Name != types.Named(info.Name).SimpleName() {
		ctx.ReportSemanticError(c.line, "Invalid method declaration; return type required for %s", c.Name)
	}
	if hasModifier(c.Mods, "static") || hasModifier(c.Mods, "abstract") {
		ctx.ReportSemanticError(c.line, "Constructor %s cannot be static or abstract", c.Name)
	}
}

func (c *ConstructorDeclaration) analyzeMember(ctx *Context) Member {
	out := *c
	ctx.enterMethod(types.Void, false)
	for _, p := range c.Params {
		ctx.declare(p.line, p.Name, p.Type)
	}
	out.Body = c.Body.analyzeBlock(ctx)
	ctx.exitMethod()
	return &out
}

// explicitConstructorCall returns the leading this(...) or super(...)
// call, if any.
func (c *ConstructorDeclaration) explicitConstructorCall() (Expression, bool) {
	if c.Body == nil || len(c.Body.Statements) == 0 {
		return nil, false
	}
	se, ok := c.Body.Statements[0].(*StatementExpression)
	if !ok {
		return nil, false
	}
	switch se.Expr.(type) {
	case *ThisConstruction, *SuperConstruction:
		return se.Expr, true
	}
	return nil, false
}

func (c *ConstructorDeclaration) codegenMember(cls *emit.Class, class *ClassDeclaration) {
	flags := emit.FlagsFromModifiers(c.Mods)
	if n := len(c.Params); n > 0 && c.Params[n-1].Varargs {
		flags |= emit.AccVarargs
	}
	method := cls.AddMethod(flags, "<init>", c.Descriptor())
	out := method.Code
	rest := c.Body.Statements
	call, explicit := c.explicitConstructorCall()
	if explicit {
		call.Codegen(out)
		rest = rest[1:]
	} else {
		codegenImplicitSuper(out, class.superType())
	}
	if _, delegates := call.(*ThisConstruction); !delegates {
		class.codegenFieldInitializers(out, false)
	}
	for _, s := range rest {
		s.Codegen(out)
	}
	out.AddNoArgInstruction(emit.RETURN)
}

func codegenImplicitSuper(out emit.Emitter, super *types.Type) {
	out.AddOneArgInstruction(emit.ALOAD, 0)
	out.AddMemberAccessInstruction(emit.INVOKESPECIAL, super.JVMName(), "<init>", "()V")
}

func (c *ConstructorDeclaration) Dump(d Dumper) {
	d.Open("ConstructorDeclaration", lineAttr(c.line), Attr{"name", c.Name})
	dumpModifiers(d, c.Mods)
	dumpParams(d, c.Params)
	dumpThrows(d, c.Throws)
	dumpSection(d, "Body", c.Body)
	d.Close()
}

// ClassDeclaration is a top-level class. Super is nil when no extends
// clause was given.
type ClassDeclaration struct {
	line    int
	Mods    []string
	Name    string
	Super   *types.Type
	Members []Member

	info *ClassInfo
}

func NewClassDeclaration(line int, mods []string, name string, super *types.Type, members []Member) *ClassDeclaration {
	return &ClassDeclaration{line: line, Mods: mods, Name: name, Super: super, Members: members}
}

func (c *ClassDeclaration) Line() int { return c.line }

func (c *ClassDeclaration) superType() *types.Type {
	if c.Super == nil {
		return types.Object
	}
	return c.Super
}

// Info is the member table built by analysis, nil before.
func (c *ClassDeclaration) Info() *ClassInfo { return c.info }

// Analyze builds the member table, then analyzes field initializers and
// method bodies against it.
func (c *ClassDeclaration) Analyze(ctx *Context, pkg string) *ClassDeclaration {
	out := *c
	name := c.Name
	if pkg != "" {
		name = pkg + "." + c.Name
	}
	out.info = &ClassInfo{
		Name:    name,
		Super:   c.superType().String(),
		Fields:  make(map[string]*FieldInfo),
		Methods: make(map[string]*MethodInfo),
	}
	for _, m := range c.Members {
		m.declareIn(ctx, out.info)
	}
	ctx.enterClass(out.info)
	if !hasModifier(c.Mods, "abstract") {
		for _, m := range c.Members {
			if md, ok := m.(*MethodDeclaration); ok && md.IsAbstract() {
				ctx.ReportSemanticError(md.line, "Class %s must be declared abstract; it declares abstract method %s", c.Name, md.Name)
			}
		}
	}
	out.Members = make([]Member, len(c.Members))
	for i, m := range c.Members {
		out.Members[i] = m.analyzeMember(ctx)
	}
	ctx.exitClass()
	return &out
}

func (c *ClassDeclaration) hasConstructor() bool {
	for _, m := range c.Members {
		if _, ok := m.(*ConstructorDeclaration); ok {
			return true
		}
	}
	return false
}

func (c *ClassDeclaration) hasStaticInitializers() bool {
	for _, m := range c.Members {
		f, ok := m.(*FieldDeclaration)
		if !ok || !f.IsStatic() {
			continue
		}
		for _, v := range f.Declarators {
			if v.Init != nil {
				return true
			}
		}
	}
	return false
}

func (c *ClassDeclaration) codegenFieldInitializers(out emit.Emitter, static bool) {
	owner := types.Named(c.info.Name).JVMName()
	for _, m := range c.Members {
		if f, ok := m.(*FieldDeclaration); ok && f.IsStatic() == static {
			f.codegenInitializers(out, owner)
		}
	}
}

// Codegen adds the class to l. An analyzed declaration is required.
func (c *ClassDeclaration) Codegen(l *emit.Listing) {
	flags := emit.FlagsFromModifiers(c.Mods) | emit.AccSuper
	cls := l.AddClass(flags, types.Named(c.info.Name).JVMName(), c.superType().JVMName())
	for _, m := range c.Members {
		m.codegenMember(cls, c)
	}
	if !c.hasConstructor() {
		init := cls.AddMethod(emit.AccPublic, "<init>", "()V")
		codegenImplicitSuper(init.Code, c.superType())
		c.codegenFieldInitializers(init.Code, false)
		init.Code.AddNoArgInstruction(emit.RETURN)
	}
	if c.hasStaticInitializers() {
		clinit := cls.AddMethod(emit.AccStatic, "<clinit>", "()V")
		c.codegenFieldInitializers(clinit.Code, true)
		clinit.Code.AddNoArgInstruction(emit.RETURN)
	}
}

func (c *ClassDeclaration) Dump(d Dumper) {
	d.Open("ClassDeclaration", lineAttr(c.line), Attr{"name", c.Name}, Attr{"super", c.superType().String()})
	dumpModifiers(d, c.Mods)
	if len(c.Members) > 0 {
		d.Open("ClassBody")
		for _, m := range c.Members {
			m.Dump(d)
		}
		d.Close()
	}
	d.Close()
}

// CompilationUnit is one source file.
type CompilationUnit struct {
	line    int
	File    string
	Package string
	Imports []string
	Types   []*ClassDeclaration
}

func NewCompilationUnit(file string, line int, pkg string, imports []string, decls []*ClassDeclaration) *CompilationUnit {
	return &CompilationUnit{line: line, File: file, Package: pkg, Imports: imports, Types: decls}
}

func (u *CompilationUnit) Line() int { return u.line }

// Analyze returns an analyzed copy of the unit.
func (u *CompilationUnit) Analyze(ctx *Context) *CompilationUnit {
	out := *u
	out.Types = make([]*ClassDeclaration, len(u.Types))
	seen := make(map[string]bool)
	for i, t := range u.Types {
		if seen[t.Name] {
			ctx.ReportSemanticError(t.line, "Duplicate class: %s", t.Name)
		}
		seen[t.Name] = true
		out.Types[i] = t.Analyze(ctx, u.Package)
	}
	return &out
}

// Codegen generates every class of an analyzed unit.
func (u *CompilationUnit) Codegen() *emit.Listing {
	l := &emit.Listing{}
	for _, t := range u.Types {
		t.Codegen(l)
	}
	return l
}

func (u *CompilationUnit) Dump(d Dumper) {
	d.Open("CompilationUnit", Attr{"fileName", u.File})
	if u.Package != "" {
		d.Open("Package", Attr{"name", u.Package})
		d.Close()
	}
	if len(u.Imports) > 0 {
		d.Open("Imports")
		for _, imp := range u.Imports {
			d.Open("Import", Attr{"name", imp})
			d.Close()
		}
		d.Close()
	}
	for _, t := range u.Types {
		t.Dump(d)
	}
	d.Close()
}
