package ast

import (
	"fmt"

	"github.com/dhamidi/jminus/diag"
	"github.com/dhamidi/jminus/emit"
	"github.com/dhamidi/jminus/types"
)

// LocalVariable is a local or parameter bound to a slot in the current
// method frame.
type LocalVariable struct {
	Name string
	Type *types.Type
	Slot int
}

// FieldInfo and MethodInfo describe members of the class being analyzed.
type FieldInfo struct {
	Name     string
	Type     *types.Type
	IsStatic bool
}

type MethodInfo struct {
	Name     string
	Return   *types.Type
	Params   []*types.Type
	IsStatic bool
}

// ClassInfo is the member table of the class being analyzed.
type ClassInfo struct {
	Name    string
	Super   string
	Fields  map[string]*FieldInfo
	Methods map[string]*MethodInfo
}

func (c *ClassInfo) Type() *types.Type {
	return types.Named(c.Name)
}

type scope struct {
	parent    *scope
	vars      map[string]*LocalVariable
	firstSlot int
}

// breakTarget ties break statements to the loop or switch they leave. The
// label is created at code generation only if some break uses it.
type breakTarget struct {
	used  bool
	label emit.Label

	// Number of enclosing try statements outside the loop or switch.
	tryDepth int
}

// tryTarget is an enclosing try statement as seen from a return or break
// inside it. Leaving the try runs its finally block, if any, and the
// inlined code is recorded as a gap in the try's protected ranges.
type tryTarget struct {
	finally    Statement
	returnSlot int
	gaps       []codeRange
}

type codeRange struct {
	from, to emit.Label
}

type frame struct {
	returnType *types.Type
	isStatic   bool
	nextSlot   int
	maxSlot    int
	breaks     []*breakTarget
	tries      []*tryTarget
}

// Context carries everything analysis needs: the class and method being
// analyzed, nested local scopes, and the semantic error sink.
type Context struct {
	file      string
	sink      diag.Sink
	isInError bool

	class *ClassInfo
	frame *frame
	scope *scope
}

func NewContext(file string, sink diag.Sink) *Context {
	if sink == nil {
		sink = diag.Discard
	}
	return &Context{file: file, sink: sink}
}

// ReportSemanticError records a semantic error at line.
func (c *Context) ReportSemanticError(line int, format string, args ...any) {
	c.isInError = true
	c.sink.Report(c.file, line, fmt.Sprintf(format, args...))
}

func (c *Context) ErrorHasOccurred() bool {
	return c.isInError
}

func (c *Context) Class() *ClassInfo {
	return c.class
}

func (c *Context) enterClass(info *ClassInfo) {
	c.class = info
}

func (c *Context) exitClass() {
	c.class = nil
}

// enterMethod starts a new frame. Slot 0 holds this for instance methods.
func (c *Context) enterMethod(returnType *types.Type, isStatic bool) {
	c.frame = &frame{returnType: returnType, isStatic: isStatic}
	if !isStatic {
		c.frame.nextSlot = 1
		c.frame.maxSlot = 1
	}
	c.scope = &scope{vars: make(map[string]*LocalVariable)}
}

func (c *Context) exitMethod() {
	c.frame = nil
	c.scope = nil
}

func (c *Context) inMethod() bool {
	return c.frame != nil
}

func (c *Context) isStatic() bool {
	return c.frame != nil && c.frame.isStatic
}

func (c *Context) returnType() *types.Type {
	if c.frame == nil {
		return types.Void
	}
	return c.frame.returnType
}

func (c *Context) pushScope() {
	if c.frame == nil {
		c.enterMethod(types.Void, true)
	}
	c.scope = &scope{parent: c.scope, vars: make(map[string]*LocalVariable), firstSlot: c.frame.nextSlot}
}

// popScope releases the scope's slots for reuse by later siblings.
func (c *Context) popScope() {
	if c.scope == nil {
		return
	}
	c.frame.nextSlot = c.scope.firstSlot
	c.scope = c.scope.parent
}

// declare binds name in the innermost scope. Redeclaring a name visible in
// the current method is an error; the new binding still shadows the old
// so analysis can continue.
func (c *Context) declare(line int, name string, t *types.Type) *LocalVariable {
	if c.frame == nil {
		c.enterMethod(types.Void, true)
	}
	if c.lookup(name) != nil {
		c.ReportSemanticError(line, "Redefining name: %s", name)
	}
	v := &LocalVariable{Name: name, Type: t, Slot: c.allocate(t)}
	c.scope.vars[name] = v
	return v
}

// allocate reserves an unnamed slot, for compiler temporaries.
func (c *Context) allocate(t *types.Type) int {
	if c.frame == nil {
		c.enterMethod(types.Void, true)
	}
	slot := c.frame.nextSlot
	c.frame.nextSlot += max(t.WordSize(), 1)
	c.frame.maxSlot = max(c.frame.maxSlot, c.frame.nextSlot)
	return slot
}

func (c *Context) lookup(name string) *LocalVariable {
	for s := c.scope; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v
		}
	}
	return nil
}

func (c *Context) field(name string) *FieldInfo {
	if c.class == nil {
		return nil
	}
	return c.class.Fields[name]
}

func (c *Context) method(name string) *MethodInfo {
	if c.class == nil {
		return nil
	}
	return c.class.Methods[name]
}

func (c *Context) pushBreakTarget() *breakTarget {
	bt := &breakTarget{}
	if c.frame != nil {
		bt.tryDepth = len(c.frame.tries)
		c.frame.breaks = append(c.frame.breaks, bt)
	}
	return bt
}

func (c *Context) popBreakTarget() {
	if c.frame != nil && len(c.frame.breaks) > 0 {
		c.frame.breaks = c.frame.breaks[:len(c.frame.breaks)-1]
	}
}

func (c *Context) currentBreakTarget() *breakTarget {
	if c.frame == nil || len(c.frame.breaks) == 0 {
		return nil
	}
	return c.frame.breaks[len(c.frame.breaks)-1]
}

func (c *Context) pushTry(t *tryTarget) {
	if c.frame != nil {
		c.frame.tries = append(c.frame.tries, t)
	}
}

func (c *Context) popTry() {
	if c.frame != nil && len(c.frame.tries) > 0 {
		c.frame.tries = c.frame.tries[:len(c.frame.tries)-1]
	}
}

// enclosingTries returns the try statements entered after the first depth
// ones, outermost first.
func (c *Context) enclosingTries(depth int) []*tryTarget {
	if c.frame == nil || depth >= len(c.frame.tries) {
		return nil
	}
	return append([]*tryTarget(nil), c.frame.tries[depth:]...)
}
