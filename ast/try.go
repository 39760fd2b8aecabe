package ast

import (
	"github.com/dhamidi/jminus/emit"
	"github.com/dhamidi/jminus/types"
)

// CatchClause is catch (T name) body.
type CatchClause struct {
	Line  int
	Param *FormalParameter
	Body  Statement

	local *LocalVariable
}

// TryStatement has at least one catch clause; Finally may be nil.
type TryStatement struct {
	stmt
	Body    Statement
	Catches []*CatchClause
	Finally Statement

	rethrowSlot int
	target      *tryTarget
}

func NewTryStatement(line int, body Statement, catches []*CatchClause, finally Statement) *TryStatement {
	return &TryStatement{stmt: stmt{line: line}, Body: body, Catches: catches, Finally: finally}
}

// Analyze reserves the rethrow and return value slots before the body so
// no local of the body or the finally block can share them.
func (s *TryStatement) Analyze(ctx *Context) Statement {
	out := *s
	out.target = &tryTarget{}
	if s.Finally != nil {
		out.rethrowSlot = ctx.allocate(types.Object)
		if rt := ctx.returnType(); rt != types.Void {
			out.target.returnSlot = ctx.allocate(rt)
		}
	}

	ctx.pushTry(out.target)
	out.Body = s.Body.Analyze(ctx)
	out.Catches = make([]*CatchClause, len(s.Catches))
	for i, c := range s.Catches {
		nc := *c
		t := c.Param.Type
		if t.IsPrimitive() {
			ctx.ReportSemanticError(c.Line, "Cannot catch a value of type %s", t)
		}
		ctx.pushScope()
		nc.local = ctx.declare(c.Param.Line(), c.Param.Name, t)
		nc.Body = c.Body.Analyze(ctx)
		ctx.popScope()
		out.Catches[i] = &nc
	}
	ctx.popTry()

	if s.Finally != nil {
		out.Finally = s.Finally.Analyze(ctx)
		out.target.finally = out.Finally
	}
	return &out
}

// Codegen inlines the finally block on every way out of the body and the
// catch bodies. A catch-any handler covering the same ranges runs it
// before rethrowing. Code inlined by a return or break is not protected.
func (s *TryStatement) Codegen(out emit.Emitter) {
	s.target.gaps = nil

	var after emit.Label
	jumpsAfter := false
	leave := func() {
		if s.Finally != nil {
			s.Finally.Codegen(out)
			if endsAbruptly(s.Finally) {
				return
			}
		}
		if !jumpsAfter {
			after = out.CreateLabel()
			jumpsAfter = true
		}
		out.AddBranchInstruction(emit.GOTO, after)
	}

	start := out.CreateLabel()
	end := out.CreateLabel()
	out.AddLabel(start)
	s.Body.Codegen(out)
	out.AddLabel(end)
	protected := s.rangesWithoutGaps(start, end, 0)
	if !endsAbruptly(s.Body) {
		leave()
	}

	covered := protected
	for i, c := range s.Catches {
		handler := out.CreateLabel()
		for _, r := range protected {
			out.AddExceptionHandler(r.from, r.to, handler, c.Param.Type.JVMName())
		}
		out.AddLabel(handler)
		out.AddOneArgInstruction(emit.ASTORE, c.local.Slot)
		gaps := len(s.target.gaps)
		c.Body.Codegen(out)
		if s.Finally != nil {
			bodyEnd := out.CreateLabel()
			out.AddLabel(bodyEnd)
			covered = append(covered, s.rangesWithoutGaps(handler, bodyEnd, gaps)...)
		}
		fallsOut := i == len(s.Catches)-1 && s.Finally == nil
		if !endsAbruptly(c.Body) && !fallsOut {
			leave()
		}
	}

	if s.Finally != nil {
		catchAll := out.CreateLabel()
		for _, r := range covered {
			out.AddExceptionHandler(r.from, r.to, catchAll, "")
		}
		out.AddLabel(catchAll)
		out.AddOneArgInstruction(emit.ASTORE, s.rethrowSlot)
		s.Finally.Codegen(out)
		if !endsAbruptly(s.Finally) {
			out.AddOneArgInstruction(emit.ALOAD, s.rethrowSlot)
			out.AddNoArgInstruction(emit.ATHROW)
		}
	}
	if jumpsAfter {
		out.AddLabel(after)
	}
}

// rangesWithoutGaps splits from..to around the gaps recorded since the
// first skip ones.
func (s *TryStatement) rangesWithoutGaps(from, to emit.Label, skip int) []codeRange {
	var ranges []codeRange
	for _, g := range s.target.gaps[skip:] {
		ranges = append(ranges, codeRange{from, g.from})
		from = g.to
	}
	return append(ranges, codeRange{from, to})
}

func (s *TryStatement) Dump(d Dumper) {
	d.Open("TryStatement", lineAttr(s.line))
	dumpSection(d, "TryBlock", s.Body)
	for _, c := range s.Catches {
		d.Open("CatchClause", lineAttr(c.Line))
		c.Param.Dump(d)
		dumpSection(d, "Body", c.Body)
		d.Close()
	}
	if s.Finally != nil {
		dumpSection(d, "FinallyBlock", s.Finally)
	}
	d.Close()
}
