package ast

import (
	"github.com/dhamidi/jminus/emit"
	"github.com/dhamidi/jminus/types"
)

// CaseGroup is one or more labels sharing a fallthrough body. A nil label
// is default.
type CaseGroup struct {
	Labels []Expression
	Body   []Statement
}

// SwitchStatement holds its case groups in source order.
type SwitchStatement struct {
	stmt
	Clause Expression
	Groups []*CaseGroup

	brk  *breakTarget
	slot int
}

func NewSwitchStatement(line int, clause Expression) *SwitchStatement {
	return &SwitchStatement{stmt: stmt{line: line}, Clause: clause}
}

// AddGroup appends a case group and reports whether it was accepted. A
// group is rejected when it repeats one of its own labels or any label of
// an earlier group; default counts as a label.
func (s *SwitchStatement) AddGroup(labels []Expression, body []Statement) bool {
	for i := range labels {
		for j := i + 1; j < len(labels); j++ {
			if Equal(labels[i], labels[j]) {
				return false
			}
		}
	}
	for _, g := range s.Groups {
		for _, old := range g.Labels {
			for _, l := range labels {
				if Equal(old, l) {
					return false
				}
			}
		}
	}
	s.Groups = append(s.Groups, &CaseGroup{Labels: labels, Body: body})
	return true
}

func (s *SwitchStatement) Analyze(ctx *Context) Statement {
	out := *s
	out.Clause = analyzed(s.Clause, ctx)
	ct := out.Clause.Type().MustMatchOneOf(s.line, ctx, types.Int, types.Char)
	ctx.pushScope()
	out.slot = ctx.allocate(types.Int)
	out.brk = ctx.pushBreakTarget()
	out.Groups = make([]*CaseGroup, len(s.Groups))
	for i, g := range s.Groups {
		ng := &CaseGroup{Labels: make([]Expression, len(g.Labels))}
		for j, l := range g.Labels {
			if l == nil {
				continue
			}
			ng.Labels[j] = analyzed(l, ctx)
			if ct != types.Any {
				ng.Labels[j].Type().MustMatchExpected(l.Line(), ct, ctx)
			}
		}
		ng.Body = analyzeStatements(g.Body, ctx)
		out.Groups[i] = ng
	}
	ctx.popBreakTarget()
	ctx.popScope()
	return &out
}

// Codegen compares the clause against each label in order and jumps to
// the first matching group, falling back to default or past the switch.
func (s *SwitchStatement) Codegen(out emit.Emitter) {
	exit := out.CreateLabel()
	if s.brk != nil {
		s.brk.label = exit
	}
	s.Clause.Codegen(out)
	out.AddOneArgInstruction(emit.ISTORE, s.slot)

	starts := make([]emit.Label, len(s.Groups))
	fallback := exit
	for i, g := range s.Groups {
		starts[i] = out.CreateLabel()
		for _, l := range g.Labels {
			if l == nil {
				fallback = starts[i]
				continue
			}
			out.AddOneArgInstruction(emit.ILOAD, s.slot)
			l.Codegen(out)
			out.AddBranchInstruction(emit.IF_ICMPEQ, starts[i])
		}
	}
	out.AddBranchInstruction(emit.GOTO, fallback)
	for i, g := range s.Groups {
		out.AddLabel(starts[i])
		for _, st := range g.Body {
			st.Codegen(out)
		}
	}
	out.AddLabel(exit)
}

func (s *SwitchStatement) Dump(d Dumper) {
	d.Open("SwitchStatement", lineAttr(s.line))
	dumpSection(d, "SwitchExpression", s.Clause)
	for _, g := range s.Groups {
		d.Open("CaseGroup")
		for _, l := range g.Labels {
			if l == nil {
				d.Open("Default")
				d.Close()
				continue
			}
			dumpSection(d, "Case", l)
		}
		dumpSection(d, "Statements", statementNodes(g.Body)...)
		d.Close()
	}
	d.Close()
}
