package ast

import "github.com/dhamidi/jminus/emit"

// brancher is implemented by boolean-valued nodes that can jump to target
// directly instead of materializing 0 or 1.
type brancher interface {
	codegenBranch(out emit.Emitter, target emit.Label, onTrue bool)
}

// codegenBranch emits code that jumps to target when e evaluates to onTrue
// and falls through otherwise.
func codegenBranch(e Expression, out emit.Emitter, target emit.Label, onTrue bool) {
	if b, ok := e.(brancher); ok {
		b.codegenBranch(out, target, onTrue)
		return
	}
	e.Codegen(out)
	branchOnValue(out, target, onTrue)
}

// branchOnValue consumes the boolean on the stack.
func branchOnValue(out emit.Emitter, target emit.Label, onTrue bool) {
	if onTrue {
		out.AddBranchInstruction(emit.IFNE, target)
	} else {
		out.AddBranchInstruction(emit.IFEQ, target)
	}
}

// codegenBooleanValue turns branch code into a 0 or 1 on the stack.
func codegenBooleanValue(out emit.Emitter, b brancher) {
	falseLabel := out.CreateLabel()
	end := out.CreateLabel()
	b.codegenBranch(out, falseLabel, false)
	out.AddNoArgInstruction(emit.ICONST_1)
	out.AddBranchInstruction(emit.GOTO, end)
	out.AddLabel(falseLabel)
	out.AddNoArgInstruction(emit.ICONST_0)
	out.AddLabel(end)
}
