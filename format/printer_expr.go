package format

import (
	"strings"

	"github.com/dhamidi/jminus/ast"
)

// Binding strengths, loosest first. An operand printed where a tighter
// level is required gets parentheses.
const (
	precAssign = iota
	precTernary
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precSimpleUnary
	precPostfix
	precPrimary
)

var binaryPrec = map[ast.Operator]int{
	ast.OpOr:      precOr,
	ast.OpAnd:     precAnd,
	ast.OpBitOr:   precBitOr,
	ast.OpBitXor:  precBitXor,
	ast.OpBitAnd:  precBitAnd,
	ast.OpEQ:      precEquality,
	ast.OpNE:      precEquality,
	ast.OpLT:      precRelational,
	ast.OpGT:      precRelational,
	ast.OpLE:      precRelational,
	ast.OpGE:      precRelational,
	ast.OpShl:     precShift,
	ast.OpShr:     precShift,
	ast.OpUShr:    precShift,
	ast.OpPlus:    precAdditive,
	ast.OpMinus:   precAdditive,
	ast.OpStar:    precMultiplicative,
	ast.OpSlash:   precMultiplicative,
	ast.OpPercent: precMultiplicative,
}

var prefixSymbols = map[ast.Operator]string{
	ast.OpNeg:    "-",
	ast.OpPos:    "+",
	ast.OpPreInc: "++",
	ast.OpPreDec: "--",
	ast.OpNot:    "!",
	ast.OpBitNot: "~",
}

func precedence(e ast.Expression) int {
	switch e := e.(type) {
	case *ast.AssignExpression:
		return precAssign
	case *ast.Ternary:
		return precTernary
	case *ast.BinaryExpression:
		return binaryPrec[e.Op]
	case *ast.StringConcatenation:
		return precAdditive
	case *ast.InstanceOf:
		return precRelational
	case *ast.UnaryExpression:
		switch e.Op {
		case ast.OpPostInc, ast.OpPostDec:
			return precPostfix
		case ast.OpNot, ast.OpBitNot:
			return precSimpleUnary
		}
		return precUnary
	case *ast.Cast:
		return precSimpleUnary
	case *ast.NewArrayOp, *ast.ArrayInitializer:
		// new int[n][i] would read as a second dimension.
		return precPostfix
	}
	return precPrimary
}

// exprString renders e, parenthesized if it binds looser than level.
func exprString(e ast.Expression, level int) string {
	s := render(e)
	if precedence(e) < level {
		return "(" + s + ")"
	}
	return s
}

func render(e ast.Expression) string {
	switch e := e.(type) {
	case *ast.Literal:
		return e.Text
	case *ast.Variable:
		return e.Name
	case *ast.AmbiguousName:
		return e.Name
	case *ast.This:
		return "this"
	case *ast.Super:
		return "super"
	case *ast.ThisConstruction:
		return "this" + argumentsString(e.Args)
	case *ast.SuperConstruction:
		return "super" + argumentsString(e.Args)
	case *ast.BinaryExpression:
		return binaryString(e.Op.String(), binaryPrec[e.Op], e.Op.IsRelational(), e.Lhs, e.Rhs)
	case *ast.StringConcatenation:
		return binaryString("+", precAdditive, false, e.Lhs, e.Rhs)
	case *ast.AssignExpression:
		return exprString(e.Lhs, precTernary) + " " + e.Op.String() + " " + exprString(e.Rhs, precAssign)
	case *ast.Ternary:
		return exprString(e.Cond, precOr) + " ? " + exprString(e.Then, precAssign) + " : " + exprString(e.Else, precTernary)
	case *ast.UnaryExpression:
		return unaryString(e)
	case *ast.Cast:
		level := precSimpleUnary
		if e.Target.IsPrimitive() {
			level = precUnary
		}
		return "(" + typeString(e.Target) + ") " + exprString(e.Operand, level)
	case *ast.InstanceOf:
		return exprString(e.Operand, precShift) + " instanceof " + typeString(e.Target)
	case *ast.FieldSelection:
		return exprString(e.Target, precPrimary) + "." + e.Name
	case *ast.ArrayExpression:
		return exprString(e.Array, precPrimary) + "[" + exprString(e.Index, precAssign) + "]"
	case *ast.MessageExpression:
		if e.Target == nil {
			return e.Name + argumentsString(e.Args)
		}
		return exprString(e.Target, precPrimary) + "." + e.Name + argumentsString(e.Args)
	case *ast.NewOp:
		return "new " + typeString(e.Class) + argumentsString(e.Args)
	case *ast.NewArrayOp:
		return newArrayString(e)
	case *ast.ArrayInitializer:
		return "new " + typeString(e.Array) + " " + initializerString(e)
	}
	// Placeholder left by error recovery.
	return "?"
}

func binaryString(op string, prec int, nonAssoc bool, lhs, rhs ast.Expression) string {
	lmin := prec
	if nonAssoc {
		lmin++
	}
	return exprString(lhs, lmin) + " " + op + " " + exprString(rhs, prec+1)
}

func unaryString(e *ast.UnaryExpression) string {
	switch e.Op {
	case ast.OpPostInc:
		return exprString(e.Operand, precPostfix) + "++"
	case ast.OpPostDec:
		return exprString(e.Operand, precPostfix) + "--"
	}
	sym := prefixSymbols[e.Op]
	operand := exprString(e.Operand, precUnary)
	// - -x must not become --x.
	if operand != "" && operand[0] == sym[len(sym)-1] {
		return sym + " " + operand
	}
	return sym + operand
}

func newArrayString(e *ast.NewArrayOp) string {
	base, dims := e.Array, 0
	for base.IsArray() {
		base = base.ComponentType()
		dims++
	}
	var b strings.Builder
	b.WriteString("new " + typeString(base))
	for _, d := range e.Dims {
		b.WriteString("[" + exprString(d, precAssign) + "]")
	}
	for i := len(e.Dims); i < dims; i++ {
		b.WriteString("[]")
	}
	return b.String()
}

func argumentsString(args []ast.Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = exprString(a, precAssign)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// initializerString renders a variable initializer, where an array
// initializer needs no new T prefix.
func initializerString(e ast.Expression) string {
	init, ok := e.(*ast.ArrayInitializer)
	if !ok {
		return exprString(e, precAssign)
	}
	parts := make([]string, len(init.Elements))
	for i, el := range init.Elements {
		parts[i] = initializerString(el)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// primaryString renders the operand of throw, which only takes a primary
// without trailing selectors.
func primaryString(e ast.Expression) string {
	switch e := e.(type) {
	case *ast.Literal, *ast.Variable, *ast.This, *ast.NewOp, *ast.NewArrayOp, *ast.ArrayInitializer,
		*ast.ThisConstruction, *ast.SuperConstruction:
		return render(e)
	case *ast.FieldSelection:
		if isNameOrSuper(e.Target) {
			return render(e)
		}
	case *ast.MessageExpression:
		if e.Target == nil || isNameOrSuper(e.Target) {
			return render(e)
		}
	}
	return "(" + exprString(e, precAssign) + ")"
}

func isNameOrSuper(e ast.Expression) bool {
	switch e.(type) {
	case *ast.AmbiguousName, *ast.Super:
		return true
	}
	return false
}
