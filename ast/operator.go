package ast

// Operator is the symbol carried by unary, binary and assignment nodes.
type Operator int

const (
	OpPlus Operator = iota
	OpMinus
	OpStar
	OpSlash
	OpPercent
	OpShl
	OpShr
	OpUShr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpAnd
	OpOr
	OpEQ
	OpNE
	OpLT
	OpGT
	OpLE
	OpGE

	OpAssign
	OpPlusAssign
	OpMinusAssign
	OpStarAssign
	OpSlashAssign
	OpPercentAssign
	OpShlAssign
	OpShrAssign
	OpUShrAssign
	OpAndAssign
	OpOrAssign
	OpXorAssign

	OpNeg
	OpPos
	OpNot
	OpBitNot
	OpPreInc
	OpPreDec
	OpPostInc
	OpPostDec
)

var operatorSymbols = map[Operator]string{
	OpPlus:          "+",
	OpMinus:         "-",
	OpStar:          "*",
	OpSlash:         "/",
	OpPercent:       "%",
	OpShl:           "<<",
	OpShr:           ">>",
	OpUShr:          ">>>",
	OpBitAnd:        "&",
	OpBitOr:         "|",
	OpBitXor:        "^",
	OpAnd:           "&&",
	OpOr:            "||",
	OpEQ:            "==",
	OpNE:            "!=",
	OpLT:            "<",
	OpGT:            ">",
	OpLE:            "<=",
	OpGE:            ">=",
	OpAssign:        "=",
	OpPlusAssign:    "+=",
	OpMinusAssign:   "-=",
	OpStarAssign:    "*=",
	OpSlashAssign:   "/=",
	OpPercentAssign: "%=",
	OpShlAssign:     "<<=",
	OpShrAssign:     ">>=",
	OpUShrAssign:    ">>>=",
	OpAndAssign:     "&=",
	OpOrAssign:      "|=",
	OpXorAssign:     "^=",
	OpNeg:           "-",
	OpPos:           "+",
	OpNot:           "!",
	OpBitNot:        "~",
	OpPreInc:        "++pre",
	OpPreDec:        "--pre",
	OpPostInc:       "post++",
	OpPostDec:       "post--",
}

func (op Operator) String() string {
	if s, ok := operatorSymbols[op]; ok {
		return s
	}
	return "?"
}

func (op Operator) IsIncDec() bool {
	return op == OpPreInc || op == OpPreDec || op == OpPostInc || op == OpPostDec
}

func (op Operator) IsRelational() bool {
	switch op {
	case OpEQ, OpNE, OpLT, OpGT, OpLE, OpGE:
		return true
	}
	return false
}

// Binary returns the arithmetic operator a compound assignment applies.
func (op Operator) Binary() (Operator, bool) {
	switch op {
	case OpPlusAssign:
		return OpPlus, true
	case OpMinusAssign:
		return OpMinus, true
	case OpStarAssign:
		return OpStar, true
	case OpSlashAssign:
		return OpSlash, true
	case OpPercentAssign:
		return OpPercent, true
	case OpShlAssign:
		return OpShl, true
	case OpShrAssign:
		return OpShr, true
	case OpUShrAssign:
		return OpUShr, true
	case OpAndAssign:
		return OpBitAnd, true
	case OpOrAssign:
		return OpBitOr, true
	case OpXorAssign:
		return OpBitXor, true
	}
	return 0, false
}
