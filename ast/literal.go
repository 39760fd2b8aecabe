package ast

import (
	"strconv"
	"strings"

	"github.com/dhamidi/jminus/emit"
	"github.com/dhamidi/jminus/types"
)

type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralLong
	LiteralFloat
	LiteralDouble
	LiteralChar
	LiteralString
	LiteralBoolean
	LiteralNull
)

var literalKindNames = map[LiteralKind]string{
	LiteralInt:     "Int",
	LiteralLong:    "Long",
	LiteralFloat:   "Float",
	LiteralDouble:  "Double",
	LiteralChar:    "Char",
	LiteralString:  "String",
	LiteralBoolean: "Boolean",
	LiteralNull:    "Null",
}

func (k LiteralKind) String() string {
	if name, ok := literalKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

var literalTypes = map[LiteralKind]*types.Type{
	LiteralInt:     types.Int,
	LiteralLong:    types.Long,
	LiteralFloat:   types.Float,
	LiteralDouble:  types.Double,
	LiteralChar:    types.Char,
	LiteralString:  types.String,
	LiteralBoolean: types.Boolean,
	LiteralNull:    types.Null,
}

// Literal keeps the exact source text; Value decodes it.
type Literal struct {
	expr
	Kind LiteralKind
	Text string
}

func NewLiteral(line int, kind LiteralKind, text string) *Literal {
	return &Literal{expr: expr{line: line}, Kind: kind, Text: text}
}

// Value decodes the literal: int32, int64, float32, float64, rune, string,
// bool, or nil for null. Malformed numbers decode to zero.
func (l *Literal) Value() any {
	switch l.Kind {
	case LiteralInt:
		v, _ := parseInt(l.Text, 32)
		return int32(v)
	case LiteralLong:
		v, _ := parseInt(strings.TrimRight(l.Text, "lL"), 64)
		return v
	case LiteralFloat:
		v, _ := strconv.ParseFloat(strings.TrimRight(l.Text, "fF"), 32)
		return float32(v)
	case LiteralDouble:
		v, _ := strconv.ParseFloat(strings.TrimRight(l.Text, "dD"), 64)
		return v
	case LiteralChar:
		s := unescape(strings.Trim(l.Text, "'"))
		for _, r := range s {
			return r
		}
		return rune(0)
	case LiteralString:
		return unescape(strings.TrimSuffix(strings.TrimPrefix(l.Text, `"`), `"`))
	case LiteralBoolean:
		return l.Text == "true"
	}
	return nil
}

// parseInt accepts decimal, 0x, 0b and leading-zero octal forms. Non
// decimal forms may use the full unsigned range, as in Java.
func parseInt(text string, bits int) (int64, error) {
	if len(text) > 1 && text[0] == '0' {
		u, err := strconv.ParseUint(text, 0, bits)
		if bits == 32 {
			return int64(int32(uint32(u))), err
		}
		return int64(u), err
	}
	return strconv.ParseInt(text, 10, bits)
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'b':
			b.WriteByte('\b')
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'f':
			b.WriteByte('\f')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func (l *Literal) Analyze(ctx *Context) Expression {
	out := *l
	out.typ = literalTypes[l.Kind]
	switch l.Kind {
	case LiteralInt:
		if _, err := parseInt(l.Text, 32); err != nil {
			ctx.ReportSemanticError(l.line, "Integer literal out of range: %s", l.Text)
		}
	case LiteralLong:
		if _, err := parseInt(strings.TrimRight(l.Text, "lL"), 64); err != nil {
			ctx.ReportSemanticError(l.line, "Long literal out of range: %s", l.Text)
		}
	}
	return &out
}

func (l *Literal) Codegen(out emit.Emitter) {
	switch v := l.Value().(type) {
	case int32:
		emitInt(out, v)
	case int64:
		switch v {
		case 0:
			out.AddNoArgInstruction(emit.LCONST_0)
		case 1:
			out.AddNoArgInstruction(emit.LCONST_1)
		default:
			out.AddLDCInstruction(v)
		}
	case float32, float64, string:
		out.AddLDCInstruction(v)
	case bool:
		if v {
			out.AddNoArgInstruction(emit.ICONST_1)
		} else {
			out.AddNoArgInstruction(emit.ICONST_0)
		}
	case nil:
		out.AddNoArgInstruction(emit.ACONST_NULL)
	}
}

func (l *Literal) codegenBranch(out emit.Emitter, target emit.Label, onTrue bool) {
	if b, ok := l.Value().(bool); ok {
		if b == onTrue {
			out.AddBranchInstruction(emit.GOTO, target)
		}
		return
	}
	l.Codegen(out)
	branchOnValue(out, target, onTrue)
}

func emitInt(out emit.Emitter, v int32) {
	switch {
	case v >= -1 && v <= 5:
		out.AddNoArgInstruction(emit.Opcode(int32(emit.ICONST_0) + v))
	case v >= -128 && v <= 127:
		out.AddOneArgInstruction(emit.BIPUSH, int(v))
	case v >= -32768 && v <= 32767:
		out.AddOneArgInstruction(emit.SIPUSH, int(v))
	default:
		out.AddLDCInstruction(v)
	}
}

func (l *Literal) Dump(d Dumper) {
	d.Open("Literal", nodeAttrs(l.line, l.typ, Attr{"kind", l.Kind.String()}, Attr{"value", l.Text})...)
	d.Close()
}
