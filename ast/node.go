// Package ast defines the j-- syntax tree. Every node can be dumped;
// expressions and statements can also be analyzed, which returns a new,
// typed tree, and code-generated onto an emit.Emitter.
//
// Analysis never mutates the tree it is given. Each Analyze call returns a
// fresh node holding analyzed children, so the parse tree stays available
// (and dumps the same) after analysis.
package ast

import (
	"github.com/dhamidi/jminus/emit"
	"github.com/dhamidi/jminus/types"
)

// Node is implemented by every tree node.
type Node interface {
	Line() int
	Dump(d Dumper)
}

// Expression is the closed set of expression nodes.
type Expression interface {
	Node
	// Type is the resolved type, nil until the node has been analyzed.
	Type() *types.Type
	Analyze(ctx *Context) Expression
	Codegen(out emit.Emitter)
	// IsStatementExpression is true for an expression used as a statement.
	IsStatementExpression() bool
	expressionNode()
}

// Statement is the closed set of statement nodes.
type Statement interface {
	Node
	Analyze(ctx *Context) Statement
	Codegen(out emit.Emitter)
	statementNode()
}

type expr struct {
	line        int
	typ         *types.Type
	isStatement bool
}

func (e *expr) Line() int                   { return e.line }
func (e *expr) Type() *types.Type           { return e.typ }
func (e *expr) IsStatementExpression() bool { return e.isStatement }
func (e *expr) expressionNode()             {}

type stmt struct {
	line int
}

func (s *stmt) Line() int      { return s.line }
func (s *stmt) statementNode() {}

// MarkStatementExpression flags e as used in statement position and
// reports whether that is legal: only assignments, increments and
// decrements, calls, explicit constructor calls and object or array
// creation have a side effect.
func MarkStatementExpression(e Expression) bool {
	switch x := e.(type) {
	case *AssignExpression:
		x.isStatement = true
	case *UnaryExpression:
		if !x.Op.IsIncDec() {
			return false
		}
		x.isStatement = true
	case *MessageExpression:
		x.isStatement = true
	case *ThisConstruction:
		x.isStatement = true
	case *SuperConstruction:
		x.isStatement = true
	case *NewOp:
		x.isStatement = true
	case *NewArrayOp:
		x.isStatement = true
	default:
		return false
	}
	return true
}

// analyzed analyzes e unless it already carries a type.
func analyzed(e Expression, ctx *Context) Expression {
	if e == nil || e.Type() != nil {
		return e
	}
	return e.Analyze(ctx)
}

func analyzeAll(es []Expression, ctx *Context) []Expression {
	out := make([]Expression, len(es))
	for i, e := range es {
		out[i] = analyzed(e, ctx)
	}
	return out
}

func typesOf(es []Expression) []*types.Type {
	out := make([]*types.Type, len(es))
	for i, e := range es {
		out[i] = e.Type()
	}
	return out
}
