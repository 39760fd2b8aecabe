// Package types is the small type system consulted by semantic analysis:
// well-known singleton types, named reference types, array construction
// and the "must match expected" check.
package types

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindAny Kind = iota
	KindVoid
	KindNull
	KindBoolean
	KindChar
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindReference
	KindArray
)

var kindNames = map[Kind]string{
	KindAny:       "Any",
	KindVoid:      "Void",
	KindNull:      "Null",
	KindBoolean:   "Boolean",
	KindChar:      "Char",
	KindInt:       "Int",
	KindLong:      "Long",
	KindFloat:     "Float",
	KindDouble:    "Double",
	KindReference: "Reference",
	KindArray:     "Array",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Type is immutable once built. Primitive and well-known types are
// singletons and compare by identity; reference and array types compare by
// descriptor.
type Type struct {
	kind      Kind
	name      string
	component *Type
}

var (
	Any     = &Type{kind: KindAny, name: "any"}
	Void    = &Type{kind: KindVoid, name: "void"}
	Null    = &Type{kind: KindNull, name: "null"}
	Boolean = &Type{kind: KindBoolean, name: "boolean"}
	Char    = &Type{kind: KindChar, name: "char"}
	Int     = &Type{kind: KindInt, name: "int"}
	Long    = &Type{kind: KindLong, name: "long"}
	Float   = &Type{kind: KindFloat, name: "float"}
	Double  = &Type{kind: KindDouble, name: "double"}
	String  = &Type{kind: KindReference, name: "java.lang.String"}
	Object  = &Type{kind: KindReference, name: "java.lang.Object"}
)

var wellKnown = map[string]*Type{
	"boolean":          Boolean,
	"char":             Char,
	"int":              Int,
	"long":             Long,
	"float":            Float,
	"double":           Double,
	"void":             Void,
	"String":           String,
	"java.lang.String": String,
	"Object":           Object,
	"java.lang.Object": Object,
}

// Named returns the type for a (possibly qualified) name. Primitive names
// and String/Object resolve to their singletons.
func Named(name string) *Type {
	if t, ok := wellKnown[name]; ok {
		return t
	}
	return &Type{kind: KindReference, name: name}
}

// ArrayOf builds the array type whose elements are t.
func ArrayOf(t *Type) *Type {
	return &Type{kind: KindArray, name: t.name + "[]", component: t}
}

func (t *Type) Kind() Kind {
	return t.kind
}

// ComponentType returns the element type of an array, or nil.
func (t *Type) ComponentType() *Type {
	return t.component
}

func (t *Type) IsArray() bool {
	return t.kind == KindArray
}

func (t *Type) IsPrimitive() bool {
	switch t.kind {
	case KindBoolean, KindChar, KindInt, KindLong, KindFloat, KindDouble:
		return true
	}
	return false
}

func (t *Type) IsReference() bool {
	return t.kind == KindReference || t.kind == KindArray || t.kind == KindNull
}

func (t *Type) IsNumeric() bool {
	switch t.kind {
	case KindChar, KindInt, KindLong, KindFloat, KindDouble:
		return true
	}
	return false
}

// Equals reports whether t and other denote the same type.
func (t *Type) Equals(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil || t.kind != other.kind {
		return false
	}
	return t.Descriptor() == other.Descriptor()
}

// Matches reports whether a value of type t may be used where expected is
// required. Any matches everything in either direction so one error does
// not cascade.
func (t *Type) Matches(expected *Type) bool {
	if t == Any || expected == Any {
		return true
	}
	if t == Null && expected.IsReference() {
		return true
	}
	return t.Equals(expected)
}

// Reporter receives semantic errors.
type Reporter interface {
	ReportSemanticError(line int, format string, args ...any)
}

// MustMatchExpected reports an error through r when t does not match
// expected, and returns the type analysis should continue with: t on
// success, Any otherwise.
func (t *Type) MustMatchExpected(line int, expected *Type, r Reporter) *Type {
	if t.Matches(expected) {
		return t
	}
	r.ReportSemanticError(line, "Type %s doesn't match type %s", t, expected)
	return Any
}

// MustMatchOneOf is MustMatchExpected against a set of alternatives.
func (t *Type) MustMatchOneOf(line int, r Reporter, expected ...*Type) *Type {
	for _, e := range expected {
		if t.Matches(e) {
			return t
		}
	}
	names := make([]string, len(expected))
	for i, e := range expected {
		names[i] = e.String()
	}
	r.ReportSemanticError(line, "Type %s doesn't match any of the expected types [%s]", t, strings.Join(names, ", "))
	return Any
}

// String returns the Java spelling of the type.
func (t *Type) String() string {
	if t == nil {
		return ""
	}
	return t.name
}

// SimpleName drops any package qualifier.
func (t *Type) SimpleName() string {
	if i := strings.LastIndexByte(t.name, '.'); i >= 0 {
		return t.name[i+1:]
	}
	return t.name
}

// JVMName is the internal form used by member and reference instructions,
// e.g. java/lang/String.
func (t *Type) JVMName() string {
	if t.kind == KindArray {
		return t.Descriptor()
	}
	return strings.ReplaceAll(t.name, ".", "/")
}

// Descriptor is the JVM field descriptor for the type.
func (t *Type) Descriptor() string {
	switch t.kind {
	case KindBoolean:
		return "Z"
	case KindChar:
		return "C"
	case KindInt:
		return "I"
	case KindLong:
		return "J"
	case KindFloat:
		return "F"
	case KindDouble:
		return "D"
	case KindVoid:
		return "V"
	case KindArray:
		return "[" + t.component.Descriptor()
	case KindReference:
		return "L" + t.JVMName() + ";"
	}
	return "?"
}

// MethodDescriptor builds "(args)ret".
func MethodDescriptor(ret *Type, args ...*Type) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, a := range args {
		b.WriteString(a.Descriptor())
	}
	b.WriteByte(')')
	b.WriteString(ret.Descriptor())
	return b.String()
}

// WordSize is the number of local-variable slots a value of t occupies.
func (t *Type) WordSize() int {
	switch t.kind {
	case KindLong, KindDouble:
		return 2
	case KindVoid:
		return 0
	}
	return 1
}

func (t *Type) GoString() string {
	return fmt.Sprintf("types.Type(%s)", t.name)
}
