package types

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	messages []string
}

func (r *recorder) ReportSemanticError(line int, format string, args ...any) {
	r.messages = append(r.messages, fmt.Sprintf("%d: ", line)+fmt.Sprintf(format, args...))
}

func TestNamedResolvesWellKnown(t *testing.T) {
	assert.Same(t, Int, Named("int"))
	assert.Same(t, String, Named("String"))
	assert.Same(t, String, Named("java.lang.String"))
	assert.Same(t, Object, Named("java.lang.Object"))

	foo := Named("com.example.Foo")
	assert.Equal(t, KindReference, foo.Kind())
	assert.Equal(t, "Foo", foo.SimpleName())
	assert.Equal(t, "Lcom/example/Foo;", foo.Descriptor())
	assert.True(t, foo.Equals(Named("com.example.Foo")))
}

func TestArrayOf(t *testing.T) {
	ia := ArrayOf(Int)
	assert.True(t, ia.IsArray())
	assert.Same(t, Int, ia.ComponentType())
	assert.Equal(t, "int[]", ia.String())
	assert.Equal(t, "[I", ia.Descriptor())
	assert.True(t, ia.Equals(ArrayOf(Int)))
	assert.False(t, ia.Equals(ArrayOf(Char)))

	sa := ArrayOf(ArrayOf(String))
	assert.Equal(t, "[[Ljava/lang/String;", sa.Descriptor())
	assert.Equal(t, "[[Ljava/lang/String;", sa.JVMName())
}

func TestMustMatchExpected(t *testing.T) {
	tests := []struct {
		name     string
		got      *Type
		expected *Type
		want     *Type
		errors   int
	}{
		{"same", Int, Int, Int, 0},
		{"any actual", Any, Boolean, Any, 0},
		{"any expected", Boolean, Any, Boolean, 0},
		{"null to reference", Null, String, Null, 0},
		{"null to primitive", Null, Int, Any, 1},
		{"mismatch", Boolean, Int, Any, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			got := tt.got.MustMatchExpected(7, tt.expected, r)
			assert.Same(t, tt.want, got)
			assert.Len(t, r.messages, tt.errors)
		})
	}
}

func TestMustMatchOneOfMessage(t *testing.T) {
	r := &recorder{}
	got := Boolean.MustMatchOneOf(3, r, Int, Char)
	assert.Same(t, Any, got)
	assert.Equal(t, []string{"3: Type boolean doesn't match any of the expected types [int, char]"}, r.messages)
}

func TestMethodDescriptor(t *testing.T) {
	assert.Equal(t, "(ILjava/lang/String;)V", MethodDescriptor(Void, Int, String))
	assert.Equal(t, "()Ljava/lang/String;", MethodDescriptor(String))
}

func TestClassification(t *testing.T) {
	assert.True(t, Int.IsPrimitive())
	assert.True(t, Int.IsNumeric())
	assert.False(t, Boolean.IsNumeric())
	assert.True(t, String.IsReference())
	assert.True(t, Null.IsReference())
	assert.Equal(t, 2, Long.WordSize())
	assert.Equal(t, 1, String.WordSize())
}
