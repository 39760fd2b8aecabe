package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderListing(t *testing.T) {
	r := NewRecorder()
	elseLabel := r.CreateLabel()
	end := r.CreateLabel()
	r.AddOneArgInstruction(ILOAD, 1)
	r.AddBranchInstruction(IFEQ, elseLabel)
	r.AddLDCInstruction("yes")
	r.AddBranchInstruction(GOTO, end)
	r.AddLabel(elseLabel)
	r.AddLDCInstruction("no")
	r.AddLabel(end)
	r.AddNoArgInstruction(ARETURN)

	want := strings.Join([]string{
		"    iload 1",
		"    ifeq L0",
		`    ldc "yes"`,
		"    goto L1",
		"L0:",
		`    ldc "no"`,
		"L1:",
		"    areturn",
		"",
	}, "\n")
	assert.Equal(t, want, r.String())

	at, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 4, at[elseLabel])
	assert.Equal(t, 6, at[end])
	assert.Equal(t, []Opcode{ILOAD, IFEQ, LDC, GOTO, LDC, ARETURN}, r.Opcodes())
}

func TestResolveFailures(t *testing.T) {
	t.Run("unused", func(t *testing.T) {
		r := NewRecorder()
		r.CreateLabel()
		_, err := r.Resolve()
		assert.EqualError(t, err, "resolve labels: label L0 created but never placed")
	})

	t.Run("unplaced target", func(t *testing.T) {
		r := NewRecorder()
		l := r.CreateLabel()
		r.AddBranchInstruction(GOTO, l)
		_, err := r.Resolve()
		assert.EqualError(t, err, "resolve labels: branch to unplaced label L0")
	})

	t.Run("placed twice", func(t *testing.T) {
		r := NewRecorder()
		l := r.CreateLabel()
		r.AddLabel(l)
		r.AddLabel(l)
		_, err := r.Resolve()
		assert.EqualError(t, err, "resolve labels: label L0 placed more than once")
	})
}

func TestHandlersSkipEmptyRanges(t *testing.T) {
	r := NewRecorder()
	start := r.CreateLabel()
	mid := r.CreateLabel()
	end := r.CreateLabel()
	handler := r.CreateLabel()
	r.AddLabel(start)
	r.AddNoArgInstruction(ICONST_1)
	r.AddNoArgInstruction(IRETURN)
	r.AddLabel(mid)
	r.AddLabel(end)
	r.AddLabel(handler)
	r.AddNoArgInstruction(ATHROW)
	r.AddExceptionHandler(start, mid, handler, "E")
	r.AddExceptionHandler(mid, end, handler, "E")

	handlers := r.Handlers()
	require.Len(t, handlers, 1)
	assert.Equal(t, start, handlers[0].Start)
	assert.Equal(t, mid, handlers[0].End)
	assert.Contains(t, r.String(), "handler L0 L1 L3 E")
	assert.NotContains(t, r.String(), "handler L1 L2")
}

func TestNegate(t *testing.T) {
	tests := []struct {
		op   Opcode
		want Opcode
	}{
		{IFEQ, IFNE},
		{IF_ICMPLT, IF_ICMPGE},
		{IF_ICMPGT, IF_ICMPLE},
		{IF_ACMPEQ, IF_ACMPNE},
		{IFNULL, IFNONNULL},
		{GOTO, GOTO},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.Negate())
			assert.True(t, tt.op.IsBranch())
		})
	}
	assert.False(t, IADD.IsBranch())
}

func TestFlagsFromModifiers(t *testing.T) {
	f := FlagsFromModifiers([]string{"public", "static", "bogus"})
	assert.True(t, f.IsPublic())
	assert.True(t, f.IsStatic())
	assert.False(t, f.IsAbstract())
	assert.Equal(t, "public static", f.String())
}

func TestListing(t *testing.T) {
	var l Listing
	c := l.AddClass(AccPublic|AccSuper, "Hello", "java/lang/Object")
	c.AddField(AccPrivate, "count", "I")
	m := c.AddMethod(AccPublic|AccStatic, "main", "([Ljava/lang/String;)V")
	m.Code.AddNoArgInstruction(RETURN)
	require.NoError(t, l.Resolve())

	var b strings.Builder
	_, err := l.WriteTo(&b)
	require.NoError(t, err)
	assert.Equal(t, "class Hello extends java/lang/Object [public]\n"+
		"  field count I [private]\n"+
		"  method main([Ljava/lang/String;)V [public static]\n"+
		"    return\n", b.String())
}
