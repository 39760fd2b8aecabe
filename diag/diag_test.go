package diag

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterFormat(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Report("Foo.java", 3, "; sought where } found")
	w.Report("Foo.java", 7, "Invalid operand types for +")

	assert.Equal(t, "Foo.java:3: ; sought where } found\nFoo.java:7: Invalid operand types for +\n", buf.String())
	assert.Equal(t, 2, w.Count())
}

func TestCollectorErr(t *testing.T) {
	c := NewCollector()
	assert.NoError(t, c.Err())

	c.Report("A.java", 1, "first")
	c.Report("A.java", 2, "second")
	require.Equal(t, 2, c.Len())

	err := c.Err()
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	assert.Len(t, merr.Errors, 2)
	assert.Equal(t, "2 diagnostic(s):\nA.java:1: first\nA.java:2: second", err.Error())
}

func TestCollectorDiagnosticsIsCopy(t *testing.T) {
	c := NewCollector()
	c.Report("A.java", 1, "x")
	ds := c.Diagnostics()
	ds[0].Message = "changed"
	assert.Equal(t, "x", c.Diagnostics()[0].Message)
}

func TestTee(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	Tee{a, b, Discard}.Report("T.java", 4, "msg")
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, []Diagnostic{{File: "T.java", Line: 4, Message: "msg"}}, b.Diagnostics())
}
