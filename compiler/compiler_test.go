package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jminus/diag"
)

const factorial = `package demo;

public class Factorial {
    static int compute(int n) {
        if (n <= 1) {
            return 1;
        }
        return n * compute(n - 1);
    }

    public static void main(String[] args) {
        int result = compute(5);
    }
}
`

func TestCompile(t *testing.T) {
	res, err := New(WithFile("Factorial.java")).Compile(strings.NewReader(factorial))
	require.NoError(t, err)

	assert.Equal(t, PhaseGenerated, res.Phase)
	assert.Empty(t, res.Diagnostics)
	require.NotNil(t, res.Listing)
	require.Len(t, res.Listing.Classes, 1)
	assert.Equal(t, "demo/Factorial", res.Listing.Classes[0].Name)
}

func TestCompileStopsAtFirstFailingPhase(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
		phase   Phase
		message string
	}{
		{"lexical", "class A { int x = 09; }", ErrLexical, PhaseParsed, "invalid octal literal: 09"},
		{"syntax", "class A { void m() { int x = 1 } }", ErrSyntax, PhaseParsed, "} found where ; sought"},
		{"semantic", "class A { void m() { return 1; } }", ErrSemantic, PhaseAnalyzed, "Cannot return a value from a void method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New(WithFile("A.java")).Compile(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, tt.wantErr, errors.Cause(err))
			assert.Equal(t, tt.phase, res.Phase)
			assert.Nil(t, res.Listing)
			require.NotEmpty(t, res.Diagnostics)
			assert.Equal(t, tt.message, res.Diagnostics[0].Message)
			assert.Equal(t, "A.java", res.Diagnostics[0].File)
		})
	}
}

func TestParseKeepsTreeOnError(t *testing.T) {
	res, err := New().Parse(strings.NewReader("class A { void m() { x + 1; } }"))
	assert.True(t, errors.Is(err, ErrSyntax))
	require.NotNil(t, res.Unit)
	assert.Len(t, res.Unit.Types, 1)
	assert.Nil(t, res.Analyzed)
}

func TestCheckDoesNotGenerate(t *testing.T) {
	res, err := New().Check(strings.NewReader(factorial))
	require.NoError(t, err)
	assert.Equal(t, PhaseAnalyzed, res.Phase)
	assert.NotNil(t, res.Analyzed)
	assert.Nil(t, res.Listing)
}

func TestWithSinkSeesEveryDiagnostic(t *testing.T) {
	sink := diag.NewCollector()
	res, err := New(WithSink(sink)).Check(strings.NewReader("class A { void m() { break; y = 2; } }"))
	require.Error(t, err)
	assert.Equal(t, res.Diagnostics, sink.Diagnostics())
	assert.Len(t, res.Diagnostics, 2)
}

func TestCompileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Factorial.java")
	require.NoError(t, os.WriteFile(path, []byte(factorial), 0o644))

	res, err := CompileFile(path)
	require.NoError(t, err)
	assert.Equal(t, PhaseGenerated, res.Phase)

	_, err = CompileFile(filepath.Join(t.TempDir(), "missing.java"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open ")
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}
