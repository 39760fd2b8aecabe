package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runFmt(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newFmtCmd()
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	err := cmd.Execute()
	return out.String(), err
}

func writeUnit(t *testing.T, source string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "A.java")
	if err := os.WriteFile(filename, []byte(source), 0600); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestFmtCommand(t *testing.T) {
	const messy = "class A{int x;}"
	const canonical = "class A {\n    int x;\n}\n"

	t.Run("stdin", func(t *testing.T) {
		got, err := runFmt(t, messy)
		if err != nil {
			t.Fatalf("fmt error = %v", err)
		}
		if got != canonical {
			t.Errorf("fmt printed %q, want %q", got, canonical)
		}
	})

	t.Run("rewrite in place", func(t *testing.T) {
		filename := writeUnit(t, messy)
		got, err := runFmt(t, "", "-w", filename)
		if err != nil {
			t.Fatalf("fmt -w error = %v", err)
		}
		if got != "" {
			t.Errorf("fmt -w printed %q", got)
		}
		rewritten, _ := os.ReadFile(filename)
		if string(rewritten) != canonical {
			t.Errorf("file = %q, want %q", rewritten, canonical)
		}
	})

	t.Run("syntax error leaves file alone", func(t *testing.T) {
		const broken = "class A { int x }"
		filename := writeUnit(t, broken)
		got, err := runFmt(t, "", "-w", filename)
		if err == nil {
			t.Fatal("fmt -w accepted a syntax error")
		}
		if !strings.Contains(err.Error(), filename+":1:") {
			t.Errorf("error %q does not report file:line", err)
		}
		if got != "" {
			t.Errorf("fmt printed %q for invalid input", got)
		}
		kept, _ := os.ReadFile(filename)
		if string(kept) != broken {
			t.Errorf("file changed to %q", kept)
		}
	})

	t.Run("write needs a file", func(t *testing.T) {
		if _, err := runFmt(t, messy, "-w"); err == nil {
			t.Error("fmt -w on stdin succeeded")
		}
	})

	t.Run("not a java file", func(t *testing.T) {
		if _, err := runFmt(t, "", "A.txt"); err == nil {
			t.Error("fmt accepted a .txt file")
		}
	})
}
