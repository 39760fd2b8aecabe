package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jminus/format"
)

func newFmtCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Reprint a j-- compilation unit in canonical layout",
		Long: `Parse a j-- compilation unit and print it back with four-space
indentation, one statement per line and minimal parentheses.

Formatting only works on input that parses cleanly. A lexical or syntax
error leaves the source untouched: nothing is printed and every
diagnostic is reported as file:line: message. Semantic errors are not
checked; run "jmm check" for those.

Comments are not part of the syntax tree and are dropped.

With no file argument the unit is read from stdin. With -w the file is
rewritten in place, and only if its layout changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if write && len(args) == 0 {
				return fmt.Errorf("-w needs a file to rewrite")
			}
			filename, source, err := readUnit(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			formatted, err := format.SourceFile(source, filename)
			if err != nil {
				return fmt.Errorf("fmt %s: %w", displayName(filename), err)
			}
			if !write {
				_, err = cmd.OutOrStdout().Write(formatted)
				return err
			}
			if bytes.Equal(source, formatted) {
				return nil
			}
			info, err := os.Stat(filename)
			if err != nil {
				return err
			}
			return os.WriteFile(filename, formatted, info.Mode().Perm())
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the file instead of printing it")

	return cmd
}

// readUnit reads the named .java file, or stdin when args is empty.
func readUnit(stdin io.Reader, args []string) (string, []byte, error) {
	if len(args) == 0 {
		source, err := io.ReadAll(stdin)
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		return "", source, nil
	}
	filename := args[0]
	if filepath.Ext(filename) != ".java" {
		return "", nil, fmt.Errorf("%s: not a .java file", filename)
	}
	source, err := os.ReadFile(filename)
	if err != nil {
		return "", nil, fmt.Errorf("read source: %w", err)
	}
	return filename, source, nil
}

func displayName(filename string) string {
	if filename == "" {
		return "<stdin>"
	}
	return filename
}
