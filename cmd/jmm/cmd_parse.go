package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jminus/ast"
	"github.com/dhamidi/jminus/diag"
	"github.com/dhamidi/jminus/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a j-- source file and dump the syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open source: %w", err)
			}
			defer f.Close()

			collector := diag.NewCollector()
			p := parser.New(f, parser.WithFile(filename), parser.WithSink(collector))
			unit := p.ParseCompilationUnit()

			if err := dump(cmd.OutOrStdout(), unit, outputFormat); err != nil {
				return err
			}
			if err := collector.Err(); err != nil {
				return fmt.Errorf("parse %s: %w", filename, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "xml", "output format (xml, json)")

	return cmd
}

func dump(w io.Writer, n ast.Node, format string) error {
	switch format {
	case "xml":
		n.Dump(ast.NewXMLPrinter(w))
	case "json":
		j := ast.NewJSONDumper()
		n.Dump(j)
		if err := j.Encode(w); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
