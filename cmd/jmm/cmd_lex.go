package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jminus/diag"
	"github.com/dhamidi/jminus/parser"
)

func newLexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lex <file>",
		Short: "Print the tokens of a j-- source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open source: %w", err)
			}
			defer f.Close()

			collector := diag.NewCollector()
			lexer := parser.NewLexer(f, filename, collector)
			out := cmd.OutOrStdout()
			for {
				tok := lexer.NextToken()
				fmt.Fprintf(out, "%d\t%s\t%s\n", tok.Line, tok.Kind, tok.Image())
				if tok.Kind == parser.TokenEOF {
					break
				}
			}
			if err := collector.Err(); err != nil {
				return fmt.Errorf("lex %s: %w", filename, err)
			}
			return nil
		},
	}
}
