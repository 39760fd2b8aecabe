package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jminus/compiler"
	"github.com/dhamidi/jminus/diag"
)

func newCheckCmd() *cobra.Command {
	var outputFormat string
	var emitCode bool

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse and analyze a j-- source file, optionally generating code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open source: %w", err)
			}
			defer f.Close()

			collector := diag.NewCollector()
			c := compiler.New(compiler.WithFile(filename), compiler.WithSink(collector))
			var res *compiler.Result
			if emitCode {
				res, err = c.Compile(f)
			} else {
				res, err = c.Check(f)
			}

			if err != nil {
				if derr := collector.Err(); derr != nil {
					return fmt.Errorf("check %s: %w", filename, derr)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if outputFormat != "" {
				if err := dump(out, res.Analyzed, outputFormat); err != nil {
					return err
				}
			}
			if res.Listing != nil {
				if _, err := res.Listing.WriteTo(out); err != nil {
					return fmt.Errorf("write listing: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "dump the analyzed tree (xml, json)")
	cmd.Flags().BoolVar(&emitCode, "emit", false, "generate code and print the instruction listing")

	return cmd
}
