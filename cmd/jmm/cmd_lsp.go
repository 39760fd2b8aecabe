package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/jminus/lsp"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer("0.1.0")
			return server.RunStdio()
		},
	}
}
