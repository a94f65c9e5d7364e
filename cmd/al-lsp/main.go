package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := newServeFlags()
	root := &cobra.Command{
		Use:   "al-lsp",
		Short: "Language server for AL (Microsoft Dynamics 365 Business Central)",
		Long: `al-lsp is a language server implementing the Language Server
Protocol for AL, the language used to extend Microsoft Dynamics 365
Business Central.

It speaks LSP over stdio by default, or over a UNIX socket with --pipe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
	flags.bind(root.PersistentFlags())
	return root
}
