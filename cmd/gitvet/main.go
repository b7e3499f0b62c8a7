package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "gitvet",
		Short: "Integrity checks and merge-aware change reports for git object graphs",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newFsckCmd())
	root.AddCommand(newChangesCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("gitvet 0.1.0-dev")
		},
	}
}
