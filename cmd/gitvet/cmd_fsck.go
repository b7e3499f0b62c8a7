package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitvet/pkg/repo"
)

func newFsckCmd() *cobra.Command {
	var repoPath string

	cmd := &cobra.Command{
		Use:   "fsck",
		Short: "Validate every object reachable from HEAD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(repoPath)
			if err != nil {
				return err
			}
			if err := r.Fsck(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok: object graph verified from HEAD")
			return nil
		},
	}

	cmd.Flags().StringVarP(&repoPath, "repo", "r", ".", "repository path")

	return cmd
}
