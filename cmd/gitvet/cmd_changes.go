package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gitvet/pkg/diff"
	"gitvet/pkg/repo"
)

var actionColors = map[diff.Action]*color.Color{
	diff.Created: color.New(color.FgGreen),
	diff.Updated: color.New(color.FgYellow),
	diff.Deleted: color.New(color.FgRed),
	diff.Renamed: color.New(color.FgCyan),
}

func newChangesCmd() *cobra.Command {
	var repoPath string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "changes [rev]",
		Short: "Show the changeset a commit introduces relative to its parents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(repoPath)
			if err != nil {
				return err
			}
			if noColor || r.Config.NoColor {
				color.NoColor = true
			}

			rev := "HEAD"
			if len(args) > 0 {
				rev = args[0]
			}

			changes, err := r.Changes(cmd.Context(), rev)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, c := range changes {
				label := fmt.Sprintf("%-8s", c.Action)
				if col, ok := actionColors[c.Action]; ok {
					label = col.Sprintf("%-8s", c.Action)
				}
				fmt.Fprintf(out, "%s %s (%s)\n", label, c.Path, c.PairString())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&repoPath, "repo", "r", ".", "repository path")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}
