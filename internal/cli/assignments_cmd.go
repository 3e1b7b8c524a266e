package cli

import (
	"fmt"

	"github.com/alexanderramin/lessonplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newAssignmentsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "assignments",
		Aliases: []string{"ls"},
		Short:   "List course assignments with teaching progress",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := a.Schedule.ListAssignments(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAssignments(summaries, a.options()))
			return nil
		},
	}
}
