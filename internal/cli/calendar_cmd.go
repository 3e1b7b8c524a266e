package cli

import (
	"fmt"

	"github.com/alexanderramin/lessonplan/internal/app"
	"github.com/alexanderramin/lessonplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCalendarCmd(a *App) *cobra.Command {
	var window windowFlags
	var assignments []string
	var persist bool

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show stored and generated lessons",
		Long: `Show the lesson calendar. Lessons that are neither stored nor reported
are generated from each assignment's recurrence pattern, skipping blocked
dates. Pass --persist to save the generated lessons.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.NewCalendarRequest()
			req.AssignmentIDs = assignments
			req.Persist = persist
			if err := window.apply(&req, a.loc(), a.now()); err != nil {
				return err
			}

			resp, err := a.Schedule.Calendar(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCalendar(resp, a.options()))
			printWarnings(cmd, a, resp.Warnings)
			return nil
		},
	}

	cmd.Flags().AddFlagSet(window.flagSet())
	cmd.Flags().StringSliceVarP(&assignments, "assignment", "a", nil, "Limit to assignment IDs (repeatable)")
	cmd.Flags().BoolVar(&persist, "persist", false, "Save generated lessons")

	return cmd
}
