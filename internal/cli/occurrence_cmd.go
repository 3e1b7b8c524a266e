package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/lessonplan/internal/app"
	"github.com/alexanderramin/lessonplan/internal/cli/formatter"
	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/spf13/cobra"
)

func newReportCmd(a *App) *cobra.Command {
	var on string

	cmd := &cobra.Command{
		Use:   "report <assignment-id> <lesson-id>",
		Short: "Record that a lesson was taught",
		Long:  "Record that a lesson was taught. Reported lessons are never generated again.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.ReportRequest{AssignmentID: args[0], LessonID: args[1]}
			if on != "" {
				d, err := parseDateFlag("on", on, a.loc())
				if err != nil {
					return err
				}
				req.ReportedAt = &d
			}
			if err := a.Occurrences.Report(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reported %s for %s\n", req.LessonID, req.AssignmentID)
			return nil
		},
	}

	cmd.Flags().StringVar(&on, "on", "", "Day the lesson was taught (YYYY-MM-DD, default today)")
	return cmd
}

func newAddCmd(a *App) *cobra.Command {
	var date, start, end string

	cmd := &cobra.Command{
		Use:   "add <assignment-id> <lesson-id>",
		Short: "Schedule a lesson by hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			startAt, err := parseSlotFlags(date, start, a.loc())
			if err != nil {
				return err
			}
			endAt, err := parseSlotFlags(date, end, a.loc())
			if err != nil {
				return err
			}

			o := &domain.Occurrence{
				CourseAssignmentID: args[0],
				LessonID:           args[1],
				StartAt:            startAt,
				EndAt:              endAt,
			}
			if err := a.Occurrences.AddManual(cmd.Context(), o); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %s #%d on %s %s\n",
				o.LessonID, o.LessonNumber, formatter.HumanDay(o.StartAt.In(a.loc())), o.StartAt.In(a.loc()).Format("15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day of the lesson (YYYY-MM-DD)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newRescheduleCmd(a *App) *cobra.Command {
	var date, start string
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "reschedule <occurrence-id>",
		Short: "Move a stored lesson to a new day and time",
		Long: `Move a stored lesson. The ID may be a unique prefix as shown by
'lessonplan calendar'. The lesson keeps its length unless --duration is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startAt, err := parseSlotFlags(date, start, a.loc())
			if err != nil {
				return err
			}
			id, err := resolveOccurrenceID(cmd, a, args[0])
			if err != nil {
				return err
			}

			moved, err := a.Occurrences.Reschedule(cmd.Context(), app.RescheduleRequest{
				OccurrenceID: id,
				StartAt:      startAt,
				Duration:     duration,
			})
			if err != nil {
				return err
			}

			local := moved.StartAt.In(a.loc())
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s %s-%s (%s)\n",
				moved.LessonID, formatter.HumanDay(local), local.Format("15:04"),
				moved.EndAt.In(a.loc()).Format("15:04"), formatter.FormatDuration(moved.EndAt.Sub(moved.StartAt)))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "New day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "New length, e.g. 45m (default keeps the current length)")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}
