package cli

import (
	"fmt"

	"github.com/alexanderramin/lessonplan/internal/cli/formatter"
	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/spf13/cobra"
)

func newBlockedCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocked",
		Short: "Manage blocked dates",
	}

	cmd.AddCommand(
		newBlockedListCmd(a),
		newBlockedAddCmd(a),
		newBlockedRemoveCmd(a),
	)

	return cmd
}

func newBlockedListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List blocked dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dates, err := a.Blocked.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBlockedDates(dates, a.options()))
			return nil
		},
	}
}

func newBlockedAddCmd(a *App) *cobra.Command {
	var date, end, reason string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Block a day or an inclusive range of days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateFlag("date", date, a.loc())
			if err != nil {
				return err
			}
			b := &domain.BlockedDate{Date: start, Reason: reason}
			if end != "" {
				e, err := parseDateFlag("end", end, a.loc())
				if err != nil {
					return err
				}
				b.EndDate = &e
			}

			if err := a.Blocked.Add(cmd.Context(), b); err != nil {
				return err
			}

			if a.Plain {
				fmt.Fprintln(cmd.OutOrStdout(), b.ID)
				return nil
			}
			when := formatter.HumanDay(b.Date)
			if b.EndDate != nil {
				when += " → " + formatter.HumanDay(*b.EndDate)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Blocked %s %s\n", when, formatter.TruncID(b.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Blocked day, or first day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&reason, "reason", "", "Why the day is blocked")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newBlockedRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a blocked date",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveBlockedID(cmd, a, args[0])
			if err != nil {
				return err
			}
			if err := a.Blocked.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed blocked date %s\n", id)
			return nil
		},
	}
}
