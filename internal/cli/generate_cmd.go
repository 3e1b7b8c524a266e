package cli

import (
	"fmt"

	"github.com/alexanderramin/lessonplan/internal/app"
	"github.com/alexanderramin/lessonplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newGenerateCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate [assignment-id...]",
		Short: "Generate and save lessons for assignments",
		Long:  "Generate lessons for the given assignments, or all of them, and save them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.Schedule.Generate(cmd.Context(), app.GenerateRequest{AssignmentIDs: args})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGenerate(resp, a.options()))
			printWarnings(cmd, a, resp.Warnings)
			return nil
		},
	}
}
