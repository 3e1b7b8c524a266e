package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/lessonplan/internal/cli/formatter"
	"github.com/alexanderramin/lessonplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Schedule    service.ScheduleService
	Occurrences service.OccurrenceService
	Blocked     service.BlockedDateService
	Import      service.ImportService

	// Location is the local calendar used for flags and output.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
	// Plain selects tab-separated output without color.
	Plain bool
}

func (a *App) loc() *time.Location {
	if a.Location == nil {
		return time.Local
	}
	return a.Location
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) options() formatter.Options {
	return formatter.Options{Plain: a.Plain, Location: a.loc(), Now: a.now()}
}

// NewRootCmd creates the top-level "lessonplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "lessonplan",
		Short:         "Lesson calendar generator for recurring course assignments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&a.Plain, "plain", a.Plain, "Tab-separated output without color")

	root.AddCommand(
		newCalendarCmd(a),
		newGenerateCmd(a),
		newAssignmentsCmd(a),
		newBlockedCmd(a),
		newImportCmd(a),
		newReportCmd(a),
		newAddCmd(a),
		newRescheduleCmd(a),
	)

	return root
}

// printWarnings writes warnings to stderr so stdout stays machine-readable.
func printWarnings(cmd *cobra.Command, a *App, warnings []string) {
	if out := formatter.FormatWarnings(warnings, a.options()); out != "" {
		fmt.Fprint(cmd.ErrOrStderr(), out)
	}
}
