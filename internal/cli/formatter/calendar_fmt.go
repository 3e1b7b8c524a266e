package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/lessonplan/internal/app"
	"github.com/alexanderramin/lessonplan/internal/domain"
)

const clockLayout = "15:04"

var calendarTSVHeaders = []string{
	"date", "start", "end", "assignment", "lesson_id", "number",
	"lesson", "course", "institution", "instructor", "origin", "id",
}

// FormatCalendar renders calendar entries. Styled output groups entries
// under one heading per local day; plain output is one TSV row per entry.
func FormatCalendar(resp *app.CalendarResponse, opts Options) string {
	if opts.Plain {
		return formatCalendarPlain(resp, opts)
	}

	var b strings.Builder
	loc := opts.loc()
	now := opts.now()

	if len(resp.Entries) == 0 {
		b.WriteString(Dim("No lessons in this window.") + "\n")
	}

	var current string
	for _, e := range resp.Entries {
		start := e.StartAt.In(loc)
		day := start.Format(domain.DateLayout)
		if day != current {
			if current != "" {
				b.WriteString("\n")
			}
			current = day
			b.WriteString(Bold(HumanDay(start)) + "  " + Dim(RelativeDayFrom(start, now, loc)) + "\n")
		}
		b.WriteString(fmt.Sprintf("  %s-%s  %s  %s %s  %s\n",
			start.Format(clockLayout),
			e.EndAt.In(loc).Format(clockLayout),
			StyleFg.Render(e.CourseName),
			Dim(fmt.Sprintf("#%d", e.LessonNumber)),
			e.LessonTitle,
			OriginIndicator(e.Origin, !resp.Proposed[e.Key()]),
		))
		b.WriteString("    " + Dim(e.InstitutionName+" · "+e.InstructorName) + "  " + TruncID(e.ID) + "\n")
	}

	b.WriteString("\n")
	summary := fmt.Sprintf("%d lessons, %d generated", len(resp.Entries), resp.Generated)
	if resp.Persisted > 0 {
		summary += fmt.Sprintf(", %d saved", resp.Persisted)
	}
	b.WriteString(Dim(summary) + "\n")

	return RenderBox("Calendar", b.String())
}

func formatCalendarPlain(resp *app.CalendarResponse, opts Options) string {
	loc := opts.loc()
	rows := make([][]string, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		start := e.StartAt.In(loc)
		rows = append(rows, []string{
			start.Format(domain.DateLayout),
			start.Format(clockLayout),
			e.EndAt.In(loc).Format(clockLayout),
			e.CourseAssignmentID,
			e.LessonID,
			strconv.Itoa(e.LessonNumber),
			e.LessonTitle,
			e.CourseName,
			e.InstitutionName,
			e.InstructorName,
			string(e.Origin),
			e.ID,
		})
	}
	return RenderTSV(calendarTSVHeaders, rows)
}

// FormatWarnings renders warnings one per line, or "" when there are none.
func FormatWarnings(warnings []string, opts Options) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	for _, w := range warnings {
		if opts.Plain {
			b.WriteString("warning: " + w + "\n")
			continue
		}
		b.WriteString(StyleYellow.Render("WARNING: "+w) + "\n")
	}
	return b.String()
}
