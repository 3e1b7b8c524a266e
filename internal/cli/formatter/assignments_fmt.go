package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/lessonplan/internal/app"
	"github.com/alexanderramin/lessonplan/internal/domain"
)

const assignmentProgressBarWidth = 10

// FormatAssignments renders the assignment overview with teaching progress
// and any pattern problems.
func FormatAssignments(summaries []app.AssignmentSummary, opts Options) string {
	if opts.Plain {
		return formatAssignmentsPlain(summaries)
	}

	var b strings.Builder
	if len(summaries) == 0 {
		b.WriteString(Dim("No assignments. Import a plan with 'lessonplan import'.") + "\n")
		return RenderBox("Assignments", b.String())
	}

	headers := []string{"ID", "COURSE", "INSTITUTION", "DAYS", "TAUGHT", "SCHEDULED"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		total := s.LessonCount
		if s.TargetLessons > 0 && s.TargetLessons < total {
			total = s.TargetLessons
		}
		rows = append(rows, []string{
			Bold(s.Assignment.ID),
			StyleFg.Render(domain.CoalesceStr(s.Assignment.CourseName, s.Assignment.CourseID)),
			domain.CoalesceStr(s.Assignment.InstitutionName, domain.Placeholder),
			Weekdays(s.UsableWeekdays),
			RenderLessonProgress(s.ReportedCount, total, assignmentProgressBarWidth),
			fmt.Sprintf("%d/%d", s.ScheduledCount, total),
		})
	}
	b.WriteString(RenderTable(headers, rows))

	var problems []string
	for _, s := range summaries {
		for _, p := range s.Problems {
			problems = append(problems, fmt.Sprintf("%s: %s", s.Assignment.ID, p))
		}
	}
	if len(problems) > 0 {
		b.WriteString("\n")
		for _, p := range problems {
			b.WriteString(StyleRed.Render("  ! "+p) + "\n")
		}
	}

	return RenderBox("Assignments", b.String())
}

func formatAssignmentsPlain(summaries []app.AssignmentSummary) string {
	headers := []string{
		"id", "course", "institution", "instructor", "start", "end",
		"weekdays", "target", "lessons", "scheduled", "reported", "problems",
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		a := s.Assignment
		end := ""
		if a.EndDate != nil {
			end = a.EndDate.Format(domain.DateLayout)
		}
		days := make([]string, len(s.UsableWeekdays))
		for i, d := range s.UsableWeekdays {
			days[i] = strings.ToLower(d.String()[:3])
		}
		rows = append(rows, []string{
			a.ID,
			a.CourseName,
			a.InstitutionName,
			a.InstructorName,
			a.StartDate.Format(domain.DateLayout),
			end,
			strings.Join(days, ","),
			strconv.Itoa(s.TargetLessons),
			strconv.Itoa(s.LessonCount),
			strconv.Itoa(s.ScheduledCount),
			strconv.Itoa(s.ReportedCount),
			strings.Join(s.Problems, "; "),
		})
	}
	return RenderTSV(headers, rows)
}
