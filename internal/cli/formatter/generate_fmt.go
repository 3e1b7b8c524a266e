package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/lessonplan/internal/app"
	"github.com/alexanderramin/lessonplan/internal/domain"
)

// FormatGenerate renders one line per assignment with what was generated
// and stored.
func FormatGenerate(resp *app.GenerateResponse, opts Options) string {
	if opts.Plain {
		rows := make([][]string, 0, len(resp.Assignments))
		for _, a := range resp.Assignments {
			resume := ""
			if !a.ResumeDate.IsZero() {
				resume = a.ResumeDate.Format(domain.DateLayout)
			}
			rows = append(rows, []string{
				a.AssignmentID,
				resume,
				strconv.Itoa(a.Generated),
				strconv.Itoa(a.Inserted),
				strconv.FormatBool(a.Exhausted),
				strconv.FormatBool(a.DisplayOnly),
			})
		}
		return RenderTSV([]string{"assignment", "resume", "generated", "inserted", "exhausted", "display_only"}, rows)
	}

	var b strings.Builder
	if len(resp.Assignments) == 0 {
		b.WriteString(Dim("Nothing to generate.") + "\n")
		return RenderBox("Generate", b.String())
	}

	rows := make([][]string, 0, len(resp.Assignments))
	for _, a := range resp.Assignments {
		resume := Dim("--")
		if !a.ResumeDate.IsZero() {
			resume = HumanDay(a.ResumeDate)
		}
		status := StyleGreen.Render("ok")
		switch {
		case a.DisplayOnly:
			status = StyleRed.Render("not saved")
		case a.Exhausted:
			status = StyleYellow.Render("partial")
		case a.Generated == 0:
			status = Dim("up to date")
		}
		rows = append(rows, []string{
			Bold(a.AssignmentID),
			resume,
			fmt.Sprintf("%d", a.Generated),
			fmt.Sprintf("%d", a.Inserted),
			status,
		})
	}
	b.WriteString(RenderTable([]string{"ASSIGNMENT", "FROM", "GENERATED", "SAVED", "STATUS"}, rows))
	return RenderBox("Generate", b.String())
}

// FormatImportResult summarizes what an import stored.
func FormatImportResult(res *app.ImportResult, opts Options) string {
	parts := []struct {
		label string
		n     int
	}{
		{"courses", res.Courses},
		{"lessons", res.Lessons},
		{"assignments", res.Assignments},
		{"patterns", res.Patterns},
		{"occurrences", res.Occurrences},
		{"blocked_dates", res.BlockedDates},
	}
	if opts.Plain {
		var b strings.Builder
		for _, p := range parts {
			fmt.Fprintf(&b, "%s\t%d\n", p.label, p.n)
		}
		return b.String()
	}
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		items = append(items, fmt.Sprintf("%s %s", Bold(strconv.Itoa(p.n)), strings.ReplaceAll(p.label, "_", " ")))
	}
	return StyleGreen.Render("Imported ") + strings.Join(items, Dim(", ")) + "\n"
}
