package formatter

import (
	"strings"

	"github.com/alexanderramin/lessonplan/internal/domain"
)

// FormatBlockedDates lists blocked days and ranges.
func FormatBlockedDates(dates []domain.BlockedDate, opts Options) string {
	if opts.Plain {
		rows := make([][]string, 0, len(dates))
		for _, d := range dates {
			end := ""
			if d.EndDate != nil {
				end = d.EndDate.Format(domain.DateLayout)
			}
			rows = append(rows, []string{d.ID, d.Date.Format(domain.DateLayout), end, d.Reason})
		}
		return RenderTSV([]string{"id", "date", "end_date", "reason"}, rows)
	}

	var b strings.Builder
	if len(dates) == 0 {
		b.WriteString(Dim("No blocked dates.") + "\n")
		return RenderBox("Blocked dates", b.String())
	}

	rows := make([][]string, 0, len(dates))
	for _, d := range dates {
		when := HumanDay(d.Date)
		if d.EndDate != nil {
			when += " → " + HumanDay(*d.EndDate)
		}
		rows = append(rows, []string{
			TruncID(d.ID),
			StyleFg.Render(when),
			domain.CoalesceStr(d.Reason, Dim("--")),
		})
	}
	b.WriteString(RenderTable([]string{"ID", "WHEN", "REASON"}, rows))
	return RenderBox("Blocked dates", b.String())
}
