package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testBlockedDates() []domain.BlockedDate {
	end := time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC)
	return []domain.BlockedDate{
		{ID: "b-0000001-spring", Date: time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC), EndDate: &end, Reason: "Spring break"},
		{ID: "b-2", Date: time.Date(2024, 5, 27, 0, 0, 0, 0, time.UTC)},
	}
}

func TestFormatBlockedDates_Plain(t *testing.T) {
	out := FormatBlockedDates(testBlockedDates(), Options{Plain: true})
	assert.Equal(t,
		"id\tdate\tend_date\treason\n"+
			"b-0000001-spring\t2024-03-25\t2024-03-29\tSpring break\n"+
			"b-2\t2024-05-27\t\t\n",
		out)
}

func TestFormatBlockedDates_Styled(t *testing.T) {
	out := stripANSI(FormatBlockedDates(testBlockedDates(), Options{}))
	assert.Contains(t, out, "Mon Mar 25, 2024 → Fri Mar 29, 2024")
	assert.Contains(t, out, "Spring break")
	assert.Contains(t, out, "b-000000")
	assert.NotContains(t, out, "b-0000001-spring")
}

func TestFormatBlockedDates_Empty(t *testing.T) {
	assert.Contains(t, stripANSI(FormatBlockedDates(nil, Options{})), "No blocked dates.")
}
