package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/lessonplan/internal/app"
	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/spf13/pflag"
)

// windowFlags selects a calendar window. --day and --today pick a single
// local day; --from and --to are inclusive calendar dates.
type windowFlags struct {
	day   string
	from  string
	to    string
	today bool
}

func (w *windowFlags) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("window", pflag.ContinueOnError)
	fs.StringVar(&w.day, "day", "", "Single day (YYYY-MM-DD)")
	fs.BoolVar(&w.today, "today", false, "Only today")
	fs.StringVar(&w.from, "from", "", "First day of the window (YYYY-MM-DD)")
	fs.StringVar(&w.to, "to", "", "Last day of the window (YYYY-MM-DD)")
	return fs
}

func (w *windowFlags) apply(req *app.CalendarRequest, loc *time.Location, now time.Time) error {
	if w.today && w.day != "" {
		return fmt.Errorf("--today cannot be combined with --day")
	}
	if w.today {
		d := domain.StartOfDay(now, loc)
		req.Day = &d
	}
	if w.day != "" {
		d, err := parseDateFlag("day", w.day, loc)
		if err != nil {
			return err
		}
		req.Day = &d
	}
	if w.from != "" {
		d, err := parseDateFlag("from", w.from, loc)
		if err != nil {
			return err
		}
		req.From = &d
	}
	if w.to != "" {
		d, err := parseDateFlag("to", w.to, loc)
		if err != nil {
			return err
		}
		end := d.AddDate(0, 0, 1).Add(-time.Nanosecond)
		req.To = &end
	}
	return nil
}

func parseDateFlag(name, value string, loc *time.Location) (time.Time, error) {
	d, err := domain.ParseDate(value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD", name, value)
	}
	return d, nil
}

// parseSlotFlags combines a date and a clock time in loc.
func parseSlotFlags(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := parseDateFlag("date", date, loc)
	if err != nil {
		return time.Time{}, err
	}
	c, err := domain.ParseClock(clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: expected HH:MM", clock)
	}
	return c.On(day, loc), nil
}
