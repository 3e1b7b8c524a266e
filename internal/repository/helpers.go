package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/lessonplan/internal/domain"
)

// SQLite keeps instants as UTC RFC3339 text and calendar dates as
// YYYY-MM-DD text. Both sort lexically in chronological order.

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// formatDate keeps the calendar components of t as written in its own
// location.
func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	t, err := domain.ParseDate(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// parseNullableDate parses a sql.NullString into a *time.Time.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := parseDate(s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableDateToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableDateToString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatDate(*t)
}

// nullableClock parses a stored "HH:MM" value; ok is false when it is
// NULL or malformed.
func nullableClock(s sql.NullString) (domain.ClockTime, bool) {
	if !s.Valid || s.String == "" {
		return domain.ClockTime{}, false
	}
	c, err := domain.ParseClock(s.String)
	if err != nil {
		return domain.ClockTime{}, false
	}
	return c, true
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return formatInstant(time.Now())
}

// dateOnly drops the instant and keeps calendar components in UTC, the way
// both backends hand dates back.
func dateOnly(t time.Time) time.Time {
	return domain.DateOf(t, time.UTC)
}
