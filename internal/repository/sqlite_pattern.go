package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/lessonplan/internal/db"
	"github.com/alexanderramin/lessonplan/internal/domain"
)

// SQLitePatternRepo implements PatternRepo using a SQLite database.
// A pattern is one recurrence_patterns row plus one pattern_time_slots row
// per weekday that is active or carries a slot.
type SQLitePatternRepo struct {
	db db.DBTX
}

func NewSQLitePatternRepo(db db.DBTX) *SQLitePatternRepo {
	return &SQLitePatternRepo{db: db}
}

func (r *SQLitePatternRepo) GetByAssignment(ctx context.Context, assignmentID string) (*domain.RecurrencePattern, error) {
	p := &domain.RecurrencePattern{
		CourseAssignmentID: assignmentID,
		ActiveWeekdays:     map[time.Weekday]bool{},
		TimeSlots:          map[time.Weekday]domain.TimeSlot{},
	}

	err := r.db.QueryRowContext(ctx,
		`SELECT target_lesson_count FROM recurrence_patterns WHERE course_assignment_id = ?`,
		assignmentID,
	).Scan(&p.TargetLessonCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("recurrence pattern for %s: %w", assignmentID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading recurrence pattern: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT weekday, start_time, end_time, anchor_date, active
		FROM pattern_time_slots WHERE course_assignment_id = ? ORDER BY weekday`,
		assignmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing pattern time slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var weekday, active int
		var start, end, anchor sql.NullString
		if err := rows.Scan(&weekday, &start, &end, &anchor, &active); err != nil {
			return nil, fmt.Errorf("scanning time slot row: %w", err)
		}
		applySlotRow(p, time.Weekday(weekday), active != 0, start, end, parseNullableDate(anchor))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time slots: %w", err)
	}
	return p, nil
}

// applySlotRow folds one stored weekday row into p. A slot with a missing
// or malformed clock time is left out, which makes that weekday unusable.
func applySlotRow(p *domain.RecurrencePattern, wd time.Weekday, active bool, start, end sql.NullString, anchor *time.Time) {
	if active {
		p.ActiveWeekdays[wd] = true
	}
	startClock, okStart := nullableClock(start)
	endClock, okEnd := nullableClock(end)
	if !okStart || !okEnd {
		return
	}
	p.TimeSlots[wd] = domain.TimeSlot{Weekday: wd, Start: startClock, End: endClock, AnchorDate: anchor}
}

// Upsert replaces the stored pattern. Run it inside a transaction to make
// the replacement atomic.
func (r *SQLitePatternRepo) Upsert(ctx context.Context, p *domain.RecurrencePattern) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recurrence_patterns (course_assignment_id, target_lesson_count, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (course_assignment_id) DO UPDATE SET
			target_lesson_count = excluded.target_lesson_count,
			updated_at = excluded.updated_at`,
		p.CourseAssignmentID, p.TargetLessonCount, nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting recurrence pattern: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM pattern_time_slots WHERE course_assignment_id = ?`, p.CourseAssignmentID,
	); err != nil {
		return fmt.Errorf("clearing pattern time slots: %w", err)
	}

	for _, row := range slotRows(p) {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO pattern_time_slots (course_assignment_id, weekday, start_time, end_time, anchor_date, active)
			VALUES (?, ?, ?, ?, ?, ?)`,
			p.CourseAssignmentID,
			int(row.weekday),
			row.start,
			row.end,
			nullableDateToString(row.anchor),
			boolToInt(row.active),
		)
		if err != nil {
			return fmt.Errorf("inserting time slot for %s: %w", row.weekday, err)
		}
	}
	return nil
}

type slotRow struct {
	weekday time.Weekday
	start   any
	end     any
	anchor  *time.Time
	active  bool
}

// slotRows flattens a pattern into one row per weekday that is active or
// has a slot.
func slotRows(p *domain.RecurrencePattern) []slotRow {
	var out []slotRow
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		slot, hasSlot := p.TimeSlots[wd]
		active := p.ActiveWeekdays[wd]
		if !hasSlot && !active {
			continue
		}
		row := slotRow{weekday: wd, active: active}
		if hasSlot {
			row.start = slot.Start.String()
			row.end = slot.End.String()
			row.anchor = slot.AnchorDate
		}
		out = append(out, row)
	}
	return out
}
