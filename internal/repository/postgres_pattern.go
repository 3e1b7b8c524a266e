package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/lessonplan/internal/db"
	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/jackc/pgx/v5"
)

// PostgresPatternRepo implements PatternRepo on PostgreSQL.
type PostgresPatternRepo struct {
	db db.PgxDBTX
}

func NewPostgresPatternRepo(db db.PgxDBTX) *PostgresPatternRepo {
	return &PostgresPatternRepo{db: db}
}

func (r *PostgresPatternRepo) GetByAssignment(ctx context.Context, assignmentID string) (*domain.RecurrencePattern, error) {
	p := &domain.RecurrencePattern{
		CourseAssignmentID: assignmentID,
		ActiveWeekdays:     map[time.Weekday]bool{},
		TimeSlots:          map[time.Weekday]domain.TimeSlot{},
	}

	err := r.db.QueryRow(ctx,
		`SELECT target_lesson_count FROM recurrence_patterns WHERE course_assignment_id = $1`,
		assignmentID,
	).Scan(&p.TargetLessonCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("recurrence pattern for %s: %w", assignmentID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get recurrence pattern: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT weekday, start_time, end_time, anchor_date, active
		FROM pattern_time_slots
		WHERE course_assignment_id = $1
		ORDER BY weekday
	`, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("list pattern time slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var weekday int16
		var active bool
		var start, end sql.NullString
		var anchor *time.Time
		if err := rows.Scan(&weekday, &start, &end, &anchor, &active); err != nil {
			return nil, fmt.Errorf("scan time slot: %w", err)
		}
		if anchor != nil {
			d := dateOnly(*anchor)
			anchor = &d
		}
		applySlotRow(p, time.Weekday(weekday), active, start, end, anchor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time slots: %w", err)
	}
	return p, nil
}

func (r *PostgresPatternRepo) Upsert(ctx context.Context, p *domain.RecurrencePattern) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO recurrence_patterns (course_assignment_id, target_lesson_count, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (course_assignment_id) DO UPDATE SET
			target_lesson_count = EXCLUDED.target_lesson_count,
			updated_at = now()
	`, p.CourseAssignmentID, p.TargetLessonCount)
	if err != nil {
		return fmt.Errorf("upsert recurrence pattern: %w", err)
	}

	if _, err := r.db.Exec(ctx,
		`DELETE FROM pattern_time_slots WHERE course_assignment_id = $1`, p.CourseAssignmentID,
	); err != nil {
		return fmt.Errorf("clear pattern time slots: %w", err)
	}

	for _, row := range slotRows(p) {
		_, err := r.db.Exec(ctx, `
			INSERT INTO pattern_time_slots (course_assignment_id, weekday, start_time, end_time, anchor_date, active)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.CourseAssignmentID, int16(row.weekday), row.start, row.end, pgDate(row.anchor), row.active)
		if err != nil {
			return fmt.Errorf("insert time slot for %s: %w", row.weekday, err)
		}
	}
	return nil
}
