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

// SQLiteOccurrenceRepo implements OccurrenceRepo using a SQLite database.
type SQLiteOccurrenceRepo struct {
	db db.DBTX
}

func NewSQLiteOccurrenceRepo(db db.DBTX) *SQLiteOccurrenceRepo {
	return &SQLiteOccurrenceRepo{db: db}
}

const occurrenceColumns = `id, course_assignment_id, lesson_id, start_at, end_at, lesson_number, origin`

func (r *SQLiteOccurrenceRepo) GetByID(ctx context.Context, id string) (*domain.Occurrence, error) {
	query := `SELECT ` + occurrenceColumns + ` FROM occurrences WHERE id = ?`
	o, err := scanOccurrence(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("occurrence %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning occurrence: %w", err)
	}
	return &o, nil
}

func (r *SQLiteOccurrenceRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]domain.Occurrence, error) {
	query := `SELECT ` + occurrenceColumns + ` FROM occurrences
		WHERE course_assignment_id = ? ORDER BY start_at, lesson_number`
	rows, err := r.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("listing occurrences by assignment: %w", err)
	}
	defer rows.Close()

	var out []domain.Occurrence
	for rows.Next() {
		o, err := scanOccurrence(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning occurrence row: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating occurrences: %w", err)
	}
	return out, nil
}

func (r *SQLiteOccurrenceRepo) ListReportedLessonIDs(ctx context.Context, assignmentID string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT lesson_id FROM lesson_reports WHERE course_assignment_id = ?`, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("listing reported lessons: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning reported lesson row: %w", err)
		}
		out[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reported lessons: %w", err)
	}
	return out, nil
}

func (r *SQLiteOccurrenceRepo) UpsertGenerated(ctx context.Context, occs []domain.Occurrence) (int, error) {
	query := `INSERT INTO occurrences (` + occurrenceColumns + `, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`
	inserted := 0
	for _, o := range occs {
		now := nowUTC()
		res, err := r.db.ExecContext(ctx, query,
			o.ID, o.CourseAssignmentID, o.LessonID,
			formatInstant(o.StartAt), formatInstant(o.EndAt),
			o.LessonNumber, string(domain.OriginGenerated), now, now,
		)
		if err != nil {
			return inserted, fmt.Errorf("upserting generated occurrence %s: %w", o.LessonID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("reading affected rows: %w", err)
		}
		inserted += int(n)
	}
	return inserted, nil
}

func (r *SQLiteOccurrenceRepo) CreateManual(ctx context.Context, o *domain.Occurrence) error {
	query := `INSERT INTO occurrences (` + occurrenceColumns + `, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := nowUTC()
	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.CourseAssignmentID, o.LessonID,
		formatInstant(o.StartAt), formatInstant(o.EndAt),
		o.LessonNumber, string(domain.OriginPersisted), now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting occurrence: %w", err)
	}
	o.Origin = domain.OriginPersisted
	return nil
}

func (r *SQLiteOccurrenceRepo) Reschedule(ctx context.Context, id string, startAt, endAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE occurrences SET start_at = ?, end_at = ?, origin = ?, updated_at = ? WHERE id = ?`,
		formatInstant(startAt), formatInstant(endAt), string(domain.OriginPersisted), nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("rescheduling occurrence: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("occurrence %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteOccurrenceRepo) MarkReported(ctx context.Context, assignmentID, lessonID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lesson_reports (course_assignment_id, lesson_id, reported_at)
		VALUES (?, ?, ?)
		ON CONFLICT (course_assignment_id, lesson_id) DO NOTHING`,
		assignmentID, lessonID, formatInstant(at),
	)
	if err != nil {
		return fmt.Errorf("marking lesson reported: %w", err)
	}
	return nil
}

func scanOccurrence(row rowScanner) (domain.Occurrence, error) {
	var o domain.Occurrence
	var startStr, endStr, writtenAs string
	if err := row.Scan(&o.ID, &o.CourseAssignmentID, &o.LessonID, &startStr, &endStr, &o.LessonNumber, &writtenAs); err != nil {
		return o, err
	}
	var err error
	if o.StartAt, err = parseInstant(startStr); err != nil {
		return o, err
	}
	if o.EndAt, err = parseInstant(endStr); err != nil {
		return o, err
	}
	// The origin column only records how a row was first written. Anything
	// read back from storage is persisted.
	o.Origin = domain.OriginPersisted
	return o, nil
}
