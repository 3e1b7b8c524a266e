package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/lessonplan/internal/db"
	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/jackc/pgx/v5"
)

// PostgresOccurrenceRepo implements OccurrenceRepo on PostgreSQL.
type PostgresOccurrenceRepo struct {
	db db.PgxDBTX
}

func NewPostgresOccurrenceRepo(db db.PgxDBTX) *PostgresOccurrenceRepo {
	return &PostgresOccurrenceRepo{db: db}
}

func (r *PostgresOccurrenceRepo) GetByID(ctx context.Context, id string) (*domain.Occurrence, error) {
	query := `SELECT ` + occurrenceColumns + ` FROM occurrences WHERE id = $1`
	o, err := scanPgOccurrence(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("occurrence %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get occurrence: %w", err)
	}
	return &o, nil
}

func (r *PostgresOccurrenceRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]domain.Occurrence, error) {
	query := `SELECT ` + occurrenceColumns + ` FROM occurrences
		WHERE course_assignment_id = $1 ORDER BY start_at, lesson_number`
	rows, err := r.db.Query(ctx, query, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("list occurrences by assignment: %w", err)
	}
	defer rows.Close()

	var out []domain.Occurrence
	for rows.Next() {
		o, err := scanPgOccurrence(rows)
		if err != nil {
			return nil, fmt.Errorf("scan occurrence: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate occurrences: %w", err)
	}
	return out, nil
}

func (r *PostgresOccurrenceRepo) ListReportedLessonIDs(ctx context.Context, assignmentID string) (map[string]bool, error) {
	rows, err := r.db.Query(ctx,
		`SELECT lesson_id FROM lesson_reports WHERE course_assignment_id = $1`, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("list reported lessons: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan reported lesson: %w", err)
		}
		out[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reported lessons: %w", err)
	}
	return out, nil
}

func (r *PostgresOccurrenceRepo) UpsertGenerated(ctx context.Context, occs []domain.Occurrence) (int, error) {
	query := `
		INSERT INTO occurrences (id, course_assignment_id, lesson_id, start_at, end_at, lesson_number, origin)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT DO NOTHING
	`
	inserted := 0
	for _, o := range occs {
		tag, err := r.db.Exec(ctx, query,
			o.ID, o.CourseAssignmentID, o.LessonID, o.StartAt, o.EndAt, o.LessonNumber, string(domain.OriginGenerated))
		if err != nil {
			return inserted, fmt.Errorf("upsert generated occurrence %s: %w", o.LessonID, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (r *PostgresOccurrenceRepo) CreateManual(ctx context.Context, o *domain.Occurrence) error {
	query := `
		INSERT INTO occurrences (id, course_assignment_id, lesson_id, start_at, end_at, lesson_number, origin)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		o.ID, o.CourseAssignmentID, o.LessonID, o.StartAt, o.EndAt, o.LessonNumber, string(domain.OriginPersisted))
	if err != nil {
		return fmt.Errorf("create occurrence: %w", err)
	}
	o.Origin = domain.OriginPersisted
	return nil
}

func (r *PostgresOccurrenceRepo) Reschedule(ctx context.Context, id string, startAt, endAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE occurrences
		SET start_at = $1, end_at = $2, origin = $3, updated_at = now()
		WHERE id = $4
	`, startAt, endAt, string(domain.OriginPersisted), id)
	if err != nil {
		return fmt.Errorf("reschedule occurrence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("occurrence %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *PostgresOccurrenceRepo) MarkReported(ctx context.Context, assignmentID, lessonID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO lesson_reports (course_assignment_id, lesson_id, reported_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (course_assignment_id, lesson_id) DO NOTHING
	`, assignmentID, lessonID, at)
	if err != nil {
		return fmt.Errorf("mark lesson reported: %w", err)
	}
	return nil
}

func scanPgOccurrence(row pgx.Row) (domain.Occurrence, error) {
	var o domain.Occurrence
	var writtenAs string
	err := row.Scan(&o.ID, &o.CourseAssignmentID, &o.LessonID, &o.StartAt, &o.EndAt, &o.LessonNumber, &writtenAs)
	o.Origin = domain.OriginPersisted
	return o, err
}
