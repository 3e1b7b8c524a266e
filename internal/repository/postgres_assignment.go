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

// PostgresAssignmentRepo implements AssignmentRepo on PostgreSQL.
type PostgresAssignmentRepo struct {
	db db.PgxDBTX
}

func NewPostgresAssignmentRepo(db db.PgxDBTX) *PostgresAssignmentRepo {
	return &PostgresAssignmentRepo{db: db}
}

func (r *PostgresAssignmentRepo) Create(ctx context.Context, a *domain.CourseAssignment) error {
	query := `
		INSERT INTO course_assignments (id, course_id, course_name, institution_name, instructor_name, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		a.ID,
		a.CourseID,
		a.CourseName,
		a.InstitutionName,
		a.InstructorName,
		dateOnly(a.StartDate),
		pgDate(a.EndDate),
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create course assignment: %w", err)
	}
	return nil
}

func (r *PostgresAssignmentRepo) GetByID(ctx context.Context, id string) (*domain.CourseAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM course_assignments WHERE id = $1`
	a, err := scanPgAssignment(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("course assignment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get course assignment: %w", err)
	}
	return a, nil
}

func (r *PostgresAssignmentRepo) List(ctx context.Context) ([]*domain.CourseAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM course_assignments ORDER BY start_date, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list course assignments: %w", err)
	}
	defer rows.Close()

	var out []*domain.CourseAssignment
	for rows.Next() {
		a, err := scanPgAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course assignment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course assignments: %w", err)
	}
	return out, nil
}

func scanPgAssignment(row pgx.Row) (*domain.CourseAssignment, error) {
	var a domain.CourseAssignment
	err := row.Scan(&a.ID, &a.CourseID, &a.CourseName, &a.InstitutionName, &a.InstructorName,
		&a.StartDate, &a.EndDate, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.StartDate = dateOnly(a.StartDate)
	if a.EndDate != nil {
		end := dateOnly(*a.EndDate)
		a.EndDate = &end
	}
	return &a, nil
}

// pgDate passes a nullable calendar date to a DATE column.
func pgDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return dateOnly(*t)
}
