package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/lessonplan/internal/db"
	"github.com/alexanderramin/lessonplan/internal/domain"
)

// SQLiteAssignmentRepo implements AssignmentRepo using a SQLite database.
type SQLiteAssignmentRepo struct {
	db db.DBTX
}

func NewSQLiteAssignmentRepo(db db.DBTX) *SQLiteAssignmentRepo {
	return &SQLiteAssignmentRepo{db: db}
}

const assignmentColumns = `id, course_id, course_name, institution_name, instructor_name, start_date, end_date, created_at, updated_at`

func (r *SQLiteAssignmentRepo) Create(ctx context.Context, a *domain.CourseAssignment) error {
	query := `INSERT INTO course_assignments (` + assignmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := nowUTC()
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.CourseID,
		a.CourseName,
		a.InstitutionName,
		a.InstructorName,
		formatDate(a.StartDate),
		nullableDateToString(a.EndDate),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("inserting course assignment: %w", err)
	}
	return nil
}

func (r *SQLiteAssignmentRepo) GetByID(ctx context.Context, id string) (*domain.CourseAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM course_assignments WHERE id = ?`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("course assignment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning course assignment: %w", err)
	}
	return a, nil
}

func (r *SQLiteAssignmentRepo) List(ctx context.Context) ([]*domain.CourseAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM course_assignments ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing course assignments: %w", err)
	}
	defer rows.Close()

	var out []*domain.CourseAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning course assignment row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating course assignments: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (*domain.CourseAssignment, error) {
	var a domain.CourseAssignment
	var startStr, createdStr, updatedStr string
	var endStr sql.NullString

	err := row.Scan(&a.ID, &a.CourseID, &a.CourseName, &a.InstitutionName, &a.InstructorName,
		&startStr, &endStr, &createdStr, &updatedStr)
	if err != nil {
		return nil, err
	}

	if a.StartDate, err = parseDate(startStr); err != nil {
		return nil, err
	}
	a.EndDate = parseNullableDate(endStr)
	if a.CreatedAt, err = parseInstant(createdStr); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseInstant(updatedStr); err != nil {
		return nil, err
	}
	return &a, nil
}
