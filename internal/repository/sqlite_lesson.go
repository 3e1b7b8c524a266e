package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/lessonplan/internal/db"
	"github.com/alexanderramin/lessonplan/internal/domain"
)

// SQLiteLessonRepo implements LessonRepo using a SQLite database.
type SQLiteLessonRepo struct {
	db db.DBTX
}

func NewSQLiteLessonRepo(db db.DBTX) *SQLiteLessonRepo {
	return &SQLiteLessonRepo{db: db}
}

func (r *SQLiteLessonRepo) Create(ctx context.Context, l *domain.CurriculumLesson) error {
	query := `INSERT INTO curriculum_lessons (id, course_id, order_index, title, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, l.ID, l.CourseID, l.OrderIndex, l.Title, nowUTC())
	if err != nil {
		return fmt.Errorf("inserting curriculum lesson: %w", err)
	}
	return nil
}

func (r *SQLiteLessonRepo) ListByCourse(ctx context.Context, courseID string) ([]domain.CurriculumLesson, error) {
	query := `SELECT id, course_id, order_index, title FROM curriculum_lessons
		WHERE course_id = ? ORDER BY order_index, created_at, id`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing lessons by course: %w", err)
	}
	defer rows.Close()

	var out []domain.CurriculumLesson
	for rows.Next() {
		var l domain.CurriculumLesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.OrderIndex, &l.Title); err != nil {
			return nil, fmt.Errorf("scanning lesson row: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lessons: %w", err)
	}
	return out, nil
}
