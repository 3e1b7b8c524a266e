package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/lessonplan/internal/db"
	"github.com/alexanderramin/lessonplan/internal/domain"
)

// PostgresLessonRepo implements LessonRepo on PostgreSQL.
type PostgresLessonRepo struct {
	db db.PgxDBTX
}

func NewPostgresLessonRepo(db db.PgxDBTX) *PostgresLessonRepo {
	return &PostgresLessonRepo{db: db}
}

func (r *PostgresLessonRepo) Create(ctx context.Context, l *domain.CurriculumLesson) error {
	query := `
		INSERT INTO curriculum_lessons (id, course_id, order_index, title)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.Exec(ctx, query, l.ID, l.CourseID, l.OrderIndex, l.Title); err != nil {
		return fmt.Errorf("create curriculum lesson: %w", err)
	}
	return nil
}

func (r *PostgresLessonRepo) ListByCourse(ctx context.Context, courseID string) ([]domain.CurriculumLesson, error) {
	query := `
		SELECT id, course_id, order_index, title
		FROM curriculum_lessons
		WHERE course_id = $1
		ORDER BY order_index, created_at, id
	`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("list lessons by course: %w", err)
	}
	defer rows.Close()

	var out []domain.CurriculumLesson
	for rows.Next() {
		var l domain.CurriculumLesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.OrderIndex, &l.Title); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}
	return out, nil
}
