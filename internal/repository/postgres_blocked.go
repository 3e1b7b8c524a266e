package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/lessonplan/internal/db"
	"github.com/alexanderramin/lessonplan/internal/domain"
)

// PostgresBlockedDateRepo implements BlockedDateRepo on PostgreSQL.
type PostgresBlockedDateRepo struct {
	db db.PgxDBTX
}

func NewPostgresBlockedDateRepo(db db.PgxDBTX) *PostgresBlockedDateRepo {
	return &PostgresBlockedDateRepo{db: db}
}

func (r *PostgresBlockedDateRepo) Create(ctx context.Context, b *domain.BlockedDate) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO blocked_dates (id, start_date, end_date, reason)
		VALUES ($1, $2, $3, $4)
	`, b.ID, dateOnly(b.Date), pgDate(b.EndDate), b.Reason)
	if err != nil {
		return fmt.Errorf("create blocked date: %w", err)
	}
	return nil
}

func (r *PostgresBlockedDateRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blocked_dates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blocked date: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("blocked date %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *PostgresBlockedDateRepo) List(ctx context.Context) ([]domain.BlockedDate, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, start_date, end_date, reason FROM blocked_dates ORDER BY start_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list blocked dates: %w", err)
	}
	defer rows.Close()

	var out []domain.BlockedDate
	for rows.Next() {
		var b domain.BlockedDate
		if err := rows.Scan(&b.ID, &b.Date, &b.EndDate, &b.Reason); err != nil {
			return nil, fmt.Errorf("scan blocked date: %w", err)
		}
		b.Date = dateOnly(b.Date)
		if b.EndDate != nil {
			end := dateOnly(*b.EndDate)
			b.EndDate = &end
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocked dates: %w", err)
	}
	return out, nil
}
