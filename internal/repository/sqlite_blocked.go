package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/lessonplan/internal/db"
	"github.com/alexanderramin/lessonplan/internal/domain"
)

// SQLiteBlockedDateRepo implements BlockedDateRepo using a SQLite database.
type SQLiteBlockedDateRepo struct {
	db db.DBTX
}

func NewSQLiteBlockedDateRepo(db db.DBTX) *SQLiteBlockedDateRepo {
	return &SQLiteBlockedDateRepo{db: db}
}

func (r *SQLiteBlockedDateRepo) Create(ctx context.Context, b *domain.BlockedDate) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO blocked_dates (id, start_date, end_date, reason, created_at) VALUES (?, ?, ?, ?, ?)`,
		b.ID, formatDate(b.Date), nullableDateToString(b.EndDate), b.Reason, nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting blocked date: %w", err)
	}
	return nil
}

func (r *SQLiteBlockedDateRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blocked_dates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting blocked date: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("blocked date %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteBlockedDateRepo) List(ctx context.Context) ([]domain.BlockedDate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, start_date, end_date, reason FROM blocked_dates ORDER BY start_date, id`)
	if err != nil {
		return nil, fmt.Errorf("listing blocked dates: %w", err)
	}
	defer rows.Close()

	var out []domain.BlockedDate
	for rows.Next() {
		var b domain.BlockedDate
		var startStr string
		var endStr sql.NullString
		if err := rows.Scan(&b.ID, &startStr, &endStr, &b.Reason); err != nil {
			return nil, fmt.Errorf("scanning blocked date row: %w", err)
		}
		if b.Date, err = parseDate(startStr); err != nil {
			return nil, err
		}
		b.EndDate = parseNullableDate(endStr)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blocked dates: %w", err)
	}
	return out, nil
}
