package repository

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/lessonplan/internal/db"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewSQLiteStore builds a Store over a *sql.DB or *sql.Tx.
func NewSQLiteStore(conn db.DBTX) Store {
	return Store{
		Assignments:  NewSQLiteAssignmentRepo(conn),
		Patterns:     NewSQLitePatternRepo(conn),
		Lessons:      NewSQLiteLessonRepo(conn),
		Occurrences:  NewSQLiteOccurrenceRepo(conn),
		BlockedDates: NewSQLiteBlockedDateRepo(conn),
	}
}

// NewPostgresStore builds a Store over a pool or pgx transaction.
func NewPostgresStore(conn db.PgxDBTX) Store {
	return Store{
		Assignments:  NewPostgresAssignmentRepo(conn),
		Patterns:     NewPostgresPatternRepo(conn),
		Lessons:      NewPostgresLessonRepo(conn),
		Occurrences:  NewPostgresOccurrenceRepo(conn),
		BlockedDates: NewPostgresBlockedDateRepo(conn),
	}
}

// SQLiteTxRunner implements TxRunner over a db.UnitOfWork.
type SQLiteTxRunner struct {
	uow db.UnitOfWork
}

func NewSQLiteTxRunner(database *sql.DB) *SQLiteTxRunner {
	return &SQLiteTxRunner{uow: db.NewSQLiteUnitOfWork(database)}
}

// NewSQLiteTxRunnerWithUoW lets tests inject a failing unit of work.
func NewSQLiteTxRunnerWithUoW(uow db.UnitOfWork) *SQLiteTxRunner {
	return &SQLiteTxRunner{uow: uow}
}

func (r *SQLiteTxRunner) InTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, NewSQLiteStore(tx))
	})
}

// PostgresTxRunner implements TxRunner over a pgx pool.
type PostgresTxRunner struct {
	uow *db.PgxUnitOfWork
}

func NewPostgresTxRunner(pool *pgxpool.Pool) *PostgresTxRunner {
	return &PostgresTxRunner{uow: db.NewPgxUnitOfWork(pool)}
}

func (r *PostgresTxRunner) InTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.PgxDBTX) error {
		return fn(ctx, NewPostgresStore(tx))
	})
}
