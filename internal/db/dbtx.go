package db

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the common interface satisfied by both *sql.DB and *sql.Tx.
// SQLite repositories depend on it so they can run inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PgxDBTX is the pgx counterpart, satisfied by *pgxpool.Pool and pgx.Tx.
type PgxDBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ DBTX    = (*sql.DB)(nil)
	_ DBTX    = (*sql.Tx)(nil)
	_ PgxDBTX = (*pgxpool.Pool)(nil)
	_ PgxDBTX = (pgx.Tx)(nil)
)
