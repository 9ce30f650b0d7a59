package importer

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBConnection is the single connection every pipeline stage runs its statements on.
// *pgxpool.Conn and *pgx.Conn both satisfy it.
//
// Thread-Safety: NOT safe for concurrent use. Statements run serially.
type DBConnection interface {
	// Exec executes a statement without returning any rows.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)

	// QueryRow executes a query that is expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row

	// Begin starts a transaction.
	Begin(ctx context.Context) (pgx.Tx, error)
}
