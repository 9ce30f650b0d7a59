package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/municipales2026/importer/pkg/importer"
)

// inTx runs fn in a transaction on conn and commits when fn succeeds.
// The transaction is rolled back on any error, including a failed commit.
func inTx(ctx context.Context, conn importer.DBConnection, fn func(tx pgx.Tx) error) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
