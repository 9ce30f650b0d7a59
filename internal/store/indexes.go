package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/municipales2026/importer/pkg/importer"
)

// IndexBuilder creates the search indexes after the data load.
type IndexBuilder struct {
	logger importer.Logger
}

// NewIndexBuilder creates an IndexBuilder.
//
// Panics if logger is nil.
func NewIndexBuilder(logger importer.Logger) *IndexBuilder {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &IndexBuilder{logger: logger}
}

// Build creates the four indexes in one transaction.
func (b *IndexBuilder) Build(ctx context.Context, conn importer.DBConnection) error {
	err := inTx(ctx, conn, func(tx pgx.Tx) error {
		for _, idx := range indexStatements {
			b.logger.Verbose("Creating index %s...", idx.name)
			if _, err := tx.Exec(ctx, idx.sql); err != nil {
				return fmt.Errorf("%s: %w", idx.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", importer.ErrIndex, err)
	}
	return nil
}
