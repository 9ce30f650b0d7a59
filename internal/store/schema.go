package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/municipales2026/importer/pkg/importer"
)

// SchemaManager drops and recreates the three tables in a single transaction.
type SchemaManager struct {
	logger importer.Logger
}

// NewSchemaManager creates a SchemaManager.
//
// Panics if logger is nil.
func NewSchemaManager(logger importer.Logger) *SchemaManager {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &SchemaManager{logger: logger}
}

// Reset drops the existing tables, ensures the unaccent and pg_trgm extensions
// and the unaccent_immutable function exist, and creates empty tables.
// Nothing is changed unless every statement succeeds.
func (m *SchemaManager) Reset(ctx context.Context, conn importer.DBConnection) error {
	err := inTx(ctx, conn, func(tx pgx.Tx) error {
		m.logger.Verbose("Dropping existing tables...")
		if err := execAll(ctx, tx, dropStatements); err != nil {
			return err
		}

		m.logger.Verbose("Enabling extensions unaccent, pg_trgm...")
		if err := execAll(ctx, tx, extensionStatements); err != nil {
			return err
		}

		m.logger.Verbose("Creating tables...")
		return execAll(ctx, tx, createTableStatements)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", importer.ErrSchema, err)
	}
	return nil
}

func execAll(ctx context.Context, tx pgx.Tx, statements []string) error {
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", firstLine(stmt), err)
		}
	}
	return nil
}

// firstLine keeps error messages short when a multi-line statement fails.
func firstLine(stmt string) string {
	for i, r := range stmt {
		if r == '\n' {
			return stmt[:i]
		}
	}
	return stmt
}
