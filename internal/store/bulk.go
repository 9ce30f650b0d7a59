package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/municipales2026/importer/pkg/importer"
)

// BulkLoader inserts extracted rows with COPY.
type BulkLoader struct {
	logger importer.Logger
}

// NewBulkLoader creates a BulkLoader.
//
// Panics if logger is nil.
func NewBulkLoader(logger importer.Logger) *BulkLoader {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &BulkLoader{logger: logger}
}

// LoadDistricts copies all districts in one transaction.
func (l *BulkLoader) LoadDistricts(ctx context.Context, conn importer.DBConnection, rows []importer.District) (int64, error) {
	values := make([][]any, len(rows))
	for i, d := range rows {
		values[i] = []any{d.Code, d.Name, d.DepartmentCode, d.DepartmentName}
	}

	n, err := l.copyInTx(ctx, conn, importer.TableDistricts, districtColumns, values)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", importer.ErrLoad, importer.TableDistricts, err)
	}
	l.logger.Verbose("Inserted %d rows into %s", n, importer.TableDistricts)
	return n, nil
}

// LoadLists copies all lists in one transaction.
func (l *BulkLoader) LoadLists(ctx context.Context, conn importer.DBConnection, rows []importer.List) (int64, error) {
	values := make([][]any, len(rows))
	for i, r := range rows {
		values[i] = []any{r.DistrictCode, r.Panel, r.ShortLabel, r.Label, r.NuanceCode, r.Nuance}
	}

	n, err := l.copyInTx(ctx, conn, importer.TableLists, listColumns, values)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", importer.ErrLoad, importer.TableLists, err)
	}
	l.logger.Verbose("Inserted %d rows into %s", n, importer.TableLists)
	return n, nil
}

// LoadCandidates copies candidates in batches of batchSize rows, each batch in
// its own transaction. On failure the batches already committed stay in place
// and the returned count reflects them.
func (l *BulkLoader) LoadCandidates(ctx context.Context, conn importer.DBConnection, rows []importer.Candidate, batchSize int) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("%w: batch size must be positive, got %d", importer.ErrInvalidConfig, batchSize)
	}

	batches := (len(rows) + batchSize - 1) / batchSize
	var total int64

	for batch := 0; batch < batches; batch++ {
		start := batch * batchSize
		end := min(start+batchSize, len(rows))

		values := make([][]any, 0, end-start)
		for _, c := range rows[start:end] {
			values = append(values, []any{
				c.DistrictCode, c.Panel, c.Rank, c.Sex, c.Surname, c.GivenName,
				c.Nationality, c.PersonalityCode, c.CC, c.HeadOfList,
			})
		}

		n, err := l.copyInTx(ctx, conn, importer.TableCandidates, candidateColumns, values)
		if err != nil {
			return total, fmt.Errorf("%w: %s batch %d/%d (rows %d-%d): %w",
				importer.ErrLoad, importer.TableCandidates, batch+1, batches, start+1, end, err)
		}
		total += n
		l.logger.Verbose("Committed %s batch %d/%d (%d/%d rows)",
			importer.TableCandidates, batch+1, batches, total, len(rows))
	}

	return total, nil
}

func (l *BulkLoader) copyInTx(ctx context.Context, conn importer.DBConnection, table string, columns []string, values [][]any) (int64, error) {
	var n int64
	err := inTx(ctx, conn, func(tx pgx.Tx) error {
		var err error
		n, err = tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(values))
		return err
	})
	return n, err
}
