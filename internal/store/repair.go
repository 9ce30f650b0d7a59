package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/municipales2026/importer/pkg/importer"
)

// Repairer fixes lists that have no head of list once all candidates are loaded.
type Repairer struct {
	logger importer.Logger
}

// NewRepairer creates a Repairer.
//
// Panics if logger is nil.
func NewRepairer(logger importer.Logger) *Repairer {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Repairer{logger: logger}
}

// RepairHeadOfList marks rank 1 as head of list in every (district, panel)
// group where no candidate carries the flag. It returns the number of rows
// changed, which is zero when nothing needed fixing.
func (r *Repairer) RepairHeadOfList(ctx context.Context, conn importer.DBConnection) (int64, error) {
	var affected int64
	err := inTx(ctx, conn, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, queryRepairHeadOfList)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: head-of-list repair: %w", importer.ErrLoad, err)
	}

	r.logger.Verbose("Head-of-list repair updated %d rows", affected)
	return affected, nil
}
