package importer

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// ImportConfig contains all parameters needed for an import run.
type ImportConfig struct {
	// ConnectionString is the PostgreSQL connection string (DATABASE_URL).
	ConnectionString string

	// DataDir is the directory searched for the source file.
	DataDir string

	// SourcePattern is the glob matched against file names in DataDir.
	SourcePattern string

	// CandidateBatchSize is the number of candidate rows per committed batch.
	CandidateBatchSize int

	// ConnectRetries is the number of connection retries on transient failures (0 = none).
	ConnectRetries int

	// Timeout bounds the whole run. Zero means no timeout.
	Timeout time.Duration

	// RunID identifies the run in logs and in application_name.
	RunID string

	// Verbose enables detailed logging.
	Verbose bool
}

// Validate checks if the ImportConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *ImportConfig) Validate() error {
	var errs []error

	if c.ConnectionString == "" {
		errs = append(errs, ErrMissingDatabaseURL)
	}

	if c.DataDir == "" {
		errs = append(errs, fmt.Errorf("DataDir is required: %w", ErrInvalidConfig))
	}

	if c.SourcePattern == "" {
		errs = append(errs, fmt.Errorf("SourcePattern is required: %w", ErrInvalidConfig))
	}

	if c.CandidateBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("CandidateBatchSize must be positive, got %d: %w", c.CandidateBatchSize, ErrInvalidConfig))
	}

	if c.ConnectRetries < 0 {
		errs = append(errs, fmt.Errorf("ConnectRetries cannot be negative: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// District is one row of circonscriptions, keyed by Code.
type District struct {
	Code           string
	Name           pgtype.Text
	DepartmentCode pgtype.Text
	DepartmentName pgtype.Text
}

// List is one row of listes, keyed by (DistrictCode, Panel).
type List struct {
	DistrictCode string
	Panel        int
	ShortLabel   pgtype.Text
	Label        pgtype.Text
	NuanceCode   pgtype.Text
	Nuance       pgtype.Text
}

// Candidate is one row of candidats, keyed by (DistrictCode, Panel, Rank).
type Candidate struct {
	DistrictCode    string
	Panel           int
	Rank            int
	Sex             pgtype.Text
	Surname         pgtype.Text
	GivenName       pgtype.Text
	Nationality     pgtype.Text
	PersonalityCode pgtype.Text
	CC              pgtype.Text
	HeadOfList      bool
}

// Summary reports the outcome of a successful import run.
type Summary struct {
	RunID      string
	SourceFile string
	Checksum   string
	Encoding   string
	SourceRows int
	Districts  int64
	Lists      int64
	Candidates int64
	Repaired   int64
	Elapsed    time.Duration
}
