package importer

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure classes of an import run.
// Stages wrap them so callers can classify with errors.Is().
//
// Example usage:
//
//	summary, err := svc.Run(ctx, cfg)
//	if errors.Is(err, importer.ErrSourceNotFound) {
//	    // no CSV in the data directory
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingDatabaseURL indicates DATABASE_URL could not be resolved.
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is not set")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrSourceNotFound indicates no file matched the source pattern.
	ErrSourceNotFound = errors.New("source file not found")

	// ErrInputInvalid indicates the source file is unreadable, empty or malformed.
	ErrInputInvalid = errors.New("invalid source file")

	// ErrSchema indicates the schema could not be dropped or recreated.
	ErrSchema = errors.New("schema reset failed")

	// ErrLoad indicates a bulk insert failed.
	ErrLoad = errors.New("load failed")

	// ErrIndex indicates search index creation failed.
	ErrIndex = errors.New("index creation failed")

	// ErrInvalidQuery indicates a read-side lookup received invalid arguments.
	ErrInvalidQuery = errors.New("invalid query")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrMissingDatabaseURL):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrSourceNotFound), errors.Is(err, ErrInputInvalid):
		return ExitInputError
	case errors.Is(err, ErrSchema):
		return ExitSchemaError
	case errors.Is(err, ErrLoad):
		return ExitLoadError
	case errors.Is(err, ErrIndex):
		return ExitIndexError
	case errors.Is(err, ErrInvalidQuery):
		return ExitUsageError
	}

	errStr := err.Error()
	if strings.HasPrefix(errStr, "unknown flag") ||
		strings.HasPrefix(errStr, "unknown shorthand flag") ||
		strings.HasPrefix(errStr, "unknown command") ||
		strings.HasPrefix(errStr, "accepts ") ||
		strings.HasPrefix(errStr, "required flag") ||
		strings.HasPrefix(errStr, "invalid argument") {
		return ExitUsageError
	}
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
