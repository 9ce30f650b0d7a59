package importer

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Import completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Missing DATABASE_URL or invalid configuration
	ExitConnectionError = 11 // Failed to connect to database
	ExitInputError      = 12 // Source CSV missing, empty or malformed
	ExitSchemaError     = 13 // DDL failed (privileges, extension unavailable)
	ExitLoadError       = 14 // Constraint violation during bulk insert
	ExitIndexError      = 15 // Search index creation failed
)

const (
	// DefaultDataDir is the directory searched for the source CSV, relative to the project root.
	DefaultDataDir = "data"

	// DefaultSourcePattern selects the source file inside the data directory.
	DefaultSourcePattern = "municipales-2026*.csv"

	// DefaultCandidateBatchSize is the number of candidate rows committed per transaction.
	DefaultCandidateBatchSize = 10000

	// HeadOfListMarker is the literal value of the "Tête de liste" column flagging a list leader.
	// Comparison is exact and case-sensitive.
	HeadOfListMarker = "OUI"

	// SourceDelimiter separates fields in the source file.
	SourceDelimiter = ';'

	// EncodingProbeSize is the number of leading bytes inspected by encoding detection.
	EncodingProbeSize = 1024

	// DefaultRetryInitialDelay is the initial delay before the first connection retry.
	DefaultRetryInitialDelay = 500 * time.Millisecond

	// DefaultRetryMaxDelay caps the delay between connection retries.
	DefaultRetryMaxDelay = 10 * time.Second

	// ApplicationName is reported to PostgreSQL as application_name.
	ApplicationName = "municipales-import"

	// EnvDatabaseURL names the environment variable holding the connection string.
	EnvDatabaseURL = "DATABASE_URL"
)

// Table names, in dependency order (parents first).
const (
	TableDistricts  = "circonscriptions"
	TableLists      = "listes"
	TableCandidates = "candidats"
)
