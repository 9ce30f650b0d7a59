// Package logging provides concrete implementations of the importer.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes progress and diagnostics to stderr, colored on terminals
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
