package importer_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/municipales2026/importer/pkg/importer"
)

func TestExitCodeForError_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown flag", errors.New("unknown flag: --foo"), importer.ExitUsageError},
		{"unknown shorthand flag", errors.New("unknown shorthand flag: 'x' in -x"), importer.ExitUsageError},
		{"unknown command", errors.New(`unknown command "serach" for "municipales-import"`), importer.ExitUsageError},
		{"accepts args", errors.New("accepts 0 arg(s), received 1"), importer.ExitUsageError},
		{"invalid argument", errors.New(`invalid argument "abc" for "--batch-size" flag`), importer.ExitUsageError},
		{"general error", errors.New("something went wrong"), importer.ExitGeneralError},
		{"nil error", nil, importer.ExitSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := importer.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeForError_Sentinels(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{importer.ErrInvalidConfig, importer.ExitConfigError},
		{importer.ErrMissingDatabaseURL, importer.ExitConfigError},
		{importer.ErrConnectionFailed, importer.ExitConnectionError},
		{importer.ErrSourceNotFound, importer.ExitInputError},
		{importer.ErrInputInvalid, importer.ExitInputError},
		{importer.ErrSchema, importer.ExitSchemaError},
		{importer.ErrLoad, importer.ExitLoadError},
		{importer.ErrIndex, importer.ExitIndexError},
		{importer.ErrInvalidQuery, importer.ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("import failed: %w", fmt.Errorf("stage: %w: %w", tt.err, errors.New("cause")))
			if got := importer.ExitCodeForError(wrapped); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", wrapped, got, tt.want)
			}
		})
	}
}

func TestExitCodeForError_ConnectionPatterns(t *testing.T) {
	for _, msg := range []string{
		"failed to connect to `host=db user=app`",
		"dial tcp 127.0.0.1:5432: connect: connection refused",
		"lookup db.internal: no such host",
	} {
		if got := importer.ExitCodeForError(errors.New(msg)); got != importer.ExitConnectionError {
			t.Errorf("ExitCodeForError(%q) = %d, want %d", msg, got, importer.ExitConnectionError)
		}
	}
}
