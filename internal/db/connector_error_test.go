package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/municipales2026/importer/pkg/importer"
)

func TestWrapConnectionError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		host         string
		wantContains string
	}{
		{
			name:         "connection refused",
			err:          errors.New("dial tcp 127.0.0.1:5432: connection refused"),
			host:         "127.0.0.1",
			wantContains: "connection refused to 127.0.0.1:5432",
		},
		{
			name:         "actively refused (Windows)",
			err:          errors.New("connectex: No connection could be made because the target machine actively refused it"),
			host:         "127.0.0.1",
			wantContains: "connection refused to 127.0.0.1:5432",
		},
		{
			name:         "no such host",
			err:          errors.New("dial tcp: lookup badhost.example.com: no such host"),
			host:         "badhost.example.com",
			wantContains: `cannot resolve host "badhost.example.com"`,
		},
		{
			name:         "password auth failed",
			err:          errors.New(`password authentication failed for user "postgres"`),
			host:         "localhost",
			wantContains: "DATABASE_URL (.env.local)",
		},
		{
			name:         "database does not exist",
			err:          errors.New(`database "elections" does not exist`),
			host:         "localhost",
			wantContains: "createdb elections",
		},
		{
			name:         "deadline exceeded",
			err:          fmt.Errorf("ping: %w", context.DeadlineExceeded),
			host:         "localhost",
			wantContains: "connection timed out to localhost:5432",
		},
		{
			name:         "ssl",
			err:          errors.New("server refused TLS connection"),
			host:         "localhost",
			wantContains: "sslmode=require",
		},
		{
			name:         "cancelled",
			err:          context.Canceled,
			host:         "localhost",
			wantContains: "interrupted",
		},
		{
			name:         "unknown",
			err:          errors.New("something odd"),
			host:         "localhost",
			wantContains: "something odd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapConnectionError(tt.err, tt.host, 5432, "elections")

			if !errors.Is(got, importer.ErrConnectionFailed) {
				t.Errorf("Expected ErrConnectionFailed, got %v", got)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("Expected original error to be preserved")
			}
			if !strings.Contains(got.Error(), tt.wantContains) {
				t.Errorf("Expected message to contain %q, got:\n%s", tt.wantContains, got.Error())
			}
		})
	}
}
