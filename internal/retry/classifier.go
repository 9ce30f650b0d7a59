package retry

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes that indicate the server could not accept the session yet.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgClassConnectionException   = "08"
	pgClassInsufficientResources = "53"
	pgCodeAdminShutdown          = "57P01"
	pgCodeCrashShutdown          = "57P02"
	pgCodeCannotConnectNow       = "57P03"
)

// ConnectionErrorClassifier recognises failures worth another connection attempt:
// server starting up or shutting down, too many connections, refused or reset
// sockets. Authentication and unknown-database errors are never transient.
type ConnectionErrorClassifier struct{}

// NewConnectionErrorClassifier creates a ConnectionErrorClassifier.
func NewConnectionErrorClassifier() *ConnectionErrorClassifier {
	return &ConnectionErrorClassifier{}
}

// IsTransient reports whether err may go away on its own.
func (c *ConnectionErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientCode(pgErr.Code)
	}

	if isTransientNetworkError(err) {
		return true
	}

	return hasTransientMessage(err)
}

func isTransientCode(code string) bool {
	switch {
	case strings.HasPrefix(code, pgClassConnectionException),
		strings.HasPrefix(code, pgClassInsufficientResources):
		return true
	}
	switch code {
	case pgCodeAdminShutdown, pgCodeCrashShutdown, pgCodeCannotConnectNow:
		return true
	}
	return false
}

func isTransientNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return true
		}
		return errors.Is(opErr.Err, syscall.ECONNREFUSED) ||
			errors.Is(opErr.Err, syscall.ECONNRESET) ||
			errors.Is(opErr.Err, syscall.ENETUNREACH) ||
			errors.Is(opErr.Err, syscall.EHOSTUNREACH)
	}

	return false
}

// pgconn often flattens the network cause into its message.
var transientMessages = []string{
	"connection refused",
	"connection reset",
	"network is unreachable",
	"i/o timeout",
	"broken pipe",
	"too many connections",
	"the database system is starting up",
	"the database system is shutting down",
	"server closed the connection",
	"unexpected eof",
}

func hasTransientMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range transientMessages {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
