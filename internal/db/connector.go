package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/municipales2026/importer/internal/retry"
	"github.com/municipales2026/importer/pkg/importer"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns is one: the whole run shares a single session.
	DefaultMaxConns = 1

	// DefaultMaxConnIdleTime keeps the session alive through long candidate loads.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, runID string, logger importer.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = 0
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime

	params := poolConfig.ConnConfig.RuntimeParams
	if _, set := params["application_name"]; !set {
		params["application_name"] = applicationName(runID)
	}

	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("[%s] %s", notice.Severity, notice.Message)
	}
}

// applicationName tags the session with the short form of the run ID.
func applicationName(runID string) string {
	if runID == "" {
		return importer.ApplicationName
	}
	if len(runID) > 8 {
		runID = runID[:8]
	}
	return importer.ApplicationName + "/" + runID
}

// StandardConnector opens a pool from a DATABASE_URL connection string,
// optionally retrying transient failures.
type StandardConnector struct {
	poolConfig    *pgxpool.Config
	retryExecutor *retry.Executor
	logger        importer.Logger
}

// NewStandardConnector parses the connection string of cfg and prepares a
// connector allowing cfg.ConnectRetries retries.
func NewStandardConnector(cfg *importer.ImportConfig, logger importer.Logger) (*StandardConnector, error) {
	if cfg.ConnectionString == "" {
		return nil, importer.ErrMissingDatabaseURL
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse %s: %w", importer.ErrInvalidConfig, importer.EnvDatabaseURL, err)
	}
	configurePool(poolConfig, cfg.RunID, logger)

	executor := retry.NewExecutor(
		retry.NewConnectionErrorClassifier(),
		retry.NewExponentialBackoff(cfg.ConnectRetries),
	).WithOnRetry(func(attempt int, err error, delay time.Duration) {
		logger.Warn("Connection attempt failed (%v), retry %d/%d in %s", err, attempt, cfg.ConnectRetries, delay.Round(time.Millisecond))
	})

	return &StandardConnector{
		poolConfig:    poolConfig,
		retryExecutor: executor,
		logger:        logger,
	}, nil
}

// Connect establishes the pool and checks it with a ping.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	host, port, database := c.poolConfig.ConnConfig.Host, c.poolConfig.ConnConfig.Port, c.poolConfig.ConnConfig.Database

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, c.poolConfig.Copy())
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, wrapConnectionError(err, host, int(port), database)
	}

	c.logger.Verbose("Connected to %s:%d/%s", host, port, database)
	return pool, nil
}

// NewConnectorFactory returns the factory the import service uses to build
// a connector per run.
func NewConnectorFactory(logger importer.Logger) func(*importer.ImportConfig) (importer.Connector, error) {
	return func(cfg *importer.ImportConfig) (importer.Connector, error) {
		return NewStandardConnector(cfg, logger)
	}
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
// The result always matches importer.ErrConnectionFailed.
func wrapConnectionError(err error, host string, port int, database string) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: interrupted: %w", importer.ErrConnectionFailed, err)
	}

	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`%w: connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port in DATABASE_URL
  - Firewall blocking the connection

Original error: %w`, importer.ErrConnectionFailed, addr, host, port, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`%w: cannot resolve host "%s"

Possible causes:
  - Hostname in DATABASE_URL is misspelled
  - DNS is not configured or reachable

Original error: %w`, importer.ErrConnectionFailed, host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`%w: password authentication failed for database "%s"

Check the user and password in DATABASE_URL (.env.local).

Original error: %w`, importer.ErrConnectionFailed, database, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`%w: database "%s" does not exist

To create it:
  createdb %s

Original error: %w`, importer.ErrConnectionFailed, database, database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out") || errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf(`%w: connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - Wrong host or port (server not listening)

Original error: %w`, importer.ErrConnectionFailed, addr, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`%w: SSL/TLS connection error

Possible causes:
  - Server requires SSL: add ?sslmode=require to DATABASE_URL
  - Certificate verification failed

Original error: %w`, importer.ErrConnectionFailed, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf(`%w: too many connections to database "%s"

The server's max_connections limit is reached. Retry later or raise --connect-retries.

Original error: %w`, importer.ErrConnectionFailed, database, err)

	default:
		return fmt.Errorf("%w: %w", importer.ErrConnectionFailed, err)
	}
}
