package database

import (
	"context"
	"database/sql"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/jugadores-api/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	driverName      = "postgres"
	diagnosticQuery = "SELECT NOW()"
)

// Options configures the pool. Sizing is left to database/sql defaults.
type Options struct {
	DSN          string
	SSLMode      string
	QueryTimeout time.Duration
}

// Pool owns the process-wide set of database connections. Connections are
// dialed lazily on first use and handed out through WithConn.
type Pool struct {
	db           *sqlx.DB
	logger       *logging.Logger
	queryTimeout time.Duration
	dbName       string
	host         string
}

// Open prepares the pool without dialing. The first WithConn call (or
// Diagnose) opens the first connection.
func Open(opts Options, logger *logging.Logger) (*Pool, error) {
	dsn := normalizeDSN(opts.DSN, opts.SSLMode)
	if dsn == "" {
		return nil, crerr.New("database dsn is required")
	}

	dbName := dbNameFromDSN(dsn)
	db, err := otelsqlx.Open(driverName, dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbName),
		otelsql.WithQueryFormatter(formatQueryForTrace),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "open postgres pool")
	}

	pool := New(db, opts.QueryTimeout, logger)
	pool.dbName = dbName
	pool.host = hostFromDSN(dsn)
	return pool, nil
}

// New wraps an already opened handle.
func New(db *sqlx.DB, queryTimeout time.Duration, logger *logging.Logger) *Pool {
	if logger == nil {
		logger = logging.Default()
	}
	return &Pool{
		db:           db,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

// WithConn borrows one connection for the duration of fn and returns it to
// the pool on every path, including panics inside fn. The caller blocks while
// the pool is exhausted; other goroutines are unaffected.
func (p *Pool) WithConn(ctx context.Context, fn func(ctx context.Context, conn *sqlx.Conn) error) error {
	if p.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.queryTimeout)
		defer cancel()
	}

	conn, err := p.db.Connx(ctx)
	if err != nil {
		return crerr.Wrap(err, "acquire database connection")
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil && !crerr.Is(closeErr, sql.ErrConnDone) {
			p.logger.WarnContext(ctx, "release database connection failed", "error", closeErr)
		}
	}()

	return fn(ctx, conn)
}

// Diagnose runs one round-trip and logs the outcome. It never aborts startup;
// the returned error is informational.
func (p *Pool) Diagnose(ctx context.Context) error {
	var serverTime time.Time
	err := p.WithConn(ctx, func(ctx context.Context, conn *sqlx.Conn) error {
		return conn.GetContext(ctx, &serverTime, diagnosticQuery)
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "database connection failed",
			"db_name", p.dbName,
			"db_host", p.host,
			"error", err,
		)
		return err
	}

	p.logger.InfoContext(ctx, "database connection ok",
		"db_name", p.dbName,
		"db_host", p.host,
		"server_time", serverTime.UTC().Format(time.RFC3339),
	)
	return nil
}

func (p *Pool) Stats() sql.DBStats {
	return p.db.Stats()
}

func (p *Pool) Close() error {
	if err := p.db.Close(); err != nil {
		return crerr.Wrap(err, "close postgres pool")
	}
	return nil
}
