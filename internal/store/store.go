package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/roach88/schemaql/internal/dialect"
)

// SQLiteDriver is the database/sql driver name registered by go-sqlite3.
const SQLiteDriver = "sqlite3"

// Defaults for Open.
const (
	DefaultProbeCacheSize = 256
	DefaultPageSize       = 64
)

// Store executes statements against one database.
type Store struct {
	db        *sql.DB
	dialect   dialect.Strategy
	logger    *zap.Logger
	inspector *Inspector
	pageSize  int
}

type options struct {
	logger         *zap.Logger
	probeCacheSize int
	pageSize       int
	maxOpenConns   int
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger. Statements are logged at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithProbeCacheSize bounds the Inspector's result cache.
func WithProbeCacheSize(n int) Option {
	return func(o *options) { o.probeCacheSize = n }
}

// WithPageSize sets how many rows an inverse list cursor fetches at a time.
func WithPageSize(n int) Option {
	return func(o *options) { o.pageSize = n }
}

// WithMaxOpenConns limits the pool. Ignored for SQLite.
func WithMaxOpenConns(n int) Option {
	return func(o *options) { o.maxOpenConns = n }
}

// Open connects to the database and verifies the connection. The driver
// must be registered with database/sql; go-sqlite3 is always available.
func Open(driver, dsn string, d dialect.Strategy, opts ...Option) (*Store, error) {
	if d == nil {
		return nil, errors.New("store: no dialect")
	}
	o := options{
		logger:         zap.NewNop(),
		probeCacheSize: DefaultProbeCacheSize,
		pageSize:       DefaultPageSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.pageSize < 1 {
		return nil, fmt.Errorf("store: page size must be positive, got %d", o.pageSize)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &Error{Category: d.Classify(err), Op: "connect", Err: err}
	}

	if driver == SQLiteDriver {
		// SQLite only supports one writer at a time.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
	} else if o.maxOpenConns > 0 {
		db.SetMaxOpenConns(o.maxOpenConns)
	}

	insp, err := newInspector(db, d, o.probeCacheSize, o.logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	o.logger.Debug("database opened",
		zap.String("driver", driver),
		zap.String("vendor", string(d.Vendor())))
	return &Store{db: db, dialect: d, logger: o.logger, inspector: insp, pageSize: o.pageSize}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Dialect() dialect.Strategy { return s.dialect }

// Inspector answers existence questions about the schema.
func (s *Store) Inspector() *Inspector { return s.inspector }

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
