// Package sqlite binds the graph and vector contracts to an embedded,
// file-backed SQLite database. It is the only package that knows the engine's
// schema and error shapes; everything it returns is expressed in pkg/graph
// types and pkg/graph errors.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dot-matrix-labs/facet/pkg/graph"

	_ "modernc.org/sqlite" // SQLite driver
)

// Config holds the backend configuration.
type Config struct {
	// Path is the database file path.
	Path string
	// Logger receives structured store events. Defaults to a stderr
	// logger at warn level.
	Logger Logger
}

// DefaultConfig returns the default configuration for the given path.
func DefaultConfig(path string) Config {
	return Config{
		Path:   path,
		Logger: NewStdLogger(LevelWarn),
	}
}

// Store implements graph.Store and graph.VectorStore over a single SQLite
// database. The handle is safe for concurrent use: all holders share one
// connection pool, and every operation is an independent statement with
// last-write-wins semantics on racing overwrites.
type Store struct {
	db     *sql.DB
	config Config
	logger Logger

	mu     sync.RWMutex
	closed bool

	// roundTrips counts statements issued to the engine. Test hook for
	// the constant-round-trip traversal contract.
	roundTrips atomic.Int64
}

var (
	_ graph.Store       = (*Store)(nil)
	_ graph.VectorStore = (*Store)(nil)
)

// New creates a store for the database at path. Call Init before use.
func New(path string) (*Store, error) {
	return NewWithConfig(DefaultConfig(path))
}

// NewWithConfig creates a store with custom configuration. Call Init
// before use.
func NewWithConfig(config Config) (*Store, error) {
	if config.Path == "" {
		return nil, wrapError("init", fmt.Errorf("database path cannot be empty"))
	}
	if config.Logger == nil {
		config.Logger = NewStdLogger(LevelWarn)
	}

	return &Store{
		config: config,
		logger: config.Logger,
	}, nil
}

// Init opens the database file and creates the schema if needed.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return wrapError("init", graph.ErrStoreClosed)
	}

	// WAL so readers don't block the writer; busy_timeout waits up to 5s
	// for a lock instead of failing immediately. The _pragma form applies
	// to every pooled connection, not just the first.
	dsn := s.config.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return wrapError("init", fmt.Errorf("failed to open database: %w", err))
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(2 * time.Hour)

	s.db = db

	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		s.db = nil
		return wrapError("init", err)
	}

	s.logger.Info("database initialized", "path", s.config.Path)
	return nil
}

// createTables creates the node and edge tables. Edges deliberately carry no
// foreign keys: a relation may outlive its target, and traversal drops such
// dangling references instead of failing.
func (s *Store) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL DEFAULT '',
		properties TEXT, -- JSON
		partition_id TEXT,
		embedding BLOB
	);

	CREATE TABLE IF NOT EXISTS edges (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL,
		target_id TEXT NOT NULL,
		relation TEXT NOT NULL,
		weight REAL,
		partition_id TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id);
	CREATE INDEX IF NOT EXISTS idx_edges_source_relation ON edges(source_id, relation);
	CREATE INDEX IF NOT EXISTS idx_nodes_partition ON nodes(partition_id);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close closes the database. Further operations fail with ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return wrapError("close", err)
		}
	}
	return nil
}

// checkOpen returns ErrStoreClosed if the store is closed or uninitialized.
// Callers must hold at least a read lock.
func (s *Store) checkOpen(op string) error {
	if s.closed || s.db == nil {
		return wrapError(op, graph.ErrStoreClosed)
	}
	return nil
}

// track records one statement issued to the engine.
func (s *Store) track() {
	s.roundTrips.Add(1)
}

// wrapError wraps an error with operation context
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &graph.StoreError{Op: op, Err: err}
}
