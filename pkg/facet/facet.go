// Package facet provides the top-level handle for the facet graph core: an
// embedded property-graph store with an attached vector-similarity index.
package facet

import (
	"context"
	"fmt"

	"github.com/dot-matrix-labs/facet/pkg/graph"
	"github.com/dot-matrix-labs/facet/pkg/sqlite"
)

// Config represents database configuration
type Config struct {
	// Path is the database file path.
	Path string
	// Logger receives structured store events; nil uses the default.
	Logger sqlite.Logger
}

// DefaultConfig returns default configuration for the given path.
func DefaultConfig(path string) Config {
	return Config{Path: path}
}

// DB is a handle to an open facet database. It is safe to share between
// goroutines; all holders use one underlying connection pool.
type DB struct {
	store *sqlite.Store
}

// Open opens or creates a facet database at the configured path.
func Open(ctx context.Context, config Config) (*DB, error) {
	storeConfig := sqlite.DefaultConfig(config.Path)
	if config.Logger != nil {
		storeConfig.Logger = config.Logger
	}

	store, err := sqlite.NewWithConfig(storeConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return &DB{store: store}, nil
}

// Graph returns the graph capability.
func (db *DB) Graph() graph.Store {
	return db.store
}

// Vector returns the vector capability.
func (db *DB) Vector() graph.VectorStore {
	return db.store
}

// Store returns the concrete backend for operations outside the two
// contracts (batch loads, stats).
func (db *DB) Store() *sqlite.Store {
	return db.store
}

// Close closes the database.
func (db *DB) Close() error {
	return db.store.Close()
}
