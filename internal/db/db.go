// Package db persists fingerprinted symbols and their window hashes to
// PostgreSQL and answers the equality and windowed-submatch queries.
package db

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"coddog/internal/errors"
)

// Bulk inserts are chunked so a project with millions of windows amortizes
// round trips without building absurd single statements.
const chunkSize = 100000

// maxPoolConns bounds the shared connection pool.
const maxPoolConns = 5

// DB wraps the connection pool plus the blob-store location and the fixed
// database window width.
type DB struct {
	pool       *sql.DB
	binPath    string
	windowSize int
}

// Open connects the pool and verifies the database is reachable.
func Open(ctx context.Context, databaseURL, binPath string, windowSize int) (*DB, error) {
	pool, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindDatabase, "opening database")
	}
	pool.SetMaxOpenConns(maxPoolConns)

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.KindDatabase, "database unreachable")
	}
	return &DB{pool: pool, binPath: binPath, windowSize: windowSize}, nil
}

// WindowSize returns the fixed window width used for stored window
// hashes.
func (d *DB) WindowSize() int {
	return d.windowSize
}

// Close releases the pool.
func (d *DB) Close() error {
	return d.pool.Close()
}
