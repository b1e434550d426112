package db

import (
	"context"

	"coddog/internal/errors"
)

// schemaDDL bootstraps the relational layout. Statements are idempotent so
// init can run against an existing corpus.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		repo TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS versions (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		platform TEXT NOT NULL,
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS objects (
		id BIGSERIAL PRIMARY KEY,
		hash TEXT NOT NULL UNIQUE,
		local_path TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sources (
		id BIGSERIAL PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		source_link TEXT,
		object_id BIGINT NOT NULL REFERENCES objects(id),
		version_id BIGINT REFERENCES versions(id) ON DELETE CASCADE,
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS symbols (
		id BIGSERIAL PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		source_id BIGINT NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		len BIGINT NOT NULL,
		symbol_idx BIGINT NOT NULL,
		is_decompiled BOOLEAN NOT NULL DEFAULT FALSE,
		opcode_hash BIGINT NOT NULL,
		equiv_hash BIGINT NOT NULL,
		exact_hash BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS windows (
		symbol_id BIGINT NOT NULL REFERENCES symbols(id) ON DELETE CASCADE,
		pos INT NOT NULL,
		hash BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_windows_hash ON windows (hash)`,
	`CREATE INDEX IF NOT EXISTS idx_windows_symbol_pos ON windows (symbol_id, pos)`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols (name)`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_opcode_hash ON symbols (opcode_hash)`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_equiv_hash ON symbols (equiv_hash)`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_exact_hash ON symbols (exact_hash)`,
}

// Init creates the tables and indexes.
func (d *DB) Init(ctx context.Context) error {
	for _, stmt := range schemaDDL {
		if _, err := d.pool.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, errors.KindDatabase, "applying schema")
		}
	}
	return nil
}
