package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"lukechampine.com/blake3"

	"coddog/internal/errors"
)

// createObject stores an object's bytes content-addressed: the row is
// keyed by the BLAKE3 hex digest and the blob lands at
// $BIN_PATH/<hash>.bin. Identical content is shared; both the insert and
// the blob write are idempotent.
func (d *DB) createObject(ctx context.Context, tx *sql.Tx, data []byte) (int64, string, error) {
	sum := blake3.Sum256(data)
	hash := fmt.Sprintf("%x", sum[:])
	path := filepath.Join(d.binPath, hash+".bin")

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO objects (hash, local_path) VALUES ($1, $2)
		 ON CONFLICT (hash) DO NOTHING`, hash, path); err != nil {
		return 0, "", errors.Wrap(err, errors.KindDatabase, "inserting object")
	}

	var id int64
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM objects WHERE hash = $1`, hash).Scan(&id); err != nil {
		return 0, "", errors.Wrap(err, errors.KindDatabase, "fetching object after insert")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(d.binPath, 0o755); err != nil {
			return 0, "", errors.Wrap(err, errors.KindDatabase, "creating bin directory")
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return 0, "", errors.Wrap(err, errors.KindDatabase, "writing object blob")
		}
	}
	return id, path, nil
}

// CleanBins deletes object rows no source references and unlinks their
// on-disk blobs. It returns the number of objects removed.
func (d *DB) CleanBins(ctx context.Context) (int, error) {
	rows, err := d.pool.QueryContext(ctx,
		`DELETE FROM objects
		 WHERE NOT EXISTS (SELECT 1 FROM sources WHERE sources.object_id = objects.id)
		 RETURNING local_path`)
	if err != nil {
		return 0, errors.Wrap(err, errors.KindDatabase, "deleting orphaned objects")
	}
	defer rows.Close()

	removed := 0
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return removed, errors.Wrap(err, errors.KindDatabase, "scanning object path")
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return removed, errors.Wrap(err, errors.KindDatabase, "removing blob %s", path)
		}
		removed++
	}
	return removed, errors.Wrap(rows.Err(), errors.KindDatabase, "iterating orphaned objects")
}
