package db

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"coddog/internal/errors"
)

// createWindows bulk-inserts a symbol's rolling-window hashes. pos is the
// 0-based window start within the symbol's opcode vector.
func createWindows(ctx context.Context, tx *sql.Tx, symbolID int64, hashes []uint64) error {
	for start := 0; start < len(hashes); start += chunkSize {
		chunk := hashes[start:min(start+chunkSize, len(hashes))]

		poses := make([]int64, len(chunk))
		vals := make([]int64, len(chunk))
		for i, h := range chunk {
			poses[i] = int64(start + i)
			vals[i] = int64(h)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO windows (symbol_id, pos, hash)
			SELECT $1, * FROM UNNEST($2::int[], $3::bigint[])`,
			symbolID, pq.Array(poses), pq.Array(vals)); err != nil {
			return errors.Wrap(err, errors.KindDatabase, "bulk inserting windows")
		}
	}
	return nil
}
