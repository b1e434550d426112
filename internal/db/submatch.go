package db

import (
	"context"

	"coddog/internal/errors"
)

// SubmatchRow is one maximal diagonal run of shared windows between the
// query symbol and another symbol. Length is in database windows; the
// instruction count shown to users is Length plus the window width minus
// one.
type SubmatchRow struct {
	ProjectID       int64   `json:"project_id"`
	ProjectName     string  `json:"project_name"`
	SourceID        int64   `json:"source_id"`
	SourceName      string  `json:"source_name"`
	VersionID       *int64  `json:"version_id"`
	VersionName     *string `json:"version_name"`
	Platform        *string `json:"platform"`
	ObjectPath      string  `json:"-"`
	SymbolID        int64   `json:"symbol_id"`
	SymbolSlug      string  `json:"symbol_slug"`
	SymbolName      string  `json:"symbol_name"`
	ObjectSymbolIdx int64   `json:"object_symbol_idx"`
	QueryStart      int64   `json:"query_start"`
	MatchStart      int64   `json:"match_start"`
	Length          int64   `json:"length"`
}

// SubmatchRequest parameterizes the windowed submatch query. Start and End
// bound the query window positions (inclusive); UserWindow is the
// effective window width requested by the caller and must be at least the
// database width.
type SubmatchRequest struct {
	SymbolID   int64
	Start      int64
	End        int64
	UserWindow int64
	PageSize   int64
	Page       int64
}

// submatchSQL finds, in one statement, every maximal run of same-hash
// windows along a diagonal. Within each (symbol, diagonal) class, windows
// are numbered by query position; consecutive positions share the
// sequence id query_pos - row_number, which isolates maximal runs inside
// a single grouped aggregate. A run of L windows covers L plus the window
// width minus one instructions.
const submatchSQL = `
WITH query_windows AS (
	SELECT pos, hash FROM windows
	WHERE symbol_id = $1 AND pos BETWEEN $2 AND $3
),
potential_matches AS (
	SELECT b.symbol_id,
	       a.pos AS query_pos,
	       b.pos AS match_pos,
	       (a.pos - b.pos) AS pos_diff
	FROM query_windows a
	JOIN windows b ON a.hash = b.hash
	WHERE b.symbol_id != $1
),
sequence_groups AS (
	SELECT symbol_id, query_pos, match_pos, pos_diff,
	       query_pos - ROW_NUMBER() OVER (
	           PARTITION BY symbol_id, pos_diff ORDER BY query_pos
	       ) AS sequence_id
	FROM potential_matches
),
final_sequences AS (
	SELECT symbol_id,
	       MIN(query_pos) AS start_query_pos,
	       MIN(match_pos) AS start_match_pos,
	       COUNT(*) AS length
	FROM sequence_groups
	GROUP BY symbol_id, pos_diff, sequence_id
)
SELECT projects.id, projects.name,
       sources.id, sources.name,
       versions.id, versions.name, versions.platform,
       objects.local_path,
       symbols.id, symbols.slug, symbols.name, symbols.symbol_idx,
       start_query_pos, start_match_pos, length,
       COUNT(*) OVER () AS total
FROM final_sequences
JOIN symbols ON final_sequences.symbol_id = symbols.id
JOIN sources ON symbols.source_id = sources.id
LEFT JOIN versions ON versions.id = sources.version_id
JOIN objects ON objects.id = sources.object_id
JOIN projects ON projects.id = sources.project_id
WHERE length >= $4
ORDER BY length DESC, projects.id, sources.id, symbols.id,
         start_query_pos, start_match_pos
LIMIT $5 OFFSET $6`

// Submatch runs the windowed longest-common-run query and returns the
// requested page plus the total unpaged row count.
func (d *DB) Submatch(ctx context.Context, req SubmatchRequest) ([]SubmatchRow, int64, error) {
	if req.UserWindow < int64(d.windowSize) {
		return nil, 0, errors.New(errors.KindBadRequest,
			"window size %d is below the database window size %d", req.UserWindow, d.windowSize)
	}
	if req.PageSize <= 0 || req.Page < 0 {
		return nil, 0, errors.New(errors.KindBadRequest, "invalid page parameters")
	}

	// A sub-sequence of UserWindow instructions covers
	// UserWindow - windowSize + 1 consecutive database windows.
	minLen := req.UserWindow - int64(d.windowSize) + 1

	rows, err := d.pool.QueryContext(ctx, submatchSQL,
		req.SymbolID, req.Start, req.End, minLen,
		req.PageSize, req.Page*req.PageSize)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.KindDatabase, "running submatch query")
	}
	defer rows.Close()

	var out []SubmatchRow
	var total int64
	for rows.Next() {
		var r SubmatchRow
		if err := rows.Scan(&r.ProjectID, &r.ProjectName,
			&r.SourceID, &r.SourceName,
			&r.VersionID, &r.VersionName, &r.Platform,
			&r.ObjectPath,
			&r.SymbolID, &r.SymbolSlug, &r.SymbolName, &r.ObjectSymbolIdx,
			&r.QueryStart, &r.MatchStart, &r.Length, &total); err != nil {
			return nil, 0, errors.Wrap(err, errors.KindDatabase, "scanning submatch row")
		}
		out = append(out, r)
	}
	return out, total, errors.Wrap(rows.Err(), errors.KindDatabase, "iterating submatch rows")
}
