package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"coddog/internal/core"
	"coddog/internal/errors"
)

// DBSymbol is a stored symbol joined with its enclosing source, version,
// object and project.
type DBSymbol struct {
	ID           int64  `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	LenBytes     int64  `json:"len"`
	SymbolIdx    int64  `json:"symbol_idx"`
	IsDecompiled bool   `json:"is_decompiled"`
	OpcodeHash   int64  `json:"-"`
	EquivHash    int64  `json:"-"`
	ExactHash    int64  `json:"-"`

	SourceID    int64   `json:"source_id"`
	SourceName  string  `json:"source_name"`
	VersionID   *int64  `json:"version_id"`
	VersionName *string `json:"version_name"`
	Platform    *string `json:"platform"`
	ObjectPath  string  `json:"-"`
	ProjectID   int64   `json:"project_id"`
	ProjectName string  `json:"project_name"`
}

const symbolSelect = `
	SELECT symbols.id, symbols.slug, symbols.name, symbols.len,
	       symbols.symbol_idx, symbols.is_decompiled,
	       symbols.opcode_hash, symbols.equiv_hash, symbols.exact_hash,
	       sources.id, sources.name, versions.id, versions.name,
	       versions.platform, objects.local_path, projects.id, projects.name
	FROM symbols
	JOIN sources ON sources.id = symbols.source_id
	LEFT JOIN versions ON versions.id = sources.version_id
	JOIN objects ON objects.id = sources.object_id
	JOIN projects ON projects.id = sources.project_id`

func scanSymbol(row interface{ Scan(...interface{}) error }) (DBSymbol, error) {
	var s DBSymbol
	err := row.Scan(&s.ID, &s.Slug, &s.Name, &s.LenBytes,
		&s.SymbolIdx, &s.IsDecompiled,
		&s.OpcodeHash, &s.EquivHash, &s.ExactHash,
		&s.SourceID, &s.SourceName, &s.VersionID, &s.VersionName,
		&s.Platform, &s.ObjectPath, &s.ProjectID, &s.ProjectName)
	return s, err
}

func (d *DB) querySymbols(ctx context.Context, where string, args ...interface{}) ([]DBSymbol, error) {
	rows, err := d.pool.QueryContext(ctx, symbolSelect+where, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindDatabase, "querying symbols")
	}
	defer rows.Close()

	var out []DBSymbol
	for rows.Next() {
		s, err := scanSymbol(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.KindDatabase, "scanning symbol")
		}
		out = append(out, s)
	}
	return out, errors.Wrap(rows.Err(), errors.KindDatabase, "iterating symbols")
}

// SymbolBySlug fetches a single symbol; a miss is a distinct NotFound.
func (d *DB) SymbolBySlug(ctx context.Context, slug string) (*DBSymbol, error) {
	s, err := scanSymbol(d.pool.QueryRowContext(ctx, symbolSelect+` WHERE symbols.slug = $1`, slug))
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.KindNotFound, "symbol %q not found", slug)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.KindDatabase, "fetching symbol by slug")
	}
	return &s, nil
}

// SymbolsByName searches symbols by name, ranked: exact matches first,
// then prefix matches, then substring matches.
func (d *DB) SymbolsByName(ctx context.Context, query string, limit int) ([]DBSymbol, error) {
	if limit <= 0 {
		limit = 50
	}
	pattern := "%" + query + "%"
	return d.querySymbols(ctx, `
	WHERE symbols.name ILIKE $1
	ORDER BY (symbols.name = $2) DESC, (symbols.name ILIKE $3) DESC, symbols.name, symbols.id
	LIMIT $4`, pattern, query, query+"%", limit)
}

// MatchChannel selects one of the three equality lookup channels.
type MatchChannel string

const (
	MatchExact      MatchChannel = "exact"
	MatchEquivalent MatchChannel = "equivalent"
	MatchOpcode     MatchChannel = "opcode"
)

// SymbolsByChannel returns the symbols whose hash for the given channel
// equals the query symbol's, excluding the query symbol itself.
func (d *DB) SymbolsByChannel(ctx context.Context, sym *DBSymbol, channel MatchChannel) ([]DBSymbol, error) {
	var col string
	var val int64
	switch channel {
	case MatchExact:
		col, val = "exact_hash", sym.ExactHash
	case MatchEquivalent:
		col, val = "equiv_hash", sym.EquivHash
	case MatchOpcode:
		col, val = "opcode_hash", sym.OpcodeHash
	default:
		return nil, errors.New(errors.KindBadRequest, "unknown match channel %q", channel)
	}
	return d.querySymbols(ctx,
		` WHERE symbols.`+col+` = $1 AND symbols.id != $2 ORDER BY symbols.id`, val, sym.ID)
}

// createSymbols bulk-inserts fingerprinted symbols for one source using
// chunked array-unnest inserts, returning the new ids in input order.
// Hash values are stored as the signed bit pattern of the unsigned hash.
func createSymbols(ctx context.Context, tx *sql.Tx, sourceID int64, symbols []core.Symbol) ([]int64, error) {
	ids := make([]int64, 0, len(symbols))

	for start := 0; start < len(symbols); start += chunkSize {
		chunk := symbols[start:min(start+chunkSize, len(symbols))]

		slugs := make([]string, len(chunk))
		names := make([]string, len(chunk))
		lens := make([]int64, len(chunk))
		idxs := make([]int64, len(chunk))
		decomp := make([]bool, len(chunk))
		opcodeHashes := make([]int64, len(chunk))
		equivHashes := make([]int64, len(chunk))
		exactHashes := make([]int64, len(chunk))
		for i, s := range chunk {
			slugs[i] = uuid.NewString()
			names[i] = s.Name
			lens[i] = int64(len(s.Bytes))
			idxs[i] = int64(s.SymbolIdx)
			decomp[i] = s.IsDecompiled
			opcodeHashes[i] = int64(s.OpcodeHash)
			equivHashes[i] = int64(s.EquivHash)
			exactHashes[i] = int64(s.ExactHash)
		}

		rows, err := tx.QueryContext(ctx, `
			INSERT INTO symbols (source_id, slug, name, len, symbol_idx, is_decompiled,
			                     opcode_hash, equiv_hash, exact_hash)
			SELECT $1, * FROM UNNEST($2::text[], $3::text[], $4::bigint[], $5::bigint[],
			                         $6::boolean[], $7::bigint[], $8::bigint[], $9::bigint[])
			RETURNING id`,
			sourceID, pq.Array(slugs), pq.Array(names), pq.Array(lens), pq.Array(idxs),
			pq.BoolArray(decomp), pq.Array(opcodeHashes), pq.Array(equivHashes), pq.Array(exactHashes))
		if err != nil {
			return nil, errors.Wrap(err, errors.KindDatabase, "bulk inserting symbols")
		}
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, errors.Wrap(err, errors.KindDatabase, "scanning symbol id")
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, errors.KindDatabase, "iterating symbol ids")
		}
		rows.Close()
	}
	return ids, nil
}
