package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"coddog/internal/core"
	"coddog/internal/errors"
)

// IngestVersion is one build of a project ready for persistence: the
// fingerprinted symbols plus the raw object bytes backing them.
type IngestVersion struct {
	Name       string
	Platform   string
	SourceName string
	SourceLink *string
	Object     []byte
	Symbols    []core.Symbol
}

// IngestProject writes a project and all of its versions inside a single
// transaction; the commit happens only once every version has landed.
// progress, when non-nil, is invoked after each symbol's windows are
// stored.
func (d *DB) IngestProject(ctx context.Context, name string, repo *string, versions []IngestVersion, progress func(done, total int)) (int64, error) {
	tx, err := d.pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, errors.KindDatabase, "beginning ingest transaction")
	}
	defer tx.Rollback()

	var projectID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO projects (name, repo) VALUES ($1, $2)
		 ON CONFLICT (name) DO NOTHING RETURNING id`, name, repo).Scan(&projectID)
	if err == sql.ErrNoRows {
		return 0, errors.New(errors.KindBadRequest, "project %q already exists", name)
	}
	if err != nil {
		return 0, errors.Wrap(err, errors.KindDatabase, "inserting project")
	}

	total := 0
	for _, v := range versions {
		total += len(v.Symbols)
	}
	done := 0

	for _, v := range versions {
		var versionID int64
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO versions (name, platform, project_id) VALUES ($1, $2, $3) RETURNING id`,
			v.Name, v.Platform, projectID).Scan(&versionID); err != nil {
			return 0, errors.Wrap(err, errors.KindDatabase, "inserting version %s", v.Name)
		}

		objectID, _, err := d.createObject(ctx, tx, v.Object)
		if err != nil {
			return 0, err
		}

		var sourceID int64
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO sources (slug, name, source_link, object_id, version_id, project_id)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			uuid.NewString(), v.SourceName, v.SourceLink, objectID, versionID, projectID).Scan(&sourceID); err != nil {
			return 0, errors.Wrap(err, errors.KindDatabase, "inserting source %s", v.SourceName)
		}

		symbolIDs, err := createSymbols(ctx, tx, sourceID, v.Symbols)
		if err != nil {
			return 0, err
		}

		for i, sym := range v.Symbols {
			hashes := core.WindowHashes(sym.Opcodes, d.windowSize)
			if err := createWindows(ctx, tx, symbolIDs[i], hashes); err != nil {
				return 0, err
			}
			done++
			if progress != nil {
				progress(done, total)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, errors.KindDatabase, "committing ingest")
	}
	return projectID, nil
}
