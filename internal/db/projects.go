package db

import (
	"context"
	"database/sql"

	"coddog/internal/errors"
)

// Project is one corpus project row.
type Project struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Repo *string `json:"repo"`
}

// CreateProject inserts a project; duplicate names are a BadRequest.
func (d *DB) CreateProject(ctx context.Context, name string, repo *string) (int64, error) {
	var id int64
	err := d.pool.QueryRowContext(ctx,
		`INSERT INTO projects (name, repo) VALUES ($1, $2)
		 ON CONFLICT (name) DO NOTHING RETURNING id`,
		name, repo).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, errors.New(errors.KindBadRequest, "project %q already exists", name)
	}
	if err != nil {
		return 0, errors.Wrap(err, errors.KindDatabase, "creating project")
	}
	return id, nil
}

// UpdateProject rewrites a project's name and repo.
func (d *DB) UpdateProject(ctx context.Context, id int64, name string, repo *string) error {
	res, err := d.pool.ExecContext(ctx,
		`UPDATE projects SET name = $1, repo = $2 WHERE id = $3`, name, repo, id)
	if err != nil {
		return errors.Wrap(err, errors.KindDatabase, "updating project")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.KindNotFound, "project %d not found", id)
	}
	return nil
}

// DeleteProject removes a project; versions, sources, symbols and windows
// cascade. Orphaned objects are left for CleanBins.
func (d *DB) DeleteProject(ctx context.Context, id int64) error {
	res, err := d.pool.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.KindDatabase, "deleting project")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.KindNotFound, "project %d not found", id)
	}
	return nil
}

// GetProject fetches one project by id.
func (d *DB) GetProject(ctx context.Context, id int64) (*Project, error) {
	var p Project
	err := d.pool.QueryRowContext(ctx,
		`SELECT id, name, repo FROM projects WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Repo)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.KindNotFound, "project %d not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.KindDatabase, "fetching project")
	}
	return &p, nil
}

// ListProjects returns all projects ordered by name.
func (d *DB) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := d.pool.QueryContext(ctx,
		`SELECT id, name, repo FROM projects ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindDatabase, "listing projects")
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Repo); err != nil {
			return nil, errors.Wrap(err, errors.KindDatabase, "scanning project")
		}
		out = append(out, p)
	}
	return out, errors.Wrap(rows.Err(), errors.KindDatabase, "iterating projects")
}

// ProjectByName fetches one project by exact name.
func (d *DB) ProjectByName(ctx context.Context, name string) (*Project, error) {
	var p Project
	err := d.pool.QueryRowContext(ctx,
		`SELECT id, name, repo FROM projects WHERE name = $1`, name).
		Scan(&p.ID, &p.Name, &p.Repo)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.KindNotFound, "project %q not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.KindDatabase, "fetching project")
	}
	return &p, nil
}
