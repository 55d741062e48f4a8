package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"jobboard-engine/internal/domain"
)

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	// ordinal keeps source order; id is whatever the source called the job.
	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  ordinal INTEGER PRIMARY KEY,
  id INTEGER NOT NULL DEFAULT 0,
  company TEXT NOT NULL,
  logo TEXT NOT NULL DEFAULT '',
  is_new INTEGER NOT NULL DEFAULT 0,
  featured INTEGER NOT NULL DEFAULT 0,
  position TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT '',
  level TEXT NOT NULL DEFAULT '',
  posted_at TEXT NOT NULL DEFAULT '',
  contract TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  languages TEXT NOT NULL DEFAULT '[]',
  tools TEXT NOT NULL DEFAULT '[]'
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// ListJobs returns every stored job in the order it was imported.
func ListJobs(ctx context.Context, db *sql.DB) ([]domain.Job, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, company, logo, is_new, featured, position, role, level,
       posted_at, contract, location, languages, tools
FROM jobs
ORDER BY ordinal ASC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Job{}
	for rows.Next() {
		var j domain.Job
		var langsJSON, toolsJSON string
		if err := rows.Scan(
			&j.ID,
			&j.Company,
			&j.Logo,
			&j.New,
			&j.Featured,
			&j.Position,
			&j.Role,
			&j.Level,
			&j.PostedAt,
			&j.Contract,
			&j.Location,
			&langsJSON,
			&toolsJSON,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(langsJSON), &j.Languages); err != nil {
			return nil, fmt.Errorf("%w: job %d languages: %v", ErrMalformed, j.ID, err)
		}
		if err := json.Unmarshal([]byte(toolsJSON), &j.Tools); err != nil {
			return nil, fmt.Errorf("%w: job %d tools: %v", ErrMalformed, j.ID, err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := validate(out); err != nil {
		return nil, err
	}
	return out, nil
}
