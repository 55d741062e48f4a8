package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"jobboard-engine/internal/domain"
)

// Import replaces the stored listing with jobs inside one transaction.
// onRow, when set, is called after each insert.
func Import(ctx context.Context, db *sql.DB, jobs []domain.Job, onRow func()) (int, error) {
	if err := validate(jobs); err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM jobs;`); err != nil {
		return 0, fmt.Errorf("clear jobs: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO jobs (ordinal, id, company, logo, is_new, featured, position, role, level,
                  posted_at, contract, location, languages, tools)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, j := range jobs {
		j = j.Clone()
		langs, _ := json.Marshal(j.Languages)
		tools, _ := json.Marshal(j.Tools)
		if _, err := stmt.ExecContext(ctx,
			i+1, j.ID, j.Company, j.Logo, j.New, j.Featured, j.Position, j.Role, j.Level,
			j.PostedAt, j.Contract, j.Location, string(langs), string(tools),
		); err != nil {
			return 0, fmt.Errorf("insert job %d: %w", j.ID, err)
		}
		if onRow != nil {
			onRow()
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(jobs), nil
}
