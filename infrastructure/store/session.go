package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"
)

// ResolveSessionActiveProjectID returns current when it names an existing
// project, otherwise the newest project. It returns nil when no projects exist.
func (g *Gateway) ResolveSessionActiveProjectID(ctx context.Context, current *string) (*string, error) {
	if current != nil && strings.TrimSpace(*current) != "" {
		_, err := g.LoadProject(ctx, *current)
		if err == nil {
			return strPtr(*current), nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	var id string
	err := g.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT id FROM uat_project ORDER BY created_at DESC, rowid DESC LIMIT 1`).Scan(ctx, &id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return strPtr(id), nil
}

// SetSessionActiveProjectID persists the session's selected project. A nil
// or empty projectID clears it.
func (g *Gateway) SetSessionActiveProjectID(ctx context.Context, sessionID string, projectID *string) error {
	return g.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if projectID == nil || strings.TrimSpace(*projectID) == "" {
			_, err := tx.ExecContext(ctx, `UPDATE sessions SET active_project_id = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, sessionID)
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE sessions SET active_project_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, *projectID, sessionID)
		return err
	})
}

// RecordExportRun logs an export. A nil userID records an anonymous run
// such as one started from the command line.
func (g *Gateway) RecordExportRun(ctx context.Context, userID *int64, projectID, exportType string) error {
	return g.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var uid any
		if userID != nil {
			uid = *userID
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO export_runs (user_id, project_id, export_type, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`, uid, projectID, exportType)
		return err
	})
}

// ExportRunCount returns how many exports of exportType were recorded for projectID.
func (g *Gateway) ExportRunCount(ctx context.Context, projectID, exportType string) (int, error) {
	var n int
	err := g.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(1) FROM export_runs WHERE project_id = ? AND export_type = ?`, projectID, exportType).Scan(ctx, &n)
	})
	return n, err
}
