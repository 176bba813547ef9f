package store

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"uattracker/models"
)

const changeLogTable = "change_log"

// ListChangeLog returns the project's change history, most recent first.
func (g *Gateway) ListChangeLog(ctx context.Context, projectID string) []models.ChangeLogEntry {
	rows, err := listByProject[changeLogRow](ctx, g.db, projectID, "created_at DESC, rowid DESC")
	if err != nil {
		g.logReadFailure("list change log", projectID, err)
		return []models.ChangeLogEntry{}
	}
	out := make([]models.ChangeLogEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapChange(row))
	}
	return out
}

// AppendChange writes one change log entry. Entries are never updated.
func (g *Gateway) AppendChange(ctx context.Context, entry models.ChangeLogEntry) (models.ChangeLogEntry, error) {
	if strings.TrimSpace(entry.ProjectID) == "" {
		return models.ChangeLogEntry{}, writeErr("append", changeLogTable, invalid("project id is required"))
	}
	entry.ID = ensureID(entry.ID)
	entry.CreatedAt = g.now()

	row := unmapChange(entry)
	if entry.UserName == "" {
		row.UserName = nil
	}
	err := g.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&row).Exec(ctx)
		return err
	})
	if err != nil {
		return models.ChangeLogEntry{}, writeErr("append", changeLogTable, err)
	}
	return mapChange(row), nil
}
