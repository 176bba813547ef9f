package store

import (
	"context"

	"github.com/uptrace/bun"

	"uattracker/infrastructure/sqlite"
)

func listByProject[R any](ctx context.Context, db *sqlite.DB, projectID, order string) ([]R, error) {
	rows := make([]R, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&rows).Where("project_id = ?", projectID).OrderExpr(order).Scan(ctx)
	})
	return rows, err
}

// upsertRow inserts row or overwrites columns of the existing row with the
// same id, then reads the stored row back. An existing row is only updated
// when it belongs to the same project; otherwise ErrForeignRecord is returned
// and nothing changes.
func upsertRow[R any](ctx context.Context, db *sqlite.DB, row *R, id string, columns []string) (R, error) {
	return sqlite.Write(ctx, db, func(ctx context.Context, tx bun.Tx) (R, error) {
		var saved R
		q := tx.NewInsert().Model(row).On("CONFLICT (id) DO UPDATE")
		for _, col := range columns {
			q = q.Set("? = EXCLUDED.?", bun.Ident(col), bun.Ident(col))
		}
		// Unqualified columns in the DO UPDATE clause name the stored row.
		res, err := q.Where("project_id = EXCLUDED.project_id").Exec(ctx)
		if err != nil {
			return saved, err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return saved, ErrForeignRecord
		}
		err = tx.NewSelect().Model(&saved).Where("id = ?", id).Limit(1).Scan(ctx)
		return saved, err
	})
}

func deleteRow[R any](ctx context.Context, db *sqlite.DB, id string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*R)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}
