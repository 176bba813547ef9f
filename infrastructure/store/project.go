package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	"uattracker/infrastructure/sqlite"
	"uattracker/models"
)

const projectTable = "uat_project"

// ListProjects returns every project, newest first.
func (g *Gateway) ListProjects(ctx context.Context) []models.Project {
	rows := make([]projectRow, 0)
	err := g.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&rows).OrderExpr("created_at DESC, rowid DESC").Scan(ctx)
	})
	if err != nil {
		g.logReadFailure("list projects", "", err)
		return []models.Project{}
	}
	projects := make([]models.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, mapProject(row))
	}
	return projects
}

// LoadProject returns the project with id or an error wrapping ErrNotFound.
func (g *Gateway) LoadProject(ctx context.Context, id string) (models.Project, error) {
	var row projectRow
	err := g.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&row).Where("id = ?", id).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, ErrNotFound
	}
	if err != nil {
		return models.Project{}, err
	}
	return mapProject(row), nil
}

// CreateProject inserts a new project. An empty ID is replaced by a UUID.
func (g *Gateway) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return models.Project{}, writeErr("create", projectTable, invalid("project name is required"))
	}
	p.ID = ensureID(p.ID)
	p.CreatedAt = g.now()

	row := unmapProject(p)
	out, err := sqlite.Write(ctx, g.db, func(ctx context.Context, tx bun.Tx) (projectRow, error) {
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return projectRow{}, err
		}
		return row, nil
	})
	if err != nil {
		return models.Project{}, writeErr("create", projectTable, err)
	}
	return mapProject(out), nil
}

// UpdateProject overwrites name, test version and month of an existing project.
func (g *Gateway) UpdateProject(ctx context.Context, p models.Project) (models.Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	if strings.TrimSpace(p.ID) == "" {
		return models.Project{}, writeErr("update", projectTable, invalid("project id is required"))
	}
	if p.Name == "" {
		return models.Project{}, writeErr("update", projectTable, invalid("project name is required"))
	}

	row := unmapProject(p)
	out, err := sqlite.Write(ctx, g.db, func(ctx context.Context, tx bun.Tx) (projectRow, error) {
		res, err := tx.NewUpdate().
			Model(&row).
			Column("name", "test_version", "month").
			WherePK().
			Exec(ctx)
		if err != nil {
			return projectRow{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return projectRow{}, ErrNotFound
		}
		var saved projectRow
		err = tx.NewSelect().Model(&saved).Where("id = ?", row.ID).Limit(1).Scan(ctx)
		return saved, err
	})
	if err != nil {
		return models.Project{}, writeErr("update", projectTable, err)
	}
	return mapProject(out), nil
}
