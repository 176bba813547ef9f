package store

import (
	"context"
	"strings"

	"uattracker/models"
)

const approvalTable = "approval_signoff"

var approvalColumns = []string{
	"role", "name", "unit", "date", "signature_file_path", "verified_by", "remarks", "month",
}

// ListApprovals returns the project's sign-offs in creation order.
func (g *Gateway) ListApprovals(ctx context.Context, projectID string) []models.ApprovalSignoff {
	rows, err := listByProject[approvalRow](ctx, g.db, projectID, "created_at ASC, rowid ASC")
	if err != nil {
		g.logReadFailure("list approvals", projectID, err)
		return []models.ApprovalSignoff{}
	}
	out := make([]models.ApprovalSignoff, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapApproval(row))
	}
	return out
}

// UpsertApproval creates a or overwrites the stored sign-off with its ID.
func (g *Gateway) UpsertApproval(ctx context.Context, a models.ApprovalSignoff) (models.ApprovalSignoff, error) {
	if strings.TrimSpace(a.ProjectID) == "" {
		return models.ApprovalSignoff{}, writeErr("upsert", approvalTable, invalid("project id is required"))
	}
	a.ID = ensureID(a.ID)

	row := unmapApproval(a)
	row.CreatedAt = g.now()
	saved, err := upsertRow(ctx, g.db, &row, row.ID, approvalColumns)
	if err != nil {
		return models.ApprovalSignoff{}, writeErr("upsert", approvalTable, err)
	}
	return mapApproval(saved), nil
}

// DeleteApproval removes the sign-off with id.
func (g *Gateway) DeleteApproval(ctx context.Context, id string) error {
	return writeErr("delete", approvalTable, deleteRow[approvalRow](ctx, g.db, id))
}
