package store

import (
	"context"
	"strings"

	"uattracker/models"
)

const participantTable = "participant"

var participantColumns = []string{"demo_account", "role", "name", "email", "participant_type"}

// ListParticipants returns the project's participants in creation order.
func (g *Gateway) ListParticipants(ctx context.Context, projectID string) []models.Participant {
	rows, err := listByProject[participantRow](ctx, g.db, projectID, "created_at ASC, rowid ASC")
	if err != nil {
		g.logReadFailure("list participants", projectID, err)
		return []models.Participant{}
	}
	out := make([]models.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapParticipant(row))
	}
	return out
}

// UpsertParticipant creates p or overwrites the stored participant with its
// ID. An empty participant type is saved as external.
func (g *Gateway) UpsertParticipant(ctx context.Context, p models.Participant) (models.Participant, error) {
	if strings.TrimSpace(p.ProjectID) == "" {
		return models.Participant{}, writeErr("upsert", participantTable, invalid("project id is required"))
	}
	if p.ParticipantType == "" {
		p.ParticipantType = models.ParticipantExternal
	}
	if !p.ParticipantType.Valid() {
		return models.Participant{}, writeErr("upsert", participantTable, invalid("unknown participant type %q", p.ParticipantType))
	}
	p.ID = ensureID(p.ID)

	row := unmapParticipant(p)
	row.CreatedAt = g.now()
	saved, err := upsertRow(ctx, g.db, &row, row.ID, participantColumns)
	if err != nil {
		return models.Participant{}, writeErr("upsert", participantTable, err)
	}
	return mapParticipant(saved), nil
}

// DeleteParticipant removes the participant with id.
func (g *Gateway) DeleteParticipant(ctx context.Context, id string) error {
	return writeErr("delete", participantTable, deleteRow[participantRow](ctx, g.db, id))
}
