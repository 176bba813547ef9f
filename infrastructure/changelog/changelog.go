// Package changelog turns entity edits into field-level change log entries.
package changelog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"uattracker/models"
)

// Change is one differing tracked field. Nil values are absent.
type Change struct {
	Field    string
	OldValue *string
	NewValue *string
}

// Diff compares prev and next over fields in order. A nil prev means the
// entity is being created, so every field starts out absent.
func Diff[T any](prev *T, next T, fields []models.Field[T]) []Change {
	changes := make([]Change, 0)
	for _, f := range fields {
		var before *string
		if prev != nil {
			v := f.Get(*prev)
			before = &v
		}
		after := f.Get(next)
		if before != nil && *before == after {
			continue
		}
		changes = append(changes, Change{Field: f.Name, OldValue: before, NewValue: &after})
	}
	return changes
}

// Appender persists a single change log entry.
type Appender interface {
	AppendChange(ctx context.Context, entry models.ChangeLogEntry) (models.ChangeLogEntry, error)
}

// Tracker records diffs through an Appender.
type Tracker struct {
	appender Appender
	logger   *slog.Logger
}

func NewTracker(appender Appender, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{appender: appender, logger: logger}
}

// Record appends one entry per changed field of next relative to prev.
// Each append is attempted even if an earlier one fails; failures are logged
// and returned joined.
func Record[T any](ctx context.Context, t *Tracker, kind models.EntityKind, projectID, entityID string, prev *T, next T, fields []models.Field[T], userName string) error {
	var errs []error
	for _, c := range Diff(prev, next, fields) {
		entry := models.ChangeLogEntry{
			ProjectID: projectID,
			Entity:    kind,
			EntityID:  entityID,
			Field:     c.Field,
			OldValue:  c.OldValue,
			NewValue:  c.NewValue,
			UserName:  userName,
		}
		if err := t.append(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordDeletion appends the single "deleted" entry for a removed entity.
func (t *Tracker) RecordDeletion(ctx context.Context, kind models.EntityKind, projectID, entityID, display, userName string) error {
	return t.append(ctx, models.ChangeLogEntry{
		ProjectID: projectID,
		Entity:    kind,
		EntityID:  entityID,
		Field:     models.DeletedField,
		OldValue:  &display,
		UserName:  userName,
	})
}

func (t *Tracker) append(ctx context.Context, entry models.ChangeLogEntry) error {
	if _, err := t.appender.AppendChange(ctx, entry); err != nil {
		t.logger.Error("append change log entry failed",
			slog.String("entity", string(entry.Entity)),
			slog.String("entity_id", entry.EntityID),
			slog.String("field", entry.Field),
			slog.Any("err", err))
		return fmt.Errorf("log %s.%s: %w", entry.Entity, entry.Field, err)
	}
	return nil
}

// TestCaseDisplay is the old value recorded when a test case is deleted.
func TestCaseDisplay(tc models.TestCase) string { return tc.TestScenario }

func ParticipantDisplay(p models.Participant) string { return p.Name }

func ApprovalDisplay(a models.ApprovalSignoff) string { return a.Name }
