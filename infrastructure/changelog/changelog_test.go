package changelog_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"uattracker/infrastructure/changelog"
	"uattracker/infrastructure/mocks"
	"uattracker/models"
)

func quietTracker(appender changelog.Appender) *changelog.Tracker {
	return changelog.NewTracker(appender, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDiffSingleFieldChange(t *testing.T) {
	prev := models.TestCase{ID: "tc1", TestNumber: "TC-01", Remarks: "old"}
	next := prev
	next.Remarks = "new"

	changes := changelog.Diff(&prev, next, models.TestCaseFields)
	require.Len(t, changes, 1)
	require.Equal(t, "remarks", changes[0].Field)
	require.Equal(t, "old", *changes[0].OldValue)
	require.Equal(t, "new", *changes[0].NewValue)
}

func TestDiffNoChange(t *testing.T) {
	prev := models.TestCase{ID: "tc1", Remarks: "x"}
	next := prev

	require.Empty(t, changelog.Diff(&prev, next, models.TestCaseFields))
}

func TestDiffOneEntryPerDifferingField(t *testing.T) {
	prev := models.Participant{Name: "Jane", Email: "jane@old.example", ParticipantType: models.ParticipantInternal}
	next := models.Participant{Name: "Jane", Email: "jane@new.example", ParticipantType: models.ParticipantVendor}

	changes := changelog.Diff(&prev, next, models.ParticipantFields)
	require.Len(t, changes, 2)
	require.Equal(t, "email", changes[0].Field)
	require.Equal(t, "participantType", changes[1].Field)
}

func TestDiffCreationTreatsEveryFieldAsAbsent(t *testing.T) {
	next := models.Project{Name: "Release", TestVersion: "", Month: "March"}

	changes := changelog.Diff(nil, next, models.ProjectFields)
	require.Len(t, changes, len(models.ProjectFields))
	for _, c := range changes {
		require.Nil(t, c.OldValue)
		require.NotNil(t, c.NewValue)
	}
	require.Equal(t, "", *changes[1].NewValue)
}

func TestRecordAppendsEachChange(t *testing.T) {
	ctx := context.Background()
	gw := &mocks.Gateway{}
	gw.On("AppendChange", ctx, mock.MatchedBy(func(e models.ChangeLogEntry) bool {
		return e.Field == "remarks" && e.Entity == models.EntityTestCase && e.ProjectID == "p1" &&
			e.EntityID == "tc1" && *e.OldValue == "old" && *e.NewValue == "new" && e.UserName == "Tess"
	})).Return(models.ChangeLogEntry{}, nil).Once()

	prev := models.TestCase{ID: "tc1", ProjectID: "p1", Remarks: "old"}
	next := prev
	next.Remarks = "new"

	err := changelog.Record(ctx, quietTracker(gw), models.EntityTestCase, "p1", "tc1", &prev, next, models.TestCaseFields, "Tess")
	require.NoError(t, err)
	gw.AssertExpectations(t)
}

func TestRecordContinuesAfterFailure(t *testing.T) {
	ctx := context.Background()
	gw := &mocks.Gateway{}
	gw.On("AppendChange", ctx, mock.MatchedBy(func(e models.ChangeLogEntry) bool { return e.Field == "name" })).
		Return(models.ChangeLogEntry{}, errors.New("disk full")).Once()
	gw.On("AppendChange", ctx, mock.MatchedBy(func(e models.ChangeLogEntry) bool { return e.Field == "month" })).
		Return(models.ChangeLogEntry{}, nil).Once()

	prev := models.Project{ID: "p1", Name: "A", Month: "Jan"}
	next := models.Project{ID: "p1", Name: "B", Month: "Feb"}

	err := changelog.Record(ctx, quietTracker(gw), models.EntityProject, "p1", "p1", &prev, next, models.ProjectFields, "Tess")
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk full")
	gw.AssertExpectations(t)
}

func TestRecordDeletion(t *testing.T) {
	ctx := context.Background()
	gw := &mocks.Gateway{}
	gw.On("AppendChange", ctx, mock.MatchedBy(func(e models.ChangeLogEntry) bool {
		return e.Entity == models.EntityParticipant && e.Field == models.DeletedField &&
			e.OldValue != nil && *e.OldValue == "Jane" && e.NewValue == nil
	})).Return(models.ChangeLogEntry{}, nil).Once()

	jane := models.Participant{ID: "pa1", ProjectID: "p1", Name: "Jane"}
	err := quietTracker(gw).RecordDeletion(ctx, models.EntityParticipant, "p1", jane.ID, changelog.ParticipantDisplay(jane), "Tess")
	require.NoError(t, err)
	gw.AssertExpectations(t)
}
