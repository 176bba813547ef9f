package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"uattracker/models"
)

// Gateway is a mock for workspace.Gateway. It also satisfies changelog.Appender.
type Gateway struct {
	mock.Mock
}

func (m *Gateway) ListProjects(ctx context.Context) []models.Project {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]models.Project); ok {
		return list
	}
	return []models.Project{}
}

func (m *Gateway) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	args := m.Called(ctx, p)
	if out, ok := args.Get(0).(models.Project); ok {
		return out, args.Error(1)
	}
	return models.Project{}, args.Error(1)
}

func (m *Gateway) UpdateProject(ctx context.Context, p models.Project) (models.Project, error) {
	args := m.Called(ctx, p)
	if out, ok := args.Get(0).(models.Project); ok {
		return out, args.Error(1)
	}
	return models.Project{}, args.Error(1)
}

func (m *Gateway) ListTestCases(ctx context.Context, projectID string) []models.TestCase {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]models.TestCase); ok {
		return list
	}
	return []models.TestCase{}
}

func (m *Gateway) UpsertTestCase(ctx context.Context, tc models.TestCase) (models.TestCase, error) {
	args := m.Called(ctx, tc)
	if out, ok := args.Get(0).(models.TestCase); ok {
		return out, args.Error(1)
	}
	return models.TestCase{}, args.Error(1)
}

func (m *Gateway) DeleteTestCase(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Gateway) ListParticipants(ctx context.Context, projectID string) []models.Participant {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]models.Participant); ok {
		return list
	}
	return []models.Participant{}
}

func (m *Gateway) UpsertParticipant(ctx context.Context, p models.Participant) (models.Participant, error) {
	args := m.Called(ctx, p)
	if out, ok := args.Get(0).(models.Participant); ok {
		return out, args.Error(1)
	}
	return models.Participant{}, args.Error(1)
}

func (m *Gateway) DeleteParticipant(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Gateway) ListApprovals(ctx context.Context, projectID string) []models.ApprovalSignoff {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]models.ApprovalSignoff); ok {
		return list
	}
	return []models.ApprovalSignoff{}
}

func (m *Gateway) UpsertApproval(ctx context.Context, a models.ApprovalSignoff) (models.ApprovalSignoff, error) {
	args := m.Called(ctx, a)
	if out, ok := args.Get(0).(models.ApprovalSignoff); ok {
		return out, args.Error(1)
	}
	return models.ApprovalSignoff{}, args.Error(1)
}

func (m *Gateway) DeleteApproval(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Gateway) ListChangeLog(ctx context.Context, projectID string) []models.ChangeLogEntry {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]models.ChangeLogEntry); ok {
		return list
	}
	return []models.ChangeLogEntry{}
}

func (m *Gateway) AppendChange(ctx context.Context, entry models.ChangeLogEntry) (models.ChangeLogEntry, error) {
	args := m.Called(ctx, entry)
	if out, ok := args.Get(0).(models.ChangeLogEntry); ok {
		return out, args.Error(1)
	}
	return models.ChangeLogEntry{}, args.Error(1)
}
