package context

import (
	"context"

	"uattracker/infrastructure/workspace"
	"uattracker/models"
)

type sessionKey struct{}

type workspaceKey struct{}

func NewContextWithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func GetSessionFromContext(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(models.Session)
	return s, ok
}

// NewContextWithWorkspace attaches the session's workspace controller.
func NewContextWithWorkspace(ctx context.Context, ctrl *workspace.Controller) context.Context {
	return context.WithValue(ctx, workspaceKey{}, ctrl)
}

func GetWorkspaceFromContext(ctx context.Context) (*workspace.Controller, bool) {
	ctrl, ok := ctx.Value(workspaceKey{}).(*workspace.Controller)
	return ctrl, ok && ctrl != nil
}
