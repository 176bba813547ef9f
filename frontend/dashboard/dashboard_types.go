package dashboard

import (
	"uattracker/frontend/shared/nav"
	"uattracker/infrastructure/workspace"
)

// recentChanges caps the history list on the dashboard page.
const recentChanges = 20

type PageData struct {
	Nav       nav.TopNavData
	Workspace workspace.Snapshot
	Message   string
	Error     string
	IsAdmin   bool
}
