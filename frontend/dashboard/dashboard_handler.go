package dashboard

import (
	"net/http"
	"strings"

	sessioncontext "uattracker/frontend/shared/context"
	"uattracker/frontend/shared/nav"
	"uattracker/infrastructure/rbac"
)

func DashboardPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		ctrl, ok := sessioncontext.GetWorkspaceFromContext(r.Context())
		if !ok {
			http.Error(w, "workspace unavailable", http.StatusInternalServerError)
			return
		}

		data := PageData{
			Nav:       nav.BuildTopNavData(session),
			Workspace: ctrl.Snapshot(),
			Message:   strings.TrimSpace(r.URL.Query().Get("status")),
			Error:     strings.TrimSpace(r.URL.Query().Get("error")),
			IsAdmin:   session.User.Role == rbac.RoleAdmin,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := DashboardPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
			return
		}
	}
}
