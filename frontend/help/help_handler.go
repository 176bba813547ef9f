package help

import (
	"net/http"

	sessioncontext "uattracker/frontend/shared/context"
	"uattracker/frontend/shared/nav"
)

// HelpPageQueryHandler renders role-aware usage notes for the signed-in user.
func HelpPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		data := PageData{Nav: nav.BuildTopNavData(session)}
		if ctrl, ok := sessioncontext.GetWorkspaceFromContext(r.Context()); ok {
			if p := ctrl.Snapshot().ActiveProject; p != nil {
				data.ActiveProject = p.Name
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := HelpPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render help page", http.StatusInternalServerError)
		}
	}
}
