package projects

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	sessioncontext "uattracker/frontend/shared/context"
	"uattracker/frontend/shared/jsonapi"
	"uattracker/infrastructure/cache"
	"uattracker/infrastructure/store"
	"uattracker/models"
)

// CreateProjectCommandHandler creates a project from a JSON body and makes it
// the session's active project.
func CreateProjectCommandHandler(gw *store.Gateway, sessionCache *cache.UserSessionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, ok := sessioncontext.GetWorkspaceFromContext(r.Context())
		if !ok {
			jsonapi.WriteMessage(w, http.StatusUnauthorized, "no workspace for session")
			return
		}
		var in ProjectInput
		if err := jsonapi.Decode(r, &in); err != nil {
			jsonapi.WriteError(w, err)
			return
		}
		created, err := ctrl.CreateProject(r.Context(), in.toProject(""))
		if err != nil {
			jsonapi.WriteError(w, err)
			return
		}
		rememberActiveProject(r, gw, sessionCache, created.ID)
		jsonapi.WriteJSON(w, http.StatusCreated, created)
	}
}

func UpdateProjectCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, ok := sessioncontext.GetWorkspaceFromContext(r.Context())
		if !ok {
			jsonapi.WriteMessage(w, http.StatusUnauthorized, "no workspace for session")
			return
		}
		var in ProjectInput
		if err := jsonapi.Decode(r, &in); err != nil {
			jsonapi.WriteError(w, err)
			return
		}
		updated, err := ctrl.UpdateProject(r.Context(), in.toProject(chi.URLParam(r, "id")))
		if err != nil {
			jsonapi.WriteError(w, err)
			return
		}
		jsonapi.WriteJSON(w, http.StatusOK, updated)
	}
}

// SelectProjectCommandHandler switches the active project and returns the
// reloaded workspace.
func SelectProjectCommandHandler(gw *store.Gateway, sessionCache *cache.UserSessionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, ok := sessioncontext.GetWorkspaceFromContext(r.Context())
		if !ok {
			jsonapi.WriteMessage(w, http.StatusUnauthorized, "no workspace for session")
			return
		}
		projectID := chi.URLParam(r, "id")
		if err := ctrl.Select(r.Context(), projectID); err != nil {
			jsonapi.WriteError(w, err)
			return
		}
		rememberActiveProject(r, gw, sessionCache, projectID)
		jsonapi.WriteJSON(w, http.StatusOK, ctrl.Snapshot())
	}
}

// CreateProjectFormHandler backs the dashboard's new project form.
func CreateProjectFormHandler(gw *store.Gateway, sessionCache *cache.UserSessionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, ok := sessioncontext.GetWorkspaceFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			redirectDashboard(w, r, "error", "Invalid form data")
			return
		}
		created, err := ctrl.CreateProject(r.Context(), ProjectInput{
			Name:        strings.TrimSpace(r.FormValue("name")),
			TestVersion: strings.TrimSpace(r.FormValue("test_version")),
			Month:       strings.TrimSpace(r.FormValue("month")),
		}.toProject(""))
		if err != nil {
			redirectDashboard(w, r, "error", err.Error())
			return
		}
		rememberActiveProject(r, gw, sessionCache, created.ID)
		redirectDashboard(w, r, "status", "Project created: "+created.Name)
	}
}

func SelectProjectFormHandler(gw *store.Gateway, sessionCache *cache.UserSessionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, ok := sessioncontext.GetWorkspaceFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			redirectDashboard(w, r, "error", "Invalid form data")
			return
		}
		projectID := strings.TrimSpace(r.FormValue("project_id"))
		if err := ctrl.Select(r.Context(), projectID); err != nil {
			redirectDashboard(w, r, "error", "Project not found")
			return
		}
		rememberActiveProject(r, gw, sessionCache, projectID)
		redirectDashboard(w, r, "", "")
	}
}

// rememberActiveProject persists the selection so a new login or another
// server process resumes on the same project. Failures are logged only.
func rememberActiveProject(r *http.Request, gw *store.Gateway, sessionCache *cache.UserSessionCache, projectID string) {
	session, ok := sessioncontext.GetSessionFromContext(r.Context())
	if !ok {
		return
	}
	if err := setSessionActiveProject(r.Context(), gw, sessionCache, session, &projectID); err != nil {
		slog.Error("set session active project failed", slog.String("session_id", session.ID), slog.Any("err", err))
	}
}

func setSessionActiveProject(ctx context.Context, gw *store.Gateway, sessionCache *cache.UserSessionCache, session models.Session, projectID *string) error {
	if err := gw.SetSessionActiveProjectID(ctx, session.ID, projectID); err != nil {
		return err
	}
	session.ActiveProjectID = projectID
	if sessionCache != nil {
		sessionCache.AddSession(session)
	}
	return nil
}

func redirectDashboard(w http.ResponseWriter, r *http.Request, key, msg string) {
	target := "/uat"
	if key != "" && msg != "" {
		target += "?" + key + "=" + url.QueryEscape(msg)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
