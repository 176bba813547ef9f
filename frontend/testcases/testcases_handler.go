package testcases

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	sessioncontext "uattracker/frontend/shared/context"
	"uattracker/frontend/shared/jsonapi"
	"uattracker/infrastructure/store"
	"uattracker/infrastructure/workspace"
)

const maxUploadBytes = 10 << 20

// ImportCommandHandler accepts a multipart "file" upload and returns an
// ImportSummary as JSON.
func ImportCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, ok := sessioncontext.GetWorkspaceFromContext(r.Context())
		if !ok {
			jsonapi.WriteMessage(w, http.StatusUnauthorized, "no workspace for session")
			return
		}
		summary, err := importUpload(r, ctrl)
		if err != nil && summary.Inserted == 0 {
			jsonapi.WriteError(w, err)
			return
		}
		jsonapi.WriteJSON(w, http.StatusOK, summary)
	}
}

// ImportFormHandler is the dashboard variant; it redirects back with a status.
func ImportFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, ok := sessioncontext.GetWorkspaceFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		summary, err := importUpload(r, ctrl)
		if err != nil && summary.Inserted == 0 {
			http.Redirect(w, r, "/uat?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		msg := fmt.Sprintf("Import complete. Inserted: %d, Errors: %d", summary.Inserted, summary.Errors)
		http.Redirect(w, r, "/uat?status="+url.QueryEscape(msg), http.StatusSeeOther)
	}
}

func importUpload(r *http.Request, ctrl *workspace.Controller) (ImportSummary, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return ImportSummary{}, fmt.Errorf("%w: invalid upload", store.ErrInvalidInput)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return ImportSummary{}, fmt.Errorf("%w: missing file", store.ErrInvalidInput)
	}
	defer file.Close()

	cases, err := ParseTestCasesCSV(file)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("%w: %v", store.ErrInvalidInput, err)
	}
	inserted, err := ctrl.ImportTestCases(r.Context(), cases)
	summary := ImportSummary{Inserted: inserted, Errors: len(cases) - inserted}
	if err != nil {
		slog.Warn("test case import had failures", slog.Int("inserted", summary.Inserted), slog.Int("errors", summary.Errors), slog.Any("err", err))
	}
	return summary, err
}
