package dashboard

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	sessioncontext "uattracker/frontend/shared/context"
	"uattracker/frontend/shared/jsonapi"
	"uattracker/infrastructure/workspace"
	"uattracker/models"
)

// FieldUpdate is the body of a single field edit.
type FieldUpdate struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type summaryBody struct {
	Total         int     `json:"total"`
	Pass          int     `json:"pass"`
	Partial       int     `json:"partial"`
	Fail          int     `json:"fail"`
	Inapplicable  int     `json:"inapplicable"`
	ResultPercent float64 `json:"resultPercent"`
	Label         string  `json:"label"`
}

func WorkspaceQueryHandler() http.HandlerFunc {
	return withController(func(w http.ResponseWriter, r *http.Request, ctrl *workspace.Controller) {
		jsonapi.WriteJSON(w, http.StatusOK, ctrl.Snapshot())
	})
}

func SummaryQueryHandler() http.HandlerFunc {
	return withController(func(w http.ResponseWriter, r *http.Request, ctrl *workspace.Controller) {
		s := ctrl.Summary()
		jsonapi.WriteJSON(w, http.StatusOK, summaryBody{
			Total:         s.Total,
			Pass:          s.Pass,
			Partial:       s.Partial,
			Fail:          s.Fail,
			Inapplicable:  s.Inapplicable,
			ResultPercent: s.ResultPercent,
			Label:         s.PercentLabel(),
		})
	})
}

func ChangesQueryHandler() http.HandlerFunc {
	return listQuery(func(s workspace.Snapshot) []models.ChangeLogEntry { return s.ChangeLog })
}

func TestCasesQueryHandler() http.HandlerFunc {
	return listQuery(func(s workspace.Snapshot) []models.TestCase { return s.TestCases })
}

func SaveTestCaseCommandHandler() http.HandlerFunc {
	return saveCommand((*workspace.Controller).SaveTestCase)
}

func DeleteTestCaseCommandHandler() http.HandlerFunc {
	return removeCommand((*workspace.Controller).RemoveTestCase)
}

// PatchTestCaseCommandHandler sets one field, e.g. status during execution.
func PatchTestCaseCommandHandler() http.HandlerFunc {
	return withController(func(w http.ResponseWriter, r *http.Request, ctrl *workspace.Controller) {
		var body FieldUpdate
		if err := jsonapi.Decode(r, &body); err != nil {
			jsonapi.WriteError(w, err)
			return
		}
		saved, err := ctrl.UpdateTestCaseField(r.Context(), chi.URLParam(r, "id"), body.Field, body.Value)
		if err != nil {
			jsonapi.WriteError(w, err)
			return
		}
		jsonapi.WriteJSON(w, http.StatusOK, saved)
	})
}

func ParticipantsQueryHandler() http.HandlerFunc {
	return listQuery(func(s workspace.Snapshot) []models.Participant { return s.Participants })
}

func SaveParticipantCommandHandler() http.HandlerFunc {
	return saveCommand((*workspace.Controller).SaveParticipant)
}

func DeleteParticipantCommandHandler() http.HandlerFunc {
	return removeCommand((*workspace.Controller).RemoveParticipant)
}

func ApprovalsQueryHandler() http.HandlerFunc {
	return listQuery(func(s workspace.Snapshot) []models.ApprovalSignoff { return s.Approvals })
}

func SaveApprovalCommandHandler() http.HandlerFunc {
	return saveCommand((*workspace.Controller).SaveApproval)
}

func DeleteApprovalCommandHandler() http.HandlerFunc {
	return removeCommand((*workspace.Controller).RemoveApproval)
}

func withController(fn func(http.ResponseWriter, *http.Request, *workspace.Controller)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, ok := sessioncontext.GetWorkspaceFromContext(r.Context())
		if !ok {
			jsonapi.WriteMessage(w, http.StatusUnauthorized, "no workspace for session")
			return
		}
		fn(w, r, ctrl)
	}
}

func listQuery[T any](pick func(workspace.Snapshot) []T) http.HandlerFunc {
	return withController(func(w http.ResponseWriter, r *http.Request, ctrl *workspace.Controller) {
		jsonapi.WriteJSON(w, http.StatusOK, pick(ctrl.Snapshot()))
	})
}

func saveCommand[T any](save func(*workspace.Controller, context.Context, T) (T, error)) http.HandlerFunc {
	return withController(func(w http.ResponseWriter, r *http.Request, ctrl *workspace.Controller) {
		var item T
		if err := jsonapi.Decode(r, &item); err != nil {
			jsonapi.WriteError(w, err)
			return
		}
		saved, err := save(ctrl, r.Context(), item)
		if err != nil {
			jsonapi.WriteError(w, err)
			return
		}
		jsonapi.WriteJSON(w, http.StatusOK, saved)
	})
}

func removeCommand(remove func(*workspace.Controller, context.Context, string) error) http.HandlerFunc {
	return withController(func(w http.ResponseWriter, r *http.Request, ctrl *workspace.Controller) {
		if err := remove(ctrl, r.Context(), chi.URLParam(r, "id")); err != nil {
			jsonapi.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
