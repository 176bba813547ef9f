// Package jsonapi writes JSON responses for the /uat/api handlers.
package jsonapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"uattracker/infrastructure/store"
	"uattracker/infrastructure/workspace"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json response failed", slog.Any("err", err))
	}
}

func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Error: msg})
}

// WriteError maps a mutation error to its HTTP status.
func WriteError(w http.ResponseWriter, err error) {
	WriteMessage(w, StatusFor(err), err.Error())
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrForeignRecord),
		errors.Is(err, workspace.ErrUnknownRecord),
		errors.Is(err, workspace.ErrUnknownProject):
		return http.StatusNotFound
	case errors.Is(err, workspace.ErrNoActiveProject):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads one JSON value from the request body. Unknown fields are rejected.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", store.ErrInvalidInput, err)
	}
	return nil
}
