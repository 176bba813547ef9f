package adminusers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"uattracker/frontend/login"
	"uattracker/frontend/shared/context"
	"uattracker/frontend/shared/nav"
	"uattracker/infrastructure/sqlite"
)

const usersPath = "/uat/admin/users"

// UsersPageQueryHandler renders the admin users list page.
func UsersPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		data, err := LoadUsersPageData(r.Context(), db)
		if err != nil {
			slog.Error("admin users: failed to load data", slog.Any("err", err))
			http.Error(w, "failed to load users", http.StatusInternalServerError)
			return
		}

		data.Nav = nav.BuildTopNavData(session)
		data.Status = r.URL.Query().Get("status")
		data.ErrorMessage = r.URL.Query().Get("error")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := UsersListPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render users page", http.StatusInternalServerError)
			return
		}
	}
}

func CreateUserCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := context.GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, usersPath+"?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		in := login.UserInput{
			Username:    strings.TrimSpace(r.FormValue("username")),
			DisplayName: strings.TrimSpace(r.FormValue("display_name")),
			Email:       strings.TrimSpace(r.FormValue("email")),
			Role:        strings.TrimSpace(r.FormValue("role")),
			IsInternal:  r.FormValue("is_internal") != "",
			Password:    strings.TrimSpace(r.FormValue("password")),
		}
		// Validation and password policy messages are safe to show as-is.
		if err := CreateUser(r.Context(), db, in); err != nil {
			http.Redirect(w, r, usersPath+"?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}

		http.Redirect(w, r, usersPath+"?status="+url.QueryEscape("user created"), http.StatusSeeOther)
	}
}
