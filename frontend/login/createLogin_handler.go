package login

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"uattracker/infrastructure/cache"
	sessioncookie "uattracker/infrastructure/session"
	"uattracker/infrastructure/sqlite"
	"uattracker/models"
)

// CreateLoginHandler authenticates the user and issues a session cookie
// valid for ttl.
func CreateLoginHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache, userCache *cache.UserCache, ttl time.Duration) http.HandlerFunc {
	if ttl <= 0 {
		ttl = sessioncookie.DefaultTTL
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			loginFailed(w, r, "invalid form data")
			return
		}

		username := strings.TrimSpace(r.FormValue("username"))
		password := strings.TrimSpace(r.FormValue("password"))
		if username == "" || password == "" {
			loginFailed(w, r, "username and password are required")
			return
		}

		user, err := authenticateUser(r.Context(), db, username, password)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				loginFailed(w, r, "invalid username or password")
				return
			}
			slog.Error("authenticate user failed", slog.String("username", username), slog.Any("err", err))
			loginFailed(w, r, "authentication failed")
			return
		}

		session := newSession(user, ttl)
		if err := persistSession(r.Context(), db, &session); err != nil {
			slog.Error("persist session failed", slog.String("username", username), slog.Any("err", err))
			loginFailed(w, r, "failed to create session")
			return
		}

		sessionCache.AddSession(session)
		userCache.Add(user.Username, user)

		http.SetCookie(w, sessioncookie.SessionCookie(session.ID, int(ttl.Seconds())))
		http.Redirect(w, r, "/uat", http.StatusSeeOther)
	}
}

func newSession(user models.User, ttl time.Duration) models.Session {
	return models.Session{
		ID:        sessioncookie.NewToken(32),
		UserID:    user.ID,
		User:      user,
		UserRoles: []string{user.Role},
		ExpiresAt: sessioncookie.Expiry(ttl),
	}
}

// loginFailed sends the browser back to the sign-in form with msg.
func loginFailed(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/login?error="+url.QueryEscape(msg), http.StatusSeeOther)
}
