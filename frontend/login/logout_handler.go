package login

import (
	"log/slog"
	"net/http"

	"uattracker/infrastructure/cache"
	sessioncookie "uattracker/infrastructure/session"
	"uattracker/infrastructure/sqlite"
)

// LogoutHandler removes session state, drops the session's workspace and
// clears the cookie.
func LogoutHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache, workspaces *cache.WorkspaceCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessioncookie.CookieName)
		if err == nil && cookie.Value != "" {
			sessionCache.DeleteSessionBySessionToken(cookie.Value)
			if workspaces != nil {
				workspaces.Delete(cookie.Value)
			}
			if err := ExpireSessionByToken(r.Context(), db, cookie.Value); err != nil {
				slog.Error("expire session failed", slog.Any("err", err))
			}
		}
		http.SetCookie(w, sessioncookie.SessionCookie("", -1))
		http.Redirect(w, r, "/login?status=signed+out", http.StatusSeeOther)
	}
}
