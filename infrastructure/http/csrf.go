package http

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"uattracker/frontend/shared/jsonapi"
	sessioncookie "uattracker/infrastructure/session"
)

const (
	csrfCookieName = "X-CSRF-Token"
	csrfHeaderName = "X-CSRF-Token"
	csrfFormField  = "_csrf"
)

// CSRFMiddleware implements a double-submit cookie. State-changing requests
// must echo the cookie in the X-CSRF-Token header or the _csrf form field.
// A request without any token is let through only when its Origin or Referer
// names this host.
func (s *Server) CSRFMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie := ensureCSRFToken(w, r)
		if isSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		switch provided := providedCSRFToken(r); {
		case provided == "" && sameOrigin(r):
		case provided != "" && subtle.ConstantTimeCompare([]byte(cookie), []byte(provided)) == 1:
		default:
			s.Logger.Warn("csrf check failed", slog.String("method", r.Method), slog.String("path", r.URL.Path))
			if isAPIPath(r.URL.Path) {
				jsonapi.WriteMessage(w, http.StatusForbidden, "invalid csrf token")
				return
			}
			http.Error(w, "invalid csrf token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func providedCSRFToken(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(csrfHeaderName)); v != "" {
		return v
	}
	return strings.TrimSpace(r.FormValue(csrfFormField))
}

// sameOrigin reports whether Origin, or Referer when Origin is absent, names
// the request host.
func sameOrigin(r *http.Request) bool {
	source := r.Header.Get("Origin")
	if source == "" {
		source = r.Header.Get("Referer")
	}
	u, err := url.Parse(source)
	if source == "" || err != nil {
		return false
	}
	return u.Host != "" && strings.EqualFold(u.Host, r.Host)
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions || method == http.MethodTrace
}

// ensureCSRFToken returns the request's token cookie, issuing one if absent.
// The cookie stays readable by scripts so pages can echo it.
func ensureCSRFToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(csrfCookieName); err == nil && strings.TrimSpace(c.Value) != "" {
		return c.Value
	}
	token := sessioncookie.NewToken(32)
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	return token
}
