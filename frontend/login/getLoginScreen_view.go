package login

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "uattracker/frontend/shared/html"
)

// GetLoginScreenHandler renders the sign-in form with the ?status or ?error
// message of the previous redirect.
func GetLoginScreenHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := GetLoginScreen(q.Get("status"), q.Get("error")).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func GetLoginScreen(statusMessage, errorMessage string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main class="login"><h1>UAT Tracker</h1>`)
		if statusMessage != "" {
			b.WriteString(`<p class="flash ok">` + templ.EscapeString(statusMessage) + `</p>`)
		}
		if errorMessage != "" {
			b.WriteString(`<p class="flash err">` + templ.EscapeString(errorMessage) + `</p>`)
		}
		b.WriteString(`<form method="post" action="/login">`)
		b.WriteString(`<label>Username <input name="username" autocomplete="username" required autofocus></label>`)
		b.WriteString(`<label>Password <input type="password" name="password" autocomplete="current-password" required></label>`)
		b.WriteString(`<button type="submit">Sign in</button></form></main>`)
		_, err := io.WriteString(w, sharedhtml.RenderLayout("Sign in - UAT Tracker", b.String()))
		return err
	})
}
