package adminusers

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "uattracker/frontend/shared/html"
)

func UsersListPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(data.Nav.Render())
		b.WriteString(`<main class="page"><h1>Users</h1>`)
		if data.Status != "" {
			b.WriteString(`<p class="flash ok">` + templ.EscapeString(data.Status) + `</p>`)
		}
		if data.ErrorMessage != "" {
			b.WriteString(`<p class="flash err">` + templ.EscapeString(data.ErrorMessage) + `</p>`)
		}

		b.WriteString(`<section class="card"><table><thead><tr><th>ID</th><th>Username</th><th>Name</th><th>Email</th><th>Role</th><th>Access</th></tr></thead><tbody>`)
		if len(data.Users) == 0 {
			b.WriteString(`<tr><td colspan="6">No users.</td></tr>`)
		}
		for _, u := range data.Users {
			access := "External"
			if u.IsInternal {
				access = "Internal"
			}
			b.WriteString(`<tr><td>` + strconv.FormatInt(u.ID, 10) + `</td>`)
			for _, v := range []string{u.Username, u.DisplayName, u.Email, u.Role, access} {
				b.WriteString(`<td>` + templ.EscapeString(v) + `</td>`)
			}
			b.WriteString(`</tr>`)
		}
		b.WriteString(`</tbody></table></section>`)

		b.WriteString(`<section class="card"><h2>Add user</h2><form method="post" action="` + usersPath + `">`)
		b.WriteString(`<label>Username <input name="username" required></label>`)
		b.WriteString(`<label>Display name <input name="display_name"></label>`)
		b.WriteString(`<label>Email <input type="email" name="email"></label>`)
		b.WriteString(`<label>Role <select name="role"><option value="tester">tester</option><option value="admin">admin</option></select></label>`)
		b.WriteString(`<label><input type="checkbox" name="is_internal" value="1" checked> Internal</label>`)
		b.WriteString(`<label>Password <input type="password" name="password" required></label>`)
		b.WriteString(`<button type="submit">Create</button></form></section></main>`)

		_, err := io.WriteString(w, sharedhtml.RenderLayout("Users - UAT Tracker", b.String()))
		return err
	})
}
