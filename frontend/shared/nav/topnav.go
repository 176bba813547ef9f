package nav

import (
	"strings"

	"github.com/a-h/templ"

	"uattracker/infrastructure/rbac"
	"uattracker/models"
)

// TopNavData is shared with page renderers.
type TopNavData struct {
	Username    string
	DisplayName string
	Role        string
	IsAdmin     bool
}

func BuildTopNavData(session models.Session) TopNavData {
	name := session.User.DisplayName
	if name == "" {
		name = session.User.Username
	}
	return TopNavData{
		Username:    session.User.Username,
		DisplayName: name,
		Role:        session.User.Role,
		IsAdmin:     session.User.Role == rbac.RoleAdmin,
	}
}

// Render returns the top navigation bar markup.
func (d TopNavData) Render() string {
	var b strings.Builder
	b.WriteString(`<nav class="topnav"><a href="/uat">Dashboard</a>`)
	if d.IsAdmin {
		b.WriteString(`<a href="/uat/admin/users">Users</a>`)
	}
	b.WriteString(`<a href="/uat/help">Help</a>`)
	b.WriteString(`<span class="who">`)
	b.WriteString(templ.EscapeString(d.DisplayName))
	b.WriteString(` (`)
	b.WriteString(templ.EscapeString(d.Role))
	b.WriteString(`)</span><form method="post" action="/logout"><button type="submit">Log out</button></form></nav>`)
	return b.String()
}
