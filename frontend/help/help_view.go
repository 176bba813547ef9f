package help

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "uattracker/frontend/shared/html"
	"uattracker/frontend/testcases"
)

func HelpPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(data.Nav.Render())
		b.WriteString(`<main class="page"><h1>Help</h1>`)
		if data.ActiveProject != "" {
			b.WriteString(`<p>Active project: <strong>` + templ.EscapeString(data.ActiveProject) + `</strong></p>`)
		}

		b.WriteString(`<section class="card"><h2>Your role</h2><ul>`)
		if data.Nav.IsAdmin {
			b.WriteString(`<li>Create and rename projects.</li><li>Manage participants and approval sign-offs.</li><li>Create user accounts.</li>`)
		}
		b.WriteString(`<li>Select the active project.</li><li>Author, execute and import test cases.</li><li>Download the final report and the test case CSV.</li></ul></section>`)

		b.WriteString(`<section class="card"><h2>Test statuses</h2><table><tbody>`)
		for _, s := range statuses {
			b.WriteString(`<tr><th>` + templ.EscapeString(string(s.Status)) + `</th><td>` + templ.EscapeString(s.Meaning) + `</td></tr>`)
		}
		b.WriteString(`<tr><th>(empty)</th><td>Not executed yet. Counted only in the total.</td></tr></tbody></table></section>`)

		b.WriteString(`<section class="card"><h2>CSV import</h2><p>The first row names the columns. Recognised columns:</p><p><code>`)
		b.WriteString(templ.EscapeString(strings.Join(testcases.ImportColumns(), ", ")))
		b.WriteString(`</code></p><p>Imported rows are appended to the active project.</p></section></main>`)

		_, err := io.WriteString(w, sharedhtml.RenderLayout("Help - UAT Tracker", b.String()))
		return err
	})
}
