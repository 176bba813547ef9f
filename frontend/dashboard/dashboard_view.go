package dashboard

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "uattracker/frontend/shared/html"
	"uattracker/infrastructure/workspace"
	"uattracker/models"
)

func DashboardPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(data.Nav.Render())
		b.WriteString(`<main class="page">`)
		if data.Message != "" {
			b.WriteString(`<p class="flash ok">` + esc(data.Message) + `</p>`)
		}
		if data.Error != "" {
			b.WriteString(`<p class="flash err">` + esc(data.Error) + `</p>`)
		}
		if data.Workspace.LastError != "" {
			b.WriteString(`<p class="flash err">Last change failed: ` + esc(data.Workspace.LastError) + `</p>`)
		}

		writeProjectPicker(&b, data)
		if data.Workspace.State == workspace.StateNoProject || data.Workspace.ActiveProject == nil {
			b.WriteString(`<section class="card"><p>No project selected.</p></section></main>`)
			_, err := io.WriteString(w, sharedhtml.RenderLayout("UAT Dashboard", b.String()))
			return err
		}

		p := *data.Workspace.ActiveProject
		s := data.Workspace.Summary
		b.WriteString(`<section class="card"><h2>` + esc(p.Name) + `</h2><p>Version ` + esc(p.TestVersion) + ` &middot; ` + esc(p.Month) + `</p>`)
		b.WriteString(`<table class="summary"><tbody>`)
		for _, row := range [][2]string{
			{"Total Task", strconv.Itoa(s.Total)},
			{"Pass", strconv.Itoa(s.Pass)},
			{"Partial", strconv.Itoa(s.Partial)},
			{"Fail", strconv.Itoa(s.Fail)},
			{"Inapplicable", strconv.Itoa(s.Inapplicable)},
			{"Result %", s.PercentLabel()},
		} {
			b.WriteString(`<tr><th>` + row[0] + `</th><td>` + esc(row[1]) + `</td></tr>`)
		}
		b.WriteString(`</tbody></table>`)
		b.WriteString(`<p class="exports"><a href="/uat/exports/report.html">Report (HTML)</a> <a href="/uat/exports/report.pdf">Report (PDF)</a> <a href="/uat/exports/test-cases.csv">Test cases (CSV)</a></p></section>`)

		b.WriteString(`<section class="card"><h2>Test Cases</h2>`)
		b.WriteString(`<form method="post" action="/uat/test-cases/import" enctype="multipart/form-data"><input type="file" name="file" accept=".csv" required><button type="submit">Import CSV</button></form>`)
		rows := make([][]string, 0, len(data.Workspace.TestCases))
		for _, tc := range data.Workspace.TestCases {
			rows = append(rows, []string{tc.TestNumber, tc.Category, tc.Role, tc.TestScenario, tc.ExpectedResults, tc.ActualResults, string(tc.Status), tc.Remarks})
		}
		writeTable(&b, []string{"Test Number", "Category", "Role", "Test Scenario", "Expected Results", "Actual Results", "Status", "Remarks"}, rows, "No test cases yet.")
		b.WriteString(`</section>`)

		b.WriteString(`<section class="card"><h2>Participants</h2>`)
		rows = make([][]string, 0, len(data.Workspace.Participants))
		for _, pa := range data.Workspace.Participants {
			rows = append(rows, []string{pa.DemoAccount, pa.Role, pa.Name, pa.Email, string(pa.ParticipantType)})
		}
		writeTable(&b, []string{"Demo Account", "Role", "Name", "Email", "Type"}, rows, "No participants yet.")
		b.WriteString(`</section>`)

		b.WriteString(`<section class="card"><h2>Approval Sign-Off</h2>`)
		rows = make([][]string, 0, len(data.Workspace.Approvals))
		for _, a := range data.Workspace.Approvals {
			rows = append(rows, []string{a.Role, a.Name, a.Unit, a.Date, a.VerifiedBy, a.Month})
		}
		writeTable(&b, []string{"Role", "Name", "Unit", "Date", "Verified By", "Month"}, rows, "No sign-offs yet.")
		b.WriteString(`</section>`)

		b.WriteString(`<section class="card"><h2>Recent Changes</h2>`)
		changes := data.Workspace.ChangeLog
		if len(changes) > recentChanges {
			changes = changes[:recentChanges]
		}
		rows = make([][]string, 0, len(changes))
		for _, c := range changes {
			rows = append(rows, []string{c.CreatedAt.Format("02/01/2006 15:04"), c.UserName, string(c.Entity), c.Field, optional(c.OldValue), optional(c.NewValue)})
		}
		writeTable(&b, []string{"When", "User", "Entity", "Field", "Old", "New"}, rows, "No changes recorded.")
		b.WriteString(`</section></main>`)

		_, err := io.WriteString(w, sharedhtml.RenderLayout("UAT Dashboard - "+p.Name, b.String()))
		return err
	})
}

func writeProjectPicker(b *strings.Builder, data PageData) {
	b.WriteString(`<section class="card"><form method="post" action="/uat/projects/select"><label>Project <select name="project_id">`)
	activeID := ""
	if data.Workspace.ActiveProject != nil {
		activeID = data.Workspace.ActiveProject.ID
	}
	for _, p := range data.Workspace.Projects {
		b.WriteString(`<option value="` + esc(p.ID) + `"`)
		if p.ID == activeID {
			b.WriteString(` selected`)
		}
		b.WriteString(`>` + esc(projectLabel(p)) + `</option>`)
	}
	b.WriteString(`</select></label><button type="submit">Open</button></form>`)
	if data.IsAdmin {
		b.WriteString(`<form method="post" action="/uat/projects" class="inline"><input name="name" placeholder="Project name" required><input name="test_version" placeholder="Test version"><input name="month" placeholder="Month"><button type="submit">Create project</button></form>`)
	}
	b.WriteString(`</section>`)
}

func writeTable(b *strings.Builder, headers []string, rows [][]string, empty string) {
	b.WriteString(`<table><thead><tr>`)
	for _, h := range headers {
		b.WriteString(`<th>` + esc(h) + `</th>`)
	}
	b.WriteString(`</tr></thead><tbody>`)
	if len(rows) == 0 {
		b.WriteString(`<tr><td colspan="` + strconv.Itoa(len(headers)) + `">` + esc(empty) + `</td></tr>`)
	}
	for _, row := range rows {
		b.WriteString(`<tr>`)
		for _, cell := range row {
			b.WriteString(`<td>` + esc(cell) + `</td>`)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
}

func projectLabel(p models.Project) string {
	label := p.Name
	if p.TestVersion != "" {
		label += " (" + p.TestVersion + ")"
	}
	if p.Month != "" {
		label += " - " + p.Month
	}
	return label
}

func optional(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}

func esc(s string) string {
	return templ.EscapeString(s)
}
