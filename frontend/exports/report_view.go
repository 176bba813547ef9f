package exports

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

const reportStyles = `
:root { color-scheme: light; }
body { font-family: "Inter", system-ui, -apple-system, sans-serif; color: #0f172a; margin: 24px; background: #f8fafc; }
h1, h2 { margin: 0 0 8px; }
h1 { font-size: 22px; }
h2 { font-size: 16px; color: #0f172a; }
table { width: 100%; border-collapse: collapse; margin-top: 8px; }
th, td { border: 1px solid #cbd5e1; padding: 10px; text-align: left; vertical-align: top; font-size: 12px; }
th { background: #e2e8f0; color: #0f172a; }
tbody tr:nth-child(even) { background: #fff; }
tbody tr:nth-child(odd) { background: #f8fafc; }
.section { margin-bottom: 24px; padding: 12px; background: #ffffff; border: 1px solid #e2e8f0; border-radius: 12px; }
`

// ReportDocument renders the complete standalone report page.
func ReportDocument(data ReportData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!doctype html><html><head><meta charset="UTF-8"><title>UAT Report - `)
		b.WriteString(templ.EscapeString(data.Project.Name))
		b.WriteString(`</title><style>`)
		b.WriteString(reportStyles)
		b.WriteString(`</style></head><body><h1>UAT Final Report</h1>`)

		b.WriteString(`<div class="section"><h2>Project Information</h2>`)
		writeMeta(&b, "Name", data.Project.Name)
		writeMeta(&b, "Test Version", data.Project.TestVersion)
		writeMeta(&b, "Month", data.Project.Month)
		b.WriteString(`</div>`)

		rows := make([][]string, 0, len(data.Participants))
		for _, p := range data.Participants {
			rows = append(rows, participantCells(p))
		}
		writeTableSection(&b, "Participant List", participantHeaders, rows, "No participants recorded.")

		rows = make([][]string, 0, len(data.TestCases))
		for _, tc := range data.TestCases {
			rows = append(rows, testCaseCells(tc))
		}
		writeTableSection(&b, "Test Case Table", testCaseHeaders, rows, "No test cases recorded.")

		s := data.Summary
		b.WriteString(`<div class="section"><h2>Results Summary</h2><table><tbody>`)
		writeSummaryRow(&b, "Total Task", strconv.Itoa(s.Total))
		writeSummaryRow(&b, "Pass", strconv.Itoa(s.Pass))
		writeSummaryRow(&b, "Partial", strconv.Itoa(s.Partial))
		writeSummaryRow(&b, "Fail", strconv.Itoa(s.Fail))
		writeSummaryRow(&b, "Inapplicable", strconv.Itoa(s.Inapplicable))
		writeSummaryRow(&b, "Result %", s.PercentLabel())
		b.WriteString(`</tbody></table></div>`)

		rows = make([][]string, 0, len(data.Approvals))
		for _, a := range data.Approvals {
			rows = append(rows, approvalCells(a))
		}
		writeTableSection(&b, "Approval Sign-Off", approvalHeaders, rows, "No sign-offs recorded.")

		b.WriteString(`</body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeMeta(b *strings.Builder, label, value string) {
	b.WriteString(`<p><strong>`)
	b.WriteString(label)
	b.WriteString(`:</strong> `)
	b.WriteString(templ.EscapeString(value))
	b.WriteString(`</p>`)
}

func writeSummaryRow(b *strings.Builder, label, value string) {
	b.WriteString(`<tr><th>`)
	b.WriteString(templ.EscapeString(label))
	b.WriteString(`</th><td>`)
	b.WriteString(templ.EscapeString(value))
	b.WriteString(`</td></tr>`)
}

// writeTableSection renders one row per entry, or a single placeholder row
// spanning every column when rows is empty.
func writeTableSection(b *strings.Builder, title string, headers []string, rows [][]string, empty string) {
	b.WriteString(`<div class="section"><h2>`)
	b.WriteString(templ.EscapeString(title))
	b.WriteString(`</h2><table><thead><tr>`)
	for _, h := range headers {
		b.WriteString(`<th>`)
		b.WriteString(templ.EscapeString(h))
		b.WriteString(`</th>`)
	}
	b.WriteString(`</tr></thead><tbody>`)
	if len(rows) == 0 {
		b.WriteString(`<tr><td colspan="`)
		b.WriteString(strconv.Itoa(len(headers)))
		b.WriteString(`">`)
		b.WriteString(templ.EscapeString(empty))
		b.WriteString(`</td></tr>`)
	}
	for _, row := range rows {
		b.WriteString(`<tr>`)
		for _, cell := range row {
			b.WriteString(`<td>`)
			b.WriteString(templ.EscapeString(cell))
			b.WriteString(`</td>`)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table></div>`)
}

// RenderReportHTML returns the report as one complete document.
func RenderReportHTML(ctx context.Context, data ReportData) ([]byte, error) {
	var buf bytes.Buffer
	if err := ReportDocument(data).Render(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReportFilename suggests a download name. The project name is used as is.
func ReportFilename(projectName string) string {
	return "uat-report-" + projectName + ".html"
}

// ReportPDFFilename is ReportFilename with a .pdf extension.
func ReportPDFFilename(projectName string) string {
	return strings.TrimSuffix(ReportFilename(projectName), ".html") + ".pdf"
}
