package html

import (
	"strings"

	"github.com/a-h/templ"
)

// RenderLayout wraps body in the page shell. The title is escaped here; body
// is written as is.
func RenderLayout(title, body string) string {
	var b strings.Builder
	b.WriteString(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	b.WriteString(`<title>` + templ.EscapeString(title) + `</title>`)
	b.WriteString(`<link rel="stylesheet" href="/assets/app.css"></head><body>`)
	b.WriteString(body)
	b.WriteString(CSRFScript())
	b.WriteString(`</body></html>`)
	return b.String()
}
