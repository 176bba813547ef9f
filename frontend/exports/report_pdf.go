package exports

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strconv"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 10.0
	pdfLineHeight = 4.5
	pdfFontSize   = 8.0
)

// RenderReportPDF lays out the same five sections as the HTML report on
// landscape A4 pages. The project id is printed as a Code 128 barcode.
func RenderReportPDF(data ReportData, printedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle("UAT Report - "+data.Project.Name, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*pdfMargin

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(contentW, 10, "UAT Final Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 8, "Project Information", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range [][2]string{
		{"Name", data.Project.Name},
		{"Test Version", data.Project.TestVersion},
		{"Month", data.Project.Month},
		{"Printed", printedAt.Format("02/01/2006 15:04")},
	} {
		pdf.CellFormat(contentW*0.6, 6, tr(line[0]+": "+line[1]), "", 1, "L", false, 0, "")
	}

	if ref := strings.TrimSpace(data.Project.ID); ref != "" {
		barcodePNG, err := renderCode128PNG(ref, 1200, 200)
		if err != nil {
			return nil, fmt.Errorf("project barcode: %w", err)
		}
		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader("project-ref", opt, bytes.NewReader(barcodePNG))
		imgW, imgH := 100.0, 16.0
		x := pageW - pdfMargin - imgW
		y := pdfMargin + 12
		pdf.ImageOptions("project-ref", x, y, imgW, imgH, false, opt, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(x, y+imgH+1)
		pdf.CellFormat(imgW, 4, ref, "", 0, "C", false, 0, "")
		pdf.SetXY(pdfMargin, y+imgH+8)
	}

	rows := make([][]string, 0, len(data.Participants))
	for _, p := range data.Participants {
		rows = append(rows, participantCells(p))
	}
	writePDFTable(pdf, tr, "Participant List", participantHeaders, rows, "No participants recorded.")

	rows = make([][]string, 0, len(data.TestCases))
	for _, tc := range data.TestCases {
		rows = append(rows, testCaseCells(tc))
	}
	writePDFTable(pdf, tr, "Test Case Table", testCaseHeaders, rows, "No test cases recorded.")

	s := data.Summary
	writePDFTable(pdf, tr, "Results Summary", []string{"Total Task", "Pass", "Partial", "Fail", "Inapplicable", "Result %"}, [][]string{{
		strconv.Itoa(s.Total), strconv.Itoa(s.Pass), strconv.Itoa(s.Partial),
		strconv.Itoa(s.Fail), strconv.Itoa(s.Inapplicable), s.PercentLabel(),
	}}, "")

	rows = make([][]string, 0, len(data.Approvals))
	for _, a := range data.Approvals {
		rows = append(rows, approvalCells(a))
	}
	writePDFTable(pdf, tr, "Approval Sign-Off", approvalHeaders, rows, "No sign-offs recorded.")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writePDFTable(pdf *gofpdf.Fpdf, tr func(string) string, title string, headers []string, rows [][]string, empty string) {
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*pdfMargin
	colW := contentW / float64(len(headers))

	ensureSpace(pdf, 8+2*pdfLineHeight)
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 8, tr(title), "", 1, "L", false, 0, "")

	header := func() {
		pdf.SetFont("Helvetica", "B", pdfFontSize)
		pdf.SetFillColor(226, 232, 240)
		writePDFRow(pdf, tr, headers, colW, true)
		pdf.SetFont("Helvetica", "", pdfFontSize)
	}
	header()

	if len(rows) == 0 {
		ensureSpace(pdf, pdfLineHeight+2)
		pdf.CellFormat(contentW, pdfLineHeight+2, tr(empty), "1", 1, "L", false, 0, "")
		return
	}
	for _, row := range rows {
		if ensureSpace(pdf, rowHeight(pdf, tr, row, colW)) {
			header()
		}
		writePDFRow(pdf, tr, row, colW, false)
	}
}

// ensureSpace starts a new page when h does not fit. It reports whether it did.
func ensureSpace(pdf *gofpdf.Fpdf, h float64) bool {
	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+h <= pageH-pdfMargin {
		return false
	}
	pdf.AddPage()
	return true
}

func rowHeight(pdf *gofpdf.Fpdf, tr func(string) string, cells []string, colW float64) float64 {
	lines := 1
	for _, cell := range cells {
		if n := len(pdf.SplitLines([]byte(tr(cell)), colW-2)); n > lines {
			lines = n
		}
	}
	return float64(lines)*pdfLineHeight + 2
}

func writePDFRow(pdf *gofpdf.Fpdf, tr func(string) string, cells []string, colW float64, fill bool) {
	h := rowHeight(pdf, tr, cells, colW)
	x, y := pdf.GetXY()
	style := "D"
	if fill {
		style = "FD"
	}
	for i, cell := range cells {
		cx := x + float64(i)*colW
		pdf.Rect(cx, y, colW, h, style)
		pdf.SetXY(cx+1, y+1)
		pdf.MultiCell(colW-2, pdfLineHeight, tr(cell), "", "L", false)
	}
	pdf.SetXY(x, y+h)
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
