package testcases

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"uattracker/models"
)

// ImportSummary reports the outcome of one CSV import.
type ImportSummary struct {
	Inserted int `json:"inserted"`
	Errors   int `json:"errors"`
}

// columns maps CSV header names to test case fields.
var columns = map[string]func(*models.TestCase, string){
	"Test Number":      func(tc *models.TestCase, v string) { tc.TestNumber = v },
	"Category":         func(tc *models.TestCase, v string) { tc.Category = v },
	"Role":             func(tc *models.TestCase, v string) { tc.Role = v },
	"Test Scenario":    func(tc *models.TestCase, v string) { tc.TestScenario = v },
	"Preconditions":    func(tc *models.TestCase, v string) { tc.Preconditions = v },
	"Test Steps":       func(tc *models.TestCase, v string) { tc.TestSteps = v },
	"Expected Results": func(tc *models.TestCase, v string) { tc.ExpectedResults = v },
	"Actual Results":   func(tc *models.TestCase, v string) { tc.ActualResults = v },
	"Status":           func(tc *models.TestCase, v string) { tc.Status = models.TestStatus(v) },
	"Remarks":          func(tc *models.TestCase, v string) { tc.Remarks = v },
}

var columnOrder = []string{
	"Test Number", "Category", "Role", "Test Scenario", "Preconditions",
	"Test Steps", "Expected Results", "Actual Results", "Status", "Remarks",
}

// ImportColumns lists the recognised header names in export order.
func ImportColumns() []string {
	return append([]string(nil), columnOrder...)
}

// ParseTestCasesCSV reads a header row and one test case per data row.
// Columns are matched by trimmed header name; absent columns and short rows
// leave fields empty. Blank rows are skipped. Returned cases have no ID or
// project.
func ParseTestCasesCSV(r io.Reader) ([]models.TestCase, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	setters := make([]func(*models.TestCase, string), len(header))
	matched := 0
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if set, ok := columns[name]; ok {
			setters[i] = set
			matched++
		}
	}
	if matched == 0 {
		return nil, fmt.Errorf("invalid CSV header; expected columns such as Test Number,Test Scenario,Status")
	}

	out := make([]models.TestCase, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return out, fmt.Errorf("read row %d: %w", len(out)+2, err)
		}
		if blank(record) {
			continue
		}
		var tc models.TestCase
		for i, v := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](&tc, v)
			}
		}
		out = append(out, tc)
	}
	return out, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
