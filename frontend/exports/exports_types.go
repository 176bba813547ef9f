package exports

import (
	"uattracker/infrastructure/results"
	"uattracker/models"
)

// ReportData is everything one report needs. Collections are rendered in
// the order given.
type ReportData struct {
	Project      models.Project
	Participants []models.Participant
	TestCases    []models.TestCase
	Summary      results.Summary
	Approvals    []models.ApprovalSignoff
}

const (
	ExportTypeReportHTML   = "report_html"
	ExportTypeReportPDF    = "report_pdf"
	ExportTypeTestCasesCSV = "test_cases_csv"
)

var participantHeaders = []string{"Demo Account", "Role", "Name", "Email", "Participant Type"}

var testCaseHeaders = []string{
	"Test Number", "Category", "Role", "Test Scenario", "Preconditions",
	"Test Steps", "Expected Results", "Actual Results", "Status", "Remarks",
}

var approvalHeaders = []string{"Role", "Name", "Unit", "Date", "Signature File Path", "Verified By", "Remarks", "Month"}

func participantCells(p models.Participant) []string {
	return []string{p.DemoAccount, p.Role, p.Name, p.Email, string(p.ParticipantType)}
}

func testCaseCells(tc models.TestCase) []string {
	return []string{
		tc.TestNumber, tc.Category, tc.Role, tc.TestScenario, tc.Preconditions,
		tc.TestSteps, tc.ExpectedResults, tc.ActualResults, string(tc.Status), tc.Remarks,
	}
}

func approvalCells(a models.ApprovalSignoff) []string {
	return []string{a.Role, a.Name, a.Unit, a.Date, a.SignatureFilePath, a.VerifiedBy, a.Remarks, a.Month}
}
