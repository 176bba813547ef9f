package exports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"uattracker/infrastructure/results"
	"uattracker/infrastructure/store"
	"uattracker/models"
)

// LoadReportData reads one project and its collections straight from the store.
func LoadReportData(ctx context.Context, gw *store.Gateway, projectID string) (ReportData, error) {
	project, err := gw.LoadProject(ctx, projectID)
	if err != nil {
		return ReportData{}, fmt.Errorf("load project: %w", err)
	}
	testCases := gw.ListTestCases(ctx, projectID)
	return ReportData{
		Project:      project,
		Participants: gw.ListParticipants(ctx, projectID),
		TestCases:    testCases,
		Summary:      results.Summarize(testCases),
		Approvals:    gw.ListApprovals(ctx, projectID),
	}, nil
}

// WriteTestCasesCSV writes one header row and one row per test case.
func WriteTestCasesCSV(w io.Writer, testCases []models.TestCase) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(testCaseHeaders); err != nil {
		return err
	}
	for _, tc := range testCases {
		if err := writer.Write(testCaseCells(tc)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func TestCasesFilename(projectName string) string {
	return projectName + "-test-cases.csv"
}
