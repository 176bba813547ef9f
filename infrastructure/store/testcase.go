package store

import (
	"context"
	"strings"

	"uattracker/models"
)

const testCaseTable = "test_case"

var testCaseColumns = []string{
	"test_number", "category", "role", "test_scenario", "preconditions",
	"test_steps", "expected_results", "actual_results", "status", "remarks",
}

// ListTestCases returns the project's test cases ordered by test number.
func (g *Gateway) ListTestCases(ctx context.Context, projectID string) []models.TestCase {
	rows, err := listByProject[testCaseRow](ctx, g.db, projectID, "test_number ASC, rowid ASC")
	if err != nil {
		g.logReadFailure("list test cases", projectID, err)
		return []models.TestCase{}
	}
	out := make([]models.TestCase, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTestCase(row))
	}
	return out
}

// UpsertTestCase creates tc or overwrites the stored test case with its ID.
func (g *Gateway) UpsertTestCase(ctx context.Context, tc models.TestCase) (models.TestCase, error) {
	if strings.TrimSpace(tc.ProjectID) == "" {
		return models.TestCase{}, writeErr("upsert", testCaseTable, invalid("project id is required"))
	}
	if !tc.Status.Valid() {
		return models.TestCase{}, writeErr("upsert", testCaseTable, invalid("unknown status %q", tc.Status))
	}
	tc.ID = ensureID(tc.ID)

	row := unmapTestCase(tc)
	row.CreatedAt = g.now()
	saved, err := upsertRow(ctx, g.db, &row, row.ID, testCaseColumns)
	if err != nil {
		return models.TestCase{}, writeErr("upsert", testCaseTable, err)
	}
	return mapTestCase(saved), nil
}

// DeleteTestCase removes the test case with id.
func (g *Gateway) DeleteTestCase(ctx context.Context, id string) error {
	return writeErr("delete", testCaseTable, deleteRow[testCaseRow](ctx, g.db, id))
}
