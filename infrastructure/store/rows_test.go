package store

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"uattracker/models"
)

func s(v string) *string { return &v }

func TestMappersRoundTripEntities(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	project := models.Project{ID: "p1", Name: "Release", TestVersion: "1.4", Month: "March", CreatedAt: created}
	if diff := cmp.Diff(project, mapProject(unmapProject(project))); diff != "" {
		t.Fatalf("project round trip (-want +got):\n%s", diff)
	}

	participant := models.Participant{ID: "pa1", ProjectID: "p1", DemoAccount: "demo01", Role: "Cashier", Name: "Jane", Email: "jane@example.com", ParticipantType: models.ParticipantVendor}
	if diff := cmp.Diff(participant, mapParticipant(unmapParticipant(participant))); diff != "" {
		t.Fatalf("participant round trip (-want +got):\n%s", diff)
	}

	tc := models.TestCase{
		ID: "tc1", ProjectID: "p1", TestNumber: "TC-01", Category: "Login", Role: "Cashier",
		TestScenario: "Sign in", Preconditions: "Account exists", TestSteps: "1. open\n2. sign in",
		ExpectedResults: "Dashboard shown", ActualResults: "Dashboard shown", Status: models.StatusPartial, Remarks: `<b>"slow"</b>`,
	}
	if diff := cmp.Diff(tc, mapTestCase(unmapTestCase(tc))); diff != "" {
		t.Fatalf("test case round trip (-want +got):\n%s", diff)
	}

	approval := models.ApprovalSignoff{ID: "a1", ProjectID: "p1", Role: "Sponsor", Name: "Sam", Unit: "Retail", Date: "2025-03-31", SignatureFilePath: "sig/sam.png", VerifiedBy: "QA", Remarks: "approved", Month: "March"}
	if diff := cmp.Diff(approval, mapApproval(unmapApproval(approval))); diff != "" {
		t.Fatalf("approval round trip (-want +got):\n%s", diff)
	}

	change := models.ChangeLogEntry{ID: "c1", ProjectID: "p1", Entity: models.EntityTestCase, EntityID: "tc1", Field: "remarks", OldValue: s("old"), NewValue: s("new"), UserName: "Tess", CreatedAt: created}
	if diff := cmp.Diff(change, mapChange(unmapChange(change))); diff != "" {
		t.Fatalf("change round trip (-want +got):\n%s", diff)
	}
}

func TestMappersRoundTripRows(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	// Entities do not carry created_at for project-scoped rows.
	ignoreCreated := cmpopts.IgnoreFields(participantRow{}, "CreatedAt")

	pr := projectRow{ID: "p1", Name: s("Release"), TestVersion: s("1.4"), Month: s("March"), CreatedAt: created}
	if diff := cmp.Diff(pr, unmapProject(mapProject(pr))); diff != "" {
		t.Fatalf("project row round trip (-want +got):\n%s", diff)
	}

	par := participantRow{ID: "pa1", ProjectID: "p1", DemoAccount: s("demo01"), Role: s("Cashier"), Name: s("Jane"), Email: s("jane@example.com"), ParticipantType: s("internal"), CreatedAt: created}
	if diff := cmp.Diff(par, unmapParticipant(mapParticipant(par)), ignoreCreated); diff != "" {
		t.Fatalf("participant row round trip (-want +got):\n%s", diff)
	}

	tcr := testCaseRow{
		ID: "tc1", ProjectID: "p1", TestNumber: s("TC-01"), Category: s("Login"), Role: s("Cashier"),
		TestScenario: s("Sign in"), Preconditions: s(""), TestSteps: s("steps"), ExpectedResults: s("ok"),
		ActualResults: s("ok"), Status: s("Fail"), Remarks: s("flaky"),
	}
	if diff := cmp.Diff(tcr, unmapTestCase(mapTestCase(tcr))); diff != "" {
		t.Fatalf("test case row round trip (-want +got):\n%s", diff)
	}

	ar := approvalRow{ID: "a1", ProjectID: "p1", Role: s("Sponsor"), Name: s("Sam"), Unit: s("Retail"), Date: s("2025-03-31"), SignatureFilePath: s(""), VerifiedBy: s("QA"), Remarks: s("ok"), Month: s("March")}
	if diff := cmp.Diff(ar, unmapApproval(mapApproval(ar))); diff != "" {
		t.Fatalf("approval row round trip (-want +got):\n%s", diff)
	}

	cr := changeLogRow{ID: "c1", ProjectID: "p1", Entity: "participant", EntityID: "pa1", Field: "deleted", OldValue: s("Jane"), UserName: s("Tess"), CreatedAt: created}
	if diff := cmp.Diff(cr, unmapChange(mapChange(cr))); diff != "" {
		t.Fatalf("change row round trip (-want +got):\n%s", diff)
	}
}

func TestMappersNormalizeNulls(t *testing.T) {
	p := mapParticipant(participantRow{ID: "pa1", ProjectID: "p1"})
	if p.ParticipantType != models.ParticipantExternal || p.Name != "" {
		t.Fatalf("expected null participant fields to normalize, got %+v", p)
	}

	c := mapChange(changeLogRow{ID: "c1", ProjectID: "p1", Entity: "project", EntityID: "p1", Field: "name"})
	if c.UserName != "Unknown" {
		t.Fatalf("expected Unknown for null user name, got %q", c.UserName)
	}
	blank := ""
	if c := mapChange(changeLogRow{ID: "c2", UserName: &blank}); c.UserName != "" {
		t.Fatalf("expected empty stored user name kept, got %q", c.UserName)
	}
	if c.OldValue != nil || c.NewValue != nil {
		t.Fatalf("expected null change values kept as nil")
	}
}
