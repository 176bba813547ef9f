package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"uattracker/infrastructure/sqlite"
	"uattracker/models"
)

func openStoreTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "store-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	g := NewGateway(openStoreTestDB(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	g.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return g
}

func mustCreateProject(t *testing.T, g *Gateway, name string) models.Project {
	t.Helper()
	p, err := g.CreateProject(context.Background(), models.Project{Name: name, TestVersion: "v1", Month: "March"})
	if err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return p
}

func TestProjectsListNewestFirst(t *testing.T) {
	g := newTestGateway(t)

	first := mustCreateProject(t, g, "First")
	second := mustCreateProject(t, g, "Second")

	projects := g.ListProjects(context.Background())
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if projects[0].ID != second.ID || projects[1].ID != first.ID {
		t.Fatalf("expected newest first, got %s then %s", projects[0].Name, projects[1].Name)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatalf("expected generated id and created_at, got %+v", first)
	}
}

func TestCreateProjectRequiresName(t *testing.T) {
	g := newTestGateway(t)

	_, err := g.CreateProject(context.Background(), models.Project{Name: "  "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var writeErr *WriteError
	if !errors.As(err, &writeErr) || writeErr.Table != "uat_project" {
		t.Fatalf("expected WriteError for uat_project, got %#v", err)
	}
}

func TestUpdateProject(t *testing.T) {
	g := newTestGateway(t)
	p := mustCreateProject(t, g, "Release")

	p.Name = "Release 2"
	p.TestVersion = "v2"
	updated, err := g.UpdateProject(context.Background(), p)
	if err != nil {
		t.Fatalf("update project: %v", err)
	}
	if updated.Name != "Release 2" || updated.TestVersion != "v2" || updated.Month != "March" {
		t.Fatalf("unexpected updated project: %+v", updated)
	}
	if !updated.CreatedAt.Equal(p.CreatedAt) {
		t.Fatalf("created_at changed on update: %v -> %v", p.CreatedAt, updated.CreatedAt)
	}

	_, err = g.UpdateProject(context.Background(), models.Project{ID: "missing", Name: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing project, got %v", err)
	}
}

func TestUpsertTestCaseIsIdempotentOnID(t *testing.T) {
	g := newTestGateway(t)
	p := mustCreateProject(t, g, "UAT")
	ctx := context.Background()

	tc, err := g.UpsertTestCase(ctx, models.TestCase{ProjectID: p.ID, TestNumber: "TC-01", TestScenario: "Login"})
	if err != nil {
		t.Fatalf("insert test case: %v", err)
	}
	if tc.ID == "" {
		t.Fatalf("expected generated id")
	}

	tc.Status = models.StatusPass
	tc.Remarks = "ok"
	saved, err := g.UpsertTestCase(ctx, tc)
	if err != nil {
		t.Fatalf("update test case: %v", err)
	}
	if saved != tc {
		t.Fatalf("expected stored test case %+v, got %+v", tc, saved)
	}

	list := g.ListTestCases(ctx, p.ID)
	if len(list) != 1 {
		t.Fatalf("expected one row after two upserts, got %d", len(list))
	}
	if list[0].Status != models.StatusPass || list[0].Remarks != "ok" {
		t.Fatalf("expected overwritten fields, got %+v", list[0])
	}
}

func TestUpsertWithForeignIDLeavesOwnerUntouched(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	a := mustCreateProject(t, g, "A")
	b := mustCreateProject(t, g, "B")

	tc, err := g.UpsertTestCase(ctx, models.TestCase{ProjectID: a.ID, TestNumber: "A-1"})
	if err != nil {
		t.Fatalf("insert test case: %v", err)
	}
	pa, err := g.UpsertParticipant(ctx, models.Participant{ProjectID: a.ID, Name: "Jane"})
	if err != nil {
		t.Fatalf("insert participant: %v", err)
	}
	ap, err := g.UpsertApproval(ctx, models.ApprovalSignoff{ProjectID: a.ID, Name: "Sam"})
	if err != nil {
		t.Fatalf("insert approval: %v", err)
	}

	if _, err := g.UpsertTestCase(ctx, models.TestCase{ID: tc.ID, ProjectID: b.ID, TestNumber: "taken"}); !errors.Is(err, ErrForeignRecord) {
		t.Fatalf("expected ErrForeignRecord for test case, got %v", err)
	}
	if _, err := g.UpsertParticipant(ctx, models.Participant{ID: pa.ID, ProjectID: b.ID, Name: "Mallory"}); !errors.Is(err, ErrForeignRecord) {
		t.Fatalf("expected ErrForeignRecord for participant, got %v", err)
	}
	if _, err := g.UpsertApproval(ctx, models.ApprovalSignoff{ID: ap.ID, ProjectID: b.ID, Name: "Mallory"}); !errors.Is(err, ErrForeignRecord) {
		t.Fatalf("expected ErrForeignRecord for approval, got %v", err)
	}

	if got := g.ListTestCases(ctx, a.ID); len(got) != 1 || got[0].TestNumber != "A-1" {
		t.Fatalf("expected project A test case unchanged, got %+v", got)
	}
	if got := g.ListParticipants(ctx, a.ID); len(got) != 1 || got[0].Name != "Jane" {
		t.Fatalf("expected project A participant unchanged, got %+v", got)
	}
	if got := g.ListApprovals(ctx, a.ID); len(got) != 1 || got[0].Name != "Sam" {
		t.Fatalf("expected project A approval unchanged, got %+v", got)
	}
	if n := len(g.ListTestCases(ctx, b.ID)) + len(g.ListParticipants(ctx, b.ID)) + len(g.ListApprovals(ctx, b.ID)); n != 0 {
		t.Fatalf("expected nothing moved into project B, got %d rows", n)
	}
}

func TestUpsertTestCaseRejectsUnknownStatus(t *testing.T) {
	g := newTestGateway(t)
	p := mustCreateProject(t, g, "UAT")

	_, err := g.UpsertTestCase(context.Background(), models.TestCase{ProjectID: p.ID, Status: "Done"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if got := g.ListTestCases(context.Background(), p.ID); len(got) != 0 {
		t.Fatalf("expected nothing stored, got %d rows", len(got))
	}
}

func TestUpsertRejectsUnknownProject(t *testing.T) {
	g := newTestGateway(t)

	_, err := g.UpsertParticipant(context.Background(), models.Participant{ProjectID: "nope", Name: "Jane"})
	if err == nil {
		t.Fatalf("expected foreign key failure")
	}
	var writeErr *WriteError
	if !errors.As(err, &writeErr) || writeErr.Op != "upsert" {
		t.Fatalf("expected upsert WriteError, got %#v", err)
	}
}

func TestListOrdering(t *testing.T) {
	g := newTestGateway(t)
	p := mustCreateProject(t, g, "UAT")
	other := mustCreateProject(t, g, "Other")
	ctx := context.Background()

	for _, n := range []string{"TC-03", "TC-01", "TC-02"} {
		if _, err := g.UpsertTestCase(ctx, models.TestCase{ProjectID: p.ID, TestNumber: n}); err != nil {
			t.Fatalf("insert %s: %v", n, err)
		}
	}
	if _, err := g.UpsertTestCase(ctx, models.TestCase{ProjectID: other.ID, TestNumber: "TC-00"}); err != nil {
		t.Fatalf("insert other project case: %v", err)
	}
	cases := g.ListTestCases(ctx, p.ID)
	if len(cases) != 3 {
		t.Fatalf("expected 3 cases filtered by project, got %d", len(cases))
	}
	for i, want := range []string{"TC-01", "TC-02", "TC-03"} {
		if cases[i].TestNumber != want {
			t.Fatalf("case %d: expected %s, got %s", i, want, cases[i].TestNumber)
		}
	}

	for _, name := range []string{"Zed", "Amy"} {
		if _, err := g.UpsertParticipant(ctx, models.Participant{ProjectID: p.ID, Name: name}); err != nil {
			t.Fatalf("insert participant %s: %v", name, err)
		}
	}
	participants := g.ListParticipants(ctx, p.ID)
	if len(participants) != 2 || participants[0].Name != "Zed" || participants[1].Name != "Amy" {
		t.Fatalf("expected participants in creation order, got %+v", participants)
	}
	if participants[0].ParticipantType != models.ParticipantExternal {
		t.Fatalf("expected default participant type external, got %q", participants[0].ParticipantType)
	}

	for _, name := range []string{"Sponsor", "QA Lead"} {
		if _, err := g.UpsertApproval(ctx, models.ApprovalSignoff{ProjectID: p.ID, Role: name}); err != nil {
			t.Fatalf("insert approval %s: %v", name, err)
		}
	}
	approvals := g.ListApprovals(ctx, p.ID)
	if len(approvals) != 2 || approvals[0].Role != "Sponsor" || approvals[1].Role != "QA Lead" {
		t.Fatalf("expected approvals in creation order, got %+v", approvals)
	}
}

func TestDeleteMissingRowReturnsNotFound(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	for name, del := range map[string]func(context.Context, string) error{
		"test case":   g.DeleteTestCase,
		"participant": g.DeleteParticipant,
		"approval":    g.DeleteApproval,
	} {
		if err := del(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
}

func TestDeleteParticipant(t *testing.T) {
	g := newTestGateway(t)
	p := mustCreateProject(t, g, "UAT")
	ctx := context.Background()

	saved, err := g.UpsertParticipant(ctx, models.Participant{ProjectID: p.ID, Name: "Jane", ParticipantType: models.ParticipantVendor})
	if err != nil {
		t.Fatalf("insert participant: %v", err)
	}
	if err := g.DeleteParticipant(ctx, saved.ID); err != nil {
		t.Fatalf("delete participant: %v", err)
	}
	if got := g.ListParticipants(ctx, p.ID); len(got) != 0 {
		t.Fatalf("expected participant removed, got %+v", got)
	}
}

func TestChangeLogMostRecentFirst(t *testing.T) {
	g := newTestGateway(t)
	p := mustCreateProject(t, g, "UAT")
	ctx := context.Background()

	old := "old"
	for _, field := range []string{"remarks", "status"} {
		_, err := g.AppendChange(ctx, models.ChangeLogEntry{
			ProjectID: p.ID,
			Entity:    models.EntityTestCase,
			EntityID:  "tc-1",
			Field:     field,
			OldValue:  &old,
			UserName:  "Tess",
		})
		if err != nil {
			t.Fatalf("append %s: %v", field, err)
		}
	}
	if _, err := g.AppendChange(ctx, models.ChangeLogEntry{ProjectID: p.ID, Entity: models.EntityProject, EntityID: p.ID, Field: "name"}); err != nil {
		t.Fatalf("append anonymous change: %v", err)
	}

	entries := g.ListChangeLog(ctx, p.ID)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Field != "name" || entries[1].Field != "status" || entries[2].Field != "remarks" {
		t.Fatalf("expected most recent first, got %s, %s, %s", entries[0].Field, entries[1].Field, entries[2].Field)
	}
	if entries[0].UserName != "Unknown" {
		t.Fatalf("expected Unknown user for anonymous change, got %q", entries[0].UserName)
	}
	if entries[0].OldValue != nil || entries[0].NewValue != nil {
		t.Fatalf("expected null values preserved, got %v -> %v", entries[0].OldValue, entries[0].NewValue)
	}
	if entries[2].OldValue == nil || *entries[2].OldValue != "old" || entries[2].NewValue != nil {
		t.Fatalf("unexpected values on remarks entry: %+v", entries[2])
	}
}

func TestAppendChangeRejectsUnknownEntity(t *testing.T) {
	g := newTestGateway(t)
	p := mustCreateProject(t, g, "UAT")

	_, err := g.AppendChange(context.Background(), models.ChangeLogEntry{ProjectID: p.ID, Entity: "signature", EntityID: "x", Field: "name"})
	if err == nil {
		t.Fatalf("expected check constraint failure")
	}
}

func TestReadFailureReturnsEmpty(t *testing.T) {
	g := newTestGateway(t)
	mustCreateProject(t, g, "UAT")
	if err := g.db.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	if got := g.ListProjects(context.Background()); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice on read failure, got %#v", got)
	}
	if got := g.ListTestCases(context.Background(), "p"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice on read failure, got %#v", got)
	}
}

func TestSessionActiveProject(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	id, err := g.ResolveSessionActiveProjectID(ctx, nil)
	if err != nil || id != nil {
		t.Fatalf("expected nil active project without projects, got %v, %v", id, err)
	}

	older := mustCreateProject(t, g, "Older")
	newer := mustCreateProject(t, g, "Newer")

	id, err = g.ResolveSessionActiveProjectID(ctx, &older.ID)
	if err != nil || id == nil || *id != older.ID {
		t.Fatalf("expected current project kept, got %v, %v", id, err)
	}
	missing := "missing"
	id, err = g.ResolveSessionActiveProjectID(ctx, &missing)
	if err != nil || id == nil || *id != newer.ID {
		t.Fatalf("expected fallback to newest project, got %v, %v", id, err)
	}
}

func TestRecordExportRun(t *testing.T) {
	g := newTestGateway(t)
	p := mustCreateProject(t, g, "UAT")
	ctx := context.Background()

	if err := g.RecordExportRun(ctx, nil, p.ID, "report_html"); err != nil {
		t.Fatalf("record export run: %v", err)
	}
	n, err := g.ExportRunCount(ctx, p.ID, "report_html")
	if err != nil {
		t.Fatalf("count export runs: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 export run, got %d", n)
	}
}
