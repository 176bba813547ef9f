package store

import (
	"time"

	"github.com/uptrace/bun"

	"uattracker/models"
)

type projectRow struct {
	bun.BaseModel `bun:"table:uat_project,alias:up"`

	ID          string    `bun:"id,pk"`
	Name        *string   `bun:"name"`
	TestVersion *string   `bun:"test_version"`
	Month       *string   `bun:"month"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
}

type participantRow struct {
	bun.BaseModel `bun:"table:participant,alias:pa"`

	ID              string    `bun:"id,pk"`
	ProjectID       string    `bun:"project_id,notnull"`
	DemoAccount     *string   `bun:"demo_account"`
	Role            *string   `bun:"role"`
	Name            *string   `bun:"name"`
	Email           *string   `bun:"email"`
	ParticipantType *string   `bun:"participant_type"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
}

type testCaseRow struct {
	bun.BaseModel `bun:"table:test_case,alias:tc"`

	ID              string    `bun:"id,pk"`
	ProjectID       string    `bun:"project_id,notnull"`
	TestNumber      *string   `bun:"test_number"`
	Category        *string   `bun:"category"`
	Role            *string   `bun:"role"`
	TestScenario    *string   `bun:"test_scenario"`
	Preconditions   *string   `bun:"preconditions"`
	TestSteps       *string   `bun:"test_steps"`
	ExpectedResults *string   `bun:"expected_results"`
	ActualResults   *string   `bun:"actual_results"`
	Status          *string   `bun:"status"`
	Remarks         *string   `bun:"remarks"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
}

type approvalRow struct {
	bun.BaseModel `bun:"table:approval_signoff,alias:ap"`

	ID                string    `bun:"id,pk"`
	ProjectID         string    `bun:"project_id,notnull"`
	Role              *string   `bun:"role"`
	Name              *string   `bun:"name"`
	Unit              *string   `bun:"unit"`
	Date              *string   `bun:"date"`
	SignatureFilePath *string   `bun:"signature_file_path"`
	VerifiedBy        *string   `bun:"verified_by"`
	Remarks           *string   `bun:"remarks"`
	Month             *string   `bun:"month"`
	CreatedAt         time.Time `bun:"created_at,notnull"`
}

type changeLogRow struct {
	bun.BaseModel `bun:"table:change_log,alias:cl"`

	ID        string    `bun:"id,pk"`
	ProjectID string    `bun:"project_id,notnull"`
	Entity    string    `bun:"entity,notnull"`
	EntityID  string    `bun:"entity_id,notnull"`
	Field     string    `bun:"field,notnull"`
	OldValue  *string   `bun:"old_value"`
	NewValue  *string   `bun:"new_value"`
	UserName  *string   `bun:"user_name"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// unknownUser is shown for change log rows written without a user name.
const unknownUser = "Unknown"

func mapProject(r projectRow) models.Project {
	return models.Project{
		ID:          r.ID,
		Name:        deref(r.Name),
		TestVersion: deref(r.TestVersion),
		Month:       deref(r.Month),
		CreatedAt:   r.CreatedAt,
	}
}

func unmapProject(p models.Project) projectRow {
	return projectRow{
		ID:          p.ID,
		Name:        strPtr(p.Name),
		TestVersion: strPtr(p.TestVersion),
		Month:       strPtr(p.Month),
		CreatedAt:   p.CreatedAt,
	}
}

func mapParticipant(r participantRow) models.Participant {
	kind := models.ParticipantType(deref(r.ParticipantType))
	if !kind.Valid() {
		kind = models.ParticipantExternal
	}
	return models.Participant{
		ID:              r.ID,
		ProjectID:       r.ProjectID,
		DemoAccount:     deref(r.DemoAccount),
		Role:            deref(r.Role),
		Name:            deref(r.Name),
		Email:           deref(r.Email),
		ParticipantType: kind,
	}
}

func unmapParticipant(p models.Participant) participantRow {
	return participantRow{
		ID:              p.ID,
		ProjectID:       p.ProjectID,
		DemoAccount:     strPtr(p.DemoAccount),
		Role:            strPtr(p.Role),
		Name:            strPtr(p.Name),
		Email:           strPtr(p.Email),
		ParticipantType: strPtr(string(p.ParticipantType)),
	}
}

func mapTestCase(r testCaseRow) models.TestCase {
	return models.TestCase{
		ID:              r.ID,
		ProjectID:       r.ProjectID,
		TestNumber:      deref(r.TestNumber),
		Category:        deref(r.Category),
		Role:            deref(r.Role),
		TestScenario:    deref(r.TestScenario),
		Preconditions:   deref(r.Preconditions),
		TestSteps:       deref(r.TestSteps),
		ExpectedResults: deref(r.ExpectedResults),
		ActualResults:   deref(r.ActualResults),
		Status:          models.TestStatus(deref(r.Status)),
		Remarks:         deref(r.Remarks),
	}
}

func unmapTestCase(tc models.TestCase) testCaseRow {
	return testCaseRow{
		ID:              tc.ID,
		ProjectID:       tc.ProjectID,
		TestNumber:      strPtr(tc.TestNumber),
		Category:        strPtr(tc.Category),
		Role:            strPtr(tc.Role),
		TestScenario:    strPtr(tc.TestScenario),
		Preconditions:   strPtr(tc.Preconditions),
		TestSteps:       strPtr(tc.TestSteps),
		ExpectedResults: strPtr(tc.ExpectedResults),
		ActualResults:   strPtr(tc.ActualResults),
		Status:          strPtr(string(tc.Status)),
		Remarks:         strPtr(tc.Remarks),
	}
}

func mapApproval(r approvalRow) models.ApprovalSignoff {
	return models.ApprovalSignoff{
		ID:                r.ID,
		ProjectID:         r.ProjectID,
		Role:              deref(r.Role),
		Name:              deref(r.Name),
		Unit:              deref(r.Unit),
		Date:              deref(r.Date),
		SignatureFilePath: deref(r.SignatureFilePath),
		VerifiedBy:        deref(r.VerifiedBy),
		Remarks:           deref(r.Remarks),
		Month:             deref(r.Month),
	}
}

func unmapApproval(a models.ApprovalSignoff) approvalRow {
	return approvalRow{
		ID:                a.ID,
		ProjectID:         a.ProjectID,
		Role:              strPtr(a.Role),
		Name:              strPtr(a.Name),
		Unit:              strPtr(a.Unit),
		Date:              strPtr(a.Date),
		SignatureFilePath: strPtr(a.SignatureFilePath),
		VerifiedBy:        strPtr(a.VerifiedBy),
		Remarks:           strPtr(a.Remarks),
		Month:             strPtr(a.Month),
	}
}

func mapChange(r changeLogRow) models.ChangeLogEntry {
	user := unknownUser
	if r.UserName != nil {
		user = *r.UserName
	}
	return models.ChangeLogEntry{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Entity:    models.EntityKind(r.Entity),
		EntityID:  r.EntityID,
		Field:     r.Field,
		OldValue:  r.OldValue,
		NewValue:  r.NewValue,
		UserName:  user,
		CreatedAt: r.CreatedAt,
	}
}

func unmapChange(c models.ChangeLogEntry) changeLogRow {
	return changeLogRow{
		ID:        c.ID,
		ProjectID: c.ProjectID,
		Entity:    string(c.Entity),
		EntityID:  c.EntityID,
		Field:     c.Field,
		OldValue:  c.OldValue,
		NewValue:  c.NewValue,
		UserName:  optionalUser(c.UserName),
		CreatedAt: c.CreatedAt,
	}
}

// optionalUser stores an unnamed change author as null.
func optionalUser(name string) *string {
	if name == "" {
		return nil
	}
	return &name
}
