package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User represents an authenticated app user.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,unique,notnull"`
	DisplayName  string    `bun:"display_name,notnull"`
	Email        string    `bun:"email,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Role         string    `bun:"role,notnull"`
	IsInternal   bool      `bun:"is_internal,notnull,default:true"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Session is used by middleware and auth handlers.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID                string         `bun:"id,pk"`
	UserID            int64          `bun:"user_id,notnull"`
	User              User           `bun:"rel:belongs-to,join:user_id=id"`
	UserRoles         []string       `bun:"-"`
	ScreenPermissions map[string]int `bun:"-"`
	ActiveProjectID   *string        `bun:"active_project_id"`
	ExpiresAt         time.Time      `bun:"expires_at,notnull"`
	CreatedAt         time.Time      `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt         time.Time      `bun:"updated_at,notnull,default:current_timestamp"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

type AuthProvider string

const (
	ProviderSSO       AuthProvider = "sso"
	ProviderMagicLink AuthProvider = "magic-link"
)

// AuthUser is the identity the workspace acts on behalf of.
type AuthUser struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Provider   AuthProvider `json:"provider"`
	IsInternal bool         `json:"isInternal"`
}

// AuthUserFromUser derives the workspace identity of a login user.
func AuthUserFromUser(u User) AuthUser {
	name := u.DisplayName
	if name == "" {
		name = u.Username
	}
	provider := ProviderMagicLink
	if u.IsInternal {
		provider = ProviderSSO
	}
	return AuthUser{
		ID:         u.Username,
		Name:       name,
		Email:      u.Email,
		Provider:   provider,
		IsInternal: u.IsInternal,
	}
}

// Project is one UAT test cycle.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	TestVersion string    `json:"testVersion"`
	Month       string    `json:"month"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ParticipantType string

const (
	ParticipantInternal ParticipantType = "internal"
	ParticipantVendor   ParticipantType = "vendor"
	ParticipantExternal ParticipantType = "external"
)

// Valid reports whether t is one of the known participant types.
func (t ParticipantType) Valid() bool {
	switch t {
	case ParticipantInternal, ParticipantVendor, ParticipantExternal:
		return true
	}
	return false
}

type Participant struct {
	ID              string          `json:"id"`
	ProjectID       string          `json:"projectId"`
	DemoAccount     string          `json:"demoAccount"`
	Role            string          `json:"role"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	ParticipantType ParticipantType `json:"participantType"`
}

type TestStatus string

const (
	StatusNone         TestStatus = ""
	StatusPass         TestStatus = "Pass"
	StatusPartial      TestStatus = "Partial"
	StatusFail         TestStatus = "Fail"
	StatusInapplicable TestStatus = "Inapplicable"
)

// Valid reports whether s is empty or one of the recorded outcomes.
func (s TestStatus) Valid() bool {
	switch s {
	case StatusNone, StatusPass, StatusPartial, StatusFail, StatusInapplicable:
		return true
	}
	return false
}

// TestCase is authored during test design (TestNumber..ExpectedResults) and
// filled in during execution (ActualResults, Status, Remarks).
type TestCase struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"projectId"`
	TestNumber      string     `json:"testNumber"`
	Category        string     `json:"category"`
	Role            string     `json:"role"`
	TestScenario    string     `json:"testScenario"`
	Preconditions   string     `json:"preconditions"`
	TestSteps       string     `json:"testSteps"`
	ExpectedResults string     `json:"expectedResults"`
	ActualResults   string     `json:"actualResults"`
	Status          TestStatus `json:"status"`
	Remarks         string     `json:"remarks"`
}

type ApprovalSignoff struct {
	ID                string `json:"id"`
	ProjectID         string `json:"projectId"`
	Role              string `json:"role"`
	Name              string `json:"name"`
	Unit              string `json:"unit"`
	Date              string `json:"date"`
	SignatureFilePath string `json:"signatureFilePath"`
	VerifiedBy        string `json:"verifiedBy"`
	Remarks           string `json:"remarks"`
	Month             string `json:"month"`
}

type EntityKind string

const (
	EntityProject         EntityKind = "project"
	EntityTestCase        EntityKind = "test_case"
	EntityParticipant     EntityKind = "participant"
	EntityApprovalSignoff EntityKind = "approval_signoff"
)

// DeletedField is the synthetic field name of a removal entry.
const DeletedField = "deleted"

// ChangeLogEntry is one field-level transition. Entries are append-only.
type ChangeLogEntry struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"projectId"`
	Entity    EntityKind `json:"entity"`
	EntityID  string     `json:"entityId"`
	Field     string     `json:"field"`
	OldValue  *string    `json:"oldValue"`
	NewValue  *string    `json:"newValue"`
	UserName  string     `json:"userName"`
	CreatedAt time.Time  `json:"createdAt"`
}
