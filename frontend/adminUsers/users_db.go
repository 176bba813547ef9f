package adminusers

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"uattracker/frontend/login"
	"uattracker/infrastructure/rbac"
	"uattracker/infrastructure/sqlite"
)

func LoadUsersPageData(ctx context.Context, db *sqlite.DB) (PageData, error) {
	users := make([]UserView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT id, username, display_name, email, role, is_internal
FROM users ORDER BY id ASC`).Scan(ctx, &users)
	})
	return PageData{Users: users}, err
}

// CreateUser adds a login account. Usernames are unique ignoring case.
func CreateUser(ctx context.Context, db *sqlite.DB, in login.UserInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if in.Username == "" {
		return ErrUsernameRequired
	}
	if strings.TrimSpace(in.Password) == "" {
		return ErrPasswordRequired
	}
	if !rbac.ValidRole(in.Role) {
		return ErrInvalidRole
	}
	if err := login.ValidatePasswordPolicy(strings.TrimSpace(in.Password)); err != nil {
		return err
	}

	var count int
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(1) FROM users WHERE LOWER(username) = ?`, strings.ToLower(in.Username)).Scan(ctx, &count)
	})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameExists
	}
	return login.UpsertUser(ctx, db, in)
}
