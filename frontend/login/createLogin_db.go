package login

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"uattracker/infrastructure/argon"
	"uattracker/infrastructure/sqlite"
	"uattracker/models"
)

// UserInput describes a login account to create or update.
type UserInput struct {
	Username    string
	DisplayName string
	Email       string
	Role        string
	IsInternal  bool
	Password    string
}

func findUserByUsername(ctx context.Context, tx bun.Tx, username string) (models.User, error) {
	var user models.User
	err := tx.NewSelect().
		Model(&user).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func authenticateUser(ctx context.Context, db *sqlite.DB, username, password string) (models.User, error) {
	var user models.User
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		user, err = findUserByUsername(ctx, tx, username)
		return err
	})
	if err != nil {
		return models.User{}, err
	}

	ok, err := argon.ComparePasswordAndHash(password, user.PasswordHash)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, sql.ErrNoRows
	}

	if argon.NeedsRehash(user.PasswordHash, argon.DefaultParams) {
		if err := rehashPassword(ctx, db, user.ID, password); err != nil {
			slog.Warn("password rehash failed", slog.String("username", user.Username), slog.Any("err", err))
		}
	}
	return user, nil
}

// rehashPassword stores a fresh hash made with the current parameters.
func rehashPassword(ctx context.Context, db *sqlite.DB, userID int64, password string) error {
	hash, err := argon.CreateHash(password, argon.DefaultParams)
	if err != nil {
		return err
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, hash, time.Now(), userID)
		return err
	})
}

// persistSession stores the session row. A new session resumes on the
// project the user last had active in any earlier session.
func persistSession(ctx context.Context, db *sqlite.DB, session *models.Session) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var last sql.NullString
		err := tx.NewRaw(`
SELECT active_project_id FROM sessions
WHERE user_id = ? AND active_project_id IS NOT NULL
ORDER BY updated_at DESC LIMIT 1`, session.UserID).Scan(ctx, &last)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if last.Valid {
			session.ActiveProjectID = &last.String
		}

		_, err = tx.NewInsert().Model(&models.Session{
			ID:              session.ID,
			UserID:          session.UserID,
			ActiveProjectID: session.ActiveProjectID,
			ExpiresAt:       session.ExpiresAt,
		}).Exec(ctx)
		return err
	})
}

// ExpireSessionByToken ends a session. The row is kept so its active
// project can seed the user's next login.
func ExpireSessionByToken(ctx context.Context, db *sqlite.DB, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model((*models.Session)(nil)).
			Set("expires_at = ?", time.Unix(0, 0).UTC()).
			Set("updated_at = CURRENT_TIMESTAMP").
			Where("id = ?", token).
			Exec(ctx)
		return err
	})
}

func LoadSessionByToken(ctx context.Context, db *sqlite.DB, token string) (models.Session, error) {
	var session models.Session
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().
			Model(&session).
			Relation("User").
			Where("s.id = ?", token).
			Limit(1).
			Scan(ctx); err != nil {
			return err
		}
		session.UserRoles = []string{session.User.Role}
		if session.ScreenPermissions == nil {
			session.ScreenPermissions = make(map[string]int)
		}
		return nil
	})
	if err != nil {
		return models.Session{}, err
	}
	if session.Expired() {
		return models.Session{}, sql.ErrNoRows
	}
	return session, nil
}

// UpsertUser creates the user or updates role, profile and password of an
// existing one with the same username.
func UpsertUser(ctx context.Context, db *sqlite.DB, in UserInput) error {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return errors.New("username is required")
	}
	rawPassword := strings.TrimSpace(in.Password)
	if rawPassword == "" {
		return errors.New("password is required")
	}
	if err := ValidatePasswordPolicy(rawPassword); err != nil {
		return err
	}
	hash, err := argon.CreateHash(rawPassword, argon.DefaultParams)
	if err != nil {
		return err
	}
	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		displayName = username
	}

	now := time.Now()
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO users (username, display_name, email, password_hash, role, is_internal, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(username) DO UPDATE SET
  display_name = excluded.display_name,
  email = excluded.email,
  password_hash = excluded.password_hash,
  role = excluded.role,
  is_internal = excluded.is_internal,
  updated_at = excluded.updated_at`, username, displayName, strings.TrimSpace(in.Email), hash, in.Role, in.IsInternal, now, now)
		return err
	})
}
