package login

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"uattracker/infrastructure/argon"
	"uattracker/infrastructure/sqlite"
)

func openLoginTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "login-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestUpsertUserAndAuthenticate(t *testing.T) {
	db := openLoginTestDB(t)
	ctx := context.Background()

	if err := UpsertUser(ctx, db, UserInput{Username: "Alice", Role: "tester", IsInternal: true, Password: "Alice123!Secret"}); err != nil {
		t.Fatalf("upsert user: %v", err)
	}
	user, err := authenticateUser(ctx, db, "alice", "Alice123!Secret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.DisplayName != "Alice" || user.Role != "tester" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := authenticateUser(ctx, db, "alice", "Wrong123!Secret"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for bad password, got %v", err)
	}

	if err := UpsertUser(ctx, db, UserInput{Username: "Alice", DisplayName: "Alice A", Role: "admin", Password: "Alice456!Secret"}); err != nil {
		t.Fatalf("update user: %v", err)
	}
	user, err = authenticateUser(ctx, db, "Alice", "Alice456!Secret")
	if err != nil {
		t.Fatalf("authenticate after update: %v", err)
	}
	if user.Role != "admin" || user.DisplayName != "Alice A" || user.IsInternal {
		t.Fatalf("expected updated profile, got %+v", user)
	}
}

func TestUpsertUserRejectsWeakPassword(t *testing.T) {
	db := openLoginTestDB(t)
	if err := UpsertUser(context.Background(), db, UserInput{Username: "bob", Role: "tester", Password: "short"}); err == nil {
		t.Fatalf("expected password policy error")
	}
}

func TestPersistSessionResumesLastActiveProject(t *testing.T) {
	db := openLoginTestDB(t)
	ctx := context.Background()

	if err := UpsertUser(ctx, db, UserInput{Username: "carol", Role: "tester", Password: "Carol123!Secret"}); err != nil {
		t.Fatalf("upsert user: %v", err)
	}
	user, err := authenticateUser(ctx, db, "carol", "Carol123!Secret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	first := newSession(user, time.Hour)
	if err := persistSession(ctx, db, &first); err != nil {
		t.Fatalf("persist first session: %v", err)
	}
	if first.ActiveProjectID != nil {
		t.Fatalf("expected no project on first login, got %v", *first.ActiveProjectID)
	}

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE sessions SET active_project_id = 'p-42' WHERE id = ?`, first.ID)
		return err
	})
	if err != nil {
		t.Fatalf("set active project: %v", err)
	}
	if err := ExpireSessionByToken(ctx, db, first.ID); err != nil {
		t.Fatalf("expire session: %v", err)
	}
	if _, err := LoadSessionByToken(ctx, db, first.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected expired session to be rejected, got %v", err)
	}

	second := newSession(user, time.Hour)
	if err := persistSession(ctx, db, &second); err != nil {
		t.Fatalf("persist second session: %v", err)
	}
	if second.ActiveProjectID == nil || *second.ActiveProjectID != "p-42" {
		t.Fatalf("expected resumed project p-42, got %v", second.ActiveProjectID)
	}

	loaded, err := LoadSessionByToken(ctx, db, second.ID)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if loaded.User.Username != "carol" || loaded.ActiveProjectID == nil || *loaded.ActiveProjectID != "p-42" {
		t.Fatalf("unexpected loaded session: %+v", loaded)
	}
	if len(loaded.UserRoles) != 1 || loaded.UserRoles[0] != "tester" {
		t.Fatalf("expected roles [tester], got %v", loaded.UserRoles)
	}
}

func TestAuthenticateRehashesOutdatedHash(t *testing.T) {
	db := openLoginTestDB(t)
	ctx := context.Background()

	if err := UpsertUser(ctx, db, UserInput{Username: "dave", Role: "tester", Password: "Dave123!Secret"}); err != nil {
		t.Fatalf("upsert user: %v", err)
	}
	weak := argon.Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	oldHash, err := argon.CreateHash("Dave123!Secret", weak)
	if err != nil {
		t.Fatalf("create old hash: %v", err)
	}
	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE username = 'dave'`, oldHash)
		return err
	})
	if err != nil {
		t.Fatalf("store old hash: %v", err)
	}

	if _, err := authenticateUser(ctx, db, "dave", "Dave123!Secret"); err != nil {
		t.Fatalf("authenticate with old hash: %v", err)
	}

	var stored string
	err = db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE username = 'dave'`).Scan(&stored)
	})
	if err != nil {
		t.Fatalf("read hash: %v", err)
	}
	if stored == oldHash || argon.NeedsRehash(stored, argon.DefaultParams) {
		t.Fatalf("expected hash upgraded to default params, got %s", stored)
	}
	if _, err := authenticateUser(ctx, db, "dave", "Dave123!Secret"); err != nil {
		t.Fatalf("authenticate after rehash: %v", err)
	}
}
