package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"uattracker/infrastructure/sqlite"
	"uattracker/infrastructure/store"
	"uattracker/models"
)

func migrationsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations")
}

// seedProject creates a database with one project and returns its path and id.
func seedProject(t *testing.T) (string, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "uatctl.db")
	db, err := sqlite.OpenDB(dbPath)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, sqlite.ApplyMigrations(context.Background(), db, migrationsDir(t)))

	gw := store.NewGateway(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	p, err := gw.CreateProject(context.Background(), models.Project{Name: "CLI Cycle", TestVersion: "2.1", Month: "July"})
	require.NoError(t, err)
	return dbPath, p.ID
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"UAT_CONFIG_PATH", "SQLITE_PATH", "UAT_MIGRATIONS_DIR", "UAT_LOG_LEVEL", "UAT_SESSION_TTL"} {
		t.Setenv(key, "")
	}
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProjectsListsSeededProject(t *testing.T) {
	dbPath, projectID := seedProject(t)

	out, err := run(t, "projects", "--db", dbPath, "--migrations", migrationsDir(t))
	require.NoError(t, err)
	require.Contains(t, out, projectID)
	require.Contains(t, out, "CLI Cycle")
}

func TestImportThenReport(t *testing.T) {
	dbPath, projectID := seedProject(t)
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "cases.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Test Number,Test Scenario,Status\nTC-9,Export works,Pass\n"), 0o600))

	out, err := run(t, "import", "--db", dbPath, "--migrations", migrationsDir(t), "--project", projectID, "--file", csvPath, "--user", "Ops Bot")
	require.NoError(t, err)
	require.Contains(t, out, "inserted 1 of 1")

	for _, format := range []string{"html", "pdf", "csv"} {
		out, err = run(t, "report", "--db", dbPath, "--migrations", migrationsDir(t), "--project", projectID, "--format", format, "--out", dir)
		require.NoError(t, err, format)
		target := strings.TrimSpace(strings.TrimPrefix(out, "wrote "))
		body, err := os.ReadFile(target)
		require.NoError(t, err)
		switch format {
		case "pdf":
			require.True(t, bytes.HasPrefix(body, []byte("%PDF")))
		default:
			require.Contains(t, string(body), "TC-9")
		}
	}

	db, err := sqlite.OpenDB(dbPath)
	require.NoError(t, err)
	defer db.Close()
	gw := store.NewGateway(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	n, err := gw.ExportRunCount(context.Background(), projectID, "report_pdf")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	changes := gw.ListChangeLog(context.Background(), projectID)
	require.NotEmpty(t, changes)
	require.Equal(t, "Ops Bot", changes[0].UserName)
}

func TestReportRejectsUnknownFormatAndProject(t *testing.T) {
	dbPath, projectID := seedProject(t)

	_, err := run(t, "report", "--db", dbPath, "--migrations", migrationsDir(t), "--project", projectID, "--format", "docx")
	require.ErrorContains(t, err, "unknown format")

	_, err = run(t, "report", "--db", dbPath, "--migrations", migrationsDir(t), "--project", "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = run(t, "import", "--db", dbPath, "--migrations", migrationsDir(t), "--file", "x.csv")
	require.Error(t, err)
}
