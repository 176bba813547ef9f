package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	sessioncontext "uattracker/frontend/shared/context"
	"uattracker/infrastructure/cache"
	"uattracker/infrastructure/sqlite"
	"uattracker/infrastructure/store"
	"uattracker/infrastructure/workspace"
	"uattracker/models"
)

type fixture struct {
	db       *sqlite.DB
	gw       *store.Gateway
	sessions *cache.UserSessionCache
	ctrl     *workspace.Controller
	session  models.Session
	router   http.Handler
}

func openProjectsTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "projects-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

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

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := openProjectsTestDB(t)
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, role) VALUES (1, 'ada', 'x', 'admin')`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO sessions (id, user_id, expires_at) VALUES ('sess-1', 1, ?)`, time.Now().Add(time.Hour))
		return err
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}

	f := &fixture{
		db:       db,
		gw:       store.NewGateway(db, slog.New(slog.NewTextHandler(io.Discard, nil))),
		sessions: cache.NewUserSessionCache(),
		session:  models.Session{ID: "sess-1", UserID: 1, User: models.User{ID: 1, Username: "ada", Role: "admin"}},
	}
	f.ctrl = workspace.NewController(f.gw, models.AuthUserFromUser(f.session.User), nil)
	if err := f.ctrl.Init(ctx, ""); err != nil {
		t.Fatalf("init: %v", err)
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			c := sessioncontext.NewContextWithSession(req.Context(), f.session)
			c = sessioncontext.NewContextWithWorkspace(c, f.ctrl)
			next.ServeHTTP(w, req.WithContext(c))
		})
	})
	r.Post("/api/projects", CreateProjectCommandHandler(f.gw, f.sessions))
	r.Put("/api/projects/{id}", UpdateProjectCommandHandler())
	r.Post("/api/projects/{id}/select", SelectProjectCommandHandler(f.gw, f.sessions))
	r.Post("/projects", CreateProjectFormHandler(f.gw, f.sessions))
	r.Post("/projects/select", SelectProjectFormHandler(f.gw, f.sessions))
	f.router = r
	return f
}

func (f *fixture) send(method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) storedActiveProject(t *testing.T) string {
	t.Helper()
	var id sql.NullString
	err := f.db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT active_project_id FROM sessions WHERE id = 'sess-1'`).Scan(ctx, &id)
	})
	if err != nil {
		t.Fatalf("read session: %v", err)
	}
	return id.String
}

func TestCreateProjectSelectsAndPersists(t *testing.T) {
	f := newFixture(t)

	rec := f.send(http.MethodPost, "/api/projects", "application/json", `{"name":"Release 10","testVersion":"10.0","month":"June"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created models.Project
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f.ctrl.ActiveProjectID() != created.ID {
		t.Fatalf("expected new project to be active")
	}
	if got := f.storedActiveProject(t); got != created.ID {
		t.Fatalf("expected session active project %s, got %q", created.ID, got)
	}
	cached, ok := f.sessions.FindSessionBySessionToken("sess-1")
	if !ok || cached.ActiveProjectID == nil || *cached.ActiveProjectID != created.ID {
		t.Fatalf("expected session cache to carry the active project")
	}
}

func TestCreateProjectRequiresName(t *testing.T) {
	f := newFixture(t)

	rec := f.send(http.MethodPost, "/api/projects", "application/json", `{"name":"  "}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestUpdateAndSelectProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.ctrl.CreateProject(ctx, models.Project{Name: "First"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := f.ctrl.CreateProject(ctx, models.Project{Name: "Second"}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	rec := f.send(http.MethodPut, "/api/projects/"+first.ID, "application/json", `{"name":"First (renamed)","testVersion":"1.1","month":"July"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.send(http.MethodPost, "/api/projects/"+first.ID+"/select", "application/json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("select: expected 200, got %d", rec.Code)
	}
	var snap workspace.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.ActiveProject == nil || snap.ActiveProject.Name != "First (renamed)" {
		t.Fatalf("unexpected active project %+v", snap.ActiveProject)
	}
	if len(snap.ChangeLog) == 0 {
		t.Fatalf("expected project edits in the change log")
	}

	rec = f.send(http.MethodPost, "/api/projects/missing/select", "application/json", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown project, got %d", rec.Code)
	}
	rec = f.send(http.MethodPut, "/api/projects/missing", "application/json", `{"name":"x"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown project update, got %d", rec.Code)
	}
}

func TestProjectFormsRedirectToDashboard(t *testing.T) {
	f := newFixture(t)

	form := url.Values{"name": {"Form Project"}, "test_version": {"2.0"}, "month": {"August"}}
	rec := f.send(http.MethodPost, "/projects", "application/x-www-form-urlencoded", form.Encode())
	if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/uat?status=") {
		t.Fatalf("expected status redirect, got %d %s", rec.Code, rec.Header().Get("Location"))
	}

	rec = f.send(http.MethodPost, "/projects/select", "application/x-www-form-urlencoded", url.Values{"project_id": {"nope"}}.Encode())
	if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/uat?error=") {
		t.Fatalf("expected error redirect, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
}
