package http

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	loginflow "uattracker/frontend/login"
	sessioncontext "uattracker/frontend/shared/context"
	"uattracker/frontend/shared/jsonapi"
	"uattracker/infrastructure/cache"
	"uattracker/infrastructure/rbac"
	sessioncookie "uattracker/infrastructure/session"
	"uattracker/infrastructure/sqlite"
	"uattracker/infrastructure/store"
	"uattracker/infrastructure/workspace"
	"uattracker/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed assets/*
var assets embed.FS

var ShutdownTimeout = 2 * time.Second

// Server bundles dependencies and route wiring.
type Server struct {
	Addr   string
	ln     net.Listener
	server *http.Server
	router *chi.Mux

	DB           *sqlite.DB
	Gateway      *store.Gateway
	SessionCache *cache.UserSessionCache
	UserCache    *cache.UserCache
	RbacCache    *cache.RbacRolesCache
	Rbac         *rbac.Rbac
	Workspaces   *cache.WorkspaceCache
	Logger       *slog.Logger
	SessionTTL   time.Duration
}

// Deps carries the collaborators NewServer wires into routes.
type Deps struct {
	DB           *sqlite.DB
	Gateway      *store.Gateway
	SessionCache *cache.UserSessionCache
	UserCache    *cache.UserCache
	RbacCache    *cache.RbacRolesCache
	Rbac         *rbac.Rbac
	Workspaces   *cache.WorkspaceCache
	Logger       *slog.Logger
	SessionTTL   time.Duration
}

// NewServer creates a new http server.
func NewServer(addr string, d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Workspaces == nil {
		d.Workspaces = cache.NewWorkspaceCache()
	}
	if d.Gateway == nil {
		d.Gateway = store.NewGateway(d.DB, d.Logger)
	}
	if d.SessionTTL <= 0 {
		d.SessionTTL = sessioncookie.DefaultTTL
	}
	s := &Server{
		Addr:         addr,
		router:       chi.NewRouter(),
		DB:           d.DB,
		Gateway:      d.Gateway,
		SessionCache: d.SessionCache,
		UserCache:    d.UserCache,
		RbacCache:    d.RbacCache,
		Rbac:         d.Rbac,
		Workspaces:   d.Workspaces,
		Logger:       d.Logger,
		SessionTTL:   d.SessionTTL,
		server: &http.Server{
			MaxHeaderBytes: 1 << 20,
		},
	}

	// Secure headers first.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-XSS-Protection", "1; mode=block")
			next.ServeHTTP(w, r)
		})
	})

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Compress(5))
	s.router.Use(s.CSRFMiddleware)

	// Handle root requests - check auth status but don't require it.
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		sessionCookie, err := r.Cookie(sessioncookie.CookieName)
		if err != nil || sessionCookie.Value == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		session, ok := s.resolveSession(r.Context(), sessionCookie.Value)
		if !ok || session.Expired() {
			http.SetCookie(w, sessioncookie.SessionCookie("", -1))
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/uat", http.StatusSeeOther)
	})

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Serve assets from embedded FS.
	var assetsFS fs.FS = assets
	if sub, err := fs.Sub(assets, "assets"); err == nil {
		assetsFS = sub
	} else {
		s.Logger.Error("assets subfs init failed; serving fallback fs", slog.Any("err", err))
	}
	s.router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))

	s.RegisterLoginRoutes()

	s.router.Group(func(r chi.Router) {
		r.Route("/uat", func(r chi.Router) {
			r.Use(s.AuthenticateMiddleware)
			r.Use(s.WorkspaceMiddleware)
			s.RegisterFrontendRoutes(r)
			s.RegisterAPIRoutes(r)
			s.RegisterExportRoutes(r)
			s.RegisterAdminRoutes(r)
		})
	})

	s.server.Handler = s.router
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/uat/api/")
}

// deny answers an unauthenticated or forbidden request. API callers get a
// JSON status; pages are sent to the login screen.
func deny(w http.ResponseWriter, r *http.Request, status int) {
	if isAPIPath(r.URL.Path) {
		jsonapi.WriteMessage(w, status, http.StatusText(status))
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// AuthenticateMiddleware loads session and applies RBAC checks.
func (s *Server) AuthenticateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionCookie, err := r.Cookie(sessioncookie.CookieName)
		if err != nil || sessionCookie.Value == "" {
			deny(w, r, http.StatusUnauthorized)
			return
		}

		sessionToken := sessionCookie.Value
		session, ok := s.resolveSession(r.Context(), sessionToken)
		if !ok {
			s.Logger.Warn("session not found", slog.String("method", r.Method), slog.String("path", r.URL.Path))
			deny(w, r, http.StatusUnauthorized)
			return
		}

		if session.Expired() {
			http.SetCookie(w, sessioncookie.SessionCookie("", -1))
			s.SessionCache.DeleteSessionBySessionToken(sessionToken)
			s.Workspaces.Delete(sessionToken)
			if err := ExpireSessionByID(s.DB, sessionToken); err != nil {
				s.Logger.Error("cannot expire session in DB", slog.String("session_id", sessionToken), slog.Any("err", err))
			}
			deny(w, r, http.StatusUnauthorized)
			return
		}

		isAdmin := hasRole(session.UserRoles, rbac.RoleAdmin)
		if isAdmin {
			session.ScreenPermissions = s.RbacCache.GetAllRouteNames()
		}
		if len(session.ScreenPermissions) == 0 {
			session.ScreenPermissions = s.buildRbacNamedRoutesMap(session.UserRoles)
			if session.ScreenPermissions == nil {
				session.ScreenPermissions = make(map[string]int)
			}
		}

		if !isAdmin && !s.RbacValidation(session.UserRoles, r.URL.Path, r.Method) {
			s.Logger.Warn("rbac denied", slog.String("user", session.User.Username), slog.String("method", r.Method), slog.String("path", r.URL.Path))
			deny(w, r, http.StatusForbidden)
			return
		}

		ctx := sessioncontext.NewContextWithSession(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WorkspaceMiddleware attaches the session's workspace controller, creating
// and initialising it on the session's first request.
func (s *Server) WorkspaceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			deny(w, r, http.StatusUnauthorized)
			return
		}

		ctrl, _ := s.Workspaces.GetOrCreate(session.ID, func() *workspace.Controller {
			return workspace.NewController(s.Gateway, models.AuthUserFromUser(session.User), s.Logger.With(slog.String("user", session.User.Username)))
		})
		err := ctrl.EnsureInit(r.Context(), func() string {
			return s.ensureSessionActiveProject(r.Context(), &session)
		})
		if err != nil {
			s.Logger.Error("workspace init failed", slog.String("session_id", session.ID), slog.Any("err", err))
		}

		ctx := sessioncontext.NewContextWithSession(r.Context(), session)
		ctx = sessioncontext.NewContextWithWorkspace(ctx, ctrl)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) resolveSession(ctx context.Context, token string) (session models.Session, ok bool) {
	if cached, found := s.SessionCache.FindSessionBySessionToken(token); found {
		return cached, true
	}

	dbSession, err := loginflow.LoadSessionByToken(ctx, s.DB, token)
	if err != nil {
		if err != sql.ErrNoRows {
			s.Logger.Error("load session from db failed", slog.String("session_id", token), slog.Any("err", err))
		}
		return session, false
	}

	s.SessionCache.AddSession(dbSession)
	s.UserCache.Add(dbSession.User.Username, dbSession.User)
	return dbSession, true
}

// ensureSessionActiveProject resolves the session's stored project against
// the current project list and persists any correction. It returns the
// project id to open, or "" when none exist.
func (s *Server) ensureSessionActiveProject(ctx context.Context, session *models.Session) string {
	if session == nil || session.ID == "" {
		return ""
	}
	projectID, err := s.Gateway.ResolveSessionActiveProjectID(ctx, session.ActiveProjectID)
	if err != nil {
		s.Logger.Error("resolve session active project failed", slog.String("session_id", session.ID), slog.Any("err", err))
		return deref(session.ActiveProjectID)
	}
	if sameProjectID(session.ActiveProjectID, projectID) {
		return deref(projectID)
	}
	if err := s.Gateway.SetSessionActiveProjectID(ctx, session.ID, projectID); err != nil {
		s.Logger.Error("set session active project failed", slog.String("session_id", session.ID), slog.Any("err", err))
		return deref(projectID)
	}
	session.ActiveProjectID = projectID
	if s.SessionCache != nil {
		s.SessionCache.AddSession(*session)
	}
	return deref(projectID)
}

func sameProjectID(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func (s *Server) buildRbacNamedRoutesMap(userRoles []string) map[string]int {
	perms := make(map[string]int)
	resources := s.RbacCache.GetRolesAndResources(userRoles)
	if len(resources) == 0 {
		return nil
	}
	for _, res := range resources {
		perms[res.UserResourceCode] = 1
	}
	return perms
}

func (s *Server) RbacValidation(userRoles []string, url, method string) bool {
	if len(userRoles) == 0 {
		return false
	}
	resources := s.RbacCache.GetRolesAndResources(userRoles)
	if len(resources) == 0 {
		return false
	}
	return rbac.ValidateResourceAccess(resources, url, method)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go s.server.Serve(s.ln)
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %v", err)
	}
	s.ln = nil
	return nil
}

// SweepExpiredSessions drops expired sessions from memory along with their
// workspaces and returns how many were removed.
func (s *Server) SweepExpiredSessions(now time.Time) int {
	tokens := s.SessionCache.PurgeExpired(now)
	for _, token := range tokens {
		s.Workspaces.Delete(token)
	}
	return len(tokens)
}

// RunSessionSweeper calls SweepExpiredSessions every interval until ctx is done.
func (s *Server) RunSessionSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.SweepExpiredSessions(now); n > 0 {
				s.Logger.Info("swept expired sessions", slog.Int("count", n))
			}
		}
	}
}

// ExpireSessionByID ends a session using a write transaction.
func ExpireSessionByID(db *sqlite.DB, sessionID string) error {
	return loginflow.ExpireSessionByToken(context.Background(), db, sessionID)
}
