package http

import (
	"net/http"

	adminusers "uattracker/frontend/adminUsers"
	"uattracker/frontend/dashboard"
	exportspage "uattracker/frontend/exports"
	"uattracker/frontend/help"
	"uattracker/frontend/login"
	projectspage "uattracker/frontend/projects"
	"uattracker/frontend/testcases"
	"uattracker/infrastructure/rbac"

	"github.com/go-chi/chi/v5"
)

// RegisterLoginRoutes registers login/logout routes.
func (s *Server) RegisterLoginRoutes() {
	s.router.Get("/login", login.GetLoginScreenHandler)
	s.router.Post("/login", login.CreateLoginHandler(s.DB, s.SessionCache, s.UserCache, s.SessionTTL))
	s.router.Post("/logout", login.LogoutHandler(s.DB, s.SessionCache, s.Workspaces))
}

// both grants a resource to every role.
func (s *Server) both(code, method, path string) {
	s.Rbac.Add(rbac.RoleAdmin, code, method, path)
	s.Rbac.Add(rbac.RoleTester, code, method, path)
}

// RegisterFrontendRoutes registers the dashboard page and its form posts.
func (s *Server) RegisterFrontendRoutes(r chi.Router) chi.Router {
	s.both("DASHBOARD_VIEW", http.MethodGet, "/uat")
	r.Get("/", dashboard.DashboardPageQueryHandler())

	s.both("PROJECTS_SELECT", http.MethodPost, "/uat/projects/select")
	r.Post("/projects/select", projectspage.SelectProjectFormHandler(s.Gateway, s.SessionCache))

	s.Rbac.Add(rbac.RoleAdmin, "PROJECTS_CREATE", http.MethodPost, "/uat/projects")
	r.Post("/projects", projectspage.CreateProjectFormHandler(s.Gateway, s.SessionCache))

	s.both("TEST_CASES_IMPORT", http.MethodPost, "/uat/test-cases/import")
	r.Post("/test-cases/import", testcases.ImportFormHandler())

	s.both("HELP_VIEW", http.MethodGet, "/uat/help")
	r.Get("/help", help.HelpPageQueryHandler())
	return r
}

// RegisterAPIRoutes registers the JSON workspace API.
func (s *Server) RegisterAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		s.both("WORKSPACE_VIEW", http.MethodGet, "/uat/api/workspace")
		r.Get("/workspace", dashboard.WorkspaceQueryHandler())
		s.both("SUMMARY_VIEW", http.MethodGet, "/uat/api/summary")
		r.Get("/summary", dashboard.SummaryQueryHandler())
		s.both("CHANGES_VIEW", http.MethodGet, "/uat/api/changes")
		r.Get("/changes", dashboard.ChangesQueryHandler())

		s.Rbac.Add(rbac.RoleAdmin, "PROJECTS_CREATE", http.MethodPost, "/uat/api/projects")
		r.Post("/projects", projectspage.CreateProjectCommandHandler(s.Gateway, s.SessionCache))
		s.Rbac.Add(rbac.RoleAdmin, "PROJECTS_EDIT", http.MethodPut, "/uat/api/projects/{id}")
		r.Put("/projects/{id}", projectspage.UpdateProjectCommandHandler())
		s.both("PROJECTS_SELECT", http.MethodPost, "/uat/api/projects/{id}/select")
		r.Post("/projects/{id}/select", projectspage.SelectProjectCommandHandler(s.Gateway, s.SessionCache))

		s.both("TEST_CASES_VIEW", http.MethodGet, "/uat/api/test-cases")
		r.Get("/test-cases", dashboard.TestCasesQueryHandler())
		s.both("TEST_CASES_SAVE", http.MethodPost, "/uat/api/test-cases")
		r.Post("/test-cases", dashboard.SaveTestCaseCommandHandler())
		s.both("TEST_CASES_IMPORT", http.MethodPost, "/uat/api/test-cases/import")
		r.Post("/test-cases/import", testcases.ImportCommandHandler())
		s.both("TEST_CASES_EXECUTE", http.MethodPatch, "/uat/api/test-cases/{id}")
		r.Patch("/test-cases/{id}", dashboard.PatchTestCaseCommandHandler())
		s.both("TEST_CASES_DELETE", http.MethodDelete, "/uat/api/test-cases/{id}")
		r.Delete("/test-cases/{id}", dashboard.DeleteTestCaseCommandHandler())

		s.both("PARTICIPANTS_VIEW", http.MethodGet, "/uat/api/participants")
		r.Get("/participants", dashboard.ParticipantsQueryHandler())
		s.Rbac.Add(rbac.RoleAdmin, "PARTICIPANTS_SAVE", http.MethodPost, "/uat/api/participants")
		r.Post("/participants", dashboard.SaveParticipantCommandHandler())
		s.Rbac.Add(rbac.RoleAdmin, "PARTICIPANTS_DELETE", http.MethodDelete, "/uat/api/participants/{id}")
		r.Delete("/participants/{id}", dashboard.DeleteParticipantCommandHandler())

		s.both("APPROVALS_VIEW", http.MethodGet, "/uat/api/approvals")
		r.Get("/approvals", dashboard.ApprovalsQueryHandler())
		s.Rbac.Add(rbac.RoleAdmin, "APPROVALS_SAVE", http.MethodPost, "/uat/api/approvals")
		r.Post("/approvals", dashboard.SaveApprovalCommandHandler())
		s.Rbac.Add(rbac.RoleAdmin, "APPROVALS_DELETE", http.MethodDelete, "/uat/api/approvals/{id}")
		r.Delete("/approvals/{id}", dashboard.DeleteApprovalCommandHandler())
	})
}

func (s *Server) RegisterExportRoutes(r chi.Router) {
	s.both("EXPORT_REPORT_HTML", http.MethodGet, "/uat/exports/report.html")
	r.Get("/exports/report.html", exportspage.ReportHTMLHandler(s.Gateway))

	s.both("EXPORT_REPORT_PDF", http.MethodGet, "/uat/exports/report.pdf")
	r.Get("/exports/report.pdf", exportspage.ReportPDFHandler(s.Gateway))

	s.both("EXPORT_TEST_CASES", http.MethodGet, "/uat/exports/test-cases.csv")
	r.Get("/exports/test-cases.csv", exportspage.TestCasesCSVHandler(s.Gateway))
}

// RegisterAdminRoutes registers admin-only routes.
func (s *Server) RegisterAdminRoutes(r chi.Router) chi.Router {
	s.Rbac.Add(rbac.RoleAdmin, "ADMIN_USERS_LIST_VIEW", http.MethodGet, "/uat/admin/users")
	r.Get("/admin/users", adminusers.UsersPageQueryHandler(s.DB))
	s.Rbac.Add(rbac.RoleAdmin, "ADMIN_USERS_CREATE", http.MethodPost, "/uat/admin/users")
	r.Post("/admin/users", adminusers.CreateUserCommandHandler(s.DB))
	return r
}
