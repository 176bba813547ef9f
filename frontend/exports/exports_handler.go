package exports

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	sessioncontext "uattracker/frontend/shared/context"
	"uattracker/infrastructure/store"
)

func ReportHTMLHandler(gw *store.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, ok := loadRequestedReport(w, r, gw)
		if !ok {
			return
		}
		body, err := RenderReportHTML(r.Context(), data)
		if err != nil {
			http.Error(w, "failed to render report", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", attachment(ReportFilename(data.Project.Name)))
		_, _ = w.Write(body)
		recordExport(r, gw, data.Project.ID, ExportTypeReportHTML)
	}
}

func ReportPDFHandler(gw *store.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, ok := loadRequestedReport(w, r, gw)
		if !ok {
			return
		}
		body, err := RenderReportPDF(data, time.Now())
		if err != nil {
			slog.Error("render report pdf failed", slog.String("project_id", data.Project.ID), slog.Any("err", err))
			http.Error(w, "failed to render report pdf", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", attachment(ReportPDFFilename(data.Project.Name)))
		_, _ = w.Write(body)
		recordExport(r, gw, data.Project.ID, ExportTypeReportPDF)
	}
}

func TestCasesCSVHandler(gw *store.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, ok := loadRequestedReport(w, r, gw)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := WriteTestCasesCSV(&buf, data.TestCases); err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", attachment(TestCasesFilename(data.Project.Name)))
		_, _ = w.Write(buf.Bytes())
		recordExport(r, gw, data.Project.ID, ExportTypeTestCasesCSV)
	}
}

func loadRequestedReport(w http.ResponseWriter, r *http.Request, gw *store.Gateway) (ReportData, bool) {
	projectID := requestedProjectID(r)
	if projectID == "" {
		http.Error(w, "no project selected", http.StatusConflict)
		return ReportData{}, false
	}
	data, err := LoadReportData(r.Context(), gw, projectID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "project not found", http.StatusNotFound)
		return ReportData{}, false
	}
	if err != nil {
		http.Error(w, "failed to load project", http.StatusInternalServerError)
		return ReportData{}, false
	}
	return data, true
}

func recordExport(r *http.Request, gw *store.Gateway, projectID, exportType string) {
	if err := gw.RecordExportRun(r.Context(), sessionUserIDFromContext(r), projectID, exportType); err != nil {
		slog.Error("record export run failed", slog.String("type", exportType), slog.Any("err", err))
	}
}

func attachment(filename string) string {
	return "attachment; filename=" + strconv.Quote(filename)
}

func sessionUserIDFromContext(r *http.Request) *int64 {
	session, ok := sessioncontext.GetSessionFromContext(r.Context())
	if !ok || session.UserID <= 0 {
		return nil
	}
	id := session.UserID
	return &id
}

// requestedProjectID prefers ?project_id= over the session's active project.
func requestedProjectID(r *http.Request) string {
	if raw := strings.TrimSpace(r.URL.Query().Get("project_id")); raw != "" {
		return raw
	}
	session, ok := sessioncontext.GetSessionFromContext(r.Context())
	if !ok || session.ActiveProjectID == nil {
		return ""
	}
	return *session.ActiveProjectID
}
