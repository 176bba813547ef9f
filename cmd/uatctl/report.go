package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"uattracker/frontend/exports"
)

type reportOptions struct {
	projectID string
	format    string
	out       string
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	ro := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the final report or the test case CSV of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gw, _, closeDB, err := opts.openGateway(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			data, err := exports.LoadReportData(cmd.Context(), gw, ro.projectID)
			if err != nil {
				return err
			}

			var (
				body       []byte
				name       string
				exportType string
			)
			switch ro.format {
			case "html":
				body, err = exports.RenderReportHTML(cmd.Context(), data)
				name, exportType = exports.ReportFilename(data.Project.Name), exports.ExportTypeReportHTML
			case "pdf":
				body, err = exports.RenderReportPDF(data, time.Now())
				name, exportType = exports.ReportPDFFilename(data.Project.Name), exports.ExportTypeReportPDF
			case "csv":
				var buf bytes.Buffer
				err = exports.WriteTestCasesCSV(&buf, data.TestCases)
				body = buf.Bytes()
				name, exportType = exports.TestCasesFilename(data.Project.Name), exports.ExportTypeTestCasesCSV
			default:
				return fmt.Errorf("unknown format %q; use html, pdf or csv", ro.format)
			}
			if err != nil {
				return fmt.Errorf("render %s: %w", ro.format, err)
			}

			target := ro.out
			if target == "" {
				target = name
			} else if info, statErr := os.Stat(target); statErr == nil && info.IsDir() {
				target = filepath.Join(target, name)
			}
			if err := os.WriteFile(target, body, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if err := gw.RecordExportRun(cmd.Context(), nil, data.Project.ID, exportType); err != nil {
				return fmt.Errorf("record export run: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)
			return nil
		},
	}
	cmd.Flags().StringVar(&ro.projectID, "project", "", "project id")
	cmd.Flags().StringVar(&ro.format, "format", "html", "output format: html, pdf or csv")
	cmd.Flags().StringVar(&ro.out, "out", "", "output file or directory (defaults to the suggested file name)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
