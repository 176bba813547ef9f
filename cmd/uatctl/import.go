package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"uattracker/frontend/testcases"
	"uattracker/infrastructure/workspace"
	"uattracker/models"
)

type importOptions struct {
	projectID string
	file      string
	user      string
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	imp := &importOptions{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Append test cases from a CSV file to a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(imp.file)
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer f.Close()

			cases, err := testcases.ParseTestCasesCSV(f)
			if err != nil {
				return err
			}

			gw, logger, closeDB, err := opts.openGateway(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			ctrl := workspace.NewController(gw, models.AuthUser{ID: imp.user, Name: imp.user, IsInternal: true, Provider: models.ProviderSSO}, logger)
			if err := ctrl.Select(cmd.Context(), imp.projectID); err != nil {
				return fmt.Errorf("select project %s: %w", imp.projectID, err)
			}
			inserted, err := ctrl.ImportTestCases(cmd.Context(), cases)
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d of %d test cases\n", inserted, len(cases))
			return err
		},
	}
	cmd.Flags().StringVar(&imp.projectID, "project", "", "project id")
	cmd.Flags().StringVar(&imp.file, "file", "", "CSV file with a header row")
	cmd.Flags().StringVar(&imp.user, "user", "uatctl", "name recorded in the change log")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
